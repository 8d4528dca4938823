package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keepsakes/apperror"
	"keepsakes/dto/req"
	"keepsakes/entity"
	"keepsakes/enum"
	"keepsakes/testutil"
)

func TestResolveConversation_ReturnsSameConversationForEitherOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db)
	bob := testutil.CreateUser(t, f.db)

	first, err := f.conversations.ResolveConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	second, err := f.conversations.ResolveConversation(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, alice.ID, first.Participant1ID)
	assert.Equal(t, bob.ID, first.Participant2ID)

	var count int64
	require.NoError(t, f.db.Model(&entity.Conversation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResolveConversation_ConcurrentCallsCreateOneConversation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db)
	bob := testutil.CreateUser(t, f.db)

	const workers = 8
	ids := make([]string, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := alice.ID, bob.ID
			if i%2 == 1 {
				a, b = b, a
			}
			conversation, err := f.conversations.ResolveConversation(ctx, a, b)
			errs[i] = err
			if conversation != nil {
				ids[i] = conversation.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	var count int64
	require.NoError(t, f.db.Model(&entity.Conversation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResolveConversation_RejectsSelf(t *testing.T) {
	f := newFixture(t, nil)
	alice := testutil.CreateUser(t, f.db)

	_, err := f.conversations.ResolveConversation(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, apperror.ErrSelfConversation)
}

func TestDeleteConversation_RemovesMessagesAndAttachments(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db)
	bob := testutil.CreateUser(t, f.db)

	first, err := f.messages.SendMessage(ctx, alice.ID, &req.SendMessageRequest{
		Content:        "hi",
		RecipientID:    bob.ID,
		AttachmentURLs: []string{testutil.AttachmentURL("dm/a.jpg")},
	})
	require.NoError(t, err)
	_, err = f.messages.SendMessage(ctx, bob.ID, &req.SendMessageRequest{
		RecipientID:    alice.ID,
		ConversationID: &first.ConversationID,
		AttachmentURLs: []string{testutil.AttachmentURL("dm/b.png"), testutil.AttachmentURL("dm/c.webp")},
	})
	require.NoError(t, err)

	require.NoError(t, f.conversations.DeleteConversation(ctx, first.ConversationID, bob.ID))

	var conversations, messages int64
	require.NoError(t, f.db.Model(&entity.Conversation{}).Count(&conversations).Error)
	require.NoError(t, f.db.Model(&entity.DirectMessage{}).Count(&messages).Error)
	assert.Zero(t, conversations)
	assert.Zero(t, messages)
	assert.ElementsMatch(t, []string{"dm/a", "dm/b", "dm/c"}, f.store.DeletedKeys())

	events := f.publisher.Events()
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, enum.EventConversationDeleted, last.Type)
	assert.ElementsMatch(t, []string{alice.ID, bob.ID}, last.Recipients)
}

func TestDeleteConversation_SucceedsWhenRemoteDeleteFails(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db)
	bob := testutil.CreateUser(t, f.db)
	f.store.FailDelete["dm/broken"] = true

	sent, err := f.messages.SendMessage(ctx, alice.ID, &req.SendMessageRequest{
		RecipientID:    bob.ID,
		AttachmentURLs: []string{testutil.AttachmentURL("dm/broken.jpg"), testutil.AttachmentURL("dm/fine.jpg")},
	})
	require.NoError(t, err)

	require.NoError(t, f.conversations.DeleteConversation(ctx, sent.ConversationID, alice.ID))

	var messages int64
	require.NoError(t, f.db.Model(&entity.DirectMessage{}).Count(&messages).Error)
	assert.Zero(t, messages)
	assert.ElementsMatch(t, []string{"dm/broken", "dm/fine"}, f.store.DeletedKeys())
	assert.Contains(t, f.storageLog.String(), "failed to delete remote attachment")
}

func TestDeleteConversation_Errors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db)
	bob := testutil.CreateUser(t, f.db)
	mallory := testutil.CreateUser(t, f.db)

	conversation, err := f.conversations.ResolveConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	err = f.conversations.DeleteConversation(ctx, "missing", alice.ID)
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))

	err = f.conversations.DeleteConversation(ctx, conversation.ID, mallory.ID)
	assert.ErrorIs(t, err, apperror.ErrNotParticipant)

	err = f.conversations.DeleteConversation(ctx, conversation.ID, "")
	assert.ErrorIs(t, err, apperror.ErrNotAuthenticated)
}

func TestListConversations_NewestFirstWithPlaceholder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db)
	bob := testutil.CreateUser(t, f.db)
	carol := testutil.CreateUser(t, f.db)

	_, err := f.messages.SendMessage(ctx, bob.ID, &req.SendMessageRequest{Content: "older", RecipientID: alice.ID})
	require.NoError(t, err)
	_, err = f.messages.SendMessage(ctx, carol.ID, &req.SendMessageRequest{
		RecipientID:    alice.ID,
		AttachmentURLs: []string{testutil.AttachmentURL("dm/photo.jpg")},
	})
	require.NoError(t, err)

	inbox, err := f.conversations.ListConversations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, carol.ID, inbox[0].OtherUser.ID)
	require.NotNil(t, inbox[0].LastMessage)
	assert.Equal(t, "[Attachments]", inbox[0].LastMessage.Content)
	assert.Equal(t, bob.ID, inbox[1].OtherUser.ID)
	assert.Equal(t, "older", inbox[1].LastMessage.Content)

	bobInbox, err := f.conversations.ListConversations(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobInbox, 1)
	assert.Equal(t, alice.ID, bobInbox[0].OtherUser.ID)
}

func TestGetThread(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db)
	bob := testutil.CreateUser(t, f.db)

	thread, err := f.conversations.GetThread(ctx, alice.ID, bob.Slug)
	require.NoError(t, err)
	assert.Nil(t, thread.ConversationID)
	assert.Empty(t, thread.Messages)
	assert.Equal(t, bob.ID, thread.Recipient.ID)

	for _, content := range []string{"one", "two", "three"} {
		_, err := f.messages.SendMessage(ctx, alice.ID, &req.SendMessageRequest{Content: content, RecipientID: bob.ID})
		require.NoError(t, err)
	}
	require.NoError(t, f.blocks.Block(ctx, bob.ID, alice.ID))

	thread, err = f.conversations.GetThread(ctx, alice.ID, bob.Slug)
	require.NoError(t, err)
	require.NotNil(t, thread.ConversationID)
	assert.True(t, thread.IsBlocked)
	require.Len(t, thread.Messages, 3)
	assert.Equal(t, "one", thread.Messages[0].Content)
	assert.Equal(t, "three", thread.Messages[2].Content)
	assert.Equal(t, alice.Name, thread.Messages[0].SenderName)

	_, err = f.conversations.GetThread(ctx, alice.ID, alice.Slug)
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))
	_, err = f.conversations.GetThread(ctx, alice.ID, "nobody")
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))
}

func TestMarkConversationRead(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db)
	bob := testutil.CreateUser(t, f.db)

	sent, err := f.messages.SendMessage(ctx, alice.ID, &req.SendMessageRequest{Content: "a", RecipientID: bob.ID})
	require.NoError(t, err)
	_, err = f.messages.SendMessage(ctx, alice.ID, &req.SendMessageRequest{Content: "b", RecipientID: bob.ID})
	require.NoError(t, err)
	_, err = f.messages.SendMessage(ctx, bob.ID, &req.SendMessageRequest{Content: "c", RecipientID: alice.ID})
	require.NoError(t, err)

	result, err := f.conversations.MarkConversationRead(ctx, sent.ConversationID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Updated)

	result, err = f.conversations.MarkConversationRead(ctx, sent.ConversationID, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, result.Updated)
}
