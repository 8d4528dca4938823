package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"keepsakes/apperror"
	"keepsakes/attachment"
	"keepsakes/dto"
	"keepsakes/dto/res"
	"keepsakes/entity"
	"keepsakes/enum"
	"keepsakes/metrics"
	"keepsakes/repository"
)

type ConversationUsecaseImpl struct {
	*repository.ConversationRepository
	MessageRepository *repository.MessageRepository
	UserRepository    *repository.UserRepository
	*gorm.DB
	*logrus.Logger
	Blocks      BlockUsecase
	Attachments *attachment.Manager
	Publisher   EventPublisher
}

func NewConversationUsecase(
	conversationRepository *repository.ConversationRepository,
	messageRepository *repository.MessageRepository,
	userRepository *repository.UserRepository,
	DB *gorm.DB,
	logger *logrus.Logger,
	blocks BlockUsecase,
	attachments *attachment.Manager,
	publisher EventPublisher,
) *ConversationUsecaseImpl {
	if publisher == nil {
		publisher = NopPublisher()
	}
	return &ConversationUsecaseImpl{
		ConversationRepository: conversationRepository,
		MessageRepository:      messageRepository,
		UserRepository:         userRepository,
		DB:                     DB,
		Logger:                 logger,
		Blocks:                 blocks,
		Attachments:            attachments,
		Publisher:              publisher,
	}
}

func (uc *ConversationUsecaseImpl) ResolveConversation(ctx context.Context, userAID, userBID string) (*entity.Conversation, error) {
	if userAID == userBID {
		return nil, apperror.ErrSelfConversation
	}

	existing, err := uc.ConversationRepository.FindByPair(ctx, uc.DB, userAID, userBID)
	if err != nil {
		uc.Logger.WithError(err).Error("Failed to look up conversation")
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return existing, nil
	}

	conversation := &entity.Conversation{
		Participant1ID: userAID,
		Participant2ID: userBID,
		PairKey:        entity.PairKeyOf(userAID, userBID),
	}
	if err := uc.ConversationRepository.Save(ctx, uc.DB, conversation); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			uc.Logger.WithError(err).Error("Failed to create conversation")
			return nil, apperror.Internal(err)
		}
		// another request created the pair first
		existing, err = uc.ConversationRepository.FindByPair(ctx, primary(uc.DB), userAID, userBID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if existing == nil {
			return nil, apperror.Internal(errors.New("conversation vanished after duplicate insert"))
		}
		return existing, nil
	}

	metrics.ConversationsCreated.Inc()
	uc.Logger.Infof("Conversation %s created between %s and %s", conversation.ID, userAID, userBID)
	return conversation, nil
}

func (uc *ConversationUsecaseImpl) ListConversations(ctx context.Context, callerID string) ([]res.ConversationResponse, error) {
	if callerID == "" {
		return nil, apperror.ErrNotAuthenticated
	}
	conversations, err := uc.ConversationRepository.FindAllByUserID(ctx, uc.DB, callerID)
	if err != nil {
		uc.Logger.WithError(err).Error("Failed to list conversations")
		return nil, apperror.Internal(err)
	}

	responses := make([]res.ConversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		other := conversation.Participant2
		if conversation.OtherParticipant(callerID) == conversation.Participant1ID {
			other = conversation.Participant1
		}
		latest, err := uc.MessageRepository.FindLatest(ctx, uc.DB, conversation.ID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		responses = append(responses, res.ConversationResponse{
			ID:          conversation.ID,
			OtherUser:   toUserSummary(other),
			LastMessage: toLastMessageResponse(latest),
			UpdatedAt:   conversation.UpdatedAt,
		})
	}
	return responses, nil
}

func (uc *ConversationUsecaseImpl) GetThread(ctx context.Context, callerID, recipientSlug string) (res.ThreadResponse, error) {
	if callerID == "" {
		return res.ThreadResponse{}, apperror.ErrNotAuthenticated
	}
	recipient, err := uc.UserRepository.FindBySlug(ctx, uc.DB, recipientSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return res.ThreadResponse{}, apperror.NotFound("User", recipientSlug)
		}
		return res.ThreadResponse{}, apperror.Internal(err)
	}
	if recipient.ID == callerID {
		return res.ThreadResponse{}, apperror.NotFound("User", recipientSlug)
	}

	blocked, err := uc.Blocks.IsBlocked(ctx, callerID, recipient.ID)
	if err != nil {
		return res.ThreadResponse{}, err
	}

	thread := res.ThreadResponse{
		Recipient: toUserSummary(recipient),
		IsBlocked: blocked,
		Messages:  []res.MessageResponse{},
	}

	conversation, err := uc.ConversationRepository.FindByPair(ctx, uc.DB, callerID, recipient.ID)
	if err != nil {
		return res.ThreadResponse{}, apperror.Internal(err)
	}
	if conversation == nil {
		return thread, nil
	}

	messages, err := uc.MessageRepository.FindByConversationID(ctx, uc.DB, conversation.ID)
	if err != nil {
		return res.ThreadResponse{}, apperror.Internal(err)
	}
	thread.ConversationID = &conversation.ID
	for _, message := range messages {
		thread.Messages = append(thread.Messages, toMessageResponse(message))
	}
	return thread, nil
}

func (uc *ConversationUsecaseImpl) MarkConversationRead(ctx context.Context, conversationID, callerID string) (res.MarkReadResponse, error) {
	conversation, err := uc.participantConversation(ctx, conversationID, callerID)
	if err != nil {
		return res.MarkReadResponse{}, err
	}
	updated, err := uc.MessageRepository.MarkRead(ctx, uc.DB, conversation.ID, callerID, time.Now())
	if err != nil {
		uc.Logger.WithError(err).Errorf("Failed to mark conversation %s read", conversation.ID)
		return res.MarkReadResponse{}, apperror.Internal(err)
	}
	if updated > 0 {
		uc.Publisher.Publish(dto.MessageEvent{
			Type:           enum.EventConversationRead,
			ConversationID: conversation.ID,
			Recipients:     []string{conversation.Participant1ID, conversation.Participant2ID},
		})
	}
	return res.MarkReadResponse{Updated: updated}, nil
}

// DeleteConversation removes the conversation with all of its messages after
// a best-effort delete of every attachment object they reference.
func (uc *ConversationUsecaseImpl) DeleteConversation(ctx context.Context, conversationID, callerID string) error {
	conversation, err := uc.participantConversation(ctx, conversationID, callerID)
	if err != nil {
		return err
	}

	urls, err := uc.MessageRepository.AttachmentURLs(ctx, primary(uc.DB), conversation.ID)
	if err != nil {
		uc.Logger.WithError(err).Errorf("Failed to collect attachments of conversation %s", conversation.ID)
		return apperror.Internal(err)
	}

	uc.Attachments.DeleteAll(ctx, urls)

	if err := uc.ConversationRepository.DeleteWithMessages(ctx, uc.DB, conversation.ID); err != nil {
		uc.Logger.WithError(err).Errorf("Failed to delete conversation %s", conversation.ID)
		return apperror.Internal(err)
	}
	metrics.MessageOperations.WithLabelValues("delete_conversation").Inc()
	uc.Logger.Infof("Conversation %s deleted by %s with %d attachments", conversation.ID, callerID, len(urls))

	uc.Publisher.Publish(dto.MessageEvent{
		Type:           enum.EventConversationDeleted,
		ConversationID: conversation.ID,
		Recipients:     []string{conversation.Participant1ID, conversation.Participant2ID},
	})
	return nil
}

func (uc *ConversationUsecaseImpl) participantConversation(ctx context.Context, conversationID, callerID string) (*entity.Conversation, error) {
	if callerID == "" {
		return nil, apperror.ErrNotAuthenticated
	}
	conversation := new(entity.Conversation)
	if err := uc.ConversationRepository.FindById(ctx, primary(uc.DB), conversation, conversationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Conversation", conversationID)
		}
		return nil, apperror.Internal(err)
	}
	if !conversation.HasParticipant(callerID) {
		return nil, apperror.ErrNotParticipant
	}
	return conversation, nil
}

// primary pins a read to the write database. Lookups that precede a write
// must see rows a replica may not have received yet.
func primary(db *gorm.DB) *gorm.DB {
	return db.Clauses(dbresolver.Write)
}
