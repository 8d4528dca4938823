package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"keepsakes/apperror"
	"keepsakes/attachment"
	"keepsakes/dto"
	"keepsakes/dto/req"
	"keepsakes/dto/res"
	"keepsakes/entity"
	"keepsakes/enum"
	"keepsakes/metrics"
	"keepsakes/repository"
)

const MaxMessageLength = 1000

type MessageUsecaseImpl struct {
	*repository.MessageRepository
	ConversationRepository *repository.ConversationRepository
	UserRepository         *repository.UserRepository
	*validator.Validate
	*gorm.DB
	*logrus.Logger
	Conversations ConversationUsecase
	Blocks        BlockUsecase
	Attachments   *attachment.Manager
	Publisher     EventPublisher
}

func NewMessageUsecase(
	messageRepository *repository.MessageRepository,
	conversationRepository *repository.ConversationRepository,
	userRepository *repository.UserRepository,
	validate *validator.Validate,
	DB *gorm.DB,
	logger *logrus.Logger,
	conversations ConversationUsecase,
	blocks BlockUsecase,
	attachments *attachment.Manager,
	publisher EventPublisher,
) *MessageUsecaseImpl {
	if publisher == nil {
		publisher = NopPublisher()
	}
	return &MessageUsecaseImpl{
		MessageRepository:      messageRepository,
		ConversationRepository: conversationRepository,
		UserRepository:         userRepository,
		Validate:               validate,
		DB:                     DB,
		Logger:                 logger,
		Conversations:          conversations,
		Blocks:                 blocks,
		Attachments:            attachments,
		Publisher:              publisher,
	}
}

func (uc *MessageUsecaseImpl) SendMessage(ctx context.Context, senderID string, request *req.SendMessageRequest) (res.MessageResponse, error) {
	if senderID == "" {
		return res.MessageResponse{}, apperror.ErrNotAuthenticated
	}
	if err := uc.Validate.Struct(request); err != nil {
		uc.Logger.WithError(err).Error("Invalid send message request")
		return res.MessageResponse{}, err
	}

	content, urls, err := uc.normalize(request.Content, request.AttachmentURLs)
	if err != nil {
		return res.MessageResponse{}, err
	}
	if senderID == request.RecipientID {
		return res.MessageResponse{}, apperror.ErrSelfConversation
	}

	users, err := uc.UserRepository.FindByIDs(ctx, uc.DB, []string{senderID, request.RecipientID})
	if err != nil {
		return res.MessageResponse{}, apperror.Internal(err)
	}
	sender, ok := users[senderID]
	if !ok {
		return res.MessageResponse{}, apperror.ErrNotAuthenticated
	}
	if _, ok := users[request.RecipientID]; !ok {
		return res.MessageResponse{}, apperror.NotFound("User", request.RecipientID)
	}

	if err := uc.ensureNotBlocked(ctx, senderID, request.RecipientID); err != nil {
		return res.MessageResponse{}, err
	}

	conversation, err := uc.conversationFor(ctx, request.ConversationID, senderID, request.RecipientID)
	if err != nil {
		return res.MessageResponse{}, err
	}

	message := &entity.DirectMessage{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		RecipientID:    request.RecipientID,
		Content:        content,
		AttachmentURLs: urls,
	}
	if err := uc.MessageRepository.Save(ctx, uc.DB, message); err != nil {
		uc.Logger.WithError(err).Error("Failed to save message")
		return res.MessageResponse{}, apperror.Internal(err)
	}
	// the message is already stored; a stale conversation timestamp only affects inbox order
	if err := uc.ConversationRepository.Touch(ctx, uc.DB, conversation.ID, message.CreatedAt); err != nil {
		uc.Logger.WithError(err).Warnf("Failed to bump conversation %s", conversation.ID)
	}

	message.Sender = sender
	response := toMessageResponse(*message)
	metrics.MessageOperations.WithLabelValues("send").Inc()
	uc.Publisher.Publish(dto.MessageEvent{
		Type:           enum.EventMessageCreated,
		ConversationID: conversation.ID,
		MessageID:      message.ID,
		Message:        &response,
		Recipients:     []string{senderID, request.RecipientID},
	})
	return response, nil
}

func (uc *MessageUsecaseImpl) UpdateMessage(ctx context.Context, messageID, callerID string, request *req.UpdateMessageRequest) (res.MessageResponse, error) {
	message, err := uc.ownMessage(ctx, messageID, callerID)
	if err != nil {
		return res.MessageResponse{}, err
	}

	content, urls, err := uc.normalize(request.Content, request.AttachmentURLs)
	if err != nil {
		return res.MessageResponse{}, err
	}
	if err := uc.ensureNotBlocked(ctx, message.SenderID, message.RecipientID); err != nil {
		return res.MessageResponse{}, err
	}

	uc.Attachments.DeleteAll(ctx, attachment.Removed(message.AttachmentURLs, urls))

	message.Content = content
	message.AttachmentURLs = urls
	message.UpdatedAt = time.Now()
	if err := uc.MessageRepository.UpdateContent(ctx, uc.DB, message); err != nil {
		uc.Logger.WithError(err).Errorf("Failed to update message %s", message.ID)
		return res.MessageResponse{}, apperror.Internal(err)
	}

	response := toMessageResponse(*message)
	metrics.MessageOperations.WithLabelValues("update").Inc()
	uc.Publisher.Publish(dto.MessageEvent{
		Type:           enum.EventMessageUpdated,
		ConversationID: message.ConversationID,
		MessageID:      message.ID,
		Message:        &response,
		Recipients:     []string{message.SenderID, message.RecipientID},
	})
	return response, nil
}

func (uc *MessageUsecaseImpl) DeleteMessage(ctx context.Context, messageID, callerID string) error {
	message, err := uc.ownMessage(ctx, messageID, callerID)
	if err != nil {
		return err
	}
	uc.Attachments.DeleteAll(ctx, message.AttachmentURLs)
	if err := uc.MessageRepository.Delete(ctx, uc.DB, message); err != nil {
		uc.Logger.WithError(err).Errorf("Failed to delete message %s", message.ID)
		return apperror.Internal(err)
	}

	metrics.MessageOperations.WithLabelValues("delete").Inc()
	uc.Publisher.Publish(dto.MessageEvent{
		Type:           enum.EventMessageDeleted,
		ConversationID: message.ConversationID,
		MessageID:      message.ID,
		Recipients:     []string{message.SenderID, message.RecipientID},
	})
	return nil
}

// normalize applies the content and attachment limits shared by send and
// update. Invalid attachment URLs are dropped, not rejected.
func (uc *MessageUsecaseImpl) normalize(content string, urls []string) (string, []string, error) {
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return "", nil, apperror.ErrContentTooLong
	}
	if len(urls) > attachment.MaxAttachments {
		return "", nil, apperror.ErrTooManyFiles
	}
	filtered := uc.Attachments.Policy().Filter(urls)
	if strings.TrimSpace(content) == "" && len(filtered) == 0 {
		return "", nil, apperror.ErrEmptyMessage
	}
	return content, filtered, nil
}

func (uc *MessageUsecaseImpl) ensureNotBlocked(ctx context.Context, userAID, userBID string) error {
	blocked, err := uc.Blocks.IsBlocked(ctx, userAID, userBID)
	if err != nil {
		return err
	}
	if blocked {
		uc.Logger.Warnf("Blocked message attempt between %s and %s", userAID, userBID)
		return apperror.ErrMessagingBlocked
	}
	return nil
}

func (uc *MessageUsecaseImpl) conversationFor(ctx context.Context, conversationID *string, senderID, recipientID string) (*entity.Conversation, error) {
	if conversationID == nil || *conversationID == "" {
		return uc.Conversations.ResolveConversation(ctx, senderID, recipientID)
	}
	conversation := new(entity.Conversation)
	if err := uc.ConversationRepository.FindById(ctx, primary(uc.DB), conversation, *conversationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Conversation", *conversationID)
		}
		return nil, apperror.Internal(err)
	}
	if !conversation.IsPair(senderID, recipientID) {
		return nil, apperror.ErrNotParticipant
	}
	return conversation, nil
}

func (uc *MessageUsecaseImpl) ownMessage(ctx context.Context, messageID, callerID string) (*entity.DirectMessage, error) {
	if callerID == "" {
		return nil, apperror.ErrNotAuthenticated
	}
	message := new(entity.DirectMessage)
	if err := uc.MessageRepository.FindById(ctx, primary(uc.DB), message, messageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Message", messageID)
		}
		return nil, apperror.Internal(err)
	}
	if message.SenderID != callerID {
		return nil, apperror.ErrNotMessageSender
	}
	return message, nil
}
