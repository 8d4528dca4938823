package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"keepsakes/entity"
)

type MessageRepository struct {
	Repository[entity.DirectMessage]
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

func (repository MessageRepository) FindByConversationID(ctx context.Context, db *gorm.DB, conversationID string) ([]entity.DirectMessage, error) {
	var messages []entity.DirectMessage
	err := db.WithContext(ctx).
		Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

// FindLatest returns the newest message of the conversation, or nil.
func (repository MessageRepository) FindLatest(ctx context.Context, db *gorm.DB, conversationID string) (*entity.DirectMessage, error) {
	var message entity.DirectMessage
	err := db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Order("id DESC").
		First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// AttachmentURLs collects every attachment URL held by the conversation's
// messages.
func (repository MessageRepository) AttachmentURLs(ctx context.Context, db *gorm.DB, conversationID string) ([]string, error) {
	var messages []entity.DirectMessage
	err := db.WithContext(ctx).
		Select("id", "attachment_urls").
		Where("conversation_id = ?", conversationID).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	var urls []string
	for _, m := range messages {
		urls = append(urls, m.AttachmentURLs...)
	}
	return urls, nil
}

func (repository MessageRepository) UpdateContent(ctx context.Context, db *gorm.DB, message *entity.DirectMessage) error {
	return db.WithContext(ctx).
		Model(message).
		Select("content", "attachment_urls", "updated_at").
		Updates(message).Error
}

func (repository MessageRepository) MarkRead(ctx context.Context, db *gorm.DB, conversationID, recipientID string, at time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Model(&entity.DirectMessage{}).
		Where("conversation_id = ? AND recipient_id = ? AND read_at IS NULL", conversationID, recipientID).
		UpdateColumn("read_at", at)
	return result.RowsAffected, result.Error
}
