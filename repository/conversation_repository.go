package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"keepsakes/entity"
)

type ConversationRepository struct {
	Repository[entity.Conversation]
}

func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{}
}

// FindByPair matches the participants in either order. It returns nil when no
// conversation exists.
func (repository ConversationRepository) FindByPair(ctx context.Context, db *gorm.DB, userAID, userBID string) (*entity.Conversation, error) {
	var conversation entity.Conversation
	err := db.WithContext(ctx).
		Where("(participant1_id = ? AND participant2_id = ?) OR (participant1_id = ? AND participant2_id = ?)",
			userAID, userBID, userBID, userAID).
		First(&conversation).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// FindAllByUserID returns the user's conversations, most recently active first.
func (repository ConversationRepository) FindAllByUserID(ctx context.Context, db *gorm.DB, userID string) ([]entity.Conversation, error) {
	var conversations []entity.Conversation
	err := db.WithContext(ctx).
		Preload("Participant1").
		Preload("Participant2").
		Where("participant1_id = ? OR participant2_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&conversations).Error
	return conversations, err
}

func (repository ConversationRepository) Touch(ctx context.Context, db *gorm.DB, id string, at time.Time) error {
	return db.WithContext(ctx).
		Model(&entity.Conversation{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", at).Error
}

// DeleteWithMessages removes the conversation and its messages in one
// transaction.
func (repository ConversationRepository) DeleteWithMessages(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&entity.DirectMessage{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Conversation{}).Error
	})
}
