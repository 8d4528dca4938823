package repository

import (
	"context"

	"gorm.io/gorm"

	"keepsakes/entity"
)

type BlockRepository struct {
	Repository[entity.UserBlock]
}

func NewBlockRepository() *BlockRepository {
	return &BlockRepository{}
}

// Exists checks the exact ordered pair.
func (repository BlockRepository) Exists(ctx context.Context, db *gorm.DB, blockerID, blockedID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&entity.UserBlock{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error
	return count > 0, err
}

// ExistsEitherDirection checks (a,b) and (b,a).
func (repository BlockRepository) ExistsEitherDirection(ctx context.Context, db *gorm.DB, userAID, userBID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&entity.UserBlock{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
			userAID, userBID, userBID, userAID).
		Count(&count).Error
	return count > 0, err
}

func (repository BlockRepository) DeleteByPair(ctx context.Context, db *gorm.DB, blockerID, blockedID string) (int64, error) {
	result := db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&entity.UserBlock{})
	return result.RowsAffected, result.Error
}
