package repository

import (
	"context"

	"gorm.io/gorm"

	"keepsakes/entity"
)

type AuthRepository struct {
	Repository[entity.Account]
}

func NewAuthRepository() *AuthRepository {
	return &AuthRepository{}
}

func (repository AuthRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (entity.Account, error) {
	var account entity.Account
	userIDs := db.Model(&entity.User{}).Select("id").Where("email = ?", email)
	err := db.WithContext(ctx).
		Preload("User").
		Where("user_id IN (?)", userIDs).
		First(&account).Error
	return account, err
}
