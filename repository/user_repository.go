package repository

import (
	"context"

	"gorm.io/gorm"

	"keepsakes/entity"
)

type UserRepository struct {
	Repository[entity.User]
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (repository UserRepository) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (entity.User, error) {
	var user entity.User
	err := db.WithContext(ctx).Where("slug = ?", slug).Take(&user).Error
	return user, err
}

func (repository UserRepository) SlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.User{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (repository UserRepository) EmailExists(ctx context.Context, db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (repository UserRepository) FindByIDs(ctx context.Context, db *gorm.DB, ids []string) (map[string]entity.User, error) {
	users := make(map[string]entity.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	var found []entity.User
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	for _, u := range found {
		users[u.ID] = u
	}
	return users, nil
}
