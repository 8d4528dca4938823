package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"keepsakes/apperror"
	"keepsakes/dto/req"
	"keepsakes/dto/res"
	"keepsakes/entity"
	"keepsakes/repository"
	"keepsakes/security"
	"keepsakes/util"
)

var errEmailTaken = apperror.Validation("email is already registered")

type AuthUsecaseImpl struct {
	*repository.AuthRepository
	UserRepository *repository.UserRepository
	*validator.Validate
	*gorm.DB
	*logrus.Logger
	*security.JWT
	DefaultImage string
}

func NewAuthUsecase(authRepository *repository.AuthRepository, userRepository *repository.UserRepository, validate *validator.Validate, DB *gorm.DB, logger *logrus.Logger, JWT *security.JWT, defaultImage string) *AuthUsecaseImpl {
	return &AuthUsecaseImpl{
		AuthRepository: authRepository,
		UserRepository: userRepository,
		Validate:       validate,
		DB:             DB,
		Logger:         logger,
		JWT:            JWT,
		DefaultImage:   defaultImage,
	}
}

func (uc *AuthUsecaseImpl) LoginUser(ctx context.Context, req *req.LoginRequest) (res.LoginResponse, error) {
	// validate request
	if err := uc.Validate.Struct(req); err != nil {
		uc.Logger.WithError(err).Error("failed to validate login request")
		return res.LoginResponse{}, err
	}

	currentAccount, err := uc.AuthRepository.FindByEmail(ctx, uc.DB, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return res.LoginResponse{}, apperror.ErrInvalidCredential
		}
		uc.Logger.WithError(err).Error("Failed to find account")
		return res.LoginResponse{}, apperror.Internal(err)
	}
	// compare the password
	if !util.ComparePassword(currentAccount.Password, req.Password) {
		uc.Logger.Warnf("Wrong password for account %s", currentAccount.ID)
		return res.LoginResponse{}, apperror.ErrInvalidCredential
	}

	token, err := uc.JWT.GenerateToken(currentAccount.UserID)
	if err != nil {
		uc.Logger.WithError(err).Error("failed to generate token")
		return res.LoginResponse{}, apperror.Internal(err)
	}
	return res.LoginResponse{Token: token}, nil
}

func (uc *AuthUsecaseImpl) RegisterUser(ctx context.Context, req *req.RegisterRequest) (res.RegisterResponse, error) {
	// validate request
	if err := uc.Validate.Struct(req); err != nil {
		uc.Logger.WithError(err).Error("failed to validate register request")
		return res.RegisterResponse{}, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := uc.UserRepository.EmailExists(ctx, uc.DB, email)
	if err != nil {
		return res.RegisterResponse{}, apperror.Internal(err)
	}
	if taken {
		return res.RegisterResponse{}, errEmailTaken
	}

	hashPassword, err := util.HashPassword(req.Password)
	if err != nil {
		return res.RegisterResponse{}, apperror.Internal(err)
	}

	// start transaction
	trx := uc.DB.WithContext(ctx).Begin()
	defer trx.Rollback()

	slug, err := util.UniqueSlug(req.Name, func(candidate string) (bool, error) {
		return uc.UserRepository.SlugExists(ctx, trx, candidate)
	})
	if err != nil {
		return res.RegisterResponse{}, apperror.Internal(err)
	}

	newAccount := &entity.Account{
		Password: hashPassword,
		User: entity.User{
			Name:  strings.TrimSpace(req.Name),
			Email: email,
			Slug:  slug,
			Image: uc.DefaultImage,
		},
	}
	// save to db
	if err := uc.AuthRepository.Save(ctx, trx, newAccount); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return res.RegisterResponse{}, errEmailTaken
		}
		uc.Logger.WithError(err).Error("failed to save user")
		return res.RegisterResponse{}, apperror.Internal(err)
	}
	if err := trx.Commit().Error; err != nil {
		uc.Logger.WithError(err).Error("failed to commit user")
		return res.RegisterResponse{}, apperror.Internal(err)
	}

	uc.Logger.Infof("Registered user %s", newAccount.User.ID)
	return res.RegisterResponse{
		ID:    newAccount.User.ID,
		Name:  newAccount.User.Name,
		Email: newAccount.User.Email,
		Slug:  newAccount.User.Slug,
	}, nil
}
