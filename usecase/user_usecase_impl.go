package usecase

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"keepsakes/apperror"
	"keepsakes/attachment"
	"keepsakes/config/logger"
	"keepsakes/dto/req"
	"keepsakes/dto/res"
	"keepsakes/entity"
	"keepsakes/repository"
)

type UserUsecaseImpl struct {
	*repository.UserRepository
	*validator.Validate
	*gorm.DB
	Log           *logger.AppLogger
	Attachments   *attachment.Manager
	ProfileFolder string
	DefaultImage  string
}

func NewUserUsecase(userRepository *repository.UserRepository, validate *validator.Validate, DB *gorm.DB, logger *logger.AppLogger, attachments *attachment.Manager, profileFolder, defaultImage string) UserUsecase {
	return &UserUsecaseImpl{
		UserRepository: userRepository,
		Validate:       validate,
		DB:             DB,
		Log:            logger,
		Attachments:    attachments,
		ProfileFolder:  profileFolder,
		DefaultImage:   defaultImage,
	}
}

func (uc *UserUsecaseImpl) GetMe(ctx context.Context, callerID string) (res.UserResponse, error) {
	user, err := uc.findUser(ctx, callerID)
	if err != nil {
		return res.UserResponse{}, err
	}
	return toUserResponse(user, true), nil
}

func (uc *UserUsecaseImpl) GetBySlug(ctx context.Context, slug string) (res.UserResponse, error) {
	uc.Log.Http.Trace.Trace().Str("slug", slug).Msg("Looking up user by slug")
	user, err := uc.UserRepository.FindBySlug(ctx, uc.DB, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return res.UserResponse{}, apperror.NotFound("User", slug)
		}
		uc.Log.Http.Error.Error().Err(err).Str("slug", slug).Msg("Failed to find user by slug")
		return res.UserResponse{}, apperror.Internal(err)
	}
	return toUserResponse(user, false), nil
}

// UpdateProfile saves the editable profile fields. A replaced profile image
// is removed from the object store after the row is saved, unless it is the
// shared default image.
func (uc *UserUsecaseImpl) UpdateProfile(ctx context.Context, callerID string, request *req.EditProfileRequest) (res.UserResponse, error) {
	request.Name = strings.TrimSpace(request.Name)
	if err := uc.Validate.Struct(request); err != nil {
		uc.Log.Http.Error.Error().Err(err).Msg("Invalid profile update")
		return res.UserResponse{}, err
	}
	user, err := uc.findUser(ctx, callerID)
	if err != nil {
		return res.UserResponse{}, err
	}

	previousImage := user.Image
	user.Name = request.Name
	user.Location = request.Location
	user.Bio = request.Bio
	if request.Image != nil && *request.Image != user.Image {
		if !attachment.ImagePolicy.Allows(*request.Image) {
			return res.UserResponse{}, apperror.ErrInvalidImage
		}
		user.Image = *request.Image
	}

	if err := uc.UserRepository.Update(ctx, uc.DB, &user); err != nil {
		uc.Log.Http.Error.Error().Err(err).Str("userId", user.ID).Msg("Failed to update profile")
		return res.UserResponse{}, apperror.Internal(err)
	}
	if user.Image != previousImage && previousImage != "" && previousImage != uc.DefaultImage {
		uc.Attachments.DeleteRemoteObject(ctx, previousImage)
	}

	uc.Log.Http.Info.Info().Str("userId", user.ID).Msg("Profile updated")
	return toUserResponse(user, true), nil
}

// UploadProfileImage stores a new image and returns its URL. The profile is
// not changed until UpdateProfile is called with the URL.
func (uc *UserUsecaseImpl) UploadProfileImage(ctx context.Context, callerID string, content io.Reader, filename string) (string, error) {
	if callerID == "" {
		return "", apperror.ErrNotAuthenticated
	}
	if !attachment.ImagePolicy.Allows("https://upload.local/" + url.PathEscape(filename)) {
		return "", apperror.ErrInvalidImage
	}
	return uc.Attachments.UploadTo(ctx, content, filename, uc.ProfileFolder)
}

func (uc *UserUsecaseImpl) findUser(ctx context.Context, userID string) (entity.User, error) {
	if userID == "" {
		return entity.User{}, apperror.ErrNotAuthenticated
	}
	var user entity.User
	if err := uc.UserRepository.FindById(ctx, uc.DB, &user, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.User{}, apperror.NotFound("User", userID)
		}
		return entity.User{}, apperror.Internal(err)
	}
	return user, nil
}
