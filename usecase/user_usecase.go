package usecase

import (
	"context"
	"io"

	"keepsakes/dto/req"
	"keepsakes/dto/res"
)

type UserUsecase interface {
	GetMe(ctx context.Context, callerID string) (res.UserResponse, error)
	GetBySlug(ctx context.Context, slug string) (res.UserResponse, error)
	UpdateProfile(ctx context.Context, callerID string, request *req.EditProfileRequest) (res.UserResponse, error)
	UploadProfileImage(ctx context.Context, callerID string, content io.Reader, filename string) (string, error)
}
