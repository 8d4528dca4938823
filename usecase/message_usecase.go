package usecase

import (
	"context"

	"keepsakes/dto/req"
	"keepsakes/dto/res"
)

type MessageUsecase interface {
	SendMessage(ctx context.Context, senderID string, request *req.SendMessageRequest) (res.MessageResponse, error)
	UpdateMessage(ctx context.Context, messageID, callerID string, request *req.UpdateMessageRequest) (res.MessageResponse, error)
	DeleteMessage(ctx context.Context, messageID, callerID string) error
}
