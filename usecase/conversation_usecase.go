package usecase

import (
	"context"

	"keepsakes/dto/res"
	"keepsakes/entity"
)

type ConversationUsecase interface {
	ResolveConversation(ctx context.Context, userAID, userBID string) (*entity.Conversation, error)
	ListConversations(ctx context.Context, callerID string) ([]res.ConversationResponse, error)
	GetThread(ctx context.Context, callerID, recipientSlug string) (res.ThreadResponse, error)
	MarkConversationRead(ctx context.Context, conversationID, callerID string) (res.MarkReadResponse, error)
	DeleteConversation(ctx context.Context, conversationID, callerID string) error
}
