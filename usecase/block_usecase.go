package usecase

import (
	"context"

	"keepsakes/dto/res"
)

type BlockUsecase interface {
	IsBlocked(ctx context.Context, userAID, userBID string) (bool, error)
	Block(ctx context.Context, blockerID, blockedID string) error
	Unblock(ctx context.Context, blockerID, blockedID string) error
	Status(ctx context.Context, callerID, otherID string) (res.BlockStatusResponse, error)
}

// BlockStatusCache caches IsBlocked results per unordered pair. Fill must
// not replace an existing entry.
type BlockStatusCache interface {
	Get(ctx context.Context, userAID, userBID string) (blocked bool, found bool, err error)
	Set(ctx context.Context, userAID, userBID string, blocked bool) error
	Fill(ctx context.Context, userAID, userBID string, blocked bool) error
	Invalidate(ctx context.Context, userAID, userBID string) error
}
