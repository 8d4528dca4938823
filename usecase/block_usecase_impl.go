package usecase

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"keepsakes/apperror"
	"keepsakes/dto/res"
	"keepsakes/entity"
	"keepsakes/repository"
)

type BlockUsecaseImpl struct {
	*repository.BlockRepository
	UserRepository *repository.UserRepository
	*gorm.DB
	*logrus.Logger
	Cache BlockStatusCache
}

// NewBlockUsecase wires the block guard. cache may be nil.
func NewBlockUsecase(blockRepository *repository.BlockRepository, userRepository *repository.UserRepository, DB *gorm.DB, logger *logrus.Logger, cache BlockStatusCache) *BlockUsecaseImpl {
	return &BlockUsecaseImpl{BlockRepository: blockRepository, UserRepository: userRepository, DB: DB, Logger: logger, Cache: cache}
}

func (uc *BlockUsecaseImpl) IsBlocked(ctx context.Context, userAID, userBID string) (bool, error) {
	if uc.Cache != nil {
		blocked, found, err := uc.Cache.Get(ctx, userAID, userBID)
		if err != nil {
			uc.Logger.WithError(err).Warn("block cache lookup failed, falling back to database")
		} else if found {
			return blocked, nil
		}
	}

	blocked, err := uc.BlockRepository.ExistsEitherDirection(ctx, uc.DB, userAID, userBID)
	if err != nil {
		uc.Logger.WithError(err).Errorf("Failed to check block between %s and %s", userAID, userBID)
		return false, apperror.Internal(err)
	}

	// a Block committed since the read has already stored "blocked"
	if uc.Cache != nil {
		if err := uc.Cache.Fill(ctx, userAID, userBID, blocked); err != nil {
			uc.Logger.WithError(err).Warn("failed to cache block status")
		}
	}
	return blocked, nil
}

func (uc *BlockUsecaseImpl) Block(ctx context.Context, blockerID, blockedID string) error {
	if blockerID == "" {
		return apperror.ErrNotAuthenticated
	}
	if blockerID == blockedID {
		return apperror.ErrSelfBlock
	}
	count, err := uc.UserRepository.CountById(ctx, uc.DB, blockedID)
	if err != nil {
		return apperror.Internal(err)
	}
	if count == 0 {
		return apperror.NotFound("User", blockedID)
	}

	exists, err := uc.BlockRepository.Exists(ctx, uc.DB, blockerID, blockedID)
	if err != nil {
		return apperror.Internal(err)
	}
	if exists {
		uc.Logger.Infof("Block from %s to %s already exists", blockerID, blockedID)
		uc.markBlocked(ctx, blockerID, blockedID)
		return nil
	}

	block := &entity.UserBlock{BlockerID: blockerID, BlockedID: blockedID}
	if err := uc.BlockRepository.Save(ctx, uc.DB, block); err != nil {
		// lost a race with an identical block request
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			uc.markBlocked(ctx, blockerID, blockedID)
			return nil
		}
		uc.Logger.WithError(err).Errorf("Failed to block user %s", blockedID)
		return apperror.Internal(err)
	}

	uc.markBlocked(ctx, blockerID, blockedID)
	uc.Logger.Infof("User %s blocked %s", blockerID, blockedID)
	return nil
}

func (uc *BlockUsecaseImpl) Unblock(ctx context.Context, blockerID, blockedID string) error {
	if blockerID == "" {
		return apperror.ErrNotAuthenticated
	}
	if blockerID == blockedID {
		return apperror.ErrSelfUnblock
	}
	removed, err := uc.BlockRepository.DeleteByPair(ctx, uc.DB, blockerID, blockedID)
	if err != nil {
		uc.Logger.WithError(err).Errorf("Failed to unblock user %s", blockedID)
		return apperror.Internal(err)
	}
	if removed > 0 {
		uc.invalidate(ctx, blockerID, blockedID)
		uc.Logger.Infof("User %s unblocked %s", blockerID, blockedID)
	}
	return nil
}

func (uc *BlockUsecaseImpl) Status(ctx context.Context, callerID, otherID string) (res.BlockStatusResponse, error) {
	if callerID == "" {
		return res.BlockStatusResponse{}, apperror.ErrNotAuthenticated
	}
	if callerID == otherID {
		return res.BlockStatusResponse{}, nil
	}
	isBlocked, err := uc.BlockRepository.Exists(ctx, uc.DB, otherID, callerID)
	if err != nil {
		return res.BlockStatusResponse{}, apperror.Internal(err)
	}
	hasBlocked, err := uc.BlockRepository.Exists(ctx, uc.DB, callerID, otherID)
	if err != nil {
		return res.BlockStatusResponse{}, apperror.Internal(err)
	}
	return res.BlockStatusResponse{IsBlocked: isBlocked, HasBlocked: hasBlocked}, nil
}

// markBlocked overwrites the cached status once a block row exists. If the
// write fails the entry is dropped instead.
func (uc *BlockUsecaseImpl) markBlocked(ctx context.Context, blockerID, blockedID string) {
	if uc.Cache == nil {
		return
	}
	if err := uc.Cache.Set(ctx, blockerID, blockedID, true); err != nil {
		uc.Logger.WithError(err).Warn("failed to cache block")
		uc.invalidate(ctx, blockerID, blockedID)
	}
}

func (uc *BlockUsecaseImpl) invalidate(ctx context.Context, userAID, userBID string) {
	if uc.Cache == nil {
		return
	}
	if err := uc.Cache.Invalidate(ctx, userAID, userBID); err != nil {
		uc.Logger.WithError(err).Warn("failed to invalidate block cache")
	}
}
