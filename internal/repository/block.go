package repository

import (
	"context"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/pkg/xcontext"
)

type BlockRepository interface {
	Create(ctx context.Context, data *entity.Block) error
	Delete(ctx context.Context, blockerID, blockedID string) error
	Exists(ctx context.Context, blockerID, blockedID string) (bool, error)
	ExistsBetween(ctx context.Context, userA, userB string) (bool, error)
}

type blockRepository struct{}

func NewBlockRepository() *blockRepository {
	return &blockRepository{}
}

func (r *blockRepository) Create(ctx context.Context, data *entity.Block) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *blockRepository) Delete(ctx context.Context, blockerID, blockedID string) error {
	return xcontext.DB(ctx).
		Where("blocker_id=? AND blocked_id=?", blockerID, blockedID).
		Delete(&entity.Block{}).Error
}

func (r *blockRepository) Exists(ctx context.Context, blockerID, blockedID string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Block{}).
		Where("blocker_id=? AND blocked_id=?", blockerID, blockedID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// ExistsBetween reports whether a block exists in either direction.
func (r *blockRepository) ExistsBetween(ctx context.Context, userA, userB string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Block{}).
		Where("(blocker_id=? AND blocked_id=?) OR (blocker_id=? AND blocked_id=?)",
			userA, userB, userB, userA).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
