package repository

import (
	"context"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/pkg/xcontext"
)

type MirrorAccountRepository interface {
	CreateBluesky(ctx context.Context, account *entity.BlueskyAccount) error
	GetBlueskyByUserID(ctx context.Context, userID string) (*entity.BlueskyAccount, error)
	DeleteBluesky(ctx context.Context, userID string) error

	CreateMastodon(ctx context.Context, account *entity.MastodonAccount) error
	GetMastodonByUserID(ctx context.Context, userID string) (*entity.MastodonAccount, error)
	DeleteMastodon(ctx context.Context, userID string) error
}

type mirrorAccountRepository struct{}

func NewMirrorAccountRepository() *mirrorAccountRepository {
	return &mirrorAccountRepository{}
}

func (r *mirrorAccountRepository) CreateBluesky(ctx context.Context, account *entity.BlueskyAccount) error {
	return xcontext.DB(ctx).Create(account).Error
}

func (r *mirrorAccountRepository) GetBlueskyByUserID(ctx context.Context, userID string) (*entity.BlueskyAccount, error) {
	var record entity.BlueskyAccount
	if err := xcontext.DB(ctx).Take(&record, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *mirrorAccountRepository) DeleteBluesky(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Where("user_id=?", userID).Delete(&entity.BlueskyAccount{}).Error
}

func (r *mirrorAccountRepository) CreateMastodon(ctx context.Context, account *entity.MastodonAccount) error {
	return xcontext.DB(ctx).Create(account).Error
}

func (r *mirrorAccountRepository) GetMastodonByUserID(ctx context.Context, userID string) (*entity.MastodonAccount, error) {
	var record entity.MastodonAccount
	if err := xcontext.DB(ctx).Take(&record, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *mirrorAccountRepository) DeleteMastodon(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Where("user_id=?", userID).Delete(&entity.MastodonAccount{}).Error
}
