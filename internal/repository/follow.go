package repository

import (
	"context"
	"errors"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type FollowRepository interface {
	Get(ctx context.Context, followerID, followedID string) (*entity.Follow, error)
	Create(ctx context.Context, data *entity.Follow) error
	Delete(ctx context.Context, followerID, followedID string) (*entity.Follow, error)
	DeleteBetween(ctx context.Context, userA, userB string) ([]entity.Follow, error)
	GetFollowingIDs(ctx context.Context, followerID string) ([]string, error)
	GetFollowerIDs(ctx context.Context, followedID string) ([]string, error)
}

type followRepository struct{}

func NewFollowRepository() *followRepository {
	return &followRepository{}
}

func (r *followRepository) Get(ctx context.Context, followerID, followedID string) (*entity.Follow, error) {
	var record entity.Follow
	err := xcontext.DB(ctx).
		Where("follower_id=? AND followed_id=?", followerID, followedID).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *followRepository) Create(ctx context.Context, data *entity.Follow) error {
	return xcontext.DB(ctx).Create(data).Error
}

// Delete removes one follow pair and returns the removed row, or
// gorm.ErrRecordNotFound when the pair never existed.
func (r *followRepository) Delete(ctx context.Context, followerID, followedID string) (*entity.Follow, error) {
	record, err := r.Get(ctx, followerID, followedID)
	if err != nil {
		return nil, err
	}

	if err := xcontext.DB(ctx).Delete(&entity.Follow{}, record.ID).Error; err != nil {
		return nil, err
	}

	return record, nil
}

// DeleteBetween removes the follows of both directions between two users
// and returns the removed rows. Missing pairs are not an error.
func (r *followRepository) DeleteBetween(ctx context.Context, userA, userB string) ([]entity.Follow, error) {
	var removed []entity.Follow
	for _, pair := range [][2]string{{userA, userB}, {userB, userA}} {
		record, err := r.Delete(ctx, pair[0], pair[1])
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}

		removed = append(removed, *record)
	}

	return removed, nil
}

func (r *followRepository) GetFollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	var ids []string
	err := xcontext.DB(ctx).Model(&entity.Follow{}).
		Where("follower_id=?", followerID).
		Order("id").
		Pluck("followed_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *followRepository) GetFollowerIDs(ctx context.Context, followedID string) ([]string, error) {
	var ids []string
	err := xcontext.DB(ctx).Model(&entity.Follow{}).
		Where("followed_id=?", followedID).
		Order("id").
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}
