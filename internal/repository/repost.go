package repository

import (
	"context"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/pkg/xcontext"
)

type RepostRepository interface {
	Create(ctx context.Context, data *entity.Repost) error
	GetByID(ctx context.Context, id int64) (*entity.Repost, error)
	GetByOriginal(ctx context.Context, userID string, original entity.ContentRef) (*entity.Repost, error)
	Delete(ctx context.Context, id int64) error
}

type repostRepository struct{}

func NewRepostRepository() *repostRepository {
	return &repostRepository{}
}

func (r *repostRepository) Create(ctx context.Context, data *entity.Repost) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *repostRepository) GetByID(ctx context.Context, id int64) (*entity.Repost, error) {
	var record entity.Repost
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

// GetByOriginal finds a user's existing repost of one content item; used
// for deduplication.
func (r *repostRepository) GetByOriginal(
	ctx context.Context, userID string, original entity.ContentRef,
) (*entity.Repost, error) {
	var record entity.Repost
	err := xcontext.DB(ctx).
		Where("user_id=? AND original_kind=? AND original_object_id=?",
			userID, original.Kind, original.ObjectID).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *repostRepository) Delete(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).Delete(&entity.Repost{}, id).Error
}
