package repository

import (
	"context"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/pkg/xcontext"
)

type ActivityRepository interface {
	Create(ctx context.Context, data *entity.Activity) error
	GetByRef(ctx context.Context, ref entity.ContentRef) (*entity.Activity, error)
	GetByID(ctx context.Context, id int64) (*entity.Activity, error)
	DeleteByRef(ctx context.Context, ref entity.ContentRef) error
	DeleteFollowActivity(ctx context.Context, userID string, followID int64) error
	GetFeed(ctx context.Context, userIDs []string, offset, limit int) ([]entity.Activity, error)
	CountByRef(ctx context.Context, ref entity.ContentRef) (int64, error)
}

type activityRepository struct{}

func NewActivityRepository() *activityRepository {
	return &activityRepository{}
}

func (r *activityRepository) Create(ctx context.Context, data *entity.Activity) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *activityRepository) GetByRef(ctx context.Context, ref entity.ContentRef) (*entity.Activity, error) {
	var record entity.Activity
	err := xcontext.DB(ctx).
		Where("kind=? AND object_id=?", ref.Kind, ref.ObjectID).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *activityRepository) GetByID(ctx context.Context, id int64) (*entity.Activity, error) {
	var record entity.Activity
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

// DeleteByRef removes the activity of one content item. Zero affected rows
// is fine: the activity may already be gone.
func (r *activityRepository) DeleteByRef(ctx context.Context, ref entity.ContentRef) error {
	return xcontext.DB(ctx).
		Where("kind=? AND object_id=?", ref.Kind, ref.ObjectID).
		Delete(&entity.Activity{}).Error
}

func (r *activityRepository) DeleteFollowActivity(ctx context.Context, userID string, followID int64) error {
	return xcontext.DB(ctx).
		Where("user_id=? AND activity_type=? AND object_id=?",
			userID, entity.ActivityFollow, followID).
		Delete(&entity.Activity{}).Error
}

func (r *activityRepository) GetFeed(
	ctx context.Context, userIDs []string, offset, limit int,
) ([]entity.Activity, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var records []entity.Activity
	err := xcontext.DB(ctx).
		Where("user_id IN (?)", userIDs).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *activityRepository) CountByRef(ctx context.Context, ref entity.ContentRef) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Activity{}).
		Where("kind=? AND object_id=?", ref.Kind, ref.ObjectID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
