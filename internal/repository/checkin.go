package repository

import (
	"context"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/pkg/xcontext"
)

type CheckinRepository interface {
	Create(ctx context.Context, data *entity.Checkin) error
	GetByID(ctx context.Context, medium entity.CheckinMedium, id int64) (*entity.Checkin, error)
	Update(ctx context.Context, data *entity.Checkin) error
	Delete(ctx context.Context, id int64) error
}

type checkinRepository struct{}

func NewCheckinRepository() *checkinRepository {
	return &checkinRepository{}
}

func (r *checkinRepository) Create(ctx context.Context, data *entity.Checkin) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *checkinRepository) GetByID(
	ctx context.Context, medium entity.CheckinMedium, id int64,
) (*entity.Checkin, error) {
	var record entity.Checkin
	err := xcontext.DB(ctx).Where("id=? AND medium=?", id, medium).Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *checkinRepository) Update(ctx context.Context, data *entity.Checkin) error {
	return xcontext.DB(ctx).Model(&entity.Checkin{}).Where("id=?", data.ID).
		Updates(map[string]any{
			"status":           data.Status,
			"progress":         data.Progress,
			"content":          data.Content,
			"comments_enabled": data.CommentsEnabled,
			"share_to_feed":    data.ShareToFeed,
		}).Error
}

func (r *checkinRepository) Delete(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).Delete(&entity.Checkin{}, id).Error
}
