package repository

import (
	"context"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/pkg/xcontext"
)

type PinRepository interface {
	Create(ctx context.Context, data *entity.Pin) error
	GetByID(ctx context.Context, id int64) (*entity.Pin, error)
	Update(ctx context.Context, data *entity.Pin) error
	Delete(ctx context.Context, id int64) error
}

type pinRepository struct{}

func NewPinRepository() *pinRepository {
	return &pinRepository{}
}

func (r *pinRepository) Create(ctx context.Context, data *entity.Pin) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *pinRepository) GetByID(ctx context.Context, id int64) (*entity.Pin, error) {
	var record entity.Pin
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *pinRepository) Update(ctx context.Context, data *entity.Pin) error {
	return xcontext.DB(ctx).Model(&entity.Pin{}).Where("id=?", data.ID).
		Updates(map[string]any{
			"title":            data.Title,
			"url":              data.URL,
			"content":          data.Content,
			"comments_enabled": data.CommentsEnabled,
		}).Error
}

func (r *pinRepository) Delete(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).Delete(&entity.Pin{}, id).Error
}
