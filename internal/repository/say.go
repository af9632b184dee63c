package repository

import (
	"context"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/pkg/xcontext"
)

type SayRepository interface {
	Create(ctx context.Context, data *entity.Say) error
	GetByID(ctx context.Context, id int64) (*entity.Say, error)
	GetByIDs(ctx context.Context, ids []int64) ([]entity.Say, error)
	Update(ctx context.Context, data *entity.Say) error
	Delete(ctx context.Context, id int64) error
	ReplaceAudience(ctx context.Context, sayID int64, userIDs []string) error
	GetAudienceIDs(ctx context.Context, sayID int64) ([]string, error)
}

type sayRepository struct{}

func NewSayRepository() *sayRepository {
	return &sayRepository{}
}

func (r *sayRepository) Create(ctx context.Context, data *entity.Say) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *sayRepository) GetByID(ctx context.Context, id int64) (*entity.Say, error) {
	var record entity.Say
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *sayRepository) GetByIDs(ctx context.Context, ids []int64) ([]entity.Say, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var records []entity.Say
	if err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *sayRepository) Update(ctx context.Context, data *entity.Say) error {
	return xcontext.DB(ctx).Model(&entity.Say{}).Where("id=?", data.ID).
		Updates(map[string]any{
			"content":           data.Content,
			"comments_enabled":  data.CommentsEnabled,
			"is_direct_mention": data.IsDirectMention,
		}).Error
}

func (r *sayRepository) Delete(ctx context.Context, id int64) error {
	err := xcontext.DB(ctx).Where("say_id=?", id).Delete(&entity.SayAudience{}).Error
	if err != nil {
		return err
	}

	return xcontext.DB(ctx).Delete(&entity.Say{}, id).Error
}

// ReplaceAudience rewrites the visible_to set of a direct-mention say.
func (r *sayRepository) ReplaceAudience(ctx context.Context, sayID int64, userIDs []string) error {
	err := xcontext.DB(ctx).Where("say_id=?", sayID).Delete(&entity.SayAudience{}).Error
	if err != nil {
		return err
	}

	for _, userID := range userIDs {
		audience := &entity.SayAudience{SayID: sayID, UserID: userID}
		if err := xcontext.DB(ctx).Create(audience).Error; err != nil {
			return err
		}
	}

	return nil
}

func (r *sayRepository) GetAudienceIDs(ctx context.Context, sayID int64) ([]string, error) {
	var ids []string
	err := xcontext.DB(ctx).Model(&entity.SayAudience{}).
		Where("say_id=?", sayID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}
