package repository

import (
	"context"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/pkg/xcontext"
)

type InvitationCodeRepository interface {
	Create(ctx context.Context, data *entity.InvitationCode) error
	GetByCode(ctx context.Context, code string) (*entity.InvitationCode, error)
	MarkUsed(ctx context.Context, id int64) error
}

type invitationCodeRepository struct{}

func NewInvitationCodeRepository() *invitationCodeRepository {
	return &invitationCodeRepository{}
}

func (r *invitationCodeRepository) Create(ctx context.Context, data *entity.InvitationCode) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *invitationCodeRepository) GetByCode(ctx context.Context, code string) (*entity.InvitationCode, error) {
	var record entity.InvitationCode
	if err := xcontext.DB(ctx).Where("code=?", code).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *invitationCodeRepository) MarkUsed(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).Model(&entity.InvitationCode{}).Where("id=?", id).
		Updates(map[string]any{
			"is_used": true,
			"used_at": xcontext.DB(ctx).NowFunc(),
		}).Error
}
