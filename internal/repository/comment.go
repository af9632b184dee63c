package repository

import (
	"context"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/pkg/xcontext"
)

type CommentRepository interface {
	Create(ctx context.Context, data *entity.Comment) error
	GetByID(ctx context.Context, id int64) (*entity.Comment, error)
	GetByParent(ctx context.Context, parent entity.ContentRef) ([]entity.Comment, error)
	GetAnchorsByParent(ctx context.Context, parent entity.ContentRef) ([]string, error)
	Delete(ctx context.Context, id int64) error
	DeleteByParent(ctx context.Context, parent entity.ContentRef) error
}

type commentRepository struct{}

func NewCommentRepository() *commentRepository {
	return &commentRepository{}
}

func (r *commentRepository) Create(ctx context.Context, data *entity.Comment) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*entity.Comment, error) {
	var record entity.Comment
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *commentRepository) GetByParent(
	ctx context.Context, parent entity.ContentRef,
) ([]entity.Comment, error) {
	var records []entity.Comment
	err := xcontext.DB(ctx).
		Where("parent_kind=? AND parent_object_id=?", parent.Kind, parent.ObjectID).
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *commentRepository) GetAnchorsByParent(
	ctx context.Context, parent entity.ContentRef,
) ([]string, error) {
	var anchors []string
	err := xcontext.DB(ctx).Model(&entity.Comment{}).
		Where("parent_kind=? AND parent_object_id=?", parent.Kind, parent.ObjectID).
		Pluck("anchor", &anchors).Error
	if err != nil {
		return nil, err
	}

	return anchors, nil
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).Delete(&entity.Comment{}, id).Error
}

func (r *commentRepository) DeleteByParent(ctx context.Context, parent entity.ContentRef) error {
	return xcontext.DB(ctx).
		Where("parent_kind=? AND parent_object_id=?", parent.Kind, parent.ObjectID).
		Delete(&entity.Comment{}).Error
}
