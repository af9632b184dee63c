package repository

import (
	"context"
	"errors"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type TagRepository interface {
	GetOrCreate(ctx context.Context, name string) (*entity.Tag, error)
	ReplaceForRef(ctx context.Context, ref entity.ContentRef, tagIDs []int64) error
	GetNamesByRef(ctx context.Context, ref entity.ContentRef) ([]string, error)
	DeleteByRef(ctx context.Context, ref entity.ContentRef) error
	Count(ctx context.Context) (int64, error)
}

type tagRepository struct{}

func NewTagRepository() *tagRepository {
	return &tagRepository{}
}

// GetOrCreate never produces duplicate Tag rows for one name: a creation
// racing another creation loses on the unique index and re-reads.
func (r *tagRepository) GetOrCreate(ctx context.Context, name string) (*entity.Tag, error) {
	var record entity.Tag
	err := xcontext.DB(ctx).Where("name=?", name).Take(&record).Error
	if err == nil {
		return &record, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	record = entity.Tag{Name: name}
	if err := xcontext.DB(ctx).Create(&record).Error; err != nil {
		var existing entity.Tag
		if takeErr := xcontext.DB(ctx).Where("name=?", name).Take(&existing).Error; takeErr == nil {
			return &existing, nil
		}

		return nil, err
	}

	return &record, nil
}

// ReplaceForRef sets the tag set of one content item to exactly tagIDs.
func (r *tagRepository) ReplaceForRef(ctx context.Context, ref entity.ContentRef, tagIDs []int64) error {
	err := xcontext.DB(ctx).
		Where("kind=? AND object_id=?", ref.Kind, ref.ObjectID).
		Delete(&entity.ContentTag{}).Error
	if err != nil {
		return err
	}

	for _, tagID := range tagIDs {
		contentTag := &entity.ContentTag{TagID: tagID, Kind: ref.Kind, ObjectID: ref.ObjectID}
		if err := xcontext.DB(ctx).Create(contentTag).Error; err != nil {
			return err
		}
	}

	return nil
}

func (r *tagRepository) GetNamesByRef(ctx context.Context, ref entity.ContentRef) ([]string, error) {
	var names []string
	err := xcontext.DB(ctx).Model(&entity.ContentTag{}).
		Joins("join tags on tags.id=content_tags.tag_id").
		Where("content_tags.kind=? AND content_tags.object_id=?", ref.Kind, ref.ObjectID).
		Order("tags.name").
		Pluck("tags.name", &names).Error
	if err != nil {
		return nil, err
	}

	return names, nil
}

func (r *tagRepository) DeleteByRef(ctx context.Context, ref entity.ContentRef) error {
	return xcontext.DB(ctx).
		Where("kind=? AND object_id=?", ref.Kind, ref.ObjectID).
		Delete(&entity.ContentTag{}).Error
}

func (r *tagRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := xcontext.DB(ctx).Model(&entity.Tag{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
