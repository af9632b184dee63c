package repository

import (
	"context"
	"errors"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type VoteRecord struct {
	Kind     entity.ContentKind
	ObjectID int64
	Score    int64
	LatestID int64
}

type VoteRepository interface {
	Get(ctx context.Context, userID string, ref entity.ContentRef) (*entity.Vote, error)
	Upsert(ctx context.Context, vote *entity.Vote) error
	Delete(ctx context.Context, userID string, ref entity.ContentRef) error
	DeleteByRef(ctx context.Context, ref entity.ContentRef) error
	SumByRef(ctx context.Context, ref entity.ContentRef) (int64, error)
	GetTopRated(ctx context.Context, kind entity.ContentKind, limit int) ([]VoteRecord, error)
}

type voteRepository struct{}

func NewVoteRepository() *voteRepository {
	return &voteRepository{}
}

func (r *voteRepository) Get(ctx context.Context, userID string, ref entity.ContentRef) (*entity.Vote, error) {
	var record entity.Vote
	err := xcontext.DB(ctx).
		Where("user_id=? AND kind=? AND object_id=?", userID, ref.Kind, ref.ObjectID).
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// Upsert keeps at most one vote per user and subject. Re-voting with a new
// value replaces the old value in place.
func (r *voteRepository) Upsert(ctx context.Context, vote *entity.Vote) error {
	var existing entity.Vote
	err := xcontext.DB(ctx).
		Where("user_id=? AND kind=? AND object_id=?", vote.UserID, vote.Kind, vote.ObjectID).
		Take(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return xcontext.DB(ctx).Create(vote).Error
	}

	if existing.Value == vote.Value {
		return nil
	}

	return xcontext.DB(ctx).Model(&entity.Vote{}).
		Where("id=?", existing.ID).
		Update("value", vote.Value).Error
}

func (r *voteRepository) Delete(ctx context.Context, userID string, ref entity.ContentRef) error {
	return xcontext.DB(ctx).
		Where("user_id=? AND kind=? AND object_id=?", userID, ref.Kind, ref.ObjectID).
		Delete(&entity.Vote{}).Error
}

func (r *voteRepository) DeleteByRef(ctx context.Context, ref entity.ContentRef) error {
	return xcontext.DB(ctx).
		Where("kind=? AND object_id=?", ref.Kind, ref.ObjectID).
		Delete(&entity.Vote{}).Error
}

func (r *voteRepository) SumByRef(ctx context.Context, ref entity.ContentRef) (int64, error) {
	var score int64
	err := xcontext.DB(ctx).Model(&entity.Vote{}).
		Select("coalesce(sum(value), 0)").
		Where("kind=? AND object_id=?", ref.Kind, ref.ObjectID).
		Take(&score).Error
	if err != nil {
		return 0, err
	}

	return score, nil
}

// GetTopRated ranks subjects of one kind by total score. Subjects with equal
// scores order most recently voted first.
func (r *voteRepository) GetTopRated(ctx context.Context, kind entity.ContentKind, limit int) ([]VoteRecord, error) {
	var records []VoteRecord
	err := xcontext.DB(ctx).Model(&entity.Vote{}).
		Select("kind, object_id, sum(value) as score, max(id) as latest_id").
		Where("kind=?", kind).
		Group("kind, object_id").
		Order("score DESC, latest_id DESC").
		Limit(limit).
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}
