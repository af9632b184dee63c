package common

import (
	"context"
	"fmt"
	"time"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/internal/repository"
)

// ContentInfo is the kind-independent view of one content item. Every
// consumer of heterogeneous content (tags, notifications, feed, mirror)
// works off this instead of the concrete row types.
type ContentInfo struct {
	Ref     entity.ContentRef
	OwnerID string

	Title string
	Body  string

	CommentsEnabled bool
	CreatedAt       time.Time
}

// Path returns the site-relative URL of the item.
func (i *ContentInfo) Path() string {
	return i.Ref.AbsolutePath()
}

// ContentResolver dispatches a ContentRef to the repository of its kind.
type ContentResolver struct {
	postRepo    repository.PostRepository
	sayRepo     repository.SayRepository
	pinRepo     repository.PinRepository
	repostRepo  repository.RepostRepository
	checkinRepo repository.CheckinRepository
}

func NewContentResolver(
	postRepo repository.PostRepository,
	sayRepo repository.SayRepository,
	pinRepo repository.PinRepository,
	repostRepo repository.RepostRepository,
	checkinRepo repository.CheckinRepository,
) *ContentResolver {
	return &ContentResolver{
		postRepo:    postRepo,
		sayRepo:     sayRepo,
		pinRepo:     pinRepo,
		repostRepo:  repostRepo,
		checkinRepo: checkinRepo,
	}
}

func (r *ContentResolver) Resolve(ctx context.Context, ref entity.ContentRef) (*ContentInfo, error) {
	switch ref.Kind {
	case entity.KindPost:
		post, err := r.postRepo.GetByID(ctx, ref.ObjectID)
		if err != nil {
			return nil, err
		}

		return &ContentInfo{
			Ref:             ref,
			OwnerID:         post.UserID,
			Title:           post.Title,
			Body:            post.Content,
			CommentsEnabled: post.CommentsEnabled,
			CreatedAt:       post.CreatedAt,
		}, nil

	case entity.KindSay:
		say, err := r.sayRepo.GetByID(ctx, ref.ObjectID)
		if err != nil {
			return nil, err
		}

		return &ContentInfo{
			Ref:             ref,
			OwnerID:         say.UserID,
			Body:            say.Content,
			CommentsEnabled: say.CommentsEnabled,
			CreatedAt:       say.CreatedAt,
		}, nil

	case entity.KindPin:
		pin, err := r.pinRepo.GetByID(ctx, ref.ObjectID)
		if err != nil {
			return nil, err
		}

		return &ContentInfo{
			Ref:             ref,
			OwnerID:         pin.UserID,
			Title:           pin.Title,
			Body:            pin.Content,
			CommentsEnabled: pin.CommentsEnabled,
			CreatedAt:       pin.CreatedAt,
		}, nil

	case entity.KindRepost:
		repost, err := r.repostRepo.GetByID(ctx, ref.ObjectID)
		if err != nil {
			return nil, err
		}

		return &ContentInfo{
			Ref:             ref,
			OwnerID:         repost.UserID,
			Body:            repost.Content,
			CommentsEnabled: repost.CommentsEnabled,
			CreatedAt:       repost.CreatedAt,
		}, nil
	}

	if ref.Kind.IsCheckin() {
		medium, err := checkinMedium(ref.Kind)
		if err != nil {
			return nil, err
		}

		checkin, err := r.checkinRepo.GetByID(ctx, medium, ref.ObjectID)
		if err != nil {
			return nil, err
		}

		return &ContentInfo{
			Ref:             ref,
			OwnerID:         checkin.UserID,
			Body:            checkin.Content,
			CommentsEnabled: checkin.CommentsEnabled,
			CreatedAt:       checkin.CreatedAt,
		}, nil
	}

	return nil, fmt.Errorf("unknown content kind %s", ref.Kind)
}

func checkinMedium(kind entity.ContentKind) (entity.CheckinMedium, error) {
	switch kind {
	case entity.KindReadCheckin:
		return entity.MediumRead, nil
	case entity.KindListenCheckin:
		return entity.MediumListen, nil
	case entity.KindWatchCheckin:
		return entity.MediumWatch, nil
	case entity.KindGameCheckin:
		return entity.MediumGame, nil
	}

	return "", fmt.Errorf("kind %s is not a check-in", kind)
}

// CheckinMediumOf is the exported form used when request parameters carry a
// check-in kind.
func CheckinMediumOf(kind entity.ContentKind) (entity.CheckinMedium, error) {
	return checkinMedium(kind)
}
