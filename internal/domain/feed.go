package domain

import (
	"context"
	"errors"

	"github.com/luvlist-lab/backend/internal/common"
	"github.com/luvlist-lab/backend/internal/domain/notify"
	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/internal/model"
	"github.com/luvlist-lab/backend/internal/repository"
	"github.com/luvlist-lab/backend/pkg/errorx"
	"github.com/luvlist-lab/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type FeedDomain interface {
	Get(context.Context, *model.GetFeedRequest) (*model.GetFeedResponse, error)
	DeleteActivity(context.Context, *model.DeleteActivityRequest) (*model.DeleteActivityResponse, error)
}

type feedDomain struct {
	activityRepo repository.ActivityRepository
	followRepo   repository.FollowRepository
	userRepo     repository.UserRepository
	sayRepo      repository.SayRepository
	resolver     *common.ContentResolver
	remover      *contentRemover
}

func NewFeedDomain(
	activityRepo repository.ActivityRepository,
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	sayRepo repository.SayRepository,
	pinRepo repository.PinRepository,
	repostRepo repository.RepostRepository,
	checkinRepo repository.CheckinRepository,
	commentRepo repository.CommentRepository,
	tagRepo repository.TagRepository,
	voteRepo repository.VoteRepository,
	notificationRepo repository.NotificationRepository,
	resolver *common.ContentResolver,
	notifyManager *notify.Manager,
) *feedDomain {
	return &feedDomain{
		activityRepo: activityRepo,
		followRepo:   followRepo,
		userRepo:     userRepo,
		sayRepo:      sayRepo,
		resolver:     resolver,
		remover: newContentRemover(
			postRepo, sayRepo, pinRepo, repostRepo, checkinRepo,
			commentRepo, tagRepo, voteRepo, activityRepo,
			notificationRepo, notifyManager,
		),
	}
}

// Get assembles the feed from the requester's own activity plus that of
// every followed user, newest first. Direct-mention says are dropped unless
// the requester belongs to their audience.
func (d *feedDomain) Get(
	ctx context.Context, req *model.GetFeedRequest,
) (*model.GetFeedResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Limit must be between 1 and %d", apiCfg.MaxLimit)
	}

	followingIDs, err := d.followRepo.GetFollowingIDs(ctx, requestUserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get following ids: %v", err)
		return nil, errorx.Unknown
	}

	activities, err := d.activityRepo.GetFeed(
		ctx, append(followingIDs, requestUserID), req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get feed: %v", err)
		return nil, errorx.Unknown
	}

	userMap, err := d.actorMap(ctx, activities)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get feed actors: %v", err)
		return nil, errorx.Unknown
	}

	clientActivities := []model.Activity{}
	for i := range activities {
		activity := &activities[i]
		clientActivity := model.Activity{
			ID:           activity.ID,
			ActivityType: string(activity.ActivityType),
			User:         model.ConvertShortUser(userMap[activity.UserID]),
			CreatedAt:    activity.CreatedAt.Format(model.DefaultTimeLayout),
		}

		if activity.ActivityType != entity.ActivityFollow {
			visible, content, err := d.renderContent(ctx, requestUserID, activity, userMap)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot render feed content: %v", err)
				return nil, errorx.Unknown
			}

			if !visible {
				continue
			}

			clientActivity.Content = content
		}

		clientActivities = append(clientActivities, clientActivity)
	}

	return &model.GetFeedResponse{Activities: clientActivities}, nil
}

func (d *feedDomain) actorMap(
	ctx context.Context, activities []entity.Activity,
) (map[string]*entity.User, error) {
	ids := []string{}
	for i := range activities {
		ids = append(ids, activities[i].UserID)
	}

	users, err := d.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	userMap := map[string]*entity.User{}
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	return userMap, nil
}

// renderContent resolves the activity's content. A stale activity whose
// content disappeared is skipped rather than failing the whole feed.
func (d *feedDomain) renderContent(
	ctx context.Context, requestUserID string, activity *entity.Activity, userMap map[string]*entity.User,
) (bool, model.Content, error) {
	if activity.Kind == entity.KindSay {
		say, err := d.sayRepo.GetByID(ctx, activity.ObjectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, model.Content{}, nil
			}

			return false, model.Content{}, err
		}

		if say.IsDirectMention {
			audience, err := d.sayRepo.GetAudienceIDs(ctx, say.ID)
			if err != nil {
				return false, model.Content{}, err
			}

			if !slices.Contains(audience, requestUserID) {
				return false, model.Content{}, nil
			}
		}
	}

	info, err := d.resolver.Resolve(ctx, activity.ContentRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, model.Content{}, nil
		}

		return false, model.Content{}, err
	}

	return true, model.Content{
		Kind:      string(info.Ref.Kind),
		ObjectID:  info.Ref.ObjectID,
		User:      model.ConvertShortUser(userMap[activity.UserID]),
		Title:     info.Title,
		Body:      info.Body,
		CreatedAt: info.CreatedAt.Format(model.DefaultTimeLayout),
	}, nil
}

// DeleteActivity removes one of the requester's feed entries. Says and
// reposts exist only through their activity, so deleting the entry takes
// the wrapped row down with its full tree: comments, tags, votes, mute
// records, and the deletion-cascade notifications.
func (d *feedDomain) DeleteActivity(
	ctx context.Context, req *model.DeleteActivityRequest,
) (*model.DeleteActivityResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	activity, err := d.activityRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found activity")
		}

		xcontext.Logger(ctx).Errorf("Cannot get activity: %v", err)
		return nil, errorx.Unknown
	}

	if activity.UserID != requestUserID {
		return nil, errorx.New(errorx.PermissionDenied, "Cannot delete another user's activity")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	wrapsContent := activity.Kind == entity.KindSay || activity.Kind == entity.KindRepost
	if wrapsContent {
		info, err := d.resolver.Resolve(ctx, activity.ContentRef)
		switch {
		case err == nil:
			if err := d.remover.deleteContentTree(ctx, info); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot delete wrapped content: %v", err)
				return nil, errorx.Unknown
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Stale entry, the wrapped row is already gone.
			wrapsContent = false
		default:
			xcontext.Logger(ctx).Errorf("Cannot resolve wrapped content: %v", err)
			return nil, errorx.Unknown
		}
	}

	if !wrapsContent {
		if err := d.activityRepo.DeleteByRef(ctx, activity.ContentRef); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete activity: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.DeleteActivityResponse{}, nil
}
