package domain

import (
	"context"
	"errors"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/internal/model"
	"github.com/luvlist-lab/backend/internal/repository"
	"github.com/luvlist-lab/backend/pkg/errorx"
	"github.com/luvlist-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RelationshipDomain interface {
	Follow(context.Context, *model.FollowUserRequest) (*model.FollowUserResponse, error)
	Unfollow(context.Context, *model.UnfollowUserRequest) (*model.UnfollowUserResponse, error)
	Block(context.Context, *model.BlockUserRequest) (*model.BlockUserResponse, error)
	Unblock(context.Context, *model.UnblockUserRequest) (*model.UnblockUserResponse, error)
	GetFollowing(context.Context, *model.GetFollowingRequest) (*model.GetFollowingResponse, error)
	GetFollowers(context.Context, *model.GetFollowersRequest) (*model.GetFollowersResponse, error)
}

type relationshipDomain struct {
	userRepo     repository.UserRepository
	followRepo   repository.FollowRepository
	blockRepo    repository.BlockRepository
	activityRepo repository.ActivityRepository
}

func NewRelationshipDomain(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	blockRepo repository.BlockRepository,
	activityRepo repository.ActivityRepository,
) *relationshipDomain {
	return &relationshipDomain{
		userRepo:     userRepo,
		followRepo:   followRepo,
		blockRepo:    blockRepo,
		activityRepo: activityRepo,
	}
}

func (d *relationshipDomain) target(ctx context.Context, userID string) (*entity.User, error) {
	if userID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	target, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return target, nil
}

// Follow creates the follow pair and its feed activity. It is idempotent
// and refuses when a block exists in either direction.
func (d *relationshipDomain) Follow(
	ctx context.Context, req *model.FollowUserRequest,
) (*model.FollowUserResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	target, err := d.target(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if target.ID == requestUserID {
		return nil, errorx.New(errorx.BadRequest, "Cannot follow yourself")
	}

	blocked, err := d.blockRepo.Exists(ctx, target.ID, requestUserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check block: %v", err)
		return nil, errorx.Unknown
	}

	if blocked {
		return nil, errorx.New(errorx.PermissionDenied,
			"You have been blocked by this user and cannot follow them")
	}

	blocking, err := d.blockRepo.Exists(ctx, requestUserID, target.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check block: %v", err)
		return nil, errorx.Unknown
	}

	if blocking {
		return nil, errorx.New(errorx.PermissionDenied,
			"You have blocked this user. Unblock them to follow")
	}

	if _, err := d.followRepo.Get(ctx, requestUserID, target.ID); err == nil {
		return &model.FollowUserResponse{}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get follow: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	follow := &entity.Follow{FollowerID: requestUserID, FollowedID: target.ID}
	if err := d.followRepo.Create(ctx, follow); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create follow: %v", err)
		return nil, errorx.Unknown
	}

	activity := &entity.Activity{
		UserID:       requestUserID,
		ActivityType: entity.ActivityFollow,
		ContentRef:   entity.NewContentRef("", follow.ID),
	}
	if err := d.activityRepo.Create(ctx, activity); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create follow activity: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.FollowUserResponse{}, nil
}

// Unfollow removes the follow pair and its activity. Unfollowing someone
// not followed is a no-op.
func (d *relationshipDomain) Unfollow(
	ctx context.Context, req *model.UnfollowUserRequest,
) (*model.UnfollowUserResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	target, err := d.target(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	removed, err := d.followRepo.Delete(ctx, requestUserID, target.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete follow: %v", err)
		return nil, errorx.Unknown
	}

	if removed != nil {
		if err := d.activityRepo.DeleteFollowActivity(ctx, requestUserID, removed.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete follow activity: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.UnfollowUserResponse{}, nil
}

// Block creates the block pair and removes follows in both directions,
// together with their feed activities.
func (d *relationshipDomain) Block(
	ctx context.Context, req *model.BlockUserRequest,
) (*model.BlockUserResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	target, err := d.target(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if target.ID == requestUserID {
		return nil, errorx.New(errorx.BadRequest, "Cannot block yourself")
	}

	exists, err := d.blockRepo.Exists(ctx, requestUserID, target.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check block: %v", err)
		return nil, errorx.Unknown
	}

	if exists {
		return &model.BlockUserResponse{}, nil
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	block := &entity.Block{BlockerID: requestUserID, BlockedID: target.ID}
	if err := d.blockRepo.Create(ctx, block); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create block: %v", err)
		return nil, errorx.Unknown
	}

	removed, err := d.followRepo.DeleteBetween(ctx, requestUserID, target.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete follows: %v", err)
		return nil, errorx.Unknown
	}

	for _, follow := range removed {
		if err := d.activityRepo.DeleteFollowActivity(ctx, follow.FollowerID, follow.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete follow activity: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.BlockUserResponse{}, nil
}

// Unblock removes the block pair. Prior follows are not restored.
func (d *relationshipDomain) Unblock(
	ctx context.Context, req *model.UnblockUserRequest,
) (*model.UnblockUserResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	target, err := d.target(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if err := d.blockRepo.Delete(ctx, requestUserID, target.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete block: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnblockUserResponse{}, nil
}

func (d *relationshipDomain) GetFollowing(
	ctx context.Context, req *model.GetFollowingRequest,
) (*model.GetFollowingResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	ids, err := d.followRepo.GetFollowingIDs(ctx, requestUserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get following ids: %v", err)
		return nil, errorx.Unknown
	}

	users, err := d.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetFollowingResponse{Users: model.ConvertShortUsers(users)}, nil
}

func (d *relationshipDomain) GetFollowers(
	ctx context.Context, req *model.GetFollowersRequest,
) (*model.GetFollowersResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	ids, err := d.followRepo.GetFollowerIDs(ctx, requestUserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get follower ids: %v", err)
		return nil, errorx.Unknown
	}

	users, err := d.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetFollowersResponse{Users: model.ConvertShortUsers(users)}, nil
}
