package domain

import (
	"context"
	"errors"

	"github.com/luvlist-lab/backend/internal/common"
	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/internal/model"
	"github.com/luvlist-lab/backend/internal/repository"
	"github.com/luvlist-lab/backend/pkg/enum"
	"github.com/luvlist-lab/backend/pkg/errorx"
	"github.com/luvlist-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type VoteDomain interface {
	Vote(context.Context, *model.VoteRequest) (*model.VoteResponse, error)
	Unvote(context.Context, *model.UnvoteRequest) (*model.UnvoteResponse, error)
	GetScore(context.Context, *model.GetScoreRequest) (*model.GetScoreResponse, error)
	GetTopRated(context.Context, *model.GetTopRatedRequest) (*model.GetTopRatedResponse, error)
}

type voteDomain struct {
	voteRepo repository.VoteRepository
	resolver *common.ContentResolver
}

func NewVoteDomain(
	voteRepo repository.VoteRepository,
	resolver *common.ContentResolver,
) *voteDomain {
	return &voteDomain{
		voteRepo: voteRepo,
		resolver: resolver,
	}
}

func (d *voteDomain) Vote(
	ctx context.Context, req *model.VoteRequest,
) (*model.VoteResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	if req.Value != entity.Upvote && req.Value != entity.Downvote {
		return nil, errorx.New(errorx.BadRequest, "Vote value must be %d or %d",
			entity.Upvote, entity.Downvote)
	}

	ref, err := parseRef(req.Kind, req.ObjectID)
	if err != nil {
		return nil, err
	}

	if _, err := d.resolver.Resolve(ctx, ref); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found content")
		}

		xcontext.Logger(ctx).Errorf("Cannot resolve content: %v", err)
		return nil, errorx.Unknown
	}

	vote := &entity.Vote{
		UserID:   requestUserID,
		Kind:     ref.Kind,
		ObjectID: ref.ObjectID,
		Value:    req.Value,
	}

	if err := d.voteRepo.Upsert(ctx, vote); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert vote: %v", err)
		return nil, errorx.Unknown
	}

	score, err := d.voteRepo.SumByRef(ctx, ref)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum votes: %v", err)
		return nil, errorx.Unknown
	}

	return &model.VoteResponse{Score: score}, nil
}

func (d *voteDomain) Unvote(
	ctx context.Context, req *model.UnvoteRequest,
) (*model.UnvoteResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	ref, err := parseRef(req.Kind, req.ObjectID)
	if err != nil {
		return nil, err
	}

	if err := d.voteRepo.Delete(ctx, requestUserID, ref); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete vote: %v", err)
		return nil, errorx.Unknown
	}

	score, err := d.voteRepo.SumByRef(ctx, ref)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum votes: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnvoteResponse{Score: score}, nil
}

func (d *voteDomain) GetScore(
	ctx context.Context, req *model.GetScoreRequest,
) (*model.GetScoreResponse, error) {
	ref, err := parseRef(req.Kind, req.ObjectID)
	if err != nil {
		return nil, err
	}

	score, err := d.voteRepo.SumByRef(ctx, ref)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum votes: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetScoreResponse{Score: score}, nil
}

func (d *voteDomain) GetTopRated(
	ctx context.Context, req *model.GetTopRatedRequest,
) (*model.GetTopRatedResponse, error) {
	kind, err := enum.ToEnum[entity.ContentKind](req.Kind)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid content kind %s", req.Kind)
	}

	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Limit must be between 1 and %d", apiCfg.MaxLimit)
	}

	records, err := d.voteRepo.GetTopRated(ctx, kind, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get top rated contents: %v", err)
		return nil, errorx.Unknown
	}

	clientRecords := []model.RatedContent{}
	for _, record := range records {
		clientRecords = append(clientRecords, model.RatedContent{
			Kind:     string(record.Kind),
			ObjectID: record.ObjectID,
			Score:    record.Score,
		})
	}

	return &model.GetTopRatedResponse{Records: clientRecords}, nil
}
