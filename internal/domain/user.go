package domain

import (
	"context"
	"encoding/hex"
	"errors"
	"regexp"
	"time"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/internal/model"
	"github.com/luvlist-lab/backend/internal/repository"
	"github.com/luvlist-lab/backend/pkg/authenticator"
	"github.com/luvlist-lab/backend/pkg/crypto"
	"github.com/luvlist-lab/backend/pkg/errorx"
	"github.com/luvlist-lab/backend/pkg/mastodon"
	"github.com/luvlist-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invitationCodeLength = 12

var handlePattern = regexp.MustCompile(`^\w+$`)

type UserDomain interface {
	Register(context.Context, *model.RegisterRequest) (*model.RegisterResponse, error)
	Get(context.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	Deactivate(context.Context, *model.DeactivateUserRequest) (*model.DeactivateUserResponse, error)
	GenerateInvitationCode(context.Context, *model.GenerateInvitationCodeRequest) (*model.GenerateInvitationCodeResponse, error)
	LinkBluesky(context.Context, *model.LinkBlueskyAccountRequest) (*model.LinkBlueskyAccountResponse, error)
	UnlinkBluesky(context.Context, *model.UnlinkBlueskyAccountRequest) (*model.UnlinkBlueskyAccountResponse, error)
	LinkMastodon(context.Context, *model.LinkMastodonAccountRequest) (*model.LinkMastodonAccountResponse, error)
	UnlinkMastodon(context.Context, *model.UnlinkMastodonAccountRequest) (*model.UnlinkMastodonAccountResponse, error)
}

type userDomain struct {
	userRepo       repository.UserRepository
	invitationRepo repository.InvitationCodeRepository
	followRepo     repository.FollowRepository
	activityRepo   repository.ActivityRepository
	accountRepo    repository.MirrorAccountRepository
	tokenEngine    authenticator.TokenEngine[model.AccessToken]
}

func NewUserDomain(
	userRepo repository.UserRepository,
	invitationRepo repository.InvitationCodeRepository,
	followRepo repository.FollowRepository,
	activityRepo repository.ActivityRepository,
	accountRepo repository.MirrorAccountRepository,
	tokenEngine authenticator.TokenEngine[model.AccessToken],
) *userDomain {
	return &userDomain{
		userRepo:       userRepo,
		invitationRepo: invitationRepo,
		followRepo:     followRepo,
		activityRepo:   activityRepo,
		accountRepo:    accountRepo,
		tokenEngine:    tokenEngine,
	}
}

// Register creates an account from an unused invitation code. When the code
// has a known issuer, a mutual follow between issuer and the new user is
// created in the same transaction.
func (d *userDomain) Register(
	ctx context.Context, req *model.RegisterRequest,
) (*model.RegisterResponse, error) {
	if !handlePattern.MatchString(req.Handle) {
		return nil, errorx.New(errorx.BadRequest, "Handle must contain only letters, digits, and underscores")
	}

	if _, err := d.userRepo.GetByHandle(ctx, req.Handle); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "This handle is already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check handle: %v", err)
		return nil, errorx.Unknown
	}

	code, err := d.invitationRepo.GetByCode(ctx, req.InvitationCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found invitation code")
		}

		xcontext.Logger(ctx).Errorf("Cannot get invitation code: %v", err)
		return nil, errorx.Unknown
	}

	if code.IsUsed {
		return nil, errorx.New(errorx.PermissionDenied, "This invitation code has already been used")
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid timezone %s", timezone)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	user := &entity.User{
		Base:        entity.Base{ID: uuid.NewString()},
		Handle:      req.Handle,
		DisplayName: req.DisplayName,
		Timezone:    timezone,
		InvitedBy:   code.GeneratedBy,
	}
	if err := d.userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.invitationRepo.MarkUsed(ctx, code.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark invitation code used: %v", err)
		return nil, errorx.Unknown
	}

	if code.GeneratedBy.Valid {
		if err := d.mutualFollow(ctx, user.ID, code.GeneratedBy.String); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create mutual follow: %v", err)
			return nil, errorx.Unknown
		}
	}

	token, err := d.tokenEngine.Generate(user.ID, model.AccessToken{ID: user.ID, Handle: user.Handle})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.RegisterResponse{User: model.ConvertUser(user), AccessToken: token}, nil
}

func (d *userDomain) mutualFollow(ctx context.Context, newUserID, inviterID string) error {
	for _, pair := range [][2]string{{newUserID, inviterID}, {inviterID, newUserID}} {
		follow := &entity.Follow{FollowerID: pair[0], FollowedID: pair[1]}
		if err := d.followRepo.Create(ctx, follow); err != nil {
			return err
		}

		activity := &entity.Activity{
			UserID:       pair[0],
			ActivityType: entity.ActivityFollow,
			ContentRef:   entity.NewContentRef("", follow.ID),
		}
		if err := d.activityRepo.Create(ctx, activity); err != nil {
			return err
		}
	}

	return nil
}

func (d *userDomain) Get(
	ctx context.Context, req *model.GetUserRequest,
) (*model.GetUserResponse, error) {
	user, err := d.userRepo.GetByHandle(ctx, req.Handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if user.IsDeactivated {
		return nil, errorx.New(errorx.NotFound, "Not found user")
	}

	resp := model.GetUserResponse(model.ConvertUser(user))
	return &resp, nil
}

func (d *userDomain) GetMe(
	ctx context.Context, req *model.GetMeRequest,
) (*model.GetMeResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	user, err := d.userRepo.GetByID(ctx, requestUserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetMeResponse(model.ConvertUser(user))
	return &resp, nil
}

func (d *userDomain) Deactivate(
	ctx context.Context, req *model.DeactivateUserRequest,
) (*model.DeactivateUserResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	if err := d.userRepo.Deactivate(ctx, requestUserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot deactivate user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeactivateUserResponse{}, nil
}

// GenerateInvitationCode issues a single-use code attributed to the
// requesting user. Collisions with existing codes are retried.
func (d *userDomain) GenerateInvitationCode(
	ctx context.Context, req *model.GenerateInvitationCodeRequest,
) (*model.GenerateInvitationCodeResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	var code *entity.InvitationCode
	for attempt := 0; attempt < 3; attempt++ {
		candidate := &entity.InvitationCode{
			Code:        crypto.GenerateRandomAlphanumeric(invitationCodeLength),
			GeneratedBy: nullString(requestUserID),
		}

		if err := d.invitationRepo.Create(ctx, candidate); err == nil {
			code = candidate
			break
		} else {
			xcontext.Logger(ctx).Warnf("Retry invitation code generation: %v", err)
		}
	}

	if code == nil {
		xcontext.Logger(ctx).Errorf("Cannot generate a unique invitation code")
		return nil, errorx.Unknown
	}

	return &model.GenerateInvitationCodeResponse{Code: code.Code}, nil
}

func (d *userDomain) LinkBluesky(
	ctx context.Context, req *model.LinkBlueskyAccountRequest,
) (*model.LinkBlueskyAccountResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	if req.Handle == "" || req.PdsURL == "" || req.AppPassword == "" {
		return nil, errorx.New(errorx.BadRequest, "Handle, pds_url, and app_password are required")
	}

	encrypted, err := d.encrypt(ctx, req.AppPassword)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot encrypt app password: %v", err)
		return nil, errorx.Unknown
	}

	account := &entity.BlueskyAccount{
		UserID:            requestUserID,
		Handle:            req.Handle,
		PdsURL:            req.PdsURL,
		EncryptedPassword: encrypted,
	}
	if err := d.accountRepo.CreateBluesky(ctx, account); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot link bluesky account: %v", err)
		return nil, errorx.New(errorx.AlreadyExists, "This account is already linked")
	}

	return &model.LinkBlueskyAccountResponse{}, nil
}

func (d *userDomain) UnlinkBluesky(
	ctx context.Context, req *model.UnlinkBlueskyAccountRequest,
) (*model.UnlinkBlueskyAccountResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	if err := d.accountRepo.DeleteBluesky(ctx, requestUserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unlink bluesky account: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnlinkBlueskyAccountResponse{}, nil
}

func (d *userDomain) LinkMastodon(
	ctx context.Context, req *model.LinkMastodonAccountRequest,
) (*model.LinkMastodonAccountResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	if req.Handle == "" || req.AccessToken == "" {
		return nil, errorx.New(errorx.BadRequest, "Handle and access_token are required")
	}

	// The instance is derived from the handle, so it must be user@instance.
	if _, err := mastodon.InstanceURL(req.Handle); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Handle must look like user@instance")
	}

	encrypted, err := d.encrypt(ctx, req.AccessToken)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot encrypt access token: %v", err)
		return nil, errorx.Unknown
	}

	account := &entity.MastodonAccount{
		UserID:               requestUserID,
		Handle:               req.Handle,
		EncryptedAccessToken: encrypted,
	}
	if err := d.accountRepo.CreateMastodon(ctx, account); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot link mastodon account: %v", err)
		return nil, errorx.New(errorx.AlreadyExists, "This account is already linked")
	}

	return &model.LinkMastodonAccountResponse{}, nil
}

func (d *userDomain) UnlinkMastodon(
	ctx context.Context, req *model.UnlinkMastodonAccountRequest,
) (*model.UnlinkMastodonAccountResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	if err := d.accountRepo.DeleteMastodon(ctx, requestUserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unlink mastodon account: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnlinkMastodonAccountResponse{}, nil
}

func (d *userDomain) encrypt(ctx context.Context, plaintext string) (string, error) {
	key, err := hex.DecodeString(xcontext.Configs(ctx).Mirror.SecretKey)
	if err != nil {
		return "", err
	}

	return crypto.Encrypt(key, plaintext)
}
