package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/luvlist-lab/backend/internal/common"
	"github.com/luvlist-lab/backend/internal/domain/mirror"
	"github.com/luvlist-lab/backend/internal/domain/notify"
	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/internal/model"
	"github.com/luvlist-lab/backend/internal/repository"
	"github.com/luvlist-lab/backend/pkg/crypto"
	"github.com/luvlist-lab/backend/pkg/enum"
	"github.com/luvlist-lab/backend/pkg/errorx"
	"github.com/luvlist-lab/backend/pkg/textparse"
	"github.com/luvlist-lab/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const anchorLength = 4

type ContentDomain interface {
	CreatePost(context.Context, *model.CreatePostRequest) (*model.CreatePostResponse, error)
	UpdatePost(context.Context, *model.UpdatePostRequest) (*model.UpdatePostResponse, error)
	CreateSay(context.Context, *model.CreateSayRequest) (*model.CreateSayResponse, error)
	UpdateSay(context.Context, *model.UpdateSayRequest) (*model.UpdateSayResponse, error)
	CreatePin(context.Context, *model.CreatePinRequest) (*model.CreatePinResponse, error)
	UpdatePin(context.Context, *model.UpdatePinRequest) (*model.UpdatePinResponse, error)
	CreateRepost(context.Context, *model.CreateRepostRequest) (*model.CreateRepostResponse, error)
	CreateCheckin(context.Context, *model.CreateCheckinRequest) (*model.CreateCheckinResponse, error)
	UpdateCheckin(context.Context, *model.UpdateCheckinRequest) (*model.UpdateCheckinResponse, error)
	Get(context.Context, *model.GetContentRequest) (*model.GetContentResponse, error)
	Delete(context.Context, *model.DeleteContentRequest) (*model.DeleteContentResponse, error)
	CreateComment(context.Context, *model.CreateCommentRequest) (*model.CreateCommentResponse, error)
	GetComments(context.Context, *model.GetCommentsRequest) (*model.GetCommentsResponse, error)
	DeleteComment(context.Context, *model.DeleteCommentRequest) (*model.DeleteCommentResponse, error)
}

type contentDomain struct {
	postRepo         repository.PostRepository
	sayRepo          repository.SayRepository
	pinRepo          repository.PinRepository
	repostRepo       repository.RepostRepository
	checkinRepo      repository.CheckinRepository
	commentRepo      repository.CommentRepository
	tagRepo          repository.TagRepository
	voteRepo         repository.VoteRepository
	activityRepo     repository.ActivityRepository
	userRepo         repository.UserRepository
	blockRepo        repository.BlockRepository
	notificationRepo repository.NotificationRepository
	resolver         *common.ContentResolver
	notifyManager    *notify.Manager
	mirrorManager    *mirror.Manager
	remover          *contentRemover
}

func NewContentDomain(
	postRepo repository.PostRepository,
	sayRepo repository.SayRepository,
	pinRepo repository.PinRepository,
	repostRepo repository.RepostRepository,
	checkinRepo repository.CheckinRepository,
	commentRepo repository.CommentRepository,
	tagRepo repository.TagRepository,
	voteRepo repository.VoteRepository,
	activityRepo repository.ActivityRepository,
	userRepo repository.UserRepository,
	blockRepo repository.BlockRepository,
	notificationRepo repository.NotificationRepository,
	resolver *common.ContentResolver,
	notifyManager *notify.Manager,
	mirrorManager *mirror.Manager,
) *contentDomain {
	return &contentDomain{
		postRepo:         postRepo,
		sayRepo:          sayRepo,
		pinRepo:          pinRepo,
		repostRepo:       repostRepo,
		checkinRepo:      checkinRepo,
		commentRepo:      commentRepo,
		tagRepo:          tagRepo,
		voteRepo:         voteRepo,
		activityRepo:     activityRepo,
		userRepo:         userRepo,
		blockRepo:        blockRepo,
		notificationRepo: notificationRepo,
		resolver:         resolver,
		notifyManager:    notifyManager,
		mirrorManager:    mirrorManager,
		remover: newContentRemover(
			postRepo, sayRepo, pinRepo, repostRepo, checkinRepo,
			commentRepo, tagRepo, voteRepo, activityRepo,
			notificationRepo, notifyManager,
		),
	}
}

// contentRemover carries the removal sequence shared by the explicit
// delete operation and the feed's activity deletion cascade.
type contentRemover struct {
	postRepo         repository.PostRepository
	sayRepo          repository.SayRepository
	pinRepo          repository.PinRepository
	repostRepo       repository.RepostRepository
	checkinRepo      repository.CheckinRepository
	commentRepo      repository.CommentRepository
	tagRepo          repository.TagRepository
	voteRepo         repository.VoteRepository
	activityRepo     repository.ActivityRepository
	notificationRepo repository.NotificationRepository
	notifyManager    *notify.Manager
}

func newContentRemover(
	postRepo repository.PostRepository,
	sayRepo repository.SayRepository,
	pinRepo repository.PinRepository,
	repostRepo repository.RepostRepository,
	checkinRepo repository.CheckinRepository,
	commentRepo repository.CommentRepository,
	tagRepo repository.TagRepository,
	voteRepo repository.VoteRepository,
	activityRepo repository.ActivityRepository,
	notificationRepo repository.NotificationRepository,
	notifyManager *notify.Manager,
) *contentRemover {
	return &contentRemover{
		postRepo:         postRepo,
		sayRepo:          sayRepo,
		pinRepo:          pinRepo,
		repostRepo:       repostRepo,
		checkinRepo:      checkinRepo,
		commentRepo:      commentRepo,
		tagRepo:          tagRepo,
		voteRepo:         voteRepo,
		activityRepo:     activityRepo,
		notificationRepo: notificationRepo,
		notifyManager:    notifyManager,
	}
}

func (d *contentDomain) requestUser(ctx context.Context) (*entity.User, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get request user: %v", err)
		return nil, errorx.Unknown
	}

	return user, nil
}

// handleTags replaces the tag set of ref with the hashtags currently found
// in text.
func (d *contentDomain) handleTags(ctx context.Context, ref entity.ContentRef, text string) error {
	tagIDs := []int64{}
	for _, name := range textparse.Hashtags(text) {
		tag, err := d.tagRepo.GetOrCreate(ctx, name)
		if err != nil {
			return err
		}

		tagIDs = append(tagIDs, tag.ID)
	}

	return d.tagRepo.ReplaceForRef(ctx, ref, tagIDs)
}

// fanOutCreate runs the post-persist side effects of a newly created item:
// activity entry, tag extraction, mention notifications, and external
// mirroring. Mirroring is deferred until the enclosing transaction commits.
func (d *contentDomain) fanOutCreate(
	ctx context.Context, author *entity.User, info *common.ContentInfo, mirrorText string, withActivity bool,
) error {
	if withActivity {
		activity := &entity.Activity{
			UserID:       author.ID,
			ActivityType: entity.ActivityType(info.Ref.Kind),
			ContentRef:   info.Ref,
		}
		if err := d.activityRepo.Create(ctx, activity); err != nil {
			return err
		}
	}

	if err := d.handleTags(ctx, info.Ref, info.Body); err != nil {
		return err
	}

	if err := d.notifyManager.MentionsIn(ctx, author, info.Body, info); err != nil {
		return err
	}

	if mirrorText != "" {
		authorID := author.ID
		ref := info.Ref
		xcontext.AfterCommit(ctx, func(hookCtx context.Context) {
			d.mirrorManager.Mirror(hookCtx, authorID, mirrorText, ref)
		})
	}

	return nil
}

// fanOutUpdate re-runs the side effects that track the body text.
func (d *contentDomain) fanOutUpdate(
	ctx context.Context, author *entity.User, info *common.ContentInfo,
) error {
	if err := d.handleTags(ctx, info.Ref, info.Body); err != nil {
		return err
	}

	return d.notifyManager.MentionsIn(ctx, author, info.Body, info)
}

func (d *contentDomain) CreatePost(
	ctx context.Context, req *model.CreatePostRequest,
) (*model.CreatePostResponse, error) {
	user, err := d.requestUser(ctx)
	if err != nil {
		return nil, err
	}

	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty title")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	post := &entity.Post{
		UserID:          user.ID,
		Title:           req.Title,
		Content:         req.Content,
		CommentsEnabled: req.CommentsEnabled,
	}
	if err := d.postRepo.Create(ctx, post); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create post: %v", err)
		return nil, errorx.Unknown
	}

	info := &common.ContentInfo{Ref: post.Ref(), OwnerID: user.ID, Title: post.Title, Body: post.Content}
	mirrorText := fmt.Sprintf("I posted %q on %s\n\n%s\n\n",
		post.Title, xcontext.Configs(ctx).App.SiteName, post.Content)
	if err := d.fanOutCreate(ctx, user, info, mirrorText, true); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot fan out post: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.CreatePostResponse{ID: post.ID}, nil
}

func (d *contentDomain) UpdatePost(
	ctx context.Context, req *model.UpdatePostRequest,
) (*model.UpdatePostResponse, error) {
	user, err := d.requestUser(ctx)
	if err != nil {
		return nil, err
	}

	post, err := d.postRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	if post.UserID != user.ID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can update this post")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	post.Title = req.Title
	post.Content = req.Content
	post.CommentsEnabled = req.CommentsEnabled
	if err := d.postRepo.Update(ctx, post); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update post: %v", err)
		return nil, errorx.Unknown
	}

	info := &common.ContentInfo{Ref: post.Ref(), OwnerID: user.ID, Title: post.Title, Body: post.Content}
	if err := d.fanOutUpdate(ctx, user, info); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot fan out post update: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.UpdatePostResponse{}, nil
}

// applySayAudience recomputes the visible_to set of a direct-mention say
// from the handles in its body, always including the author.
func (d *contentDomain) applySayAudience(ctx context.Context, author *entity.User, say *entity.Say) error {
	handles := textparse.Mentions(say.Content)
	mentioned, err := d.userRepo.GetByHandles(ctx, handles)
	if err != nil {
		return err
	}

	audience := []string{author.ID}
	for _, u := range mentioned {
		if u.ID != author.ID {
			audience = append(audience, u.ID)
		}
	}

	return d.sayRepo.ReplaceAudience(ctx, say.ID, audience)
}

func (d *contentDomain) CreateSay(
	ctx context.Context, req *model.CreateSayRequest,
) (*model.CreateSayResponse, error) {
	user, err := d.requestUser(ctx)
	if err != nil {
		return nil, err
	}

	if req.Content == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty content")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	say := &entity.Say{
		UserID:          user.ID,
		Content:         req.Content,
		CommentsEnabled: req.CommentsEnabled,
		IsDirectMention: strings.HasPrefix(req.Content, "@"),
	}
	if err := d.sayRepo.Create(ctx, say); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create say: %v", err)
		return nil, errorx.Unknown
	}

	if say.IsDirectMention {
		if err := d.applySayAudience(ctx, user, say); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot set say audience: %v", err)
			return nil, errorx.Unknown
		}
	}

	info := &common.ContentInfo{Ref: say.Ref(), OwnerID: user.ID, Body: say.Content}
	if err := d.fanOutCreate(ctx, user, info, say.Content, true); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot fan out say: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.CreateSayResponse{ID: say.ID, IsDirectMention: say.IsDirectMention}, nil
}

func (d *contentDomain) UpdateSay(
	ctx context.Context, req *model.UpdateSayRequest,
) (*model.UpdateSayResponse, error) {
	user, err := d.requestUser(ctx)
	if err != nil {
		return nil, err
	}

	say, err := d.sayRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found say")
		}

		xcontext.Logger(ctx).Errorf("Cannot get say: %v", err)
		return nil, errorx.Unknown
	}

	if say.UserID != user.ID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can update this say")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	say.Content = req.Content
	say.CommentsEnabled = req.CommentsEnabled
	if strings.HasPrefix(req.Content, "@") {
		say.IsDirectMention = true
	}

	if err := d.sayRepo.Update(ctx, say); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update say: %v", err)
		return nil, errorx.Unknown
	}

	if say.IsDirectMention {
		if err := d.applySayAudience(ctx, user, say); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot set say audience: %v", err)
			return nil, errorx.Unknown
		}
	}

	info := &common.ContentInfo{Ref: say.Ref(), OwnerID: user.ID, Body: say.Content}
	if err := d.fanOutUpdate(ctx, user, info); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot fan out say update: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.UpdateSayResponse{}, nil
}

func (d *contentDomain) CreatePin(
	ctx context.Context, req *model.CreatePinRequest,
) (*model.CreatePinResponse, error) {
	user, err := d.requestUser(ctx)
	if err != nil {
		return nil, err
	}

	parsed, err := url.Parse(req.URL)
	if err != nil || parsed.Host == "" {
		return nil, errorx.New(errorx.BadRequest, "Invalid pin url")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	pin := &entity.Pin{
		UserID:          user.ID,
		Title:           req.Title,
		URL:             req.URL,
		Content:         req.Content,
		CommentsEnabled: req.CommentsEnabled,
	}
	if err := d.pinRepo.Create(ctx, pin); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create pin: %v", err)
		return nil, errorx.Unknown
	}

	info := &common.ContentInfo{Ref: pin.Ref(), OwnerID: user.ID, Title: pin.Title, Body: pin.Content}
	mirrorText := fmt.Sprintf("I pinned %q (%s) on %s\n\n%s\n\n",
		pin.Title, parsed.Host, xcontext.Configs(ctx).App.SiteName, pin.Content)
	if err := d.fanOutCreate(ctx, user, info, mirrorText, true); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot fan out pin: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.CreatePinResponse{ID: pin.ID}, nil
}

func (d *contentDomain) UpdatePin(
	ctx context.Context, req *model.UpdatePinRequest,
) (*model.UpdatePinResponse, error) {
	user, err := d.requestUser(ctx)
	if err != nil {
		return nil, err
	}

	pin, err := d.pinRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found pin")
		}

		xcontext.Logger(ctx).Errorf("Cannot get pin: %v", err)
		return nil, errorx.Unknown
	}

	if pin.UserID != user.ID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can update this pin")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	pin.Title = req.Title
	pin.URL = req.URL
	pin.Content = req.Content
	pin.CommentsEnabled = req.CommentsEnabled
	if err := d.pinRepo.Update(ctx, pin); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update pin: %v", err)
		return nil, errorx.Unknown
	}

	info := &common.ContentInfo{Ref: pin.Ref(), OwnerID: user.ID, Title: pin.Title, Body: pin.Content}
	if err := d.fanOutUpdate(ctx, user, info); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot fan out pin update: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.UpdatePinResponse{}, nil
}

func (d *contentDomain) CreateRepost(
	ctx context.Context, req *model.CreateRepostRequest,
) (*model.CreateRepostResponse, error) {
	user, err := d.requestUser(ctx)
	if err != nil {
		return nil, err
	}

	if (req.ActivityID == 0) == (req.RepostID == 0) {
		return nil, errorx.New(errorx.BadRequest, "Specify exactly one of activity_id and repost_id")
	}

	var original entity.ContentRef
	var originalActivityID, originalRepostID int64
	if req.ActivityID != 0 {
		activity, err := d.activityRepo.GetByID(ctx, req.ActivityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found activity")
			}

			xcontext.Logger(ctx).Errorf("Cannot get activity: %v", err)
			return nil, errorx.Unknown
		}

		if activity.ActivityType == entity.ActivityFollow {
			return nil, errorx.New(errorx.BadRequest, "Cannot repost a follow activity")
		}

		original = activity.ContentRef
		originalActivityID = activity.ID
	} else {
		repost, err := d.repostRepo.GetByID(ctx, req.RepostID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found repost")
			}

			xcontext.Logger(ctx).Errorf("Cannot get repost: %v", err)
			return nil, errorx.Unknown
		}

		original = repost.Original
		originalRepostID = repost.ID
	}

	originalInfo, err := d.resolver.Resolve(ctx, original)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "The original content no longer exists")
		}

		xcontext.Logger(ctx).Errorf("Cannot resolve original content: %v", err)
		return nil, errorx.Unknown
	}

	blocked, err := d.blockRepo.Exists(ctx, originalInfo.OwnerID, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check block: %v", err)
		return nil, errorx.Unknown
	}

	if blocked {
		return nil, errorx.New(errorx.PermissionDenied, "You are blocked by the author and cannot repost")
	}

	if existing, err := d.repostRepo.GetByOriginal(ctx, user.ID, original); err == nil && existing != nil {
		return nil, errorx.New(errorx.AlreadyExists, "You already reposted this content")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check repost duplicate: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	repost := &entity.Repost{
		UserID:   user.ID,
		Content:  req.Content,
		Original: original,
	}
	if originalActivityID != 0 {
		repost.OriginalActivityID = nullInt64(originalActivityID)
	}
	if originalRepostID != 0 {
		repost.OriginalRepostID = nullInt64(originalRepostID)
	}

	if err := d.repostRepo.Create(ctx, repost); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create repost: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.notifyManager.RepostCreated(ctx, user, repost, originalInfo); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot notify repost: %v", err)
		return nil, errorx.Unknown
	}

	var mirrorText string
	if repost.Content != "" {
		mirrorText = repost.Content
	}

	info := &common.ContentInfo{Ref: repost.Ref(), OwnerID: user.ID, Body: repost.Content}
	if err := d.fanOutCreate(ctx, user, info, mirrorText, true); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot fan out repost: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.CreateRepostResponse{ID: repost.ID}, nil
}

func (d *contentDomain) CreateCheckin(
	ctx context.Context, req *model.CreateCheckinRequest,
) (*model.CreateCheckinResponse, error) {
	user, err := d.requestUser(ctx)
	if err != nil {
		return nil, err
	}

	medium, err := enum.ToEnum[entity.CheckinMedium](req.Medium)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid check-in medium %s", req.Medium)
	}

	if req.MediaID == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty media id")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	checkin := &entity.Checkin{
		UserID:          user.ID,
		Medium:          medium,
		MediaID:         req.MediaID,
		Status:          req.Status,
		Progress:        req.Progress,
		Content:         req.Content,
		CommentsEnabled: req.CommentsEnabled,
		ShareToFeed:     req.ShareToFeed,
	}
	if err := d.checkinRepo.Create(ctx, checkin); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create checkin: %v", err)
		return nil, errorx.Unknown
	}

	info := &common.ContentInfo{Ref: checkin.Ref(), OwnerID: user.ID, Body: checkin.Content}
	if err := d.fanOutCreate(ctx, user, info, checkin.Content, checkin.ShareToFeed); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot fan out checkin: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.CreateCheckinResponse{ID: checkin.ID}, nil
}

func (d *contentDomain) UpdateCheckin(
	ctx context.Context, req *model.UpdateCheckinRequest,
) (*model.UpdateCheckinResponse, error) {
	user, err := d.requestUser(ctx)
	if err != nil {
		return nil, err
	}

	medium, err := enum.ToEnum[entity.CheckinMedium](req.Medium)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid check-in medium %s", req.Medium)
	}

	checkin, err := d.checkinRepo.GetByID(ctx, medium, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found check-in")
		}

		xcontext.Logger(ctx).Errorf("Cannot get checkin: %v", err)
		return nil, errorx.Unknown
	}

	if checkin.UserID != user.ID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can update this check-in")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	checkin.Status = req.Status
	checkin.Progress = req.Progress
	checkin.Content = req.Content
	if err := d.checkinRepo.Update(ctx, checkin); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update checkin: %v", err)
		return nil, errorx.Unknown
	}

	info := &common.ContentInfo{Ref: checkin.Ref(), OwnerID: user.ID, Body: checkin.Content}
	if err := d.fanOutUpdate(ctx, user, info); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot fan out checkin update: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.UpdateCheckinResponse{}, nil
}

func (d *contentDomain) Get(
	ctx context.Context, req *model.GetContentRequest,
) (*model.GetContentResponse, error) {
	ref, err := parseRef(req.Kind, req.ObjectID)
	if err != nil {
		return nil, err
	}

	info, err := d.resolver.Resolve(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found content")
		}

		xcontext.Logger(ctx).Errorf("Cannot resolve content: %v", err)
		return nil, errorx.Unknown
	}

	owner, err := d.userRepo.GetByID(ctx, info.OwnerID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get content owner: %v", err)
		return nil, errorx.Unknown
	}

	// Direct-mention says are visible only to their audience.
	if ref.Kind == entity.KindSay {
		say, err := d.sayRepo.GetByID(ctx, ref.ObjectID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get say: %v", err)
			return nil, errorx.Unknown
		}

		if say.IsDirectMention {
			audience, err := d.sayRepo.GetAudienceIDs(ctx, say.ID)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get say audience: %v", err)
				return nil, errorx.Unknown
			}

			if !slices.Contains(audience, xcontext.RequestUserID(ctx)) {
				return nil, errorx.New(errorx.NotFound, "Not found content")
			}
		}
	}

	tags, err := d.tagRepo.GetNamesByRef(ctx, ref)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tags: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetContentResponse{
		Kind:      string(ref.Kind),
		ObjectID:  ref.ObjectID,
		User:      model.ConvertShortUser(owner),
		Title:     info.Title,
		Body:      info.Body,
		Tags:      tags,
		CreatedAt: info.CreatedAt.Format(model.DefaultTimeLayout),
	}, nil
}

// Delete removes one content item with its comments, tags, votes, mute
// records, and activity entry. Commenters other than the owner are notified
// before anything is removed.
func (d *contentDomain) Delete(
	ctx context.Context, req *model.DeleteContentRequest,
) (*model.DeleteContentResponse, error) {
	user, err := d.requestUser(ctx)
	if err != nil {
		return nil, err
	}

	ref, err := parseRef(req.Kind, req.ObjectID)
	if err != nil {
		return nil, err
	}

	info, err := d.resolver.Resolve(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found content")
		}

		xcontext.Logger(ctx).Errorf("Cannot resolve content: %v", err)
		return nil, errorx.Unknown
	}

	if info.OwnerID != user.ID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can delete this content")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.remover.deleteContentTree(ctx, info); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete content: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.DeleteContentResponse{}, nil
}

// deleteContentTree is the shared removal sequence. The deletion-cascade
// notifications run first, against the still-present rows.
func (r *contentRemover) deleteContentTree(ctx context.Context, info *common.ContentInfo) error {
	comments, err := r.commentRepo.GetByParent(ctx, info.Ref)
	if err != nil {
		return err
	}

	if err := r.notifyManager.ContentDeleted(ctx, info.OwnerID, info.Ref.Kind, comments); err != nil {
		return err
	}

	if err := r.commentRepo.DeleteByParent(ctx, info.Ref); err != nil {
		return err
	}

	if err := r.tagRepo.DeleteByRef(ctx, info.Ref); err != nil {
		return err
	}

	if err := r.voteRepo.DeleteByRef(ctx, info.Ref); err != nil {
		return err
	}

	if err := r.notificationRepo.DeleteMutedByRef(ctx, info.Ref); err != nil {
		return err
	}

	if err := r.deleteRow(ctx, info.Ref); err != nil {
		return err
	}

	return r.activityRepo.DeleteByRef(ctx, info.Ref)
}

func (r *contentRemover) deleteRow(ctx context.Context, ref entity.ContentRef) error {
	switch ref.Kind {
	case entity.KindPost:
		return r.postRepo.Delete(ctx, ref.ObjectID)
	case entity.KindSay:
		return r.sayRepo.Delete(ctx, ref.ObjectID)
	case entity.KindPin:
		return r.pinRepo.Delete(ctx, ref.ObjectID)
	case entity.KindRepost:
		return r.repostRepo.Delete(ctx, ref.ObjectID)
	}

	if ref.Kind.IsCheckin() {
		return r.checkinRepo.Delete(ctx, ref.ObjectID)
	}

	return fmt.Errorf("unknown content kind %s", ref.Kind)
}

func (d *contentDomain) CreateComment(
	ctx context.Context, req *model.CreateCommentRequest,
) (*model.CreateCommentResponse, error) {
	user, err := d.requestUser(ctx)
	if err != nil {
		return nil, err
	}

	if req.Content == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty content")
	}

	ref, err := parseRef(req.Kind, req.ObjectID)
	if err != nil {
		return nil, err
	}

	info, err := d.resolver.Resolve(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found content")
		}

		xcontext.Logger(ctx).Errorf("Cannot resolve content: %v", err)
		return nil, errorx.Unknown
	}

	if !info.CommentsEnabled {
		return nil, errorx.New(errorx.PermissionDenied, "Comments are disabled on this content")
	}

	blocked, err := d.blockRepo.Exists(ctx, info.OwnerID, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check block: %v", err)
		return nil, errorx.Unknown
	}

	if blocked {
		return nil, errorx.New(errorx.PermissionDenied, "You are blocked by the user and cannot comment")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	comment := &entity.Comment{
		UserID:         user.ID,
		Content:        req.Content,
		ParentKind:     ref.Kind,
		ParentObjectID: ref.ObjectID,
	}
	if err := d.createWithUniqueAnchor(ctx, comment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create comment: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.notifyManager.CommentCreated(ctx, user, info); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot notify comment: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.notifyManager.MentionsIn(ctx, user, comment.Content, info); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot notify comment mentions: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.CreateCommentResponse{ID: comment.ID, Anchor: comment.Anchor}, nil
}

// createWithUniqueAnchor assigns a random anchor not yet used under the
// comment's parent. A concurrent writer can still win the same anchor, so a
// unique-index failure is retried once with a fresh draw.
func (d *contentDomain) createWithUniqueAnchor(ctx context.Context, comment *entity.Comment) error {
	existing, err := d.commentRepo.GetAnchorsByParent(ctx, comment.ParentRef())
	if err != nil {
		return err
	}

	taken := map[string]struct{}{}
	for _, anchor := range existing {
		taken[anchor] = struct{}{}
	}

	var createErr error
	for attempt := 0; attempt < 2; attempt++ {
		comment.Anchor = ""
		for draw := 0; draw < 100; draw++ {
			anchor := crypto.GenerateRandomAlphanumeric(anchorLength)
			if _, ok := taken[anchor]; !ok {
				comment.Anchor = anchor
				break
			}
		}

		if comment.Anchor == "" {
			return errors.New("anchor space exhausted")
		}

		comment.ID = 0
		createErr = d.commentRepo.Create(ctx, comment)
		if createErr == nil {
			return nil
		}

		taken[comment.Anchor] = struct{}{}
	}

	return createErr
}

func (d *contentDomain) GetComments(
	ctx context.Context, req *model.GetCommentsRequest,
) (*model.GetCommentsResponse, error) {
	ref, err := parseRef(req.Kind, req.ObjectID)
	if err != nil {
		return nil, err
	}

	comments, err := d.commentRepo.GetByParent(ctx, ref)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comments: %v", err)
		return nil, errorx.Unknown
	}

	authorIDs := []string{}
	for _, c := range comments {
		authorIDs = append(authorIDs, c.UserID)
	}

	authors, err := d.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comment authors: %v", err)
		return nil, errorx.Unknown
	}

	authorMap := map[string]*entity.User{}
	for i := range authors {
		authorMap[authors[i].ID] = &authors[i]
	}

	clientComments := []model.Comment{}
	for i := range comments {
		clientComments = append(clientComments,
			model.ConvertComment(&comments[i], authorMap[comments[i].UserID]))
	}

	return &model.GetCommentsResponse{Comments: clientComments}, nil
}

// DeleteComment removes a comment. Both the comment's author and the parent
// content's owner may delete it; when the owner deletes someone else's
// comment, the commenter is notified after the transaction commits.
func (d *contentDomain) DeleteComment(
	ctx context.Context, req *model.DeleteCommentRequest,
) (*model.DeleteCommentResponse, error) {
	user, err := d.requestUser(ctx)
	if err != nil {
		return nil, err
	}

	comment, err := d.commentRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found comment")
		}

		xcontext.Logger(ctx).Errorf("Cannot get comment: %v", err)
		return nil, errorx.Unknown
	}

	info, err := d.resolver.Resolve(ctx, comment.ParentRef())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot resolve comment parent: %v", err)
		return nil, errorx.Unknown
	}

	isParentOwner := info != nil && info.OwnerID == user.ID
	if comment.UserID != user.ID && !isParentOwner {
		return nil, errorx.New(errorx.PermissionDenied, "Cannot delete another user's comment")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.commentRepo.Delete(ctx, comment.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete comment: %v", err)
		return nil, errorx.Unknown
	}

	if isParentOwner && comment.UserID != user.ID {
		d.notifyManager.CommentDeletedByOwner(ctx, comment, info)
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.DeleteCommentResponse{}, nil
}

func parseRef(kind string, objectID int64) (entity.ContentRef, error) {
	parsedKind, err := enum.ToEnum[entity.ContentKind](kind)
	if err != nil {
		return entity.ContentRef{}, errorx.New(errorx.BadRequest, "Invalid content kind %s", kind)
	}

	if objectID == 0 {
		return entity.ContentRef{}, errorx.New(errorx.BadRequest, "Not allow empty object id")
	}

	return entity.NewContentRef(parsedKind, objectID), nil
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: true}
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

