package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/luvlist-lab/backend/internal/common"
	"github.com/luvlist-lab/backend/internal/domain/mirror"
	"github.com/luvlist-lab/backend/internal/domain/notify"
	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/internal/model"
	"github.com/luvlist-lab/backend/internal/repository"
	"github.com/luvlist-lab/backend/pkg/bluesky"
	"github.com/luvlist-lab/backend/pkg/errorx"
	"github.com/luvlist-lab/backend/pkg/mastodon"
	"github.com/luvlist-lab/backend/pkg/testutil"
	"github.com/luvlist-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newContentDomainForTest() *contentDomain {
	notificationRepo := repository.NewNotificationRepository(&testutil.MockRedisClient{})
	accountRepo := repository.NewMirrorAccountRepository()
	resolver := common.NewContentResolver(
		repository.NewPostRepository(),
		repository.NewSayRepository(),
		repository.NewPinRepository(),
		repository.NewRepostRepository(),
		repository.NewCheckinRepository(),
	)

	return NewContentDomain(
		repository.NewPostRepository(),
		repository.NewSayRepository(),
		repository.NewPinRepository(),
		repository.NewRepostRepository(),
		repository.NewCheckinRepository(),
		repository.NewCommentRepository(),
		repository.NewTagRepository(),
		repository.NewVoteRepository(),
		repository.NewActivityRepository(),
		repository.NewUserRepository(),
		repository.NewBlockRepository(),
		notificationRepo,
		resolver,
		notify.NewManager(notificationRepo, repository.NewUserRepository(), resolver),
		mirror.NewManager(accountRepo, bluesky.NewClient(time.Second), mastodon.NewClient(time.Second)),
	)
}

func Test_contentDomain_CreatePost(t *testing.T) {
	ctx := testutil.MockContext()
	contentDomain := newContentDomainForTest()

	alice, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	bob, err := testutil.SampleUser(ctx, &entity.User{Handle: "bob"})
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, alice.ID)
	resp, err := contentDomain.CreatePost(ctx, &model.CreatePostRequest{
		Title:           "Reading list",
		Content:         "cc @bob, this year it is all #books and #films",
		CommentsEnabled: true,
	})
	require.NoError(t, err)
	require.NotZero(t, resp.ID)

	// One feed activity per created post.
	activityRepo := repository.NewActivityRepository()
	activity, err := activityRepo.GetByRef(ctx, entity.NewContentRef(entity.KindPost, resp.ID))
	require.NoError(t, err)
	require.Equal(t, alice.ID, activity.UserID)

	// Hashtags become the tag set of the post.
	tags, err := repository.NewTagRepository().GetNamesByRef(
		ctx, entity.NewContentRef(entity.KindPost, resp.ID))
	require.NoError(t, err)
	require.Equal(t, []string{"books", "films"}, tags)

	// The mentioned user is notified, with a mark-read link baked into the
	// message.
	notificationRepo := repository.NewNotificationRepository(&testutil.MockRedisClient{})
	notifications, err := notificationRepo.GetListByRecipient(ctx, bob.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, entity.NotificationMention, notifications[0].Type)
	require.Contains(t, notifications[0].Message, "?mark_read=")
	require.Contains(t, notifications[0].Message, "mentioned you in a")
}

func Test_contentDomain_UpdatePost_replacesTags(t *testing.T) {
	ctx := testutil.MockContext()
	contentDomain := newContentDomainForTest()

	alice, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, alice.ID)
	created, err := contentDomain.CreatePost(ctx, &model.CreatePostRequest{
		Title: "t", Content: "#old", CommentsEnabled: true,
	})
	require.NoError(t, err)

	_, err = contentDomain.UpdatePost(ctx, &model.UpdatePostRequest{
		ID: created.ID, Title: "t", Content: "#fresh #new", CommentsEnabled: true,
	})
	require.NoError(t, err)

	tags, err := repository.NewTagRepository().GetNamesByRef(
		ctx, entity.NewContentRef(entity.KindPost, created.ID))
	require.NoError(t, err)
	require.Equal(t, []string{"fresh", "new"}, tags)
}

func Test_contentDomain_CreateSay_directMention(t *testing.T) {
	ctx := testutil.MockContext()
	contentDomain := newContentDomainForTest()

	alice, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	bob, err := testutil.SampleUser(ctx, &entity.User{Handle: "bob"})
	require.NoError(t, err)
	carol, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, alice.ID)
	resp, err := contentDomain.CreateSay(ctx, &model.CreateSayRequest{
		Content: "@bob did you see this?", CommentsEnabled: true,
	})
	require.NoError(t, err)
	require.True(t, resp.IsDirectMention)

	// The author and the mentioned user can read it, a third user cannot.
	_, err = contentDomain.Get(ctx, &model.GetContentRequest{Kind: "say", ObjectID: resp.ID})
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, bob.ID)
	_, err = contentDomain.Get(ctx, &model.GetContentRequest{Kind: "say", ObjectID: resp.ID})
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, carol.ID)
	_, err = contentDomain.Get(ctx, &model.GetContentRequest{Kind: "say", ObjectID: resp.ID})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}

func Test_contentDomain_CreateSay_plain(t *testing.T) {
	ctx := testutil.MockContext()
	contentDomain := newContentDomainForTest()

	alice, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	carol, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	// A mention that is not the first character does not restrict
	// visibility.
	ctx = xcontext.WithRequestUserID(ctx, alice.ID)
	resp, err := contentDomain.CreateSay(ctx, &model.CreateSayRequest{
		Content: "just thinking out loud", CommentsEnabled: true,
	})
	require.NoError(t, err)
	require.False(t, resp.IsDirectMention)

	ctx = xcontext.WithRequestUserID(ctx, carol.ID)
	_, err = contentDomain.Get(ctx, &model.GetContentRequest{Kind: "say", ObjectID: resp.ID})
	require.NoError(t, err)
}

func Test_contentDomain_CreateComment(t *testing.T) {
	ctx := testutil.MockContext()
	contentDomain := newContentDomainForTest()

	owner, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	commenter, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	post, err := testutil.SamplePost(ctx, owner.ID, nil)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, commenter.ID)
	resp, err := contentDomain.CreateComment(ctx, &model.CreateCommentRequest{
		Kind: "post", ObjectID: post.ID, Content: "nice list",
	})
	require.NoError(t, err)
	require.Len(t, resp.Anchor, anchorLength)

	// The post owner is notified and the message links back with the
	// notification's own mark-read id.
	notificationRepo := repository.NewNotificationRepository(&testutil.MockRedisClient{})
	notifications, err := notificationRepo.GetListByRecipient(ctx, owner.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, entity.NotificationComment, notifications[0].Type)
	require.Contains(t, notifications[0].Message, "commented on your")
	require.Contains(t, notifications[0].Message,
		fmt.Sprintf("?mark_read=%d", notifications[0].ID))
}

func Test_contentDomain_CreateComment_ownPostNoNotification(t *testing.T) {
	ctx := testutil.MockContext()
	contentDomain := newContentDomainForTest()

	owner, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	post, err := testutil.SamplePost(ctx, owner.ID, nil)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, owner.ID)
	_, err = contentDomain.CreateComment(ctx, &model.CreateCommentRequest{
		Kind: "post", ObjectID: post.ID, Content: "a note to myself",
	})
	require.NoError(t, err)

	notificationRepo := repository.NewNotificationRepository(&testutil.MockRedisClient{})
	notifications, err := notificationRepo.GetListByRecipient(ctx, owner.ID, 0, 10)
	require.NoError(t, err)
	require.Empty(t, notifications)
}

func Test_contentDomain_CreateComment_blocked(t *testing.T) {
	ctx := testutil.MockContext()
	contentDomain := newContentDomainForTest()

	owner, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	commenter, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	post, err := testutil.SamplePost(ctx, owner.ID, nil)
	require.NoError(t, err)

	blockRepo := repository.NewBlockRepository()
	require.NoError(t, blockRepo.Create(ctx, &entity.Block{
		BlockerID: owner.ID, BlockedID: commenter.ID,
	}))

	ctx = xcontext.WithRequestUserID(ctx, commenter.ID)
	_, err = contentDomain.CreateComment(ctx, &model.CreateCommentRequest{
		Kind: "post", ObjectID: post.ID, Content: "hello",
	})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	// The rejected comment must not be persisted.
	var count int64
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Comment{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func Test_contentDomain_CreateComment_disabled(t *testing.T) {
	ctx := testutil.MockContext()
	contentDomain := newContentDomainForTest()

	owner, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	commenter, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	postRepo := repository.NewPostRepository()
	post := &entity.Post{UserID: owner.ID, Title: "t", Content: "c", CommentsEnabled: false}
	require.NoError(t, postRepo.Create(ctx, post))

	ctx = xcontext.WithRequestUserID(ctx, commenter.ID)
	_, err = contentDomain.CreateComment(ctx, &model.CreateCommentRequest{
		Kind: "post", ObjectID: post.ID, Content: "hello",
	})
	require.Error(t, err)
}

func Test_contentDomain_Delete_cascade(t *testing.T) {
	ctx := testutil.MockContext()
	contentDomain := newContentDomainForTest()

	owner, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	commenter1, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	commenter2, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, owner.ID)
	created, err := contentDomain.CreatePost(ctx, &model.CreatePostRequest{
		Title: "doomed", Content: "#transient", CommentsEnabled: true,
	})
	require.NoError(t, err)

	for _, commenter := range []entity.User{commenter1, commenter2} {
		commentCtx := xcontext.WithRequestUserID(ctx, commenter.ID)
		_, err = contentDomain.CreateComment(commentCtx, &model.CreateCommentRequest{
			Kind: "post", ObjectID: created.ID, Content: "I was here",
		})
		require.NoError(t, err)
	}

	require.NoError(t, repository.NewVoteRepository().Upsert(ctx, &entity.Vote{
		UserID: commenter1.ID, Kind: entity.KindPost, ObjectID: created.ID, Value: 1,
	}))

	ctx = xcontext.WithRequestUserID(ctx, owner.ID)
	_, err = contentDomain.Delete(ctx, &model.DeleteContentRequest{
		Kind: "post", ObjectID: created.ID,
	})
	require.NoError(t, err)

	// Comments, tags, votes, and the activity are all gone.
	var comments, contentTags, votes, activities int64
	db := xcontext.DB(ctx)
	require.NoError(t, db.Model(&entity.Comment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&entity.ContentTag{}).Count(&contentTags).Error)
	require.NoError(t, db.Model(&entity.Vote{}).Count(&votes).Error)
	require.NoError(t, db.Model(&entity.Activity{}).Count(&activities).Error)
	require.EqualValues(t, 0, comments)
	require.EqualValues(t, 0, contentTags)
	require.EqualValues(t, 0, votes)
	require.EqualValues(t, 0, activities)

	// Each commenter is told their comment went down with the post.
	notificationRepo := repository.NewNotificationRepository(&testutil.MockRedisClient{})
	for _, commenter := range []entity.User{commenter1, commenter2} {
		notifications, err := notificationRepo.GetListByRecipient(ctx, commenter.ID, 0, 10)
		require.NoError(t, err)

		var deletions int
		for _, n := range notifications {
			if n.Type == entity.NotificationCommentOnDeleted {
				deletions++
				require.Contains(t, n.Message, "I was here")
			}
		}
		require.Equal(t, 1, deletions)
	}
}

func Test_contentDomain_CreateRepost(t *testing.T) {
	ctx := testutil.MockContext()
	contentDomain := newContentDomainForTest()

	owner, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	reposter, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, owner.ID)
	post, err := contentDomain.CreatePost(ctx, &model.CreatePostRequest{
		Title: "original", Content: "body", CommentsEnabled: true,
	})
	require.NoError(t, err)

	activity, err := repository.NewActivityRepository().GetByRef(
		ctx, entity.NewContentRef(entity.KindPost, post.ID))
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, reposter.ID)
	repost, err := contentDomain.CreateRepost(ctx, &model.CreateRepostRequest{
		ActivityID: activity.ID, Content: "worth a read",
	})
	require.NoError(t, err)

	// The author is notified about the repost.
	notificationRepo := repository.NewNotificationRepository(&testutil.MockRedisClient{})
	notifications, err := notificationRepo.GetListByRecipient(ctx, owner.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, entity.NotificationRepost, notifications[0].Type)
	require.Contains(t, notifications[0].Message, "reposted your")

	// Reposting the same original twice is rejected.
	_, err = contentDomain.CreateRepost(ctx, &model.CreateRepostRequest{
		ActivityID: activity.ID,
	})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	// A repost of a repost resolves through to the underlying content.
	other, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	ctx = xcontext.WithRequestUserID(ctx, other.ID)
	_, err = contentDomain.CreateRepost(ctx, &model.CreateRepostRequest{
		RepostID: repost.ID,
	})
	require.NoError(t, err)
}

func Test_contentDomain_CreateRepost_blocked(t *testing.T) {
	ctx := testutil.MockContext()
	contentDomain := newContentDomainForTest()

	owner, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	reposter, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, owner.ID)
	post, err := contentDomain.CreatePost(ctx, &model.CreatePostRequest{
		Title: "original", Content: "body", CommentsEnabled: true,
	})
	require.NoError(t, err)

	activity, err := repository.NewActivityRepository().GetByRef(
		ctx, entity.NewContentRef(entity.KindPost, post.ID))
	require.NoError(t, err)

	require.NoError(t, repository.NewBlockRepository().Create(ctx, &entity.Block{
		BlockerID: owner.ID, BlockedID: reposter.ID,
	}))

	ctx = xcontext.WithRequestUserID(ctx, reposter.ID)
	_, err = contentDomain.CreateRepost(ctx, &model.CreateRepostRequest{
		ActivityID: activity.ID,
	})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	// The rejected repost leaves no row behind.
	var count int64
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Repost{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func Test_contentDomain_DeleteComment(t *testing.T) {
	ctx := testutil.MockContext()
	contentDomain := newContentDomainForTest()

	owner, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	commenter, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	stranger, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	post, err := testutil.SamplePost(ctx, owner.ID, nil)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, commenter.ID)
	comment, err := contentDomain.CreateComment(ctx, &model.CreateCommentRequest{
		Kind: "post", ObjectID: post.ID, Content: "removable",
	})
	require.NoError(t, err)

	// A third party cannot delete it.
	ctx = xcontext.WithRequestUserID(ctx, stranger.ID)
	_, err = contentDomain.DeleteComment(ctx, &model.DeleteCommentRequest{ID: comment.ID})
	require.Error(t, err)

	// The parent owner can, and the comment author is told about it.
	ctx = xcontext.WithRequestUserID(ctx, owner.ID)
	_, err = contentDomain.DeleteComment(ctx, &model.DeleteCommentRequest{ID: comment.ID})
	require.NoError(t, err)

	var count int64
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Comment{}).Count(&count).Error)
	require.EqualValues(t, 0, count)

	notificationRepo := repository.NewNotificationRepository(&testutil.MockRedisClient{})
	notifications, err := notificationRepo.GetListByRecipient(ctx, commenter.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, entity.NotificationCommentDeletedByUser, notifications[0].Type)
	require.Contains(t, notifications[0].Message, "removable")
}
