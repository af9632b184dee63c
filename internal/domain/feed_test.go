package domain

import (
	"testing"

	"github.com/luvlist-lab/backend/internal/common"
	"github.com/luvlist-lab/backend/internal/domain/notify"
	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/internal/model"
	"github.com/luvlist-lab/backend/internal/repository"
	"github.com/luvlist-lab/backend/pkg/errorx"
	"github.com/luvlist-lab/backend/pkg/testutil"
	"github.com/luvlist-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newFeedDomainForTest() *feedDomain {
	resolver := common.NewContentResolver(
		repository.NewPostRepository(),
		repository.NewSayRepository(),
		repository.NewPinRepository(),
		repository.NewRepostRepository(),
		repository.NewCheckinRepository(),
	)

	notificationRepo := repository.NewNotificationRepository(&testutil.MockRedisClient{})

	return NewFeedDomain(
		repository.NewActivityRepository(),
		repository.NewFollowRepository(),
		repository.NewUserRepository(),
		repository.NewPostRepository(),
		repository.NewSayRepository(),
		repository.NewPinRepository(),
		repository.NewRepostRepository(),
		repository.NewCheckinRepository(),
		repository.NewCommentRepository(),
		repository.NewTagRepository(),
		repository.NewVoteRepository(),
		notificationRepo,
		resolver,
		notify.NewManager(notificationRepo, repository.NewUserRepository(), resolver),
	)
}

func Test_feedDomain_Get(t *testing.T) {
	ctx := testutil.MockContext()
	feedDomain := newFeedDomainForTest()
	contentDomain := newContentDomainForTest()

	alice, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	bob, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	carol, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	// Alice follows Bob but not Carol.
	followRepo := repository.NewFollowRepository()
	require.NoError(t, followRepo.Create(ctx, &entity.Follow{
		FollowerID: alice.ID, FollowedID: bob.ID,
	}))

	for _, author := range []entity.User{alice, bob, carol} {
		authorCtx := xcontext.WithRequestUserID(ctx, author.ID)
		_, err := contentDomain.CreatePost(authorCtx, &model.CreatePostRequest{
			Title: "by " + author.Handle, Content: "body", CommentsEnabled: true,
		})
		require.NoError(t, err)
	}

	ctx = xcontext.WithRequestUserID(ctx, alice.ID)
	resp, err := feedDomain.Get(ctx, &model.GetFeedRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Activities, 2)

	// Newest first, and only followed authors plus the requester.
	require.Equal(t, bob.ID, resp.Activities[0].User.ID)
	require.Equal(t, "by "+bob.Handle, resp.Activities[0].Content.Title)
	require.Equal(t, alice.ID, resp.Activities[1].User.ID)
}

func Test_feedDomain_Get_requiresAuth(t *testing.T) {
	ctx := testutil.MockContext()
	feedDomain := newFeedDomainForTest()

	_, err := feedDomain.Get(ctx, &model.GetFeedRequest{})
	require.Error(t, err)
	require.Equal(t, errorx.Unauthenticated, err.(errorx.Error).Code)
}

func Test_feedDomain_Get_directMentionFiltered(t *testing.T) {
	ctx := testutil.MockContext()
	feedDomain := newFeedDomainForTest()
	contentDomain := newContentDomainForTest()

	author, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	mentioned, err := testutil.SampleUser(ctx, &entity.User{Handle: "mentioned"})
	require.NoError(t, err)
	follower, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	followRepo := repository.NewFollowRepository()
	for _, userID := range []string{mentioned.ID, follower.ID} {
		require.NoError(t, followRepo.Create(ctx, &entity.Follow{
			FollowerID: userID, FollowedID: author.ID,
		}))
	}

	authorCtx := xcontext.WithRequestUserID(ctx, author.ID)
	_, err = contentDomain.CreateSay(authorCtx, &model.CreateSayRequest{
		Content: "@mentioned between us", CommentsEnabled: true,
	})
	require.NoError(t, err)

	// The mentioned follower sees it, the other follower does not.
	resp, err := feedDomain.Get(xcontext.WithRequestUserID(ctx, mentioned.ID), &model.GetFeedRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Activities, 1)

	resp, err = feedDomain.Get(xcontext.WithRequestUserID(ctx, follower.ID), &model.GetFeedRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Activities)
}

func Test_feedDomain_Get_limit(t *testing.T) {
	ctx := testutil.MockContext()
	feedDomain := newFeedDomainForTest()

	alice, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, alice.ID)
	_, err = feedDomain.Get(ctx, &model.GetFeedRequest{Limit: 51})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func Test_feedDomain_DeleteActivity(t *testing.T) {
	ctx := testutil.MockContext()
	feedDomain := newFeedDomainForTest()
	contentDomain := newContentDomainForTest()

	owner, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	reposter, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	ownerCtx := xcontext.WithRequestUserID(ctx, owner.ID)
	post, err := contentDomain.CreatePost(ownerCtx, &model.CreatePostRequest{
		Title: "t", Content: "c", CommentsEnabled: true,
	})
	require.NoError(t, err)

	activityRepo := repository.NewActivityRepository()
	postActivity, err := activityRepo.GetByRef(ctx, entity.NewContentRef(entity.KindPost, post.ID))
	require.NoError(t, err)

	reposterCtx := xcontext.WithRequestUserID(ctx, reposter.ID)
	repost, err := contentDomain.CreateRepost(reposterCtx, &model.CreateRepostRequest{
		ActivityID: postActivity.ID,
	})
	require.NoError(t, err)

	repostActivity, err := activityRepo.GetByRef(
		ctx, entity.NewContentRef(entity.KindRepost, repost.ID))
	require.NoError(t, err)

	// Only the owner of the activity may delete it.
	_, err = feedDomain.DeleteActivity(ownerCtx, &model.DeleteActivityRequest{
		ID: repostActivity.ID,
	})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	// Deleting the wrapping activity removes the repost row too.
	_, err = feedDomain.DeleteActivity(reposterCtx, &model.DeleteActivityRequest{
		ID: repostActivity.ID,
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Repost{}).Count(&count).Error)
	require.EqualValues(t, 0, count)

	_, err = feedDomain.DeleteActivity(reposterCtx, &model.DeleteActivityRequest{
		ID: repostActivity.ID,
	})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}

func Test_feedDomain_DeleteActivity_sayCascade(t *testing.T) {
	ctx := testutil.MockContext()
	feedDomain := newFeedDomainForTest()
	contentDomain := newContentDomainForTest()

	author, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	commenter, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	authorCtx := xcontext.WithRequestUserID(ctx, author.ID)
	say, err := contentDomain.CreateSay(authorCtx, &model.CreateSayRequest{
		Content: "fleeting thought", CommentsEnabled: true,
	})
	require.NoError(t, err)

	commenterCtx := xcontext.WithRequestUserID(ctx, commenter.ID)
	_, err = contentDomain.CreateComment(commenterCtx, &model.CreateCommentRequest{
		Kind: "say", ObjectID: say.ID, Content: "seen it",
	})
	require.NoError(t, err)

	activityRepo := repository.NewActivityRepository()
	activity, err := activityRepo.GetByRef(ctx, entity.NewContentRef(entity.KindSay, say.ID))
	require.NoError(t, err)

	// A say exists only through its activity; deleting the entry removes
	// the say row and its comments.
	_, err = feedDomain.DeleteActivity(authorCtx, &model.DeleteActivityRequest{ID: activity.ID})
	require.NoError(t, err)

	var says, comments int64
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Say{}).Count(&says).Error)
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Comment{}).Count(&comments).Error)
	require.EqualValues(t, 0, says)
	require.EqualValues(t, 0, comments)

	// The commenter learns their comment went down with the say.
	notificationRepo := repository.NewNotificationRepository(&testutil.MockRedisClient{})
	notifications, err := notificationRepo.GetListByRecipient(ctx, commenter.ID, 0, 10)
	require.NoError(t, err)

	var deletions int
	for _, n := range notifications {
		if n.Type == entity.NotificationCommentOnDeleted {
			deletions++
			require.Contains(t, n.Message, "seen it")
		}
	}
	require.Equal(t, 1, deletions)
}
