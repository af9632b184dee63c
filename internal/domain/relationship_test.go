package domain

import (
	"testing"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/internal/model"
	"github.com/luvlist-lab/backend/internal/repository"
	"github.com/luvlist-lab/backend/pkg/errorx"
	"github.com/luvlist-lab/backend/pkg/testutil"
	"github.com/luvlist-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newRelationshipDomainForTest() *relationshipDomain {
	return NewRelationshipDomain(
		repository.NewUserRepository(),
		repository.NewFollowRepository(),
		repository.NewBlockRepository(),
		repository.NewActivityRepository(),
	)
}

func Test_relationshipDomain_Follow(t *testing.T) {
	ctx := testutil.MockContext()
	relationshipDomain := newRelationshipDomainForTest()

	alice, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	bob, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, alice.ID)
	_, err = relationshipDomain.Follow(ctx, &model.FollowUserRequest{UserID: bob.ID})
	require.NoError(t, err)

	// Following creates a feed activity pointing at the follow row.
	var activities []entity.Activity
	require.NoError(t, xcontext.DB(ctx).Find(&activities).Error)
	require.Len(t, activities, 1)
	require.Equal(t, alice.ID, activities[0].UserID)
	require.Equal(t, entity.ActivityFollow, activities[0].ActivityType)

	// Following again is a no-op.
	_, err = relationshipDomain.Follow(ctx, &model.FollowUserRequest{UserID: bob.ID})
	require.NoError(t, err)

	var count int64
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Follow{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	_, err = relationshipDomain.Follow(ctx, &model.FollowUserRequest{UserID: alice.ID})
	require.Error(t, err)
}

func Test_relationshipDomain_Follow_blocked(t *testing.T) {
	ctx := testutil.MockContext()
	relationshipDomain := newRelationshipDomainForTest()

	alice, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	bob, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	// Bob blocks alice, so alice cannot follow bob.
	ctx = xcontext.WithRequestUserID(ctx, bob.ID)
	_, err = relationshipDomain.Block(ctx, &model.BlockUserRequest{UserID: alice.ID})
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, alice.ID)
	_, err = relationshipDomain.Follow(ctx, &model.FollowUserRequest{UserID: bob.ID})
	require.Error(t, err)
	require.Equal(t, "You have been blocked by this user and cannot follow them",
		err.(errorx.Error).Message)

	// Bob cannot follow alice either until he unblocks her.
	ctx = xcontext.WithRequestUserID(ctx, bob.ID)
	_, err = relationshipDomain.Follow(ctx, &model.FollowUserRequest{UserID: alice.ID})
	require.Error(t, err)
	require.Equal(t, "You have blocked this user. Unblock them to follow",
		err.(errorx.Error).Message)

	_, err = relationshipDomain.Unblock(ctx, &model.UnblockUserRequest{UserID: alice.ID})
	require.NoError(t, err)

	_, err = relationshipDomain.Follow(ctx, &model.FollowUserRequest{UserID: alice.ID})
	require.NoError(t, err)
}

func Test_relationshipDomain_Block_removesFollows(t *testing.T) {
	ctx := testutil.MockContext()
	relationshipDomain := newRelationshipDomainForTest()

	alice, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	bob, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, alice.ID)
	_, err = relationshipDomain.Follow(ctx, &model.FollowUserRequest{UserID: bob.ID})
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, bob.ID)
	_, err = relationshipDomain.Follow(ctx, &model.FollowUserRequest{UserID: alice.ID})
	require.NoError(t, err)

	_, err = relationshipDomain.Block(ctx, &model.BlockUserRequest{UserID: alice.ID})
	require.NoError(t, err)

	// Both follow rows and their activities are gone.
	var followCount, activityCount int64
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Follow{}).Count(&followCount).Error)
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Activity{}).Count(&activityCount).Error)
	require.EqualValues(t, 0, followCount)
	require.EqualValues(t, 0, activityCount)

	// Unblocking does not restore the follows.
	_, err = relationshipDomain.Unblock(ctx, &model.UnblockUserRequest{UserID: alice.ID})
	require.NoError(t, err)
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Follow{}).Count(&followCount).Error)
	require.EqualValues(t, 0, followCount)
}

func Test_relationshipDomain_Unfollow(t *testing.T) {
	ctx := testutil.MockContext()
	relationshipDomain := newRelationshipDomainForTest()

	alice, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	bob, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, alice.ID)
	_, err = relationshipDomain.Follow(ctx, &model.FollowUserRequest{UserID: bob.ID})
	require.NoError(t, err)

	_, err = relationshipDomain.Unfollow(ctx, &model.UnfollowUserRequest{UserID: bob.ID})
	require.NoError(t, err)

	var followCount, activityCount int64
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Follow{}).Count(&followCount).Error)
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Activity{}).Count(&activityCount).Error)
	require.EqualValues(t, 0, followCount)
	require.EqualValues(t, 0, activityCount)

	// Unfollowing someone not followed is a no-op.
	_, err = relationshipDomain.Unfollow(ctx, &model.UnfollowUserRequest{UserID: bob.ID})
	require.NoError(t, err)
}

func Test_relationshipDomain_GetFollowing(t *testing.T) {
	ctx := testutil.MockContext()
	relationshipDomain := newRelationshipDomainForTest()

	alice, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	bob, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, alice.ID)
	_, err = relationshipDomain.Follow(ctx, &model.FollowUserRequest{UserID: bob.ID})
	require.NoError(t, err)

	following, err := relationshipDomain.GetFollowing(ctx, &model.GetFollowingRequest{})
	require.NoError(t, err)
	require.Len(t, following.Users, 1)
	require.Equal(t, bob.ID, following.Users[0].ID)

	ctx = xcontext.WithRequestUserID(ctx, bob.ID)
	followers, err := relationshipDomain.GetFollowers(ctx, &model.GetFollowersRequest{})
	require.NoError(t, err)
	require.Len(t, followers.Users, 1)
	require.Equal(t, alice.ID, followers.Users[0].ID)
}
