package domain

import (
	"context"
	"testing"

	"github.com/luvlist-lab/backend/internal/model"
	"github.com/luvlist-lab/backend/internal/repository"
	"github.com/luvlist-lab/backend/pkg/errorx"
	"github.com/luvlist-lab/backend/pkg/testutil"
	"github.com/luvlist-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newLuvListDomainForTest() *luvlistDomain {
	return NewLuvListDomain(repository.NewLuvListRepository(), repository.NewUserRepository())
}

func sampleListWithItems(
	t *testing.T, ctx context.Context, luvlistDomain *luvlistDomain, itemCount int,
) (int64, []int64) {
	t.Helper()

	created, err := luvlistDomain.Create(ctx, &model.CreateLuvListRequest{Title: "films"})
	require.NoError(t, err)

	itemIDs := []int64{}
	for i := 0; i < itemCount; i++ {
		owner := xcontext.RequestUserID(ctx)
		post, err := testutil.SamplePost(ctx, owner, nil)
		require.NoError(t, err)

		item, err := luvlistDomain.AddItem(ctx, &model.AddLuvListItemRequest{
			LuvListID: created.ID, Kind: "post", ObjectID: post.ID, Order: i,
		})
		require.NoError(t, err)
		itemIDs = append(itemIDs, item.ID)
	}

	return created.ID, itemIDs
}

func Test_luvlistDomain_CreateAndGet(t *testing.T) {
	ctx := testutil.MockContext()
	luvlistDomain := newLuvListDomainForTest()

	owner, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, owner.ID)
	_, err = luvlistDomain.Create(ctx, &model.CreateLuvListRequest{})
	require.Error(t, err)
	require.Equal(t, "Not allow empty title", err.(errorx.Error).Message)

	listID, itemIDs := sampleListWithItems(t, ctx, luvlistDomain, 2)

	resp, err := luvlistDomain.Get(ctx, &model.GetLuvListRequest{ID: listID})
	require.NoError(t, err)
	require.Equal(t, "films", resp.LuvList.Title)
	require.Len(t, resp.Items, 2)
	require.Equal(t, itemIDs[0], resp.Items[0].ID)

	mine, err := luvlistDomain.GetMine(ctx, &model.GetMyLuvListsRequest{})
	require.NoError(t, err)
	require.Len(t, mine.LuvLists, 1)
}

func Test_luvlistDomain_UpdateAndDelete(t *testing.T) {
	ctx := testutil.MockContext()
	luvlistDomain := newLuvListDomainForTest()

	owner, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	stranger, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	ownerCtx := xcontext.WithRequestUserID(ctx, owner.ID)
	listID, _ := sampleListWithItems(t, ownerCtx, luvlistDomain, 1)

	strangerCtx := xcontext.WithRequestUserID(ctx, stranger.ID)
	_, err = luvlistDomain.Update(strangerCtx, &model.UpdateLuvListRequest{
		ID: listID, Title: "hijacked",
	})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	_, err = luvlistDomain.Update(ownerCtx, &model.UpdateLuvListRequest{
		ID: listID, Title: "renamed", Notes: "n",
	})
	require.NoError(t, err)

	resp, err := luvlistDomain.Get(ownerCtx, &model.GetLuvListRequest{ID: listID})
	require.NoError(t, err)
	require.Equal(t, "renamed", resp.LuvList.Title)

	_, err = luvlistDomain.Delete(strangerCtx, &model.DeleteLuvListRequest{ID: listID})
	require.Error(t, err)

	_, err = luvlistDomain.Delete(ownerCtx, &model.DeleteLuvListRequest{ID: listID})
	require.NoError(t, err)

	_, err = luvlistDomain.Get(ownerCtx, &model.GetLuvListRequest{ID: listID})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}

func Test_luvlistDomain_RemoveItem(t *testing.T) {
	ctx := testutil.MockContext()
	luvlistDomain := newLuvListDomainForTest()

	owner, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, owner.ID)
	listID, itemIDs := sampleListWithItems(t, ctx, luvlistDomain, 2)

	_, err = luvlistDomain.RemoveItem(ctx, &model.RemoveLuvListItemRequest{
		LuvListID: listID, ItemID: itemIDs[0],
	})
	require.NoError(t, err)

	resp, err := luvlistDomain.Get(ctx, &model.GetLuvListRequest{ID: listID})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	require.Equal(t, itemIDs[1], resp.Items[0].ID)
}

func Test_luvlistDomain_GetRandomItem_stableWithinDay(t *testing.T) {
	ctx := testutil.MockContext()
	luvlistDomain := newLuvListDomainForTest()

	owner, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, owner.ID)
	listID, _ := sampleListWithItems(t, ctx, luvlistDomain, 5)

	first, err := luvlistDomain.GetRandomItem(ctx, &model.GetRandomItemRequest{LuvListID: listID})
	require.NoError(t, err)

	// Repeated requests on the same day return the same pick.
	for i := 0; i < 3; i++ {
		again, err := luvlistDomain.GetRandomItem(ctx, &model.GetRandomItemRequest{LuvListID: listID})
		require.NoError(t, err)
		require.Equal(t, first.Item.ID, again.Item.ID)
	}
}

func Test_luvlistDomain_GetRandomItem_advancesDaily(t *testing.T) {
	ctx := testutil.MockContext()
	luvlistDomain := newLuvListDomainForTest()

	owner, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, owner.ID)
	listID, itemIDs := sampleListWithItems(t, ctx, luvlistDomain, 3)

	luvlistRepo := repository.NewLuvListRepository()
	seen := map[int64]int{}
	for day := 0; day < len(itemIDs); day++ {
		resp, err := luvlistDomain.GetRandomItem(ctx, &model.GetRandomItemRequest{LuvListID: listID})
		require.NoError(t, err)
		seen[resp.Item.ID]++

		// Age the randomizer so the next request falls on a fresh day.
		randomizer, err := luvlistRepo.GetRandomizer(ctx, listID, owner.ID)
		require.NoError(t, err)
		randomizer.LastGeneratedAt.Time = randomizer.LastGeneratedAt.Time.AddDate(0, 0, -1)
		require.NoError(t, luvlistRepo.UpdateRandomizer(ctx, randomizer))
	}

	// Every item is picked exactly once before the permutation is spent.
	require.Len(t, seen, len(itemIDs))
	for _, count := range seen {
		require.Equal(t, 1, count)
	}

	// The exhausted permutation reshuffles instead of running dry.
	resp, err := luvlistDomain.GetRandomItem(ctx, &model.GetRandomItemRequest{LuvListID: listID})
	require.NoError(t, err)
	require.Contains(t, itemIDs, resp.Item.ID)
}

func Test_luvlistDomain_GetRandomItem_resync(t *testing.T) {
	ctx := testutil.MockContext()
	luvlistDomain := newLuvListDomainForTest()

	owner, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, owner.ID)
	listID, itemIDs := sampleListWithItems(t, ctx, luvlistDomain, 2)

	first, err := luvlistDomain.GetRandomItem(ctx, &model.GetRandomItemRequest{LuvListID: listID})
	require.NoError(t, err)

	// Drop today's pick from the list; the next request must fall back to a
	// remaining item rather than serving the ghost.
	_, err = luvlistDomain.RemoveItem(ctx, &model.RemoveLuvListItemRequest{
		LuvListID: listID, ItemID: first.Item.ID,
	})
	require.NoError(t, err)

	resp, err := luvlistDomain.GetRandomItem(ctx, &model.GetRandomItemRequest{LuvListID: listID})
	require.NoError(t, err)
	require.NotEqual(t, first.Item.ID, resp.Item.ID)
	require.Contains(t, itemIDs, resp.Item.ID)
}

func Test_luvlistDomain_GetRandomItem_empty(t *testing.T) {
	ctx := testutil.MockContext()
	luvlistDomain := newLuvListDomainForTest()

	owner, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	ownerCtx := xcontext.WithRequestUserID(ctx, owner.ID)
	created, err := luvlistDomain.Create(ownerCtx, &model.CreateLuvListRequest{Title: "empty"})
	require.NoError(t, err)

	_, err = luvlistDomain.GetRandomItem(ownerCtx, &model.GetRandomItemRequest{LuvListID: created.ID})
	require.Error(t, err)
	require.Equal(t, "This list has no items", err.(errorx.Error).Message)

	// The anonymous shared pick hits the same guard.
	_, err = luvlistDomain.GetRandomItem(ctx, &model.GetRandomItemRequest{LuvListID: created.ID})
	require.Error(t, err)
	require.Equal(t, "This list has no items", err.(errorx.Error).Message)
}
