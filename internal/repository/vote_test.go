package repository_test

import (
	"testing"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/internal/repository"
	"github.com/luvlist-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestVoteUpsertReplacesValue(t *testing.T) {
	ctx := testutil.MockContext()
	voteRepo := repository.NewVoteRepository()

	ref := entity.NewContentRef(entity.KindPost, 1)

	require.NoError(t, voteRepo.Upsert(ctx, &entity.Vote{
		UserID: "user1", Kind: ref.Kind, ObjectID: ref.ObjectID, Value: entity.Upvote,
	}))

	score, err := voteRepo.SumByRef(ctx, ref)
	require.NoError(t, err)
	require.EqualValues(t, 1, score)

	// Re-voting with the opposite value replaces the row instead of adding
	// a second one.
	require.NoError(t, voteRepo.Upsert(ctx, &entity.Vote{
		UserID: "user1", Kind: ref.Kind, ObjectID: ref.ObjectID, Value: entity.Downvote,
	}))

	score, err = voteRepo.SumByRef(ctx, ref)
	require.NoError(t, err)
	require.EqualValues(t, -1, score)

	require.NoError(t, voteRepo.Upsert(ctx, &entity.Vote{
		UserID: "user2", Kind: ref.Kind, ObjectID: ref.ObjectID, Value: entity.Downvote,
	}))

	score, err = voteRepo.SumByRef(ctx, ref)
	require.NoError(t, err)
	require.EqualValues(t, -2, score)
}

func TestVoteSumOfUnvotedContent(t *testing.T) {
	ctx := testutil.MockContext()
	voteRepo := repository.NewVoteRepository()

	score, err := voteRepo.SumByRef(ctx, entity.NewContentRef(entity.KindSay, 42))
	require.NoError(t, err)
	require.EqualValues(t, 0, score)
}

func TestVoteGetTopRated(t *testing.T) {
	ctx := testutil.MockContext()
	voteRepo := repository.NewVoteRepository()

	// Post 1 scores 2, posts 2 and 3 tie at 1. Post 3 received its vote
	// later so it wins the tie.
	votes := []entity.Vote{
		{UserID: "u1", Kind: entity.KindPost, ObjectID: 1, Value: 1},
		{UserID: "u2", Kind: entity.KindPost, ObjectID: 1, Value: 1},
		{UserID: "u1", Kind: entity.KindPost, ObjectID: 2, Value: 1},
		{UserID: "u1", Kind: entity.KindPost, ObjectID: 3, Value: 1},
		{UserID: "u1", Kind: entity.KindSay, ObjectID: 9, Value: 1},
	}
	for i := range votes {
		require.NoError(t, voteRepo.Upsert(ctx, &votes[i]))
	}

	records, err := voteRepo.GetTopRated(ctx, entity.KindPost, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.EqualValues(t, 1, records[0].ObjectID)
	require.EqualValues(t, 2, records[0].Score)
	require.EqualValues(t, 3, records[1].ObjectID)
	require.EqualValues(t, 2, records[2].ObjectID)

	records, err = voteRepo.GetTopRated(ctx, entity.KindPost, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestVoteDelete(t *testing.T) {
	ctx := testutil.MockContext()
	voteRepo := repository.NewVoteRepository()

	ref := entity.NewContentRef(entity.KindPin, 7)
	require.NoError(t, voteRepo.Upsert(ctx, &entity.Vote{
		UserID: "user1", Kind: ref.Kind, ObjectID: ref.ObjectID, Value: entity.Upvote,
	}))

	require.NoError(t, voteRepo.Delete(ctx, "user1", ref))

	score, err := voteRepo.SumByRef(ctx, ref)
	require.NoError(t, err)
	require.EqualValues(t, 0, score)
}
