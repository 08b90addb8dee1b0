package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(users []*models.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func TestRelationshipService_FollowAndUnfollow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	michael := e.mustCreateUser(t, "Michael", "michael@example.com")
	archer := e.mustCreateUser(t, "Archer", "archer@example.com")

	ok, err := e.relationships.IsFollowing(ctx, michael.ID, archer.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	rel, err := e.relationships.Follow(ctx, michael.ID, archer.ID)
	require.NoError(t, err)
	assert.Equal(t, michael.ID, rel.FollowerID)
	assert.Equal(t, archer.ID, rel.FollowedID)

	ok, err = e.relationships.IsFollowing(ctx, michael.ID, archer.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.relationships.IsFollowing(ctx, archer.ID, michael.ID)
	require.NoError(t, err)
	assert.False(t, ok, "edges are directed")

	following, err := e.relationships.Following(ctx, michael.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{archer.ID}, ids(following))

	followers, err := e.relationships.Followers(ctx, archer.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{michael.ID}, ids(followers))

	require.NoError(t, e.relationships.Unfollow(ctx, michael.ID, archer.ID))
	ok, err = e.relationships.IsFollowing(ctx, michael.ID, archer.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, e.relationships.Unfollow(ctx, michael.ID, archer.ID), "unfollow of a missing edge is a no-op")
}

func TestRelationshipService_Errors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.mustCreateUser(t, "A", "a@example.com")
	b := e.mustCreateUser(t, "B", "b@example.com")

	_, err := e.relationships.Follow(ctx, a.ID, a.ID)
	require.ErrorIs(t, err, common.ErrSelfFollow)

	_, err = e.relationships.Follow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = e.relationships.Follow(ctx, a.ID, b.ID)
	require.ErrorIs(t, err, common.ErrDuplicateRelationship)

	_, err = e.relationships.Follow(ctx, a.ID, "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, e.users.Delete(ctx, b.ID))
	_, err = e.relationships.Follow(ctx, a.ID, b.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRelationshipService_Counts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.mustCreateUser(t, "A", "a@example.com")
	b := e.mustCreateUser(t, "B", "b@example.com")
	c := e.mustCreateUser(t, "C", "c@example.com")

	for _, pair := range [][2]string{{a.ID, b.ID}, {a.ID, c.ID}, {b.ID, a.ID}} {
		_, err := e.relationships.Follow(ctx, pair[0], pair[1])
		require.NoError(t, err)
	}

	following, followers, err := e.relationships.Counts(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, following)
	assert.Equal(t, 1, followers)

	following, followers, err = e.relationships.Counts(ctx, c.ID)
	require.NoError(t, err)
	assert.Zero(t, following)
	assert.Equal(t, 1, followers)
}
