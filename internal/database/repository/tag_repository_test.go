package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/testutil"
)

func TestTagRepository_CreateIfAbsent(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := repository.NewTagRepository(store.DB())
	ctx := context.Background()

	first := &models.Tag{Nome: "Go", Slug: "go"}
	created, err := repo.CreateIfAbsent(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, first.ID)

	second := &models.Tag{Nome: "GO", Slug: "go"}
	created, err = repo.CreateIfAbsent(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)

	found, err := repo.FindBySlug(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assert.Equal(t, "Go", found.Nome)
	assert.Equal(t, int64(1), testutil.CountRows(t, store, "tags"))
}

func TestTagRepository_FindBySlug_NotFound(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := repository.NewTagRepository(store.DB())

	_, err := repo.FindBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrTagNotFound)
}

func TestTagRepository_AssociateIsIdempotent(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := repository.NewTagRepository(store.DB())
	ctx := context.Background()

	post := testutil.CreatePost(t, store, "Post", "tech")
	tag := &models.Tag{Nome: "Go", Slug: "go"}
	_, err := repo.CreateIfAbsent(ctx, tag)
	require.NoError(t, err)

	require.NoError(t, repo.Associate(ctx, post.ID, tag.ID))
	require.NoError(t, repo.Associate(ctx, post.ID, tag.ID))
	assert.Equal(t, int64(1), testutil.CountRows(t, store, "posts_tags"))
}

func TestTagRepository_NamesByPostsAndClear(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := repository.NewTagRepository(store.DB())
	ctx := context.Background()

	p1 := testutil.CreatePost(t, store, "Um", "tech")
	p2 := testutil.CreatePost(t, store, "Dois", "tech")
	p3 := testutil.CreatePost(t, store, "Tres", "tech")

	tagIDs := map[string]uint{}
	for _, name := range []string{"Zeta", "Alpha", "Go"} {
		tag := &models.Tag{Nome: name, Slug: name}
		_, err := repo.CreateIfAbsent(ctx, tag)
		require.NoError(t, err)
		tagIDs[name] = tag.ID
	}

	require.NoError(t, repo.Associate(ctx, p1.ID, tagIDs["Zeta"]))
	require.NoError(t, repo.Associate(ctx, p1.ID, tagIDs["Alpha"]))
	require.NoError(t, repo.Associate(ctx, p2.ID, tagIDs["Go"]))

	names, err := repo.NamesByPosts(ctx, []uint{p1.ID, p2.ID, p3.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Zeta"}, names[p1.ID])
	assert.Equal(t, []string{"Go"}, names[p2.ID])
	assert.NotContains(t, names, p3.ID)

	require.NoError(t, repo.ClearPost(ctx, p1.ID))
	names, err = repo.NamesByPosts(ctx, []uint{p1.ID, p2.ID})
	require.NoError(t, err)
	assert.NotContains(t, names, p1.ID)
	assert.Equal(t, []string{"Go"}, names[p2.ID])
	assert.Equal(t, int64(3), testutil.CountRows(t, store, "tags"))
}

func TestTagRepository_NamesByPosts_Empty(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := repository.NewTagRepository(store.DB())

	names, err := repo.NamesByPosts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, names)
}
