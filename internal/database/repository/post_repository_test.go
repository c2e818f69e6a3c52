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

func TestPostRepository_List(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := repository.NewPostRepository(store.DB())
	ctx := context.Background()

	testutil.CreatePost(t, store, "Go concurrency", "tech")
	testutil.CreatePost(t, store, "Receita de bolo", "culinaria")
	testutil.CreatePost(t, store, "Go generics", "tech")

	tests := []struct {
		name      string
		filter    repository.PostFilter
		wantTotal int64
		wantTitle []string
	}{
		{
			name:      "all, newest first",
			filter:    repository.PostFilter{},
			wantTotal: 3,
			wantTitle: []string{"Go generics", "Receita de bolo", "Go concurrency"},
		},
		{
			name:      "by category",
			filter:    repository.PostFilter{Categoria: "tech"},
			wantTotal: 2,
			wantTitle: []string{"Go generics", "Go concurrency"},
		},
		{
			name:      "search is case insensitive",
			filter:    repository.PostFilter{Query: "BOLO"},
			wantTotal: 1,
			wantTitle: []string{"Receita de bolo"},
		},
		{
			name:      "search matches category",
			filter:    repository.PostFilter{Query: "culin"},
			wantTotal: 1,
			wantTitle: []string{"Receita de bolo"},
		},
		{
			name:      "paging keeps total",
			filter:    repository.PostFilter{Offset: 1, Limit: 1},
			wantTotal: 3,
			wantTitle: []string{"Receita de bolo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, total, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)

			titles := make([]string, 0, len(posts))
			for _, p := range posts {
				titles = append(titles, p.Titulo)
			}
			assert.Equal(t, tt.wantTitle, titles)
		})
	}
}

func TestPostRepository_UpdateAndDelete(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := repository.NewPostRepository(store.DB())
	ctx := context.Background()

	post := testutil.CreatePost(t, store, "Original", "tech")

	post.Titulo = "Editado"
	require.NoError(t, repo.Update(ctx, post))

	got, err := repo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Editado", got.Titulo)

	require.NoError(t, repo.Delete(ctx, post.ID))
	_, err = repo.FindByID(ctx, post.ID)
	assert.ErrorIs(t, err, repository.ErrPostNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, post.ID), repository.ErrPostNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &models.Post{ID: post.ID, Titulo: "x"}), repository.ErrPostNotFound)
}

func TestPostRepository_Exists(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := repository.NewPostRepository(store.DB())
	post := testutil.CreatePost(t, store, "Existe", "tech")

	ok, err := repo.Exists(context.Background(), post.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(context.Background(), post.ID+100)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostRepository_Categories(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := repository.NewPostRepository(store.DB())

	testutil.CreatePost(t, store, "A", "tech")
	testutil.CreatePost(t, store, "B", "tech")
	testutil.CreatePost(t, store, "C", "viagem")
	testutil.CreatePost(t, store, "D", "")

	categories, err := repo.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"tech", "viagem"}, categories)
}

func TestPostRepository_Delete_CascadesCommentsAndTags(t *testing.T) {
	store := testutil.NewTestStore(t)
	posts := repository.NewPostRepository(store.DB())
	tags := repository.NewTagRepository(store.DB())
	comments := repository.NewCommentRepository(store.DB())
	ctx := context.Background()

	post := testutil.CreatePost(t, store, "Com filhos", "tech")
	tag := &models.Tag{Nome: "Go", Slug: "go"}
	_, err := tags.CreateIfAbsent(ctx, tag)
	require.NoError(t, err)
	require.NoError(t, tags.Associate(ctx, post.ID, tag.ID))
	require.NoError(t, comments.Create(ctx, &models.Comment{PostID: post.ID, AuthorName: "Ana", Text: "Oi"}))

	require.NoError(t, posts.Delete(ctx, post.ID))

	assert.Equal(t, int64(0), testutil.CountRows(t, store, "posts_tags"))
	assert.Equal(t, int64(0), testutil.CountRows(t, store, "comments"))
	assert.Equal(t, int64(1), testutil.CountRows(t, store, "tags"))
}
