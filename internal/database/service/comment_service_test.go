package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/testutil"
)

func TestCommentService(t *testing.T) {
	store := testutil.NewTestStore(t)
	svc := service.NewCommentService(
		repository.NewCommentRepository(store.DB()),
		repository.NewPostRepository(store.DB()),
		testutil.TestLogger(),
	)
	post := testutil.CreatePost(t, store, "Primeiro", "Geral")
	ctx := context.Background()

	t.Run("anonymous author", func(t *testing.T) {
		comment, err := svc.Create(ctx, post.ID, "Muito bom!", "   ")
		require.NoError(t, err)
		assert.Equal(t, service.AnonymousAuthor, comment.AuthorName)
		assert.False(t, comment.Date.IsZero())
	})

	t.Run("named author", func(t *testing.T) {
		comment, err := svc.Create(ctx, post.ID, "Concordo", "Bia")
		require.NoError(t, err)
		assert.Equal(t, "Bia", comment.AuthorName)
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := svc.Create(ctx, post.ID, "  ", "Bia")
		assert.ErrorIs(t, err, service.ErrValidation)
	})

	t.Run("unknown post", func(t *testing.T) {
		_, err := svc.Create(ctx, 999, "Olá", "")
		assert.ErrorIs(t, err, service.ErrPostNotFound)
	})

	t.Run("list", func(t *testing.T) {
		comments, err := svc.List(ctx, post.ID)
		require.NoError(t, err)
		assert.Len(t, comments, 2)

		empty, err := svc.List(ctx, 999)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}
