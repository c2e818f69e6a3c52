package service_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/testutil"
)

func newTagRegistry(store *database.Store) service.TagRegistry {
	return service.NewTagRegistry(store, repository.NewTagRepository(store.DB()), testutil.TestLogger())
}

func postTagNames(t *testing.T, store *database.Store, postID uint) []string {
	t.Helper()
	names, err := repository.NewTagRepository(store.DB()).NamesByPosts(context.Background(), []uint{postID})
	require.NoError(t, err)
	return names[postID]
}

// ==================== NORMALIZATION ====================

func TestNormalizeTagNames(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []service.TagName
	}{
		{
			name:  "case and whitespace variants collapse to the first spelling",
			input: []string{"A", "a ", " A"},
			want:  []service.TagName{{Nome: "A", Slug: "a"}},
		},
		{
			name:  "blank names are dropped",
			input: []string{"", "   ", "Go"},
			want:  []service.TagName{{Nome: "Go", Slug: "go"}},
		},
		{
			name:  "order is kept",
			input: []string{"Viagem", "Comida", "viagem"},
			want:  []service.TagName{{Nome: "Viagem", Slug: "viagem"}, {Nome: "Comida", Slug: "comida"}},
		},
		{
			name:  "unicode folding",
			input: []string{"Ação", "AÇÃO"},
			want:  []service.TagName{{Nome: "Ação", Slug: "ação"}},
		},
		{
			name:  "nil input",
			input: nil,
			want:  []service.TagName{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.NormalizeTagNames(tt.input))
		})
	}
}

// ==================== SET TAGS ====================

func TestTagRegistry_SetTags_DeduplicatesInput(t *testing.T) {
	store := testutil.NewTestStore(t)
	registry := newTagRegistry(store)
	post := testutil.CreatePost(t, store, "Primeiro", "Geral")

	applied, err := registry.SetTags(context.Background(), post.ID, []string{"A", "a ", " A"})
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, applied)
	assert.Equal(t, int64(1), testutil.CountRows(t, store, "tags"))
	assert.Equal(t, int64(1), testutil.CountRows(t, store, "posts_tags"))
}

func TestTagRegistry_SetTags_ReusesExistingTag(t *testing.T) {
	store := testutil.NewTestStore(t)
	registry := newTagRegistry(store)
	ctx := context.Background()

	first := testutil.CreatePost(t, store, "Primeiro", "Geral")
	second := testutil.CreatePost(t, store, "Segundo", "Geral")

	_, err := registry.SetTags(ctx, first.ID, []string{"Golang"})
	require.NoError(t, err)

	applied, err := registry.SetTags(ctx, second.ID, []string{"GOLANG", "Testes"})
	require.NoError(t, err)

	// The stored spelling wins over the new one.
	assert.Equal(t, []string{"Golang", "Testes"}, applied)
	assert.Equal(t, int64(2), testutil.CountRows(t, store, "tags"))
	assert.Equal(t, []string{"Golang", "Testes"}, postTagNames(t, store, second.ID))
}

func TestTagRegistry_SetTags_ReplacesPreviousSet(t *testing.T) {
	store := testutil.NewTestStore(t)
	registry := newTagRegistry(store)
	post := testutil.CreatePost(t, store, "Primeiro", "Geral")
	ctx := context.Background()

	_, err := registry.SetTags(ctx, post.ID, []string{"a", "b"})
	require.NoError(t, err)

	_, err = registry.SetTags(ctx, post.ID, []string{"b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, postTagNames(t, store, post.ID))

	applied, err := registry.SetTags(ctx, post.ID, []string{})
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Empty(t, postTagNames(t, store, post.ID))

	// Tags outlive their associations.
	assert.Equal(t, int64(3), testutil.CountRows(t, store, "tags"))
	assert.Equal(t, int64(0), testutil.CountRows(t, store, "posts_tags"))
}

func TestTagRegistry_SetTags_UnknownPost(t *testing.T) {
	store := testutil.NewTestStore(t)
	registry := newTagRegistry(store)

	_, err := registry.SetTags(context.Background(), 999, []string{"Go"})
	assert.ErrorIs(t, err, service.ErrPostNotFound)

	// The tag created inside the failed transaction is rolled back too.
	assert.Equal(t, int64(0), testutil.CountRows(t, store, "tags"))
}

func TestTagRegistry_SetTags_Concurrent(t *testing.T) {
	store := testutil.NewTestStore(t)
	registry := newTagRegistry(store)

	first := testutil.CreatePost(t, store, "Primeiro", "Geral")
	second := testutil.CreatePost(t, store, "Segundo", "Geral")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, postID := range []uint{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, postID uint) {
			defer wg.Done()
			_, errs[i] = registry.SetTags(context.Background(), postID, []string{"Novidade"})
		}(i, postID)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int64(1), testutil.CountRows(t, store, "tags"))
	assert.Equal(t, int64(2), testutil.CountRows(t, store, "posts_tags"))
}

func TestTagRegistry_SetTagsTx_RollsBackWithCaller(t *testing.T) {
	store := testutil.NewTestStore(t)
	registry := newTagRegistry(store)
	post := testutil.CreatePost(t, store, "Primeiro", "Geral")
	ctx := context.Background()

	_, err := registry.SetTags(ctx, post.ID, []string{"antiga"})
	require.NoError(t, err)

	callerErr := errors.New("later step failed")
	err = store.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := registry.SetTagsTx(ctx, tx, post.ID, []string{"nova"}); err != nil {
			return err
		}
		return callerErr
	})
	require.ErrorIs(t, err, callerErr)

	assert.Equal(t, []string{"antiga"}, postTagNames(t, store, post.ID))
	assert.Equal(t, int64(1), testutil.CountRows(t, store, "tags"))
}

// ==================== STORAGE FAILURES ====================

func newMockStore(t *testing.T) (*database.Store, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return database.NewStore(gdb, testutil.TestLogger()), mock
}

func TestTagRegistry_SetTags_RollsBackOnStorageError(t *testing.T) {
	store, mock := newMockStore(t)
	registry := newTagRegistry(store)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "posts_tags"`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tags" WHERE slug`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "slug"}))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "tags"`)).
		WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectRollback()

	applied, err := registry.SetTags(context.Background(), 1, []string{"Go"})
	assert.ErrorIs(t, err, service.ErrStorage)
	assert.Nil(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagRegistry_SetTags_ReadsBackAfterInsertConflict(t *testing.T) {
	store, mock := newMockStore(t)
	registry := newTagRegistry(store)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "posts_tags"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tags" WHERE slug`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "slug"}))
	// Another writer inserted the tag between the lookup and the insert.
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "tags"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tags" WHERE slug`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "slug"}).AddRow(7, "Go", "go"))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "posts_tags"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	applied, err := registry.SetTags(context.Background(), 1, []string{"go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagRegistry_SetTags_ResolvesInSlugOrder(t *testing.T) {
	store, mock := newMockStore(t)
	registry := newTagRegistry(store)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "posts_tags"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tags" WHERE slug`)).
		WithArgs("alfa").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "slug"}).AddRow(2, "Alfa", "alfa"))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "posts_tags"`)).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tags" WHERE slug`)).
		WithArgs("meio").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "slug"}).AddRow(3, "Meio", "meio"))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "posts_tags"`)).
		WithArgs(1, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tags" WHERE slug`)).
		WithArgs("zeta").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "slug"}).AddRow(1, "zeta", "zeta"))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "posts_tags"`)).
		WithArgs(1, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	applied, err := registry.SetTags(context.Background(), 1, []string{"zeta", "Meio", "Alfa"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alfa", "Meio", "zeta"}, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagRegistry_SetTags_CommitFailure(t *testing.T) {
	store, mock := newMockStore(t)
	registry := newTagRegistry(store)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "posts_tags"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit().WillReturnError(errors.New("could not serialize access"))

	_, err := registry.SetTags(context.Background(), 1, nil)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
