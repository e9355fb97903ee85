package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/gusheet/internal/storage/postgres"
	"github.com/cory-johannsen/gusheet/internal/testutil"
)

func newSheetRepo(t *testing.T) *postgres.SheetRepository {
	t.Helper()
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return pc.Pool.Sheets()
}

func TestPool_Health(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	assert.NoError(t, pc.Pool.Health(context.Background(), 5*time.Second))
}

func TestSheetRepository_SaveAndGet(t *testing.T) {
	repo := newSheetRepo(t)
	ctx := context.Background()

	id, err := repo.Save(ctx, "Фан Юань", []byte(`{"name":"Фан Юань","level":1}`))
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Фан Юань", got.Name)
	assert.JSONEq(t, `{"name":"Фан Юань","level":1}`, string(got.Data))

	byName, err := repo.GetByName(ctx, "Фан Юань")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)
}

func TestSheetRepository_SaveUpsertsByName(t *testing.T) {
	repo := newSheetRepo(t)
	ctx := context.Background()

	first, err := repo.Save(ctx, "Бай Нинбин", []byte(`{"level":1}`))
	require.NoError(t, err)
	second, err := repo.Save(ctx, "Бай Нинбин", []byte(`{"level":2}`))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	got, err := repo.Get(ctx, first)
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":2}`, string(got.Data))
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestSheetRepository_SaveRejectsEmptyName(t *testing.T) {
	repo := newSheetRepo(t)
	_, err := repo.Save(context.Background(), "", []byte(`{}`))
	assert.Error(t, err)
}

func TestSheetRepository_ListAndDelete(t *testing.T) {
	repo := newSheetRepo(t)
	ctx := context.Background()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	a, err := repo.Save(ctx, "a", []byte(`{}`))
	require.NoError(t, err)
	_, err = repo.Save(ctx, "b", []byte(`{}`))
	require.NoError(t, err)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, repo.Delete(ctx, a))
	assert.ErrorIs(t, repo.Delete(ctx, a), postgres.ErrSheetNotFound)

	_, err = repo.Get(ctx, a)
	assert.ErrorIs(t, err, postgres.ErrSheetNotFound)
	_, err = repo.GetByName(ctx, "a")
	assert.ErrorIs(t, err, postgres.ErrSheetNotFound)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].Name)
}
