package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/crmlite/pkg/db/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type widget struct {
	ID       int64  `gorm:"primaryKey"`
	Name     string `gorm:"not null"`
	ParentID *int64
}

func setupStore(t *testing.T) (*gorm.DB, Repository[widget]) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&widget{}))
	return db, ProvideStore[widget](db)
}

func seedWidgets(t *testing.T, store Repository[widget], items ...widget) {
	t.Helper()
	for i := range items {
		require.NoError(t, store.Create(context.Background(), &items[i]))
	}
}

func TestStoreFindAndCount(t *testing.T) {
	ctx := context.Background()
	_, store := setupStore(t)

	parent := int64(1)
	seedWidgets(t, store,
		widget{ID: 1, Name: "b"},
		widget{ID: 2, Name: "a", ParentID: &parent},
		widget{ID: 3, Name: "c"},
	)

	items, err := store.Find(ctx, &widget{}, option.WithSortBy(option.QuerySortBy{Allow: map[string]bool{"name": true}}))
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{items[0].Name, items[1].Name, items[2].Name})

	roots, err := store.Find(ctx, &widget{}, option.ApplyOperator(option.Condition{Field: "parent_id", Operator: option.IsNull}))
	require.NoError(t, err)
	assert.Len(t, roots, 2)

	count, err := store.Count(ctx, &widget{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = store.Count(ctx, &widget{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	exists, err := store.Exists(ctx, &widget{ID: 2})
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.Exists(ctx, &widget{ID: 42})
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStoreWithTrxRollsBack(t *testing.T) {
	ctx := context.Background()
	db, store := setupStore(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		require.NoError(t, store.WithTrx(tx).Create(ctx, &widget{ID: 9, Name: "tmp"}))
		return gorm.ErrInvalidTransaction
	})
	require.ErrorIs(t, err, gorm.ErrInvalidTransaction)

	count, err := store.Count(ctx, &widget{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestWithSortByFallsBackToAllowedColumn(t *testing.T) {
	ctx := context.Background()
	_, store := setupStore(t)
	seedWidgets(t, store, widget{ID: 2, Name: "x"}, widget{ID: 1, Name: "y"})

	items, err := store.Find(ctx, &widget{}, option.WithSortBy(option.WithQuerySortBy("drop table", "desc", map[string]bool{"id": true})))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].ID)
}
