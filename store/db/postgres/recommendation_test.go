package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avillega/shoprec/store"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return &DB{db: mockDB}, mock
}

func TestGetOrCreateRecommendationItem_Creates(t *testing.T) {
	d, mock := newMockDB(t)

	mock.ExpectQuery(`INSERT INTO recommendation_item`).
		WithArgs(0.25, store.MetricCosineDistance, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(`INSERT INTO recommendation_item_product`).
		WithArgs(int32(7), int32(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM recommendation_item_product`).
		WithArgs(int32(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "price", "stock", "image_url",
			"category_id", "category_name", "subcategory_id", "subcategory_name",
			"created_ts", "updated_ts",
		}).AddRow(42, "iPad Pro", "", 999.0, 3, "", 1, "Electronics", 2, "Tablets", 0, 0))

	item, created, err := d.GetOrCreateRecommendationItem(context.Background(), &store.GetOrCreateRecommendationItem{
		Score:      0.25,
		Metric:     store.MetricCosineDistance,
		ProductIDs: []int32{42},
	})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int32(7), item.ID)
	require.Len(t, item.Products, 1)
	assert.Equal(t, "iPad Pro", item.Products[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateRecommendationItem_ReusesExisting(t *testing.T) {
	d, mock := newMockDB(t)

	// ON CONFLICT DO NOTHING returns no row when the item already exists.
	mock.ExpectQuery(`INSERT INTO recommendation_item`).
		WithArgs(0.25, store.MetricCosineDistance, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT id, metric, created_ts, updated_ts FROM recommendation_item`).
		WithArgs(0.25).
		WillReturnRows(sqlmock.NewRows([]string{"id", "metric", "created_ts", "updated_ts"}).
			AddRow(7, store.MetricCosineDistance, 100, 100))
	mock.ExpectQuery(`FROM recommendation_item_product`).
		WithArgs(int32(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "price", "stock", "image_url",
			"category_id", "category_name", "subcategory_id", "subcategory_name",
			"created_ts", "updated_ts",
		}))

	item, created, err := d.GetOrCreateRecommendationItem(context.Background(), &store.GetOrCreateRecommendationItem{
		Score:      0.25,
		Metric:     store.MetricCosineDistance,
		ProductIDs: []int32{42},
	})

	require.NoError(t, err)
	assert.False(t, created, "existing item should not be recreated")
	assert.Equal(t, int32(7), item.ID)
	assert.Empty(t, item.Products, "reused item must not gain new product associations")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRecommendationBySaleID_NotFound(t *testing.T) {
	d, mock := newMockDB(t)

	mock.ExpectQuery(`FROM recommendation`).
		WithArgs(int32(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	recommendation, err := d.GetRecommendationBySaleID(context.Background(), 99)

	require.NoError(t, err)
	assert.Nil(t, recommendation)
	assert.NoError(t, mock.ExpectationsWereMet())
}
