package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"vocalcart/internal/cart"
	"vocalcart/internal/common/database"
	apperrors "vocalcart/internal/common/errors"
	"vocalcart/internal/common/logger"
	"vocalcart/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestSnapshot() cart.Snapshot {
	l := cart.New()
	_, _ = l.AddItem(models.Product{Title: "Running Shoe", Price: 1500, Source: "Flipkart"}, 2)
	_, _ = l.AddItem(models.Product{Title: "Lamp", Price: 499, Source: "Amazon"}, 1)
	return l.Snapshot()
}

func createTestRedisStore(t *testing.T, ttl time.Duration) (*RedisCartStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCartStore(database.WrapRedis(client, "vocalcart:"), ttl, logger.NewTestLogger(t)), mr
}

func errorCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	se, ok := apperrors.AsStandardError(err)
	require.True(t, ok, "expected StandardError, got %v", err)
	return se.Code
}

// ==========================
// Redis Store Tests
// ==========================

func TestRedisCartStore_RoundTrip(t *testing.T) {
	store, mr := createTestRedisStore(t, time.Hour)
	ctx := context.Background()
	snap := createTestSnapshot()

	require.NoError(t, store.SaveCart(ctx, "s1", snap))
	assert.True(t, mr.Exists("vocalcart:cart:s1"))
	assert.Equal(t, time.Hour, mr.TTL("vocalcart:cart:s1"))

	loaded, err := store.LoadCart(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "Running Shoe", loaded.Items[0].Product.Title)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
	assert.Equal(t, 3499, loaded.Total)

	restored := cart.New()
	restored.Restore(*loaded)
	assert.Equal(t, 3499, restored.Total())
}

func TestRedisCartStore_Missing(t *testing.T) {
	store, _ := createTestRedisStore(t, 0)

	loaded, err := store.LoadCart(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisCartStore_Delete(t *testing.T) {
	store, mr := createTestRedisStore(t, 0)
	ctx := context.Background()

	require.NoError(t, store.SaveCart(ctx, "s1", createTestSnapshot()))
	require.NoError(t, store.DeleteCart(ctx, "s1"))
	assert.False(t, mr.Exists("vocalcart:cart:s1"))
}

func TestRedisCartStore_CorruptPayload(t *testing.T) {
	store, mr := createTestRedisStore(t, 0)
	require.NoError(t, mr.Set("vocalcart:cart:s1", "{not json"))

	_, err := store.LoadCart(context.Background(), "s1")
	assert.Equal(t, apperrors.ErrCodeCartPersistenceFailed, errorCode(t, err))
}

func TestRedisCartStore_ServerDown(t *testing.T) {
	store, mr := createTestRedisStore(t, 0)
	mr.Close()

	err := store.SaveCart(context.Background(), "s1", createTestSnapshot())
	assert.Equal(t, apperrors.ErrCodeCartPersistenceFailed, errorCode(t, err))
	assert.True(t, apperrors.IsRetryable(err))
}

// ==========================
// Postgres Store Tests
// ==========================

func createTestPostgresStore(t *testing.T) (*PostgresCartStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewPostgresCartStore(db, "", logger.NewTestLogger(t))
	require.NoError(t, err)
	return store, mock
}

func TestNewPostgresCartStore_TableName(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store, err := NewPostgresCartStore(db, "", logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultCartTable, store.table)

	_, err = NewPostgresCartStore(db, "carts; DROP TABLE users", logger.NewNoOpLogger())
	assert.ErrorIs(t, err, ErrInvalidTableName)
}

func TestPostgresCartStore_EnsureSchema(t *testing.T) {
	store, mock := createTestPostgresStore(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS cart_snapshots`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCartStore_SaveCart(t *testing.T) {
	tests := []struct {
		name         string
		mockExec     func(mock sqlmock.Sqlmock, payload []byte)
		expectedCode apperrors.ErrorCode
	}{
		{
			name: "upsert",
			mockExec: func(mock sqlmock.Sqlmock, payload []byte) {
				mock.ExpectExec(`INSERT INTO cart_snapshots \(session_id, payload, total, updated_at\) VALUES \(\$1, \$2, \$3, NOW\(\)\) ON CONFLICT \(session_id\)`).
					WithArgs("s1", payload, 3499).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "database error",
			mockExec: func(mock sqlmock.Sqlmock, payload []byte) {
				mock.ExpectExec(`INSERT INTO cart_snapshots`).
					WillReturnError(errors.New("connection reset"))
			},
			expectedCode: apperrors.ErrCodeCartPersistenceFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := createTestPostgresStore(t)
			snap := createTestSnapshot()
			payload, _ := json.Marshal(snap)
			tt.mockExec(mock, payload)

			err := store.SaveCart(context.Background(), "s1", snap)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, errorCode(t, err))
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresCartStore_LoadCart(t *testing.T) {
	selectQuery := regexp.QuoteMeta(`SELECT payload FROM cart_snapshots WHERE session_id = $1`)

	t.Run("found", func(t *testing.T) {
		store, mock := createTestPostgresStore(t)
		payload, _ := json.Marshal(createTestSnapshot())
		mock.ExpectQuery(selectQuery).
			WithArgs("s1").
			WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

		loaded, err := store.LoadCart(context.Background(), "s1")
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Len(t, loaded.Items, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent", func(t *testing.T) {
		store, mock := createTestPostgresStore(t)
		mock.ExpectQuery(selectQuery).
			WithArgs("s2").
			WillReturnRows(sqlmock.NewRows([]string{"payload"}))

		loaded, err := store.LoadCart(context.Background(), "s2")
		assert.NoError(t, err)
		assert.Nil(t, loaded)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		store, mock := createTestPostgresStore(t)
		mock.ExpectQuery(selectQuery).WithArgs("s3").WillReturnError(errors.New("timeout"))

		_, err := store.LoadCart(context.Background(), "s3")
		assert.Equal(t, apperrors.ErrCodeCartPersistenceFailed, errorCode(t, err))
	})
}

func TestPostgresCartStore_DeleteCart(t *testing.T) {
	store, mock := createTestPostgresStore(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_snapshots WHERE session_id = $1`)).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.DeleteCart(context.Background(), "s1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
