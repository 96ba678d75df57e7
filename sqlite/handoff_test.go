package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/sitechat"
	"github.com/fwojciec/sitechat/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

// seedHandoff inserts a handoff row with an explicit created_at so ordering
// tests don't depend on the clock.
func seedHandoff(t *testing.T, db *sqlite.DB, id, name string, createdAt time.Time) {
	t.Helper()
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO handoffs (id, name, email, phone, summary, created_at)
		VALUES (?, ?, '', '', '', ?)
	`, id, name, createdAt.Format(time.RFC3339))
	require.NoError(t, err)
}

func TestHandoffService_CreateHandoff(t *testing.T) {
	t.Parallel()

	t.Run("creates handoff with generated ID and timestamp", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewHandoffService(db)
		ctx := context.Background()

		h := &sitechat.Handoff{
			Name:    "Ada",
			Email:   "ada@example.com",
			Summary: "wants a demo",
		}

		err := svc.CreateHandoff(ctx, h)
		require.NoError(t, err)

		assert.NotEmpty(t, h.ID, "ID should be generated")
		assert.False(t, h.CreatedAt.IsZero(), "CreatedAt should be set")
	})

	t.Run("returns error for empty handoff", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewHandoffService(db)
		ctx := context.Background()

		err := svc.CreateHandoff(ctx, &sitechat.Handoff{})
		require.Error(t, err)
		assert.Equal(t, sitechat.EINVALID, sitechat.ErrorCode(err))
	})

	t.Run("round-trips all fields", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewHandoffService(db)
		ctx := context.Background()

		h := &sitechat.Handoff{
			Name:    "Ada",
			Email:   "ada@example.com",
			Phone:   "+1 555 0100",
			Summary: "pricing question",
		}
		require.NoError(t, svc.CreateHandoff(ctx, h))

		found, err := svc.FindHandoffs(ctx, sitechat.HandoffFilter{ID: &h.ID})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, h.Name, found[0].Name)
		assert.Equal(t, h.Email, found[0].Email)
		assert.Equal(t, h.Phone, found[0].Phone)
		assert.Equal(t, h.Summary, found[0].Summary)
		assert.Equal(t, h.CreatedAt.Format(time.RFC3339), found[0].CreatedAt.Format(time.RFC3339))
	})
}

func TestHandoffService_FindHandoffs(t *testing.T) {
	t.Parallel()

	t.Run("returns handoffs newest first", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewHandoffService(db)
		ctx := context.Background()

		base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		seedHandoff(t, db, "h1", "first", base)
		seedHandoff(t, db, "h2", "second", base.Add(time.Minute))
		seedHandoff(t, db, "h3", "third", base.Add(2*time.Minute))

		found, err := svc.FindHandoffs(ctx, sitechat.HandoffFilter{})
		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, "third", found[0].Name)
		assert.Equal(t, "second", found[1].Name)
		assert.Equal(t, "first", found[2].Name)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewHandoffService(db)
		ctx := context.Background()

		base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		seedHandoff(t, db, "h1", "first", base)
		seedHandoff(t, db, "h2", "second", base.Add(time.Minute))
		seedHandoff(t, db, "h3", "third", base.Add(2*time.Minute))

		found, err := svc.FindHandoffs(ctx, sitechat.HandoffFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "second", found[0].Name)
	})

	t.Run("returns empty result when nothing matches", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewHandoffService(db)
		ctx := context.Background()

		id := "missing"
		found, err := svc.FindHandoffs(ctx, sitechat.HandoffFilter{ID: &id})
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}
