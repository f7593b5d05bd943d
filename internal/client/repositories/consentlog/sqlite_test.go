package consentlog

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/nexo/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE consent_log (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  analytics  BOOLEAN NOT NULL,
  version    TEXT NOT NULL,
  source     TEXT NOT NULL,
  created_at TEXT NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestAppendAndList_NewestFirst(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	t1 := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	first := &models.ConsentLogEntry{Analytics: true, Version: "1.0", Source: "accept_all", CreatedAt: t1}
	second := &models.ConsentLogEntry{Analytics: false, Version: "1.0", Source: "reject_non_essential", CreatedAt: t2}
	require.NoError(t, r.Append(ctx, first))
	require.NoError(t, r.Append(ctx, second))
	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	got, err := r.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "reject_non_essential", got[0].Source)
	assert.False(t, got[0].Analytics)
	assert.True(t, got[1].CreatedAt.Equal(t1))
}

func TestList_Limit(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Append(ctx, &models.ConsentLogEntry{Version: "1.0", Source: "save_preferences"}))
	}

	got, err := r.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAppend_DefaultsCreatedAt(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	e := &models.ConsentLogEntry{Version: "1.0", Source: "accept_all"}
	require.NoError(t, r.Append(context.Background(), e))
	assert.False(t, e.CreatedAt.IsZero())
}

func TestErrorsWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	err := r.Append(ctx, &models.ConsentLogEntry{Version: "1.0", Source: "x"})
	require.ErrorContains(t, err, "failed to append consent log")

	_, err = r.List(ctx, 0)
	require.ErrorContains(t, err, "failed to select consent log")
}
