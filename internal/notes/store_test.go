package notes

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/notepdf/internal/layout"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), Conf{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "notes.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	n := &Note{Kind: layout.KindMinutes, User: "佐藤", Date: "2024/05/18", Event: "運動会", Caution: "一行目\n二行目\n"}
	require.NoError(t, s.Create(ctx, n))
	assert.NotZero(t, n.ID)
	assert.Equal(t, fixed, n.CreatedAt)

	got, err := s.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "運動会", got.Event)
	assert.Equal(t, "一行目\n二行目\n", got.Caution)
	assert.Equal(t, layout.KindMinutes, got.Kind)
	assert.True(t, fixed.Equal(got.CreatedAt))

	later := fixed.Add(time.Hour)
	s.now = func() time.Time { return later }
	got.Location = "体育館"
	require.NoError(t, s.Update(ctx, got))

	again, err := s.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "体育館", again.Location)
	assert.True(t, later.Equal(again.UpdatedAt))
	assert.True(t, fixed.Equal(again.CreatedAt))

	require.NoError(t, s.Delete(ctx, n.ID))
	_, err = s.Get(ctx, n.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, n.ID), ErrNotFound)
}

func TestStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, event := range []string{"一", "二", "三"} {
		require.NoError(t, s.Create(ctx, &Note{Event: event}))
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "三", list[0].Event)
	assert.Equal(t, "一", list[2].Event)
	assert.Greater(t, list[0].ID, list[1].ID)
}

func TestStoreListEmpty(t *testing.T) {
	list, err := openTestStore(t).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestStoreRejectsMissingEvent(t *testing.T) {
	s := openTestStore(t)
	err := s.Create(context.Background(), &Note{User: "x"})
	assert.ErrorIs(t, err, ErrEventRequired)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStoreUpdateMissing(t *testing.T) {
	err := openTestStore(t).Update(context.Background(), &Note{ID: 42, Event: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreBackup(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.Create(ctx, &Note{Event: "バザー"}))

	var buf bytes.Buffer
	n, err := s.Backup(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("SQLite format 3\x00")))
	assert.Equal(t, "backup_notes.db", s.BackupFileName())
}

func TestBackupUnsupportedDriver(t *testing.T) {
	s := &Store{dialect: dialects["mysql"]}
	_, err := s.Backup(context.Background(), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrBackupUnsupported)
}

func TestRebind(t *testing.T) {
	pg := &Store{dialect: dialects["pgx"]}
	assert.Equal(t, "UPDATE t SET a = $1 WHERE id = $2", pg.rebind("UPDATE t SET a = ? WHERE id = ?"))

	my := &Store{dialect: dialects["mysql"]}
	assert.Equal(t, "SELECT ? ", my.rebind("SELECT ? "))
}

func TestLookupDialect(t *testing.T) {
	for in, want := range map[string]string{"": "sqlite", "sqlite3": "sqlite", "MySQL": "mysql", "postgres": "pgx"} {
		d, err := lookupDialect(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, d.name, in)
	}
	_, err := lookupDialect("oracle")
	assert.Error(t, err)
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), Conf{Driver: "mysql"})
	assert.Error(t, err)
}
