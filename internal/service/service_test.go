package service

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/uidclone/internal/block0"
	"github.com/jask/uidclone/internal/clone"
	"github.com/jask/uidclone/internal/database"
	"github.com/jask/uidclone/internal/database/repository"
	"github.com/jask/uidclone/internal/tag"
)

func setup(t *testing.T) (*sql.DB, *Cloner, *tag.Field) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	field, err := tag.LoadField(filepath.Join(dir, "tags.toml"))
	require.NoError(t, err)

	c := &Cloner{
		Scans:    repository.NewScanRepo(db),
		Attempts: repository.NewAttemptRepo(db),
		Field:    field,
	}
	return db, c, field
}

func writeFor(t *testing.T, uidHex string, key string, useKeyB bool) clone.Write {
	t.Helper()
	req, err := clone.Form{UID: uidHex, Tail: block0.DefaultTail, Key: key, UseKeyB: useKeyB}.Parse()
	require.NoError(t, err)
	return clone.Write{Block0: req.Block0, Key: req.Key, UseKeyB: req.UseKeyB, UIDLen: len(req.UID)}
}

func TestClonerWriteRecordsAttemptAndSavesField(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, c, field := setup(t)

	magic, err := field.Get("magic gen2 4b")
	require.NoError(t, err)
	w := writeFor(t, "A1B2C3D4", block0.DefaultKey, false)

	rep, err := c.Write(ctx, magic, magic.Name(), w)
	require.NoError(t, err)
	require.True(t, rep.Result.OK())
	require.NotEmpty(t, rep.AttemptID)
	require.Equal(t, "A1B2C3D4", magic.UID().String())

	got, err := c.Attempts.Get(ctx, rep.AttemptID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "A1B2C3D4", got.SourceUID)
	require.Equal(t, "01020304", got.TagUID)
	require.Equal(t, "A", got.KeyType)
	require.Equal(t, clone.WriteSuccess.String(), got.Result)
	require.Equal(t, 0, got.StatusCode)
	require.Nil(t, got.Confirmed)

	// The new UID survives a reload from disk.
	reloaded, err := tag.LoadField(field.Path())
	require.NoError(t, err)
	again, err := reloaded.Get("magic gen2 4b")
	require.NoError(t, err)
	require.Equal(t, "A1B2C3D4", again.UID().String())

	require.NoError(t, c.Confirm(ctx, rep.AttemptID, true))
	got, err = c.Attempts.Get(ctx, rep.AttemptID)
	require.NoError(t, err)
	require.NotNil(t, got.Confirmed)
	require.True(t, *got.Confirmed)
}

func TestClonerWriteFailuresAreRecorded(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, c, field := setup(t)

	locked, err := field.Get("magic gen2 locked")
	require.NoError(t, err)
	rep, err := c.Write(ctx, locked, locked.Name(), writeFor(t, "A1B2C3D4", block0.DefaultKey, true))
	require.NoError(t, err)
	require.Equal(t, clone.WriteAuthFailed, rep.Result.Outcome)

	badge, err := field.Get("office badge")
	require.NoError(t, err)
	rep2, err := c.Write(ctx, badge, badge.Name(), writeFor(t, "01020304", block0.DefaultKey, false))
	require.NoError(t, err)
	require.Equal(t, clone.WriteIOError, rep2.Result.Outcome)

	transit, err := field.Get("transit card")
	require.NoError(t, err)
	rep3, err := c.Write(ctx, transit, transit.Name(), writeFor(t, "01020304", block0.DefaultKey, false))
	require.NoError(t, err)
	require.Equal(t, clone.WriteLengthMismatch, rep3.Result.Outcome)

	list, err := c.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	results := map[string]string{}
	for _, a := range list {
		results[a.TagName] = a.Result
	}
	require.Equal(t, clone.WriteAuthFailed.String(), results["magic gen2 locked"])
	require.Equal(t, clone.WriteIOError.String(), results["office badge"])
	require.Equal(t, clone.WriteLengthMismatch.String(), results["transit card"])

	// The failed tags keep their UIDs.
	require.Equal(t, "DEADBEEF", locked.UID().String())
	require.Equal(t, "A1B2C3D4", badge.UID().String())
}

func TestClonerRecordsAttemptWhenFieldSaveFails(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, c, _ := setup(t)

	dir := filepath.Join(t.TempDir(), "gone")
	field, err := tag.LoadField(filepath.Join(dir, "tags.toml"))
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))
	c.Field = field

	magic, err := field.Get("magic gen2 4b")
	require.NoError(t, err)
	rep, err := c.Write(ctx, magic, magic.Name(), writeFor(t, "A1B2C3D4", block0.DefaultKey, false))
	require.Error(t, err)
	require.Contains(t, err.Error(), "save tags")
	require.True(t, rep.Result.OK())
	require.Equal(t, "A1B2C3D4", magic.UID().String())

	got, err := c.Attempts.Get(ctx, rep.AttemptID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, clone.WriteSuccess.String(), got.Result)
}

func TestClonerConfirmUnknownAttempt(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, c, _ := setup(t)

	require.ErrorIs(t, c.Confirm(ctx, "missing", false), sql.ErrNoRows)
	require.NoError(t, c.Confirm(ctx, "", false))
}

func TestClonerWithoutStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := &Cloner{}
	magic := tag.DefaultField().Tags()[2]
	require.True(t, magic.Magic())

	rep, err := c.Write(ctx, magic, magic.Name(), writeFor(t, "0A0B0C0D", block0.DefaultKey, false))
	require.NoError(t, err)
	require.True(t, rep.Result.OK())
	require.NoError(t, c.RecordScan(ctx, magic.Name(), magic.UID(), clone.StateCloned))
	require.NoError(t, c.Confirm(ctx, rep.AttemptID, true))
	list, err := c.History(ctx, 5)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestMaintenanceReset(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, c, field := setup(t)

	magic, err := field.Get("magic gen2 7b")
	require.NoError(t, err)
	require.NoError(t, c.RecordScan(ctx, magic.Name(), magic.UID(), clone.StateInitial))
	_, err = c.Write(ctx, magic, magic.Name(), writeFor(t, "04112233445566", block0.DefaultKey, false))
	require.NoError(t, err)

	m := &MaintenanceService{DB: db}
	require.NoError(t, m.Reset(ctx))

	for _, table := range []string{"scans", "clone_attempts"} {
		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n))
		require.Zero(t, n, table)
	}
	require.Error(t, (&MaintenanceService{}).Reset(ctx))
}
