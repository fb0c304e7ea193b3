package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func listBackupFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestSchedulerDefaults(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewBackupService(db, t.TempDir(), 7)

	s := NewBackupScheduler(svc, 0)
	assert.Equal(t, 21, s.Hour)
	assert.Equal(t, time.Hour, s.Interval)

	s = NewBackupScheduler(svc, 23)
	assert.Equal(t, 23, s.Hour)
}

func TestSchedulerWaitsForThresholdHour(t *testing.T) {
	db := setupServiceDB(t)
	seedBackupFixture(t, db)
	dir := t.TempDir()
	svc := NewBackupService(db, dir, 7)

	s := NewBackupScheduler(svc, 21)
	s.Now = func() time.Time { return mustParseTime(t, "2026-08-30T10:00:00+04:00") }

	s.CheckOnce()
	assert.Empty(t, listBackupFiles(t, dir))
}

func TestSchedulerCreatesAfterThresholdHour(t *testing.T) {
	db := setupServiceDB(t)
	seedBackupFixture(t, db)
	dir := t.TempDir()
	svc := NewBackupService(db, dir, 7)

	s := NewBackupScheduler(svc, 21)
	s.Now = func() time.Time { return mustParseTime(t, "2026-08-30T21:30:00+04:00") }

	s.CheckOnce()

	names := listBackupFiles(t, dir)
	require.Len(t, names, 1)
	assert.Equal(t, "auto-backup-2026-08-30.json", names[0])
}

// Cek berulang di hari yang sama tidak membuat file kedua.
func TestSchedulerIdempotentWithinDay(t *testing.T) {
	db := setupServiceDB(t)
	seedBackupFixture(t, db)
	dir := t.TempDir()
	svc := NewBackupService(db, dir, 7)

	s := NewBackupScheduler(svc, 21)
	s.Now = func() time.Time { return mustParseTime(t, "2026-08-30T22:00:00+04:00") }

	s.CheckOnce()
	s.CheckOnce()
	s.Now = func() time.Time { return mustParseTime(t, "2026-08-30T23:00:00+04:00") }
	s.CheckOnce()

	assert.Len(t, listBackupFiles(t, dir), 1)
}

// Hari berganti: file baru dibuat untuk tanggal baru.
func TestSchedulerRollsToNextDay(t *testing.T) {
	db := setupServiceDB(t)
	seedBackupFixture(t, db)
	dir := t.TempDir()
	svc := NewBackupService(db, dir, 7)

	s := NewBackupScheduler(svc, 21)
	s.Now = func() time.Time { return mustParseTime(t, "2026-08-30T22:00:00+04:00") }
	s.CheckOnce()

	s.Now = func() time.Time { return mustParseTime(t, "2026-08-31T22:00:00+04:00") }
	s.CheckOnce()

	names := listBackupFiles(t, dir)
	assert.Len(t, names, 2)

	path := filepath.Join(dir, "auto-backup-2026-08-31.json")
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSchedulerStartStop(t *testing.T) {
	db := setupServiceDB(t)
	dir := t.TempDir()
	svc := NewBackupService(db, dir, 7)

	s := NewBackupScheduler(svc, 21)
	s.Interval = 10 * time.Millisecond
	s.Now = func() time.Time { return mustParseTime(t, "2026-08-30T08:00:00+04:00") }

	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	// sebelum jam threshold tidak ada yang ditulis
	assert.Empty(t, listBackupFiles(t, dir))
}
