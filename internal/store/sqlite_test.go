package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobalert/internal/domain"
)

func openTemp(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func job(link string) domain.Job {
	return domain.Job{Title: "Go Developer", Company: "Acme", Location: "Pune", Link: link, Source: domain.SourceNaukri}
}

func TestSQLite_InsertIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	added, err := s.InsertIfAbsent(ctx, job("https://x.test/1"))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.InsertIfAbsent(ctx, job("https://x.test/1"))
	require.NoError(t, err)
	assert.False(t, added)

	added, err = s.InsertIfAbsent(ctx, job("https://x.test/2"))
	require.NoError(t, err)
	assert.True(t, added)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSQLite_Has(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	ok, err := s.Has(ctx, "https://x.test/1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.InsertIfAbsent(ctx, job("https://x.test/1"))
	require.NoError(t, err)

	ok, err = s.Has(ctx, " https://x.test/1 ")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Has(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyLink)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLite_EmptyLink(t *testing.T) {
	s := openTemp(t)
	added, err := s.InsertIfAbsent(context.Background(), job("  "))
	assert.ErrorIs(t, err, ErrEmptyLink)
	assert.False(t, added)
}

func TestSQLite_ClearAllResets(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	for _, l := range []string{"a", "b", "c"} {
		_, err := s.InsertIfAbsent(ctx, job(l))
		require.NoError(t, err)
	}

	deleted, err := s.ClearAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	// links become new again after a full clear
	added, err := s.InsertIfAbsent(ctx, job("a"))
	require.NoError(t, err)
	assert.True(t, added)

	var id int64
	require.NoError(t, s.Pool.QueryRow(`SELECT id FROM seen_jobs WHERE link = 'a'`).Scan(&id))
	assert.EqualValues(t, 1, id)
}

func TestSQLite_SizeBytes(t *testing.T) {
	s := openTemp(t)
	size, err := s.SizeBytes(context.Background())
	require.NoError(t, err)
	assert.Positive(t, size)
}

func TestSQLite_ReopenKeepsRecords(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "jobs.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	_, err = s.InsertIfAbsent(ctx, job("persist"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	added, err := s.InsertIfAbsent(ctx, job("persist"))
	require.NoError(t, err)
	assert.False(t, added)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "mysql"})
	assert.Error(t, err)
}
