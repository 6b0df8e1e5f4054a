package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only against a disposable database named by JOBALERT_TEST_PG_DSN.
func TestPostgres_RoundTrip(t *testing.T) {
	dsn := os.Getenv("JOBALERT_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("JOBALERT_TEST_PG_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	p, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.ClearAll(ctx)
	require.NoError(t, err)

	added, err := p.InsertIfAbsent(ctx, job("https://pg.test/1"))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = p.InsertIfAbsent(ctx, job("https://pg.test/1"))
	require.NoError(t, err)
	assert.False(t, added)

	_, err = p.InsertIfAbsent(ctx, job(""))
	assert.ErrorIs(t, err, ErrEmptyLink)

	seen, err := p.Has(ctx, "https://pg.test/1")
	require.NoError(t, err)
	assert.True(t, seen)
	seen, err = p.Has(ctx, "https://pg.test/2")
	require.NoError(t, err)
	assert.False(t, seen)

	n, err := p.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	size, err := p.SizeBytes(ctx)
	require.NoError(t, err)
	assert.Positive(t, size)

	deleted, err := p.ClearAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
}

func TestOpenPostgres_EmptyDSN(t *testing.T) {
	_, err := OpenPostgres(context.Background(), "")
	assert.Error(t, err)
}
