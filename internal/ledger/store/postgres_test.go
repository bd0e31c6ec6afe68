package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/supersaver/internal/database"
	"github.com/MrJamesThe3rd/supersaver/internal/ledger"
	"github.com/MrJamesThe3rd/supersaver/internal/ledger/store"
)

var _ ledger.Store = (*store.Postgres)(nil)

// Runs only against a disposable database named by SUPERSAVER_TEST_DSN.
func TestPostgres_AppendScan(t *testing.T) {
	dsn := os.Getenv("SUPERSAVER_TEST_DSN")
	if dsn == "" {
		t.Skip("SUPERSAVER_TEST_DSN not set")
	}

	ctx := context.Background()

	db, err := database.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	p := store.NewPostgres(db)
	require.NoError(t, p.EnsureSchema(ctx))

	_, err = db.ExecContext(ctx, "TRUNCATE revenue_ledger")
	require.NoError(t, err)

	first := entry(time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC), "23")
	second := entry(time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC), "50.5")

	require.NoError(t, p.Append(ctx, first))
	require.NoError(t, p.Append(ctx, second))

	res, err := p.Scan(ctx)
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)

	assert.Equal(t, first.Timestamp, res.Entries[0].Timestamp)
	assert.True(t, first.TotalCost.Equal(res.Entries[0].TotalCost))
	assert.Equal(t, second.Timestamp, res.Entries[1].Timestamp)
	assert.True(t, second.TotalCost.Equal(res.Entries[1].TotalCost))
}
