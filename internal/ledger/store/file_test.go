package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/supersaver/internal/ledger"
	"github.com/MrJamesThe3rd/supersaver/internal/ledger/store"
)

var _ ledger.Store = (*store.File)(nil)

func entry(ts time.Time, cost string) ledger.Entry {
	return ledger.NewEntry(ts, decimal.RequireFromString(cost))
}

func TestFile_AppendScan(t *testing.T) {
	ctx := context.Background()
	f := store.NewFile(filepath.Join(t.TempDir(), "revenue.txt"))

	want := []ledger.Entry{
		entry(time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC), "23"),
		entry(time.Date(2024, 1, 5, 10, 5, 0, 0, time.UTC), "0"),
		entry(time.Date(2024, 1, 6, 9, 30, 0, 0, time.UTC), "1234.56"),
	}

	for i, e := range want {
		require.NoError(t, f.Append(ctx, e))

		res, err := f.Scan(ctx)
		require.NoError(t, err)
		require.Len(t, res.Entries, i+1)

		last := res.Entries[i]
		assert.Equal(t, e.Timestamp, last.Timestamp)
		assert.True(t, e.TotalCost.Equal(last.TotalCost))
	}

	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05 10:00 | Total Cost: $23.00\n"+
		"2024-01-05 10:05 | Total Cost: $0.00\n"+
		"2024-01-06 09:30 | Total Cost: $1234.56\n", string(data))
}

func TestFile_Scan_Missing(t *testing.T) {
	res, err := store.NewFile(filepath.Join(t.TempDir(), "revenue.txt")).Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Entries)
	assert.Empty(t, res.Skipped)
}

func TestFile_Scan_MalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "revenue.txt")
	content := "2024-01-05 10:00 | Total Cost: $23.00\n" +
		"not a ledger line\n" +
		"\n" +
		"2024-01-05 11:00 | Total Cost: $50.0\r\n" +
		"2024-13-40 11:00 | Total Cost: $5.00\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Run("Lenient", func(t *testing.T) {
		res, err := store.NewFile(path).Scan(context.Background())
		require.NoError(t, err)

		require.Len(t, res.Entries, 2)
		assert.Equal(t, "50.00", res.Entries[1].TotalCost.StringFixed(2))

		require.Len(t, res.Skipped, 2)
		assert.Equal(t, 2, res.Skipped[0].Number)
		assert.Equal(t, "not a ledger line", res.Skipped[0].Text)
		assert.ErrorIs(t, res.Skipped[0].Err, ledger.ErrMalformedEntry)
		assert.Equal(t, 5, res.Skipped[1].Number)
	})

	t.Run("Strict", func(t *testing.T) {
		_, err := store.NewFile(path).WithStrict().Scan(context.Background())
		require.ErrorIs(t, err, ledger.ErrMalformedEntry)
		assert.Contains(t, err.Error(), "line 2")
	})
}

func TestFile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := store.NewFile(filepath.Join(t.TempDir(), "revenue.txt"))

	assert.ErrorIs(t, f.Append(ctx, entry(time.Now(), "1")), context.Canceled)
	assert.NoFileExists(t, f.Path())
}
