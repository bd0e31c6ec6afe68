package store_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/supersaver/internal/bill"
	"github.com/MrJamesThe3rd/supersaver/internal/bill/store"
)

func TestArchive_Append(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bill.txt")
	a := store.NewArchive(path, "Super-Saving Supermarket")

	first := sampleBill(t, "Kamal")
	second := bill.New("Sunil", "", created)

	require.NoError(t, a.Append(first))
	require.NoError(t, a.Append(second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := first.Render("Super-Saving Supermarket") + second.Render("Super-Saving Supermarket")
	assert.Equal(t, want, string(data))
	assert.Equal(t, 2, strings.Count(string(data), bill.Separator+"\n"))
}
