package store

import (
	"fmt"

	"github.com/MrJamesThe3rd/supersaver/internal/bill"
	"github.com/MrJamesThe3rd/supersaver/internal/fsutil"
)

// Archive is the shared text file every finalized receipt is appended to.
type Archive struct {
	path      string
	storeName string
}

func NewArchive(path, storeName string) *Archive {
	return &Archive{path: path, storeName: storeName}
}

func (a *Archive) Path() string { return a.path }

// Append writes the rendered receipt of b to the end of the archive.
func (a *Archive) Append(b *bill.Bill) error {
	if err := fsutil.AppendFile(a.path, []byte(b.Render(a.storeName)), 0o644); err != nil {
		return fmt.Errorf("archive bill: %w", err)
	}

	return nil
}
