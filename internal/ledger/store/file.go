package store

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/MrJamesThe3rd/supersaver/internal/fsutil"
	"github.com/MrJamesThe3rd/supersaver/internal/ledger"
)

const maxLineSize = 1 << 20

// File is the append-only text ledger, one entry per line.
type File struct {
	path   string
	strict bool
}

func NewFile(path string) *File {
	return &File{path: path}
}

// WithStrict makes Scan fail on the first line that does not parse instead of
// skipping it.
func (f *File) WithStrict() *File {
	f.strict = true
	return f
}

func (f *File) Path() string { return f.path }

func (f *File) Append(ctx context.Context, e ledger.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := fsutil.AppendFile(f.path, []byte(e.String()+"\n"), 0o644); err != nil {
		return fmt.Errorf("append revenue entry: %w", err)
	}

	return nil
}

// Scan reads every entry in file order. A missing file is an empty ledger.
// Blank lines are ignored.
func (f *File) Scan(ctx context.Context) (*ledger.ScanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ledger.ScanResult{}, nil
		}

		return nil, fmt.Errorf("open revenue ledger: %w", err)
	}
	defer file.Close()

	res := &ledger.ScanResult{}

	sc := bufio.NewScanner(file)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)

	number := 0
	for sc.Scan() {
		number++

		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		e, err := ledger.ParseEntry(text)
		if err != nil {
			if f.strict {
				return nil, fmt.Errorf("line %d: %w", number, err)
			}

			res.Skipped = append(res.Skipped, ledger.SkippedLine{Number: number, Text: text, Err: err})

			continue
		}

		res.Entries = append(res.Entries, e)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read revenue ledger: %w", err)
	}

	return res, nil
}
