package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/supersaver/internal/bill"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Record appends the entry for a finalized bill.
func (s *Service) Record(ctx context.Context, b *bill.Bill) (Entry, error) {
	e := NewEntry(b.CreatedAt, b.TotalCost())

	if err := s.store.Append(ctx, e); err != nil {
		return Entry{}, fmt.Errorf("append ledger entry: %w", err)
	}

	return e, nil
}

// Scan reads the whole ledger. Skipped lines are logged and returned.
func (s *Service) Scan(ctx context.Context) (*ScanResult, error) {
	res, err := s.store.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}

	for _, sk := range res.Skipped {
		slog.Warn("skipped malformed ledger line", "line", sk.Number, "text", sk.Text, "error", sk.Err)
	}

	return res, nil
}
