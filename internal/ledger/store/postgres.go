package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/supersaver/internal/ledger"
)

// Timestamps are stored without a zone, matching the wall-clock entries of
// the text ledger.
const schema = `
	CREATE TABLE IF NOT EXISTS revenue_ledger (
		id          BIGSERIAL PRIMARY KEY,
		recorded_at TIMESTAMP NOT NULL,
		total_cost  NUMERIC   NOT NULL
	)
`

// Postgres keeps the ledger in the revenue_ledger table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create revenue_ledger: %w", err)
	}

	return nil
}

func (p *Postgres) Append(ctx context.Context, e ledger.Entry) error {
	query := `
		INSERT INTO revenue_ledger (recorded_at, total_cost)
		VALUES ($1, $2)
	`

	if _, err := p.db.ExecContext(ctx, query, e.Timestamp, e.TotalCost); err != nil {
		return fmt.Errorf("insert revenue entry: %w", err)
	}

	return nil
}

func (p *Postgres) Scan(ctx context.Context) (*ledger.ScanResult, error) {
	query := `
		SELECT recorded_at, total_cost
		FROM revenue_ledger
		ORDER BY id
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query revenue_ledger: %w", err)
	}
	defer rows.Close()

	res := &ledger.ScanResult{}

	for rows.Next() {
		var e ledger.Entry
		if err := rows.Scan(&e.Timestamp, &e.TotalCost); err != nil {
			return nil, fmt.Errorf("scan revenue entry: %w", err)
		}

		e.Timestamp = e.Timestamp.UTC()
		res.Entries = append(res.Entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revenue_ledger: %w", err)
	}

	return res, nil
}
