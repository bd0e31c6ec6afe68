// Package app assembles the register from configuration. Both binaries start
// from here.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrJamesThe3rd/supersaver/internal/bill/store"
	"github.com/MrJamesThe3rd/supersaver/internal/config"
	"github.com/MrJamesThe3rd/supersaver/internal/database"
	"github.com/MrJamesThe3rd/supersaver/internal/delivery"
	"github.com/MrJamesThe3rd/supersaver/internal/ledger"
	ledgerstore "github.com/MrJamesThe3rd/supersaver/internal/ledger/store"
	"github.com/MrJamesThe3rd/supersaver/internal/metrics"
	"github.com/MrJamesThe3rd/supersaver/internal/pos"
	"github.com/MrJamesThe3rd/supersaver/internal/report"
)

type App struct {
	Config  *config.Config
	POS     *pos.Service
	Metrics *metrics.Metrics

	db *sql.DB
}

// New loads the catalog and opens every store. A catalog that cannot be
// loaded aborts startup.
func New(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*App, error) {
	formats, err := report.ParseFormats(cfg.Report.Formats)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Metrics: metrics.New(reg)}

	ledgerStore, err := a.openLedger(ctx)
	if err != nil {
		return nil, err
	}

	sink, err := newSink(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.POS = pos.NewService(pos.Deps{
		Pending: store.NewPending(cfg.Files.PendingBill),
		Archive: store.NewArchive(cfg.Files.Bills, cfg.App.StoreName),
		Ledger:  ledger.NewService(ledgerStore),
		Sink:    sink,
		Metrics: a.Metrics,
	}, pos.Config{
		ReportPath:    cfg.Files.Report,
		ReportFormats: formats,
		ReportSubject: cfg.Report.Subject,
	})

	if _, err := a.POS.LoadCatalog(cfg.Files.Catalog); err != nil {
		a.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return a, nil
}

func (a *App) openLedger(ctx context.Context) (ledger.Store, error) {
	cfg := a.Config

	if cfg.Ledger.Driver != "postgres" {
		f := ledgerstore.NewFile(cfg.Files.Revenue)
		if cfg.Ledger.Strict {
			f.WithStrict()
		}

		return f, nil
	}

	db, err := database.Open(ctx, cfg.ConnectionString())
	if err != nil {
		return nil, err
	}

	pg := ledgerstore.NewPostgres(db)
	if err := pg.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	a.db = db

	return pg, nil
}

func newSink(cfg *config.Config) (pos.Sink, error) {
	env := delivery.Envelope{From: cfg.Report.From, To: cfg.Recipients()}

	switch cfg.Delivery.Mode {
	case "smtp":
		return delivery.NewSMTP(delivery.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     env.From,
			To:       env.To,
		}), nil
	case "outbox":
		return delivery.NewOutbox(cfg.Delivery.OutboxDir, env), nil
	case "none", "":
		return delivery.Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown delivery mode %q", cfg.Delivery.Mode)
	}
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}

	return nil
}
