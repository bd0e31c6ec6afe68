package pos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/supersaver/internal/bill"
	"github.com/MrJamesThe3rd/supersaver/internal/catalog"
	"github.com/MrJamesThe3rd/supersaver/internal/delivery"
	"github.com/MrJamesThe3rd/supersaver/internal/ledger"
	"github.com/MrJamesThe3rd/supersaver/internal/metrics"
	"github.com/MrJamesThe3rd/supersaver/internal/report"
)

var (
	ErrItemNotFound   = errors.New("item not found")
	ErrDeliveryFailed = errors.New("report delivery failed")

	// ErrReceiptNotArchived means the sale was recorded in the ledger but its
	// receipt could not be appended to the archive. The bill is finalized and
	// must not be finalized again.
	ErrReceiptNotArchived = errors.New("sale recorded but receipt not archived")
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=pos
type PendingStore interface {
	Save(b *bill.Bill) error
	Load() (*bill.Bill, error)
	Clear() error
}

type Archive interface {
	Append(b *bill.Bill) error
}

type Ledger interface {
	Record(ctx context.Context, b *bill.Bill) (ledger.Entry, error)
	Scan(ctx context.Context) (*ledger.ScanResult, error)
}

type Sink interface {
	Send(ctx context.Context, msg delivery.Message) error
}

type Deps struct {
	Catalog *catalog.Catalog
	Pending PendingStore
	Archive Archive
	Ledger  Ledger
	Sink    Sink
	Metrics *metrics.Metrics
}

type Config struct {
	ReportPath    string
	ReportFormats []report.Format
	ReportSubject string
	ReportBody    string
}

// Service is the register: every operation the menu and the API invoke.
type Service struct {
	catalog *catalog.Catalog
	pending PendingStore
	archive Archive
	ledger  Ledger
	reports *report.Generator
	sink    Sink
	metrics *metrics.Metrics
	cfg     Config
	now     func() time.Time
}

func NewService(deps Deps, cfg Config) *Service {
	if deps.Catalog == nil {
		deps.Catalog = catalog.New()
	}

	if deps.Sink == nil {
		deps.Sink = delivery.Nop{}
	}

	if cfg.ReportSubject == "" {
		cfg.ReportSubject = delivery.DefaultSubject
	}

	if cfg.ReportBody == "" {
		cfg.ReportBody = delivery.DefaultBody
	}

	return &Service{
		catalog: deps.Catalog,
		pending: deps.Pending,
		archive: deps.Archive,
		ledger:  deps.Ledger,
		reports: report.NewGenerator(deps.Ledger),
		sink:    deps.Sink,
		metrics: deps.Metrics,
		cfg:     cfg,
		now:     time.Now,
	}
}

// WithClock sets the clock used to stamp new bills.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// LoadCatalog replaces the catalog with the items in the CSV file at path.
// On error the current catalog is kept.
func (s *Service) LoadCatalog(path string) (int, error) {
	c, err := catalog.LoadFile(path)
	if err != nil {
		return 0, err
	}

	s.catalog = c

	slog.Info("catalog loaded", "path", path, "items", c.Len())

	return c.Len(), nil
}

func (s *Service) NewBill(cashier, customer string) *bill.Bill {
	return bill.New(cashier, customer, s.now())
}

// ResumeBill restores the paused bill. The slot is left intact until the
// bill is paused again or finalized.
func (s *Service) ResumeBill() (*bill.Bill, error) {
	return s.pending.Load()
}

func (s *Service) PauseBill(b *bill.Bill) error {
	if err := s.pending.Save(b); err != nil {
		return fmt.Errorf("pause bill: %w", err)
	}

	s.metrics.BillPaused()

	return nil
}

func (s *Service) AddItem(b *bill.Bill, code string, qty int) (bill.LineItem, error) {
	item, ok := s.catalog.Lookup(code)
	if !ok {
		return bill.LineItem{}, fmt.Errorf("%w: %q", ErrItemNotFound, code)
	}

	return b.AddItem(item, qty)
}

// FinalizeBill records the sale in the ledger and archives the receipt. A
// ledger failure leaves nothing written, so the call can be retried. Once the
// entry is recorded the bill counts as finalized: an archive failure is
// returned as ErrReceiptNotArchived together with the entry. A finalized bill
// that was resumed from the pending slot clears the slot.
func (s *Service) FinalizeBill(ctx context.Context, b *bill.Bill) (ledger.Entry, error) {
	entry, err := s.ledger.Record(ctx, b)
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("finalize bill: %w", err)
	}

	s.metrics.BillFinalized(b.TotalCost())

	var errs []error

	if err := s.archive.Append(b); err != nil {
		slog.Error("receipt not archived", "cashier", b.Cashier, "date", b.Timestamp(), "error", err)
		errs = append(errs, fmt.Errorf("%w: %w", ErrReceiptNotArchived, err))
	}

	if b.Restored() {
		if err := s.pending.Clear(); err != nil {
			errs = append(errs, fmt.Errorf("clear pending bill: %w", err))
		}
	}

	return entry, errors.Join(errs...)
}

func (s *Service) ScanLedger(ctx context.Context) (*ledger.ScanResult, error) {
	return s.ledger.Scan(ctx)
}

// PreviewReport generates the report without writing or delivering it.
func (s *Service) PreviewReport(ctx context.Context, from, to string) (*report.Report, error) {
	return s.reports.Generate(ctx, from, to)
}

type ReportResult struct {
	Report    *report.Report
	Files     []string
	Delivered bool
}

// GenerateReport builds the revenue report for [from, to], writes it in the
// configured formats and hands the files to the delivery sink. When delivery
// fails the written report is still returned, with an error wrapping
// ErrDeliveryFailed.
func (s *Service) GenerateReport(ctx context.Context, from, to string) (*ReportResult, error) {
	r, err := s.reports.Generate(ctx, from, to)
	if err != nil {
		if errors.Is(err, report.ErrInvalidDateRange) {
			s.metrics.ReportGenerated(metrics.ResultInvalidRange)
		} else {
			s.metrics.ReportGenerated(metrics.ResultError)
		}

		return nil, err
	}

	files, err := report.Export(r, s.cfg.ReportPath, s.cfg.ReportFormats)
	if err != nil {
		s.metrics.ReportGenerated(metrics.ResultError)
		return nil, err
	}

	res := &ReportResult{Report: r, Files: files}

	msg := delivery.Message{
		Subject:     s.cfg.ReportSubject,
		Body:        s.cfg.ReportBody,
		Attachments: files,
	}

	if err := s.sink.Send(ctx, msg); err != nil {
		s.metrics.ReportGenerated(metrics.ResultDeliveryFailed)
		return res, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	res.Delivered = true
	s.metrics.ReportGenerated(metrics.ResultOK)

	return res, nil
}
