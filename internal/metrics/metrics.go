package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const metricPrefix = "supersaver_"

// Metrics bundles the register counters. A nil *Metrics records nothing.
type Metrics struct {
	BillsFinalized prometheus.Counter
	BillsPaused    prometheus.Counter
	Revenue        prometheus.Counter
	ReportsTotal   *prometheus.CounterVec
}

// New constructs the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BillsFinalized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "bills_finalized_total",
			Help: "Bills appended to the archive and the revenue ledger",
		}),
		BillsPaused: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "bills_paused_total",
			Help: "Bills saved to the pending slot",
		}),
		Revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "revenue_total",
			Help: "Sum of the total cost of finalized bills",
		}),
		ReportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "reports_total",
				Help: "Revenue reports by result",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.BillsFinalized,
		m.BillsPaused,
		m.Revenue,
		m.ReportsTotal,
	)

	return m
}

func (m *Metrics) BillFinalized(totalCost decimal.Decimal) {
	if m == nil {
		return
	}

	m.BillsFinalized.Inc()

	if v, _ := totalCost.Float64(); v > 0 {
		m.Revenue.Add(v)
	}
}

func (m *Metrics) BillPaused() {
	if m == nil {
		return
	}

	m.BillsPaused.Inc()
}

// Report results.
const (
	ResultOK             = "ok"
	ResultInvalidRange   = "invalid_range"
	ResultDeliveryFailed = "delivery_failed"
	ResultError          = "error"
)

func (m *Metrics) ReportGenerated(result string) {
	if m == nil {
		return
	}

	m.ReportsTotal.WithLabelValues(result).Inc()
}
