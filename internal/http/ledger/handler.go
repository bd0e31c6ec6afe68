package ledger

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/supersaver/internal/bill"
	"github.com/MrJamesThe3rd/supersaver/internal/pos"
)

type Handler struct {
	svc *pos.Service
}

func NewHandler(svc *pos.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

type entryResponse struct {
	Timestamp string `json:"timestamp"`
	TotalCost string `json:"total_cost"`
}

type skippedResponse struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

type ledgerResponse struct {
	Entries []entryResponse   `json:"entries"`
	Skipped []skippedResponse `json:"skipped"`
}

// list returns the whole ledger, optionally only entries on or after
// ?since=yyyy-MM-dd.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var since time.Time

	if s := r.URL.Query().Get("since"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "since must be yyyy-MM-dd", http.StatusBadRequest)
			return
		}

		since = t
	}

	res, err := h.svc.ScanLedger(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := ledgerResponse{
		Entries: make([]entryResponse, 0, len(res.Entries)),
		Skipped: make([]skippedResponse, 0, len(res.Skipped)),
	}

	for _, e := range res.Entries {
		if e.Timestamp.Before(since) {
			continue
		}

		resp.Entries = append(resp.Entries, entryResponse{
			Timestamp: e.Timestamp.Format(bill.TimestampLayout),
			TotalCost: e.TotalCost.StringFixed(2),
		})
	}

	for _, sk := range res.Skipped {
		resp.Skipped = append(resp.Skipped, skippedResponse{Line: sk.Number, Text: sk.Text, Reason: sk.Err.Error()})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
