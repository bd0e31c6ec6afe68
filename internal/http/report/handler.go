package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/supersaver/internal/bill"
	"github.com/MrJamesThe3rd/supersaver/internal/pos"
	"github.com/MrJamesThe3rd/supersaver/internal/report"
)

type Handler struct {
	svc *pos.Service
}

func NewHandler(svc *pos.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.generate)
	r.Get("/preview", h.preview)
}

type reportRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type entryResponse struct {
	Date    string `json:"date"`
	Revenue string `json:"revenue"`
}

type reportResponse struct {
	From          string          `json:"from"`
	To            string          `json:"to"`
	Entries       []entryResponse `json:"entries"`
	Total         string          `json:"total"`
	SkippedLines  int             `json:"skipped_lines"`
	Files         []string        `json:"files,omitempty"`
	Delivered     bool            `json:"delivered"`
	DeliveryError string          `json:"delivery_error,omitempty"`
}

func toResponse(r *report.Report) reportResponse {
	resp := reportResponse{
		From:         r.From,
		To:           r.To,
		Entries:      make([]entryResponse, len(r.Entries)),
		Total:        r.Total.StringFixed(2),
		SkippedLines: r.Skipped,
	}

	for i, e := range r.Entries {
		resp.Entries[i] = entryResponse{
			Date:    e.Timestamp.Format(bill.TimestampLayout),
			Revenue: e.TotalCost.StringFixed(2),
		}
	}

	return resp
}

// generate writes the report files and delivers them. A delivery failure is
// reported in the body; the files have been written.
func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.svc.GenerateReport(r.Context(), req.From, req.To)

	switch {
	case errors.Is(err, report.ErrInvalidDateRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil && !errors.Is(err, pos.ErrDeliveryFailed):
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := toResponse(res.Report)
	resp.Files = res.Files
	resp.Delivered = res.Delivered

	if err != nil {
		slog.Warn("report delivery failed", "error", err)
		resp.DeliveryError = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// preview renders the report without writing files. ?format selects json
// (default), txt, xlsx or pdf.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rep, err := h.svc.PreviewReport(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, report.ErrInvalidDateRange) {
			status = http.StatusBadRequest
		}

		http.Error(w, err.Error(), status)

		return
	}

	var (
		data        []byte
		contentType string
	)

	switch report.Format(q.Get("format")) {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(toResponse(rep)); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	case report.FormatText:
		data, contentType = []byte(rep.Text()), "text/plain; charset=utf-8"
	case report.FormatXLSX:
		data, err = report.BuildXLSX(rep)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case report.FormatPDF:
		data, err = report.BuildPDF(rep)
		contentType = "application/pdf"
	default:
		http.Error(w, "unknown format", http.StatusBadRequest)
		return
	}

	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"revenue_report_%s_%s.%s\"", rep.From, rep.To, q.Get("format")))

	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
