package bill

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

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
	r.Get("/pending", h.pending)
}

type lineResponse struct {
	Text            string `json:"text"`
	Name            string `json:"name,omitempty"`
	SizeOrWeight    string `json:"size_or_weight,omitempty"`
	Quantity        int    `json:"quantity,omitempty"`
	DiscountPercent int    `json:"discount_percent,omitempty"`
	Total           string `json:"total,omitempty"`
}

type billResponse struct {
	Cashier       string         `json:"cashier"`
	Customer      string         `json:"customer"`
	Lines         []lineResponse `json:"lines"`
	TotalDiscount string         `json:"total_discount"`
	TotalCost     string         `json:"total_cost"`
}

func toResponse(b *bill.Bill) billResponse {
	lines := b.Lines()

	resp := billResponse{
		Cashier:       b.Cashier,
		Customer:      b.Customer,
		Lines:         make([]lineResponse, len(lines)),
		TotalDiscount: b.TotalDiscount().StringFixed(2),
		TotalCost:     b.TotalCost().StringFixed(2),
	}

	for i, l := range lines {
		resp.Lines[i] = lineResponse{Text: l.String()}

		if l.Structured() {
			resp.Lines[i].Name = l.Name
			resp.Lines[i].SizeOrWeight = l.SizeOrWeight
			resp.Lines[i].Quantity = l.Quantity
			resp.Lines[i].DiscountPercent = l.DiscountPercent
			resp.Lines[i].Total = l.Total.StringFixed(2)
		}
	}

	return resp
}

// pending shows the paused bill without taking it out of the slot.
func (h *Handler) pending(w http.ResponseWriter, _ *http.Request) {
	b, err := h.svc.ResumeBill()

	switch {
	case errors.Is(err, bill.ErrNoPendingBill):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, bill.ErrMalformedPendingBill):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(b)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
