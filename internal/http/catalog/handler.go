package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/supersaver/internal/catalog"
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
	r.Get("/{code}", h.get)
}

type itemResponse struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	Price           string `json:"price"`
	SizeOrWeight    string `json:"size_or_weight"`
	Manufacturer    string `json:"manufacturer,omitempty"`
	Expiry          string `json:"expiry,omitempty"`
	DiscountPercent int    `json:"discount_percent"`
}

func toResponse(item catalog.Item) itemResponse {
	return itemResponse{
		Code:            item.Code,
		Name:            item.Name,
		Price:           item.Price.StringFixed(2),
		SizeOrWeight:    item.SizeOrWeight,
		Manufacturer:    item.Manufacturer,
		Expiry:          item.Expiry,
		DiscountPercent: item.DiscountPercent,
	}
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	items := h.svc.Catalog().Items()

	resp := make([]itemResponse, len(items))
	for i, item := range items {
		resp[i] = toResponse(item)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	item, ok := h.svc.Catalog().Lookup(chi.URLParam(r, "code"))
	if !ok {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(item)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
