package cart

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/zakiarsyad/backend-keranjang/internal/common"
	"github.com/zakiarsyad/backend-keranjang/internal/money"
	"github.com/zakiarsyad/backend-keranjang/internal/obs"
	"github.com/zakiarsyad/backend-keranjang/internal/pricing"
)

// Handler wires the cart calculation service to HTTP.
type Handler struct {
	Svc *Service
	Log zerolog.Logger
}

type itemView struct {
	Name           string `json:"name"`
	SKU            string `json:"sku"`
	Price          string `json:"price"`
	DiscountAmount string `json:"discountAmount"`
	FinalPrice     string `json:"finalPrice"`
}

type summaryView struct {
	Reference  string     `json:"reference"`
	Items      []itemView `json:"items"`
	TotalPrice string     `json:"totalPrice"`
}

// Calculate prices a cart payload and renders the summary with fixed
// two-decimal monetary strings.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var payload struct {
		Cart map[string]any `json:"cart"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if payload.Cart == nil {
		h.countCalculation("validation_error")
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid cart payload",
			FieldErrors{"cart": {msgIsMissing}})
		return
	}

	summary, verrs, err := h.Svc.Calculate(r.Context(), payload.Cart)
	if err != nil {
		h.countCalculation("internal_error")
		h.Log.Error().Err(err).Msg("calculate cart")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to calculate cart", nil)
		return
	}
	if len(verrs) > 0 {
		h.countCalculation("validation_error")
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid cart payload", verrs)
		return
	}

	h.countCalculation("ok")
	if discounted(summary) && obs.DiscountAppliedTotal != nil {
		obs.DiscountAppliedTotal.Inc()
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": renderSummary(summary)})
}

func (h *Handler) countCalculation(result string) {
	if obs.CartCalculationsTotal != nil {
		obs.CartCalculationsTotal.WithLabelValues(result).Inc()
	}
}

func discounted(s pricing.Summary) bool {
	for _, it := range s.Items {
		if it.DiscountAmount != 0 {
			return true
		}
	}
	return false
}

func renderSummary(s pricing.Summary) summaryView {
	items := make([]itemView, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, itemView{
			Name:           it.Name,
			SKU:            it.SKU,
			Price:          money.FormatCents(it.Price),
			DiscountAmount: money.FormatCents(it.DiscountAmount),
			FinalPrice:     money.FormatCents(it.FinalPrice),
		})
	}
	return summaryView{
		Reference:  s.Reference,
		Items:      items,
		TotalPrice: money.FormatCents(s.TotalPrice),
	}
}
