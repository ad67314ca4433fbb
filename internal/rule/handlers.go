package rule

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/zakiarsyad/backend-keranjang/internal/common"
	"github.com/zakiarsyad/backend-keranjang/internal/obs"
)

// StoreAPI abstracts rule persistence for the handlers.
type StoreAPI interface {
	Create(ctx context.Context, params CreateParams) (Rule, error)
	Current(ctx context.Context) (*Rule, error)
	Delete(ctx context.Context) (bool, error)
}

// Handler exposes administrative discount rule endpoints.
type Handler struct {
	Store    StoreAPI
	Cache    *Cache
	Validate *validator.Validate
	Log      zerolog.Logger
}

// Create inserts the singleton discount rule.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil || h.Validate == nil {
		h.writeError(w, common.NewAppError("INTERNAL", "rule store not configured", http.StatusInternalServerError, nil))
		return
	}
	var payload Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, common.NewAppError("BAD_REQUEST", "invalid payload", http.StatusBadRequest, err))
		return
	}
	params, verrs := ValidatePayload(h.Validate, payload)
	if len(verrs) > 0 {
		h.writeError(w, &common.AppError{
			Code:       "VALIDATION",
			Message:    "invalid rule payload",
			HTTPStatus: http.StatusUnprocessableEntity,
			Details:    verrs,
		})
		return
	}

	created, err := h.Store.Create(r.Context(), params)
	if err != nil {
		if errors.Is(err, ErrRuleExists) {
			h.countMutation("create", "conflict")
			h.writeError(w, common.NewAppError("CONFLICT", "only one discount rule can be created", http.StatusConflict, err))
			return
		}
		h.countMutation("create", "error")
		h.Log.Error().Err(err).Msg("create discount rule")
		h.writeError(w, common.NewAppError("INTERNAL", "failed to create discount rule", http.StatusInternalServerError, err))
		return
	}
	h.countMutation("create", "ok")
	_ = h.Cache.Invalidate(r.Context())
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

// Get returns the current rule.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		h.writeError(w, common.NewAppError("INTERNAL", "rule store not configured", http.StatusInternalServerError, nil))
		return
	}
	current, err := h.Store.Current(r.Context())
	if err != nil {
		h.Log.Error().Err(err).Msg("load discount rule")
		h.writeError(w, common.NewAppError("INTERNAL", "failed to load discount rule", http.StatusInternalServerError, err))
		return
	}
	if current == nil {
		h.writeError(w, common.NewAppError("NOT_FOUND", "no discount rule configured", http.StatusNotFound, nil))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": current})
}

// Delete removes the current rule.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		h.writeError(w, common.NewAppError("INTERNAL", "rule store not configured", http.StatusInternalServerError, nil))
		return
	}
	deleted, err := h.Store.Delete(r.Context())
	if err != nil {
		h.countMutation("delete", "error")
		h.Log.Error().Err(err).Msg("delete discount rule")
		h.writeError(w, common.NewAppError("INTERNAL", "failed to delete discount rule", http.StatusInternalServerError, err))
		return
	}
	if !deleted {
		h.writeError(w, common.NewAppError("NOT_FOUND", "no discount rule configured", http.StatusNotFound, nil))
		return
	}
	h.countMutation("delete", "ok")
	_ = h.Cache.Invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := appErr.Code
		if code == "" {
			code = "INTERNAL"
		}
		message := appErr.Message
		if message == "" {
			message = "internal error"
		}
		common.JSONError(w, status, code, message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}

func (h *Handler) countMutation(op, result string) {
	if obs.RuleMutationsTotal != nil {
		obs.RuleMutationsTotal.WithLabelValues(op, result).Inc()
	}
}
