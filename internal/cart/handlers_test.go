package cart_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/zakiarsyad/backend-keranjang/internal/cart"
	"github.com/zakiarsyad/backend-keranjang/internal/pricing"
)

type staticRules struct {
	rule *pricing.Rule
	err  error
}

func (s staticRules) Current(context.Context) (*pricing.Rule, error) {
	return s.rule, s.err
}

type summaryResponse struct {
	Data struct {
		Reference string `json:"reference"`
		Items     []struct {
			Name           string `json:"name"`
			SKU            string `json:"sku"`
			Price          string `json:"price"`
			DiscountAmount string `json:"discountAmount"`
			FinalPrice     string `json:"finalPrice"`
		} `json:"items"`
		TotalPrice string `json:"totalPrice"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    string              `json:"code"`
		Message string              `json:"message"`
		Details map[string][]string `json:"details"`
	} `json:"error"`
}

func calculate(t *testing.T, h *cart.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/carts/calculate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Calculate(rec, req)
	return rec
}

func TestCalculateWithDiscount(t *testing.T) {
	handler := &cart.Handler{
		Svc: &cart.Service{Rules: staticRules{rule: &pricing.Rule{
			PrerequisiteSKUs: []string{"SKU1"},
			EligibleSKUs:     []string{"SKU2"},
			PercentBps:       5000,
		}}},
		Log: zerolog.Nop(),
	}

	rec := calculate(t, handler, `{"cart":{"reference":"cart123","lineItems":[
		{"name":"Item 1","sku":"SKU1","price":"29.90"},
		{"name":"Item 2","sku":"SKU2","price":"39.90"}]}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "cart123", resp.Data.Reference)
	require.Len(t, resp.Data.Items, 2)
	require.Equal(t, "29.90", resp.Data.Items[0].Price)
	require.Equal(t, "0.00", resp.Data.Items[0].DiscountAmount)
	require.Equal(t, "29.90", resp.Data.Items[0].FinalPrice)
	require.Equal(t, "19.95", resp.Data.Items[1].DiscountAmount)
	require.Equal(t, "19.95", resp.Data.Items[1].FinalPrice)
	require.Equal(t, "49.85", resp.Data.TotalPrice)
}

func TestCalculateWithoutRule(t *testing.T) {
	handler := &cart.Handler{Svc: &cart.Service{Rules: staticRules{}}, Log: zerolog.Nop()}

	rec := calculate(t, handler, `{"cart":{"reference":"cart123","lineItems":[
		{"name":"Item 1","sku":"SKU1","price":29.90},
		{"name":"Item 2","sku":"SKU2","price":39.90}]}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "29.90", resp.Data.Items[0].FinalPrice)
	require.Equal(t, "39.90", resp.Data.Items[1].FinalPrice)
	require.Equal(t, "69.80", resp.Data.TotalPrice)
}

func TestCalculateEmptyCart(t *testing.T) {
	handler := &cart.Handler{Svc: &cart.Service{Rules: staticRules{}}, Log: zerolog.Nop()}

	rec := calculate(t, handler, `{"cart":{"reference":"cart123","lineItems":[]}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"items":[]`)
	require.Contains(t, rec.Body.String(), `"totalPrice":"0.00"`)
}

func TestCalculateValidationErrors(t *testing.T) {
	handler := &cart.Handler{Svc: &cart.Service{Rules: staticRules{}}, Log: zerolog.Nop()}

	rec := calculate(t, handler, `{"cart":{"lineItems":[
		{"name":"Item 1","sku":"SKU1","price":"29.90"},
		{"name":"","sku":"SKU2","price":"oops"}]}}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "VALIDATION", resp.Error.Code)
	require.Equal(t, []string{"must be filled"}, resp.Error.Details["reference"])
	require.Equal(t, []string{"must be filled"}, resp.Error.Details["lineItems.1.name"])
	require.Equal(t, []string{"must be an integer"}, resp.Error.Details["lineItems.1.price"])
}

func TestCalculateMissingCartEnvelope(t *testing.T) {
	handler := &cart.Handler{Svc: &cart.Service{Rules: staticRules{}}, Log: zerolog.Nop()}

	rec := calculate(t, handler, `{}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []string{"is missing"}, resp.Error.Details["cart"])
}

func TestCalculateMalformedBody(t *testing.T) {
	handler := &cart.Handler{Svc: &cart.Service{Rules: staticRules{}}, Log: zerolog.Nop()}

	rec := calculate(t, handler, `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculateRuleStoreFailureIsGeneric(t *testing.T) {
	handler := &cart.Handler{
		Svc: &cart.Service{Rules: staticRules{err: errors.New("pq: relation missing")}},
		Log: zerolog.Nop(),
	}

	rec := calculate(t, handler, `{"cart":{"reference":"cart123","lineItems":[
		{"name":"Item 1","sku":"SKU1","price":"29.90"}]}}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "INTERNAL", resp.Error.Code)
	require.NotContains(t, rec.Body.String(), "relation missing")
}

// Validator and engine composed through the handler must agree with fixtures
// built directly in canonical form.
func TestCalculateMatchesDirectEngineComputation(t *testing.T) {
	rule := &pricing.Rule{PrerequisiteSKUs: []string{"SKU1"}, EligibleSKUs: []string{"SKU1"}, PercentBps: 5000}
	handler := &cart.Handler{Svc: &cart.Service{Rules: staticRules{rule: rule}}, Log: zerolog.Nop()}

	rec := calculate(t, handler, `{"cart":{"reference":"cart123","lineItems":[
		{"name":"Item 1","sku":"SKU1","price":"29.90"},
		{"name":"Item 1","sku":"SKU1","price":"29.90"},
		{"name":"Item 1","sku":"SKU1","price":"29.90"}]}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	direct := pricing.Compute(pricing.Cart{
		Reference: "cart123",
		Items: []pricing.LineItem{
			{Name: "Item 1", SKU: "SKU1", Price: 2990},
			{Name: "Item 1", SKU: "SKU1", Price: 2990},
			{Name: "Item 1", SKU: "SKU1", Price: 2990},
		},
	}, rule)
	require.Equal(t, int64(7475), direct.TotalPrice)

	var resp summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "14.95", resp.Data.Items[0].FinalPrice)
	require.Equal(t, "29.90", resp.Data.Items[1].FinalPrice)
	require.Equal(t, "74.75", resp.Data.TotalPrice)
}
