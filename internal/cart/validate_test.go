package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zakiarsyad/backend-keranjang/internal/pricing"
)

func rawItem(name, sku string, price any) map[string]any {
	return map[string]any{"name": name, "sku": sku, "price": price}
}

func TestValidateConvertsPricesToCents(t *testing.T) {
	cart, errs := Validate(map[string]any{
		"reference": "cart123",
		"lineItems": []any{
			rawItem("Item 1", "SKU1", "29.90"),
			rawItem("Item 2", "SKU2", json.Number("39.90")),
		},
	})
	require.Empty(t, errs)
	require.Equal(t, pricing.Cart{
		Reference: "cart123",
		Items: []pricing.LineItem{
			{Name: "Item 1", SKU: "SKU1", Price: 2990},
			{Name: "Item 2", SKU: "SKU2", Price: 3990},
		},
	}, cart)
}

func TestValidateMissingReference(t *testing.T) {
	_, errs := Validate(map[string]any{"lineItems": []any{}})
	require.Equal(t, []string{"must be filled"}, errs["reference"])

	_, errs = Validate(map[string]any{"reference": nil, "lineItems": []any{}})
	require.Equal(t, []string{"must be filled"}, errs["reference"])
}

func TestValidateLineItemsShape(t *testing.T) {
	_, errs := Validate(map[string]any{"reference": "cart123"})
	require.Equal(t, []string{"is missing"}, errs["lineItems"])

	_, errs = Validate(map[string]any{"reference": "cart123", "lineItems": nil})
	require.Equal(t, []string{"must be an array"}, errs["lineItems"])

	_, errs = Validate(map[string]any{"reference": "cart123", "lineItems": "nope"})
	require.Equal(t, []string{"must be an array"}, errs["lineItems"])
}

func TestValidateCollectsAllItemErrors(t *testing.T) {
	_, errs := Validate(map[string]any{
		"reference": "",
		"lineItems": []any{
			rawItem("Item 1", "SKU1", "29.90"),
			rawItem("", "SKU2", "39.90"),
			rawItem("Item 3", "", "invalid_price"),
		},
	})
	require.Equal(t, []string{"must be filled"}, errs["reference"])
	require.Equal(t, []string{"must be filled"}, errs["lineItems.1.name"])
	require.Equal(t, []string{"must be filled"}, errs["lineItems.2.sku"])
	require.Equal(t, []string{"must be an integer"}, errs["lineItems.2.price"])
	require.NotContains(t, errs, "lineItems.0.name")
}

func TestValidateNonNumericPrice(t *testing.T) {
	_, errs := Validate(map[string]any{
		"reference": "cart123",
		"lineItems": []any{rawItem("Item 1", "SKU1", "invalid_price")},
	})
	require.Equal(t, []string{"must be an integer"}, errs["lineItems.0.price"])
}

func TestValidateEmptyItemsIsValid(t *testing.T) {
	cart, errs := Validate(map[string]any{"reference": "cart123", "lineItems": []any{}})
	require.Empty(t, errs)
	require.Equal(t, "cart123", cart.Reference)
	require.Len(t, cart.Items, 0)
}

func TestValidateNegativePrice(t *testing.T) {
	cart, errs := Validate(map[string]any{
		"reference": "cart123",
		"lineItems": []any{rawItem("Adjustment", "SKU1", "-5.50")},
	})
	require.Empty(t, errs)
	require.Equal(t, int64(-550), cart.Items[0].Price)
}
