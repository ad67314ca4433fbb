package cart

import (
	"fmt"
	"strings"

	"github.com/zakiarsyad/backend-keranjang/internal/money"
	"github.com/zakiarsyad/backend-keranjang/internal/pricing"
)

const (
	msgMustBeFilled  = "must be filled"
	msgIsMissing     = "is missing"
	msgMustBeArray   = "must be an array"
	msgMustBeMap     = "must be a map"
	msgMustBeInteger = "must be an integer"
)

// FieldErrors maps a field path such as "lineItems.1.price" to the list of
// validation messages collected for it.
type FieldErrors map[string][]string

func (e FieldErrors) add(path, msg string) {
	e[path] = append(e[path], msg)
}

// Validate normalises raw untyped cart input into a canonical cart with
// integer minor-unit prices. All field errors are collected in one pass; the
// returned cart is only meaningful when the error map is empty.
func Validate(raw map[string]any) (pricing.Cart, FieldErrors) {
	errs := FieldErrors{}

	reference := ""
	if ref, ok := stringValue(raw["reference"]); ok && ref != "" {
		reference = ref
	} else {
		errs.add("reference", msgMustBeFilled)
	}

	var items []pricing.LineItem
	rawItems, present := raw["lineItems"]
	switch {
	case !present:
		errs.add("lineItems", msgIsMissing)
	case rawItems == nil:
		errs.add("lineItems", msgMustBeArray)
	default:
		list, ok := rawItems.([]any)
		if !ok {
			errs.add("lineItems", msgMustBeArray)
			break
		}
		items = make([]pricing.LineItem, 0, len(list))
		for i, entry := range list {
			item, ok := validateItem(entry, fmt.Sprintf("lineItems.%d", i), errs)
			if ok {
				items = append(items, item)
			}
		}
	}

	if len(errs) > 0 {
		return pricing.Cart{}, errs
	}
	return pricing.Cart{Reference: reference, Items: items}, errs
}

func validateItem(entry any, path string, errs FieldErrors) (pricing.LineItem, bool) {
	fields, ok := entry.(map[string]any)
	if !ok {
		errs.add(path, msgMustBeMap)
		return pricing.LineItem{}, false
	}

	item := pricing.LineItem{}
	valid := true

	if name, ok := stringValue(fields["name"]); ok && name != "" {
		item.Name = name
	} else {
		errs.add(path+".name", msgMustBeFilled)
		valid = false
	}

	if sku, ok := stringValue(fields["sku"]); ok && sku != "" {
		item.SKU = sku
	} else {
		errs.add(path+".sku", msgMustBeFilled)
		valid = false
	}

	rawPrice, present := fields["price"]
	if !present || rawPrice == nil {
		errs.add(path+".price", msgMustBeFilled)
		valid = false
	} else {
		price, err := money.ParseAmount(rawPrice)
		if err != nil {
			errs.add(path+".price", msgMustBeInteger)
			valid = false
		} else {
			item.Price = price
		}
	}

	return item, valid
}

func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}
