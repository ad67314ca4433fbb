package pricing

// Money represents a monetary value stored in minor units.
type Money = int64

// LineItem describes a canonical cart line used for pricing calculation.
type LineItem struct {
	Name  string
	SKU   string
	Price Money
}

// Cart is a validated cart ready for pricing.
type Cart struct {
	Reference string
	Items     []LineItem
}

// PricedItem is the immutable pricing result for a single line item.
type PricedItem struct {
	Name           string
	SKU            string
	Price          Money
	DiscountAmount Money
	FinalPrice     Money
}

// Rule is an immutable snapshot of the store-wide discount rule.
type Rule struct {
	PrerequisiteSKUs []string
	EligibleSKUs     []string
	PercentBps       int32
}

// Summary aggregates per-item pricing and the cart total.
type Summary struct {
	Reference  string
	Items      []PricedItem
	TotalPrice Money
}

// Compute prices the cart, applying at most one discount to at most one item.
// It never mutates the input cart; each invocation is independent and pure.
func Compute(cart Cart, rule *Rule) Summary {
	items := make([]PricedItem, len(cart.Items))
	for i, it := range cart.Items {
		items[i] = PricedItem{
			Name:       it.Name,
			SKU:        it.SKU,
			Price:      it.Price,
			FinalPrice: it.Price,
		}
	}

	if idx := discountTarget(cart.Items, rule); idx >= 0 {
		price := cart.Items[idx].Price
		discount := discountFor(price, rule.PercentBps)
		items[idx].DiscountAmount = discount
		items[idx].FinalPrice = price - discount
	}

	var total Money
	for _, it := range items {
		total += it.FinalPrice
	}
	return Summary{
		Reference:  cart.Reference,
		Items:      items,
		TotalPrice: total,
	}
}

// Applicable reports whether the rule unlocks a discount for the given items.
// It requires at least one prerequisite occurrence, at least one eligible
// occurrence, and at least two item occurrences in the union of both sets, so
// a lone item whose SKU sits in both sets cannot qualify itself.
func Applicable(items []LineItem, rule *Rule) bool {
	if rule == nil {
		return false
	}
	var prerequisite, eligible, union int
	for _, it := range items {
		inPrereq := containsSKU(rule.PrerequisiteSKUs, it.SKU)
		inEligible := containsSKU(rule.EligibleSKUs, it.SKU)
		if inPrereq {
			prerequisite++
		}
		if inEligible {
			eligible++
		}
		if inPrereq || inEligible {
			union++
		}
	}
	return prerequisite > 0 && eligible > 0 && union >= 2
}

// discountTarget selects the cheapest eligible item, first occurrence winning
// ties. Returns -1 when the rule is absent or not applicable.
func discountTarget(items []LineItem, rule *Rule) int {
	if !Applicable(items, rule) {
		return -1
	}
	target := -1
	for i, it := range items {
		if !containsSKU(rule.EligibleSKUs, it.SKU) {
			continue
		}
		if target < 0 || it.Price < items[target].Price {
			target = i
		}
	}
	return target
}

// discountFor computes the discount in minor units. Integer division truncates
// toward zero; negative prices never attract a discount.
func discountFor(price Money, bps int32) Money {
	discount := price * Money(bps) / 10000
	if discount < 0 {
		return 0
	}
	if discount > price {
		discount = price
	}
	return discount
}

func containsSKU(skus []string, sku string) bool {
	for _, s := range skus {
		if s == sku {
			return true
		}
	}
	return false
}
