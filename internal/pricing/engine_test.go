package pricing

import "testing"

func rule(prereq, eligible []string, bps int32) *Rule {
	return &Rule{PrerequisiteSKUs: prereq, EligibleSKUs: eligible, PercentBps: bps}
}

func TestComputeAppliesDiscountToEligibleItem(t *testing.T) {
	cart := Cart{
		Reference: "cart123",
		Items: []LineItem{
			{Name: "Item 1", SKU: "SKU1", Price: 2990},
			{Name: "Item 2", SKU: "SKU2", Price: 3990},
		},
	}
	summary := Compute(cart, rule([]string{"SKU1"}, []string{"SKU2"}, 5000))

	if summary.Reference != "cart123" {
		t.Fatalf("unexpected reference %q", summary.Reference)
	}
	if summary.Items[0].FinalPrice != 2990 || summary.Items[0].DiscountAmount != 0 {
		t.Fatalf("prerequisite item must pass through unchanged: %+v", summary.Items[0])
	}
	if summary.Items[1].DiscountAmount != 1995 || summary.Items[1].FinalPrice != 1995 {
		t.Fatalf("expected 1995/1995 on eligible item, got %+v", summary.Items[1])
	}
	if summary.TotalPrice != 4985 {
		t.Fatalf("expected total 4985, got %d", summary.TotalPrice)
	}
}

func TestComputeWithoutRulePassesThrough(t *testing.T) {
	cart := Cart{
		Reference: "cart123",
		Items: []LineItem{
			{Name: "Item 1", SKU: "SKU1", Price: 2990},
			{Name: "Item 2", SKU: "SKU2", Price: 3990},
		},
	}
	summary := Compute(cart, nil)
	for i, it := range summary.Items {
		if it.DiscountAmount != 0 || it.FinalPrice != cart.Items[i].Price {
			t.Fatalf("item %d mutated without a rule: %+v", i, it)
		}
	}
	if summary.TotalPrice != 6980 {
		t.Fatalf("expected total 6980, got %d", summary.TotalPrice)
	}
}

func TestComputeNonApplicableRulePassesThrough(t *testing.T) {
	cart := Cart{
		Reference: "cart123",
		Items: []LineItem{
			{Name: "Item 1", SKU: "SKU1", Price: 2990},
			{Name: "Item 2", SKU: "SKU2", Price: 3990},
		},
	}
	summary := Compute(cart, rule([]string{"SKU3"}, []string{"SKU4"}, 5000))
	if summary.TotalPrice != 6980 {
		t.Fatalf("expected undiscounted total 6980, got %d", summary.TotalPrice)
	}
}

func TestSingleOccurrenceOfSharedSKUDoesNotQualify(t *testing.T) {
	shared := rule([]string{"SKU1"}, []string{"SKU1"}, 5000)

	cart := Cart{Reference: "cart123", Items: []LineItem{{Name: "Item 1", SKU: "SKU1", Price: 2990}}}
	summary := Compute(cart, shared)
	if summary.Items[0].FinalPrice != 2990 || summary.TotalPrice != 2990 {
		t.Fatalf("a lone shared SKU must not discount itself: %+v", summary)
	}

	// A second item outside both sets does not help either.
	cart.Items = append(cart.Items, LineItem{Name: "Item 2", SKU: "SKU2", Price: 3990})
	summary = Compute(cart, shared)
	if summary.TotalPrice != 6980 {
		t.Fatalf("expected undiscounted total 6980, got %d", summary.TotalPrice)
	}
}

func TestRepeatedSharedSKUDiscountsFirstOccurrenceOnly(t *testing.T) {
	cart := Cart{
		Reference: "cart123",
		Items: []LineItem{
			{Name: "Item 1", SKU: "SKU1", Price: 2990},
			{Name: "Item 1", SKU: "SKU1", Price: 2990},
			{Name: "Item 1", SKU: "SKU1", Price: 2990},
		},
	}
	summary := Compute(cart, rule([]string{"SKU1"}, []string{"SKU1"}, 5000))
	if summary.Items[0].FinalPrice != 1495 {
		t.Fatalf("expected first occurrence discounted to 1495, got %d", summary.Items[0].FinalPrice)
	}
	for i := 1; i < 3; i++ {
		if summary.Items[i].FinalPrice != 2990 {
			t.Fatalf("expected occurrence %d unchanged, got %d", i, summary.Items[i].FinalPrice)
		}
	}
	if summary.TotalPrice != 7475 {
		t.Fatalf("expected total 7475, got %d", summary.TotalPrice)
	}
}

func TestTieBreakSelectsLeftmostCheapest(t *testing.T) {
	cart := Cart{
		Reference: "cart123",
		Items: []LineItem{
			{Name: "Anchor", SKU: "SKU1", Price: 1000},
			{Name: "B", SKU: "SKU2", Price: 500},
			{Name: "C", SKU: "SKU2", Price: 500},
		},
	}
	summary := Compute(cart, rule([]string{"SKU1"}, []string{"SKU2"}, 1000))
	if summary.Items[1].DiscountAmount != 50 {
		t.Fatalf("expected leftmost cheapest to win tie, got %+v", summary.Items)
	}
	if summary.Items[2].DiscountAmount != 0 {
		t.Fatalf("only one item may be discounted, got %+v", summary.Items[2])
	}
}

func TestDiscountRoundsDownInCustomersFavour(t *testing.T) {
	cart := Cart{
		Reference: "cart123",
		Items: []LineItem{
			{Name: "Item 1", SKU: "SKU1", Price: 2990},
			{Name: "Item 2", SKU: "SKU2", Price: 3993},
		},
	}
	summary := Compute(cart, rule([]string{"SKU1"}, []string{"SKU2"}, 5000))
	if summary.Items[1].DiscountAmount != 1996 {
		t.Fatalf("expected discount 1996, got %d", summary.Items[1].DiscountAmount)
	}
	if summary.Items[1].FinalPrice != 1997 {
		t.Fatalf("expected final price 1997, got %d", summary.Items[1].FinalPrice)
	}
	if summary.TotalPrice != 4987 {
		t.Fatalf("expected total 4987, got %d", summary.TotalPrice)
	}
}

func TestEmptyCart(t *testing.T) {
	summary := Compute(Cart{Reference: "cart123"}, rule([]string{"SKU1"}, []string{"SKU2"}, 5000))
	if len(summary.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(summary.Items))
	}
	if summary.TotalPrice != 0 {
		t.Fatalf("expected total 0, got %d", summary.TotalPrice)
	}
}

func TestNegativePriceNeverAttractsDiscount(t *testing.T) {
	cart := Cart{
		Reference: "refund",
		Items: []LineItem{
			{Name: "Anchor", SKU: "SKU1", Price: 1000},
			{Name: "Adjustment", SKU: "SKU2", Price: -550},
		},
	}
	summary := Compute(cart, rule([]string{"SKU1"}, []string{"SKU2"}, 5000))
	if summary.Items[1].DiscountAmount != 0 || summary.Items[1].FinalPrice != -550 {
		t.Fatalf("negative price must pass through, got %+v", summary.Items[1])
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	items := []LineItem{
		{Name: "Item 1", SKU: "SKU1", Price: 2990},
		{Name: "Item 2", SKU: "SKU2", Price: 3990},
	}
	_ = Compute(Cart{Reference: "cart123", Items: items}, rule([]string{"SKU1"}, []string{"SKU2"}, 5000))
	if items[1].Price != 3990 {
		t.Fatalf("input cart mutated: %+v", items[1])
	}
}
