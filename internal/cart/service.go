package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/zakiarsyad/backend-keranjang/internal/pricing"
)

// RuleSource supplies the current discount rule snapshot, if any. The engine
// reads it once per calculation and never writes back.
type RuleSource interface {
	Current(ctx context.Context) (*pricing.Rule, error)
}

// Service composes validation and the pricing engine into one calculation.
type Service struct {
	Rules RuleSource
}

// Calculate validates the raw cart payload and prices it against the current
// discount rule. Validation failures come back as a field error map; only
// rule-store failures surface as an error.
func (s *Service) Calculate(ctx context.Context, raw map[string]any) (pricing.Summary, FieldErrors, error) {
	if s == nil {
		return pricing.Summary{}, nil, errors.New("cart service not configured")
	}
	cart, verrs := Validate(raw)
	if len(verrs) > 0 {
		return pricing.Summary{}, verrs, nil
	}

	var rule *pricing.Rule
	if s.Rules != nil {
		snapshot, err := s.Rules.Current(ctx)
		if err != nil {
			return pricing.Summary{}, nil, fmt.Errorf("load discount rule: %w", err)
		}
		rule = snapshot
	}

	return pricing.Compute(cart, rule), nil, nil
}
