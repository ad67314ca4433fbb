package rule

import (
	"context"

	"github.com/zakiarsyad/backend-keranjang/internal/pricing"
)

// Reader is the subset of the store needed to read the current rule.
type Reader interface {
	Current(ctx context.Context) (*Rule, error)
}

// Source serves immutable pricing snapshots of the current rule, consulting
// the Redis cache before the store. Cache failures fall through to the store.
type Source struct {
	Store Reader
	Cache *Cache
}

type cachedSnapshot struct {
	Present bool          `json:"present"`
	Rule    *pricing.Rule `json:"rule,omitempty"`
}

// Current implements cart.RuleSource.
func (s *Source) Current(ctx context.Context) (*pricing.Rule, error) {
	if s == nil || s.Store == nil {
		return nil, nil
	}
	var cached cachedSnapshot
	if hit, err := s.Cache.GetJSON(ctx, &cached); err == nil && hit {
		if !cached.Present {
			return nil, nil
		}
		return cached.Rule, nil
	}

	current, err := s.Store.Current(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := current.Snapshot()
	_ = s.Cache.SetJSON(ctx, cachedSnapshot{Present: snapshot != nil, Rule: snapshot})
	return snapshot, nil
}
