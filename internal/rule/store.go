package rule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrRuleExists is returned when creating a rule while one already exists.
var ErrRuleExists = errors.New("discount rule already exists")

const uniqueViolation = "23505"

// Store persists the singleton discount rule in Postgres. The table carries a
// unique constant column, so a second insert fails with a unique violation and
// the at-most-one invariant holds without application locking.
type Store struct {
	Pool *pgxpool.Pool
}

const ruleColumns = `id, prerequisite_skus, eligible_skus, discount_unit, discount_value::text, created_at, updated_at`

// Create inserts the rule, failing with ErrRuleExists when one is present.
func (s *Store) Create(ctx context.Context, params CreateParams) (Rule, error) {
	if s == nil || s.Pool == nil {
		return Rule{}, errors.New("rule store not configured")
	}
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO discount_rules (prerequisite_skus, eligible_skus, discount_unit, discount_value)
		VALUES ($1, $2, $3, $4::numeric)
		RETURNING `+ruleColumns,
		params.PrerequisiteSKUs, params.EligibleSKUs, params.DiscountUnit, params.DiscountValue.String(),
	)
	rule, err := scanRule(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Rule{}, ErrRuleExists
		}
		return Rule{}, fmt.Errorf("create discount rule: %w", err)
	}
	return rule, nil
}

// Current returns the rule, or nil when none exists.
func (s *Store) Current(ctx context.Context) (*Rule, error) {
	if s == nil || s.Pool == nil {
		return nil, errors.New("rule store not configured")
	}
	row := s.Pool.QueryRow(ctx, `SELECT `+ruleColumns+` FROM discount_rules LIMIT 1`)
	rule, err := scanRule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load discount rule: %w", err)
	}
	return &rule, nil
}

// Delete removes the rule and reports whether one existed.
func (s *Store) Delete(ctx context.Context) (bool, error) {
	if s == nil || s.Pool == nil {
		return false, errors.New("rule store not configured")
	}
	tag, err := s.Pool.Exec(ctx, `DELETE FROM discount_rules`)
	if err != nil {
		return false, fmt.Errorf("delete discount rule: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanRule(row pgx.Row) (Rule, error) {
	var (
		rule     Rule
		id       string
		rawValue string
	)
	if err := row.Scan(&id, &rule.PrerequisiteSKUs, &rule.EligibleSKUs, &rule.DiscountUnit, &rawValue, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
		return Rule{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Rule{}, fmt.Errorf("parse rule id: %w", err)
	}
	rule.ID = parsed
	value, err := decimal.NewFromString(rawValue)
	if err != nil {
		return Rule{}, fmt.Errorf("parse discount value: %w", err)
	}
	rule.DiscountValue = value
	return rule, nil
}
