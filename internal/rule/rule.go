package rule

import (
	"reflect"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zakiarsyad/backend-keranjang/internal/pricing"
)

// UnitPercent is the only supported discount unit.
const UnitPercent = "percent"

// Rule is the persisted store-wide discount rule. At most one exists.
type Rule struct {
	ID               uuid.UUID       `json:"id"`
	PrerequisiteSKUs []string        `json:"prerequisiteSkus"`
	EligibleSKUs     []string        `json:"eligibleSkus"`
	DiscountUnit     string          `json:"discountUnit"`
	DiscountValue    decimal.Decimal `json:"discountValue"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// Snapshot converts the rule into the immutable form the pricing engine reads.
// The percentage is carried as basis points so the engine stays integer-only.
func (r *Rule) Snapshot() *pricing.Rule {
	if r == nil {
		return nil
	}
	bps := int32(r.DiscountValue.Mul(decimal.NewFromInt(100)).Round(0).IntPart())
	return &pricing.Rule{
		PrerequisiteSKUs: r.PrerequisiteSKUs,
		EligibleSKUs:     r.EligibleSKUs,
		PercentBps:       bps,
	}
}

// CreateParams carries a validated rule ready for insertion.
type CreateParams struct {
	PrerequisiteSKUs []string
	EligibleSKUs     []string
	DiscountUnit     string
	DiscountValue    decimal.Decimal
}

// Payload is the admin create request body.
type Payload struct {
	PrerequisiteSKUs []string `json:"prerequisiteSkus" validate:"required,min=1,dive,required"`
	EligibleSKUs     []string `json:"eligibleSkus" validate:"required,min=1,dive,required"`
	DiscountUnit     string   `json:"discountUnit" validate:"required,oneof=percent"`
	DiscountValue    *string  `json:"discountValue" validate:"required"`
}

// NewValidator builds a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidatePayload checks the payload and converts it into create parameters.
// Field errors use the same path -> messages shape as cart validation.
func ValidatePayload(v *validator.Validate, p Payload) (CreateParams, map[string][]string) {
	errs := map[string][]string{}
	if err := v.Struct(p); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				field := strings.TrimPrefix(fe.Namespace(), "Payload.")
				errs[field] = append(errs[field], payloadMessage(fe))
			}
		} else {
			errs["payload"] = append(errs["payload"], "is invalid")
		}
	}

	params := CreateParams{
		PrerequisiteSKUs: trimAll(p.PrerequisiteSKUs),
		EligibleSKUs:     trimAll(p.EligibleSKUs),
		DiscountUnit:     strings.TrimSpace(p.DiscountUnit),
	}
	if p.DiscountValue != nil {
		value, err := decimal.NewFromString(strings.TrimSpace(*p.DiscountValue))
		switch {
		case err != nil:
			errs["discountValue"] = append(errs["discountValue"], "must be a number")
		case value.IsNegative():
			errs["discountValue"] = append(errs["discountValue"], "must be greater than or equal to 0")
		case value.GreaterThan(decimal.NewFromInt(100)):
			errs["discountValue"] = append(errs["discountValue"], "must be less than or equal to 100")
		default:
			params.DiscountValue = value
		}
	}

	if len(errs) > 0 {
		return CreateParams{}, errs
	}
	return params, nil
}

func payloadMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must be filled"
	case "min":
		return "must contain at least one SKU"
	case "oneof":
		return "must be percent"
	default:
		return "is invalid"
	}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
