package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ParseCost parses user-entered text as a monthly cost and enforces the
// 0 < cost <= 100000 bound. It returns a *ValidationError on failure.
func ParseCost(text string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero, &ValidationError{Errors: []FieldError{{
			Field:   "cost",
			Message: fmt.Sprintf("not a number: %q", text),
		}}}
	}
	if !d.GreaterThan(CostMin) || d.GreaterThan(CostMax) {
		return decimal.Zero, &ValidationError{Errors: []FieldError{{
			Field:   "cost",
			Message: fmt.Sprintf("must be greater than %s and at most %s, got %s", CostMin, CostMax, d),
		}}}
	}
	return d, nil
}

// ValidateSubscription checks a Subscription for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the record is valid.
// Placeholder rows are only required to carry an owner and the passive status.
func ValidateSubscription(s *Subscription) error {
	var ve ValidationError

	if strings.TrimSpace(s.OwnerID) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "owner_id", Message: "is required"})
	}

	if !s.Status.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "status",
			Message: fmt.Sprintf("invalid value %q", s.Status),
		})
	}

	if s.IsPlaceholder() {
		if s.Status != StatusPassive {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   "status",
				Message: fmt.Sprintf("placeholder rows must be passive, got %q", s.Status),
			})
		}
		if ve.HasErrors() {
			return &ve
		}
		return nil
	}

	if s.Status == StatusPassive {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "status",
			Message: "passive is reserved for placeholder rows",
		})
	}

	if !s.Priority.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "priority",
			Message: fmt.Sprintf("invalid value %q", s.Priority),
		})
	}

	if !s.Cost.GreaterThan(CostMin) || s.Cost.GreaterThan(CostMax) {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "cost",
			Message: fmt.Sprintf("must be greater than %s and at most %s, got %s", CostMin, CostMax, s.Cost),
		})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
