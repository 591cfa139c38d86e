package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseCost(t *testing.T) {
	for _, tc := range []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"Simple", "9.99", "9.99", false},
		{"Whitespace", "  15.00 ", "15", false},
		{"Integer", "100", "100", false},
		{"UpperBound", "100000", "100000", false},
		{"Zero", "0", "", true},
		{"Negative", "-5", "", true},
		{"OverBound", "100000.01", "", true},
		{"NonNumeric", "ten bucks", "", true},
		{"Empty", "", "", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCost(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseCost(%q) = %s, want error", tc.input, got)
				}
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("error is %T, want *ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCost(%q): %v", tc.input, err)
			}
			if got.String() != tc.want {
				t.Errorf("ParseCost(%q) = %s, want %s", tc.input, got, tc.want)
			}
		})
	}
}

func TestValidateSubscription(t *testing.T) {
	valid := func() *Subscription {
		return &Subscription{
			OwnerID:  "42",
			Name:     "Gym",
			Cost:     decimal.RequireFromString("9.99"),
			Priority: PriorityLow,
			Status:   StatusActive,
		}
	}

	if err := ValidateSubscription(valid()); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	for _, tc := range []struct {
		name   string
		mutate func(*Subscription)
		field  string
	}{
		{"MissingOwner", func(s *Subscription) { s.OwnerID = " " }, "owner_id"},
		{"BadStatus", func(s *Subscription) { s.Status = "gone" }, "status"},
		{"PassiveRealRecord", func(s *Subscription) { s.Status = StatusPassive }, "status"},
		{"BadPriority", func(s *Subscription) { s.Priority = "urgent" }, "priority"},
		{"ZeroCost", func(s *Subscription) { s.Cost = decimal.Zero }, "cost"},
		{"OverCost", func(s *Subscription) { s.Cost = decimal.RequireFromString("100000.01") }, "cost"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := valid()
			tc.mutate(s)
			err := ValidateSubscription(s)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error is %T, want *ValidationError", err)
			}
			found := false
			for _, fe := range ve.Errors {
				if fe.Field == tc.field {
					found = true
				}
			}
			if !found {
				t.Errorf("no error on field %q: %v", tc.field, ve)
			}
		})
	}
}

func TestValidatePlaceholder(t *testing.T) {
	if err := ValidateSubscription(Placeholder("42", "ada")); err != nil {
		t.Fatalf("placeholder rejected: %v", err)
	}

	// A placeholder must stay passive.
	p := Placeholder("42", "")
	p.Status = StatusActive
	if err := ValidateSubscription(p); err == nil {
		t.Fatal("active placeholder accepted")
	}
}
