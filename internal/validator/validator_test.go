package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Type     string  `validate:"omitempty,transaction_type"`
	Status   string  `validate:"omitempty,transaction_status"`
	Currency string  `validate:"omitempty,currency_code"`
	Amount   string  `validate:"omitempty,decimal_string=2"`
	Rate     string  `validate:"omitempty,decimal_string=4"`
	Role     string  `validate:"omitempty,user_role"`
	Ref      *string `validate:"omitnil,optional_uuid"`
}

func strPtr(s string) *string { return &s }

func TestCustomTags(t *testing.T) {
	v := validator.New()
	RegisterOn(v)

	tests := []struct {
		name  string
		in    sample
		valid bool
	}{
		{"empty", sample{}, true},
		{"all valid", sample{Type: "transfer", Status: "approved", Currency: "USD", Amount: "100.50", Rate: "83.1234", Role: "admin"}, true},
		{"bad type", sample{Type: "refund"}, false},
		{"bad status", sample{Status: "archived"}, false},
		{"unsupported currency", sample{Currency: "EUR"}, false},
		{"lowercase currency", sample{Currency: "usd"}, false},
		{"amount with three places", sample{Amount: "1.005"}, false},
		{"amount not a number", sample{Amount: "12abc"}, false},
		{"rate with five places", sample{Rate: "83.12345"}, false},
		{"bad role", sample{Role: "owner"}, false},
		{"cleared reference", sample{Ref: strPtr("")}, true},
		{"uuid reference", sample{Ref: strPtr("0190a0b4-7c1e-7d4a-9b2f-3c4d5e6f7a8b")}, true},
		{"malformed reference", sample{Ref: strPtr("acct-1")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestFieldNameFromTags(t *testing.T) {
	v := validator.New()
	RegisterOn(v)

	type body struct {
		Amount string `json:"amount,omitempty" validate:"required"`
		Page   int    `form:"page" validate:"min=1"`
		Plain  string `validate:"required"`
	}
	err := v.Struct(body{})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var got []string
	for _, fe := range err.(validator.ValidationErrors) {
		got = append(got, fe.Field())
	}
	want := []string{"amount", "page", "Plain"}
	if len(got) != len(want) {
		t.Fatalf("fields = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field %d = %q, want %q", i, got[i], want[i])
		}
	}
}
