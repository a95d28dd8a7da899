package models

import (
	"strings"
	"testing"
)

func TestValidateInvoiceAmounts(t *testing.T) {
	tests := []struct {
		name      string
		in        InvoiceInput
		wantField string
	}{
		{"zero base amount", InvoiceInput{AmountBase: 0, Description: "Printer paper"}, "amount_base"},
		{"negative base amount", InvoiceInput{AmountBase: -10, Description: "Printer paper"}, "amount_base"},
		{"negative extra", InvoiceInput{AmountBase: 10, AmountExtra: -1, Description: "Printer paper"}, "amount_extra"},
		{"valid amounts", InvoiceInput{AmountBase: 0.01, Description: "Printer paper"}, ""},
		{"zero extra is fine", InvoiceInput{AmountBase: 10, AmountExtra: 0, Description: "Printer paper"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateInvoice(tt.in)
			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %v", errs)
				}
				return
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Fatalf("expected error on %q, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestValidateInvoiceDescription(t *testing.T) {
	base := func(desc string) InvoiceInput {
		return InvoiceInput{AmountBase: 100, Description: desc}
	}

	tests := []struct {
		name    string
		desc    string
		wantErr bool
	}{
		{"empty", "", true},
		{"too short", "abcd", true},
		{"whitespace only", "        ", true},
		{"padded short", "  ab  ", true},
		{"minimum length", "abcde", false},
		{"normal", "Printer paper", false},
		{"maximum length", strings.Repeat("x", 500), false},
		{"over maximum", strings.Repeat("x", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := ValidateInvoice(base(tt.desc))["description"]
			if got != tt.wantErr {
				t.Fatalf("description %q: error=%v, want %v", tt.desc, got, tt.wantErr)
			}
		})
	}
}

func TestValidateInvoiceProjectOptional(t *testing.T) {
	errs := ValidateInvoice(InvoiceInput{AmountBase: 50, Description: "General expense"})
	if len(errs) != 0 {
		t.Fatalf("invoice without project should validate, got %v", errs)
	}
}

func TestValidateInvoiceUpdate(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	s := func(v string) *string { return &v }

	tests := []struct {
		name      string
		patch     InvoiceUpdate
		wantField string
	}{
		{"empty patch", InvoiceUpdate{}, ""},
		{"negative base", InvoiceUpdate{AmountBase: f(-50)}, "amount_base"},
		{"zero base", InvoiceUpdate{AmountBase: f(0)}, "amount_base"},
		{"negative extra", InvoiceUpdate{AmountExtra: f(-1)}, "amount_extra"},
		{"short description", InvoiceUpdate{Description: s("x")}, "description"},
		{"over-long description", InvoiceUpdate{Description: s(strings.Repeat("x", 501))}, "description"},
		{"valid patch", InvoiceUpdate{AmountBase: f(75), Description: s("Updated paper order")}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateInvoiceUpdate(tt.patch)
			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %v", errs)
				}
				return
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Fatalf("expected error on %q, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestLengthLimitsCountRunes(t *testing.T) {
	// 500 accented characters are 1000 bytes but exactly at the limit.
	desc := strings.Repeat("á", 500)
	if errs := ValidateInvoice(InvoiceInput{AmountBase: 10, Description: desc}); len(errs) != 0 {
		t.Fatalf("accented description at the limit rejected: %v", errs)
	}
	name := strings.Repeat("ñ", 50)
	if errs := ValidateProject(ProjectInput{Name: name}); len(errs) != 0 {
		t.Fatalf("accented name at the limit rejected: %v", errs)
	}
}

func TestValidateProject(t *testing.T) {
	tests := []struct {
		name      string
		in        ProjectInput
		wantField string
	}{
		{"valid", ProjectInput{Name: "Office"}, ""},
		{"minimum name", ProjectInput{Name: "abc"}, ""},
		{"empty name", ProjectInput{Name: ""}, "name"},
		{"short name", ProjectInput{Name: "ab"}, "name"},
		{"whitespace name", ProjectInput{Name: "  a  "}, "name"},
		{"long name", ProjectInput{Name: strings.Repeat("x", 51)}, "name"},
		{"long description", ProjectInput{Name: "Office", Description: strings.Repeat("x", 201)}, "description"},
		{"max description", ProjectInput{Name: "Office", Description: strings.Repeat("x", 200)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateProject(tt.in)
			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %v", errs)
				}
				return
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Fatalf("expected error on %q, got %v", tt.wantField, errs)
			}
		})
	}
}
