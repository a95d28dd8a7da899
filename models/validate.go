package models

import (
	"strings"
	"unicode/utf8"
)

// Validation limits shared by every backend.
const (
	DescriptionMin        = 5
	DescriptionMax        = 500
	ProjectNameMin        = 3
	ProjectNameMax        = 50
	ProjectDescriptionMax = 200
)

// ErrorMap maps a field name to a human-readable violation. An empty map
// means the record is acceptable.
type ErrorMap map[string]string

// Lengths count runes, not bytes, so accented text measures the way a user
// counts it.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// ValidateInvoice checks invoice input before it is accepted. The project
// reference and image are optional: invoices without a project are general
// expenses, and an invoice may be saved without a photo when the upload
// failed.
func ValidateInvoice(in InvoiceInput) ErrorMap {
	errs := ErrorMap{}

	if in.AmountBase <= 0 {
		errs["amount_base"] = "amount must be greater than 0"
	}
	if in.AmountExtra < 0 {
		errs["amount_extra"] = "extra amount cannot be negative"
	}
	validateDescription(errs, in.Description)

	return errs
}

// ValidateInvoiceUpdate checks the fields a partial update actually carries.
// Nil fields stay untouched in the store, so only present fields are held to
// the same rules as ValidateInvoice.
func ValidateInvoiceUpdate(patch InvoiceUpdate) ErrorMap {
	errs := ErrorMap{}

	if patch.AmountBase != nil && *patch.AmountBase <= 0 {
		errs["amount_base"] = "amount must be greater than 0"
	}
	if patch.AmountExtra != nil && *patch.AmountExtra < 0 {
		errs["amount_extra"] = "extra amount cannot be negative"
	}
	if patch.Description != nil {
		validateDescription(errs, *patch.Description)
	}

	return errs
}

func validateDescription(errs ErrorMap, desc string) {
	if runeLen(strings.TrimSpace(desc)) < DescriptionMin {
		errs["description"] = "description must be at least 5 characters"
	} else if runeLen(desc) > DescriptionMax {
		errs["description"] = "description cannot exceed 500 characters"
	}
}

// ValidateProject checks project input. Description is only checked when
// present.
func ValidateProject(in ProjectInput) ErrorMap {
	errs := ErrorMap{}

	name := strings.TrimSpace(in.Name)
	if runeLen(name) < ProjectNameMin {
		errs["name"] = "name must be at least 3 characters"
	} else if runeLen(in.Name) > ProjectNameMax {
		errs["name"] = "name cannot exceed 50 characters"
	}

	if runeLen(in.Description) > ProjectDescriptionMax {
		errs["description"] = "description cannot exceed 200 characters"
	}

	return errs
}
