package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Invoice statuses. Older installs stored "processed"/"approved"; both
// normalize to StatusPaid on read.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// NoProjectName labels invoices saved without a project (general expenses).
const (
	NoProjectName  = "Sin proyecto"
	NoProjectColor = "#9E9E9E"
)

type Invoice struct {
	ID            string  `json:"id"`
	InvoiceNumber string  `json:"invoice_number"`
	Supplier      string  `json:"supplier"`
	AmountBase    float64 `json:"amount_base"`
	AmountExtra   float64 `json:"amount_extra"`
	Description   string  `json:"description"`
	ProjectID     string  `json:"project_id"`
	// Snapshot of the project at creation time, kept for display even if
	// the project is later renamed or recolored.
	ProjectName  string    `json:"project_name"`
	ProjectColor string    `json:"project_color"`
	ImageURL     string    `json:"image_url"`
	Notes        string    `json:"notes"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}

// Total is always derived, never stored on its own.
func (i Invoice) Total() float64 {
	return i.AmountBase + i.AmountExtra
}

// InvoiceInput carries the fields a caller may set when creating an invoice.
type InvoiceInput struct {
	InvoiceNumber string  `json:"invoice_number"`
	Supplier      string  `json:"supplier"`
	AmountBase    float64 `json:"amount_base"`
	AmountExtra   float64 `json:"amount_extra"`
	Description   string  `json:"description"`
	ProjectID     string  `json:"project_id"`
	ImageURL      string  `json:"image_url"`
	Notes         string  `json:"notes"`
}

// InvoiceUpdate is a partial update; nil fields are left untouched.
type InvoiceUpdate struct {
	InvoiceNumber *string  `json:"invoice_number,omitempty"`
	Supplier      *string  `json:"supplier,omitempty"`
	AmountBase    *float64 `json:"amount_base,omitempty"`
	AmountExtra   *float64 `json:"amount_extra,omitempty"`
	Description   *string  `json:"description,omitempty"`
	ProjectID     *string  `json:"project_id,omitempty"`
	ImageURL      *string  `json:"image_url,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
	Status        *string  `json:"status,omitempty"`
}

// NewInvoice builds a canonical invoice record from validated input. The
// project snapshot fields are resolved by the caller against the project the
// invoice references; absent a project the record is labelled a general
// expense.
func NewInvoice(in InvoiceInput, projectName, projectColor string) Invoice {
	now := time.Now().UTC()
	inv := Invoice{
		ID:            uuid.New().String(),
		InvoiceNumber: in.InvoiceNumber,
		Supplier:      in.Supplier,
		AmountBase:    in.AmountBase,
		AmountExtra:   in.AmountExtra,
		Description:   in.Description,
		ProjectID:     in.ProjectID,
		ProjectName:   projectName,
		ProjectColor:  projectColor,
		ImageURL:      in.ImageURL,
		Notes:         in.Notes,
		Status:        StatusPending,
		CreatedAt:     now,
		ModifiedAt:    now,
	}
	if inv.ProjectID == "" {
		inv.ProjectName = NoProjectName
		inv.ProjectColor = NoProjectColor
	}
	return inv
}

// NormalizeStatus maps legacy status values onto the canonical enumeration.
// It is lenient: anything unrecognized in stored data reads as pending.
func NormalizeStatus(s string) string {
	switch s {
	case "processed", "approved", "procesada", "aprobada":
		return StatusPaid
	case StatusPaid, StatusCancelled:
		return s
	default:
		return StatusPending
	}
}

// ParseStatus maps caller input onto the canonical enumeration, accepting
// the legacy spellings. Unlike NormalizeStatus it rejects unknown values.
func ParseStatus(s string) (string, error) {
	switch s {
	case StatusPending, "pendiente":
		return StatusPending, nil
	case StatusPaid, "pagada", "processed", "approved", "procesada", "aprobada":
		return StatusPaid, nil
	case StatusCancelled, "cancelada":
		return StatusCancelled, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// ValidStatus reports whether s is one of the canonical statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusPaid || s == StatusCancelled
}
