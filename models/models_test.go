package models

import "testing"

func TestInvoiceTotal(t *testing.T) {
	inv := Invoice{AmountBase: 100, AmountExtra: 20}
	if got := inv.Total(); got != 120 {
		t.Fatalf("Total() = %v, want 120", got)
	}

	inv = Invoice{AmountBase: 99.99, AmountExtra: 0}
	if got := inv.Total(); got != 99.99 {
		t.Fatalf("Total() = %v, want 99.99", got)
	}
}

func TestNewInvoiceDefaults(t *testing.T) {
	inv := NewInvoice(InvoiceInput{
		AmountBase:  100,
		Description: "Printer paper",
		ProjectID:   "p1",
	}, "Office", "#FF6B6B")

	if inv.ID == "" {
		t.Fatal("expected generated id")
	}
	if inv.Status != StatusPending {
		t.Fatalf("Status = %q, want %q", inv.Status, StatusPending)
	}
	if inv.ProjectName != "Office" || inv.ProjectColor != "#FF6B6B" {
		t.Fatalf("project snapshot not copied: %q/%q", inv.ProjectName, inv.ProjectColor)
	}
	if !inv.ModifiedAt.Equal(inv.CreatedAt) {
		t.Fatal("ModifiedAt should equal CreatedAt on creation")
	}
}

func TestNewInvoiceWithoutProject(t *testing.T) {
	inv := NewInvoice(InvoiceInput{AmountBase: 10, Description: "Taxi ride"}, "", "")
	if inv.ProjectName != NoProjectName {
		t.Fatalf("ProjectName = %q, want %q", inv.ProjectName, NoProjectName)
	}
	if inv.ProjectColor != NoProjectColor {
		t.Fatalf("ProjectColor = %q, want %q", inv.ProjectColor, NoProjectColor)
	}
}

func TestNewInvoiceIDsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		inv := NewInvoice(InvoiceInput{AmountBase: 1, Description: "dupes"}, "", "")
		if seen[inv.ID] {
			t.Fatalf("duplicate id %s", inv.ID)
		}
		seen[inv.ID] = true
	}
}

func TestNewProjectDefaults(t *testing.T) {
	p := NewProject(ProjectInput{Name: "Office", Description: ""})

	if p.InvoiceCount != 0 || p.TotalAmount != 0 {
		t.Fatalf("aggregates should start at zero, got %d/%v", p.InvoiceCount, p.TotalAmount)
	}
	if !p.Active {
		t.Fatal("new projects must be active")
	}
	if p.CreatedAt.IsZero() {
		t.Fatal("expected creation timestamp")
	}

	// Unspecified color comes from the fixed palette.
	found := false
	for _, c := range ProjectColors {
		if p.Color == c {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("color %q not in palette", p.Color)
	}
}

func TestNewProjectKeepsGivenColor(t *testing.T) {
	p := NewProject(ProjectInput{Name: "Office", Color: "#123456"})
	if p.Color != "#123456" {
		t.Fatalf("Color = %q, want explicit value kept", p.Color)
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := map[string]string{
		"pending":   StatusPending,
		"paid":      StatusPaid,
		"cancelled": StatusCancelled,
		"processed": StatusPaid,
		"approved":  StatusPaid,
		"procesada": StatusPaid,
		"aprobada":  StatusPaid,
		"":          StatusPending,
		"garbage":   StatusPending,
	}
	for in, want := range tests {
		if got := NormalizeStatus(in); got != want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", in, got, want)
		}
	}
}
