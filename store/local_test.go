package store

import (
	"context"
	"errors"
	"testing"

	"github.com/gestorfacturas/facturas-api/models"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func mustProject(t *testing.T, s *LocalStore, name string) models.Project {
	t.Helper()
	p, err := s.CreateProject(context.Background(), models.ProjectInput{Name: name})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func mustInvoice(t *testing.T, s *LocalStore, projectID string, base, extra float64) models.Invoice {
	t.Helper()
	inv, err := s.CreateInvoice(context.Background(), models.InvoiceInput{
		AmountBase:  base,
		AmountExtra: extra,
		Description: "test invoice record",
		ProjectID:   projectID,
	})
	if err != nil {
		t.Fatal(err)
	}
	return inv
}

func TestCreateProjectDefaults(t *testing.T) {
	s := newTestStore(t)
	p, err := s.CreateProject(context.Background(), models.ProjectInput{Name: "Office", Description: ""})
	if err != nil {
		t.Fatal(err)
	}
	if p.InvoiceCount != 0 || p.TotalAmount != 0 || !p.Active {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}

func TestCreateInvoiceUpdatesAggregates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := mustProject(t, s, "Office")

	// Pre-load the project with two invoices totalling 300.
	mustInvoice(t, s, p.ID, 100, 0)
	mustInvoice(t, s, p.ID, 200, 0)

	got, _ := s.GetProject(ctx, p.ID)
	if got.InvoiceCount != 2 || got.TotalAmount != 300 {
		t.Fatalf("precondition: count=%d total=%v", got.InvoiceCount, got.TotalAmount)
	}

	mustInvoice(t, s, p.ID, 100, 20)

	got, _ = s.GetProject(ctx, p.ID)
	if got.InvoiceCount != 3 {
		t.Fatalf("InvoiceCount = %d, want 3", got.InvoiceCount)
	}
	if got.TotalAmount != 420 {
		t.Fatalf("TotalAmount = %v, want 420", got.TotalAmount)
	}
}

func TestDeleteInvoiceDecrementsAggregates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := mustProject(t, s, "Office")
	inv := mustInvoice(t, s, p.ID, 100, 20)

	if err := s.DeleteInvoice(ctx, inv.ID); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetProject(ctx, p.ID)
	if got.InvoiceCount != 0 || got.TotalAmount != 0 {
		t.Fatalf("aggregates not decremented: count=%d total=%v", got.InvoiceCount, got.TotalAmount)
	}

	if _, err := s.GetInvoice(ctx, inv.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestReassignInvoiceMovesAggregates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p1 := mustProject(t, s, "Office")
	p2 := mustProject(t, s, "Warehouse")
	inv := mustInvoice(t, s, p1.ID, 100, 0)

	if _, err := s.UpdateInvoice(ctx, inv.ID, models.InvoiceUpdate{ProjectID: &p2.ID}); err != nil {
		t.Fatal(err)
	}

	got1, _ := s.GetProject(ctx, p1.ID)
	got2, _ := s.GetProject(ctx, p2.ID)
	if got1.InvoiceCount != 0 || got1.TotalAmount != 0 {
		t.Fatalf("old project kept aggregates: %+v", got1)
	}
	if got2.InvoiceCount != 1 || got2.TotalAmount != 100 {
		t.Fatalf("new project missing aggregates: %+v", got2)
	}

	moved, _ := s.GetInvoice(ctx, inv.ID)
	if moved.ProjectName != "Warehouse" {
		t.Fatalf("snapshot not refreshed on reassign: %q", moved.ProjectName)
	}
}

func TestAmountChangeAdjustsAggregates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := mustProject(t, s, "Office")
	inv := mustInvoice(t, s, p.ID, 100, 0)

	newAmount := 250.0
	if _, err := s.UpdateInvoice(ctx, inv.ID, models.InvoiceUpdate{AmountBase: &newAmount}); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetProject(ctx, p.ID)
	if got.InvoiceCount != 1 || got.TotalAmount != 250 {
		t.Fatalf("aggregates after amount change: count=%d total=%v", got.InvoiceCount, got.TotalAmount)
	}
}

func TestAggregateSkippedWhenProjectMissing(t *testing.T) {
	s := newTestStore(t)
	// References a project that was never created; the invoice still saves.
	inv := mustInvoice(t, s, "ghost-project", 50, 0)
	if inv.ID == "" {
		t.Fatal("invoice not created")
	}
}

func TestDeleteProjectIsSoft(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := mustProject(t, s, "Office")
	i1 := mustInvoice(t, s, p.ID, 10, 0)
	i2 := mustInvoice(t, s, p.ID, 20, 0)

	if err := s.DeleteProject(ctx, p.ID); err != nil {
		t.Fatal(err)
	}

	// Gone from listings...
	projects, err := s.ListProjects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, got := range projects {
		if got.ID == p.ID {
			t.Fatal("inactive project still listed")
		}
	}

	// ...but its invoices remain retrievable under the original project id.
	invoices, err := s.ListInvoices(ctx, InvoiceFilter{ProjectID: p.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(invoices) != 2 {
		t.Fatalf("got %d invoices, want 2", len(invoices))
	}
	for _, id := range []string{i1.ID, i2.ID} {
		if _, err := s.GetInvoice(ctx, id); err != nil {
			t.Fatalf("invoice %s lost after project delete: %v", id, err)
		}
	}
}

func TestInvoiceRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := mustProject(t, s, "Office")

	created, err := s.CreateInvoice(ctx, models.InvoiceInput{
		InvoiceNumber: "FAC-001",
		Supplier:      "Acme",
		AmountBase:    100,
		AmountExtra:   20,
		Description:   "Printer paper",
		ProjectID:     p.ID,
		Notes:         "delivered upstairs",
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.GetInvoice(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != created {
		t.Fatalf("round trip mismatch:\ncreated %+v\ngot     %+v", created, got)
	}
	if got.ProjectName != "Office" {
		t.Fatalf("snapshot name = %q", got.ProjectName)
	}
}

func TestNotFoundSentinel(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.GetInvoice(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetInvoice: %v", err)
	}
	if _, err := s.GetProject(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetProject: %v", err)
	}
	if err := s.DeleteInvoice(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteInvoice: %v", err)
	}
	if err := s.DeleteProject(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteProject: %v", err)
	}
	if _, err := s.UpdateInvoice(ctx, "missing", models.InvoiceUpdate{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateInvoice: %v", err)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s1, err := NewLocal(dir)
	if err != nil {
		t.Fatal(err)
	}
	p := mustProject(t, s1, "Office")
	inv := mustInvoice(t, s1, p.ID, 100, 0)

	s2, err := NewLocal(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, err := s2.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != inv.Description || got.ProjectID != p.ID {
		t.Fatalf("reopened record mismatch: %+v", got)
	}
}

func TestLegacyStatusNormalizedOnRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	inv := mustInvoice(t, s, "", 10, 0)

	// Rewrite the stored status with a pre-migration value.
	records, err := s.invoices()
	if err != nil {
		t.Fatal(err)
	}
	rec := records[inv.ID]
	rec.Status = "procesada"
	records[rec.ID] = rec
	if err := s.saveInvoices(records); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusPaid {
		t.Fatalf("Status = %q, want %q", got.Status, models.StatusPaid)
	}
}

func TestInvoiceStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	p := mustProject(t, s, "Office")
	mustInvoice(t, s, p.ID, 100, 0)
	inv := mustInvoice(t, s, "", 50, 10)

	paid := models.StatusPaid
	if _, err := s.UpdateInvoice(ctx, inv.ID, models.InvoiceUpdate{Status: &paid}); err != nil {
		t.Fatal(err)
	}

	stats, err := s.InvoiceStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Count != 2 || stats.TotalAmount != 160 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.ByStatus[models.StatusPending] != 1 || stats.ByStatus[models.StatusPaid] != 1 {
		t.Fatalf("by status = %v", stats.ByStatus)
	}
}
