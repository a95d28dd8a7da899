// Package store defines the persistence contract shared by the local
// JSON-backed store, the Postgres store and the HTTP API client, so callers
// can switch backends without changing flows.
package store

import (
	"context"
	"errors"

	"github.com/gestorfacturas/facturas-api/models"
)

// ErrNotFound is returned for reads of records that do not exist. Every
// backend maps its own absence signal onto this sentinel.
var ErrNotFound = errors.New("record not found")

// InvoiceFilter narrows invoice listings. Zero value means "everything".
type InvoiceFilter struct {
	ProjectID      string
	WithoutProject bool
	Search         string
	Limit          int
	Offset         int
}

// Store is the persistence capability contract: project CRUD with soft
// delete, invoice CRUD with hard delete, and the aggregate stats surface.
type Store interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id string) (models.Project, error)
	CreateProject(ctx context.Context, in models.ProjectInput) (models.Project, error)
	UpdateProject(ctx context.Context, id string, in models.ProjectInput) (models.Project, error)
	// DeleteProject marks the project inactive. Associated invoices are
	// neither deleted nor rewritten.
	DeleteProject(ctx context.Context, id string) error
	ProjectStats(ctx context.Context) ([]models.ProjectStat, error)

	ListInvoices(ctx context.Context, f InvoiceFilter) ([]models.Invoice, error)
	GetInvoice(ctx context.Context, id string) (models.Invoice, error)
	CreateInvoice(ctx context.Context, in models.InvoiceInput) (models.Invoice, error)
	UpdateInvoice(ctx context.Context, id string, patch models.InvoiceUpdate) (models.Invoice, error)
	DeleteInvoice(ctx context.Context, id string) error
	InvoiceStats(ctx context.Context) (models.InvoiceStats, error)
}
