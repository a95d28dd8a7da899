package store

import (
	"sort"
	"strings"

	"github.com/gestorfacturas/facturas-api/models"
)

// MatchInvoice applies the filter's predicates to one invoice: the project
// predicate and the text predicate compose by AND. An empty search query is
// the identity.
func MatchInvoice(inv models.Invoice, f InvoiceFilter) bool {
	if f.WithoutProject && inv.ProjectID != "" {
		return false
	}
	if f.ProjectID != "" && inv.ProjectID != f.ProjectID {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(inv.Description), q) &&
			!strings.Contains(strings.ToLower(inv.Supplier), q) &&
			!strings.Contains(strings.ToLower(inv.InvoiceNumber), q) {
			return false
		}
	}
	return true
}

// FilterInvoices computes the visible subset: filter, sort newest first,
// then apply offset/limit pagination.
func FilterInvoices(invoices []models.Invoice, f InvoiceFilter) []models.Invoice {
	out := []models.Invoice{}
	for _, inv := range invoices {
		if MatchInvoice(inv, f) {
			out = append(out, inv)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []models.Invoice{}
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out
}
