package models

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ProjectColors is the fixed palette projects are drawn from.
var ProjectColors = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A",
	"#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E2",
	"#F8B195", "#F67280", "#C06C84", "#6C5B7B",
}

type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	// Derived: number of invoices referencing this project and the sum of
	// their totals. Maintained incrementally by the local store, computed
	// at read time by the SQL store.
	InvoiceCount int       `json:"invoice_count"`
	TotalAmount  float64   `json:"total_amount"`
	CreatedAt    time.Time `json:"created_at"`
	Active       bool      `json:"active"`
}

type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// NewProject builds a project record with defaults applied: a random palette
// color when none is given, zeroed aggregates, active.
func NewProject(in ProjectInput) Project {
	color := in.Color
	if color == "" {
		color = ProjectColors[rand.Intn(len(ProjectColors))]
	}
	return Project{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Color:       color,
		CreatedAt:   time.Now().UTC(),
		Active:      true,
	}
}

// ProjectStat is the per-project aggregate row returned by the stats surface.
type ProjectStat struct {
	ProjectID    string  `json:"project_id"`
	Name         string  `json:"name"`
	Color        string  `json:"color"`
	InvoiceCount int     `json:"invoice_count"`
	TotalAmount  float64 `json:"total_amount"`
}

// InvoiceStats summarizes the whole invoice collection.
type InvoiceStats struct {
	Count       int            `json:"count"`
	TotalAmount float64        `json:"total_amount"`
	ByStatus    map[string]int `json:"by_status"`
}
