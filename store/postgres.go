package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gestorfacturas/facturas-api/models"
)

// PostgresStore is the server-side backend. It stores no derived counters:
// project aggregates and the invoice project snapshot are joined at read
// time, so they can never drift.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const projectColumns = `
	p.id, p.name, p.description, p.color, p.created_at, p.active,
	COUNT(f.id) AS invoice_count,
	COALESCE(SUM(f.amount_base + f.amount_extra), 0) AS total_amount`

const projectJoin = `
	FROM proyectos p
	LEFT JOIN facturas f ON f.project_id = p.id`

func scanProject(row interface{ Scan(...any) error }) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Color, &p.CreatedAt,
		&p.Active, &p.InvoiceCount, &p.TotalAmount)
	return p, err
}

func (s *PostgresStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT`+projectColumns+projectJoin+`
		WHERE p.active
		GROUP BY p.id
		ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *PostgresStore) GetProject(ctx context.Context, id string) (models.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT`+projectColumns+projectJoin+`
		WHERE p.id = $1
		GROUP BY p.id`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return models.Project{}, ErrNotFound
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) CreateProject(ctx context.Context, in models.ProjectInput) (models.Project, error) {
	p := models.NewProject(in)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO proyectos (id, name, description, color, created_at, active)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Name, p.Description, p.Color, p.CreatedAt, p.Active)
	if err != nil {
		return models.Project{}, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) UpdateProject(ctx context.Context, id string, in models.ProjectInput) (models.Project, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE proyectos
		SET name = $1,
		    description = $2,
		    color = CASE WHEN $3 = '' THEN color ELSE $3 END
		WHERE id = $4`,
		in.Name, in.Description, in.Color, id)
	if err != nil {
		return models.Project{}, fmt.Errorf("update project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Project{}, ErrNotFound
	}
	return s.GetProject(ctx, id)
}

func (s *PostgresStore) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE proyectos SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ProjectStats(ctx context.Context) ([]models.ProjectStat, error) {
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	stats := make([]models.ProjectStat, 0, len(projects))
	for _, p := range projects {
		stats = append(stats, models.ProjectStat{
			ProjectID:    p.ID,
			Name:         p.Name,
			Color:        p.Color,
			InvoiceCount: p.InvoiceCount,
			TotalAmount:  p.TotalAmount,
		})
	}
	return stats, nil
}

// Invoice rows join the live project for the display fields instead of
// storing a snapshot.
const invoiceSelect = `
	SELECT f.id, f.invoice_number, f.supplier, f.amount_base, f.amount_extra,
	       f.description, f.project_id,
	       COALESCE(p.name, $1) AS project_name,
	       COALESCE(p.color, $2) AS project_color,
	       f.image_url, f.notes, f.status, f.created_at, f.modified_at
	FROM facturas f
	LEFT JOIN proyectos p ON p.id = f.project_id`

func scanInvoice(row interface{ Scan(...any) error }) (models.Invoice, error) {
	var inv models.Invoice
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.Supplier, &inv.AmountBase,
		&inv.AmountExtra, &inv.Description, &inv.ProjectID, &inv.ProjectName,
		&inv.ProjectColor, &inv.ImageURL, &inv.Notes, &inv.Status,
		&inv.CreatedAt, &inv.ModifiedAt)
	if err != nil {
		return inv, err
	}
	inv.Status = models.NormalizeStatus(inv.Status)
	return inv, nil
}

func (s *PostgresStore) ListInvoices(ctx context.Context, f InvoiceFilter) ([]models.Invoice, error) {
	query := invoiceSelect
	args := []any{models.NoProjectName, models.NoProjectColor}

	where := ""
	and := func(cond string) {
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}

	// Predicates compose by AND, same as the in-memory filter engine.
	if f.WithoutProject {
		and(`f.project_id = ''`)
	}
	if f.ProjectID != "" {
		args = append(args, f.ProjectID)
		and(fmt.Sprintf("f.project_id = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		and(fmt.Sprintf("(f.description ILIKE $%d OR f.supplier ILIKE $%d OR f.invoice_number ILIKE $%d)", n, n, n))
	}

	query += where + " ORDER BY f.created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (s *PostgresStore) GetInvoice(ctx context.Context, id string) (models.Invoice, error) {
	row := s.db.QueryRowContext(ctx, invoiceSelect+" WHERE f.id = $3",
		models.NoProjectName, models.NoProjectColor, id)
	inv, err := scanInvoice(row)
	if err == sql.ErrNoRows {
		return models.Invoice{}, ErrNotFound
	}
	if err != nil {
		return models.Invoice{}, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (s *PostgresStore) CreateInvoice(ctx context.Context, in models.InvoiceInput) (models.Invoice, error) {
	inv := models.NewInvoice(in, "", "")
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO facturas (id, invoice_number, supplier, amount_base, amount_extra,
		                      description, project_id, image_url, notes, status,
		                      created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		inv.ID, inv.InvoiceNumber, inv.Supplier, inv.AmountBase, inv.AmountExtra,
		inv.Description, inv.ProjectID, inv.ImageURL, inv.Notes, inv.Status,
		inv.CreatedAt, inv.ModifiedAt)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("create invoice: %w", err)
	}
	// Re-read so the project fields come from the live join.
	return s.GetInvoice(ctx, inv.ID)
}

func (s *PostgresStore) UpdateInvoice(ctx context.Context, id string, patch models.InvoiceUpdate) (models.Invoice, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Invoice{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT id, invoice_number, supplier, amount_base, amount_extra,
		       description, project_id, image_url, notes, status, created_at, modified_at
		FROM facturas WHERE id = $1 FOR UPDATE`, id)

	var inv models.Invoice
	err = row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.Supplier, &inv.AmountBase,
		&inv.AmountExtra, &inv.Description, &inv.ProjectID, &inv.ImageURL,
		&inv.Notes, &inv.Status, &inv.CreatedAt, &inv.ModifiedAt)
	if err == sql.ErrNoRows {
		return models.Invoice{}, ErrNotFound
	}
	if err != nil {
		return models.Invoice{}, fmt.Errorf("update invoice: %w", err)
	}

	if patch.InvoiceNumber != nil {
		inv.InvoiceNumber = *patch.InvoiceNumber
	}
	if patch.Supplier != nil {
		inv.Supplier = *patch.Supplier
	}
	if patch.AmountBase != nil {
		inv.AmountBase = *patch.AmountBase
	}
	if patch.AmountExtra != nil {
		inv.AmountExtra = *patch.AmountExtra
	}
	if patch.Description != nil {
		inv.Description = *patch.Description
	}
	if patch.ProjectID != nil {
		inv.ProjectID = *patch.ProjectID
	}
	if patch.ImageURL != nil {
		inv.ImageURL = *patch.ImageURL
	}
	if patch.Notes != nil {
		inv.Notes = *patch.Notes
	}
	if patch.Status != nil {
		inv.Status = models.NormalizeStatus(*patch.Status)
	}
	inv.ModifiedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		UPDATE facturas
		SET invoice_number = $1, supplier = $2, amount_base = $3, amount_extra = $4,
		    description = $5, project_id = $6, image_url = $7, notes = $8,
		    status = $9, modified_at = $10
		WHERE id = $11`,
		inv.InvoiceNumber, inv.Supplier, inv.AmountBase, inv.AmountExtra,
		inv.Description, inv.ProjectID, inv.ImageURL, inv.Notes, inv.Status,
		inv.ModifiedAt, id)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("update invoice: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Invoice{}, err
	}
	return s.GetInvoice(ctx, id)
}

func (s *PostgresStore) DeleteInvoice(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM facturas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) InvoiceStats(ctx context.Context) (models.InvoiceStats, error) {
	stats := models.InvoiceStats{ByStatus: map[string]int{}}

	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(amount_base + amount_extra), 0)
		FROM facturas
		GROUP BY status`)
	if err != nil {
		return stats, fmt.Errorf("invoice stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		var total float64
		if err := rows.Scan(&status, &count, &total); err != nil {
			return stats, err
		}
		status = models.NormalizeStatus(status)
		stats.ByStatus[status] += count
		stats.Count += count
		stats.TotalAmount += total
	}
	return stats, rows.Err()
}
