package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gestorfacturas/facturas-api/models"
	"github.com/gestorfacturas/facturas-api/store"
)

// Exporter renders collections to XLSX files under the public directory and
// hands back their URL. Files are generated on demand; nothing is cached.
type Exporter struct {
	Store     store.Store
	Dir       string
	PublicURL string
}

func NewExporter(st store.Store, dir, publicURL string) *Exporter {
	return &Exporter{Store: st, Dir: dir, PublicURL: publicURL}
}

func (e *Exporter) writeSheet(name string, headers []string, rows [][]any) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	for r, row := range rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format("20060102-150405"))
	if err := f.SaveAs(filepath.Join(e.Dir, filename)); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return e.PublicURL + "/uploads/" + filename, nil
}

func (e *Exporter) ExportInvoices(ctx context.Context, filter store.InvoiceFilter) (string, error) {
	invoices, err := e.Store.ListInvoices(ctx, filter)
	if err != nil {
		return "", err
	}

	headers := []string{"ID", "Number", "Supplier", "Description", "Project",
		"Amount", "Extra", "Total", "Status", "Created"}
	rows := make([][]any, 0, len(invoices))
	for _, inv := range invoices {
		project := inv.ProjectName
		if project == "" {
			project = models.NoProjectName
		}
		rows = append(rows, []any{
			inv.ID, inv.InvoiceNumber, inv.Supplier, inv.Description, project,
			inv.AmountBase, inv.AmountExtra, inv.Total(), inv.Status,
			inv.CreatedAt.Format(time.RFC3339),
		})
	}
	return e.writeSheet("facturas", headers, rows)
}

func (e *Exporter) ExportProjects(ctx context.Context) (string, error) {
	projects, err := e.Store.ListProjects(ctx)
	if err != nil {
		return "", err
	}

	headers := []string{"ID", "Name", "Description", "Color", "Invoices",
		"Total", "Created"}
	rows := make([][]any, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []any{
			p.ID, p.Name, p.Description, p.Color, p.InvoiceCount,
			p.TotalAmount, p.CreatedAt.Format(time.RFC3339),
		})
	}
	return e.writeSheet("proyectos", headers, rows)
}
