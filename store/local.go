package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gestorfacturas/facturas-api/logger"
	"github.com/gestorfacturas/facturas-api/models"
)

const (
	invoicesFile = "facturas.json"
	projectsFile = "proyectos.json"
)

// LocalStore keeps each collection as one JSON document on disk, a mapping
// of id to record, loaded and rewritten in full on every mutation. It is the
// offline backend: no server, no database, everything under one directory.
type LocalStore struct {
	dir string
	mu  sync.Mutex
	log zerolog.Logger
}

// NewLocal opens (and creates if needed) a local store rooted at dir.
func NewLocal(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &LocalStore{dir: dir, log: logger.WithComponent("localstore")}, nil
}

func loadCollection[T any](path string) (map[string]T, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]T{}, nil
	}
	if err != nil {
		return nil, err
	}
	records := map[string]T{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
		}
	}
	return records, nil
}

func saveCollection[T any](path string, records map[string]T) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *LocalStore) invoices() (map[string]models.Invoice, error) {
	records, err := loadCollection[models.Invoice](filepath.Join(s.dir, invoicesFile))
	if err != nil {
		return nil, err
	}
	for id, inv := range records {
		inv.Status = models.NormalizeStatus(inv.Status)
		records[id] = inv
	}
	return records, nil
}

func (s *LocalStore) projects() (map[string]models.Project, error) {
	return loadCollection[models.Project](filepath.Join(s.dir, projectsFile))
}

func (s *LocalStore) saveInvoices(records map[string]models.Invoice) error {
	return saveCollection(filepath.Join(s.dir, invoicesFile), records)
}

func (s *LocalStore) saveProjects(records map[string]models.Project) error {
	return saveCollection(filepath.Join(s.dir, projectsFile), records)
}

func (s *LocalStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.projects()
	if err != nil {
		return nil, err
	}
	out := []models.Project{}
	for _, p := range records {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *LocalStore) GetProject(ctx context.Context, id string) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.projects()
	if err != nil {
		return models.Project{}, err
	}
	p, ok := records[id]
	if !ok {
		return models.Project{}, ErrNotFound
	}
	return p, nil
}

func (s *LocalStore) CreateProject(ctx context.Context, in models.ProjectInput) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.projects()
	if err != nil {
		return models.Project{}, err
	}
	p := models.NewProject(in)
	records[p.ID] = p
	if err := s.saveProjects(records); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

func (s *LocalStore) UpdateProject(ctx context.Context, id string, in models.ProjectInput) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.projects()
	if err != nil {
		return models.Project{}, err
	}
	p, ok := records[id]
	if !ok {
		return models.Project{}, ErrNotFound
	}
	p.Name = in.Name
	p.Description = in.Description
	if in.Color != "" {
		p.Color = in.Color
	}
	records[id] = p
	if err := s.saveProjects(records); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// DeleteProject marks the project inactive. Invoices keep their project_id
// and snapshot fields untouched.
func (s *LocalStore) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.projects()
	if err != nil {
		return err
	}
	p, ok := records[id]
	if !ok {
		return ErrNotFound
	}
	p.Active = false
	records[id] = p
	return s.saveProjects(records)
}

func (s *LocalStore) ProjectStats(ctx context.Context) ([]models.ProjectStat, error) {
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

func (s *LocalStore) ListInvoices(ctx context.Context, f InvoiceFilter) ([]models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.invoices()
	if err != nil {
		return nil, err
	}
	all := make([]models.Invoice, 0, len(records))
	for _, inv := range records {
		all = append(all, inv)
	}
	return FilterInvoices(all, f), nil
}

func (s *LocalStore) GetInvoice(ctx context.Context, id string) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.invoices()
	if err != nil {
		return models.Invoice{}, err
	}
	inv, ok := records[id]
	if !ok {
		return models.Invoice{}, ErrNotFound
	}
	return inv, nil
}

func (s *LocalStore) CreateInvoice(ctx context.Context, in models.InvoiceInput) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.projects()
	if err != nil {
		return models.Invoice{}, err
	}

	projectName, projectColor := models.NoProjectName, models.NoProjectColor
	if in.ProjectID != "" {
		if p, ok := projects[in.ProjectID]; ok {
			projectName, projectColor = p.Name, p.Color
		}
	}

	inv := models.NewInvoice(in, projectName, projectColor)

	records, err := s.invoices()
	if err != nil {
		return models.Invoice{}, err
	}
	records[inv.ID] = inv
	if err := s.saveInvoices(records); err != nil {
		return models.Invoice{}, err
	}

	s.applyAggregate(projects, inv.ProjectID, 1, inv.Total())
	if err := s.saveProjects(projects); err != nil {
		return models.Invoice{}, err
	}
	return inv, nil
}

func (s *LocalStore) UpdateInvoice(ctx context.Context, id string, patch models.InvoiceUpdate) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.invoices()
	if err != nil {
		return models.Invoice{}, err
	}
	inv, ok := records[id]
	if !ok {
		return models.Invoice{}, ErrNotFound
	}

	oldProject, oldTotal := inv.ProjectID, inv.Total()

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
	if patch.ImageURL != nil {
		inv.ImageURL = *patch.ImageURL
	}
	if patch.Notes != nil {
		inv.Notes = *patch.Notes
	}
	if patch.Status != nil {
		status := models.NormalizeStatus(*patch.Status)
		inv.Status = status
	}

	projects, err := s.projects()
	if err != nil {
		return models.Invoice{}, err
	}

	if patch.ProjectID != nil && *patch.ProjectID != inv.ProjectID {
		inv.ProjectID = *patch.ProjectID
		inv.ProjectName, inv.ProjectColor = models.NoProjectName, models.NoProjectColor
		if p, ok := projects[inv.ProjectID]; ok {
			inv.ProjectName, inv.ProjectColor = p.Name, p.Color
		}
	}

	inv.ModifiedAt = time.Now().UTC()
	records[id] = inv
	if err := s.saveInvoices(records); err != nil {
		return models.Invoice{}, err
	}

	// Move the aggregate deltas between the old and new project so the
	// counters stay symmetric across amount changes and reassignment.
	if oldProject != inv.ProjectID || oldTotal != inv.Total() {
		s.applyAggregate(projects, oldProject, -1, -oldTotal)
		s.applyAggregate(projects, inv.ProjectID, 1, inv.Total())
		if err := s.saveProjects(projects); err != nil {
			return models.Invoice{}, err
		}
	}
	return inv, nil
}

func (s *LocalStore) DeleteInvoice(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.invoices()
	if err != nil {
		return err
	}
	inv, ok := records[id]
	if !ok {
		return ErrNotFound
	}
	delete(records, id)
	if err := s.saveInvoices(records); err != nil {
		return err
	}

	projects, err := s.projects()
	if err != nil {
		return err
	}
	s.applyAggregate(projects, inv.ProjectID, -1, -inv.Total())
	return s.saveProjects(projects)
}

// applyAggregate adjusts a project's derived counters in place. A missing
// project is skipped: the invoice stays valid as a general record even when
// its project was never saved or was purged by hand.
func (s *LocalStore) applyAggregate(projects map[string]models.Project, projectID string, countDelta int, amountDelta float64) {
	if projectID == "" {
		return
	}
	p, ok := projects[projectID]
	if !ok {
		s.log.Warn().Str("project_id", projectID).Msg("aggregate update skipped, project missing")
		return
	}
	p.InvoiceCount += countDelta
	p.TotalAmount += amountDelta
	if p.InvoiceCount < 0 {
		p.InvoiceCount = 0
	}
	if p.TotalAmount < 0 {
		p.TotalAmount = 0
	}
	projects[projectID] = p
}

func (s *LocalStore) InvoiceStats(ctx context.Context) (models.InvoiceStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.invoices()
	if err != nil {
		return models.InvoiceStats{}, err
	}
	stats := models.InvoiceStats{ByStatus: map[string]int{}}
	for _, inv := range records {
		stats.Count++
		stats.TotalAmount += inv.Total()
		stats.ByStatus[inv.Status]++
	}
	return stats, nil
}
