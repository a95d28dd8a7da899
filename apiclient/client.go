// Package apiclient is the remote realization of the store contract: every
// operation is one HTTP request/response pair with a JSON body against the
// facturas API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gestorfacturas/facturas-api/models"
	"github.com/gestorfacturas/facturas-api/store"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultProbeTimeout = 5 * time.Second
)

// Config is fixed at construction time. There is deliberately no way to
// repoint a live client at another server.
type Config struct {
	BaseURL      string // e.g. http://localhost:8080/api/v1
	Timeout      time.Duration
	ProbeTimeout time.Duration
	Token        string // optional bearer token
}

type Client struct {
	cfg  Config
	http *http.Client
}

var _ store.Store = (*Client)(nil)

func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ProbeTimeout == 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	return &Client{cfg: cfg, http: &http.Client{}}
}

// unwrapEnvelope accepts both response shapes the backend may produce: a
// wrapper {"data": ...} or the bare payload.
func unwrapEnvelope(raw []byte) []byte {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 {
		return env.Data
	}
	return raw
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.doTimeout(ctx, method, path, query, body, out, c.cfg.Timeout)
}

func (c *Client) doTimeout(ctx context.Context, method, path string, query url.Values, body, out any, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u := c.cfg.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
		}
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusNotFound {
		return store.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(unwrapEnvelope(raw), out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		return body.Error
	}
	return ""
}

// Ping is the lightweight connectivity probe, bounded by the short timeout.
func (c *Client) Ping(ctx context.Context) error {
	return c.doTimeout(ctx, http.MethodGet, "/projects", nil, nil, nil, c.cfg.ProbeTimeout)
}

func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) GetProject(ctx context.Context, id string) (models.Project, error) {
	var p models.Project
	q := url.Values{"id": {id}}
	if err := c.do(ctx, http.MethodGet, "/projects", q, nil, &p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

func (c *Client) CreateProject(ctx context.Context, in models.ProjectInput) (models.Project, error) {
	var p models.Project
	if err := c.do(ctx, http.MethodPost, "/projects", nil, in, &p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

func (c *Client) UpdateProject(ctx context.Context, id string, in models.ProjectInput) (models.Project, error) {
	body := struct {
		ID string `json:"id"`
		models.ProjectInput
	}{ID: id, ProjectInput: in}
	var p models.Project
	if err := c.do(ctx, http.MethodPut, "/projects", nil, body, &p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	body := map[string]string{"id": id}
	return c.do(ctx, http.MethodDelete, "/projects", nil, body, nil)
}

func (c *Client) ProjectStats(ctx context.Context) ([]models.ProjectStat, error) {
	var stats []models.ProjectStat
	q := url.Values{"stats": {"1"}}
	if err := c.do(ctx, http.MethodGet, "/projects", q, nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func filterQuery(f store.InvoiceFilter) url.Values {
	q := url.Values{}
	if f.ProjectID != "" {
		q.Set("project", f.ProjectID)
	}
	if f.WithoutProject {
		q.Set("without_project", "1")
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	return q
}

func (c *Client) ListInvoices(ctx context.Context, f store.InvoiceFilter) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := c.do(ctx, http.MethodGet, "/invoices", filterQuery(f), nil, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (c *Client) GetInvoice(ctx context.Context, id string) (models.Invoice, error) {
	var inv models.Invoice
	q := url.Values{"id": {id}}
	if err := c.do(ctx, http.MethodGet, "/invoices", q, nil, &inv); err != nil {
		return models.Invoice{}, err
	}
	return inv, nil
}

func (c *Client) CreateInvoice(ctx context.Context, in models.InvoiceInput) (models.Invoice, error) {
	var inv models.Invoice
	if err := c.do(ctx, http.MethodPost, "/invoices", nil, in, &inv); err != nil {
		return models.Invoice{}, err
	}
	return inv, nil
}

func (c *Client) UpdateInvoice(ctx context.Context, id string, patch models.InvoiceUpdate) (models.Invoice, error) {
	body := struct {
		ID string `json:"id"`
		models.InvoiceUpdate
	}{ID: id, InvoiceUpdate: patch}
	var inv models.Invoice
	if err := c.do(ctx, http.MethodPut, "/invoices", nil, body, &inv); err != nil {
		return models.Invoice{}, err
	}
	return inv, nil
}

func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	body := map[string]string{"id": id}
	return c.do(ctx, http.MethodDelete, "/invoices", nil, body, nil)
}

func (c *Client) InvoiceStats(ctx context.Context) (models.InvoiceStats, error) {
	var stats models.InvoiceStats
	q := url.Values{"stats": {"1"}}
	if err := c.do(ctx, http.MethodGet, "/invoices", q, nil, &stats); err != nil {
		return models.InvoiceStats{}, err
	}
	return stats, nil
}

// UploadImage sends a local image file and returns its public URL.
func (c *Client) UploadImage(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("upload: %w", ErrTimeout)
		}
		return "", fmt.Errorf("upload: %w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(unwrapEnvelope(raw), &result); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	return result.URL, nil
}

// ExportURL builds the spreadsheet export URL. The file is meant to be
// opened externally, not fetched in-process.
func (c *Client) ExportURL(kind string, f store.InvoiceFilter) string {
	q := filterQuery(f)
	q.Set("type", kind)
	return c.cfg.BaseURL + "/export?" + q.Encode()
}
