package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gestorfacturas/facturas-api/models"
	"github.com/gestorfacturas/facturas-api/store"
)

func invoiceFilterFromQuery(c *gin.Context) store.InvoiceFilter {
	f := store.InvoiceFilter{
		ProjectID:      c.Query("project"),
		WithoutProject: c.Query("without_project") == "1",
		Search:         c.Query("search"),
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		f.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		f.Offset = v
	}
	return f
}

// GetInvoices serves GET /invoices: filtered listing, single record via
// ?id=, or collection stats via ?stats=1.
func (h *Handler) GetInvoices(c *gin.Context) {
	if c.Query("stats") == "1" {
		stats, err := h.Store.InvoiceStats(c.Request.Context())
		if err != nil {
			h.storeError(c, err, "Failed to compute invoice stats")
			return
		}
		ok(c, http.StatusOK, stats)
		return
	}

	if id := c.Query("id"); id != "" {
		invoice, err := h.Store.GetInvoice(c.Request.Context(), id)
		if err != nil {
			h.storeError(c, err, "Failed to fetch invoice")
			return
		}
		ok(c, http.StatusOK, invoice)
		return
	}

	invoices, err := h.Store.ListInvoices(c.Request.Context(), invoiceFilterFromQuery(c))
	if err != nil {
		h.storeError(c, err, "Failed to fetch invoices")
		return
	}
	ok(c, http.StatusOK, invoices)
}

func (h *Handler) CreateInvoice(c *gin.Context) {
	var in models.InvoiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if errs := models.ValidateInvoice(in); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	invoice, err := h.Store.CreateInvoice(c.Request.Context(), in)
	if err != nil {
		h.storeError(c, err, "Failed to create invoice")
		return
	}

	h.WS.Broadcast("invoice_created", invoice.ID)
	ok(c, http.StatusCreated, invoice)
}

// UpdateInvoice serves PUT /invoices; the body carries the id plus the
// partial fields to change.
func (h *Handler) UpdateInvoice(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
		models.InvoiceUpdate
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if errs := models.ValidateInvoiceUpdate(req.InvoiceUpdate); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	if req.Status != nil {
		status, err := models.ParseStatus(*req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.Status = &status
	}

	invoice, err := h.Store.UpdateInvoice(c.Request.Context(), req.ID, req.InvoiceUpdate)
	if err != nil {
		h.storeError(c, err, "Failed to update invoice")
		return
	}

	h.WS.Broadcast("invoice_updated", invoice.ID)
	ok(c, http.StatusOK, invoice)
}

func (h *Handler) DeleteInvoice(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.DeleteInvoice(c.Request.Context(), req.ID); err != nil {
		h.storeError(c, err, "Failed to delete invoice")
		return
	}

	h.WS.Broadcast("invoice_deleted", req.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}
