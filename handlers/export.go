package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Export serves GET /export?type=invoices|projects. It writes the
// spreadsheet to the public directory and returns its URL; the client opens
// the file externally.
func (h *Handler) Export(c *gin.Context) {
	kind := c.Query("type")
	ctx := c.Request.Context()

	var url string
	var err error
	switch kind {
	case "invoices":
		url, err = h.Exporter.ExportInvoices(ctx, invoiceFilterFromQuery(c))
	case "projects":
		url, err = h.Exporter.ExportProjects(ctx)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be invoices or projects"})
		return
	}
	if err != nil {
		h.storeError(c, err, "Failed to generate export")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
