package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gestorfacturas/facturas-api/handlers"
)

// SetupResourceRoutes wires the invoice/project surface. Single resources
// are addressed by query or body id, one endpoint per collection.
func SetupResourceRoutes(rg *gin.RouterGroup, h *handlers.Handler) {
	rg.GET("/projects", h.GetProjects)
	rg.POST("/projects", h.CreateProject)
	rg.PUT("/projects", h.UpdateProject)
	rg.DELETE("/projects", h.DeleteProject)

	rg.GET("/invoices", h.GetInvoices)
	rg.POST("/invoices", h.CreateInvoice)
	rg.PUT("/invoices", h.UpdateInvoice)
	rg.DELETE("/invoices", h.DeleteInvoice)

	rg.GET("/export", h.Export)
	rg.GET("/ws", h.WS.HandleWS)
}

// SetupUploadRoutes wires the image upload endpoint.
func SetupUploadRoutes(rg *gin.RouterGroup, uh *handlers.UploadHandler) {
	rg.POST("/upload", uh.Upload)
}
