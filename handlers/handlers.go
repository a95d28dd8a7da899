package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gestorfacturas/facturas-api/logger"
	"github.com/gestorfacturas/facturas-api/models"
	"github.com/gestorfacturas/facturas-api/services"
	"github.com/gestorfacturas/facturas-api/store"
)

// Handler serves the invoice and project resources over whichever store
// backend main wired up.
type Handler struct {
	Store    store.Store
	WS       *WSHandler
	Exporter *services.Exporter
	log      zerolog.Logger
}

func NewHandler(st store.Store, ws *WSHandler, exporter *services.Exporter) *Handler {
	return &Handler{
		Store:    st,
		WS:       ws,
		Exporter: exporter,
		log:      logger.WithComponent("handlers"),
	}
}

// ok wraps successful payloads in the {data: ...} envelope.
func ok(c *gin.Context, status int, payload any) {
	c.JSON(status, gin.H{"data": payload})
}

func validationFailed(c *gin.Context, errs models.ErrorMap) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "validation failed",
		"fields": errs,
	})
}

func (h *Handler) storeError(c *gin.Context, err error, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
