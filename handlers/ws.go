package handlers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/rs/zerolog"

	"github.com/gestorfacturas/facturas-api/logger"
)

// WSHandler pushes a change feed to connected clients so list screens can
// refresh without polling.
type WSHandler struct {
	M   *melody.Melody
	log zerolog.Logger
}

func NewWSHandler() *WSHandler {
	m := melody.New()
	m.Config.MaxMessageSize = 1024
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	h := &WSHandler{M: m, log: logger.WithComponent("ws")}

	m.HandleConnect(func(s *melody.Session) {
		h.log.Debug().Str("remote", s.Request.RemoteAddr).Msg("client connected")
	})
	m.HandleDisconnect(func(s *melody.Session) {
		h.log.Debug().Str("remote", s.Request.RemoteAddr).Msg("client disconnected")
	})
	m.HandleError(func(s *melody.Session, err error) {
		h.log.Warn().Err(err).Msg("websocket error")
	})

	return h
}

// HandleWS upgrades GET /ws.
func (h *WSHandler) HandleWS(c *gin.Context) {
	if err := h.M.HandleRequest(c.Writer, c.Request); err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
	}
}

// Broadcast notifies every connected client of a mutation.
func (h *WSHandler) Broadcast(event, id string) {
	if h == nil || h.M == nil {
		return
	}
	msg, _ := json.Marshal(map[string]string{"type": event, "id": id})
	if err := h.M.Broadcast(msg); err != nil {
		h.log.Warn().Err(err).Str("event", event).Msg("broadcast failed")
	}
}
