package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/literacy-registrar/internal/models"
	"github.com/noah-isme/literacy-registrar/pkg/response"
)

// Pinger reports whether the record store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// MetaHandler serves the intro banner and probes.
type MetaHandler struct {
	store       Pinger
	institution models.Institution
}

// NewMetaHandler constructs a MetaHandler.
func NewMetaHandler(store Pinger, institution models.Institution) *MetaHandler {
	return &MetaHandler{store: store, institution: institution}
}

// Intro godoc
// @Summary Institution banner
// @Tags Meta
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /intro [get]
func (h *MetaHandler) Intro(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.institution)
}

// Health reports liveness.
func (h *MetaHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether the store answers a ping.
func (h *MetaHandler) Ready(c *gin.Context) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
