package handler

import (
	"context"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/literacy-registrar/internal/middleware"
	"github.com/noah-isme/literacy-registrar/internal/service"
	appErrors "github.com/noah-isme/literacy-registrar/pkg/errors"
	"github.com/noah-isme/literacy-registrar/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, req service.ExportRequest) (*service.ExportResult, error)
	Open(token string) (*service.Download, error)
}

// ExportHandler writes and serves spreadsheet snapshots.
type ExportHandler struct {
	service exportService
	logger  *zap.Logger
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(svc exportService, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{service: svc, logger: logger}
}

// Create godoc
// @Summary Export students
// @Description Writes every record to the export directory, replacing a previous file of the same name
// @Tags Exports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.ExportRequest false "Export options"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /exports [post]
func (h *ExportHandler) Create(c *gin.Context) {
	var req service.ExportRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.As(err, appErrors.ErrValidation, "invalid export payload"))
			return
		}
	}

	result, err := h.service.Export(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	operator := ""
	if claims, ok := middleware.CurrentUser(c); ok {
		operator = claims.Username
	}
	h.logger.Info("export requested",
		zap.String("operator", operator),
		zap.String("file", result.Filename),
		zap.Int("rows", result.Rows),
	)
	response.JSON(c, http.StatusOK, result)
}

// Download godoc
// @Summary Download an export
// @Tags Exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	download, err := h.service.Open(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	info, err := download.File.Stat()
	if err != nil {
		h.logger.Error("stat export file", zap.Error(err))
		response.Error(c, appErrors.As(err, appErrors.ErrExport, "export file unavailable"))
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": download.Filename})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition)
	c.DataFromReader(http.StatusOK, info.Size(), download.ContentType, download.File, nil)
}
