package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/literacy-registrar/internal/service"
	appErrors "github.com/noah-isme/literacy-registrar/pkg/errors"
	"github.com/noah-isme/literacy-registrar/pkg/response"
)

type mailService interface {
	SendExport(ctx context.Context, req service.SendMailRequest) (*service.SendMailResult, error)
}

// MailHandler sends the spreadsheet by mail.
type MailHandler struct {
	service mailService
}

// NewMailHandler constructs a MailHandler.
func NewMailHandler(svc mailService) *MailHandler {
	return &MailHandler{service: svc}
}

// Send godoc
// @Summary Mail the spreadsheet
// @Description Generates a fresh workbook and sends it as bd_students.xlsx through the configured SMTP relay
// @Tags Mail
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.SendMailRequest true "Mail payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /mail [post]
func (h *MailHandler) Send(c *gin.Context) {
	var req service.SendMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.As(err, appErrors.ErrValidation, "invalid mail payload"))
		return
	}

	result, err := h.service.SendExport(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
