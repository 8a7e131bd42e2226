package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/literacy-registrar/internal/models"
	"github.com/noah-isme/literacy-registrar/internal/service"
	appErrors "github.com/noah-isme/literacy-registrar/pkg/errors"
	"github.com/noah-isme/literacy-registrar/pkg/response"
)

type studentService interface {
	Register(ctx context.Context, req service.RegisterStudentRequest) (*service.RegistrationResult, error)
	Count(ctx context.Context) (int, error)
	Options() models.FormOptions
}

// StudentHandler exposes the registration form endpoints.
type StudentHandler struct {
	service studentService
}

// NewStudentHandler constructs a StudentHandler.
func NewStudentHandler(svc studentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// Options godoc
// @Summary Form option lists
// @Description Districts, chapters, groups, levels and genders accepted by the registration form
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /students/options [get]
func (h *StudentHandler) Options(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Options())
}

// Register godoc
// @Summary Register a student
// @Description Stores one learner. Age is derived from birth_date at registration time.
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.RegisterStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Register(c *gin.Context) {
	var req service.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.As(err, appErrors.ErrValidation, "invalid student payload"))
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Count godoc
// @Summary Registered students count
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /students/count [get]
func (h *StudentHandler) Count(c *gin.Context) {
	count, err := h.service.Count(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"count": count})
}
