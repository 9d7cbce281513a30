package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coursereg-client/internal/models"
	"github.com/noah-isme/coursereg-client/pkg/response"
)

type studentInfoService interface {
	StudentInfo(ctx context.Context) (*models.StudentInfo, error)
}

// StudentHandler exposes the signed-in student's profile.
type StudentHandler struct {
	service studentInfoService
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service studentInfoService) *StudentHandler {
	return &StudentHandler{service: service}
}

// Get godoc
// @Summary Signed-in student profile
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /student [get]
func (h *StudentHandler) Get(c *gin.Context) {
	info, err := h.service.StudentInfo(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}
