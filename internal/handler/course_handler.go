package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coursereg-client/internal/dto"
	"github.com/noah-isme/coursereg-client/internal/models"
	"github.com/noah-isme/coursereg-client/pkg/response"
)

type courseService interface {
	List(search string) ([]models.CourseRecord, error)
	Registered() ([]models.CourseRecord, models.RegistrationSummary, error)
}

// CourseHandler exposes the opened and registered course views.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(service courseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// List godoc
// @Summary List opened courses with live seat counts
// @Tags Courses
// @Produce json
// @Param search query string false "Course code prefix (case-insensitive)"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	search := c.Query("search")
	records, err := h.service.List(search)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, map[string]interface{}{"total": len(records), "search": search})
}

// Registered godoc
// @Summary List registered courses with the credit tally
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses/registered [get]
func (h *CourseHandler) Registered(c *gin.Context) {
	records, summary, err := h.service.Registered()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.RegisteredCoursesResponse{Courses: records, Summary: summary}, nil)
}
