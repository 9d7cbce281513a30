package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coursereg-client/internal/dto"
	"github.com/noah-isme/coursereg-client/internal/models"
	appErrors "github.com/noah-isme/coursereg-client/pkg/errors"
	"github.com/noah-isme/coursereg-client/pkg/response"
)

type bulkEnrollmentService interface {
	Submit(ctx context.Context, kind models.OperationKind) (*models.OperationResult, error)
	RefreshEnrolled(ctx context.Context) ([]int, error)
	TakeLastResult(page models.SelectionPage) (*models.OperationResult, bool)
}

// EnrollmentHandler exposes bulk enroll and unenroll.
type EnrollmentHandler struct {
	service bulkEnrollmentService
}

// NewEnrollmentHandler constructs the handler.
func NewEnrollmentHandler(service bulkEnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

// Enroll godoc
// @Summary Enroll every course selected on the opened page
// @Tags Enrollments
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /enrollments/enroll [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	h.submit(c, models.OperationEnroll)
}

// Unenroll godoc
// @Summary Unenroll every course selected on the registered page
// @Tags Enrollments
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /enrollments/unenroll [post]
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	h.submit(c, models.OperationUnenroll)
}

// submit detaches from the request's cancellation: once the portal may have
// committed the change, its reply must still be reconciled. The portal client's
// own timeout bounds the call.
func (h *EnrollmentHandler) submit(c *gin.Context, kind models.OperationKind) {
	result, err := h.service.Submit(context.WithoutCancel(c.Request.Context()), kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewOperationResultResponse(result), nil)
}

// Result godoc
// @Summary Take the last bulk result of a page
// @Tags Enrollments
// @Produce json
// @Param page path string true "opened or registered"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments/results/{page} [get]
func (h *EnrollmentHandler) Result(c *gin.Context) {
	page, err := selectionPageParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, ok := h.service.TakeLastResult(page)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "no pending result"))
		return
	}
	response.JSON(c, http.StatusOK, dto.NewOperationResultResponse(result), nil)
}

// RefreshEnrolled godoc
// @Summary Re-seed enrolled courses from the portal
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /courses/registered/refresh [post]
func (h *EnrollmentHandler) RefreshEnrolled(c *gin.Context) {
	ids, err := h.service.RefreshEnrolled(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.EnrolledRefreshResponse{IDs: ids}, nil)
}
