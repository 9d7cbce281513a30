package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coursereg-client/internal/dto"
	"github.com/noah-isme/coursereg-client/internal/models"
	appErrors "github.com/noah-isme/coursereg-client/pkg/errors"
	"github.com/noah-isme/coursereg-client/pkg/response"
)

type selectionService interface {
	Get(page models.SelectionPage) (*dto.SelectionView, error)
	Update(page models.SelectionPage, req dto.SelectionUpdateRequest) (*dto.SelectionView, error)
	Clear(page models.SelectionPage) error
}

// SelectionHandler exposes the per-page course selections.
type SelectionHandler struct {
	service selectionService
}

// NewSelectionHandler constructs the handler.
func NewSelectionHandler(service selectionService) *SelectionHandler {
	return &SelectionHandler{service: service}
}

// Get godoc
// @Summary Current selection of a page
// @Tags Selections
// @Produce json
// @Param page path string true "opened or registered"
// @Success 200 {object} response.Envelope
// @Router /selections/{page} [get]
func (h *SelectionHandler) Get(c *gin.Context) {
	page, err := selectionPageParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.Get(page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Update godoc
// @Summary Check or uncheck courses on a page
// @Tags Selections
// @Accept json
// @Produce json
// @Param page path string true "opened or registered"
// @Param payload body dto.SelectionUpdateRequest true "Selection payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /selections/{page} [put]
func (h *SelectionHandler) Update(c *gin.Context) {
	page, err := selectionPageParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.SelectionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selection payload"))
		return
	}
	view, err := h.service.Update(page, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Clear godoc
// @Summary Clear the selection of a page
// @Tags Selections
// @Param page path string true "opened or registered"
// @Success 204
// @Router /selections/{page} [delete]
func (h *SelectionHandler) Clear(c *gin.Context) {
	page, err := selectionPageParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Clear(page); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
