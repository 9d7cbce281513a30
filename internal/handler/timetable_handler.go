package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coursereg-client/internal/dto"
	"github.com/noah-isme/coursereg-client/internal/models"
	appErrors "github.com/noah-isme/coursereg-client/pkg/errors"
	"github.com/noah-isme/coursereg-client/pkg/response"
)

type timetableService interface {
	Current() models.TimetableGrid
}

type exportService interface {
	ParseFormat(query dto.ExportQuery) (models.ExportFormat, error)
	Timetable(format models.ExportFormat) (*models.ExportFile, error)
	Registered(format models.ExportFormat) (*models.ExportFile, error)
}

// TimetableHandler exposes the weekly grid and the downloads built from it.
type TimetableHandler struct {
	timetable timetableService
	exports   exportService
}

// NewTimetableHandler constructs the handler. exports may be nil when
// downloads are disabled.
func NewTimetableHandler(timetable timetableService, exports exportService) *TimetableHandler {
	return &TimetableHandler{timetable: timetable, exports: exports}
}

// Get godoc
// @Summary Weekly timetable of enrolled courses
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.timetable.Current(), nil)
}

// Export godoc
// @Summary Download the timetable
// @Tags Timetable
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /timetable/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	h.download(c, func(format models.ExportFormat) (*models.ExportFile, error) {
		return h.exports.Timetable(format)
	})
}

// ExportRegistered godoc
// @Summary Download the registered courses
// @Tags Courses
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /courses/registered/export [get]
func (h *TimetableHandler) ExportRegistered(c *gin.Context) {
	h.download(c, func(format models.ExportFormat) (*models.ExportFile, error) {
		return h.exports.Registered(format)
	})
}

func (h *TimetableHandler) download(c *gin.Context, render func(models.ExportFormat) (*models.ExportFile, error)) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports disabled"))
		return
	}
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	format, err := h.exports.ParseFormat(query)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := render(format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Download(c, file.Filename, file.ContentType, file.Body)
}
