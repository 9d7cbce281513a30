package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/coursereg-client/internal/dto"
	"github.com/noah-isme/coursereg-client/internal/models"
	appErrors "github.com/noah-isme/coursereg-client/pkg/errors"
	"github.com/noah-isme/coursereg-client/pkg/export"
)

type timetableSource interface {
	Current() models.TimetableGrid
}

type registeredSource interface {
	Registered() ([]models.CourseRecord, models.RegistrationSummary, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	RenderGrid(grid export.Grid) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
	RenderGrid(grid export.Grid, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Title string
}

// ExportService renders the timetable and the registered-course list as downloads.
type ExportService struct {
	timetable  timetableSource
	registered registeredSource
	csv        csvRenderer
	pdf        pdfRenderer
	validator  *validator.Validate
	logger     *zap.Logger
	cfg        ExportConfig
	now        func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(timetable timetableSource, registered registeredSource, cfg ExportConfig, validate *validator.Validate, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Title == "" {
		cfg.Title = "Registered timetable"
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		timetable:  timetable,
		registered: registered,
		csv:        csv,
		pdf:        pdf,
		validator:  validate,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// ParseFormat validates a download query. CSV is the default.
func (s *ExportService) ParseFormat(query dto.ExportQuery) (models.ExportFormat, error) {
	if err := s.validator.Struct(query); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}
	if query.Format == "" {
		return models.ExportFormatCSV, nil
	}
	return models.ExportFormat(query.Format), nil
}

// Timetable renders the current weekly grid.
func (s *ExportService) Timetable(format models.ExportFormat) (*models.ExportFile, error) {
	grid := timetableGrid(s.timetable.Current())

	var (
		payload []byte
		err     error
	)
	switch format {
	case models.ExportFormatCSV:
		payload, err = s.csv.RenderGrid(grid)
	case models.ExportFormatPDF:
		payload, err = s.pdf.RenderGrid(grid, s.cfg.Title)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %s", format))
	}
	if err != nil {
		s.logger.Error("failed to render timetable", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}
	return s.file("timetable", format, payload), nil
}

// Registered renders the enrolled courses with the credit tally as the last row.
func (s *ExportService) Registered(format models.ExportFormat) (*models.ExportFile, error) {
	records, summary, err := s.registered.Registered()
	if err != nil {
		return nil, err
	}
	dataset := registeredDataset(records, summary)

	var payload []byte
	switch format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, "Registered courses")
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %s", format))
	}
	if err != nil {
		s.logger.Error("failed to render registered courses", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render registered courses")
	}
	return s.file("registered_courses", format, payload), nil
}

func (s *ExportService) file(name string, format models.ExportFormat, payload []byte) *models.ExportFile {
	timestamp := s.now().UTC().Format("20060102_150405")
	return &models.ExportFile{
		Filename:    sanitizeFilename(fmt.Sprintf("%s_%s.%s", name, timestamp, format)),
		ContentType: format.ContentType(),
		Body:        payload,
	}
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func timetableGrid(grid models.TimetableGrid) export.Grid {
	out := export.Grid{
		Corner:     "Shift",
		Columns:    make([]string, 0, len(grid.Days)),
		RowHeaders: make([]string, 0, len(grid.Rows)),
		Cells:      make([][]export.GridCell, 0, len(grid.Rows)),
	}
	for _, day := range grid.Days {
		out.Columns = append(out.Columns, models.WeekdayName(day))
	}
	for _, row := range grid.Rows {
		out.RowHeaders = append(out.RowHeaders, row.Label)
		cells := make([]export.GridCell, 0, len(row.Cells))
		for _, cell := range row.Cells {
			switch {
			case cell.Covered:
				cells = append(cells, export.GridCell{Covered: true})
			case cell.Course != nil:
				cells = append(cells, export.GridCell{Text: cellText(*cell.Course), Span: cell.Span})
			default:
				cells = append(cells, export.GridCell{})
			}
		}
		out.Cells = append(out.Cells, cells)
	}
	return out
}

func cellText(course models.CourseRecord) string {
	lines := []string{course.CourseID}
	if course.Subject.SubjectName != "" {
		lines = append(lines, course.Subject.SubjectName)
	}
	if course.Room != "" {
		lines = append(lines, "Room "+course.Room)
	}
	return strings.Join(lines, "\n")
}

func registeredDataset(records []models.CourseRecord, summary models.RegistrationSummary) export.Dataset {
	headers := []string{"Code", "Subject", "Credits", "Lecturer", "Day", "Shifts", "Room", "Seats"}
	rows := make([]map[string]string, 0, len(records)+1)
	for _, record := range records {
		rows = append(rows, map[string]string{
			"Code":     record.CourseID,
			"Subject":  record.Subject.SubjectName,
			"Credits":  strconv.Itoa(record.Subject.TheoryCreditNumber),
			"Lecturer": record.Lecturer(),
			"Day":      models.WeekdayName(record.DayOfWeek),
			"Shifts":   fmt.Sprintf("%d-%d", record.BeginShift, record.EndShift),
			"Room":     record.Room,
			"Seats":    fmt.Sprintf("%d/%d", record.RegisteredNumber, record.TotalNumber),
		})
	}
	rows = append(rows, map[string]string{
		"Code":    "Total",
		"Subject": fmt.Sprintf("%d courses", summary.NumberOfCourses),
		"Credits": strconv.Itoa(summary.CreditNumber),
	})
	return export.Dataset{Headers: headers, Rows: rows}
}
