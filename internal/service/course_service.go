package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/coursereg-client/internal/models"
	appErrors "github.com/noah-isme/coursereg-client/pkg/errors"
)

type coursePortal interface {
	FetchOpenedCourses(ctx context.Context) ([]models.CourseRecord, error)
	FetchStudentInfo(ctx context.Context) (*models.StudentInfo, error)
}

type catalogStore interface {
	Load(records []models.CourseRecord)
	Snapshot() []models.CourseRecord
	Len() int
	Loaded() bool
}

type enrolledReader interface {
	Contains(id int) bool
}

// CourseService loads the catalog and serves the opened and registered course views.
type CourseService struct {
	portal   coursePortal
	catalog  catalogStore
	enrolled enrolledReader
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewCourseService constructs the service.
func NewCourseService(portal coursePortal, catalog catalogStore, enrolled enrolledReader, metrics *MetricsService, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{portal: portal, catalog: catalog, enrolled: enrolled, metrics: metrics, logger: logger}
}

// Load fetches the opened courses and replaces the catalog. On failure the
// catalog is loaded empty and the error is returned without retrying.
func (s *CourseService) Load(ctx context.Context) error {
	records, err := s.portal.FetchOpenedCourses(ctx)
	if err != nil {
		s.catalog.Load(nil)
		s.metrics.SetCatalogSize(0)
		s.logger.Error("failed to load course catalog", zap.Error(err))
		return err
	}
	s.catalog.Load(records)
	s.metrics.SetCatalogSize(s.catalog.Len())
	s.logger.Info("course catalog loaded", zap.Int("courses", s.catalog.Len()))
	return nil
}

// Ready reports whether the catalog has been loaded.
func (s *CourseService) Ready() bool {
	return s.catalog.Loaded()
}

// List returns the catalog in load order, filtered to codes starting with
// search (case-insensitive) when search is non-empty.
func (s *CourseService) List(search string) ([]models.CourseRecord, error) {
	if !s.catalog.Loaded() {
		return nil, appErrors.ErrCatalogNotLoaded
	}
	records := s.catalog.Snapshot()
	prefix := strings.ToLower(strings.TrimSpace(search))
	if prefix == "" {
		return records, nil
	}
	filtered := make([]models.CourseRecord, 0, len(records))
	for _, record := range records {
		if strings.HasPrefix(strings.ToLower(record.CourseID), prefix) {
			filtered = append(filtered, record)
		}
	}
	return filtered, nil
}

// Registered returns the enrolled courses present in the catalog with their tally.
func (s *CourseService) Registered() ([]models.CourseRecord, models.RegistrationSummary, error) {
	if !s.catalog.Loaded() {
		return nil, models.RegistrationSummary{}, appErrors.ErrCatalogNotLoaded
	}
	records := make([]models.CourseRecord, 0)
	summary := models.RegistrationSummary{}
	for _, record := range s.catalog.Snapshot() {
		if !s.enrolled.Contains(record.ID) {
			continue
		}
		records = append(records, record)
		summary.NumberOfCourses++
		summary.CreditNumber += record.Subject.TheoryCreditNumber
	}
	return records, summary, nil
}

// StudentInfo returns the signed-in student's profile.
func (s *CourseService) StudentInfo(ctx context.Context) (*models.StudentInfo, error) {
	info, err := s.portal.FetchStudentInfo(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch student info", zap.Error(err))
		return nil, err
	}
	return info, nil
}
