package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/coursereg-client/internal/models"
	"github.com/noah-isme/coursereg-client/internal/repository"
	appErrors "github.com/noah-isme/coursereg-client/pkg/errors"
)

// Bulk operation result labels used for metrics.
const (
	bulkResultCompleted = "completed"
	bulkResultRejected  = "rejected"
	bulkResultFailed    = "failed"
	bulkResultMalformed = "malformed"
)

type bulkPortal interface {
	SubmitBulk(ctx context.Context, kind models.OperationKind, ids []int) ([]byte, error)
	FetchEnrolledIDs(ctx context.Context) ([]int, error)
}

type catalogCodeIndex interface {
	IDsByCode(code string) []int
}

type enrolledStore interface {
	Replace(ids []int)
	Add(ids ...int)
	Remove(ids ...int)
	Contains(id int) bool
	IDs() []int
}

type selectionPages interface {
	Page(page models.SelectionPage) (*repository.SelectionSet, bool)
}

// BulkEnrollmentService submits a page's selection as one enroll or unenroll
// call and reconciles the per-course outcomes into the enrolled set. It is the
// only writer of the enrolled set.
type BulkEnrollmentService struct {
	portal     bulkPortal
	catalog    catalogCodeIndex
	enrolled   enrolledStore
	selections selectionPages
	metrics    *MetricsService
	logger     *zap.Logger
	now        func() time.Time

	inFlight atomic.Bool

	mu   sync.Mutex
	last map[models.SelectionPage]*models.OperationResult
}

// NewBulkEnrollmentService constructs the coordinator.
func NewBulkEnrollmentService(portal bulkPortal, catalog catalogCodeIndex, enrolled enrolledStore, selections selectionPages, metrics *MetricsService, logger *zap.Logger) *BulkEnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulkEnrollmentService{
		portal:     portal,
		catalog:    catalog,
		enrolled:   enrolled,
		selections: selections,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
		last:       make(map[models.SelectionPage]*models.OperationResult),
	}
}

// Submit sends the selection of the page that feeds kind. The selection is
// cleared once the portal call resolves, whatever the outcome.
func (s *BulkEnrollmentService) Submit(ctx context.Context, kind models.OperationKind) (*models.OperationResult, error) {
	if !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown operation kind")
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, appErrors.ErrOperationInFlight
	}
	defer s.inFlight.Store(false)

	page := kind.Page()
	selection, ok := s.selections.Page(page)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "selection page not found")
	}
	ids := selection.IDs()
	if len(ids) == 0 {
		return nil, appErrors.ErrEmptySelection
	}
	defer selection.Clear()

	logger := s.logger.With(zap.String("kind", string(kind)), zap.Ints("course_ids", ids))
	body, err := s.portal.SubmitBulk(ctx, kind, ids)
	if err != nil {
		result := bulkResultFailed
		if errors.Is(err, appErrors.ErrValidation) || errors.Is(err, appErrors.ErrUnauthorized) {
			result = bulkResultRejected
		}
		s.metrics.RecordBulkOperation(kind, result, nil)
		logger.Warn("bulk operation failed", zap.Error(err))
		return nil, err
	}

	outcomes, err := decodeBulkResponse(kind, body)
	if err != nil {
		s.metrics.RecordBulkOperation(kind, bulkResultMalformed, nil)
		logger.Warn("bulk operation response malformed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedResponse.Code, appErrors.ErrMalformedResponse.Status, appErrors.ErrMalformedResponse.Message)
	}

	result := models.NewOperationResult(uuid.NewString(), kind, outcomes, s.now().UTC())
	s.reconcile(kind, result, logger)

	s.mu.Lock()
	s.last[page] = result
	s.mu.Unlock()

	s.metrics.RecordBulkOperation(kind, bulkResultCompleted, result)
	logger.Info("bulk operation completed",
		zap.String("operation_id", result.OperationID),
		zap.Int("succeeded", len(result.Succeeded())),
		zap.Int("failed", len(result.Failed())),
	)
	return result, nil
}

// RefreshEnrolled replaces the enrolled set with the portal's copy. It shares
// the submission guard so a stale copy cannot land over a reconciliation.
func (s *BulkEnrollmentService) RefreshEnrolled(ctx context.Context) ([]int, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, appErrors.ErrOperationInFlight
	}
	defer s.inFlight.Store(false)

	ids, err := s.portal.FetchEnrolledIDs(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch enrolled courses", zap.Error(err))
		return nil, err
	}
	s.enrolled.Replace(ids)
	s.retainRegisteredSelection()
	s.logger.Info("enrolled courses refreshed", zap.Int("count", len(ids)))
	return s.enrolled.IDs(), nil
}

// TakeLastResult returns the most recent result for a page once.
func (s *BulkEnrollmentService) TakeLastResult(page models.SelectionPage) (*models.OperationResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.last[page]
	if ok {
		delete(s.last, page)
	}
	return result, ok
}

// InFlight reports whether a submission or refresh is running.
func (s *BulkEnrollmentService) InFlight() bool {
	return s.inFlight.Load()
}

func (s *BulkEnrollmentService) reconcile(kind models.OperationKind, result *models.OperationResult, logger *zap.Logger) {
	var changed []int
	for _, code := range result.Succeeded() {
		ids := s.catalog.IDsByCode(code)
		if len(ids) == 0 {
			logger.Warn("outcome for unknown course code ignored", zap.String("course_code", code))
			continue
		}
		if len(ids) > 1 {
			logger.Warn("course code maps to several courses", zap.String("course_code", code), zap.Ints("course_ids", ids))
		}
		switch kind {
		case models.OperationEnroll:
			s.enrolled.Add(ids...)
			changed = append(changed, ids...)
		case models.OperationUnenroll:
			for _, id := range ids {
				if s.enrolled.Contains(id) {
					s.enrolled.Remove(id)
					changed = append(changed, id)
				}
			}
		}
	}
	if len(changed) > 0 {
		s.retainRegisteredSelection()
	}
}

func (s *BulkEnrollmentService) retainRegisteredSelection() {
	if selection, ok := s.selections.Page(models.SelectionPageRegistered); ok {
		selection.Retain(s.enrolled.Contains)
	}
}

// decodeBulkResponse reads either the outcome map {code: outcome} or, for
// enroll, the course record(s) the portal returns for what it enrolled.
func decodeBulkResponse(kind models.OperationKind, body []byte) (map[string]models.Outcome, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	switch trimmed[0] {
	case '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("decode outcome map: %w", err)
		}
		if outcomes, ok := outcomeMap(kind, raw); ok {
			return outcomes, nil
		}
		if kind != models.OperationEnroll {
			return nil, fmt.Errorf("outcome map holds non-string values")
		}
		var record models.CourseRecord
		if err := json.Unmarshal(trimmed, &record); err != nil || record.CourseID == "" {
			return nil, fmt.Errorf("response is neither an outcome map nor a course record")
		}
		return recordOutcomes([]models.CourseRecord{record}), nil
	case '[':
		if kind != models.OperationEnroll {
			return nil, fmt.Errorf("unexpected array response for %s", kind)
		}
		var records []models.CourseRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("decode course records: %w", err)
		}
		return recordOutcomes(records), nil
	default:
		return nil, fmt.Errorf("unexpected response body")
	}
}

func outcomeMap(kind models.OperationKind, raw map[string]json.RawMessage) (map[string]models.Outcome, bool) {
	outcomes := make(map[string]models.Outcome, len(raw))
	for code, value := range raw {
		var text string
		if err := json.Unmarshal(value, &text); err != nil {
			return nil, false
		}
		outcomes[code] = models.ParseOutcome(kind, text)
	}
	return outcomes, true
}

// recordOutcomes marks every returned course, and the theory course a
// practice section belongs to, as enrolled.
func recordOutcomes(records []models.CourseRecord) map[string]models.Outcome {
	outcomes := make(map[string]models.Outcome, len(records))
	for _, record := range records {
		if record.CourseID != "" {
			outcomes[record.CourseID] = models.Success()
		}
		if record.MainCourseID != nil && *record.MainCourseID != "" {
			outcomes[*record.MainCourseID] = models.Success()
		}
	}
	return outcomes
}
