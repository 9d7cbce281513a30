package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/coursereg-client/internal/dto"
	"github.com/noah-isme/coursereg-client/internal/models"
	"github.com/noah-isme/coursereg-client/internal/repository"
	appErrors "github.com/noah-isme/coursereg-client/pkg/errors"
)

type courseLookup interface {
	Get(id int) (models.CourseRecord, bool)
}

type enrolledMembership interface {
	Contains(id int) bool
}

// SelectionService manages the per-page checkbox selections. Opened-page ids
// must exist in the catalog; registered-page ids must be enrolled.
type SelectionService struct {
	selections selectionPages
	catalog    courseLookup
	enrolled   enrolledMembership
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewSelectionService constructs the service.
func NewSelectionService(selections selectionPages, catalog courseLookup, enrolled enrolledMembership, validate *validator.Validate, logger *zap.Logger) *SelectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelectionService{selections: selections, catalog: catalog, enrolled: enrolled, validator: validate, logger: logger}
}

// Get returns the selection of a page.
func (s *SelectionService) Get(page models.SelectionPage) (*dto.SelectionView, error) {
	set, err := s.page(page)
	if err != nil {
		return nil, err
	}
	return s.view(page, set.IDs()), nil
}

// Update checks or unchecks ids on a page.
func (s *SelectionService) Update(page models.SelectionPage, req dto.SelectionUpdateRequest) (*dto.SelectionView, error) {
	set, err := s.page(page)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid selection payload")
	}
	if *req.Checked {
		for _, id := range req.IDs {
			if err := s.selectable(page, id); err != nil {
				return nil, err
			}
		}
	}
	set.Set(*req.Checked, req.IDs...)
	return s.view(page, set.IDs()), nil
}

// Clear empties a page's selection, as when the page is left.
func (s *SelectionService) Clear(page models.SelectionPage) error {
	set, err := s.page(page)
	if err != nil {
		return err
	}
	set.Clear()
	s.logger.Debug("selection cleared", zap.String("page", string(page)))
	return nil
}

func (s *SelectionService) page(page models.SelectionPage) (*repository.SelectionSet, error) {
	if !page.Valid() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown selection page %q", page))
	}
	set, ok := s.selections.Page(page)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown selection page %q", page))
	}
	return set, nil
}

func (s *SelectionService) selectable(page models.SelectionPage, id int) error {
	if _, ok := s.catalog.Get(id); !ok {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("course %d is not in the catalog", id))
	}
	if page == models.SelectionPageRegistered && !s.enrolled.Contains(id) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("course %d is not enrolled", id))
	}
	return nil
}

func (s *SelectionService) view(page models.SelectionPage, ids []int) *dto.SelectionView {
	codes := make([]string, 0, len(ids))
	for _, id := range ids {
		if record, ok := s.catalog.Get(id); ok {
			codes = append(codes, record.CourseID)
		}
	}
	return &dto.SelectionView{Page: string(page), IDs: ids, Codes: codes}
}
