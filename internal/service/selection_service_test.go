package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursereg-client/internal/dto"
	"github.com/noah-isme/coursereg-client/internal/models"
	"github.com/noah-isme/coursereg-client/internal/repository"
	appErrors "github.com/noah-isme/coursereg-client/pkg/errors"
)

func boolPtr(v bool) *bool { return &v }

func newSelectionServiceForTest() *SelectionService {
	catalog := catalogWith(
		models.CourseRecord{ID: 1, CourseID: "CS101"},
		models.CourseRecord{ID: 2, CourseID: "MA201"},
	)
	enrolled := repository.NewEnrolledSet()
	enrolled.Replace([]int{2})
	return NewSelectionService(repository.NewSelectionRegistry(), catalog, enrolled, nil, nil)
}

func TestSelectionServiceToggle(t *testing.T) {
	svc := newSelectionServiceForTest()

	view, err := svc.Update(models.SelectionPageOpened, dto.SelectionUpdateRequest{IDs: []int{2, 1}, Checked: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, view.IDs)
	assert.Equal(t, []string{"CS101", "MA201"}, view.Codes)

	view, err = svc.Update(models.SelectionPageOpened, dto.SelectionUpdateRequest{IDs: []int{1}, Checked: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, view.IDs)

	require.NoError(t, svc.Clear(models.SelectionPageOpened))
	view, err = svc.Get(models.SelectionPageOpened)
	require.NoError(t, err)
	assert.Empty(t, view.IDs)
}

func TestSelectionServiceValidation(t *testing.T) {
	svc := newSelectionServiceForTest()

	_, err := svc.Update(models.SelectionPageOpened, dto.SelectionUpdateRequest{IDs: []int{1}})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Update(models.SelectionPageOpened, dto.SelectionUpdateRequest{IDs: []int{}, Checked: boolPtr(true)})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Update(models.SelectionPageOpened, dto.SelectionUpdateRequest{IDs: []int{9}, Checked: boolPtr(true)})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Update(models.SelectionPageRegistered, dto.SelectionUpdateRequest{IDs: []int{1}, Checked: boolPtr(true)})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	view, err := svc.Update(models.SelectionPageRegistered, dto.SelectionUpdateRequest{IDs: []int{2}, Checked: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, []string{"MA201"}, view.Codes)

	_, err = svc.Get(models.SelectionPage("cart"))
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
