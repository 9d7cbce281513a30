package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursereg-client/internal/dto"
	"github.com/noah-isme/coursereg-client/internal/models"
	appErrors "github.com/noah-isme/coursereg-client/pkg/errors"
)

type bulkServiceMock struct {
	result   *models.OperationResult
	err      error
	lastKind models.OperationKind
	ctxErr   error
	pending  map[models.SelectionPage]*models.OperationResult
	ids      []int
}

func (m *bulkServiceMock) Submit(ctx context.Context, kind models.OperationKind) (*models.OperationResult, error) {
	m.lastKind = kind
	m.ctxErr = ctx.Err()
	return m.result, m.err
}

func (m *bulkServiceMock) RefreshEnrolled(ctx context.Context) ([]int, error) {
	return m.ids, m.err
}

func (m *bulkServiceMock) TakeLastResult(page models.SelectionPage) (*models.OperationResult, bool) {
	result, ok := m.pending[page]
	delete(m.pending, page)
	return result, ok
}

func partialResult() *models.OperationResult {
	return models.NewOperationResult("op-1", models.OperationUnenroll, map[string]models.Outcome{
		"A": models.Success(),
		"B": models.Failure("some error"),
	}, time.Now())
}

func TestEnrollmentHandlerUnenrollPartial(t *testing.T) {
	mockSvc := &bulkServiceMock{result: partialResult()}
	handler := NewEnrollmentHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/enrollments/unenroll")
	handler.Unenroll(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OperationUnenroll, mockSvc.lastKind)
	var body struct {
		Data dto.OperationResultResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"A"}, body.Data.Succeeded)
	require.Len(t, body.Data.Failed, 1)
	assert.Equal(t, "some error", body.Data.Failed[0].Reason)
}

func TestEnrollmentHandlerSubmitOutlivesClientDisconnect(t *testing.T) {
	mockSvc := &bulkServiceMock{result: partialResult()}
	handler := NewEnrollmentHandler(mockSvc)

	c, _ := newTestContext(http.MethodPost, "/enrollments/enroll")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.Request = c.Request.WithContext(ctx)
	handler.Enroll(c)

	assert.Equal(t, models.OperationEnroll, mockSvc.lastKind)
	assert.NoError(t, mockSvc.ctxErr)
}

func TestEnrollmentHandlerErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{err: appErrors.Clone(appErrors.ErrValidation, "Course is full"), status: http.StatusBadRequest},
		{err: appErrors.ErrOperationInFlight, status: http.StatusConflict},
		{err: appErrors.ErrEmptySelection, status: http.StatusPreconditionFailed},
		{err: appErrors.Wrap(assert.AnError, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, appErrors.ErrTransport.Message), status: http.StatusBadGateway},
	}
	for _, tc := range cases {
		handler := NewEnrollmentHandler(&bulkServiceMock{err: tc.err})
		c, w := newTestContext(http.MethodPost, "/enrollments/enroll")
		handler.Enroll(c)
		assert.Equal(t, tc.status, w.Code)
		assert.Len(t, c.Errors, 1)
	}
}

func TestEnrollmentHandlerResultConsumedOnce(t *testing.T) {
	mockSvc := &bulkServiceMock{pending: map[models.SelectionPage]*models.OperationResult{
		models.SelectionPageRegistered: partialResult(),
	}}
	handler := NewEnrollmentHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/enrollments/results/registered")
	c.Params = gin.Params{{Key: "page", Value: "registered"}}
	handler.Result(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = newTestContext(http.MethodGet, "/enrollments/results/registered")
	c.Params = gin.Params{{Key: "page", Value: "registered"}}
	handler.Result(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestEnrollmentHandlerRefreshEnrolled(t *testing.T) {
	handler := NewEnrollmentHandler(&bulkServiceMock{ids: []int{4, 9}})

	c, w := newTestContext(http.MethodPost, "/courses/registered/refresh")
	handler.RefreshEnrolled(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"ids":[4,9]}}`, w.Body.String())
}
