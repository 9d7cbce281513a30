package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursereg-client/internal/models"
	appErrors "github.com/noah-isme/coursereg-client/pkg/errors"
)

type courseServiceMock struct {
	records    []models.CourseRecord
	summary    models.RegistrationSummary
	err        error
	lastSearch string
}

func (m *courseServiceMock) List(search string) ([]models.CourseRecord, error) {
	m.lastSearch = search
	return m.records, m.err
}

func (m *courseServiceMock) Registered() ([]models.CourseRecord, models.RegistrationSummary, error) {
	return m.records, m.summary, m.err
}

type studentServiceMock struct {
	info *models.StudentInfo
	err  error
}

func (m *studentServiceMock) StudentInfo(ctx context.Context) (*models.StudentInfo, error) {
	return m.info, m.err
}

func newTestContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, nil)
	c.Request = req
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCourseHandlerList(t *testing.T) {
	mockSvc := &courseServiceMock{records: []models.CourseRecord{{ID: 10, CourseID: "CS101"}}}
	handler := NewCourseHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/courses?search=cs")
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cs", mockSvc.lastSearch)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	body := decodeEnvelope(t, w)
	var records []models.CourseRecord
	require.NoError(t, json.Unmarshal(body["data"], &records))
	assert.Equal(t, "CS101", records[0].CourseID)
	assert.JSONEq(t, `{"total": 1, "search": "cs"}`, string(body["meta"]))
}

func TestCourseHandlerListNotLoaded(t *testing.T) {
	handler := NewCourseHandler(&courseServiceMock{err: appErrors.ErrCatalogNotLoaded})

	c, w := newTestContext(http.MethodGet, "/courses")
	handler.List(c)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "CATALOG_NOT_LOADED")
}

func TestCourseHandlerRegistered(t *testing.T) {
	handler := NewCourseHandler(&courseServiceMock{
		records: []models.CourseRecord{{ID: 10, CourseID: "CS101"}},
		summary: models.RegistrationSummary{NumberOfCourses: 1, CreditNumber: 3},
	})

	c, w := newTestContext(http.MethodGet, "/courses/registered")
	handler.Registered(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	assert.Contains(t, string(body["data"]), `"summary":{"numberOfCourses":1,"creditNumber":3}`)
}

func TestStudentHandlerGet(t *testing.T) {
	handler := NewStudentHandler(&studentServiceMock{err: appErrors.Clone(appErrors.ErrUnauthorized, "Invalid credentials")})

	c, w := newTestContext(http.MethodGet, "/student")
	handler.Get(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}
