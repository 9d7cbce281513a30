package handler

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursereg-client/internal/dto"
	"github.com/noah-isme/coursereg-client/internal/models"
)

type selectionServiceMock struct {
	view       *dto.SelectionView
	err        error
	lastPage   models.SelectionPage
	lastUpdate dto.SelectionUpdateRequest
	cleared    bool
}

func (m *selectionServiceMock) Get(page models.SelectionPage) (*dto.SelectionView, error) {
	m.lastPage = page
	return m.view, m.err
}

func (m *selectionServiceMock) Update(page models.SelectionPage, req dto.SelectionUpdateRequest) (*dto.SelectionView, error) {
	m.lastPage = page
	m.lastUpdate = req
	return m.view, m.err
}

func (m *selectionServiceMock) Clear(page models.SelectionPage) error {
	m.lastPage = page
	m.cleared = true
	return m.err
}

func TestSelectionHandlerUpdate(t *testing.T) {
	mockSvc := &selectionServiceMock{view: &dto.SelectionView{Page: "opened", IDs: []int{3}}}
	handler := NewSelectionHandler(mockSvc)

	c, w := newTestContext(http.MethodPut, "/selections/opened")
	c.Request, _ = http.NewRequest(http.MethodPut, "/selections/opened", bytes.NewBufferString(`{"ids":[3],"checked":true}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "page", Value: "opened"}}

	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.SelectionPageOpened, mockSvc.lastPage)
	assert.Equal(t, []int{3}, mockSvc.lastUpdate.IDs)
	require.NotNil(t, mockSvc.lastUpdate.Checked)
	assert.True(t, *mockSvc.lastUpdate.Checked)
}

func TestSelectionHandlerUpdateInvalidBody(t *testing.T) {
	handler := NewSelectionHandler(&selectionServiceMock{})

	c, w := newTestContext(http.MethodPut, "/selections/opened")
	c.Request, _ = http.NewRequest(http.MethodPut, "/selections/opened", bytes.NewBufferString(`{"ids":`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "page", Value: "opened"}}

	handler.Update(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelectionHandlerUnknownPage(t *testing.T) {
	mockSvc := &selectionServiceMock{}
	handler := NewSelectionHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/selections/cart")
	c.Params = gin.Params{{Key: "page", Value: "cart"}}

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, mockSvc.lastPage)
}

func TestSelectionHandlerClear(t *testing.T) {
	mockSvc := &selectionServiceMock{}
	handler := NewSelectionHandler(mockSvc)

	c, w := newTestContext(http.MethodDelete, "/selections/registered")
	c.Params = gin.Params{{Key: "page", Value: "registered"}}

	handler.Clear(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, mockSvc.cleared)
	assert.Equal(t, models.SelectionPageRegistered, mockSvc.lastPage)
}
