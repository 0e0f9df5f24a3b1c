package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udgtools/horarios-api/internal/models"
	"github.com/udgtools/horarios-api/internal/service"
)

type centroRepoMock struct {
	items      map[int64]*models.Centro
	nextID     int64
	lastFilter models.CentroFilter
}

func newCentroRepoMock() *centroRepoMock {
	return &centroRepoMock{items: make(map[int64]*models.Centro), nextID: 1}
}

func (m *centroRepoMock) List(_ context.Context, filter models.CentroFilter) ([]models.Centro, int, error) {
	m.lastFilter = filter
	var out []models.Centro
	for _, c := range m.items {
		if filter.SiiauID != "" && c.SiiauID != filter.SiiauID {
			continue
		}
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *centroRepoMock) FindByID(_ context.Context, id int64) (*models.Centro, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := *c
	return &out, nil
}

func (m *centroRepoMock) Create(_ context.Context, centro *models.Centro) error {
	centro.ID = m.nextID
	m.nextID++
	stored := *centro
	m.items[centro.ID] = &stored
	return nil
}

func (m *centroRepoMock) Update(_ context.Context, centro *models.Centro) error {
	stored := *centro
	m.items[centro.ID] = &stored
	return nil
}

func (m *centroRepoMock) Delete(_ context.Context, id int64) error {
	delete(m.items, id)
	return nil
}

func newCentroHandlerTest() (*CentroHandler, *centroRepoMock) {
	repo := newCentroRepoMock()
	return NewCentroHandler(service.NewCentroService(repo, nil, nil)), repo
}

func TestCentroHandlerListParsesQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newCentroHandlerTest()
	repo.items[1] = &models.Centro{ID: 1, Name: "CUCEI", SiiauID: "D"}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/centros?search=cucei&page=2&limit=5", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cucei", repo.lastFilter.Search)
	assert.Equal(t, 2, repo.lastFilter.Page)
	assert.Equal(t, 5, repo.lastFilter.PageSize)

	var body struct {
		Data       []models.Centro    `json:"data"`
		Pagination *models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Pagination)
	assert.Equal(t, 2, body.Pagination.Page)
}

func TestCentroHandlerGetInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newCentroHandlerTest()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/centros/abc", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Get(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCentroHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newCentroHandlerTest()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/centros/42", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCentroHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newCentroHandlerTest()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/centros", bytes.NewBufferString(`{"name":"CUCEI","siiau_id":"d"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.items, 1)
	assert.Equal(t, "D", repo.items[1].SiiauID)
}

func TestCentroHandlerCreateMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newCentroHandlerTest()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/centros", bytes.NewBufferString(`{"name":"CUCEI"`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCentroHandlerCreateDuplicateSiiauID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newCentroHandlerTest()
	repo.items[1] = &models.Centro{ID: 1, Name: "CUCEI", SiiauID: "D"}
	repo.nextID = 2

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/centros", bytes.NewBufferString(`{"name":"Other","siiau_id":"D"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestCentroHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newCentroHandlerTest()
	repo.items[1] = &models.Centro{ID: 1, Name: "CUCEI", SiiauID: "D"}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/centros/1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, repo.items)
}
