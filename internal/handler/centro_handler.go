package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/udgtools/horarios-api/internal/models"
	"github.com/udgtools/horarios-api/internal/service"
	appErrors "github.com/udgtools/horarios-api/pkg/errors"
	"github.com/udgtools/horarios-api/pkg/response"
)

// CentroHandler handles campus endpoints.
type CentroHandler struct {
	service *service.CentroService
}

// NewCentroHandler constructs a centro handler.
func NewCentroHandler(svc *service.CentroService) *CentroHandler {
	return &CentroHandler{service: svc}
}

// List returns centros with optional search and pagination.
func (h *CentroHandler) List(c *gin.Context) {
	var filter models.CentroFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.SiiauID = strings.TrimSpace(c.Query("siiau_id"))
	filter.Page = queryInt(c, "page", 1)
	filter.PageSize = queryInt(c, "limit", 20)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	centros, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, centros, pagination)
}

// Get returns a centro by id.
func (h *CentroHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	centro, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, centro, nil)
}

// Create adds a new centro.
func (h *CentroHandler) Create(c *gin.Context) {
	var req service.CreateCentroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	centro, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, centro)
}

// Update modifies an existing centro.
func (h *CentroHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req service.UpdateCentroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	centro, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, centro, nil)
}

// Delete removes a centro.
func (h *CentroHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
