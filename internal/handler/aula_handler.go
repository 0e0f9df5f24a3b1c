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

// AulaHandler handles classroom endpoints.
type AulaHandler struct {
	service *service.AulaService
}

// NewAulaHandler constructs an aula handler.
func NewAulaHandler(svc *service.AulaService) *AulaHandler {
	return &AulaHandler{service: svc}
}

// List returns aulas with optional edificio filter, search and pagination.
func (h *AulaHandler) List(c *gin.Context) {
	var filter models.AulaFilter
	filter.Name = strings.TrimSpace(c.Query("name"))
	filter.EdificioID = queryInt64Ptr(c, "edificio_id")
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Page = queryInt(c, "page", 1)
	filter.PageSize = queryInt(c, "limit", 20)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	aulas, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, aulas, pagination)
}

// Get returns an aula by id.
func (h *AulaHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	aula, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, aula, nil)
}

// Create adds a new aula.
func (h *AulaHandler) Create(c *gin.Context) {
	var req service.CreateAulaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	aula, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, aula)
}

// Update modifies an existing aula.
func (h *AulaHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req service.UpdateAulaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	aula, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, aula, nil)
}

// Delete removes an aula.
func (h *AulaHandler) Delete(c *gin.Context) {
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
