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

// EdificioHandler handles building endpoints.
type EdificioHandler struct {
	service *service.EdificioService
}

// NewEdificioHandler constructs an edificio handler.
func NewEdificioHandler(svc *service.EdificioService) *EdificioHandler {
	return &EdificioHandler{service: svc}
}

// List returns edificios with optional centro filter, search and pagination.
func (h *EdificioHandler) List(c *gin.Context) {
	var filter models.EdificioFilter
	filter.Name = strings.TrimSpace(c.Query("name"))
	filter.CentroID = queryInt64Ptr(c, "centro_id")
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Page = queryInt(c, "page", 1)
	filter.PageSize = queryInt(c, "limit", 20)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	edificios, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, edificios, pagination)
}

// Get returns an edificio by id.
func (h *EdificioHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	edificio, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, edificio, nil)
}

// Create adds a new edificio.
func (h *EdificioHandler) Create(c *gin.Context) {
	var req service.CreateEdificioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	edificio, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, edificio)
}

// Update modifies an existing edificio.
func (h *EdificioHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req service.UpdateEdificioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	edificio, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, edificio, nil)
}

// Delete removes an edificio.
func (h *EdificioHandler) Delete(c *gin.Context) {
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
