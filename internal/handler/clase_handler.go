package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/udgtools/horarios-api/internal/models"
	"github.com/udgtools/horarios-api/internal/service"
	appErrors "github.com/udgtools/horarios-api/pkg/errors"
	"github.com/udgtools/horarios-api/pkg/response"
)

// ClaseHandler handles class meeting endpoints.
type ClaseHandler struct {
	service *service.ClaseService
}

// NewClaseHandler constructs a clase handler.
func NewClaseHandler(svc *service.ClaseService) *ClaseHandler {
	return &ClaseHandler{service: svc}
}

// List returns clases filtered by seccion, aula or dia.
func (h *ClaseHandler) List(c *gin.Context) {
	var filter models.ClaseFilter
	filter.SeccionID = queryInt64Ptr(c, "seccion_id")
	filter.AulaID = queryInt64Ptr(c, "aula_id")
	filter.Dia = queryIntPtr(c, "dia")
	filter.Page = queryInt(c, "page", 1)
	filter.PageSize = queryInt(c, "limit", 20)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	clases, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, clases, pagination)
}

// Get returns a clase by id.
func (h *ClaseHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	clase, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, clase, nil)
}

// Create adds a new clase.
func (h *ClaseHandler) Create(c *gin.Context) {
	var req service.CreateClaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	clase, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, clase)
}

// Delete removes a clase.
func (h *ClaseHandler) Delete(c *gin.Context) {
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
