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

// MateriaHandler handles subject endpoints.
type MateriaHandler struct {
	service *service.MateriaService
}

// NewMateriaHandler constructs a materia handler.
func NewMateriaHandler(svc *service.MateriaService) *MateriaHandler {
	return &MateriaHandler{service: svc}
}

// List returns materias with optional clave filter, search and pagination.
func (h *MateriaHandler) List(c *gin.Context) {
	var filter models.MateriaFilter
	filter.Clave = strings.TrimSpace(c.Query("clave"))
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Page = queryInt(c, "page", 1)
	filter.PageSize = queryInt(c, "limit", 20)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	materias, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, materias, pagination)
}

// Get returns a materia by id.
func (h *MateriaHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	materia, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, materia, nil)
}

// Create adds a new materia.
func (h *MateriaHandler) Create(c *gin.Context) {
	var req service.CreateMateriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	materia, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, materia)
}

// Update modifies an existing materia.
func (h *MateriaHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req service.UpdateMateriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	materia, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, materia, nil)
}

// Delete removes a materia.
func (h *MateriaHandler) Delete(c *gin.Context) {
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
