package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/udgtools/horarios-api/internal/dto"
	"github.com/udgtools/horarios-api/internal/siiau"
	appErrors "github.com/udgtools/horarios-api/pkg/errors"
	"github.com/udgtools/horarios-api/pkg/response"
)

// TaskHandler exposes the SIIAU timetable import tasks.
type TaskHandler struct {
	importer *siiau.Importer
}

// NewTaskHandler constructs a task handler.
func NewTaskHandler(importer *siiau.Importer) *TaskHandler {
	return &TaskHandler{importer: importer}
}

// ImportSecciones fetches the live SIIAU timetable for a calendario and centro
// and reconciles it into the database. Runs synchronously; the response
// carries the per-entity import counters.
func (h *TaskHandler) ImportSecciones(c *gin.Context) {
	calendarioID, centroID, ok := h.targetParams(c)
	if !ok {
		return
	}
	update := queryBool(c, "update", false)
	fullUpdate := queryBool(c, "full_update", false)

	stats, err := h.importer.ImportSecciones(c.Request.Context(), calendarioID, centroID, update, fullUpdate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// UpdateSecciones re-imports the timetable updating every existing seccion.
func (h *TaskHandler) UpdateSecciones(c *gin.Context) {
	calendarioID, centroID, ok := h.targetParams(c)
	if !ok {
		return
	}
	fullUpdate := queryBool(c, "full_update", false)

	stats, err := h.importer.UpdateAllSecciones(c.Request.Context(), calendarioID, centroID, fullUpdate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// ImportSeccionesManual reconciles pre-parsed timetable rows supplied in the
// request body instead of fetching from SIIAU.
func (h *TaskHandler) ImportSeccionesManual(c *gin.Context) {
	calendarioID, centroID, ok := h.targetParams(c)
	if !ok {
		return
	}
	update := queryBool(c, "update", false)
	fullUpdate := queryBool(c, "full_update", false)

	var req dto.ManualImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if len(req.Rows) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "rows must not be empty"))
		return
	}

	stats, err := h.importer.SaveSeccionesManual(c.Request.Context(), req.Rows, calendarioID, centroID, update, fullUpdate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

func (h *TaskHandler) targetParams(c *gin.Context) (int64, int64, bool) {
	calendarioID, err := strconv.ParseInt(c.Query("calendario_id"), 10, 64)
	if err != nil || calendarioID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "calendario_id is required"))
		return 0, 0, false
	}
	centroID, err := strconv.ParseInt(c.Query("centro_id"), 10, 64)
	if err != nil || centroID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "centro_id is required"))
		return 0, 0, false
	}
	return calendarioID, centroID, true
}

func queryBool(c *gin.Context, name string, fallback bool) bool {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
