package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/udgtools/horarios-api/internal/models"
	appErrors "github.com/udgtools/horarios-api/pkg/errors"
)

type seccionRepository interface {
	List(ctx context.Context, filter models.SeccionFilter) ([]models.Seccion, int, error)
	ListByNRCAndCalendario(ctx context.Context, nrc string, calendarioID int64) ([]models.Seccion, int, error)
	FindByID(ctx context.Context, id int64) (*models.Seccion, error)
	Create(ctx context.Context, seccion *models.Seccion) error
	Update(ctx context.Context, id int64, update models.SeccionUpdate) error
	Delete(ctx context.Context, id int64) error
}

type seccionClaseRepository interface {
	ListBySeccion(ctx context.Context, seccionID int64) ([]models.Clase, int, error)
	Delete(ctx context.Context, id int64) error
}

type seccionCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type cacheMetrics interface {
	RecordCacheOperation(hit bool)
}

// CreateSeccionRequest captures fields for creating secciones.
type CreateSeccionRequest struct {
	Name             string     `json:"name" validate:"required"`
	NRC              string     `json:"nrc" validate:"required"`
	Cupos            int        `json:"cupos" validate:"gte=0"`
	CuposDisponibles int        `json:"cupos_disponibles" validate:"gte=0"`
	PeriodoInicio    *time.Time `json:"periodo_inicio"`
	PeriodoFin       *time.Time `json:"periodo_fin"`
	CentroID         int64      `json:"centro_id" validate:"required,gt=0"`
	MateriaID        int64      `json:"materia_id" validate:"required,gt=0"`
	ProfesorID       *int64     `json:"profesor_id"`
	CalendarioID     int64      `json:"calendario_id" validate:"required,gt=0"`
}

// UpdateSeccionRequest modifies the mutable fields of a seccion. Identity
// fields (nrc, centro_id, calendario_id) cannot be changed after creation.
type UpdateSeccionRequest struct {
	Name             string     `json:"name" validate:"required"`
	Cupos            int        `json:"cupos" validate:"gte=0"`
	CuposDisponibles int        `json:"cupos_disponibles" validate:"gte=0"`
	PeriodoInicio    *time.Time `json:"periodo_inicio"`
	PeriodoFin       *time.Time `json:"periodo_fin"`
	MateriaID        int64      `json:"materia_id" validate:"required,gt=0"`
	ProfesorID       *int64     `json:"profesor_id"`
}

type seccionListPage struct {
	Items      []models.Seccion   `json:"items"`
	Pagination *models.Pagination `json:"pagination"`
}

// SeccionService handles section workflows with read-through list caching.
type SeccionService struct {
	repo      seccionRepository
	clases    seccionClaseRepository
	cache     seccionCache
	metrics   cacheMetrics
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSeccionService creates a new seccion service. Cache and metrics may be
// nil, in which case lists always hit the database.
func NewSeccionService(repo seccionRepository, clases seccionClaseRepository, cache seccionCache, metrics cacheMetrics, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *SeccionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeccionService{repo: repo, clases: clases, cache: cache, metrics: metrics, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns paginated secciones, serving repeated queries from cache.
func (s *SeccionService) List(ctx context.Context, filter models.SeccionFilter) ([]models.Seccion, *models.Pagination, error) {
	key := seccionListKey(filter)
	if s.cache != nil {
		var page seccionListPage
		if err := s.cache.Get(ctx, key, &page); err == nil {
			if s.metrics != nil {
				s.metrics.RecordCacheOperation(true)
			}
			return page.Items, page.Pagination, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(false)
		}
	}

	secciones, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list secciones")
	}

	pagination := paginationFor(filter.Page, filter.PageSize, total)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, seccionListPage{Items: secciones, Pagination: pagination}, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache seccion list", zap.Error(err))
		}
	}
	return secciones, pagination, nil
}

// Get returns a seccion by identifier.
func (s *SeccionService) Get(ctx context.Context, id int64) (*models.Seccion, error) {
	seccion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "seccion not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load seccion")
	}
	return seccion, nil
}

// GetClases returns the weekly meetings of a seccion.
func (s *SeccionService) GetClases(ctx context.Context, id int64) ([]models.Clase, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	clases, _, err := s.clases.ListBySeccion(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list clases")
	}
	return clases, nil
}

// Create adds a new seccion ensuring (nrc, calendario) uniqueness.
func (s *SeccionService) Create(ctx context.Context, req CreateSeccionRequest) (*models.Seccion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid seccion payload")
	}

	req.NRC = strings.TrimSpace(req.NRC)

	existing, _, err := s.repo.ListByNRCAndCalendario(ctx, req.NRC, req.CalendarioID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check seccion nrc")
	}
	if len(existing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "nrc already in use in that calendario")
	}

	seccion := &models.Seccion{
		Name:             strings.TrimSpace(req.Name),
		NRC:              req.NRC,
		Cupos:            req.Cupos,
		CuposDisponibles: req.CuposDisponibles,
		PeriodoInicio:    req.PeriodoInicio,
		PeriodoFin:       req.PeriodoFin,
		CentroID:         req.CentroID,
		MateriaID:        req.MateriaID,
		ProfesorID:       req.ProfesorID,
		CalendarioID:     req.CalendarioID,
	}
	if err := s.repo.Create(ctx, seccion); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create seccion")
	}
	s.invalidateLists(ctx)
	return seccion, nil
}

// Update modifies the mutable fields of an existing seccion.
func (s *SeccionService) Update(ctx context.Context, id int64, req UpdateSeccionRequest) (*models.Seccion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid seccion payload")
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	update := models.SeccionUpdate{
		Name:             strings.TrimSpace(req.Name),
		Cupos:            req.Cupos,
		CuposDisponibles: req.CuposDisponibles,
		PeriodoInicio:    req.PeriodoInicio,
		PeriodoFin:       req.PeriodoFin,
		MateriaID:        req.MateriaID,
		ProfesorID:       req.ProfesorID,
	}
	if err := s.repo.Update(ctx, id, update); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update seccion")
	}
	s.invalidateLists(ctx)
	return s.Get(ctx, id)
}

// Delete removes a seccion together with its clases.
func (s *SeccionService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	clases, _, err := s.clases.ListBySeccion(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list clases")
	}
	for _, clase := range clases {
		if err := s.clases.Delete(ctx, clase.ID); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete clase")
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete seccion")
	}
	s.invalidateLists(ctx)
	return nil
}

func (s *SeccionService) invalidateLists(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "secciones:*"); err != nil {
		s.logger.Warn("failed to invalidate seccion cache", zap.Error(err))
	}
}

func seccionListKey(filter models.SeccionFilter) string {
	centro := int64(0)
	if filter.CentroID != nil {
		centro = *filter.CentroID
	}
	materia := int64(0)
	if filter.MateriaID != nil {
		materia = *filter.MateriaID
	}
	profesor := int64(0)
	if filter.ProfesorID != nil {
		profesor = *filter.ProfesorID
	}
	calendario := int64(0)
	if filter.CalendarioID != nil {
		calendario = *filter.CalendarioID
	}
	return fmt.Sprintf("secciones:list:%s:%d:%d:%d:%d:%s:%d:%d:%s:%s",
		filter.NRC, centro, materia, profesor, calendario,
		filter.Search, filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder)
}
