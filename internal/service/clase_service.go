package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/udgtools/horarios-api/internal/models"
	appErrors "github.com/udgtools/horarios-api/pkg/errors"
)

type claseRepository interface {
	List(ctx context.Context, filter models.ClaseFilter) ([]models.Clase, int, error)
	FindByID(ctx context.Context, id int64) (*models.Clase, error)
	Create(ctx context.Context, clase *models.Clase) error
	Delete(ctx context.Context, id int64) error
}

type claseSeccionRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Seccion, error)
}

// CreateClaseRequest captures fields for creating clases. Times are wall-clock
// "HH:MM" strings; dia uses codes 1 (lunes) through 7 (domingo).
type CreateClaseRequest struct {
	SeccionID  int64   `json:"seccion_id" validate:"required,gt=0"`
	AulaID     *int64  `json:"aula_id"`
	Sesion     *int    `json:"sesion"`
	HoraInicio *string `json:"hora_inicio" validate:"omitempty,len=5"`
	HoraFin    *string `json:"hora_fin" validate:"omitempty,len=5"`
	Dia        *int    `json:"dia" validate:"omitempty,min=1,max=7"`
}

// ClaseService handles class meeting workflows.
type ClaseService struct {
	repo      claseRepository
	secciones claseSeccionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClaseService creates a new clase service.
func NewClaseService(repo claseRepository, secciones claseSeccionRepository, validate *validator.Validate, logger *zap.Logger) *ClaseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClaseService{repo: repo, secciones: secciones, validator: validate, logger: logger}
}

// List returns paginated clases.
func (s *ClaseService) List(ctx context.Context, filter models.ClaseFilter) ([]models.Clase, *models.Pagination, error) {
	clases, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list clases")
	}
	return clases, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a clase by identifier.
func (s *ClaseService) Get(ctx context.Context, id int64) (*models.Clase, error) {
	clase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "clase not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load clase")
	}
	return clase, nil
}

// Create adds a new clase attached to an existing seccion.
func (s *ClaseService) Create(ctx context.Context, req CreateClaseRequest) (*models.Clase, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid clase payload")
	}

	if _, err := s.secciones.FindByID(ctx, req.SeccionID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "seccion not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load seccion")
	}

	clase := &models.Clase{
		SeccionID:  req.SeccionID,
		AulaID:     req.AulaID,
		Sesion:     req.Sesion,
		HoraInicio: req.HoraInicio,
		HoraFin:    req.HoraFin,
		Dia:        req.Dia,
	}
	if err := s.repo.Create(ctx, clase); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create clase")
	}
	return clase, nil
}

// Delete removes a clase.
func (s *ClaseService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete clase")
	}
	return nil
}
