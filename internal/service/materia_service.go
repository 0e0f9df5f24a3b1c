package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/udgtools/horarios-api/internal/models"
	appErrors "github.com/udgtools/horarios-api/pkg/errors"
)

type materiaRepository interface {
	List(ctx context.Context, filter models.MateriaFilter) ([]models.Materia, int, error)
	ListByClave(ctx context.Context, clave string) ([]models.Materia, int, error)
	FindByID(ctx context.Context, id int64) (*models.Materia, error)
	Create(ctx context.Context, materia *models.Materia) error
	Update(ctx context.Context, materia *models.Materia) error
	Delete(ctx context.Context, id int64) error
}

// CreateMateriaRequest captures fields for creating materias.
type CreateMateriaRequest struct {
	Clave    string `json:"clave" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Creditos int    `json:"creditos" validate:"gte=0"`
}

// UpdateMateriaRequest modifies materia fields.
type UpdateMateriaRequest struct {
	Clave    string `json:"clave" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Creditos int    `json:"creditos" validate:"gte=0"`
}

// MateriaService handles subject workflows.
type MateriaService struct {
	repo      materiaRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMateriaService creates a new materia service.
func NewMateriaService(repo materiaRepository, validate *validator.Validate, logger *zap.Logger) *MateriaService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MateriaService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated materias.
func (s *MateriaService) List(ctx context.Context, filter models.MateriaFilter) ([]models.Materia, *models.Pagination, error) {
	materias, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list materias")
	}
	return materias, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a materia by identifier.
func (s *MateriaService) Get(ctx context.Context, id int64) (*models.Materia, error) {
	materia, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "materia not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load materia")
	}
	return materia, nil
}

// Create adds a new materia ensuring clave uniqueness.
func (s *MateriaService) Create(ctx context.Context, req CreateMateriaRequest) (*models.Materia, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid materia payload")
	}

	req.Clave = strings.TrimSpace(req.Clave)
	if err := s.ensureClaveFree(ctx, req.Clave, 0); err != nil {
		return nil, err
	}

	materia := &models.Materia{Clave: req.Clave, Name: strings.TrimSpace(req.Name), Creditos: req.Creditos}
	if err := s.repo.Create(ctx, materia); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create materia")
	}
	return materia, nil
}

// Update modifies an existing materia.
func (s *MateriaService) Update(ctx context.Context, id int64, req UpdateMateriaRequest) (*models.Materia, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid materia payload")
	}

	materia, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Clave = strings.TrimSpace(req.Clave)
	if err := s.ensureClaveFree(ctx, req.Clave, id); err != nil {
		return nil, err
	}

	materia.Clave = req.Clave
	materia.Name = strings.TrimSpace(req.Name)
	materia.Creditos = req.Creditos
	if err := s.repo.Update(ctx, materia); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update materia")
	}
	return materia, nil
}

// Delete removes a materia.
func (s *MateriaService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete materia")
	}
	return nil
}

func (s *MateriaService) ensureClaveFree(ctx context.Context, clave string, excludeID int64) error {
	existing, _, err := s.repo.ListByClave(ctx, clave)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check materia clave")
	}
	for _, m := range existing {
		if m.ID != excludeID {
			return appErrors.Clone(appErrors.ErrConflict, "materia clave already exists")
		}
	}
	return nil
}
