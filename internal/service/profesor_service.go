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

type profesorRepository interface {
	List(ctx context.Context, filter models.ProfesorFilter) ([]models.Profesor, int, error)
	ListByName(ctx context.Context, name string) ([]models.Profesor, int, error)
	FindByID(ctx context.Context, id int64) (*models.Profesor, error)
	Create(ctx context.Context, profesor *models.Profesor) error
	Update(ctx context.Context, profesor *models.Profesor) error
	Delete(ctx context.Context, id int64) error
}

// CreateProfesorRequest captures fields for creating profesores.
type CreateProfesorRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateProfesorRequest modifies profesor fields.
type UpdateProfesorRequest struct {
	Name string `json:"name" validate:"required"`
}

// ProfesorService handles instructor workflows.
type ProfesorService struct {
	repo      profesorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfesorService creates a new profesor service.
func NewProfesorService(repo profesorRepository, validate *validator.Validate, logger *zap.Logger) *ProfesorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfesorService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated profesores.
func (s *ProfesorService) List(ctx context.Context, filter models.ProfesorFilter) ([]models.Profesor, *models.Pagination, error) {
	profesores, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list profesores")
	}
	return profesores, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a profesor by identifier.
func (s *ProfesorService) Get(ctx context.Context, id int64) (*models.Profesor, error) {
	profesor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profesor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profesor")
	}
	return profesor, nil
}

// Create adds a new profesor ensuring the name is unique.
func (s *ProfesorService) Create(ctx context.Context, req CreateProfesorRequest) (*models.Profesor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profesor payload")
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	profesor := &models.Profesor{Name: req.Name}
	if err := s.repo.Create(ctx, profesor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create profesor")
	}
	return profesor, nil
}

// Update modifies an existing profesor.
func (s *ProfesorService) Update(ctx context.Context, id int64, req UpdateProfesorRequest) (*models.Profesor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profesor payload")
	}

	profesor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, req.Name, id); err != nil {
		return nil, err
	}

	profesor.Name = req.Name
	if err := s.repo.Update(ctx, profesor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profesor")
	}
	return profesor, nil
}

// Delete removes a profesor.
func (s *ProfesorService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete profesor")
	}
	return nil
}

func (s *ProfesorService) ensureNameFree(ctx context.Context, name string, excludeID int64) error {
	existing, _, err := s.repo.ListByName(ctx, name)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check profesor name")
	}
	for _, p := range existing {
		if p.ID != excludeID {
			return appErrors.Clone(appErrors.ErrConflict, "profesor name already exists")
		}
	}
	return nil
}
