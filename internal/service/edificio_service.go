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

type edificioRepository interface {
	List(ctx context.Context, filter models.EdificioFilter) ([]models.Edificio, int, error)
	ListByNameAndCentro(ctx context.Context, name string, centroID int64) ([]models.Edificio, int, error)
	FindByID(ctx context.Context, id int64) (*models.Edificio, error)
	Create(ctx context.Context, edificio *models.Edificio) error
	Update(ctx context.Context, edificio *models.Edificio) error
	Delete(ctx context.Context, id int64) error
}

type edificioCentroRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Centro, error)
}

// CreateEdificioRequest captures fields for creating edificios.
type CreateEdificioRequest struct {
	Name     string `json:"name" validate:"required"`
	CentroID int64  `json:"centro_id" validate:"required,gt=0"`
}

// UpdateEdificioRequest modifies edificio fields.
type UpdateEdificioRequest struct {
	Name     string `json:"name" validate:"required"`
	CentroID int64  `json:"centro_id" validate:"required,gt=0"`
}

// EdificioService handles building workflows.
type EdificioService struct {
	repo      edificioRepository
	centros   edificioCentroRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEdificioService creates a new edificio service.
func NewEdificioService(repo edificioRepository, centros edificioCentroRepository, validate *validator.Validate, logger *zap.Logger) *EdificioService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EdificioService{repo: repo, centros: centros, validator: validate, logger: logger}
}

// List returns paginated edificios.
func (s *EdificioService) List(ctx context.Context, filter models.EdificioFilter) ([]models.Edificio, *models.Pagination, error) {
	edificios, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list edificios")
	}
	return edificios, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns an edificio by identifier.
func (s *EdificioService) Get(ctx context.Context, id int64) (*models.Edificio, error) {
	edificio, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "edificio not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load edificio")
	}
	return edificio, nil
}

// Create adds a new edificio ensuring (name, centro) uniqueness.
func (s *EdificioService) Create(ctx context.Context, req CreateEdificioRequest) (*models.Edificio, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid edificio payload")
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := s.ensureCentro(ctx, req.CentroID); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, req.Name, req.CentroID, 0); err != nil {
		return nil, err
	}

	edificio := &models.Edificio{Name: req.Name, CentroID: req.CentroID}
	if err := s.repo.Create(ctx, edificio); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create edificio")
	}
	return edificio, nil
}

// Update modifies an existing edificio.
func (s *EdificioService) Update(ctx context.Context, id int64, req UpdateEdificioRequest) (*models.Edificio, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid edificio payload")
	}

	edificio, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := s.ensureCentro(ctx, req.CentroID); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, req.Name, req.CentroID, id); err != nil {
		return nil, err
	}

	edificio.Name = req.Name
	edificio.CentroID = req.CentroID
	if err := s.repo.Update(ctx, edificio); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update edificio")
	}
	return edificio, nil
}

// Delete removes an edificio.
func (s *EdificioService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete edificio")
	}
	return nil
}

func (s *EdificioService) ensureCentro(ctx context.Context, centroID int64) error {
	if _, err := s.centros.FindByID(ctx, centroID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "centro not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load centro")
	}
	return nil
}

func (s *EdificioService) ensureNameFree(ctx context.Context, name string, centroID, excludeID int64) error {
	existing, _, err := s.repo.ListByNameAndCentro(ctx, name, centroID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check edificio name")
	}
	for _, e := range existing {
		if e.ID != excludeID {
			return appErrors.Clone(appErrors.ErrConflict, "edificio already exists in that centro")
		}
	}
	return nil
}
