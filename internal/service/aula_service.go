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

type aulaRepository interface {
	List(ctx context.Context, filter models.AulaFilter) ([]models.Aula, int, error)
	ListByNameAndEdificio(ctx context.Context, name string, edificioID int64) ([]models.Aula, int, error)
	FindByID(ctx context.Context, id int64) (*models.Aula, error)
	Create(ctx context.Context, aula *models.Aula) error
	Update(ctx context.Context, aula *models.Aula) error
	Delete(ctx context.Context, id int64) error
}

type aulaEdificioRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Edificio, error)
}

// CreateAulaRequest captures fields for creating aulas.
type CreateAulaRequest struct {
	Name       string `json:"name" validate:"required"`
	EdificioID int64  `json:"edificio_id" validate:"required,gt=0"`
}

// UpdateAulaRequest modifies aula fields.
type UpdateAulaRequest struct {
	Name       string `json:"name" validate:"required"`
	EdificioID int64  `json:"edificio_id" validate:"required,gt=0"`
}

// AulaService handles classroom workflows.
type AulaService struct {
	repo      aulaRepository
	edificios aulaEdificioRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAulaService creates a new aula service.
func NewAulaService(repo aulaRepository, edificios aulaEdificioRepository, validate *validator.Validate, logger *zap.Logger) *AulaService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AulaService{repo: repo, edificios: edificios, validator: validate, logger: logger}
}

// List returns paginated aulas.
func (s *AulaService) List(ctx context.Context, filter models.AulaFilter) ([]models.Aula, *models.Pagination, error) {
	aulas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list aulas")
	}
	return aulas, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns an aula by identifier.
func (s *AulaService) Get(ctx context.Context, id int64) (*models.Aula, error) {
	aula, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "aula not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load aula")
	}
	return aula, nil
}

// Create adds a new aula ensuring (name, edificio) uniqueness.
func (s *AulaService) Create(ctx context.Context, req CreateAulaRequest) (*models.Aula, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid aula payload")
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := s.ensureEdificio(ctx, req.EdificioID); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, req.Name, req.EdificioID, 0); err != nil {
		return nil, err
	}

	aula := &models.Aula{Name: req.Name, EdificioID: req.EdificioID}
	if err := s.repo.Create(ctx, aula); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create aula")
	}
	return aula, nil
}

// Update modifies an existing aula.
func (s *AulaService) Update(ctx context.Context, id int64, req UpdateAulaRequest) (*models.Aula, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid aula payload")
	}

	aula, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := s.ensureEdificio(ctx, req.EdificioID); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, req.Name, req.EdificioID, id); err != nil {
		return nil, err
	}

	aula.Name = req.Name
	aula.EdificioID = req.EdificioID
	if err := s.repo.Update(ctx, aula); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update aula")
	}
	return aula, nil
}

// Delete removes an aula.
func (s *AulaService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete aula")
	}
	return nil
}

func (s *AulaService) ensureEdificio(ctx context.Context, edificioID int64) error {
	if _, err := s.edificios.FindByID(ctx, edificioID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "edificio not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load edificio")
	}
	return nil
}

func (s *AulaService) ensureNameFree(ctx context.Context, name string, edificioID, excludeID int64) error {
	existing, _, err := s.repo.ListByNameAndEdificio(ctx, name, edificioID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check aula name")
	}
	for _, a := range existing {
		if a.ID != excludeID {
			return appErrors.Clone(appErrors.ErrConflict, "aula already exists in that edificio")
		}
	}
	return nil
}
