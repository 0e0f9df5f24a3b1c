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

type centroRepository interface {
	List(ctx context.Context, filter models.CentroFilter) ([]models.Centro, int, error)
	FindByID(ctx context.Context, id int64) (*models.Centro, error)
	Create(ctx context.Context, centro *models.Centro) error
	Update(ctx context.Context, centro *models.Centro) error
	Delete(ctx context.Context, id int64) error
}

// CreateCentroRequest captures fields for creating centros.
type CreateCentroRequest struct {
	Name    string `json:"name" validate:"required"`
	SiiauID string `json:"siiau_id" validate:"required"`
}

// UpdateCentroRequest modifies centro fields.
type UpdateCentroRequest struct {
	Name    string `json:"name" validate:"required"`
	SiiauID string `json:"siiau_id" validate:"required"`
}

// CentroService handles campus workflows.
type CentroService struct {
	repo      centroRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCentroService creates a new centro service.
func NewCentroService(repo centroRepository, validate *validator.Validate, logger *zap.Logger) *CentroService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CentroService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated centros.
func (s *CentroService) List(ctx context.Context, filter models.CentroFilter) ([]models.Centro, *models.Pagination, error) {
	centros, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list centros")
	}
	return centros, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a centro by identifier.
func (s *CentroService) Get(ctx context.Context, id int64) (*models.Centro, error) {
	centro, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "centro not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load centro")
	}
	return centro, nil
}

// Create adds a new centro ensuring the SIIAU id is unique.
func (s *CentroService) Create(ctx context.Context, req CreateCentroRequest) (*models.Centro, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid centro payload")
	}

	req.SiiauID = strings.ToUpper(strings.TrimSpace(req.SiiauID))

	if err := s.ensureSiiauIDFree(ctx, req.SiiauID, 0); err != nil {
		return nil, err
	}

	centro := &models.Centro{Name: strings.TrimSpace(req.Name), SiiauID: req.SiiauID}
	if err := s.repo.Create(ctx, centro); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create centro")
	}
	return centro, nil
}

// Update modifies an existing centro.
func (s *CentroService) Update(ctx context.Context, id int64, req UpdateCentroRequest) (*models.Centro, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid centro payload")
	}

	centro, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.SiiauID = strings.ToUpper(strings.TrimSpace(req.SiiauID))
	if err := s.ensureSiiauIDFree(ctx, req.SiiauID, id); err != nil {
		return nil, err
	}

	centro.Name = strings.TrimSpace(req.Name)
	centro.SiiauID = req.SiiauID
	if err := s.repo.Update(ctx, centro); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update centro")
	}
	return centro, nil
}

// Delete removes a centro.
func (s *CentroService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete centro")
	}
	return nil
}

func (s *CentroService) ensureSiiauIDFree(ctx context.Context, siiauID string, excludeID int64) error {
	existing, _, err := s.repo.List(ctx, models.CentroFilter{SiiauID: siiauID, PageSize: 1})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check centro siiau id")
	}
	for _, c := range existing {
		if c.ID != excludeID {
			return appErrors.Clone(appErrors.ErrConflict, "centro siiau id already exists")
		}
	}
	return nil
}
