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

type calendarioRepository interface {
	List(ctx context.Context, filter models.CalendarioFilter) ([]models.Calendario, int, error)
	FindByID(ctx context.Context, id int64) (*models.Calendario, error)
	Create(ctx context.Context, calendario *models.Calendario) error
	Update(ctx context.Context, calendario *models.Calendario) error
	Delete(ctx context.Context, id int64) error
}

// CreateCalendarioRequest captures fields for creating calendarios.
type CreateCalendarioRequest struct {
	Name    string `json:"name" validate:"required"`
	SiiauID string `json:"siiau_id" validate:"required"`
}

// UpdateCalendarioRequest modifies calendario fields.
type UpdateCalendarioRequest struct {
	Name    string `json:"name" validate:"required"`
	SiiauID string `json:"siiau_id" validate:"required"`
}

// CalendarioService handles academic term workflows.
type CalendarioService struct {
	repo      calendarioRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCalendarioService creates a new calendario service.
func NewCalendarioService(repo calendarioRepository, validate *validator.Validate, logger *zap.Logger) *CalendarioService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarioService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated calendarios.
func (s *CalendarioService) List(ctx context.Context, filter models.CalendarioFilter) ([]models.Calendario, *models.Pagination, error) {
	calendarios, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list calendarios")
	}
	return calendarios, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a calendario by identifier.
func (s *CalendarioService) Get(ctx context.Context, id int64) (*models.Calendario, error) {
	calendario, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "calendario not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendario")
	}
	return calendario, nil
}

// Create adds a new calendario ensuring the SIIAU cycle id is unique.
func (s *CalendarioService) Create(ctx context.Context, req CreateCalendarioRequest) (*models.Calendario, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendario payload")
	}

	req.SiiauID = strings.TrimSpace(req.SiiauID)
	if err := s.ensureSiiauIDFree(ctx, req.SiiauID, 0); err != nil {
		return nil, err
	}

	calendario := &models.Calendario{Name: strings.TrimSpace(req.Name), SiiauID: req.SiiauID}
	if err := s.repo.Create(ctx, calendario); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create calendario")
	}
	return calendario, nil
}

// Update modifies an existing calendario.
func (s *CalendarioService) Update(ctx context.Context, id int64, req UpdateCalendarioRequest) (*models.Calendario, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendario payload")
	}

	calendario, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.SiiauID = strings.TrimSpace(req.SiiauID)
	if err := s.ensureSiiauIDFree(ctx, req.SiiauID, id); err != nil {
		return nil, err
	}

	calendario.Name = strings.TrimSpace(req.Name)
	calendario.SiiauID = req.SiiauID
	if err := s.repo.Update(ctx, calendario); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update calendario")
	}
	return calendario, nil
}

// Delete removes a calendario.
func (s *CalendarioService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete calendario")
	}
	return nil
}

func (s *CalendarioService) ensureSiiauIDFree(ctx context.Context, siiauID string, excludeID int64) error {
	existing, _, err := s.repo.List(ctx, models.CalendarioFilter{SiiauID: siiauID, PageSize: 1})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check calendario siiau id")
	}
	for _, c := range existing {
		if c.ID != excludeID {
			return appErrors.Clone(appErrors.ErrConflict, "calendario siiau id already exists")
		}
	}
	return nil
}
