package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/udgtools/horarios-api/internal/models"
)

const claseColumns = "id, seccion_id, aula_id, sesion, hora_inicio, hora_fin, dia, created_at, updated_at"

// ClaseRepository handles persistence for clases (class meetings).
type ClaseRepository struct {
	db *sqlx.DB
}

// NewClaseRepository creates a new repository instance.
func NewClaseRepository(db *sqlx.DB) *ClaseRepository {
	return &ClaseRepository{db: db}
}

// List returns clases matching filters with pagination metadata.
func (r *ClaseRepository) List(ctx context.Context, filter models.ClaseFilter) ([]models.Clase, int, error) {
	base := "FROM clases WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SeccionID != nil {
		conditions = append(conditions, fmt.Sprintf("seccion_id = $%d", len(args)+1))
		args = append(args, *filter.SeccionID)
	}
	if filter.AulaID != nil {
		conditions = append(conditions, fmt.Sprintf("aula_id = $%d", len(args)+1))
		args = append(args, *filter.AulaID)
	}
	if filter.Dia != nil {
		conditions = append(conditions, fmt.Sprintf("dia = $%d", len(args)+1))
		args = append(args, *filter.Dia)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy, order := sanitizeSort(filter.SortBy, filter.SortOrder, map[string]bool{
		"dia":        true,
		"created_at": true,
	})
	limit, offset := sanitizePage(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", claseColumns, base, sortBy, order, limit, offset)
	var clases []models.Clase
	if err := r.db.SelectContext(ctx, &clases, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list clases: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count clases: %w", err)
	}

	return clases, total, nil
}

// ListBySeccion returns all clases belonging to a seccion.
func (r *ClaseRepository) ListBySeccion(ctx context.Context, seccionID int64) ([]models.Clase, int, error) {
	return r.List(ctx, models.ClaseFilter{SeccionID: &seccionID})
}

// FindByID returns a clase by id.
func (r *ClaseRepository) FindByID(ctx context.Context, id int64) (*models.Clase, error) {
	query := fmt.Sprintf("SELECT %s FROM clases WHERE id = $1", claseColumns)
	var clase models.Clase
	if err := r.db.GetContext(ctx, &clase, query, id); err != nil {
		return nil, err
	}
	return &clase, nil
}

// Create persists a new clase.
func (r *ClaseRepository) Create(ctx context.Context, clase *models.Clase) error {
	now := time.Now().UTC()
	clase.CreatedAt = now
	clase.UpdatedAt = now

	const query = `INSERT INTO clases (seccion_id, aula_id, sesion, hora_inicio, hora_fin, dia, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		clase.SeccionID,
		clase.AulaID,
		clase.Sesion,
		clase.HoraInicio,
		clase.HoraFin,
		clase.Dia,
		clase.CreatedAt,
		clase.UpdatedAt,
	).Scan(&clase.ID); err != nil {
		return fmt.Errorf("create clase: %w", err)
	}
	return nil
}

// Delete removes a clase record.
func (r *ClaseRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM clases WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete clase: %w", err)
	}
	return nil
}
