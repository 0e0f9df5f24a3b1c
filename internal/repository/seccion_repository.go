package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/udgtools/horarios-api/internal/models"
)

const seccionColumns = "id, name, nrc, cupos, cupos_disponibles, periodo_inicio, periodo_fin, centro_id, materia_id, profesor_id, calendario_id, created_at, updated_at"

// SeccionRepository handles persistence for secciones.
type SeccionRepository struct {
	db *sqlx.DB
}

// NewSeccionRepository creates a new repository instance.
func NewSeccionRepository(db *sqlx.DB) *SeccionRepository {
	return &SeccionRepository{db: db}
}

// List returns secciones matching filters with pagination metadata.
func (r *SeccionRepository) List(ctx context.Context, filter models.SeccionFilter) ([]models.Seccion, int, error) {
	base := "FROM secciones WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.NRC != "" {
		conditions = append(conditions, fmt.Sprintf("nrc = $%d", len(args)+1))
		args = append(args, filter.NRC)
	}
	if filter.CentroID != nil {
		conditions = append(conditions, fmt.Sprintf("centro_id = $%d", len(args)+1))
		args = append(args, *filter.CentroID)
	}
	if filter.MateriaID != nil {
		conditions = append(conditions, fmt.Sprintf("materia_id = $%d", len(args)+1))
		args = append(args, *filter.MateriaID)
	}
	if filter.ProfesorID != nil {
		conditions = append(conditions, fmt.Sprintf("profesor_id = $%d", len(args)+1))
		args = append(args, *filter.ProfesorID)
	}
	if filter.CalendarioID != nil {
		conditions = append(conditions, fmt.Sprintf("calendario_id = $%d", len(args)+1))
		args = append(args, *filter.CalendarioID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy, order := sanitizeSort(filter.SortBy, filter.SortOrder, map[string]bool{
		"name":       true,
		"nrc":        true,
		"created_at": true,
	})
	limit, offset := sanitizePage(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", seccionColumns, base, sortBy, order, limit, offset)
	var secciones []models.Seccion
	if err := r.db.SelectContext(ctx, &secciones, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list secciones: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count secciones: %w", err)
	}

	return secciones, total, nil
}

// ListByNRCAndCalendario returns secciones matching the composite natural key.
func (r *SeccionRepository) ListByNRCAndCalendario(ctx context.Context, nrc string, calendarioID int64) ([]models.Seccion, int, error) {
	return r.List(ctx, models.SeccionFilter{NRC: nrc, CalendarioID: &calendarioID})
}

// FindByID returns a seccion by id.
func (r *SeccionRepository) FindByID(ctx context.Context, id int64) (*models.Seccion, error) {
	query := fmt.Sprintf("SELECT %s FROM secciones WHERE id = $1", seccionColumns)
	var seccion models.Seccion
	if err := r.db.GetContext(ctx, &seccion, query, id); err != nil {
		return nil, err
	}
	return &seccion, nil
}

// Create persists a new seccion.
func (r *SeccionRepository) Create(ctx context.Context, seccion *models.Seccion) error {
	now := time.Now().UTC()
	seccion.CreatedAt = now
	seccion.UpdatedAt = now

	const query = `INSERT INTO secciones (name, nrc, cupos, cupos_disponibles, periodo_inicio, periodo_fin, centro_id, materia_id, profesor_id, calendario_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		seccion.Name,
		seccion.NRC,
		seccion.Cupos,
		seccion.CuposDisponibles,
		seccion.PeriodoInicio,
		seccion.PeriodoFin,
		seccion.CentroID,
		seccion.MateriaID,
		seccion.ProfesorID,
		seccion.CalendarioID,
		seccion.CreatedAt,
		seccion.UpdatedAt,
	).Scan(&seccion.ID); err != nil {
		return fmt.Errorf("create seccion: %w", err)
	}
	return nil
}

// Update modifies the mutable fields of a seccion. Identity fields (nrc,
// centro_id, calendario_id) are never touched.
func (r *SeccionRepository) Update(ctx context.Context, id int64, update models.SeccionUpdate) error {
	const query = `UPDATE secciones SET name = $1, cupos = $2, cupos_disponibles = $3, periodo_inicio = $4, periodo_fin = $5, materia_id = $6, profesor_id = $7, updated_at = $8 WHERE id = $9`
	if _, err := r.db.ExecContext(ctx, query,
		update.Name,
		update.Cupos,
		update.CuposDisponibles,
		update.PeriodoInicio,
		update.PeriodoFin,
		update.MateriaID,
		update.ProfesorID,
		time.Now().UTC(),
		id,
	); err != nil {
		return fmt.Errorf("update seccion: %w", err)
	}
	return nil
}

// Delete removes a seccion record.
func (r *SeccionRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM secciones WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete seccion: %w", err)
	}
	return nil
}
