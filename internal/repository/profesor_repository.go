package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/udgtools/horarios-api/internal/models"
)

// ProfesorRepository handles persistence for profesores.
type ProfesorRepository struct {
	db *sqlx.DB
}

// NewProfesorRepository creates a new repository instance.
func NewProfesorRepository(db *sqlx.DB) *ProfesorRepository {
	return &ProfesorRepository{db: db}
}

// List returns profesores matching filters with pagination metadata.
func (r *ProfesorRepository) List(ctx context.Context, filter models.ProfesorFilter) ([]models.Profesor, int, error) {
	base := "FROM profesores WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("name = $%d", len(args)+1))
		args = append(args, filter.Name)
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
		"created_at": true,
	})
	limit, offset := sanitizePage(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT id, name, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, sortBy, order, limit, offset)
	var profesores []models.Profesor
	if err := r.db.SelectContext(ctx, &profesores, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list profesores: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count profesores: %w", err)
	}

	return profesores, total, nil
}

// ListByName returns profesores matching the unique name key.
func (r *ProfesorRepository) ListByName(ctx context.Context, name string) ([]models.Profesor, int, error) {
	return r.List(ctx, models.ProfesorFilter{Name: name})
}

// FindByID returns a profesor by id.
func (r *ProfesorRepository) FindByID(ctx context.Context, id int64) (*models.Profesor, error) {
	const query = `SELECT id, name, created_at, updated_at FROM profesores WHERE id = $1`
	var profesor models.Profesor
	if err := r.db.GetContext(ctx, &profesor, query, id); err != nil {
		return nil, err
	}
	return &profesor, nil
}

// Create persists a new profesor.
func (r *ProfesorRepository) Create(ctx context.Context, profesor *models.Profesor) error {
	now := time.Now().UTC()
	profesor.CreatedAt = now
	profesor.UpdatedAt = now

	const query = `INSERT INTO profesores (name, created_at, updated_at) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, profesor.Name, profesor.CreatedAt, profesor.UpdatedAt).Scan(&profesor.ID); err != nil {
		return fmt.Errorf("create profesor: %w", err)
	}
	return nil
}

// Update modifies a profesor.
func (r *ProfesorRepository) Update(ctx context.Context, profesor *models.Profesor) error {
	profesor.UpdatedAt = time.Now().UTC()
	const query = `UPDATE profesores SET name = :name, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, profesor); err != nil {
		return fmt.Errorf("update profesor: %w", err)
	}
	return nil
}

// Delete removes a profesor record.
func (r *ProfesorRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profesores WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete profesor: %w", err)
	}
	return nil
}
