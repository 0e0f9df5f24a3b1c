package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/udgtools/horarios-api/internal/models"
)

// MateriaRepository handles persistence for materias.
type MateriaRepository struct {
	db *sqlx.DB
}

// NewMateriaRepository creates a new repository instance.
func NewMateriaRepository(db *sqlx.DB) *MateriaRepository {
	return &MateriaRepository{db: db}
}

// List returns materias matching filters with pagination metadata.
func (r *MateriaRepository) List(ctx context.Context, filter models.MateriaFilter) ([]models.Materia, int, error) {
	base := "FROM materias WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Clave != "" {
		conditions = append(conditions, fmt.Sprintf("clave = $%d", len(args)+1))
		args = append(args, filter.Clave)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(clave) LIKE $%d OR LOWER(name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy, order := sanitizeSort(filter.SortBy, filter.SortOrder, map[string]bool{
		"clave":      true,
		"name":       true,
		"creditos":   true,
		"created_at": true,
	})
	limit, offset := sanitizePage(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT id, clave, name, creditos, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, sortBy, order, limit, offset)
	var materias []models.Materia
	if err := r.db.SelectContext(ctx, &materias, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list materias: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count materias: %w", err)
	}

	return materias, total, nil
}

// ListByClave returns materias matching the unique clave key.
func (r *MateriaRepository) ListByClave(ctx context.Context, clave string) ([]models.Materia, int, error) {
	return r.List(ctx, models.MateriaFilter{Clave: clave})
}

// FindByID returns a materia by id.
func (r *MateriaRepository) FindByID(ctx context.Context, id int64) (*models.Materia, error) {
	const query = `SELECT id, clave, name, creditos, created_at, updated_at FROM materias WHERE id = $1`
	var materia models.Materia
	if err := r.db.GetContext(ctx, &materia, query, id); err != nil {
		return nil, err
	}
	return &materia, nil
}

// Create persists a new materia.
func (r *MateriaRepository) Create(ctx context.Context, materia *models.Materia) error {
	now := time.Now().UTC()
	materia.CreatedAt = now
	materia.UpdatedAt = now

	const query = `INSERT INTO materias (clave, name, creditos, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, materia.Clave, materia.Name, materia.Creditos, materia.CreatedAt, materia.UpdatedAt).Scan(&materia.ID); err != nil {
		return fmt.Errorf("create materia: %w", err)
	}
	return nil
}

// Update modifies a materia.
func (r *MateriaRepository) Update(ctx context.Context, materia *models.Materia) error {
	materia.UpdatedAt = time.Now().UTC()
	const query = `UPDATE materias SET clave = :clave, name = :name, creditos = :creditos, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, materia); err != nil {
		return fmt.Errorf("update materia: %w", err)
	}
	return nil
}

// Delete removes a materia record.
func (r *MateriaRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM materias WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete materia: %w", err)
	}
	return nil
}
