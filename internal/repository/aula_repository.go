package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/udgtools/horarios-api/internal/models"
)

// AulaRepository handles persistence for aulas.
type AulaRepository struct {
	db *sqlx.DB
}

// NewAulaRepository creates a new repository instance.
func NewAulaRepository(db *sqlx.DB) *AulaRepository {
	return &AulaRepository{db: db}
}

// List returns aulas matching filters with pagination metadata.
func (r *AulaRepository) List(ctx context.Context, filter models.AulaFilter) ([]models.Aula, int, error) {
	base := "FROM aulas WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("name = $%d", len(args)+1))
		args = append(args, filter.Name)
	}
	if filter.EdificioID != nil {
		conditions = append(conditions, fmt.Sprintf("edificio_id = $%d", len(args)+1))
		args = append(args, *filter.EdificioID)
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

	query := fmt.Sprintf("SELECT id, name, edificio_id, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, sortBy, order, limit, offset)
	var aulas []models.Aula
	if err := r.db.SelectContext(ctx, &aulas, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list aulas: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count aulas: %w", err)
	}

	return aulas, total, nil
}

// ListByNameAndEdificio returns aulas matching the composite natural key.
func (r *AulaRepository) ListByNameAndEdificio(ctx context.Context, name string, edificioID int64) ([]models.Aula, int, error) {
	return r.List(ctx, models.AulaFilter{Name: name, EdificioID: &edificioID})
}

// FindByID returns an aula by id.
func (r *AulaRepository) FindByID(ctx context.Context, id int64) (*models.Aula, error) {
	const query = `SELECT id, name, edificio_id, created_at, updated_at FROM aulas WHERE id = $1`
	var aula models.Aula
	if err := r.db.GetContext(ctx, &aula, query, id); err != nil {
		return nil, err
	}
	return &aula, nil
}

// Create persists a new aula.
func (r *AulaRepository) Create(ctx context.Context, aula *models.Aula) error {
	now := time.Now().UTC()
	aula.CreatedAt = now
	aula.UpdatedAt = now

	const query = `INSERT INTO aulas (name, edificio_id, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, aula.Name, aula.EdificioID, aula.CreatedAt, aula.UpdatedAt).Scan(&aula.ID); err != nil {
		return fmt.Errorf("create aula: %w", err)
	}
	return nil
}

// Update modifies an aula.
func (r *AulaRepository) Update(ctx context.Context, aula *models.Aula) error {
	aula.UpdatedAt = time.Now().UTC()
	const query = `UPDATE aulas SET name = :name, edificio_id = :edificio_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, aula); err != nil {
		return fmt.Errorf("update aula: %w", err)
	}
	return nil
}

// Delete removes an aula record.
func (r *AulaRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM aulas WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete aula: %w", err)
	}
	return nil
}
