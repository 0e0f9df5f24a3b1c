package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/udgtools/horarios-api/internal/models"
)

// CentroRepository handles persistence for centros universitarios.
type CentroRepository struct {
	db *sqlx.DB
}

// NewCentroRepository creates a new repository instance.
func NewCentroRepository(db *sqlx.DB) *CentroRepository {
	return &CentroRepository{db: db}
}

// List returns centros matching filters with pagination metadata.
func (r *CentroRepository) List(ctx context.Context, filter models.CentroFilter) ([]models.Centro, int, error) {
	base := "FROM centros WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SiiauID != "" {
		conditions = append(conditions, fmt.Sprintf("siiau_id = $%d", len(args)+1))
		args = append(args, filter.SiiauID)
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
		"siiau_id":   true,
		"created_at": true,
	})
	limit, offset := sanitizePage(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT id, name, siiau_id, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, sortBy, order, limit, offset)
	var centros []models.Centro
	if err := r.db.SelectContext(ctx, &centros, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list centros: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count centros: %w", err)
	}

	return centros, total, nil
}

// FindByID returns a centro by id.
func (r *CentroRepository) FindByID(ctx context.Context, id int64) (*models.Centro, error) {
	const query = `SELECT id, name, siiau_id, created_at, updated_at FROM centros WHERE id = $1`
	var centro models.Centro
	if err := r.db.GetContext(ctx, &centro, query, id); err != nil {
		return nil, err
	}
	return &centro, nil
}

// Create persists a new centro.
func (r *CentroRepository) Create(ctx context.Context, centro *models.Centro) error {
	now := time.Now().UTC()
	centro.CreatedAt = now
	centro.UpdatedAt = now

	const query = `INSERT INTO centros (name, siiau_id, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, centro.Name, centro.SiiauID, centro.CreatedAt, centro.UpdatedAt).Scan(&centro.ID); err != nil {
		return fmt.Errorf("create centro: %w", err)
	}
	return nil
}

// Update modifies a centro.
func (r *CentroRepository) Update(ctx context.Context, centro *models.Centro) error {
	centro.UpdatedAt = time.Now().UTC()
	const query = `UPDATE centros SET name = :name, siiau_id = :siiau_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, centro); err != nil {
		return fmt.Errorf("update centro: %w", err)
	}
	return nil
}

// Delete removes a centro record.
func (r *CentroRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM centros WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete centro: %w", err)
	}
	return nil
}
