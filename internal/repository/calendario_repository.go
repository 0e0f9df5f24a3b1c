package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/udgtools/horarios-api/internal/models"
)

// CalendarioRepository handles persistence for calendarios.
type CalendarioRepository struct {
	db *sqlx.DB
}

// NewCalendarioRepository creates a new repository instance.
func NewCalendarioRepository(db *sqlx.DB) *CalendarioRepository {
	return &CalendarioRepository{db: db}
}

// List returns calendarios matching filters with pagination metadata.
func (r *CalendarioRepository) List(ctx context.Context, filter models.CalendarioFilter) ([]models.Calendario, int, error) {
	base := "FROM calendarios WHERE 1=1"
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
	var calendarios []models.Calendario
	if err := r.db.SelectContext(ctx, &calendarios, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list calendarios: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count calendarios: %w", err)
	}

	return calendarios, total, nil
}

// FindByID returns a calendario by id.
func (r *CalendarioRepository) FindByID(ctx context.Context, id int64) (*models.Calendario, error) {
	const query = `SELECT id, name, siiau_id, created_at, updated_at FROM calendarios WHERE id = $1`
	var calendario models.Calendario
	if err := r.db.GetContext(ctx, &calendario, query, id); err != nil {
		return nil, err
	}
	return &calendario, nil
}

// Create persists a new calendario.
func (r *CalendarioRepository) Create(ctx context.Context, calendario *models.Calendario) error {
	now := time.Now().UTC()
	calendario.CreatedAt = now
	calendario.UpdatedAt = now

	const query = `INSERT INTO calendarios (name, siiau_id, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, calendario.Name, calendario.SiiauID, calendario.CreatedAt, calendario.UpdatedAt).Scan(&calendario.ID); err != nil {
		return fmt.Errorf("create calendario: %w", err)
	}
	return nil
}

// Update modifies a calendario.
func (r *CalendarioRepository) Update(ctx context.Context, calendario *models.Calendario) error {
	calendario.UpdatedAt = time.Now().UTC()
	const query = `UPDATE calendarios SET name = :name, siiau_id = :siiau_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, calendario); err != nil {
		return fmt.Errorf("update calendario: %w", err)
	}
	return nil
}

// Delete removes a calendario record.
func (r *CalendarioRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM calendarios WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete calendario: %w", err)
	}
	return nil
}
