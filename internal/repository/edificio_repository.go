package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/udgtools/horarios-api/internal/models"
)

// EdificioRepository handles persistence for edificios.
type EdificioRepository struct {
	db *sqlx.DB
}

// NewEdificioRepository creates a new repository instance.
func NewEdificioRepository(db *sqlx.DB) *EdificioRepository {
	return &EdificioRepository{db: db}
}

// List returns edificios matching filters with pagination metadata.
func (r *EdificioRepository) List(ctx context.Context, filter models.EdificioFilter) ([]models.Edificio, int, error) {
	base := "FROM edificios WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("name = $%d", len(args)+1))
		args = append(args, filter.Name)
	}
	if filter.CentroID != nil {
		conditions = append(conditions, fmt.Sprintf("centro_id = $%d", len(args)+1))
		args = append(args, *filter.CentroID)
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

	query := fmt.Sprintf("SELECT id, name, centro_id, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, sortBy, order, limit, offset)
	var edificios []models.Edificio
	if err := r.db.SelectContext(ctx, &edificios, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list edificios: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count edificios: %w", err)
	}

	return edificios, total, nil
}

// ListByNameAndCentro returns edificios matching the composite natural key.
func (r *EdificioRepository) ListByNameAndCentro(ctx context.Context, name string, centroID int64) ([]models.Edificio, int, error) {
	return r.List(ctx, models.EdificioFilter{Name: name, CentroID: &centroID})
}

// FindByID returns an edificio by id.
func (r *EdificioRepository) FindByID(ctx context.Context, id int64) (*models.Edificio, error) {
	const query = `SELECT id, name, centro_id, created_at, updated_at FROM edificios WHERE id = $1`
	var edificio models.Edificio
	if err := r.db.GetContext(ctx, &edificio, query, id); err != nil {
		return nil, err
	}
	return &edificio, nil
}

// Create persists a new edificio.
func (r *EdificioRepository) Create(ctx context.Context, edificio *models.Edificio) error {
	now := time.Now().UTC()
	edificio.CreatedAt = now
	edificio.UpdatedAt = now

	const query = `INSERT INTO edificios (name, centro_id, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, edificio.Name, edificio.CentroID, edificio.CreatedAt, edificio.UpdatedAt).Scan(&edificio.ID); err != nil {
		return fmt.Errorf("create edificio: %w", err)
	}
	return nil
}

// Update modifies an edificio.
func (r *EdificioRepository) Update(ctx context.Context, edificio *models.Edificio) error {
	edificio.UpdatedAt = time.Now().UTC()
	const query = `UPDATE edificios SET name = :name, centro_id = :centro_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, edificio); err != nil {
		return fmt.Errorf("update edificio: %w", err)
	}
	return nil
}

// Delete removes an edificio record.
func (r *EdificioRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM edificios WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete edificio: %w", err)
	}
	return nil
}
