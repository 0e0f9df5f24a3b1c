package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udgtools/horarios-api/internal/models"
	appErrors "github.com/udgtools/horarios-api/pkg/errors"
)

type fakeMateriaRepo struct {
	items   map[int64]*models.Materia
	nextID  int64
	listErr error
}

func newFakeMateriaRepo() *fakeMateriaRepo {
	return &fakeMateriaRepo{items: make(map[int64]*models.Materia), nextID: 1}
}

func (f *fakeMateriaRepo) List(_ context.Context, filter models.MateriaFilter) ([]models.Materia, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var out []models.Materia
	for _, m := range f.items {
		if filter.Clave != "" && m.Clave != filter.Clave {
			continue
		}
		out = append(out, *m)
	}
	return out, len(out), nil
}

func (f *fakeMateriaRepo) ListByClave(ctx context.Context, clave string) ([]models.Materia, int, error) {
	return f.List(ctx, models.MateriaFilter{Clave: clave})
}

func (f *fakeMateriaRepo) FindByID(_ context.Context, id int64) (*models.Materia, error) {
	m, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := *m
	return &out, nil
}

func (f *fakeMateriaRepo) Create(_ context.Context, materia *models.Materia) error {
	materia.ID = f.nextID
	f.nextID++
	stored := *materia
	f.items[materia.ID] = &stored
	return nil
}

func (f *fakeMateriaRepo) Update(_ context.Context, materia *models.Materia) error {
	stored := *materia
	f.items[materia.ID] = &stored
	return nil
}

func (f *fakeMateriaRepo) Delete(_ context.Context, id int64) error {
	delete(f.items, id)
	return nil
}

func TestMateriaServiceCreateTrimsAndStores(t *testing.T) {
	repo := newFakeMateriaRepo()
	svc := NewMateriaService(repo, nil, nil)

	materia, err := svc.Create(context.Background(), CreateMateriaRequest{
		Clave:    "  I5897  ",
		Name:     " PROGRAMACION ESTRUCTURADA ",
		Creditos: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, "I5897", materia.Clave)
	assert.Equal(t, "PROGRAMACION ESTRUCTURADA", materia.Name)
	assert.NotZero(t, materia.ID)
}

func TestMateriaServiceCreateDuplicateClave(t *testing.T) {
	repo := newFakeMateriaRepo()
	svc := NewMateriaService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateMateriaRequest{Clave: "I5897", Name: "A", Creditos: 8})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateMateriaRequest{Clave: "I5897", Name: "B", Creditos: 8})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Len(t, repo.items, 1)
}

func TestMateriaServiceUpdateKeepingOwnClave(t *testing.T) {
	repo := newFakeMateriaRepo()
	svc := NewMateriaService(repo, nil, nil)

	created, err := svc.Create(context.Background(), CreateMateriaRequest{Clave: "I5897", Name: "A", Creditos: 8})
	require.NoError(t, err)

	// Same clave on the same row is not a conflict.
	updated, err := svc.Update(context.Background(), created.ID, UpdateMateriaRequest{Clave: "I5897", Name: "A2", Creditos: 10})
	require.NoError(t, err)
	assert.Equal(t, "A2", updated.Name)
	assert.Equal(t, 10, updated.Creditos)
}

func TestMateriaServiceUpdateClaveConflict(t *testing.T) {
	repo := newFakeMateriaRepo()
	svc := NewMateriaService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateMateriaRequest{Clave: "I5897", Name: "A", Creditos: 8})
	require.NoError(t, err)
	other, err := svc.Create(context.Background(), CreateMateriaRequest{Clave: "I5898", Name: "B", Creditos: 8})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), other.ID, UpdateMateriaRequest{Clave: "I5897", Name: "B", Creditos: 8})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestMateriaServiceGetNotFound(t *testing.T) {
	svc := NewMateriaService(newFakeMateriaRepo(), nil, nil)

	_, err := svc.Get(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestMateriaServiceCreateValidatesPayload(t *testing.T) {
	svc := NewMateriaService(newFakeMateriaRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateMateriaRequest{Name: "no clave"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestMateriaServiceDelete(t *testing.T) {
	repo := newFakeMateriaRepo()
	svc := NewMateriaService(repo, nil, nil)

	created, err := svc.Create(context.Background(), CreateMateriaRequest{Clave: "I5897", Name: "A", Creditos: 8})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Empty(t, repo.items)

	err = svc.Delete(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
