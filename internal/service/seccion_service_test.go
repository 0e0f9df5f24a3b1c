package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udgtools/horarios-api/internal/models"
	appErrors "github.com/udgtools/horarios-api/pkg/errors"
)

type fakeSeccionRepo struct {
	items  map[int64]*models.Seccion
	nextID int64
	lists  int
}

func newFakeSeccionRepo() *fakeSeccionRepo {
	return &fakeSeccionRepo{items: make(map[int64]*models.Seccion), nextID: 1}
}

func (f *fakeSeccionRepo) List(_ context.Context, filter models.SeccionFilter) ([]models.Seccion, int, error) {
	f.lists++
	var out []models.Seccion
	for _, s := range f.items {
		if filter.NRC != "" && s.NRC != filter.NRC {
			continue
		}
		if filter.CalendarioID != nil && s.CalendarioID != *filter.CalendarioID {
			continue
		}
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (f *fakeSeccionRepo) ListByNRCAndCalendario(ctx context.Context, nrc string, calendarioID int64) ([]models.Seccion, int, error) {
	return f.List(ctx, models.SeccionFilter{NRC: nrc, CalendarioID: &calendarioID})
}

func (f *fakeSeccionRepo) FindByID(_ context.Context, id int64) (*models.Seccion, error) {
	s, ok := f.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := *s
	return &out, nil
}

func (f *fakeSeccionRepo) Create(_ context.Context, seccion *models.Seccion) error {
	seccion.ID = f.nextID
	f.nextID++
	stored := *seccion
	f.items[seccion.ID] = &stored
	return nil
}

func (f *fakeSeccionRepo) Update(_ context.Context, id int64, update models.SeccionUpdate) error {
	s, ok := f.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.Name = update.Name
	s.Cupos = update.Cupos
	s.CuposDisponibles = update.CuposDisponibles
	s.PeriodoInicio = update.PeriodoInicio
	s.PeriodoFin = update.PeriodoFin
	s.MateriaID = update.MateriaID
	s.ProfesorID = update.ProfesorID
	return nil
}

func (f *fakeSeccionRepo) Delete(_ context.Context, id int64) error {
	delete(f.items, id)
	return nil
}

type fakeSeccionClases struct {
	clases  map[int64][]models.Clase
	deleted []int64
}

func newFakeSeccionClases() *fakeSeccionClases {
	return &fakeSeccionClases{clases: make(map[int64][]models.Clase)}
}

func (f *fakeSeccionClases) ListBySeccion(_ context.Context, seccionID int64) ([]models.Clase, int, error) {
	out := f.clases[seccionID]
	return out, len(out), nil
}

func (f *fakeSeccionClases) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakePageCache struct {
	store    map[string]seccionListPage
	sets     []string
	patterns []string
}

func newFakePageCache() *fakePageCache {
	return &fakePageCache{store: make(map[string]seccionListPage)}
}

func (f *fakePageCache) Get(_ context.Context, key string, dest interface{}) error {
	page, ok := f.store[key]
	if !ok {
		return errors.New("cache miss")
	}
	*dest.(*seccionListPage) = page
	return nil
}

func (f *fakePageCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.sets = append(f.sets, key)
	f.store[key] = value.(seccionListPage)
	return nil
}

func (f *fakePageCache) DeleteByPattern(_ context.Context, pattern string) error {
	f.patterns = append(f.patterns, pattern)
	f.store = make(map[string]seccionListPage)
	return nil
}

type fakeCacheMetrics struct {
	hits   int
	misses int
}

func (f *fakeCacheMetrics) RecordCacheOperation(hit bool) {
	if hit {
		f.hits++
	} else {
		f.misses++
	}
}

func seedSeccion(repo *fakeSeccionRepo) *models.Seccion {
	seccion := &models.Seccion{
		Name:             "D01",
		NRC:              "12345",
		Cupos:            30,
		CuposDisponibles: 5,
		CentroID:         2,
		MateriaID:        3,
		CalendarioID:     1,
	}
	repo.Create(context.Background(), seccion)
	return seccion
}

func TestSeccionServiceListCachesPages(t *testing.T) {
	repo := newFakeSeccionRepo()
	seedSeccion(repo)
	cache := newFakePageCache()
	metrics := &fakeCacheMetrics{}
	svc := NewSeccionService(repo, newFakeSeccionClases(), cache, metrics, time.Minute, nil, nil)

	filter := models.SeccionFilter{NRC: "12345"}

	first, pagination, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, first, 1)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, 1, repo.lists)
	assert.Equal(t, 1, metrics.misses)

	second, _, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, second, 1)
	assert.Equal(t, 1, repo.lists)
	assert.Equal(t, 1, metrics.hits)
}

func TestSeccionServiceListWithoutCacheHitsRepo(t *testing.T) {
	repo := newFakeSeccionRepo()
	seedSeccion(repo)
	svc := NewSeccionService(repo, newFakeSeccionClases(), nil, nil, 0, nil, nil)

	_, _, err := svc.List(context.Background(), models.SeccionFilter{})
	require.NoError(t, err)
	_, _, err = svc.List(context.Background(), models.SeccionFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lists)
}

func TestSeccionServiceCreateRejectsDuplicateNRC(t *testing.T) {
	repo := newFakeSeccionRepo()
	seedSeccion(repo)
	svc := NewSeccionService(repo, newFakeSeccionClases(), nil, nil, 0, nil, nil)

	_, err := svc.Create(context.Background(), CreateSeccionRequest{
		Name:         "D02",
		NRC:          "12345",
		CentroID:     2,
		MateriaID:    3,
		CalendarioID: 1,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Len(t, repo.items, 1)
}

func TestSeccionServiceCreateAllowsSameNRCInOtherCalendario(t *testing.T) {
	repo := newFakeSeccionRepo()
	seedSeccion(repo)
	cache := newFakePageCache()
	svc := NewSeccionService(repo, newFakeSeccionClases(), cache, nil, time.Minute, nil, nil)

	created, err := svc.Create(context.Background(), CreateSeccionRequest{
		Name:         "D01",
		NRC:          "12345",
		CentroID:     2,
		MateriaID:    3,
		CalendarioID: 2,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, []string{"secciones:*"}, cache.patterns)
}

func TestSeccionServiceUpdatePreservesIdentity(t *testing.T) {
	repo := newFakeSeccionRepo()
	seccion := seedSeccion(repo)
	svc := NewSeccionService(repo, newFakeSeccionClases(), nil, nil, 0, nil, nil)

	updated, err := svc.Update(context.Background(), seccion.ID, UpdateSeccionRequest{
		Name:             "D01",
		Cupos:            25,
		CuposDisponibles: 2,
		MateriaID:        3,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, updated.Cupos)
	assert.Equal(t, "12345", updated.NRC)
	assert.Equal(t, int64(1), updated.CalendarioID)
}

func TestSeccionServiceUpdateNotFound(t *testing.T) {
	svc := NewSeccionService(newFakeSeccionRepo(), newFakeSeccionClases(), nil, nil, 0, nil, nil)

	_, err := svc.Update(context.Background(), 99, UpdateSeccionRequest{Name: "D01", MateriaID: 3})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSeccionServiceDeleteCascadesClases(t *testing.T) {
	repo := newFakeSeccionRepo()
	seccion := seedSeccion(repo)
	clases := newFakeSeccionClases()
	clases.clases[seccion.ID] = []models.Clase{{ID: 50, SeccionID: seccion.ID}, {ID: 51, SeccionID: seccion.ID}}
	cache := newFakePageCache()
	svc := NewSeccionService(repo, clases, cache, nil, time.Minute, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), seccion.ID))
	assert.Equal(t, []int64{50, 51}, clases.deleted)
	assert.Empty(t, repo.items)
	assert.Equal(t, []string{"secciones:*"}, cache.patterns)
}

func TestSeccionServiceGetClasesRequiresSeccion(t *testing.T) {
	svc := NewSeccionService(newFakeSeccionRepo(), newFakeSeccionClases(), nil, nil, 0, nil, nil)

	_, err := svc.GetClases(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
