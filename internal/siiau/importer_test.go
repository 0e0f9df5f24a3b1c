package siiau

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udgtools/horarios-api/internal/dto"
	"github.com/udgtools/horarios-api/internal/models"
	appErrors "github.com/udgtools/horarios-api/pkg/errors"
)

type fakeCalendarioStore struct {
	calendario *models.Calendario
	err        error
}

func (f *fakeCalendarioStore) FindByID(ctx context.Context, id int64) (*models.Calendario, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.calendario, nil
}

type fakeCentroStore struct {
	centro *models.Centro
	err    error
}

func (f *fakeCentroStore) FindByID(ctx context.Context, id int64) (*models.Centro, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.centro, nil
}

type fakeFetcher struct {
	html      string
	err       error
	gotCiclo  string
	gotCentro string
	gotLimit  int
}

func (f *fakeFetcher) FetchTimetable(ctx context.Context, cicloSiiau, centroSiiau string, limit int) (io.ReadCloser, error) {
	f.gotCiclo = cicloSiiau
	f.gotCentro = centroSiiau
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.html)), nil
}

func (f *fakeFetcher) RowLimit() int { return 15000 }

type fakeProcessor struct {
	stats  map[string]dto.ImportStats
	errs   map[string]error
	groups []string
}

func (f *fakeProcessor) ProcessGroup(ctx context.Context, group SectionGroup, opts ImportOptions) (dto.ImportStats, error) {
	f.groups = append(f.groups, group.NRC)
	if err, ok := f.errs[group.NRC]; ok {
		return dto.ImportStats{}, err
	}
	return f.stats[group.NRC], nil
}

type fakeListCache struct {
	patterns []string
}

func (f *fakeListCache) DeleteByPattern(ctx context.Context, pattern string) error {
	f.patterns = append(f.patterns, pattern)
	return nil
}

type fakeObserver struct {
	runs []dto.ImportStats
}

func (f *fakeObserver) ObserveImportRun(stats dto.ImportStats) {
	f.runs = append(f.runs, stats)
}

func newTestImporter(fetcher *fakeFetcher, processor *fakeProcessor) (*Importer, *fakeListCache, *fakeObserver) {
	cache := &fakeListCache{}
	observer := &fakeObserver{}
	importer := NewImporter(
		&fakeCalendarioStore{calendario: &models.Calendario{ID: 1, SiiauID: "202410"}},
		&fakeCentroStore{centro: &models.Centro{ID: 2, SiiauID: "D"}},
		fetcher,
		processor,
		cache,
		observer,
		nil,
	)
	return importer, cache, observer
}

func TestImportSeccionesAggregatesStats(t *testing.T) {
	fetcher := &fakeFetcher{html: sampleOfferHTML}
	processor := &fakeProcessor{
		stats: map[string]dto.ImportStats{
			"12345": {SeccionesCreadas: 1, MateriasCreadas: 1, ProfesoresCreados: 1},
			"54321": {SeccionesCreadas: 1, MateriasCreadas: 1},
		},
	}
	importer, cache, observer := newTestImporter(fetcher, processor)

	stats, err := importer.ImportSecciones(context.Background(), 1, 2, false, false)
	require.NoError(t, err)

	assert.Equal(t, "202410", fetcher.gotCiclo)
	assert.Equal(t, "D", fetcher.gotCentro)
	assert.Equal(t, 15000, fetcher.gotLimit)

	assert.Equal(t, []string{"12345", "54321"}, processor.groups)
	assert.Equal(t, 2, stats.SeccionesCreadas)
	assert.Equal(t, 2, stats.MateriasCreadas)
	assert.Equal(t, 1, stats.ProfesoresCreados)
	assert.Zero(t, stats.Errores)

	assert.Equal(t, []string{"secciones:*"}, cache.patterns)
	require.Len(t, observer.runs, 1)
	assert.Equal(t, *stats, observer.runs[0])
}

func TestImportSeccionesCountsGroupErrors(t *testing.T) {
	fetcher := &fakeFetcher{html: sampleOfferHTML}
	processor := &fakeProcessor{
		stats: map[string]dto.ImportStats{"54321": {SeccionesCreadas: 1}},
		errs:  map[string]error{"12345": errors.New("malformed CUP")},
	}
	importer, _, _ := newTestImporter(fetcher, processor)

	stats, err := importer.ImportSecciones(context.Background(), 1, 2, false, false)
	require.NoError(t, err)

	// One group fails, the run keeps going.
	assert.Equal(t, 1, stats.Errores)
	assert.Equal(t, 1, stats.SeccionesCreadas)
	assert.Equal(t, []string{"12345", "54321"}, processor.groups)
}

func TestImportSeccionesCalendarioNotFound(t *testing.T) {
	importer := NewImporter(
		&fakeCalendarioStore{err: sql.ErrNoRows},
		&fakeCentroStore{centro: &models.Centro{ID: 2, SiiauID: "D"}},
		&fakeFetcher{html: sampleOfferHTML},
		&fakeProcessor{},
		nil, nil, nil,
	)

	_, err := importer.ImportSecciones(context.Background(), 404, 2, false, false)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "calendario")
}

func TestImportSeccionesCentroNotFound(t *testing.T) {
	importer := NewImporter(
		&fakeCalendarioStore{calendario: &models.Calendario{ID: 1, SiiauID: "202410"}},
		&fakeCentroStore{err: sql.ErrNoRows},
		&fakeFetcher{html: sampleOfferHTML},
		&fakeProcessor{},
		nil, nil, nil,
	)

	_, err := importer.ImportSecciones(context.Background(), 1, 404, false, false)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "centro")
}

func TestImportSeccionesFetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: appErrors.Clone(appErrors.ErrRemoteFetch, "siiau unavailable")}
	importer, cache, _ := newTestImporter(fetcher, &fakeProcessor{})

	_, err := importer.ImportSecciones(context.Background(), 1, 2, false, false)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRemoteFetch.Code, appErrors.FromError(err).Code)
	assert.Empty(t, cache.patterns)
}

func TestUpdateAllSeccionesForcesUpdate(t *testing.T) {
	fetcher := &fakeFetcher{html: sampleOfferHTML}

	var gotOpts ImportOptions
	processor := processorFunc(func(ctx context.Context, group SectionGroup, opts ImportOptions) (dto.ImportStats, error) {
		gotOpts = opts
		return dto.ImportStats{}, nil
	})
	importer, _, _ := newTestImporter(fetcher, &fakeProcessor{})
	importer.reconciler = processor

	_, err := importer.UpdateAllSecciones(context.Background(), 1, 2, true)
	require.NoError(t, err)
	assert.True(t, gotOpts.UpdateExisting)
	assert.True(t, gotOpts.FullUpdate)
	assert.Equal(t, int64(1), gotOpts.CalendarioID)
	assert.Equal(t, int64(2), gotOpts.CentroID)
}

func TestSaveSeccionesManual(t *testing.T) {
	processor := &fakeProcessor{stats: map[string]dto.ImportStats{"12345": {SeccionesCreadas: 1}}}
	importer, cache, _ := newTestImporter(&fakeFetcher{}, processor)

	rows := []map[string]string{
		{
			"NRC": "12345", "Clave": "I5897", "Materia": "PROGRAMACION", "Sec": "D01",
			"CR": "8", "CUP": "30", "DIS": "5", "Profesor": "PEREZ LOPEZ JUAN",
			"SesionNum": "01", "Horas": "0700-0850", "Dias": "L M . . V",
			"Edificio": "A1", "Aula": "101", "Periodo": "01/01/24 - 30/04/24",
		},
		{"NRC": "12345", "Clave": "I5897", "Materia": "PROGRAMACION", "Sec": "D01"},
	}

	stats, err := importer.SaveSeccionesManual(context.Background(), rows, 1, 2, false, false)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SeccionesCreadas)
	// Two rows, one NRC, one group.
	assert.Equal(t, []string{"12345"}, processor.groups)
	assert.Equal(t, []string{"secciones:*"}, cache.patterns)
}

type processorFunc func(ctx context.Context, group SectionGroup, opts ImportOptions) (dto.ImportStats, error)

func (f processorFunc) ProcessGroup(ctx context.Context, group SectionGroup, opts ImportOptions) (dto.ImportStats, error) {
	return f(ctx, group, opts)
}
