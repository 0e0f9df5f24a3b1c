package siiau

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udgtools/horarios-api/internal/dto"
	"github.com/udgtools/horarios-api/internal/models"
)

type fakeSeccionStore struct {
	items   []models.Seccion
	nextID  int64
	updates map[int64]models.SeccionUpdate
}

func (f *fakeSeccionStore) ListByNRCAndCalendario(ctx context.Context, nrc string, calendarioID int64) ([]models.Seccion, int, error) {
	var out []models.Seccion
	for _, s := range f.items {
		if s.NRC == nrc && s.CalendarioID == calendarioID {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}

func (f *fakeSeccionStore) Create(ctx context.Context, seccion *models.Seccion) error {
	f.nextID++
	seccion.ID = f.nextID
	f.items = append(f.items, *seccion)
	return nil
}

func (f *fakeSeccionStore) Update(ctx context.Context, id int64, update models.SeccionUpdate) error {
	if f.updates == nil {
		f.updates = make(map[int64]models.SeccionUpdate)
	}
	f.updates[id] = update
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Name = update.Name
			f.items[i].Cupos = update.Cupos
			f.items[i].CuposDisponibles = update.CuposDisponibles
			f.items[i].MateriaID = update.MateriaID
			f.items[i].ProfesorID = update.ProfesorID
		}
	}
	return nil
}

type fakeClaseStore struct {
	items   []models.Clase
	nextID  int64
	deleted []int64
}

func (f *fakeClaseStore) ListBySeccion(ctx context.Context, seccionID int64) ([]models.Clase, int, error) {
	var out []models.Clase
	for _, c := range f.items {
		if c.SeccionID == seccionID {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

func (f *fakeClaseStore) Create(ctx context.Context, clase *models.Clase) error {
	f.nextID++
	clase.ID = f.nextID
	f.items = append(f.items, *clase)
	return nil
}

func (f *fakeClaseStore) Delete(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	kept := f.items[:0]
	for _, c := range f.items {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	f.items = kept
	return nil
}

func newTestReconciler() (*Reconciler, *fakeSeccionStore, *fakeClaseStore) {
	secciones := &fakeSeccionStore{}
	clases := &fakeClaseStore{}
	resolver, _, _, _, _ := newTestResolver()
	return NewReconciler(secciones, clases, resolver, nil), secciones, clases
}

func offerGroup() SectionGroup {
	return SectionGroup{
		NRC: "12345",
		Records: []SessionRecord{
			{
				NRC: "12345", Clave: "I5897", Materia: "PROGRAMACION", Sec: "D01",
				CR: "8", CUP: "30", DIS: "5", Profesor: "PEREZ LOPEZ JUAN",
				SesionNum: "01", Horas: "0700-0850", Dias: "L M . . V",
				Edificio: "A1", Aula: "101", Periodo: "01/01/24 - 30/04/24",
			},
			{
				NRC: "12345", Clave: "I5897", Materia: "PROGRAMACION", Sec: "D01",
				CR: "8", CUP: "30", DIS: "5", Profesor: "PEREZ LOPEZ JUAN",
				SesionNum: "02", Horas: "0900-1050", Dias: ". . J . .",
				Edificio: "A1", Aula: "102", Periodo: "01/01/24 - 30/04/24",
			},
		},
	}
}

func TestProcessGroupCreatesSeccion(t *testing.T) {
	reconciler, secciones, clases := newTestReconciler()

	stats, err := reconciler.ProcessGroup(context.Background(), offerGroup(), ImportOptions{
		CalendarioID: 1, CentroID: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.SeccionesCreadas)
	assert.Equal(t, 1, stats.MateriasCreadas)
	assert.Equal(t, 1, stats.ProfesoresCreados)
	assert.Zero(t, stats.SeccionesActualizadas)
	// Meetings are only materialised on full updates.
	assert.Zero(t, stats.ClasesCreadas)
	assert.Empty(t, clases.items)

	require.Len(t, secciones.items, 1)
	s := secciones.items[0]
	assert.Equal(t, "12345", s.NRC)
	assert.Equal(t, "D01", s.Name)
	assert.Equal(t, 30, s.Cupos)
	assert.Equal(t, 5, s.CuposDisponibles)
	assert.Equal(t, int64(1), s.CalendarioID)
	assert.Equal(t, int64(2), s.CentroID)
	require.NotNil(t, s.PeriodoInicio)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *s.PeriodoInicio)
	require.NotNil(t, s.ProfesorID)
}

func TestProcessGroupFullUpdateBuildsClases(t *testing.T) {
	reconciler, _, clases := newTestReconciler()

	stats, err := reconciler.ProcessGroup(context.Background(), offerGroup(), ImportOptions{
		CalendarioID: 1, CentroID: 2, FullUpdate: true,
	})
	require.NoError(t, err)

	// "L M . . V" expands to three meetings, ". . J . ." to one.
	assert.Equal(t, 4, stats.ClasesCreadas)
	assert.Equal(t, 1, stats.EdificiosCreados)
	assert.Equal(t, 2, stats.AulasCreadas)
	require.Len(t, clases.items, 4)

	first := clases.items[0]
	require.NotNil(t, first.HoraInicio)
	assert.Equal(t, "07:00", *first.HoraInicio)
	require.NotNil(t, first.HoraFin)
	assert.Equal(t, "08:50", *first.HoraFin)
	require.NotNil(t, first.Dia)
	assert.Equal(t, 1, *first.Dia)
	require.NotNil(t, first.Sesion)
	assert.Equal(t, 1, *first.Sesion)

	dias := make([]int, 0, 4)
	for _, c := range clases.items {
		require.NotNil(t, c.Dia)
		dias = append(dias, *c.Dia)
	}
	assert.Equal(t, []int{1, 2, 5, 4}, dias)
}

func TestProcessGroupDuplicateNRCWithoutUpdate(t *testing.T) {
	reconciler, secciones, _ := newTestReconciler()
	secciones.items = []models.Seccion{{ID: 9, NRC: "12345", CalendarioID: 1, CentroID: 2, MateriaID: 7}}

	stats, err := reconciler.ProcessGroup(context.Background(), offerGroup(), ImportOptions{
		CalendarioID: 1, CentroID: 2,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in use")
	assert.Equal(t, dto.ImportStats{}, stats)
	assert.Len(t, secciones.items, 1)
}

func TestProcessGroupSameNRCOtherCalendarioIsNew(t *testing.T) {
	reconciler, secciones, _ := newTestReconciler()
	secciones.items = []models.Seccion{{ID: 9, NRC: "12345", CalendarioID: 99, CentroID: 2, MateriaID: 7}}
	secciones.nextID = 9

	stats, err := reconciler.ProcessGroup(context.Background(), offerGroup(), ImportOptions{
		CalendarioID: 1, CentroID: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SeccionesCreadas)
	assert.Len(t, secciones.items, 2)
}

func TestProcessGroupUpdatePreservesIdentity(t *testing.T) {
	reconciler, secciones, clases := newTestReconciler()
	secciones.items = []models.Seccion{{ID: 9, NRC: "12345", Name: "OLD", Cupos: 10, CalendarioID: 1, CentroID: 2, MateriaID: 7}}
	clases.items = []models.Clase{{ID: 50, SeccionID: 9}}

	stats, err := reconciler.ProcessGroup(context.Background(), offerGroup(), ImportOptions{
		CalendarioID: 1, CentroID: 2, UpdateExisting: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.SeccionesActualizadas)
	assert.Zero(t, stats.SeccionesCreadas)

	update, ok := secciones.updates[9]
	require.True(t, ok)
	assert.Equal(t, "D01", update.Name)
	assert.Equal(t, 30, update.Cupos)
	assert.Equal(t, 5, update.CuposDisponibles)

	// Shallow update leaves existing meetings alone.
	assert.Empty(t, clases.deleted)
	assert.Len(t, clases.items, 1)
}

func TestProcessGroupFullUpdateRebuildsClases(t *testing.T) {
	reconciler, secciones, clases := newTestReconciler()
	secciones.items = []models.Seccion{{ID: 9, NRC: "12345", CalendarioID: 1, CentroID: 2, MateriaID: 7}}
	clases.items = []models.Clase{{ID: 50, SeccionID: 9}, {ID: 51, SeccionID: 9}}
	clases.nextID = 51

	stats, err := reconciler.ProcessGroup(context.Background(), offerGroup(), ImportOptions{
		CalendarioID: 1, CentroID: 2, UpdateExisting: true, FullUpdate: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.SeccionesActualizadas)
	assert.Equal(t, 4, stats.ClasesCreadas)
	assert.ElementsMatch(t, []int64{50, 51}, clases.deleted)
	assert.Len(t, clases.items, 4)
	for _, c := range clases.items {
		assert.Equal(t, int64(9), c.SeccionID)
	}
}

func TestProcessGroupMissingRequiredFields(t *testing.T) {
	reconciler, _, _ := newTestReconciler()

	group := offerGroup()
	group.Records[0].Materia = ""

	stats, err := reconciler.ProcessGroup(context.Background(), group, ImportOptions{CalendarioID: 1, CentroID: 2})
	require.Error(t, err)
	assert.Equal(t, dto.ImportStats{}, stats)
}

func TestProcessGroupMalformedNumbers(t *testing.T) {
	reconciler, secciones, _ := newTestReconciler()

	group := offerGroup()
	group.Records[0].CUP = "treinta"

	stats, err := reconciler.ProcessGroup(context.Background(), group, ImportOptions{CalendarioID: 1, CentroID: 2})
	require.Error(t, err)
	assert.Equal(t, dto.ImportStats{}, stats)
	assert.Empty(t, secciones.items)
}

func TestProcessGroupEmptyNumericFieldsDefaultToZero(t *testing.T) {
	reconciler, secciones, _ := newTestReconciler()

	group := offerGroup()
	for i := range group.Records {
		group.Records[i].CR = ""
		group.Records[i].CUP = ""
		group.Records[i].DIS = ""
	}

	_, err := reconciler.ProcessGroup(context.Background(), group, ImportOptions{CalendarioID: 1, CentroID: 2})
	require.NoError(t, err)
	require.Len(t, secciones.items, 1)
	assert.Zero(t, secciones.items[0].Cupos)
	assert.Zero(t, secciones.items[0].CuposDisponibles)
}

func TestProcessGroupMalformedPeriodo(t *testing.T) {
	reconciler, secciones, _ := newTestReconciler()

	group := offerGroup()
	group.Records[0].Periodo = "not a periodo"

	stats, err := reconciler.ProcessGroup(context.Background(), group, ImportOptions{CalendarioID: 1, CentroID: 2})
	require.Error(t, err)
	assert.Equal(t, dto.ImportStats{}, stats)
	assert.Empty(t, secciones.items)
}

func TestProcessGroupNoProfesor(t *testing.T) {
	reconciler, secciones, _ := newTestReconciler()

	group := offerGroup()
	for i := range group.Records {
		group.Records[i].Profesor = ""
	}

	stats, err := reconciler.ProcessGroup(context.Background(), group, ImportOptions{CalendarioID: 1, CentroID: 2})
	require.NoError(t, err)
	assert.Zero(t, stats.ProfesoresCreados)
	require.Len(t, secciones.items, 1)
	assert.Nil(t, secciones.items[0].ProfesorID)
}

func TestProcessGroupRecordsWithoutScheduleSkipped(t *testing.T) {
	reconciler, _, clases := newTestReconciler()

	group := offerGroup()
	group.Records[1].Horas = ""
	group.Records[1].Dias = ""

	stats, err := reconciler.ProcessGroup(context.Background(), group, ImportOptions{
		CalendarioID: 1, CentroID: 2, FullUpdate: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.ClasesCreadas)
	assert.Len(t, clases.items, 3)
}

func TestProcessGroupMalformedSesionBecomesNil(t *testing.T) {
	reconciler, _, clases := newTestReconciler()

	group := offerGroup()
	group.Records[0].SesionNum = "xx"

	_, err := reconciler.ProcessGroup(context.Background(), group, ImportOptions{
		CalendarioID: 1, CentroID: 2, FullUpdate: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, clases.items)
	assert.Nil(t, clases.items[0].Sesion)
}
