package siiau

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/udgtools/horarios-api/internal/dto"
	"github.com/udgtools/horarios-api/internal/models"
)

type seccionStore interface {
	ListByNRCAndCalendario(ctx context.Context, nrc string, calendarioID int64) ([]models.Seccion, int, error)
	Create(ctx context.Context, seccion *models.Seccion) error
	Update(ctx context.Context, id int64, update models.SeccionUpdate) error
}

type claseStore interface {
	ListBySeccion(ctx context.Context, seccionID int64) ([]models.Clase, int, error)
	Create(ctx context.Context, clase *models.Clase) error
	Delete(ctx context.Context, id int64) error
}

// ImportOptions carries the parameters of one import run down to group level.
type ImportOptions struct {
	CalendarioID   int64
	CentroID       int64
	UpdateExisting bool
	FullUpdate     bool
}

// Reconciler decides, per section group, whether the seccion is new or
// existing and materialises it together with its referenced entities. A group
// either lands completely or contributes a single error, never partial stats.
type Reconciler struct {
	secciones seccionStore
	clases    claseStore
	resolver  *Resolver
	logger    *zap.Logger
}

// NewReconciler constructs a reconciler.
func NewReconciler(secciones seccionStore, clases claseStore, resolver *Resolver, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{secciones: secciones, clases: clases, resolver: resolver, logger: logger}
}

// ProcessGroup runs the create-or-update state machine for one NRC group.
// A returned error means the whole group was skipped; the caller records it
// in the aggregate error count and moves on.
func (r *Reconciler) ProcessGroup(ctx context.Context, group SectionGroup, opts ImportOptions) (dto.ImportStats, error) {
	var stats dto.ImportStats

	if len(group.Records) == 0 {
		return stats, fmt.Errorf("empty group")
	}
	first := group.Records[0]

	if first.NRC == "" || first.Clave == "" || first.Materia == "" || first.Sec == "" {
		return stats, fmt.Errorf("NRC %q: missing required fields (Clave, Materia, Sec)", first.NRC)
	}

	existing, total, err := r.secciones.ListByNRCAndCalendario(ctx, first.NRC, opts.CalendarioID)
	if err != nil {
		return dto.ImportStats{}, fmt.Errorf("NRC %s: lookup seccion: %w", first.NRC, err)
	}

	var current *models.Seccion
	if total > 0 {
		if !opts.UpdateExisting {
			return dto.ImportStats{}, fmt.Errorf("NRC %s already in use in that Calendario", first.NRC)
		}
		current = &existing[0]
	}

	creditos, err := parseEntero(first.CR, "CR")
	if err != nil {
		return dto.ImportStats{}, fmt.Errorf("NRC %s: %w", first.NRC, err)
	}
	cupos, err := parseEntero(first.CUP, "CUP")
	if err != nil {
		return dto.ImportStats{}, fmt.Errorf("NRC %s: %w", first.NRC, err)
	}
	disponibles, err := parseEntero(first.DIS, "DIS")
	if err != nil {
		return dto.ImportStats{}, fmt.Errorf("NRC %s: %w", first.NRC, err)
	}

	materia, created, err := r.resolver.ResolveMateria(ctx, first.Clave, first.Materia, creditos)
	if err != nil {
		return dto.ImportStats{}, fmt.Errorf("NRC %s: %w", first.NRC, err)
	}
	if created {
		stats.MateriasCreadas++
	}

	var profesorID *int64
	if first.Profesor != "" {
		profesor, created, err := r.resolver.ResolveProfesor(ctx, first.Profesor)
		if err != nil {
			return dto.ImportStats{}, fmt.Errorf("NRC %s: %w", first.NRC, err)
		}
		if created {
			stats.ProfesoresCreados++
		}
		profesorID = &profesor.ID
	}

	periodoInicio, periodoFin, err := parsePeriodo(first.Periodo)
	if err != nil {
		return dto.ImportStats{}, fmt.Errorf("NRC %s: %w", first.NRC, err)
	}

	if current == nil {
		seccion := &models.Seccion{
			Name:             first.Sec,
			NRC:              first.NRC,
			Cupos:            cupos,
			CuposDisponibles: disponibles,
			PeriodoInicio:    periodoInicio,
			PeriodoFin:       periodoFin,
			CentroID:         opts.CentroID,
			MateriaID:        materia.ID,
			ProfesorID:       profesorID,
			CalendarioID:     opts.CalendarioID,
		}
		if err := r.secciones.Create(ctx, seccion); err != nil {
			return dto.ImportStats{}, fmt.Errorf("NRC %s: create seccion: %w", first.NRC, err)
		}
		current = seccion
		stats.SeccionesCreadas++
	} else {
		update := models.SeccionUpdate{
			Name:             first.Sec,
			Cupos:            cupos,
			CuposDisponibles: disponibles,
			PeriodoInicio:    periodoInicio,
			PeriodoFin:       periodoFin,
			MateriaID:        materia.ID,
			ProfesorID:       profesorID,
		}
		if err := r.secciones.Update(ctx, current.ID, update); err != nil {
			return dto.ImportStats{}, fmt.Errorf("NRC %s: update seccion: %w", first.NRC, err)
		}
		stats.SeccionesActualizadas++

		if opts.FullUpdate {
			if err := r.deleteClases(ctx, current.ID); err != nil {
				return dto.ImportStats{}, fmt.Errorf("NRC %s: %w", first.NRC, err)
			}
		}
	}

	if opts.FullUpdate {
		if err := r.buildClases(ctx, group, current.ID, opts.CentroID, &stats); err != nil {
			return dto.ImportStats{}, fmt.Errorf("NRC %s: %w", first.NRC, err)
		}
	}

	return stats, nil
}

// deleteClases removes every existing meeting of the seccion before a rebuild.
func (r *Reconciler) deleteClases(ctx context.Context, seccionID int64) error {
	clases, _, err := r.clases.ListBySeccion(ctx, seccionID)
	if err != nil {
		return fmt.Errorf("list clases: %w", err)
	}
	for _, clase := range clases {
		if err := r.clases.Delete(ctx, clase.ID); err != nil {
			return fmt.Errorf("delete clase %d: %w", clase.ID, err)
		}
	}
	return nil
}

// buildClases creates one meeting per (schedule-bearing record, active day)
// pair. Buildings and rooms repeated across records of the group resolve once.
func (r *Reconciler) buildClases(ctx context.Context, group SectionGroup, seccionID, centroID int64, stats *dto.ImportStats) error {
	edificios := make(map[string]*models.Edificio)
	aulas := make(map[string]*models.Aula)

	for _, rec := range group.Records {
		if rec.Horas == "" || rec.Dias == "" {
			continue
		}

		horaInicio, horaFin, err := parseHoras(rec.Horas)
		if err != nil {
			return err
		}

		var aulaID *int64
		if rec.Edificio != "" {
			edificio, ok := edificios[rec.Edificio]
			if !ok {
				resolved, created, err := r.resolver.ResolveEdificio(ctx, rec.Edificio, centroID)
				if err != nil {
					return err
				}
				if created {
					stats.EdificiosCreados++
				}
				edificios[rec.Edificio] = resolved
				edificio = resolved
			}

			if rec.Aula != "" {
				key := fmt.Sprintf("%d/%s", edificio.ID, rec.Aula)
				aula, ok := aulas[key]
				if !ok {
					resolved, created, err := r.resolver.ResolveAula(ctx, rec.Aula, edificio.ID)
					if err != nil {
						return err
					}
					if created {
						stats.AulasCreadas++
					}
					aulas[key] = resolved
					aula = resolved
				}
				aulaID = &aula.ID
			}
		}

		sesion := parseSesion(rec.SesionNum)

		for _, dia := range parseDias(rec.Dias) {
			clase := &models.Clase{
				SeccionID:  seccionID,
				AulaID:     aulaID,
				Sesion:     sesion,
				HoraInicio: &horaInicio,
				HoraFin:    &horaFin,
			}
			if dia != 0 {
				d := dia
				clase.Dia = &d
			}
			if err := r.clases.Create(ctx, clase); err != nil {
				return fmt.Errorf("create clase: %w", err)
			}
			stats.ClasesCreadas++
		}
	}

	return nil
}

func parseEntero(raw, field string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("malformed %s %q", field, raw)
	}
	return n, nil
}

func parseSesion(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
