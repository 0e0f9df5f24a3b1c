package siiau

import (
	"context"
	"database/sql"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/udgtools/horarios-api/internal/dto"
	"github.com/udgtools/horarios-api/internal/models"
	appErrors "github.com/udgtools/horarios-api/pkg/errors"
)

const seccionesCachePattern = "secciones:*"

type calendarioStore interface {
	FindByID(ctx context.Context, id int64) (*models.Calendario, error)
}

type centroStore interface {
	FindByID(ctx context.Context, id int64) (*models.Centro, error)
}

type timetableFetcher interface {
	FetchTimetable(ctx context.Context, cicloSiiau, centroSiiau string, limit int) (io.ReadCloser, error)
	RowLimit() int
}

type groupProcessor interface {
	ProcessGroup(ctx context.Context, group SectionGroup, opts ImportOptions) (dto.ImportStats, error)
}

type listCache interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

type importObserver interface {
	ObserveImportRun(stats dto.ImportStats)
}

// Importer drives a full SIIAU import: fetch, parse, group, reconcile. Groups
// are processed strictly one after another; entity resolution is not safe to
// parallelise across groups.
type Importer struct {
	calendarios calendarioStore
	centros     centroStore
	fetcher     timetableFetcher
	reconciler  groupProcessor
	cache       listCache
	metrics     importObserver
	logger      *zap.Logger
}

// NewImporter wires the import pipeline. Cache and metrics may be nil.
func NewImporter(
	calendarios calendarioStore,
	centros centroStore,
	fetcher timetableFetcher,
	reconciler groupProcessor,
	cache listCache,
	metrics importObserver,
	logger *zap.Logger,
) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		calendarios: calendarios,
		centros:     centros,
		fetcher:     fetcher,
		reconciler:  reconciler,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
	}
}

// ImportSecciones fetches the remote timetable for one calendar and campus
// and reconciles every section group it contains. A missing calendario or
// centro fails the whole call; per-group failures only raise the error count.
func (i *Importer) ImportSecciones(ctx context.Context, calendarioID, centroID int64, updateExisting, fullUpdate bool) (*dto.ImportStats, error) {
	calendario, centro, err := i.resolveTargets(ctx, calendarioID, centroID)
	if err != nil {
		return nil, err
	}

	body, err := i.fetcher.FetchTimetable(ctx, calendario.SiiauID, centro.SiiauID, i.fetcher.RowLimit())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	records, err := ParseTable(body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRemoteFetch.Code, appErrors.ErrRemoteFetch.Status, "failed to parse SIIAU response")
	}

	stats := i.processRecords(ctx, records, ImportOptions{
		CalendarioID:   calendario.ID,
		CentroID:       centro.ID,
		UpdateExisting: updateExisting,
		FullUpdate:     fullUpdate,
	})
	return stats, nil
}

// UpdateAllSecciones re-imports with update semantics enabled.
func (i *Importer) UpdateAllSecciones(ctx context.Context, calendarioID, centroID int64, fullUpdate bool) (*dto.ImportStats, error) {
	return i.ImportSecciones(ctx, calendarioID, centroID, true, fullUpdate)
}

// SaveSeccionesManual reconciles pre-parsed timetable rows, skipping the
// remote fetch but still requiring calendario and centro to resolve.
func (i *Importer) SaveSeccionesManual(ctx context.Context, rows []map[string]string, calendarioID, centroID int64, updateIfExists, fullUpdate bool) (*dto.ImportStats, error) {
	calendario, centro, err := i.resolveTargets(ctx, calendarioID, centroID)
	if err != nil {
		return nil, err
	}

	records := make([]SessionRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, recordFromMap(row))
	}

	stats := i.processRecords(ctx, records, ImportOptions{
		CalendarioID:   calendario.ID,
		CentroID:       centro.ID,
		UpdateExisting: updateIfExists,
		FullUpdate:     fullUpdate,
	})
	return stats, nil
}

func (i *Importer) resolveTargets(ctx context.Context, calendarioID, centroID int64) (*models.Calendario, *models.Centro, error) {
	calendario, err := i.calendarios.FindByID(ctx, calendarioID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "calendario not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendario")
	}
	if calendario.ID == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "calendario not found")
	}

	centro, err := i.centros.FindByID(ctx, centroID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "centro not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load centro")
	}
	if centro.ID == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "centro not found")
	}

	return calendario, centro, nil
}

func (i *Importer) processRecords(ctx context.Context, records []SessionRecord, opts ImportOptions) *dto.ImportStats {
	groups := GroupByNRC(records)

	total := &dto.ImportStats{}
	for _, group := range groups {
		stats, err := i.reconciler.ProcessGroup(ctx, group, opts)
		if err != nil {
			total.Errores++
			i.logger.Warn("section group skipped", zap.String("nrc", group.NRC), zap.Error(err))
			continue
		}
		total.Add(stats)
	}

	i.logger.Info("import run finished",
		zap.Int64("calendario_id", opts.CalendarioID),
		zap.Int64("centro_id", opts.CentroID),
		zap.Int("groups", len(groups)),
		zap.Int("secciones_creadas", total.SeccionesCreadas),
		zap.Int("secciones_actualizadas", total.SeccionesActualizadas),
		zap.Int("errores", total.Errores),
	)

	if i.metrics != nil {
		i.metrics.ObserveImportRun(*total)
	}
	if i.cache != nil {
		if err := i.cache.DeleteByPattern(ctx, seccionesCachePattern); err != nil {
			i.logger.Warn("failed to invalidate seccion cache", zap.Error(err))
		}
	}

	return total
}

// recordFromMap builds a SessionRecord from a manual import row keyed by the
// SIIAU column names.
func recordFromMap(row map[string]string) SessionRecord {
	return SessionRecord{
		NRC:       row["NRC"],
		Clave:     row["Clave"],
		Materia:   row["Materia"],
		Sec:       row["Sec"],
		CR:        row["CR"],
		CUP:       row["CUP"],
		DIS:       row["DIS"],
		Profesor:  row["Profesor"],
		SesionNum: row["SesionNum"],
		Horas:     row["Horas"],
		Dias:      row["Dias"],
		Edificio:  row["Edificio"],
		Aula:      row["Aula"],
		Periodo:   row["Periodo"],
	}
}
