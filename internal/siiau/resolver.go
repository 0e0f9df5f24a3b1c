package siiau

import (
	"context"
	"fmt"

	"github.com/udgtools/horarios-api/internal/models"
)

type materiaStore interface {
	ListByClave(ctx context.Context, clave string) ([]models.Materia, int, error)
	Create(ctx context.Context, materia *models.Materia) error
}

type profesorStore interface {
	ListByName(ctx context.Context, name string) ([]models.Profesor, int, error)
	Create(ctx context.Context, profesor *models.Profesor) error
}

type edificioStore interface {
	ListByNameAndCentro(ctx context.Context, name string, centroID int64) ([]models.Edificio, int, error)
	Create(ctx context.Context, edificio *models.Edificio) error
}

type aulaStore interface {
	ListByNameAndEdificio(ctx context.Context, name string, edificioID int64) ([]models.Aula, int, error)
	Create(ctx context.Context, aula *models.Aula) error
}

// Resolver implements lookup-or-create for the entities a seccion references.
// "Already exists" is the expected common case on re-import, never an error.
// Calls are not safe for concurrent use on the same key: the list-then-create
// window relies on groups being processed sequentially.
type Resolver struct {
	materias   materiaStore
	profesores profesorStore
	edificios  edificioStore
	aulas      aulaStore
}

// NewResolver constructs a resolver over the entity stores.
func NewResolver(materias materiaStore, profesores profesorStore, edificios edificioStore, aulas aulaStore) *Resolver {
	return &Resolver{materias: materias, profesores: profesores, edificios: edificios, aulas: aulas}
}

// ResolveMateria finds a materia by clave or creates it.
func (r *Resolver) ResolveMateria(ctx context.Context, clave, name string, creditos int) (*models.Materia, bool, error) {
	existing, total, err := r.materias.ListByClave(ctx, clave)
	if err != nil {
		return nil, false, fmt.Errorf("lookup materia %q: %w", clave, err)
	}
	if total > 0 {
		return &existing[0], false, nil
	}

	materia := &models.Materia{Clave: clave, Name: name, Creditos: creditos}
	if err := r.materias.Create(ctx, materia); err != nil {
		return nil, false, fmt.Errorf("create materia %q: %w", clave, err)
	}
	return materia, true, nil
}

// ResolveProfesor finds a profesor by name or creates it.
func (r *Resolver) ResolveProfesor(ctx context.Context, name string) (*models.Profesor, bool, error) {
	existing, total, err := r.profesores.ListByName(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("lookup profesor %q: %w", name, err)
	}
	if total > 0 {
		return &existing[0], false, nil
	}

	profesor := &models.Profesor{Name: name}
	if err := r.profesores.Create(ctx, profesor); err != nil {
		return nil, false, fmt.Errorf("create profesor %q: %w", name, err)
	}
	return profesor, true, nil
}

// ResolveEdificio finds a building by (name, centro) or creates it.
func (r *Resolver) ResolveEdificio(ctx context.Context, name string, centroID int64) (*models.Edificio, bool, error) {
	existing, total, err := r.edificios.ListByNameAndCentro(ctx, name, centroID)
	if err != nil {
		return nil, false, fmt.Errorf("lookup edificio %q: %w", name, err)
	}
	if total > 0 {
		return &existing[0], false, nil
	}

	edificio := &models.Edificio{Name: name, CentroID: centroID}
	if err := r.edificios.Create(ctx, edificio); err != nil {
		return nil, false, fmt.Errorf("create edificio %q: %w", name, err)
	}
	return edificio, true, nil
}

// ResolveAula finds a classroom by (name, edificio) or creates it.
func (r *Resolver) ResolveAula(ctx context.Context, name string, edificioID int64) (*models.Aula, bool, error) {
	existing, total, err := r.aulas.ListByNameAndEdificio(ctx, name, edificioID)
	if err != nil {
		return nil, false, fmt.Errorf("lookup aula %q: %w", name, err)
	}
	if total > 0 {
		return &existing[0], false, nil
	}

	aula := &models.Aula{Name: name, EdificioID: edificioID}
	if err := r.aulas.Create(ctx, aula); err != nil {
		return nil, false, fmt.Errorf("create aula %q: %w", name, err)
	}
	return aula, true, nil
}
