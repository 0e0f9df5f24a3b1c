package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udgtools/horarios-api/internal/models"
)

func materiaRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "clave", "name", "creditos", "created_at", "updated_at"}).
		AddRow(int64(3), "I5897", "PROGRAMACION ESTRUCTURADA", 8, now, now)
}

func TestMateriaRepositoryListSearchMatchesClaveOrName(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMateriaRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, clave, name, creditos, created_at, updated_at FROM materias WHERE 1=1 AND (LOWER(clave) LIKE $1 OR LOWER(name) LIKE $1) ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("%programacion%").
		WillReturnRows(materiaRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM materias WHERE 1=1 AND (LOWER(clave) LIKE $1 OR LOWER(name) LIKE $1)")).
		WithArgs("%programacion%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	materias, total, err := repo.List(context.Background(), models.MateriaFilter{Search: "PROGRAMACION"})
	require.NoError(t, err)
	assert.Len(t, materias, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "I5897", materias[0].Clave)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMateriaRepositoryListByClave(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMateriaRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM materias WHERE 1=1 AND clave = $1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("I5897").
		WillReturnRows(materiaRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM materias WHERE 1=1 AND clave = $1")).
		WithArgs("I5897").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, total, err := repo.ListByClave(context.Background(), "I5897")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMateriaRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMateriaRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, clave, name, creditos, created_at, updated_at FROM materias WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	materia, err := repo.FindByID(context.Background(), 99)
	assert.Nil(t, materia)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMateriaRepositoryCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMateriaRepository(db)

	mock.ExpectQuery("INSERT INTO materias").
		WithArgs("I5897", "PROGRAMACION ESTRUCTURADA", 8, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	materia := &models.Materia{Clave: "I5897", Name: "PROGRAMACION ESTRUCTURADA", Creditos: 8}
	require.NoError(t, repo.Create(context.Background(), materia))
	assert.Equal(t, int64(3), materia.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMateriaRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMateriaRepository(db)

	mock.ExpectExec("UPDATE materias SET").
		WithArgs("I5897", "PROGRAMACION ESTRUCTURADA", 10, sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	materia := &models.Materia{ID: 3, Clave: "I5897", Name: "PROGRAMACION ESTRUCTURADA", Creditos: 10}
	require.NoError(t, repo.Update(context.Background(), materia))
	assert.False(t, materia.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMateriaRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMateriaRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM materias WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}
