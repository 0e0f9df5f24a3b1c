package models

import "time"

// Aula represents a classroom inside a building. (name, edificio_id) is the
// natural key.
type Aula struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	EdificioID int64     `db:"edificio_id" json:"edificio_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// AulaFilter captures filtering criteria for listing aulas.
type AulaFilter struct {
	Name       string
	EdificioID *int64
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
