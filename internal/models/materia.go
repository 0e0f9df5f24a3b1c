package models

import "time"

// Materia represents an academic subject, unique by clave.
type Materia struct {
	ID        int64     `db:"id" json:"id"`
	Clave     string    `db:"clave" json:"clave"`
	Name      string    `db:"name" json:"name"`
	Creditos  int       `db:"creditos" json:"creditos"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// MateriaFilter captures filtering criteria for listing materias.
type MateriaFilter struct {
	Clave     string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
