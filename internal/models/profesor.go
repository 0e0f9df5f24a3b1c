package models

import "time"

// Profesor represents an instructor, unique by full name.
type Profesor struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ProfesorFilter captures filtering criteria for listing profesores.
type ProfesorFilter struct {
	Name      string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
