package models

import "time"

// Calendario represents an academic term identified externally by a SIIAU cycle id.
type Calendario struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	SiiauID   string    `db:"siiau_id" json:"siiau_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CalendarioFilter captures filtering criteria for listing calendarios.
type CalendarioFilter struct {
	Search    string
	SiiauID   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
