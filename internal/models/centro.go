package models

import "time"

// Centro represents a university campus (centro universitario).
type Centro struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	SiiauID   string    `db:"siiau_id" json:"siiau_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CentroFilter captures filtering criteria for listing centros.
type CentroFilter struct {
	Search    string
	SiiauID   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
