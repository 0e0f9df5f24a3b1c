package models

import "time"

// Edificio represents a building inside a campus. (name, centro_id) is the
// natural key.
type Edificio struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CentroID  int64     `db:"centro_id" json:"centro_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// EdificioFilter captures filtering criteria for listing edificios.
type EdificioFilter struct {
	Name      string
	CentroID  *int64
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
