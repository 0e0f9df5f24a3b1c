package models

import "time"

// Clase represents a single weekly class meeting of a seccion. Dia uses codes
// 1 (lunes) through 7 (domingo); nil means the source gave no specific day.
// Times are wall-clock "HH:MM" strings, no timezone.
type Clase struct {
	ID         int64     `db:"id" json:"id"`
	SeccionID  int64     `db:"seccion_id" json:"seccion_id"`
	AulaID     *int64    `db:"aula_id" json:"aula_id,omitempty"`
	Sesion     *int      `db:"sesion" json:"sesion,omitempty"`
	HoraInicio *string   `db:"hora_inicio" json:"hora_inicio,omitempty"`
	HoraFin    *string   `db:"hora_fin" json:"hora_fin,omitempty"`
	Dia        *int      `db:"dia" json:"dia,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// ClaseFilter captures filtering criteria for listing clases.
type ClaseFilter struct {
	SeccionID *int64
	AulaID    *int64
	Dia       *int
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
