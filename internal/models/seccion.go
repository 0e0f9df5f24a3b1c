package models

import "time"

// Seccion represents one course section offered in a calendar. (nrc,
// calendario_id) is unique; nrc, centro_id and calendario_id are identity
// fields and never change after creation.
type Seccion struct {
	ID               int64      `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	NRC              string     `db:"nrc" json:"nrc"`
	Cupos            int        `db:"cupos" json:"cupos"`
	CuposDisponibles int        `db:"cupos_disponibles" json:"cupos_disponibles"`
	PeriodoInicio    *time.Time `db:"periodo_inicio" json:"periodo_inicio,omitempty"`
	PeriodoFin       *time.Time `db:"periodo_fin" json:"periodo_fin,omitempty"`
	CentroID         int64      `db:"centro_id" json:"centro_id"`
	MateriaID        int64      `db:"materia_id" json:"materia_id"`
	ProfesorID       *int64     `db:"profesor_id" json:"profesor_id,omitempty"`
	CalendarioID     int64      `db:"calendario_id" json:"calendario_id"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// SeccionFilter captures filtering criteria for listing secciones.
type SeccionFilter struct {
	NRC          string
	CentroID     *int64
	MateriaID    *int64
	ProfesorID   *int64
	CalendarioID *int64
	Search       string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// SeccionUpdate carries the mutable fields of a seccion for the update path.
// Identity fields (nrc, centro_id, calendario_id) are deliberately absent.
type SeccionUpdate struct {
	Name             string
	Cupos            int
	CuposDisponibles int
	PeriodoInicio    *time.Time
	PeriodoFin       *time.Time
	MateriaID        int64
	ProfesorID       *int64
}
