package dto

// ImportStats aggregates the outcome of one SIIAU import run. Every numeric
// field sums across all processed section groups; Errores counts groups that
// were skipped instead of aborting the run.
type ImportStats struct {
	SeccionesCreadas      int `json:"secciones_creadas"`
	SeccionesActualizadas int `json:"secciones_actualizadas"`
	MateriasCreadas       int `json:"materias_creadas"`
	ProfesoresCreados     int `json:"profesores_creados"`
	EdificiosCreados      int `json:"edificios_creados"`
	AulasCreadas          int `json:"aulas_creadas"`
	ClasesCreadas         int `json:"clases_creadas"`
	Errores               int `json:"errores"`
}

// Add accumulates another stats value into s.
func (s *ImportStats) Add(other ImportStats) {
	s.SeccionesCreadas += other.SeccionesCreadas
	s.SeccionesActualizadas += other.SeccionesActualizadas
	s.MateriasCreadas += other.MateriasCreadas
	s.ProfesoresCreados += other.ProfesoresCreados
	s.EdificiosCreados += other.EdificiosCreados
	s.AulasCreadas += other.AulasCreadas
	s.ClasesCreadas += other.ClasesCreadas
	s.Errores += other.Errores
}

// ManualImportRequest carries pre-parsed timetable rows for the manual import
// endpoint. Each row is a field map keyed by the SIIAU column names (NRC,
// Clave, Materia, Sec, CR, CUP, DIS, Profesor, SesionNum, Horas, Dias,
// Edificio, Aula, Periodo).
type ManualImportRequest struct {
	Rows []map[string]string `json:"rows" validate:"required,min=1"`
}
