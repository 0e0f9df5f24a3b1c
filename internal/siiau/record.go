package siiau

// SessionRecord is one parsed timetable row expanded per meeting slot. NRC is
// the only field guaranteed non-empty; every other field uses "" for absent,
// there is no separate null state.
type SessionRecord struct {
	NRC      string `json:"nrc"`
	Clave    string `json:"clave"`
	Materia  string `json:"materia"`
	Sec      string `json:"sec"`
	CR       string `json:"cr"`
	CUP      string `json:"cup"`
	DIS      string `json:"dis"`
	Profesor string `json:"profesor"`

	SesionNum string `json:"sesion_num"`
	Horas     string `json:"horas"`
	Dias      string `json:"dias"`
	Edificio  string `json:"edificio"`
	Aula      string `json:"aula"`
	Periodo   string `json:"periodo"`
}

// SectionGroup holds every record sharing one NRC, in source order. One
// section meets several times a week; each meeting is a separate record.
type SectionGroup struct {
	NRC     string
	Records []SessionRecord
}

// GroupByNRC groups records by exact NRC equality, preserving first-seen
// order of NRCs and source order within each group.
func GroupByNRC(records []SessionRecord) []SectionGroup {
	index := make(map[string]int, len(records))
	var groups []SectionGroup

	for _, rec := range records {
		if i, ok := index[rec.NRC]; ok {
			groups[i].Records = append(groups[i].Records, rec)
			continue
		}
		index[rec.NRC] = len(groups)
		groups = append(groups, SectionGroup{NRC: rec.NRC, Records: []SessionRecord{rec}})
	}

	return groups
}
