package siiau

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Fixed column positions in the SIIAU offer table.
const (
	colNRC = iota
	colClave
	colMateria
	colSec
	colCR
	colCUP
	colDIS
	colHorario
	colProfesor
)

var nrcPattern = regexp.MustCompile(`^\d{4,}`)

// ParseTable turns the raw SIIAU timetable HTML into a flat list of session
// records, one per meeting slot. Rows whose first cell does not start with at
// least four digits are headers or decoration and are skipped. Missing or
// malformed cells degrade to empty fields, never to an error.
func ParseTable(r io.Reader) ([]SessionRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, nil
	}

	var records []SessionRecord
	directRows(table).Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() == 0 {
			return
		}
		if !nrcPattern.MatchString(strings.TrimSpace(cells.First().Text())) {
			return
		}

		base := SessionRecord{
			NRC:      cellText(cells.Eq(colNRC)),
			Clave:    cellText(cells.Eq(colClave)),
			Materia:  cellText(cells.Eq(colMateria)),
			Sec:      cellText(cells.Eq(colSec)),
			CR:       cellText(cells.Eq(colCR)),
			CUP:      cellText(cells.Eq(colCUP)),
			DIS:      cellText(cells.Eq(colDIS)),
			Profesor: professorText(cells.Eq(colProfesor)),
		}

		records = append(records, expandSchedule(base, scheduleText(cells.Eq(colHorario)))...)
	})

	return records, nil
}

// directRows returns the tr elements that belong to the table itself, not to
// nested tables. The HTML parser inserts tbody wrappers, so rows may sit one
// level below the table element.
func directRows(table *goquery.Selection) *goquery.Selection {
	rows := table.ChildrenFiltered("tr")
	table.ChildrenFiltered("thead, tbody, tfoot").Each(func(_ int, section *goquery.Selection) {
		rows = rows.AddSelection(section.ChildrenFiltered("tr"))
	})
	return rows
}

// cellText joins a cell's text nodes with single spaces, trimming each piece.
func cellText(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}

	var parts []string
	var collect func(sel *goquery.Selection)
	collect = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				if t := strings.TrimSpace(c.Text()); t != "" {
					parts = append(parts, t)
				}
				return
			}
			collect(c)
		})
	}
	collect(s)

	return strings.Join(parts, " ")
}

// professorText extracts the instructor name from the professor cell. SIIAU
// renders it as a nested one-row table whose second cell holds the name.
func professorText(cell *goquery.Selection) string {
	if cell.Length() == 0 {
		return ""
	}

	inner := cell.Find("table").First()
	if inner.Length() == 0 {
		return cellText(cell)
	}

	firstRow := inner.Find("tr").First()
	if firstRow.Length() == 0 {
		return ""
	}

	rowCells := firstRow.Find("td")
	if rowCells.Length() >= 2 {
		return cellText(rowCells.Eq(1))
	}
	return cellText(firstRow)
}

// scheduleText flattens the schedule cell into a string of meeting slots.
// Nested rows become "ses | horas | dias | edificio | aula | periodo"
// segments joined by " ; ". Without a nested table the cell's own text is
// returned as a single unparsed segment.
func scheduleText(cell *goquery.Selection) string {
	if cell.Length() == 0 {
		return ""
	}

	inner := cell.Find("table").First()
	if inner.Length() == 0 {
		return cellText(cell)
	}

	var parts []string
	inner.Find("tr").Each(func(_ int, row *goquery.Selection) {
		var sub []string
		row.Find("td").Each(func(_ int, c *goquery.Selection) {
			sub = append(sub, cellText(c))
		})
		joined := strings.Join(sub, " | ")
		if strings.TrimSpace(joined) != "" {
			parts = append(parts, joined)
		}
	})

	return strings.Join(parts, " ; ")
}

// expandSchedule emits one record per meeting slot found in the schedule
// string, copying the base fields unchanged. An empty schedule yields exactly
// one record with empty schedule fields.
func expandSchedule(base SessionRecord, horario string) []SessionRecord {
	if strings.TrimSpace(horario) == "" {
		return []SessionRecord{base}
	}

	var expanded []SessionRecord
	for _, segment := range strings.Split(horario, ";") {
		if strings.TrimSpace(segment) == "" {
			continue
		}

		fields := strings.Split(segment, "|")
		rec := base
		setters := []*string{&rec.SesionNum, &rec.Horas, &rec.Dias, &rec.Edificio, &rec.Aula, &rec.Periodo}
		for i, target := range setters {
			if i < len(fields) {
				*target = strings.TrimSpace(fields[i])
			}
		}
		expanded = append(expanded, rec)
	}

	if len(expanded) == 0 {
		return []SessionRecord{base}
	}
	return expanded
}
