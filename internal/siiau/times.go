package siiau

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const periodoLayout = "02/01/06"

// parsePeriodo parses a "DD/MM/YY - DD/MM/YY" period string into a start and
// end date. Empty input yields (nil, nil).
func parsePeriodo(raw string) (*time.Time, *time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil, nil
	}

	parts := strings.Split(raw, "-")
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("malformed periodo %q", raw)
	}

	inicio, err := time.Parse(periodoLayout, strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, nil, fmt.Errorf("malformed periodo %q: %w", raw, err)
	}
	fin, err := time.Parse(periodoLayout, strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, nil, fmt.Errorf("malformed periodo %q: %w", raw, err)
	}

	return &inicio, &fin, nil
}

// parseHoras parses a "HHMM-HHMM" range into wall-clock "HH:MM" strings. The
// first two digits of each side are the hour, the rest the minutes.
func parseHoras(raw string) (string, string, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("malformed horas %q", raw)
	}

	inicio, err := parseHora(parts[0])
	if err != nil {
		return "", "", fmt.Errorf("malformed horas %q: %w", raw, err)
	}
	fin, err := parseHora(parts[1])
	if err != nil {
		return "", "", fmt.Errorf("malformed horas %q: %w", raw, err)
	}

	return inicio, fin, nil
}

func parseHora(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 3 {
		return "", fmt.Errorf("hora %q too short", raw)
	}

	hour, err := strconv.Atoi(raw[:2])
	if err != nil {
		return "", err
	}
	minute, err := strconv.Atoi(raw[2:])
	if err != nil {
		return "", err
	}
	if hour > 23 || minute > 59 {
		return "", fmt.Errorf("hora %q out of range", raw)
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// parseDias maps the positional day string ("L M . . V") onto day codes 1-7:
// a non-dot token at position i means day i+1. Empty input yields the [0]
// sentinel, stored downstream as a null day.
func parseDias(raw string) []int {
	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return []int{0}
	}

	var dias []int
	for i, tok := range tokens {
		if tok != "." {
			dias = append(dias, i+1)
		}
	}
	if len(dias) == 0 {
		return []int{0}
	}
	return dias
}
