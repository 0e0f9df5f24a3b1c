package repository

import "strings"

func sanitizeSort(sortBy, sortOrder string, allowed map[string]bool) (string, string) {
	if sortBy == "" || !allowed[sortBy] {
		sortBy = "created_at"
	}

	order := strings.ToUpper(sortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	return sortBy, order
}

func sanitizePage(page, size int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return size, (page - 1) * size
}
