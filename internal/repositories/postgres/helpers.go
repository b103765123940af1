package postgres

import (
	"fmt"

	"gorm.io/gorm"
)

// orderedQuestions is the shared preload scope for question relations.
func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("display_order ASC, id ASC")
}

// applySort adds an ORDER BY clause limited to a whitelist of columns.
func applySort(query *gorm.DB, sortBy, sortOrder string, allowed map[string]bool) *gorm.DB {
	if !allowed[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	return query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))
}

func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}
