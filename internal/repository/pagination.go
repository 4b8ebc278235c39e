package repository

import "gorm.io/gorm"

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if page <= 0 {
		page = defaultPage
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
