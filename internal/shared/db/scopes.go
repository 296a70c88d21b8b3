// Package db provides database utilities including transaction management and query scopes.
package db

import (
	"gorm.io/gorm"

	"github.com/tillgate/tillgate/internal/shared/constants"
)

// ActiveOnly filters rows whose is_active flag is set.
//
//	db.Model(&models.RoleModel{}).Scopes(db.ActiveOnly("")).Find(&roles)
func ActiveOnly(alias string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column(alias, "is_active")+" = ?", true)
	}
}

// Paginate applies offset/limit for a 1-based page. Out-of-range values fall
// back to the defaults in constants.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	page, pageSize = NormalizePage(page, pageSize)
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = constants.DefaultPage
	}
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return page, pageSize
}

func column(alias, name string) string {
	if alias == "" {
		return name
	}
	return alias + "." + name
}
