// Package db provides shared GORM query scopes.
package db

import (
	"gorm.io/gorm"
)

// NotDeletedWithAlias is a GORM scope that filters out soft-deleted records with a table alias.
// Use this when joining tables and need to specify which table's deleted_at to check.
//
// Example usage:
//
//	db.Table("users u").Scopes(db.NotDeletedWithAlias("u")).Find(&results)
func NotDeletedWithAlias(alias string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(alias + ".deleted_at IS NULL")
	}
}
