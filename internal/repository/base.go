// Package repository provides data access layer implementations for the application.
package repository

import (
	"strings"

	"gorm.io/gorm"
)

// adjustCounter applies column = column + delta to one row as a single
// expression, so concurrent adjustments never lose updates.
func adjustCounter(tx *gorm.DB, model interface{}, id uint, column string, delta int) error {
	res := tx.Model(model).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// viewerLikes preloads only the viewer's own like rows. Anonymous viewers
// load none, which is enough to decide isLiked without pulling every like.
func viewerLikes(db *gorm.DB, association, viewerID string) *gorm.DB {
	if viewerID == "" {
		return db
	}
	return db.Preload(association, "user_id = ?", viewerID)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching q literally anywhere.
// Case folding is left to the database.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// titleMatch is a case-insensitive substring condition on title. SQLite's LIKE
// folds ASCII letters only.
func titleMatch(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return `title ILIKE ? ESCAPE '\'`
	}
	return `title LIKE ? ESCAPE '\'`
}
