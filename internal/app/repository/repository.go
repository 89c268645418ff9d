package repository

import (
	"strings"
	"time"

	"github.com/ikkim/shopadmin-backend/internal/app/model"
	"gorm.io/gorm"
)

// Page is a 1-based page request. A zero Limit means no limit.
type Page struct {
	Number int
	Limit  int
}

func (p Page) Offset() int {
	if p.Number <= 1 {
		return 0
	}
	return (p.Number - 1) * p.Limit
}

// SortOrder is asc or desc.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) sql() string {
	if o == SortAsc {
		return "ASC"
	}
	return "DESC"
}

func notDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// notDeletedOn qualifies the soft delete filter for queries that join other tables.
func notDeletedOn(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table+".is_deleted = ?", false)
	}
}

func paginate(p Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.Limit <= 0 {
			return db
		}
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

// softDelete flags every live row of value's table matching the condition.
func softDelete(db *gorm.DB, value interface{}, query string, args ...interface{}) (int64, error) {
	result := db.Model(value).
		Where(query, args...).
		Where("is_deleted = ?", false).
		Updates(model.SoftDeleteColumns(time.Now()))
	return result.RowsAffected, result.Error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern matches term anywhere in a lowercased column, treating % and _ literally.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// searchColumns matches term case-insensitively against any of the columns.
func searchColumns(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		like := likePattern(term)
		conds := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			conds[i] = "LOWER(" + col + `) LIKE ? ESCAPE '\'`
			args[i] = like
		}
		return db.Where(strings.Join(conds, " OR "), args...)
	}
}
