package store

import (
	"time"

	"github.com/lib/pq"
	"github.com/taskflow-dev/taskflow/internal/types"
	"gorm.io/gorm"
)

// Sortable task columns. Sort input comes straight from clients, so anything
// not in this map falls back to created_at rather than reaching the ORDER BY
// clause.
var taskSortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"title":       "title",
	"status":      "status",
	"priority":    "priority",
	"dueDate":     "due_date",
	"completedAt": "completed_at",
	"position":    "position",
}

// OrderClause resolves a client-supplied sort into a safe ORDER BY fragment.
func OrderClause(sort types.Sort) string {
	column, ok := taskSortColumns[sort.Field]
	if !ok {
		column = "created_at"
	}

	direction := "DESC"
	if sort.Order == "asc" {
		direction = "ASC"
	}

	return column + " " + direction
}

// OwnedBy scopes a query to the requesting user. Every task/goal/category
// query goes through this; cross-owner rows are invisible, not forbidden.
func OwnedBy(userID interface{}) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	}
}

// MatchesSearch is the free-text rule: a case-insensitive match against
// title OR description.
func MatchesSearch(search string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if search == "" {
			return q
		}
		pattern := "%" + search + "%"
		return q.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
}

// HasAllTags is the tag rule: the task must contain every listed tag
// (array containment, AND semantics).
func HasAllTags(tags []string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if len(tags) == 0 {
			return q
		}
		return q.Where("tags @> ?", pq.Array(tags))
	}
}

// DueOn selects tasks due within one day of the given instant, as
// [day, day+24h). Date-only input parses to midnight, so the window is the
// calendar day.
func DueOn(day *time.Time) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if day == nil {
			return q
		}
		return q.Where("due_date >= ? AND due_date < ?", *day, day.Add(24*time.Hour))
	}
}

// InStatuses OR-combines one or more statuses.
func InStatuses(statuses []string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if len(statuses) == 0 {
			return q
		}
		return q.Where("status IN ?", statuses)
	}
}

func InPriorities(priorities []string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if len(priorities) == 0 {
			return q
		}
		return q.Where("priority IN ?", priorities)
	}
}

// WithParent filters on a parent column, honoring the "null" sentinel for
// top-level records.
func WithParent(column, value string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		switch value {
		case "":
			return q
		case types.ParentFilterNull:
			return q.Where(column + " IS NULL")
		default:
			return q.Where(column+" = ?", value)
		}
	}
}
