package repository

import (
	"github.com/socialbase/socialbase/pkg/pagination"
	"gorm.io/gorm"
)

// keysetBefore narrows a newest-first listing to rows strictly after the
// cursor in scan order. The row-value comparison keeps the (created_at, id)
// tie-break atomic in a single predicate.
func keysetBefore(q *gorm.DB, cursor *pagination.Cursor) *gorm.DB {
	if cursor == nil {
		return q
	}
	return q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
}
