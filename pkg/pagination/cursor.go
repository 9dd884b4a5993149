// Package pagination implements the keyset cursor contract shared by every
// list-returning operation. A cursor is the (created_at, id) sort key of the
// last row returned, never an offset, so page boundaries stay stable while
// rows are inserted or deleted mid-pagination.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

var ErrInvalidCursor = errors.New("invalid pagination cursor")

// Cursor identifies a position in a (created_at, id)-ordered listing. The id
// breaks created_at ties, giving every listing a strict total order.
type Cursor struct {
	CreatedAt time.Time `json:"created_at"`
	ID        uuid.UUID `json:"id"`
}

// Page is the envelope every paginated read returns. NextCursor is nil at
// end-of-list.
type Page[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *Cursor `json:"next_cursor"`
}

// Encode renders the cursor as an opaque URL-safe token.
func (c Cursor) Encode() string {
	data, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(data)
}

// Decode parses a token produced by Encode. An empty token means "first page"
// and yields a nil cursor.
func Decode(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, ErrInvalidCursor
	}
	if c.ID == uuid.Nil {
		return nil, ErrInvalidCursor
	}
	return &c, nil
}

// ClampLimit normalizes a caller-supplied page size to [1, MaxLimit],
// substituting DefaultLimit for zero or negative values.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NewPage trims an over-fetched slice down to limit rows. Repositories query
// limit+1 rows; the presence of the extra row is what proves another page
// exists, and the last retained row's key becomes the next cursor.
func NewPage[T any](items []T, limit int, key func(T) Cursor) Page[T] {
	if len(items) <= limit {
		return Page[T]{Items: items}
	}
	items = items[:limit]
	next := key(items[len(items)-1])
	return Page[T]{Items: items, NextCursor: &next}
}
