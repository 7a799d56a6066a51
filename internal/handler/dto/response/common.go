package response

import (
	"github.com/google/uuid"

	"storefront/internal/usecase/queries"
)

// Page wraps a list payload with the keyset cursor for the next page.
type Page[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"next_cursor,omitempty"`
}

func NewPage[T any](items []T, next *queries.Cursor) *Page[T] {
	p := &Page[T]{Items: items}
	if items == nil {
		p.Items = []T{}
	}
	if next != nil && next.After != "" {
		after := next.After
		p.NextCursor = &after
	}
	return p
}

type IDResponse struct {
	ID uuid.UUID `json:"id"`
}

type BrandsResponse struct {
	Brands []string `json:"brands"`
}

// HelpfulVoteResponse reports whether the caller's vote exists after a toggle.
type HelpfulVoteResponse struct {
	Helpful bool `json:"helpful"`
}
