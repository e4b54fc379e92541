package model

/*

Feed request/response types shared between the service layer and the HTTP
handlers.

FeedFilter narrows the candidate set before any ordering happens:
CategoryID restricts to one category, SubscribedOnly restricts to the
viewer's subscribed categories (and requires a known viewer).

PageToken is a stateless cursor: page number plus page size, both derivable
from the previous response. Concurrent writes between fetches may shift
items across page boundaries, which is accepted.

*/

const (
	// DefaultPageSize is the feed page size when the client asks for nothing.
	DefaultPageSize = 50
	// MaxPageSize caps what a client may request in one page.
	MaxPageSize = 50
)

type FeedFilter struct {
	CategoryID     string `json:"category_id"`
	SubscribedOnly bool   `json:"subscribed_only"`
}

type PageToken struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// Normalize clamps the token into the supported range; page numbers are
// 1-based.
func (p PageToken) Normalize() PageToken {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the number of rows to skip for this token.
func (p PageToken) Offset() int {
	return (p.Page - 1) * p.Size
}

// FeedPage is one slice of the ranked feed.
type FeedPage struct {
	Posts   []*Post   `json:"posts"`
	Token   PageToken `json:"token"`
	HasNext bool      `json:"has_next"`
}
