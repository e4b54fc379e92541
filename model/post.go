package model

import (
	"time"

	"github.com/lib/pq"
)

/*

Post is a submission to a category: free-form union of text body, external
link and images, any of which may be empty.

Id: primary key, opaque uuid. Post and Comment ids share one uuid space but
the vote/favourite tables always carry an explicit target kind, so nothing
depends on cross-kind uniqueness.
CreatedAt: time when entity is created
UpdatedAt: time when entity is last updated

Title: submission title in plain text
Slug: URL token derived from Title at write time, never settable on its own
Body: text content, may be empty for pure link posts
Link: external url, may be empty for text posts
ImageUrls: attached image urls

CategoryID:
Category: category the post was submitted to, "belongs-to" relation
UserID:
User: author, "belongs-to" relation. Reassigned to the sentinel user when
the author deletes their account, never cascaded.

Score: read-time aggregate, sum of signed vote choices on this post
CommentCount: read-time aggregate, number of comments on this post
HasSaved/Upvoted/Downvoted: read-time viewer flags, all false for anonymous

*/
type Post struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Title     string         `gorm:"not null" json:"title"`
	Slug      string         `gorm:"index;not null" json:"slug"`
	Body      string         `json:"body"`
	Link      string         `json:"link"`
	ImageUrls pq.StringArray `gorm:"type:text[]" json:"image_urls"`

	CategoryID string   `gorm:"index;not null" json:"category_id"`
	Category   Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"category"`
	UserID     string   `gorm:"index;not null" json:"user_id"`
	User       User     `gorm:"constraint:OnUpdate:CASCADE;" json:"user"`

	Score        int `gorm:"-" json:"score"`
	CommentCount int `gorm:"-" json:"comment_count"`

	HasSaved  bool `gorm:"-" json:"has_saved"`
	Upvoted   bool `gorm:"-" json:"upvoted"`
	Downvoted bool `gorm:"-" json:"downvoted"`
}
