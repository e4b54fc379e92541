package model

import "time"

/*

Comment is a reply to a post, optionally nested under another comment.

Id: primary key, opaque uuid, same id space as Post (see Post doc)
CreatedAt: time when entity is created
UpdatedAt: time when entity is last updated

Body: comment content in plain text
PostID:
Post: post this comment belongs to, "belongs-to" relation
ReplyToID:
ReplyTo: parent comment when this is a nested reply, nil for top-level
comments. The parent is protected: a comment cannot be deleted while
replies to it exist, and replying to a missing parent is rejected.
UserID:
User: author, reassigned to the sentinel user on account deletion

Score: read-time aggregate, sum of signed vote choices on this comment
ReplyCount: read-time aggregate, number of direct replies
Upvoted/Downvoted: read-time viewer flags

*/
type Comment struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Body      string `gorm:"not null" json:"body"`

	PostID    string   `gorm:"index;not null" json:"post_id"`
	Post      Post     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ReplyToID *string  `gorm:"index" json:"reply_to_id"`
	ReplyTo   *Comment `json:"-"`
	UserID    string   `gorm:"index;not null" json:"user_id"`
	User      User     `gorm:"constraint:OnUpdate:CASCADE;" json:"user"`

	Score      int `gorm:"-" json:"score"`
	ReplyCount int `gorm:"-" json:"reply_count"`

	Upvoted   bool `gorm:"-" json:"upvoted"`
	Downvoted bool `gorm:"-" json:"downvoted"`
}
