package model

import "time"

/*

Favourite is a bookmark: a (user, post) marker.

The unique index makes saving a toggle rather than an append; saving twice
leaves exactly one row, unsaving deletes it.

UserID: the user who saved; the row is deleted with the account
PostID: the saved post

*/
type Favourite struct {
	Id        uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID    string `gorm:"uniqueIndex:idx_favourite_user_post;not null" json:"user_id"`
	PostID    string `gorm:"uniqueIndex:idx_favourite_user_post;index;not null" json:"post_id"`
	CreatedAt time.Time
}
