package model

import "time"

/*

Message is a private message between two users, optionally replying to an
earlier message. Messages live outside the ranked feed entirely: they are
never voted on, never aggregated.

Id: primary key, opaque uuid
SenderID:
RecipientID: the two ends of the conversation
Title: subject line
Content: message body in plain text
ReplyToID: parent message when this is a reply, nil for a fresh thread

*/
type Message struct {
	Id          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	Title       string  `gorm:"not null" json:"title"`
	Content     string  `gorm:"not null" json:"content"`
	SenderID    string  `gorm:"index;not null" json:"sender_id"`
	RecipientID string  `gorm:"index;not null" json:"recipient_id"`
	ReplyToID   *string `json:"reply_to_id"`
}
