package model

import "time"

/*

Category is a named grouping of posts, the equivalent of a subforum.

Id: primary key, opaque uuid
CreatedAt: time when entity is created
UpdatedAt: time when entity is last updated

Name: unique display name
Slug: URL token derived from Name at write time, never settable on its own
Description: one-line description shown on the category page
AvatarUrl: category avatar image url

SubscriberCount: read-time aggregate, number of subscriptions pointing here
Subscribed: read-time flag, whether the requesting viewer subscribes

*/
type Category struct {
	Id          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `json:"description"`
	AvatarUrl   string `json:"avatar_url"`

	SubscriberCount int  `gorm:"-" json:"subscriber_count"`
	Subscribed      bool `gorm:"-" json:"subscribed"`
}
