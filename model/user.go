package model

import "time"

// SentinelUserHandle is the handle of the tombstone identity that adopts
// content left behind by deleted accounts. It must exist before any user
// deletion path runs.
const SentinelUserHandle = "deleted"

/*

User is an account that posts, comments, votes, favourites and subscribes.

Id: primary key, opaque uuid
CreatedAt: time when entity is created
UpdatedAt: time when entity is last updated

Handle: unique short name used in URLs and mentions
DisplayName: free-form display name shown next to content

Karma: read-time aggregate, sum of the scores of all the user's posts and
comments. Never stored; filled by the aggregation queries on demand.

*/
type User struct {
	Id          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Handle      string `gorm:"uniqueIndex;not null" json:"handle"`
	DisplayName string `json:"display_name"`

	Karma int `gorm:"-" json:"karma"`
}

// IsSentinel reports whether this user is the tombstone identity.
func (u *User) IsSentinel() bool {
	return u.Handle == SentinelUserHandle
}
