package model

import "time"

/*

Subscription is a (user, category) pair; a user subscribes to a category at
most once, enforced by the unique index. A duplicate subscribe surfaces as
a Conflict to the caller instead of silently inserting a second row.

*/
type Subscription struct {
	Id         uint     `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID     string   `gorm:"uniqueIndex:idx_subscription_user_category;not null" json:"user_id"`
	CategoryID string   `gorm:"uniqueIndex:idx_subscription_user_category;index;not null" json:"category_id"`
	Category   Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt  time.Time
}
