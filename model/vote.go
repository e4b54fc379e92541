package model

import "time"

// TargetKind is the closed set of entities a vote or favourite can point at.
// Keeping the kind explicit next to the id means referential checks never
// rely on Post and Comment ids living in one uuid space.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// Valid reports whether k is one of the two supported kinds.
func (k TargetKind) Valid() bool {
	return k == TargetPost || k == TargetComment
}

// VoteChoice is a signed vote, +1 or -1.
type VoteChoice int

const (
	ChoiceUp   VoteChoice = 1
	ChoiceDown VoteChoice = -1
)

// Valid reports whether c is in the allowed choice set.
func (c VoteChoice) Valid() bool {
	return c == ChoiceUp || c == ChoiceDown
}

/*

Vote is one user's current signed choice on one target.

The unique index over (user_id, target_kind, target_id) is the invariant the
whole ledger hangs off: a re-vote overwrites the existing row via an
ON CONFLICT upsert, it never inserts a second row, even under concurrent
casts from the same user.

UserID: voter; the row is deleted with the account, never reassigned, so the
sentinel user's own unique index rows can never collide with adopted ones
TargetKind:
TargetID: tagged reference to the voted post or comment
Choice: +1 or -1
CreatedAt: first time the user voted on this target
UpdatedAt: last time the choice was (re)cast

*/
type Vote struct {
	Id         uint       `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID     string     `gorm:"uniqueIndex:idx_vote_user_target;not null" json:"user_id"`
	TargetKind TargetKind `gorm:"uniqueIndex:idx_vote_user_target;not null" json:"target_kind"`
	TargetID   string     `gorm:"uniqueIndex:idx_vote_user_target;index;not null" json:"target_id"`
	Choice     VoteChoice `gorm:"not null" json:"choice"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
