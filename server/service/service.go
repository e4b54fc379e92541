// Package service implements the ranking and vote-aggregation core: the vote
// ledger, the bulk aggregation queries, per-viewer annotation and the ranked
// feed builder. Every call takes the viewer as an explicit parameter; there
// is no ambient request user anywhere in this package.
package service

import (
	"context"

	"gorm.io/gorm"
)

// Service carries the dependencies every operation needs. The only one so
// far is the database handle.
type Service struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// db returns a request-scoped handle so cancellation propagates into the
// store.
func (s *Service) db(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}
