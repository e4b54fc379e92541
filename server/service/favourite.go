package service

import (
	"context"

	"github.com/lanternhq/lantern/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SavePost bookmarks a post for the viewer. Saving an already-saved post is
// a no-op: the insert runs against the unique (user_id, post_id) index so
// at most one bookmark row ever exists per pair.
func (s *Service) SavePost(ctx context.Context, viewer string, postId string) error {
	if viewer == "" {
		return unauthorizedf("saving a post requires a known viewer")
	}
	return s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkTargetExists(tx, model.TargetPost, postId); err != nil {
			return err
		}
		favourite := model.Favourite{UserID: viewer, PostID: postId}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&favourite).Error
	})
}

// UnsavePost removes the viewer's bookmark; removing a bookmark that does
// not exist is a no-op.
func (s *Service) UnsavePost(ctx context.Context, viewer string, postId string) error {
	if viewer == "" {
		return unauthorizedf("unsaving a post requires a known viewer")
	}
	return s.db(ctx).Where("user_id = ? AND post_id = ?", viewer, postId).Delete(&model.Favourite{}).Error
}

// ToggleFavourite flips the viewer's bookmark on a post and reports the new
// state. The delete-then-insert runs in one transaction so two concurrent
// toggles settle on a single consistent row count.
func (s *Service) ToggleFavourite(ctx context.Context, viewer string, postId string) (saved bool, err error) {
	if viewer == "" {
		return false, unauthorizedf("saving a post requires a known viewer")
	}
	err = s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkTargetExists(tx, model.TargetPost, postId); err != nil {
			return err
		}
		result := tx.Where("user_id = ? AND post_id = ?", viewer, postId).Delete(&model.Favourite{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			saved = false
			return nil
		}
		favourite := model.Favourite{UserID: viewer, PostID: postId}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&favourite).Error; err != nil {
			return err
		}
		saved = true
		return nil
	})
	return saved, err
}
