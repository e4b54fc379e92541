package service

import (
	"context"
	goerrors "errors"

	"github.com/google/uuid"
	"github.com/lanternhq/lantern/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateCategory creates a category; the slug is always derived from the
// name here, never accepted from the caller.
func (s *Service) CreateCategory(ctx context.Context, viewer string, name, description, avatarUrl string) (*model.Category, error) {
	if viewer == "" {
		return nil, unauthorizedf("creating a category requires a known viewer")
	}
	if name == "" {
		return nil, invalidf("category name must not be empty")
	}
	category := model.Category{
		Id:          uuid.New().String(),
		Name:        name,
		Slug:        model.Slugify(name),
		Description: description,
		AvatarUrl:   avatarUrl,
	}
	result := s.db(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&category)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, conflictf("category %q already exists", name)
	}
	return &category, nil
}

// GetCategoryBySlug returns a category with its subscriber count and, for a
// known viewer, whether the viewer subscribes to it.
func (s *Service) GetCategoryBySlug(ctx context.Context, viewer string, slug string) (*model.Category, error) {
	var category model.Category
	result := s.db(ctx).Where("slug = ?", slug).First(&category)
	if goerrors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, notFoundf("category %s", slug)
	}
	if result.Error != nil {
		return nil, result.Error
	}

	var subscriberCount int64
	if err := s.db(ctx).Model(&model.Subscription{}).Where("category_id = ?", category.Id).Count(&subscriberCount).Error; err != nil {
		return nil, err
	}
	category.SubscriberCount = int(subscriberCount)

	if viewer != "" {
		var count int64
		if err := s.db(ctx).Model(&model.Subscription{}).Where("user_id = ? AND category_id = ?", viewer, category.Id).Count(&count).Error; err != nil {
			return nil, err
		}
		category.Subscribed = count > 0
	}
	return &category, nil
}

// ListCategories returns all categories ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	if err := s.db(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Subscribe adds the viewer to a category's subscribers. Subscribing twice
// is a Conflict; the unique (user_id, category_id) index backs that up even
// under concurrent subscribes.
func (s *Service) Subscribe(ctx context.Context, viewer string, categoryId string) error {
	if viewer == "" {
		return unauthorizedf("subscribing requires a known viewer")
	}
	return s.db(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Category{}).Where("id = ?", categoryId).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return notFoundf("category %s", categoryId)
		}

		sub := model.Subscription{UserID: viewer, CategoryID: categoryId}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&sub)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return conflictf("already subscribed to category %s", categoryId)
		}
		return nil
	})
}

// Unsubscribe removes the viewer's subscription; unsubscribing from a
// category the viewer never subscribed to is a NotFound.
func (s *Service) Unsubscribe(ctx context.Context, viewer string, categoryId string) error {
	if viewer == "" {
		return unauthorizedf("unsubscribing requires a known viewer")
	}
	result := s.db(ctx).Where("user_id = ? AND category_id = ?", viewer, categoryId).Delete(&model.Subscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFoundf("no subscription for category %s", categoryId)
	}
	return nil
}
