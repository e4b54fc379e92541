package service

import (
	"context"
	goerrors "errors"

	"github.com/google/uuid"
	"github.com/lanternhq/lantern/model"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// NewPostInput is the content union of a submission: any of body, link and
// images may be empty, only the title is required.
type NewPostInput struct {
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Link       string   `json:"link"`
	ImageUrls  []string `json:"image_urls"`
	CategoryID string   `json:"category_id"`
}

// CreatePost submits a post to a category. The slug is derived from the
// title at write time.
func (s *Service) CreatePost(ctx context.Context, viewer string, input NewPostInput) (*model.Post, error) {
	if viewer == "" {
		return nil, unauthorizedf("posting requires a known viewer")
	}
	if input.Title == "" {
		return nil, invalidf("post title must not be empty")
	}

	post := model.Post{
		Id:         uuid.New().String(),
		Title:      input.Title,
		Slug:       model.Slugify(input.Title),
		Body:       input.Body,
		Link:       input.Link,
		ImageUrls:  pq.StringArray(input.ImageUrls),
		CategoryID: input.CategoryID,
		UserID:     viewer,
	}
	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Category{}).Where("id = ?", input.CategoryID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return notFoundf("category %s", input.CategoryID)
		}
		return tx.Create(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPost returns one post with aggregates, viewer flags and its comments.
// Comments come back annotated the same way, ordered by the ranking
// contract.
func (s *Service) GetPost(ctx context.Context, viewer string, postId string) (*model.Post, []*model.Comment, error) {
	var post model.Post
	result := s.db(ctx).Where("id = ?", postId).First(&post)
	if goerrors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil, notFoundf("post %s", postId)
	}
	if result.Error != nil {
		return nil, nil, result.Error
	}

	posts := []*model.Post{&post}
	if err := s.AnnotatePostScores(ctx, posts); err != nil {
		return nil, nil, err
	}
	if err := s.attachAuthorsAndCategories(ctx, posts); err != nil {
		return nil, nil, err
	}
	if err := s.AnnotatePostsForViewer(ctx, viewer, posts); err != nil {
		return nil, nil, err
	}

	comments, err := s.ListComments(ctx, viewer, postId)
	if err != nil {
		return nil, nil, err
	}
	return &post, comments, nil
}
