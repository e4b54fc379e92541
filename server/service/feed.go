package service

import (
	"context"
	goerrors "errors"

	"github.com/lanternhq/lantern/model"
	"gorm.io/gorm"
)

// rankedPostRow carries a post together with the aggregates computed in the
// same query that orders it.
type rankedPostRow struct {
	model.Post
	Score        int
	CommentCount int
}

// rankedPostQuery is the base query every ranked post listing builds on:
// each post joined with its vote score and comment count so the aggregates
// exist before any ordering or slicing happens.
func (s *Service) rankedPostQuery(ctx context.Context) *gorm.DB {
	return s.db(ctx).Model(&model.Post{}).
		Select("posts.*, COALESCE(vote_totals.vote_score, 0) AS score, COALESCE(comment_totals.comment_total, 0) AS comment_count").
		Joins(postScoreSubquery).
		Joins(postCommentCountSubquery)
}

// fetchRankedPage orders the candidate set, slices one page out of it and
// attaches authors, categories and viewer flags to the slice. The query must
// come from rankedPostQuery, possibly narrowed further.
func (s *Service) fetchRankedPage(ctx context.Context, viewer string, query *gorm.DB, page model.PageToken) (*model.FeedPage, error) {
	var rows []*rankedPostRow
	// Fetch one row beyond the page to learn whether a next page exists.
	err := query.Order(rankedOrder).
		Limit(page.Size + 1).
		Offset(page.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	hasNext := len(rows) > page.Size
	if hasNext {
		rows = rows[:page.Size]
	}

	posts := make([]*model.Post, 0, len(rows))
	for _, row := range rows {
		post := row.Post
		post.Score = row.Score
		post.CommentCount = row.CommentCount
		posts = append(posts, &post)
	}

	if err := s.attachAuthorsAndCategories(ctx, posts); err != nil {
		return nil, err
	}
	if err := s.AnnotatePostsForViewer(ctx, viewer, posts); err != nil {
		return nil, err
	}

	return &model.FeedPage{Posts: posts, Token: page, HasNext: hasNext}, nil
}

// BuildFeed returns one page of the ranked feed. The candidate set is
// narrowed by the filter first, then scored and ordered inside a single
// query so the aggregate is computed over every candidate, never just the
// current page. Viewer flags are attached last, to the sliced page only,
// since they do not affect ordering.
func (s *Service) BuildFeed(ctx context.Context, viewer string, filter model.FeedFilter, page model.PageToken) (*model.FeedPage, error) {
	if filter.SubscribedOnly && viewer == "" {
		return nil, unauthorizedf("subscribed-only feed requires a known viewer")
	}
	page = page.Normalize()

	query := s.rankedPostQuery(ctx)

	if filter.CategoryID != "" {
		var count int64
		if err := s.db(ctx).Model(&model.Category{}).Where("id = ?", filter.CategoryID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, notFoundf("category %s", filter.CategoryID)
		}
		query = query.Where("posts.category_id = ?", filter.CategoryID)
	}
	if filter.SubscribedOnly {
		query = query.Where("posts.category_id IN (SELECT category_id FROM subscriptions WHERE user_id = ?)", viewer)
	}

	return s.fetchRankedPage(ctx, viewer, query, page)
}

// ListPostsByUser returns one page of a user's own posts, ranked and
// annotated exactly like the feed. Backs the user page.
func (s *Service) ListPostsByUser(ctx context.Context, viewer string, userId string, page model.PageToken) (*model.FeedPage, error) {
	var count int64
	if err := s.db(ctx).Model(&model.User{}).Where("id = ?", userId).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, notFoundf("user %s", userId)
	}

	query := s.rankedPostQuery(ctx).Where("posts.user_id = ?", userId)
	return s.fetchRankedPage(ctx, viewer, query, page.Normalize())
}

// attachAuthorsAndCategories fills the User and Category associations for a
// page of posts with one query per association.
func (s *Service) attachAuthorsAndCategories(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}
	userIds := make([]string, 0, len(posts))
	categoryIds := make([]string, 0, len(posts))
	for _, p := range posts {
		userIds = append(userIds, p.UserID)
		categoryIds = append(categoryIds, p.CategoryID)
	}

	var users []model.User
	if err := s.db(ctx).Where("id IN ?", userIds).Find(&users).Error; err != nil {
		return err
	}
	var categories []model.Category
	if err := s.db(ctx).Where("id IN ?", categoryIds).Find(&categories).Error; err != nil {
		return err
	}

	userById := make(map[string]model.User, len(users))
	for _, u := range users {
		userById[u.Id] = u
	}
	categoryById := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		categoryById[c.Id] = c
	}
	for _, p := range posts {
		p.User = userById[p.UserID]
		p.Category = categoryById[p.CategoryID]
	}
	return nil
}

// PickRandomCategory picks uniformly over existing categories.
func (s *Service) PickRandomCategory(ctx context.Context) (*model.Category, error) {
	var category model.Category
	result := s.db(ctx).Order("RANDOM()").First(&category)
	if goerrors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, notFoundf("no categories exist")
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &category, nil
}
