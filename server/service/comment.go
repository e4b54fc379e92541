package service

import (
	"context"
	goerrors "errors"
	"sort"

	"github.com/google/uuid"
	"github.com/lanternhq/lantern/model"
	"gorm.io/gorm"
)

// CreateComment adds a comment to a post, optionally as a reply to another
// comment on the same post. Not idempotent: a retried call creates a second
// comment, so clients must treat it as at-most-once.
func (s *Service) CreateComment(ctx context.Context, viewer string, postId string, replyToId *string, body string) (*model.Comment, error) {
	if viewer == "" {
		return nil, unauthorizedf("commenting requires a known viewer")
	}
	if body == "" {
		return nil, invalidf("comment body must not be empty")
	}

	comment := model.Comment{
		Id:        uuid.New().String(),
		Body:      body,
		PostID:    postId,
		ReplyToID: replyToId,
		UserID:    viewer,
	}
	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkTargetExists(tx, model.TargetPost, postId); err != nil {
			return err
		}
		if replyToId != nil {
			var parent model.Comment
			result := tx.Where("id = ?", *replyToId).First(&parent)
			if goerrors.Is(result.Error, gorm.ErrRecordNotFound) {
				return notFoundf("comment %s", *replyToId)
			}
			if result.Error != nil {
				return result.Error
			}
			if parent.PostID != postId {
				return invalidf("reply parent belongs to a different post")
			}
		}
		return tx.Create(&comment).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes the viewer's own comment. A comment with replies is
// protected: deletion fails with Conflict instead of cascading into the
// thread below it. Votes on the comment go with it.
func (s *Service) DeleteComment(ctx context.Context, viewer string, commentId string) error {
	if viewer == "" {
		return unauthorizedf("deleting a comment requires a known viewer")
	}
	return s.db(ctx).Transaction(func(tx *gorm.DB) error {
		var comment model.Comment
		result := tx.Where("id = ?", commentId).First(&comment)
		if goerrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return notFoundf("comment %s", commentId)
		}
		if result.Error != nil {
			return result.Error
		}
		if comment.UserID != viewer {
			return unauthorizedf("only the author can delete a comment")
		}

		var replies int64
		if err := tx.Model(&model.Comment{}).Where("reply_to_id = ?", commentId).Count(&replies).Error; err != nil {
			return err
		}
		if replies > 0 {
			return conflictf("comment %s has replies", commentId)
		}

		if err := tx.Where("target_kind = ? AND target_id = ?", model.TargetComment, commentId).Delete(&model.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
}

// ListComments returns a post's comments annotated with scores, reply
// counts, authors and viewer flags, ordered by the ranking contract.
func (s *Service) ListComments(ctx context.Context, viewer string, postId string) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := s.db(ctx).Where("post_id = ?", postId).Order("created_at DESC, id DESC").Find(&comments).Error
	if err != nil {
		return nil, err
	}

	if err := s.AnnotateCommentScores(ctx, comments); err != nil {
		return nil, err
	}
	if err := s.AnnotateCommentsForViewer(ctx, viewer, comments); err != nil {
		return nil, err
	}
	if err := s.attachCommentAuthors(ctx, comments); err != nil {
		return nil, err
	}

	// Scores only exist after annotation, so the ranked order is applied
	// here rather than in SQL. A post's comment section is not paginated.
	sort.SliceStable(comments, func(i, j int) bool {
		if comments[i].Score != comments[j].Score {
			return comments[i].Score > comments[j].Score
		}
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.After(comments[j].CreatedAt)
		}
		return comments[i].Id > comments[j].Id
	})
	return comments, nil
}

func (s *Service) attachCommentAuthors(ctx context.Context, comments []*model.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	userIds := make([]string, 0, len(comments))
	for _, c := range comments {
		userIds = append(userIds, c.UserID)
	}
	var users []model.User
	if err := s.db(ctx).Where("id IN ?", userIds).Find(&users).Error; err != nil {
		return err
	}
	userById := make(map[string]model.User, len(users))
	for _, u := range users {
		userById[u.Id] = u
	}
	for _, c := range comments {
		c.User = userById[c.UserID]
	}
	return nil
}
