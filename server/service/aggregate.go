package service

import (
	"context"
	goerrors "errors"

	"github.com/lanternhq/lantern/model"
	"gorm.io/gorm"
)

// rankedOrder is the ordering contract every ranked listing follows: score
// first, recency second, id as a stable tiebreak so pagination stays
// deterministic across pages sharing a score.
const rankedOrder = "score DESC, posts.created_at DESC, posts.id DESC"

// postScoreSubquery joins every post with the sum of its current votes.
const postScoreSubquery = "LEFT JOIN (SELECT target_id, SUM(choice) AS vote_score FROM votes WHERE target_kind = 'post' GROUP BY target_id) vote_totals ON vote_totals.target_id = posts.id"

// postCommentCountSubquery joins every post with its comment count.
const postCommentCountSubquery = "LEFT JOIN (SELECT post_id, COUNT(*) AS comment_total FROM comments GROUP BY post_id) comment_totals ON comment_totals.post_id = posts.id"

// AnnotatePostScores fills Score and CommentCount on the given posts in
// place. Two grouped queries total, independent of how many posts are on the
// page; scoring a feed row by row is exactly the N+1 blowup this exists to
// avoid.
func (s *Service) AnnotatePostScores(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.Id)
	}

	scores, err := s.ScoreOf(ctx, model.TargetPost, ids)
	if err != nil {
		return err
	}

	type countRow struct {
		PostID string
		Total  int
	}
	var counts []countRow
	err = s.db(ctx).Model(&model.Comment{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", ids).
		Group("post_id").
		Find(&counts).Error
	if err != nil {
		return err
	}
	commentCounts := make(map[string]int, len(counts))
	for _, row := range counts {
		commentCounts[row.PostID] = row.Total
	}

	for _, p := range posts {
		p.Score = scores[p.Id]
		p.CommentCount = commentCounts[p.Id]
	}
	return nil
}

// AnnotateCommentScores fills Score and ReplyCount on the given comments in
// place, with the same bounded-query property as the post analogue.
func (s *Service) AnnotateCommentScores(ctx context.Context, comments []*model.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.Id)
	}

	scores, err := s.ScoreOf(ctx, model.TargetComment, ids)
	if err != nil {
		return err
	}

	type countRow struct {
		ReplyToID string
		Total     int
	}
	var counts []countRow
	err = s.db(ctx).Model(&model.Comment{}).
		Select("reply_to_id, COUNT(*) AS total").
		Where("reply_to_id IN ?", ids).
		Group("reply_to_id").
		Find(&counts).Error
	if err != nil {
		return err
	}
	replyCounts := make(map[string]int, len(counts))
	for _, row := range counts {
		replyCounts[row.ReplyToID] = row.Total
	}

	for _, c := range comments {
		c.Score = scores[c.Id]
		c.ReplyCount = replyCounts[c.Id]
	}
	return nil
}

// KarmaOf is the sum of the scores of all the user's posts and comments. A
// user with no content, or content with no votes, has karma 0.
func (s *Service) KarmaOf(ctx context.Context, userId string) (int, error) {
	var user model.User
	result := s.db(ctx).Where("id = ?", userId).First(&user)
	if goerrors.Is(result.Error, gorm.ErrRecordNotFound) {
		return 0, notFoundf("user %s", userId)
	}
	if result.Error != nil {
		return 0, result.Error
	}

	var postKarma, commentKarma int
	err := s.db(ctx).Model(&model.Vote{}).
		Select("COALESCE(SUM(votes.choice), 0)").
		Joins("JOIN posts ON posts.id = votes.target_id AND votes.target_kind = 'post'").
		Where("posts.user_id = ?", userId).
		Scan(&postKarma).Error
	if err != nil {
		return 0, err
	}
	err = s.db(ctx).Model(&model.Vote{}).
		Select("COALESCE(SUM(votes.choice), 0)").
		Joins("JOIN comments ON comments.id = votes.target_id AND votes.target_kind = 'comment'").
		Where("comments.user_id = ?", userId).
		Scan(&commentKarma).Error
	if err != nil {
		return 0, err
	}
	return postKarma + commentKarma, nil
}
