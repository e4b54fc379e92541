package service

import (
	"context"

	"github.com/lanternhq/lantern/model"
)

// AnnotatePostsForViewer fills HasSaved/Upvoted/Downvoted on the given posts
// in place. Anonymous viewers short-circuit: every flag stays false and no
// vote or favourite lookup is issued at all. For a known viewer the flags
// resolve in two queries regardless of the page size.
//
// Upvoted and Downvoted are mutually exclusive because the ledger keeps one
// choice per (user, target); this just reflects the ledger's state.
func (s *Service) AnnotatePostsForViewer(ctx context.Context, viewer string, posts []*model.Post) error {
	if viewer == "" || len(posts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.Id)
	}

	choices, err := s.VoterChoice(ctx, viewer, model.TargetPost, ids)
	if err != nil {
		return err
	}

	var favourites []model.Favourite
	err = s.db(ctx).Where("user_id = ? AND post_id IN ?", viewer, ids).Find(&favourites).Error
	if err != nil {
		return err
	}
	saved := make(map[string]bool, len(favourites))
	for _, f := range favourites {
		saved[f.PostID] = true
	}

	for _, p := range posts {
		p.HasSaved = saved[p.Id]
		p.Upvoted = choices[p.Id] == model.ChoiceUp
		p.Downvoted = choices[p.Id] == model.ChoiceDown
	}
	return nil
}

// AnnotateCommentsForViewer is the comment analogue; comments cannot be
// favourited so only the vote flags apply.
func (s *Service) AnnotateCommentsForViewer(ctx context.Context, viewer string, comments []*model.Comment) error {
	if viewer == "" || len(comments) == 0 {
		return nil
	}
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.Id)
	}

	choices, err := s.VoterChoice(ctx, viewer, model.TargetComment, ids)
	if err != nil {
		return err
	}
	for _, c := range comments {
		c.Upvoted = choices[c.Id] == model.ChoiceUp
		c.Downvoted = choices[c.Id] == model.ChoiceDown
	}
	return nil
}
