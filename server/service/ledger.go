package service

import (
	"context"
	"time"

	"github.com/lanternhq/lantern/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CastVote records voter's current choice on a target. A re-vote replaces
// the prior choice in place: the upsert runs against the unique
// (user_id, target_kind, target_id) index, so two concurrent casts from the
// same user serialize in the store and exactly one row survives. Never
// read-then-write here.
func (s *Service) CastVote(ctx context.Context, voter string, kind model.TargetKind, targetId string, choice model.VoteChoice) (*model.Vote, error) {
	if voter == "" {
		return nil, unauthorizedf("voting requires a known viewer")
	}
	if !kind.Valid() {
		return nil, invalidf("unknown target kind %q", kind)
	}
	if !choice.Valid() {
		return nil, invalidf("vote choice must be +1 or -1, got %d", choice)
	}

	vote := model.Vote{
		UserID:     voter,
		TargetKind: kind,
		TargetID:   targetId,
		Choice:     choice,
	}
	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkTargetExists(tx, kind, targetId); err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "target_kind"}, {Name: "target_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"choice":     choice,
				"updated_at": time.Now(),
			}),
		}).Create(&vote).Error
	})
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// ScoreOf sums the current vote choices per target. Targets with no votes
// map to 0, they are never absent from the result. One query regardless of
// how many ids are asked for.
func (s *Service) ScoreOf(ctx context.Context, kind model.TargetKind, targetIds []string) (map[string]int, error) {
	if !kind.Valid() {
		return nil, invalidf("unknown target kind %q", kind)
	}

	scores := make(map[string]int, len(targetIds))
	for _, id := range targetIds {
		scores[id] = 0
	}
	if len(targetIds) == 0 {
		return scores, nil
	}

	type scoreRow struct {
		TargetID string
		Score    int
	}
	var rows []scoreRow
	err := s.db(ctx).Model(&model.Vote{}).
		Select("target_id, SUM(choice) AS score").
		Where("target_kind = ? AND target_id IN ?", kind, targetIds).
		Group("target_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		scores[row.TargetID] = row.Score
	}
	return scores, nil
}

// VoterChoice returns the voter's current choice per target, 0 for targets
// the voter never voted on. Used to render the viewer's own prior vote.
func (s *Service) VoterChoice(ctx context.Context, voter string, kind model.TargetKind, targetIds []string) (map[string]model.VoteChoice, error) {
	if !kind.Valid() {
		return nil, invalidf("unknown target kind %q", kind)
	}

	choices := make(map[string]model.VoteChoice, len(targetIds))
	for _, id := range targetIds {
		choices[id] = 0
	}
	if voter == "" || len(targetIds) == 0 {
		return choices, nil
	}

	var votes []model.Vote
	err := s.db(ctx).
		Where("user_id = ? AND target_kind = ? AND target_id IN ?", voter, kind, targetIds).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	for _, v := range votes {
		choices[v.TargetID] = v.Choice
	}
	return choices, nil
}

// checkTargetExists resolves the tagged target reference against the table
// its kind names.
func (s *Service) checkTargetExists(tx *gorm.DB, kind model.TargetKind, targetId string) error {
	var count int64
	var err error
	switch kind {
	case model.TargetPost:
		err = tx.Model(&model.Post{}).Where("id = ?", targetId).Count(&count).Error
	case model.TargetComment:
		err = tx.Model(&model.Comment{}).Where("id = ?", targetId).Count(&count).Error
	default:
		return invalidf("unknown target kind %q", kind)
	}
	if err != nil {
		return err
	}
	if count == 0 {
		return notFoundf("%s %s", kind, targetId)
	}
	return nil
}
