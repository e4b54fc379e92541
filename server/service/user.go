package service

import (
	"context"
	goerrors "errors"

	"github.com/google/uuid"
	"github.com/lanternhq/lantern/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateUser registers a handle. The identity provider owns authentication;
// this only materializes the account row the core hangs content off.
func (s *Service) CreateUser(ctx context.Context, handle, displayName string) (*model.User, error) {
	if handle == "" {
		return nil, invalidf("handle must not be empty")
	}
	if handle == model.SentinelUserHandle {
		return nil, conflictf("handle %q is reserved", handle)
	}
	user := model.User{
		Id:          uuid.New().String(),
		Handle:      handle,
		DisplayName: displayName,
	}
	result := s.db(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, conflictf("handle %q is taken", handle)
	}
	return &user, nil
}

// GetUserByHandle returns a user with their karma filled in.
func (s *Service) GetUserByHandle(ctx context.Context, handle string) (*model.User, error) {
	var user model.User
	result := s.db(ctx).Where("handle = ?", handle).First(&user)
	if goerrors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, notFoundf("user %s", handle)
	}
	if result.Error != nil {
		return nil, result.Error
	}
	karma, err := s.KarmaOf(ctx, user.Id)
	if err != nil {
		return nil, err
	}
	user.Karma = karma
	return &user, nil
}

// userKarmaJoin folds post karma and comment karma per user into one
// selectable expression.
const userKarmaJoins = `
LEFT JOIN (SELECT posts.user_id AS uid, SUM(votes.choice) AS karma FROM votes JOIN posts ON posts.id = votes.target_id AND votes.target_kind = 'post' GROUP BY posts.user_id) post_karma ON post_karma.uid = users.id
LEFT JOIN (SELECT comments.user_id AS uid, SUM(votes.choice) AS karma FROM votes JOIN comments ON comments.id = votes.target_id AND votes.target_kind = 'comment' GROUP BY comments.user_id) comment_karma ON comment_karma.uid = users.id`

// ListUsersByKarma returns all users ranked by karma, then join date, then
// handle, with karma computed in the same query that orders the set.
func (s *Service) ListUsersByKarma(ctx context.Context) ([]*model.User, error) {
	type userKarmaRow struct {
		model.User
		Karma int
	}
	var rows []*userKarmaRow
	err := s.db(ctx).Model(&model.User{}).
		Select("users.*, COALESCE(post_karma.karma, 0) + COALESCE(comment_karma.karma, 0) AS karma").
		Joins(userKarmaJoins).
		Order("karma DESC, users.created_at DESC, users.handle").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	users := make([]*model.User, 0, len(rows))
	for _, row := range rows {
		user := row.User
		user.Karma = row.Karma
		users = append(users, &user)
	}
	return users, nil
}

// EnsureSentinelUser returns the tombstone identity, creating it if it does
// not exist yet. Every user-deletion path goes through this first.
func (s *Service) EnsureSentinelUser(tx *gorm.DB) (*model.User, error) {
	var sentinel model.User
	result := tx.Where("handle = ?", model.SentinelUserHandle).First(&sentinel)
	if result.Error == nil {
		return &sentinel, nil
	}
	if !goerrors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}
	sentinel = model.User{
		Id:          uuid.New().String(),
		Handle:      model.SentinelUserHandle,
		DisplayName: "[deleted]",
	}
	if err := tx.Create(&sentinel).Error; err != nil {
		return nil, err
	}
	return &sentinel, nil
}

// DeleteUser removes an account. Their posts and comments transfer to the
// sentinel identity, never cascade; their votes, favourites, subscriptions
// and messages are dropped. All of it commits atomically.
func (s *Service) DeleteUser(ctx context.Context, userId string) error {
	return s.db(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		result := tx.Where("id = ?", userId).First(&user)
		if goerrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return notFoundf("user %s", userId)
		}
		if result.Error != nil {
			return result.Error
		}
		if user.IsSentinel() {
			return conflictf("the sentinel user cannot be deleted")
		}

		sentinel, err := s.EnsureSentinelUser(tx)
		if err != nil {
			return err
		}

		if err := tx.Model(&model.Post{}).Where("user_id = ?", userId).Update("user_id", sentinel.Id).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Comment{}).Where("user_id = ?", userId).Update("user_id", sentinel.Id).Error; err != nil {
			return err
		}
		for _, m := range []interface{}{&model.Vote{}, &model.Favourite{}, &model.Subscription{}} {
			if err := tx.Where("user_id = ?", userId).Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("sender_id = ? OR recipient_id = ?", userId, userId).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}
