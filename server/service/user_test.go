package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lanternhq/lantern/model"
	"github.com/lanternhq/lantern/utils"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	svc := New(db)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "alice", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, user.Id)

	_, err = svc.CreateUser(ctx, "alice", "Another Alice")
	require.True(t, errors.Is(err, ErrConflict))

	_, err = svc.CreateUser(ctx, "", "")
	require.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = svc.CreateUser(ctx, model.SentinelUserHandle, "imposter")
	require.True(t, errors.Is(err, ErrConflict))
}

func TestDeleteUserTransfersToSentinel(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	svc := New(db)
	ctx := context.Background()

	doomed := utils.TestCreateUser(t, db, "doomed")
	voter := utils.TestCreateUser(t, db, "bob")
	category := utils.TestCreateCategory(t, db, "linux")
	post := utils.TestCreatePost(t, db, doomed, category, "their post", time.Now())
	comment := utils.TestCreateComment(t, db, doomed, post, "their comment")

	_, err := svc.CastVote(ctx, doomed.Id, model.TargetPost, post.Id, model.ChoiceUp)
	require.NoError(t, err)
	_, err = svc.CastVote(ctx, voter.Id, model.TargetPost, post.Id, model.ChoiceUp)
	require.NoError(t, err)
	require.NoError(t, svc.SavePost(ctx, doomed.Id, post.Id))
	require.NoError(t, svc.Subscribe(ctx, doomed.Id, category.Id))

	require.NoError(t, svc.DeleteUser(ctx, doomed.Id))

	// The account row is gone, the content survives under the sentinel.
	var count int64
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", doomed.Id).Count(&count).Error)
	require.Equal(t, int64(0), count)

	var sentinel model.User
	require.NoError(t, db.Where("handle = ?", model.SentinelUserHandle).First(&sentinel).Error)

	var gotPost model.Post
	require.NoError(t, db.Where("id = ?", post.Id).First(&gotPost).Error)
	require.Equal(t, sentinel.Id, gotPost.UserID)

	var gotComment model.Comment
	require.NoError(t, db.Where("id = ?", comment.Id).First(&gotComment).Error)
	require.Equal(t, sentinel.Id, gotComment.UserID)

	// Their votes, favourites and subscriptions are dropped, so the post
	// keeps only the other voter's choice.
	scores, err := svc.ScoreOf(ctx, model.TargetPost, []string{post.Id})
	require.NoError(t, err)
	require.Equal(t, 1, scores[post.Id])

	require.NoError(t, db.Model(&model.Favourite{}).Where("user_id = ?", doomed.Id).Count(&count).Error)
	require.Equal(t, int64(0), count)
	require.NoError(t, db.Model(&model.Subscription{}).Where("user_id = ?", doomed.Id).Count(&count).Error)
	require.Equal(t, int64(0), count)

	// The sentinel itself is not deletable.
	err = svc.DeleteUser(ctx, sentinel.Id)
	require.True(t, errors.Is(err, ErrConflict))

	err = svc.DeleteUser(ctx, "no-such-user")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestGetUserByHandle(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	svc := New(db)
	ctx := context.Background()

	user := utils.TestCreateUser(t, db, "alice")
	voter := utils.TestCreateUser(t, db, "bob")
	category := utils.TestCreateCategory(t, db, "linux")
	post := utils.TestCreatePost(t, db, user, category, "post", time.Now())
	_, err := svc.CastVote(ctx, voter.Id, model.TargetPost, post.Id, model.ChoiceUp)
	require.NoError(t, err)

	got, err := svc.GetUserByHandle(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, user.Id, got.Id)
	require.Equal(t, 1, got.Karma)

	_, err = svc.GetUserByHandle(ctx, "nobody")
	require.True(t, errors.Is(err, ErrNotFound))
}
