package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lanternhq/lantern/model"
	"github.com/lanternhq/lantern/utils"
	"github.com/stretchr/testify/require"
)

func TestAnnotatePostScoresIsBulk(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	ctx := context.Background()

	author := utils.TestCreateUser(t, db, "alice")
	voter := utils.TestCreateUser(t, db, "bob")
	category := utils.TestCreateCategory(t, db, "linux")

	var posts []*model.Post
	for i := 0; i < 5; i++ {
		posts = append(posts, utils.TestCreatePost(t, db, author, category, fmt.Sprintf("post %d", i), time.Now()))
	}
	svc := New(db)
	_, err := svc.CastVote(ctx, voter.Id, model.TargetPost, posts[0].Id, model.ChoiceUp)
	require.NoError(t, err)
	_, err = svc.CreateComment(ctx, voter.Id, posts[1].Id, nil, "a comment")
	require.NoError(t, err)
	_, err = svc.CreateComment(ctx, voter.Id, posts[1].Id, nil, "another comment")
	require.NoError(t, err)

	countedDB, counter := utils.WithSQLCounter(db)
	counted := New(countedDB)
	require.NoError(t, counted.AnnotatePostScores(ctx, posts))

	require.Equal(t, 1, posts[0].Score)
	require.Equal(t, 2, posts[1].CommentCount)
	require.Equal(t, 0, posts[2].Score)
	require.Equal(t, 0, posts[2].CommentCount)

	// Two grouped queries for the whole page, regardless of its size.
	require.Equal(t, int64(2), counter.Count())
}

func TestAnnotateCommentScores(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	svc := New(db)
	ctx := context.Background()

	author := utils.TestCreateUser(t, db, "alice")
	voter := utils.TestCreateUser(t, db, "bob")
	category := utils.TestCreateCategory(t, db, "linux")
	post := utils.TestCreatePost(t, db, author, category, "post", time.Now())

	parent, err := svc.CreateComment(ctx, author.Id, post.Id, nil, "parent")
	require.NoError(t, err)
	_, err = svc.CreateComment(ctx, voter.Id, post.Id, &parent.Id, "reply")
	require.NoError(t, err)
	_, err = svc.CastVote(ctx, voter.Id, model.TargetComment, parent.Id, model.ChoiceUp)
	require.NoError(t, err)

	comments := []*model.Comment{parent}
	require.NoError(t, svc.AnnotateCommentScores(ctx, comments))
	require.Equal(t, 1, parent.Score)
	require.Equal(t, 1, parent.ReplyCount)
}

func TestKarmaOf(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	svc := New(db)
	ctx := context.Background()

	user := utils.TestCreateUser(t, db, "alice")
	category := utils.TestCreateCategory(t, db, "linux")

	// Two posts with scores 3 and -1, one comment with score 2: karma 4.
	postA := utils.TestCreatePost(t, db, user, category, "post a", time.Now())
	postB := utils.TestCreatePost(t, db, user, category, "post b", time.Now())
	comment := utils.TestCreateComment(t, db, user, postA, "comment")

	var voters []*model.User
	for i := 0; i < 3; i++ {
		voters = append(voters, utils.TestCreateUser(t, db, fmt.Sprintf("voter%d", i)))
	}
	for _, v := range voters {
		_, err := svc.CastVote(ctx, v.Id, model.TargetPost, postA.Id, model.ChoiceUp)
		require.NoError(t, err)
	}
	_, err := svc.CastVote(ctx, voters[0].Id, model.TargetPost, postB.Id, model.ChoiceDown)
	require.NoError(t, err)
	_, err = svc.CastVote(ctx, voters[0].Id, model.TargetComment, comment.Id, model.ChoiceUp)
	require.NoError(t, err)
	_, err = svc.CastVote(ctx, voters[1].Id, model.TargetComment, comment.Id, model.ChoiceUp)
	require.NoError(t, err)

	karma, err := svc.KarmaOf(ctx, user.Id)
	require.NoError(t, err)
	require.Equal(t, 4, karma)

	// No content contributes 0, never null.
	lurker := utils.TestCreateUser(t, db, "lurker")
	karma, err = svc.KarmaOf(ctx, lurker.Id)
	require.NoError(t, err)
	require.Equal(t, 0, karma)

	_, err = svc.KarmaOf(ctx, "no-such-user")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestListUsersByKarma(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	svc := New(db)
	ctx := context.Background()

	alice := utils.TestCreateUser(t, db, "alice")
	bob := utils.TestCreateUser(t, db, "bob")
	voter := utils.TestCreateUser(t, db, "voter")
	category := utils.TestCreateCategory(t, db, "linux")
	post := utils.TestCreatePost(t, db, bob, category, "bob post", time.Now())
	_, err := svc.CastVote(ctx, voter.Id, model.TargetPost, post.Id, model.ChoiceUp)
	require.NoError(t, err)

	users, err := svc.ListUsersByKarma(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.Equal(t, bob.Id, users[0].Id)
	require.Equal(t, 1, users[0].Karma)
	require.Equal(t, 0, users[1].Karma)
	require.Equal(t, 0, users[2].Karma)
	require.ElementsMatch(t, []string{alice.Id, voter.Id}, []string{users[1].Id, users[2].Id})
}
