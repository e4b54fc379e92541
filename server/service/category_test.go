package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lanternhq/lantern/model"
	"github.com/lanternhq/lantern/utils"
	"github.com/stretchr/testify/require"
)

func TestCreateCategorySlug(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	svc := New(db)
	ctx := context.Background()

	user := utils.TestCreateUser(t, db, "alice")
	category, err := svc.CreateCategory(ctx, user.Id, "Home Lab Builds", "", "")
	require.NoError(t, err)
	require.Equal(t, "home-lab-builds", category.Slug)

	_, err = svc.CreateCategory(ctx, user.Id, "Home Lab Builds", "", "")
	require.True(t, errors.Is(err, ErrConflict))

	_, err = svc.CreateCategory(ctx, "", "Another", "", "")
	require.True(t, errors.Is(err, ErrUnauthorized))

	_, err = svc.CreateCategory(ctx, user.Id, "", "", "")
	require.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestSubscribeIsUniquePerUser(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	svc := New(db)
	ctx := context.Background()

	user := utils.TestCreateUser(t, db, "alice")
	category := utils.TestCreateCategory(t, db, "linux")

	require.NoError(t, svc.Subscribe(ctx, user.Id, category.Id))

	// The second subscribe is a Conflict and leaves exactly one row.
	err := svc.Subscribe(ctx, user.Id, category.Id)
	require.True(t, errors.Is(err, ErrConflict))

	var count int64
	require.NoError(t, db.Model(&model.Subscription{}).Where("user_id = ?", user.Id).Count(&count).Error)
	require.Equal(t, int64(1), count)

	require.NoError(t, svc.Unsubscribe(ctx, user.Id, category.Id))
	err = svc.Unsubscribe(ctx, user.Id, category.Id)
	require.True(t, errors.Is(err, ErrNotFound))

	err = svc.Subscribe(ctx, user.Id, "no-such-category")
	require.True(t, errors.Is(err, ErrNotFound))

	err = svc.Subscribe(ctx, "", category.Id)
	require.True(t, errors.Is(err, ErrUnauthorized))
}

func TestGetCategoryBySlug(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	svc := New(db)
	ctx := context.Background()

	subscriber := utils.TestCreateUser(t, db, "alice")
	outsider := utils.TestCreateUser(t, db, "bob")
	category := utils.TestCreateCategory(t, db, "linux")
	require.NoError(t, svc.Subscribe(ctx, subscriber.Id, category.Id))

	got, err := svc.GetCategoryBySlug(ctx, subscriber.Id, "linux")
	require.NoError(t, err)
	require.Equal(t, 1, got.SubscriberCount)
	require.True(t, got.Subscribed)

	got, err = svc.GetCategoryBySlug(ctx, outsider.Id, "linux")
	require.NoError(t, err)
	require.False(t, got.Subscribed)

	_, err = svc.GetCategoryBySlug(ctx, "", "no-such-slug")
	require.True(t, errors.Is(err, ErrNotFound))
}
