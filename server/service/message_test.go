package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lanternhq/lantern/utils"
	"github.com/stretchr/testify/require"
)

func TestSendMessageAndInbox(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	svc := New(db)
	ctx := context.Background()

	alice := utils.TestCreateUser(t, db, "alice")
	bob := utils.TestCreateUser(t, db, "bob")
	eve := utils.TestCreateUser(t, db, "eve")

	sent, err := svc.SendMessage(ctx, alice.Id, bob.Id, "hi", "hello bob", nil)
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, bob.Id, alice.Id, "re: hi", "hello alice", &sent.Id)
	require.NoError(t, err)

	// Replying into someone else's conversation is not allowed.
	_, err = svc.SendMessage(ctx, eve.Id, bob.Id, "re: hi", "intruding", &sent.Id)
	require.True(t, errors.Is(err, ErrUnauthorized))

	_, err = svc.SendMessage(ctx, alice.Id, "no-such-user", "hi", "hello", nil)
	require.True(t, errors.Is(err, ErrNotFound))

	_, err = svc.SendMessage(ctx, "", bob.Id, "hi", "anon", nil)
	require.True(t, errors.Is(err, ErrUnauthorized))

	inbox, err := svc.ListInbox(ctx, bob.Id)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.Equal(t, "hello bob", inbox[0].Content)

	inbox, err = svc.ListInbox(ctx, alice.Id)
	require.NoError(t, err)
	require.Len(t, inbox, 1)

	_, err = svc.ListInbox(ctx, "")
	require.True(t, errors.Is(err, ErrUnauthorized))
}
