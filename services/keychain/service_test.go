package keychain

import (
	"context"
	"testing"
	"time"

	"affdash-backend/lib/testutil"
	"affdash-backend/services/keychain/db"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestService(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/keychain",
		DbSchema: db.Schema,
	})
	defer cleanup()
	service := NewService(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	const owner = int64(7001)

	{
		_, found, err := service.GetAccount(ctx, owner, "acme")
		require.NoError(t, err)
		require.False(t, found)

		usernames, err := service.ListUsernames(ctx, owner)
		require.NoError(t, err)
		require.Len(t, usernames, 0)
	}
	{
		err := service.SetAccount(ctx, owner, Account{
			Username: "acme",
			Password: "hunter2",
		})
		require.NoError(t, err)

		err = service.SetAccount(ctx, owner, Account{
			Username: "globex",
			Password: "secret",
		})
		require.NoError(t, err)

		account, found, err := service.GetAccount(ctx, owner, "acme")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "hunter2", account.Password)

		usernames, err := service.ListUsernames(ctx, owner)
		require.NoError(t, err)
		require.Equal(t, []string{"acme", "globex"}, usernames)
	}
	{
		// saving again overwrites the password in place
		err := service.SetAccount(ctx, owner, Account{
			Username: "acme",
			Password: "hunter3",
		})
		require.NoError(t, err)

		account, found, err := service.GetAccount(ctx, owner, "acme")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "hunter3", account.Password)
	}
	{
		// owners do not see each other's accounts
		_, found, err := service.GetAccount(ctx, owner+1, "acme")
		require.NoError(t, err)
		require.False(t, found)
	}
	{
		deleted, err := service.DeleteAccount(ctx, owner, "acme")
		require.NoError(t, err)
		require.True(t, deleted)

		deleted, err = service.DeleteAccount(ctx, owner, "acme")
		require.NoError(t, err)
		require.False(t, deleted)

		usernames, err := service.ListUsernames(ctx, owner)
		require.NoError(t, err)
		require.Equal(t, []string{"globex"}, usernames)
	}
}
