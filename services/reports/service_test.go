package reports

import (
	"context"
	"testing"
	"time"

	"affdash-backend/lib/browser"
	"affdash-backend/lib/scrapers/e2"
	"affdash-backend/lib/testutil"
	"affdash-backend/services/keychain"
	keychaindb "affdash-backend/services/keychain/db"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupService(t *testing.T) (Service, keychain.Service, func()) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/reports",
		DbSchema: keychaindb.Schema,
	})
	kc := keychain.NewService(setup.DB)
	return NewService(kc, browser.Options{}), kc, cleanup
}

func TestFetchUnknownAccount(t *testing.T) {
	service, kc, cleanup := setupService(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	const user = int64(9001)

	err := kc.SetAccount(ctx, user, keychain.Account{
		Username: "acme_partners",
		Password: "hunter2",
	})
	require.NoError(t, err)

	_, err = service.FetchAccount(ctx, user, "acme_partnes")
	var unknown UnknownAccountError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "acme_partnes", unknown.Account)
	require.Equal(t, "acme_partners", unknown.Suggestion)

	// nowhere near anything stored, so no suggestion either
	_, err = service.FetchAccount(ctx, user, "zzz")
	require.ErrorAs(t, err, &unknown)
	require.Empty(t, unknown.Suggestion)
}

func TestFetchWhileBusy(t *testing.T) {
	service, _, cleanup := setupService(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	const user = int64(9002)

	require.True(t, service.state.TryEnter(user))
	defer service.state.Leave(user)

	_, err := service.FetchAccount(ctx, user, "acme")
	require.ErrorIs(t, err, ErrBusy)

	_, _, err = service.FetchAll(ctx, user)
	require.ErrorIs(t, err, ErrBusy)
}

func TestCachedReportMissing(t *testing.T) {
	service, _, cleanup := setupService(t)
	defer cleanup()

	_, err := service.CachedReport(9003, "acme")
	require.ErrorIs(t, err, ErrNoReport)
}

func TestPaginate(t *testing.T) {
	service, _, cleanup := setupService(t)
	defer cleanup()

	const user = int64(9004)

	_, err := service.Paginate(user, "acme", 0, MoveNext)
	require.ErrorIs(t, err, ErrNoReport)

	service.state.PutReport(user, "acme", e2.Report{
		Currencies: []string{"USD", "EUR", "GBP"},
		Snapshots: map[string]e2.Snapshot{
			"USD": {Withdrawable: "$ 1.00"},
			"EUR": {Withdrawable: "€ 2.00"},
			"GBP": {Withdrawable: "£ 3.00"},
		},
	})

	page, err := service.Paginate(user, "acme", 0, MoveNone)
	require.NoError(t, err)
	require.Equal(t, "USD", page.Label)
	require.Equal(t, 0, page.Index)
	require.Equal(t, "$ 1.00", page.Snapshot.Withdrawable)

	page, err = service.Paginate(user, "acme", page.Index, MoveNext)
	require.NoError(t, err)
	require.Equal(t, "EUR", page.Label)
	require.Equal(t, 1, page.Index)

	// going back from the first currency wraps to the last
	page, err = service.Paginate(user, "acme", 0, MovePrev)
	require.NoError(t, err)
	require.Equal(t, "GBP", page.Label)
	require.Equal(t, 2, page.Index)

	// an out-of-range position resets to the start
	page, err = service.Paginate(user, "acme", 99, MoveNone)
	require.NoError(t, err)
	require.Equal(t, "USD", page.Label)
}
