package reports

import (
	"sync"
	"testing"

	"affdash-backend/lib/scrapers/e2"

	"github.com/stretchr/testify/require"
)

func TestOperationGuard(t *testing.T) {
	state := NewState()

	require.True(t, state.TryEnter(1))
	require.False(t, state.TryEnter(1))
	// other users are unaffected
	require.True(t, state.TryEnter(2))

	state.Leave(1)
	require.True(t, state.TryEnter(1))

	state.Leave(1)
	state.Leave(2)
}

func TestOperationGuardConcurrent(t *testing.T) {
	state := NewState()

	const attempts = 64
	var wg sync.WaitGroup
	var mu sync.Mutex
	entered := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if state.TryEnter(42) {
				mu.Lock()
				entered++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// exactly one goroutine wins the slot while it is held
	require.Equal(t, 1, entered)
}

func TestReportCache(t *testing.T) {
	state := NewState()

	_, ok := state.Report(1, "acme")
	require.False(t, ok)

	report := e2.Report{Currencies: []string{"USD"}}
	state.PutReport(1, "acme", report)
	state.PutReport(1, "globex", e2.Report{Currencies: []string{"EUR"}})

	got, ok := state.Report(1, "acme")
	require.True(t, ok)
	require.Equal(t, []string{"USD"}, got.Currencies)

	_, ok = state.Report(2, "acme")
	require.False(t, ok)
}

func TestCursorEmptyReport(t *testing.T) {
	_, err := NewCursor(e2.Report{})
	require.ErrorIs(t, err, ErrNoReport)
}

func TestCursorNavigation(t *testing.T) {
	report := e2.Report{Currencies: []string{"USD", "EUR", "GBP"}}

	cursor, err := NewCursor(report)
	require.NoError(t, err)
	require.Equal(t, "USD", cursor.Current())

	require.Equal(t, "EUR", cursor.Next().Current())
	require.Equal(t, "GBP", cursor.Next().Next().Current())
	// forward wraps past the end
	require.Equal(t, "USD", cursor.Next().Next().Next().Current())
	// backward wraps before the start
	require.Equal(t, "GBP", cursor.Prev().Current())

	// a full lap in either direction is the identity
	lap := cursor
	for range report.Currencies {
		lap = lap.Next()
	}
	require.Equal(t, cursor.Current(), lap.Current())

	lap = cursor
	for range report.Currencies {
		lap = lap.Prev()
	}
	require.Equal(t, cursor.Current(), lap.Current())

	// next and prev cancel from any position
	mid := cursor.Next()
	require.Equal(t, mid.Current(), mid.Next().Prev().Current())
	require.Equal(t, mid.Current(), mid.Prev().Next().Current())
}

func TestCursorSingleCurrency(t *testing.T) {
	cursor, err := NewCursor(e2.Report{Currencies: []string{e2.DefaultCurrency}})
	require.NoError(t, err)

	require.Equal(t, e2.DefaultCurrency, cursor.Next().Current())
	require.Equal(t, e2.DefaultCurrency, cursor.Prev().Current())
}
