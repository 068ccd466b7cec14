package reports

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"affdash-backend/lib/browser"
	"affdash-backend/lib/scrapers/e2"
	"affdash-backend/services/keychain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/reports")

// UnknownAccountError is returned when a fetch names a username the
// user never stored. Suggestion holds the closest stored username, if
// any came close enough.
type UnknownAccountError struct {
	Account    string
	Suggestion string
}

func (e UnknownAccountError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("no account named %q, did you mean %q?", e.Account, e.Suggestion)
	}
	return fmt.Sprintf("no account named %q", e.Account)
}

type Service struct {
	keychain keychain.Service
	state    *State
	browser  browser.Options
}

func NewService(kc keychain.Service, opts browser.Options) Service {
	return Service{
		keychain: kc,
		state:    NewState(),
		browser:  opts,
	}
}

// scrape runs one complete dashboard scrape in a fresh browser. The
// browser always dies with the operation; any error discards whatever
// was collected so far, partial reports never leave this function.
func (s Service) scrape(ctx context.Context, username, password string) (e2.Report, error) {
	session, err := browser.NewSession(ctx, s.browser)
	if err != nil {
		return e2.Report{}, err
	}
	defer session.Close()

	client := e2.NewClient(session)
	err = client.Login(ctx, username, password)
	if err != nil {
		return e2.Report{}, err
	}
	return client.ScrapeAllCurrencies(ctx)
}

// Validate checks a credential pair by attempting a real login. A
// clean rejection reports false with no error; an environment failure
// like a missing browser reports the error instead.
func (s Service) Validate(ctx context.Context, username, password string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Validate")
	defer span.End()

	session, err := browser.NewSession(ctx, s.browser)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "browser unavailable")
		return false, err
	}
	defer session.Close()

	client := e2.NewClient(session)
	err = client.Login(ctx, username, password)
	if errors.Is(err, e2.ErrLoginFailed) {
		return false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login attempt errored")
		return false, err
	}
	return true, nil
}

// FetchAccount scrapes one stored account across all its currencies
// and caches the result for pagination. Only one fetch per user may
// run at a time; concurrent calls get ErrBusy.
func (s Service) FetchAccount(ctx context.Context, userID int64, account string) (e2.Report, error) {
	ctx, span := tracer.Start(ctx, "FetchAccount")
	defer span.End()

	span.SetAttributes(attribute.String("account", account))

	if !s.state.TryEnter(userID) {
		return e2.Report{}, ErrBusy
	}
	defer s.state.Leave(userID)

	report, err := s.fetchLocked(ctx, userID, account)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return e2.Report{}, err
	}
	return report, nil
}

func (s Service) fetchLocked(ctx context.Context, userID int64, account string) (e2.Report, error) {
	cred, found, err := s.keychain.GetAccount(ctx, userID, account)
	if err != nil {
		return e2.Report{}, err
	}
	if !found {
		known, err := s.keychain.ListUsernames(ctx, userID)
		if err != nil {
			return e2.Report{}, err
		}
		suggestion, _ := SuggestAccount(account, known)
		return e2.Report{}, UnknownAccountError{Account: account, Suggestion: suggestion}
	}

	report, err := s.scrape(ctx, cred.Username, cred.Password)
	if err != nil {
		return e2.Report{}, err
	}

	s.state.PutReport(userID, account, report)
	return report, nil
}

// FetchAll scrapes every account the user has stored, sequentially
// under one operation slot. A failing account is skipped and listed in
// the second return value instead of aborting the rest.
func (s Service) FetchAll(ctx context.Context, userID int64) (map[string]e2.Report, []string, error) {
	ctx, span := tracer.Start(ctx, "FetchAll")
	defer span.End()

	if !s.state.TryEnter(userID) {
		return nil, nil, ErrBusy
	}
	defer s.state.Leave(userID)

	usernames, err := s.keychain.ListUsernames(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	span.SetAttributes(attribute.Int("account_count", len(usernames)))

	reports := map[string]e2.Report{}
	var failed []string
	for _, username := range usernames {
		report, err := s.fetchLocked(ctx, userID, username)
		if err != nil {
			slog.ErrorContext(ctx, "failed to fetch account, skipping", "account", username, "err", err)
			failed = append(failed, username)
			continue
		}
		reports[username] = report
	}

	return reports, failed, nil
}

// CachedReport returns the last fetched report for pagination. Expired
// or never-fetched reports surface as ErrNoReport so the caller can
// prompt for a fresh fetch.
func (s Service) CachedReport(userID int64, account string) (e2.Report, error) {
	report, ok := s.state.Report(userID, account)
	if !ok {
		return e2.Report{}, ErrNoReport
	}
	return report, nil
}

type Move int

const (
	MoveNone Move = iota
	MoveNext
	MovePrev
)

// Page holds one pagination step's result. Index goes back to the
// caller so the next step can resume from the same position.
type Page struct {
	Label    string
	Index    int
	Snapshot e2.Snapshot
}

// Paginate steps through the cached report's currencies. index is the
// caller's last known position; out-of-range values reset to the
// first currency. Stateless on the server side, so an expired cache
// simply surfaces ErrNoReport.
func (s Service) Paginate(userID int64, account string, index int, move Move) (Page, error) {
	report, err := s.CachedReport(userID, account)
	if err != nil {
		return Page{}, err
	}

	cursor, err := NewCursor(report)
	if err != nil {
		return Page{}, err
	}
	if index >= 0 && index < len(cursor.Labels) {
		cursor.Index = index
	}

	switch move {
	case MoveNext:
		cursor = cursor.Next()
	case MovePrev:
		cursor = cursor.Prev()
	}

	label := cursor.Current()
	return Page{
		Label:    label,
		Index:    cursor.Index,
		Snapshot: report.Snapshots[label],
	}, nil
}
