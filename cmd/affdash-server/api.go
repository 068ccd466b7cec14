package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"affdash-backend/lib/scrapers/e2"
	"affdash-backend/lib/timezone"
	"affdash-backend/services/keychain"
	"affdash-backend/services/reports"
)

type Api struct {
	keychain keychain.Service
	reports  reports.Service
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

func readJson[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeJson(w, http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
		var zero T
		return zero, false
	}
	return req, true
}

// writeFetchError maps the fetch error taxonomy onto status codes. A
// busy user is a conflict, an unknown account a not-found, anything
// else means the scrape itself failed.
func writeFetchError(w http.ResponseWriter, err error) {
	if errors.Is(err, reports.ErrBusy) {
		writeJson(w, http.StatusConflict, map[string]string{
			"error": "an operation is already running for this user",
		})
		return
	}
	var unknown reports.UnknownAccountError
	if errors.As(err, &unknown) {
		writeJson(w, http.StatusNotFound, map[string]string{
			"error":      unknown.Error(),
			"suggestion": unknown.Suggestion,
		})
		return
	}
	writeJson(w, http.StatusBadGateway, map[string]string{
		"error": err.Error(),
	})
}

func (a Api) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

type setAccountRequest struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a Api) SetAccount(w http.ResponseWriter, r *http.Request) {
	req, ok := readJson[setAccountRequest](w, r)
	if !ok {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJson(w, http.StatusBadRequest, map[string]string{
			"error": "username and password are required",
		})
		return
	}

	err := a.keychain.SetAccount(r.Context(), req.UserID, keychain.Account{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeJson(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJson(w, http.StatusOK, map[string]bool{"stored": true})
}

func (a Api) ListAccounts(w http.ResponseWriter, r *http.Request) {
	req, ok := readJson[struct {
		UserID int64 `json:"user_id"`
	}](w, r)
	if !ok {
		return
	}

	usernames, err := a.keychain.ListUsernames(r.Context(), req.UserID)
	if err != nil {
		writeJson(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJson(w, http.StatusOK, map[string]any{"usernames": usernames})
}

func (a Api) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	req, ok := readJson[struct {
		UserID   int64  `json:"user_id"`
		Username string `json:"username"`
	}](w, r)
	if !ok {
		return
	}

	deleted, err := a.keychain.DeleteAccount(r.Context(), req.UserID, req.Username)
	if err != nil {
		writeJson(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !deleted {
		writeJson(w, http.StatusNotFound, map[string]string{
			"error": "no such account",
		})
		return
	}
	writeJson(w, http.StatusOK, map[string]bool{"deleted": true})
}

type validateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a Api) Validate(w http.ResponseWriter, r *http.Request) {
	req, ok := readJson[validateRequest](w, r)
	if !ok {
		return
	}

	valid, err := a.reports.Validate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeJson(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJson(w, http.StatusOK, map[string]bool{"valid": valid})
}

type fetchRequest struct {
	UserID  int64  `json:"user_id"`
	Account string `json:"account"`
}

type reportResponse struct {
	Account    string                 `json:"account"`
	Currencies []string               `json:"currencies"`
	Skipped    []string               `json:"skipped,omitempty"`
	Snapshots  map[string]e2.Snapshot `json:"snapshots"`
	Messages   map[string]string      `json:"messages"`
	FetchedAt  string                 `json:"fetched_at"`
}

func newReportResponse(account string, report e2.Report) reportResponse {
	at := timezone.Now()

	messages := map[string]string{}
	for _, label := range report.Currencies {
		display := label
		if display == e2.DefaultCurrency {
			display = ""
		}
		messages[label] = reports.FormatMarkdown(report.Snapshots[label], account, display, at)
	}

	return reportResponse{
		Account:    account,
		Currencies: report.Currencies,
		Skipped:    report.Skipped,
		Snapshots:  report.Snapshots,
		Messages:   messages,
		FetchedAt:  at.Format("2006-01-02 15:04:05 (MYT)"),
	}
}

func (a Api) Fetch(w http.ResponseWriter, r *http.Request) {
	req, ok := readJson[fetchRequest](w, r)
	if !ok {
		return
	}
	if req.Account == "" {
		writeJson(w, http.StatusBadRequest, map[string]string{
			"error": "account is required",
		})
		return
	}

	report, err := a.reports.FetchAccount(r.Context(), req.UserID, req.Account)
	if err != nil {
		writeFetchError(w, err)
		return
	}
	writeJson(w, http.StatusOK, newReportResponse(req.Account, report))
}

type pageRequest struct {
	UserID  int64  `json:"user_id"`
	Account string `json:"account"`
	Index   int    `json:"index"`
	Move    string `json:"move"`
}

// Page steps through a previously fetched report's currencies without
// re-scraping. The client echoes back the index it last saw.
func (a Api) Page(w http.ResponseWriter, r *http.Request) {
	req, ok := readJson[pageRequest](w, r)
	if !ok {
		return
	}

	var move reports.Move
	switch req.Move {
	case "", "none":
		move = reports.MoveNone
	case "next":
		move = reports.MoveNext
	case "prev":
		move = reports.MovePrev
	default:
		writeJson(w, http.StatusBadRequest, map[string]string{
			"error": "move must be one of next, prev, none",
		})
		return
	}

	page, err := a.reports.Paginate(req.UserID, req.Account, req.Index, move)
	if errors.Is(err, reports.ErrNoReport) {
		writeJson(w, http.StatusNotFound, map[string]string{
			"error": "no report available, fetch the account again",
		})
		return
	}
	if err != nil {
		writeJson(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	display := page.Label
	if display == e2.DefaultCurrency {
		display = ""
	}
	writeJson(w, http.StatusOK, map[string]any{
		"label":    page.Label,
		"index":    page.Index,
		"snapshot": page.Snapshot,
		"message":  reports.FormatMarkdown(page.Snapshot, req.Account, display, timezone.Now()),
	})
}

func (a Api) FetchAll(w http.ResponseWriter, r *http.Request) {
	req, ok := readJson[struct {
		UserID int64 `json:"user_id"`
	}](w, r)
	if !ok {
		return
	}

	all, failed, err := a.reports.FetchAll(r.Context(), req.UserID)
	if err != nil {
		writeFetchError(w, err)
		return
	}

	var results []reportResponse
	for account, report := range all {
		results = append(results, newReportResponse(account, report))
	}
	writeJson(w, http.StatusOK, map[string]any{
		"reports": results,
		"failed":  failed,
	})
}
