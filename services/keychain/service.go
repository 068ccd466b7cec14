package keychain

import (
	"context"
	"database/sql"
	"errors"

	"affdash-backend/lib/timezone"
	"affdash-backend/services/keychain/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/keychain")

// Account is a stored affiliate dashboard credential pair belonging to
// one chat user.
type Account struct {
	Username string
	Password string
}

type Service struct {
	db  *sql.DB
	qry *db.Queries
}

func NewService(database *sql.DB) Service {
	return Service{
		db:  database,
		qry: db.New(database),
	}
}

// SetAccount stores or overwrites the credential pair for (ownerID,
// username). Saving an existing username replaces its password.
func (s Service) SetAccount(ctx context.Context, ownerID int64, account Account) error {
	ctx, span := tracer.Start(ctx, "SetAccount")
	defer span.End()

	span.SetAttributes(attribute.String("username", account.Username))

	err := s.qry.CreateAccount(ctx, db.CreateAccountParams{
		OwnerID:   ownerID,
		Username:  account.Username,
		Password:  account.Password,
		CreatedAt: timezone.Now().Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// GetAccount looks up one stored credential pair. The second return
// value reports whether the username is known for this owner.
func (s Service) GetAccount(ctx context.Context, ownerID int64, username string) (Account, bool, error) {
	ctx, span := tracer.Start(ctx, "GetAccount")
	defer span.End()

	span.SetAttributes(attribute.String("username", username))

	row, err := s.qry.GetAccount(ctx, db.GetAccountParams{
		OwnerID:  ownerID,
		Username: username,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Account{}, false, err
	}
	return Account{
		Username: row.Username,
		Password: row.Password,
	}, true, nil
}

// ListUsernames returns the owner's stored usernames in insertion
// order.
func (s Service) ListUsernames(ctx context.Context, ownerID int64) ([]string, error) {
	ctx, span := tracer.Start(ctx, "ListUsernames")
	defer span.End()

	rows, err := s.qry.ListAccounts(ctx, ownerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var usernames []string
	for _, r := range rows {
		usernames = append(usernames, r.Username)
	}
	return usernames, nil
}

// DeleteAccount removes one stored credential pair. Returns false when
// the username was not stored to begin with.
func (s Service) DeleteAccount(ctx context.Context, ownerID int64, username string) (bool, error) {
	ctx, span := tracer.Start(ctx, "DeleteAccount")
	defer span.End()

	span.SetAttributes(attribute.String("username", username))

	affected, err := s.qry.DeleteAccount(ctx, db.DeleteAccountParams{
		OwnerID:  ownerID,
		Username: username,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	return affected > 0, nil
}
