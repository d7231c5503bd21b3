package connector

import (
	"context"
	"fmt"

	"mailhub/internal/crypto"
	"mailhub/internal/model"
)

// ExchangeSession is the protocol surface the Exchange connector needs.
// The EWS client is not implemented yet; until it is, connecting
// reports a connection failure and the sync job is retried later.
type ExchangeSession interface {
	Login(ctx context.Context, server, username, password string) error
	Folders(ctx context.Context) ([]RemoteFolder, error)
	Emails(ctx context.Context) ([]RemoteEmail, error)
}

// Exchange syncs against a Microsoft Exchange server.
type Exchange struct {
	server   string
	username string
	password string
	session  ExchangeSession
}

// NewExchange builds the connector, opening the account's sealed
// password.
func NewExchange(account *model.EmailAccount, box *crypto.Box) (Connector, error) {
	password := ""
	if len(account.PasswordSealed) > 0 {
		plain, err := box.Open(account.PasswordSealed)
		if err != nil {
			return nil, fmt.Errorf("failed to open account credentials: %w", err)
		}
		password = string(plain)
	}
	return &Exchange{
		server:   account.ServerAddress,
		username: account.Username,
		password: password,
	}, nil
}

// WithSession injects a session implementation. Tests use this; the
// real EWS session will plug in the same way.
func (e *Exchange) WithSession(s ExchangeSession) *Exchange {
	e.session = s
	return e
}

func (e *Exchange) Connect(ctx context.Context) error {
	if e.session == nil {
		return fmt.Errorf("exchange server %s unreachable: %w", e.server, model.ErrConnectionFailed)
	}
	if err := e.session.Login(ctx, e.server, e.username, e.password); err != nil {
		return fmt.Errorf("exchange login failed: %v: %w", err, model.ErrConnectionFailed)
	}
	return nil
}

func (e *Exchange) RetrieveFolders(ctx context.Context) ([]RemoteFolder, error) {
	if err := e.Connect(ctx); err != nil {
		return nil, err
	}
	return e.session.Folders(ctx)
}

func (e *Exchange) RetrieveEmails(ctx context.Context) ([]RemoteEmail, error) {
	if err := e.Connect(ctx); err != nil {
		return nil, err
	}
	return e.session.Emails(ctx)
}
