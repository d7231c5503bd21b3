// Package connector defines the capability contract an email provider
// must implement so the sync worker can pull folders and messages.
// Concrete providers are selected by the account's kind, never by
// subtyping the account itself.
package connector

import (
	"context"
	"fmt"
	"time"

	"mailhub/internal/crypto"
	"mailhub/internal/model"
)

// RemoteFolder is a folder as the provider reports it. Parent linkage
// is by name; the sync run resolves names to rows.
type RemoteFolder struct {
	Name       string
	ParentName string
}

// RemoteEmail is a message as the provider reports it.
type RemoteEmail struct {
	MessageID    string
	Subject      string
	From         string
	To           []string
	ReplyTo      string
	InReplyTo    string
	FolderName   string
	DateSent     time.Time
	DateReceived time.Time
	BodyText     string
	BodyHTML     string
	IsRead       bool
	Priority     *int
	RawJSON      []byte
}

// Connector talks to one remote mailbox.
type Connector interface {
	Connect(ctx context.Context) error
	RetrieveFolders(ctx context.Context) ([]RemoteFolder, error)
	RetrieveEmails(ctx context.Context) ([]RemoteEmail, error)
}

// Factory builds a connector for an account, opening its sealed
// credentials through the injected box.
type Factory func(account *model.EmailAccount, box *crypto.Box) (Connector, error)

// Registry maps account kinds to connector factories.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func (r *Registry) Register(kind string, f Factory) {
	r.factories[kind] = f
}

// For builds the connector for the account's kind.
func (r *Registry) For(account *model.EmailAccount, box *crypto.Box) (Connector, error) {
	f, ok := r.factories[account.Kind]
	if !ok {
		return nil, fmt.Errorf("no connector registered for account kind %q", account.Kind)
	}
	return f(account, box)
}

// DefaultRegistry wires every built-in provider.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(model.AccountKindExchange, NewExchange)
	return r
}
