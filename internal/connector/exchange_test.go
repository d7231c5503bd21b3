package connector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailhub/internal/model"
)

type fakeSession struct {
	loginErr error
	folders  []RemoteFolder
	emails   []RemoteEmail
}

func (f *fakeSession) Login(context.Context, string, string, string) error { return f.loginErr }
func (f *fakeSession) Folders(context.Context) ([]RemoteFolder, error)     { return f.folders, nil }
func (f *fakeSession) Emails(context.Context) ([]RemoteEmail, error)       { return f.emails, nil }

func testAccount() *model.EmailAccount {
	return &model.EmailAccount{
		ID:            1,
		Kind:          model.AccountKindExchange,
		ServerAddress: "mail.example.com",
		Username:      "alice",
	}
}

func TestExchangeConnectWithoutSession(t *testing.T) {
	conn, err := NewExchange(testAccount(), nil)
	require.NoError(t, err)

	err = conn.Connect(context.Background())
	assert.ErrorIs(t, err, model.ErrConnectionFailed)
}

func TestExchangeLoginFailureKeepsCause(t *testing.T) {
	conn, err := NewExchange(testAccount(), nil)
	require.NoError(t, err)
	exchange := conn.(*Exchange).WithSession(&fakeSession{
		loginErr: errors.New("535 authentication rejected"),
	})

	err = exchange.Connect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConnectionFailed)
	assert.Contains(t, err.Error(), "535 authentication rejected")
}

func TestExchangeRetrieveWithSession(t *testing.T) {
	conn, err := NewExchange(testAccount(), nil)
	require.NoError(t, err)
	exchange := conn.(*Exchange).WithSession(&fakeSession{
		folders: []RemoteFolder{{Name: "Inbox"}},
	})

	folders, err := exchange.RetrieveFolders(context.Background())
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "Inbox", folders[0].Name)
}

func TestRegistryUnknownKind(t *testing.T) {
	account := testAccount()
	account.Kind = "imap"

	_, err := DefaultRegistry().For(account, nil)
	assert.Error(t, err)
}
