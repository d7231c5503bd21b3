package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mailhub/internal/connector"
	"mailhub/internal/crypto"
	"mailhub/internal/model"
)

type fakeAccounts struct {
	account model.EmailAccount
}

func (f *fakeAccounts) FindByID(_ context.Context, id int64) (*model.EmailAccount, error) {
	if id != f.account.ID {
		return nil, model.ErrNotFound
	}
	a := f.account
	return &a, nil
}

type fakeFolders struct {
	nextID  int64
	rows    map[string]*model.Folder // keyed by base name, single account
	upserts int
}

func newFakeFolders() *fakeFolders {
	return &fakeFolders{rows: make(map[string]*model.Folder)}
}

func (f *fakeFolders) Upsert(_ context.Context, accountID int64, baseName string) (*model.Folder, error) {
	f.upserts++
	if existing, ok := f.rows[baseName]; ok {
		existing.ParentID = nil
		row := *existing
		return &row, nil
	}
	f.nextID++
	folder := &model.Folder{ID: f.nextID, AccountID: accountID, BaseName: baseName}
	f.rows[baseName] = folder
	row := *folder
	return &row, nil
}

func (f *fakeFolders) SetParent(_ context.Context, folderID, parentID int64) error {
	for _, folder := range f.rows {
		if folder.ID == folderID {
			pid := parentID
			folder.ParentID = &pid
			return nil
		}
	}
	return model.ErrNotFound
}

type fakeEmails struct {
	rows       map[string]model.Email
	recipients map[string][]int64
}

func newFakeEmails() *fakeEmails {
	return &fakeEmails{
		rows:       make(map[string]model.Email),
		recipients: make(map[string][]int64),
	}
}

func (f *fakeEmails) Upsert(_ context.Context, e *model.Email) error {
	f.rows[e.MessageID] = *e
	return nil
}

func (f *fakeEmails) SetRecipients(_ context.Context, messageID string, addressIDs []int64) error {
	f.recipients[messageID] = addressIDs
	return nil
}

type fakeAddresses struct {
	nextID int64
	rows   map[string]*model.EmailAddress
}

func newFakeAddresses() *fakeAddresses {
	return &fakeAddresses{rows: make(map[string]*model.EmailAddress)}
}

func (f *fakeAddresses) GetOrCreate(_ context.Context, address string) (*model.EmailAddress, error) {
	if a, ok := f.rows[address]; ok {
		return a, nil
	}
	f.nextID++
	a := &model.EmailAddress{ID: f.nextID, Address: address}
	f.rows[address] = a
	return a, nil
}

type fakeConnector struct {
	folders []connector.RemoteFolder
	emails  []connector.RemoteEmail
	err     error
}

func (f *fakeConnector) Connect(context.Context) error { return f.err }

func (f *fakeConnector) RetrieveFolders(context.Context) ([]connector.RemoteFolder, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.folders, nil
}

func (f *fakeConnector) RetrieveEmails(context.Context) ([]connector.RemoteEmail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.emails, nil
}

func newTestService(t *testing.T, conn connector.Connector) (*Service, *fakeFolders, *fakeEmails, *fakeAddresses) {
	t.Helper()

	folders := newFakeFolders()
	emails := newFakeEmails()
	addresses := newFakeAddresses()
	accounts := &fakeAccounts{account: model.EmailAccount{
		ID:     1,
		UserID: 7,
		Kind:   model.AccountKindExchange,
	}}

	registry := connector.NewRegistry()
	registry.Register(model.AccountKindExchange, func(*model.EmailAccount, *crypto.Box) (connector.Connector, error) {
		return conn, nil
	})

	svc := NewService(accounts, folders, emails, addresses, registry, nil, zap.NewNop())
	return svc, folders, emails, addresses
}

func TestRunCreatesFoldersAndLinksParents(t *testing.T) {
	conn := &fakeConnector{
		folders: []connector.RemoteFolder{
			{Name: "Inbox"},
			{Name: "Receipts", ParentName: "Inbox"},
			{Name: "Archive"},
		},
	}
	svc, folders, _, _ := newTestService(t, conn)

	require.NoError(t, svc.Run(context.Background(), 1))

	require.Len(t, folders.rows, 3)
	assert.Nil(t, folders.rows["Inbox"].ParentID)
	assert.Nil(t, folders.rows["Archive"].ParentID)
	require.NotNil(t, folders.rows["Receipts"].ParentID)
	assert.Equal(t, folders.rows["Inbox"].ID, *folders.rows["Receipts"].ParentID)
}

func TestRunTwiceIsIdempotent(t *testing.T) {
	conn := &fakeConnector{
		folders: []connector.RemoteFolder{
			{Name: "Inbox"},
			{Name: "Receipts", ParentName: "Inbox"},
		},
	}
	svc, folders, _, _ := newTestService(t, conn)

	require.NoError(t, svc.Run(context.Background(), 1))

	firstIDs := map[string]int64{}
	for name, f := range folders.rows {
		firstIDs[name] = f.ID
	}

	require.NoError(t, svc.Run(context.Background(), 1))

	require.Len(t, folders.rows, 2, "second run must not create folders")
	for name, f := range folders.rows {
		assert.Equal(t, firstIDs[name], f.ID, "folder %s must keep its row", name)
	}
	require.NotNil(t, folders.rows["Receipts"].ParentID)
	assert.Equal(t, folders.rows["Inbox"].ID, *folders.rows["Receipts"].ParentID)
}

func TestRunSkipsUnknownAndSelfParents(t *testing.T) {
	conn := &fakeConnector{
		folders: []connector.RemoteFolder{
			{Name: "Orphan", ParentName: "Missing"},
			{Name: "Loop", ParentName: "Loop"},
		},
	}
	svc, folders, _, _ := newTestService(t, conn)

	require.NoError(t, svc.Run(context.Background(), 1))

	assert.Nil(t, folders.rows["Orphan"].ParentID)
	assert.Nil(t, folders.rows["Loop"].ParentID)
}

func TestRunStoresEmailsWithAddressesAndReplies(t *testing.T) {
	sent := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	conn := &fakeConnector{
		folders: []connector.RemoteFolder{{Name: "Inbox"}},
		emails: []connector.RemoteEmail{
			{
				MessageID:  "<root@example.com>",
				Subject:    "Quarterly report",
				From:       "alice@example.com",
				To:         []string{"bob@example.com", "carol@example.com"},
				FolderName: "Inbox",
				DateSent:   sent,
			},
			{
				MessageID:  "<reply@example.com>",
				Subject:    "Re: Quarterly report",
				From:       "bob@example.com",
				To:         []string{"alice@example.com"},
				InReplyTo:  "<root@example.com>",
				FolderName: "Inbox",
				DateSent:   sent.Add(time.Hour),
			},
			{
				MessageID: "<stray@example.com>",
				Subject:   "Re: older thread",
				InReplyTo: "<never-synced@example.com>",
			},
		},
	}
	svc, folders, emails, addresses := newTestService(t, conn)

	require.NoError(t, svc.Run(context.Background(), 1))

	require.Len(t, emails.rows, 3)

	root := emails.rows["<root@example.com>"]
	require.NotNil(t, root.FolderID)
	assert.Equal(t, folders.rows["Inbox"].ID, *root.FolderID)
	require.NotNil(t, root.FromAddressID)
	assert.Equal(t, addresses.rows["alice@example.com"].ID, *root.FromAddressID)
	assert.Len(t, emails.recipients["<root@example.com>"], 2)

	reply := emails.rows["<reply@example.com>"]
	require.NotNil(t, reply.InReplyTo)
	assert.Equal(t, "<root@example.com>", *reply.InReplyTo)

	// Reply to a message never seen in this run keeps a nil link
	// instead of a dangling reference.
	stray := emails.rows["<stray@example.com>"]
	assert.Nil(t, stray.InReplyTo)
	assert.Nil(t, stray.FolderID)
}

func TestRunConnectionFailureIsNotAnError(t *testing.T) {
	conn := &fakeConnector{err: model.ErrConnectionFailed}
	svc, folders, emails, _ := newTestService(t, conn)

	require.NoError(t, svc.Run(context.Background(), 1))
	assert.Empty(t, folders.rows)
	assert.Empty(t, emails.rows)
}

func TestHandleJobMalformedPayloadIsDropped(t *testing.T) {
	svc, _, _, _ := newTestService(t, &fakeConnector{})
	assert.NoError(t, svc.HandleJob(context.Background(), []byte("not json")))
}
