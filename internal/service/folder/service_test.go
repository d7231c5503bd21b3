package folder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mailhub/internal/model"
	"mailhub/internal/repository"
)

type fakeFolderStore struct {
	folders []model.Folder
	emails  []model.Email
}

func (f *fakeFolderStore) ListForUser(_ context.Context, _ int64, filter repository.FolderFilter) ([]model.Folder, error) {
	if filter.AccountID == nil {
		return f.folders, nil
	}
	var out []model.Folder
	for _, folder := range f.folders {
		if folder.AccountID == *filter.AccountID {
			out = append(out, folder)
		}
	}
	return out, nil
}

func (f *fakeFolderStore) ListByAccount(_ context.Context, accountID int64) ([]model.Folder, error) {
	var out []model.Folder
	for _, folder := range f.folders {
		if folder.AccountID == accountID {
			out = append(out, folder)
		}
	}
	return out, nil
}

func (f *fakeFolderStore) FindForUser(_ context.Context, id, _ int64) (*model.Folder, error) {
	for _, folder := range f.folders {
		if folder.ID == id {
			row := folder
			return &row, nil
		}
	}
	return nil, model.ErrNotFound
}

// Stats counts only the folder's own emails and immediate children,
// mirroring the storage queries: nothing recurses into subfolders.
func (f *fakeFolderStore) Stats(_ context.Context, folderID int64) (*model.FolderStats, error) {
	var s model.FolderStats
	for _, e := range f.emails {
		if e.FolderID != nil && *e.FolderID == folderID {
			s.EmailCount++
			if !e.IsRead {
				s.UnreadCount++
			}
		}
	}
	for _, folder := range f.folders {
		if folder.ParentID != nil && *folder.ParentID == folderID {
			s.SubfolderCount++
		}
	}
	return &s, nil
}

type fakeAccountStore struct {
	accounts []model.EmailAccount
	stats    map[int64]model.AccountStats
}

func (f *fakeAccountStore) ListForUser(_ context.Context, userID int64) ([]model.EmailAccount, error) {
	var out []model.EmailAccount
	for _, a := range f.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccountStore) FindForUser(_ context.Context, id, userID int64) (*model.EmailAccount, error) {
	for _, a := range f.accounts {
		if a.ID == id && a.UserID == userID {
			row := a
			return &row, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeAccountStore) Stats(_ context.Context, accountID int64) (*model.AccountStats, error) {
	s, ok := f.stats[accountID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &s, nil
}

func ptr(v int64) *int64 { return &v }

func testFolders() []model.Folder {
	// account 1: Inbox(1){Receipts(2), Travel(3)}, Archive(4)
	// account 2: Inbox(5)
	return []model.Folder{
		{ID: 1, AccountID: 1, BaseName: "Inbox"},
		{ID: 2, AccountID: 1, BaseName: "Receipts", ParentID: ptr(1)},
		{ID: 3, AccountID: 1, BaseName: "Travel", ParentID: ptr(1)},
		{ID: 4, AccountID: 1, BaseName: "Archive"},
		{ID: 5, AccountID: 2, BaseName: "Inbox"},
	}
}

func newTestService() *Service {
	folders := &fakeFolderStore{
		folders: testFolders(),
		// Inbox(1) holds two emails, its child Receipts(2) holds three.
		emails: []model.Email{
			{MessageID: "<a@x>", FolderID: ptr(1), IsRead: true},
			{MessageID: "<b@x>", FolderID: ptr(1)},
			{MessageID: "<c@x>", FolderID: ptr(2)},
			{MessageID: "<d@x>", FolderID: ptr(2)},
			{MessageID: "<e@x>", FolderID: ptr(2)},
		},
	}
	accounts := &fakeAccountStore{
		accounts: []model.EmailAccount{
			{ID: 1, UserID: 7, Name: "Work", PasswordSealed: []byte("sealed")},
			{ID: 2, UserID: 7, Name: "Personal"},
			{ID: 3, UserID: 8, Name: "Other user"},
		},
		stats: map[int64]model.AccountStats{
			1: {FolderCount: 4, EmailCount: 12},
		},
	}
	return NewService(folders, accounts, nil, zap.NewNop())
}

func TestTreeAllAccounts(t *testing.T) {
	svc := newTestService()

	tree, err := svc.Tree(context.Background(), 7, nil)
	require.NoError(t, err)

	// Roots across both accounts, name-ordered.
	require.Len(t, tree, 3)
	assert.Equal(t, "Archive", tree[0].BaseName)
	assert.Equal(t, "Inbox", tree[1].BaseName)
	assert.Equal(t, "Inbox", tree[2].BaseName)

	found := false
	for _, root := range tree {
		if root.ID == 1 {
			require.Len(t, root.Subfolders, 2)
			assert.Equal(t, "Receipts", root.Subfolders[0].BaseName)
			assert.Equal(t, "Travel", root.Subfolders[1].BaseName)
			found = true
		}
	}
	require.True(t, found, "account 1 Inbox must be a root")
}

func TestTreeScopedToAccount(t *testing.T) {
	svc := newTestService()

	tree, err := svc.Tree(context.Background(), 7, ptr(1))
	require.NoError(t, err)

	require.Len(t, tree, 2)
	for _, root := range tree {
		assert.Equal(t, int64(1), root.AccountID)
	}
}

func TestTreeForeignAccountIsNotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.Tree(context.Background(), 7, ptr(3))
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestChildren(t *testing.T) {
	svc := newTestService()

	children, err := svc.Children(context.Background(), 1, 7)
	require.NoError(t, err)

	require.Len(t, children, 2)
	assert.Equal(t, "Receipts", children[0].BaseName)
	assert.Equal(t, "Travel", children[1].BaseName)
}

func TestChildrenOfLeaf(t *testing.T) {
	svc := newTestService()

	children, err := svc.Children(context.Background(), 2, 7)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestGetStatsExcludeSubfolderContents(t *testing.T) {
	svc := newTestService()

	detail, err := svc.Get(context.Background(), 1, 7)
	require.NoError(t, err)

	// Receipts' three emails do not leak into Inbox's count.
	assert.Equal(t, "Inbox", detail.BaseName)
	assert.Equal(t, int64(2), detail.EmailCount)
	assert.Equal(t, int64(1), detail.UnreadCount)
	assert.Equal(t, int64(2), detail.SubfolderCount)

	child, err := svc.Get(context.Background(), 2, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), child.EmailCount)
	assert.Equal(t, int64(0), child.SubfolderCount)
}

func TestAccountDetailHidesCredentials(t *testing.T) {
	svc := newTestService()

	detail, err := svc.Account(context.Background(), 1, 7)
	require.NoError(t, err)

	assert.Equal(t, "Work", detail.Name)
	assert.Equal(t, int64(4), detail.FolderCount)
	assert.Equal(t, int64(12), detail.EmailCount)
	assert.Nil(t, detail.PasswordSealed)
}
