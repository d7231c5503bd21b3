package foldertree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailhub/internal/model"
)

func folder(id int64, name string, parent *int64) model.Folder {
	return model.Folder{ID: id, AccountID: 1, BaseName: name, ParentID: parent}
}

func ptr(v int64) *int64 { return &v }

func TestFullTreeNesting(t *testing.T) {
	// A -> B -> C
	folders := []model.Folder{
		folder(1, "A", nil),
		folder(2, "B", ptr(1)),
		folder(3, "C", ptr(2)),
	}

	tree := FullTree(folders)
	require.Len(t, tree, 1)
	assert.Equal(t, "A", tree[0].BaseName)
	require.Len(t, tree[0].Subfolders, 1)
	assert.Equal(t, "B", tree[0].Subfolders[0].BaseName)
	require.Len(t, tree[0].Subfolders[0].Subfolders, 1)
	assert.Equal(t, "C", tree[0].Subfolders[0].Subfolders[0].BaseName)
	assert.Empty(t, tree[0].Subfolders[0].Subfolders[0].Subfolders)
}

func TestDirectChildren(t *testing.T) {
	folders := []model.Folder{
		folder(1, "A", nil),
		folder(2, "B", ptr(1)),
		folder(3, "C", ptr(2)),
	}

	children := DirectChildren(1, folders)
	require.Len(t, children, 1)
	assert.Equal(t, "B", children[0].BaseName)
	require.Len(t, children[0].Subfolders, 1)
	assert.Equal(t, "C", children[0].Subfolders[0].BaseName)

	assert.Empty(t, DirectChildren(99, folders))
}

func TestOrderingByBaseName(t *testing.T) {
	folders := []model.Folder{
		folder(1, "Sent", nil),
		folder(2, "Archive", nil),
		folder(3, "Inbox", nil),
	}

	tree := FullTree(folders)
	names := make([]string, 0, len(tree))
	for _, n := range tree {
		names = append(names, n.BaseName)
	}
	assert.Equal(t, []string{"Archive", "Inbox", "Sent"}, names)
}

func TestOrderingStableForEqualNames(t *testing.T) {
	// Two accounts each contribute an "Inbox" root; the merged
	// snapshot keeps them in snapshot order, every run.
	folders := []model.Folder{
		{ID: 5, AccountID: 2, BaseName: "Inbox"},
		{ID: 1, AccountID: 1, BaseName: "Archive"},
		{ID: 2, AccountID: 1, BaseName: "Inbox"},
	}

	for i := 0; i < 10; i++ {
		tree := FullTree(folders)
		require.Len(t, tree, 3)
		assert.Equal(t, int64(1), tree[0].ID)
		assert.Equal(t, int64(5), tree[1].ID)
		assert.Equal(t, int64(2), tree[2].ID)
	}
}

func TestCycleGuard(t *testing.T) {
	// Corrupt data: 1 and 2 are each other's parents, so neither is a
	// root. The traversal must still terminate.
	folders := []model.Folder{
		folder(1, "A", ptr(2)),
		folder(2, "B", ptr(1)),
	}

	assert.Empty(t, FullTree(folders))

	children := DirectChildren(1, folders)
	require.Len(t, children, 1)
	assert.Equal(t, "B", children[0].BaseName)
	// B's child is A again, which is on the path: cut to empty.
	require.Len(t, children[0].Subfolders, 1)
	assert.Equal(t, "A", children[0].Subfolders[0].BaseName)
	assert.Empty(t, children[0].Subfolders[0].Subfolders)
}

func TestSelfParentGuard(t *testing.T) {
	folders := []model.Folder{
		folder(1, "Top", nil),
		folder(2, "Loop", ptr(2)),
	}

	tree := FullTree(folders)
	require.Len(t, tree, 1)
	assert.Equal(t, "Top", tree[0].BaseName)

	children := DirectChildren(2, folders)
	require.Len(t, children, 1)
	assert.Empty(t, children[0].Subfolders)
}

func TestBuildIndexRootKey(t *testing.T) {
	folders := []model.Folder{
		folder(1, "A", nil),
		folder(2, "B", ptr(1)),
	}
	idx := BuildIndex(folders)
	require.Len(t, idx[RootKey], 1)
	assert.Equal(t, int64(1), idx[RootKey][0].ID)
	require.Len(t, idx[1], 1)
	assert.Equal(t, int64(2), idx[1][0].ID)
}
