// Package foldertree builds folder hierarchies from flat folder
// snapshots. It is pure computation: callers load the folders once and
// every query runs against that snapshot, so the package needs no
// locking and is safe from any goroutine.
package foldertree

import (
	"sort"

	"mailhub/internal/model"
)

// Node is one folder carrying its recursively nested children.
type Node struct {
	model.Folder
	Subfolders []Node `json:"subfolders"`
}

// Index maps a parent folder id to its direct children, ordered by
// BaseName ascending. Root folders (nil parent) live under RootKey.
type Index map[int64][]model.Folder

// RootKey indexes folders with no parent. Folder ids are positive, so
// the key can never collide with a real folder.
const RootKey int64 = 0

// BuildIndex groups folders by parent id and orders every child list by
// BaseName ascending, byte order. The same ordering applies at every
// level of the tree.
func BuildIndex(folders []model.Folder) Index {
	idx := make(Index, len(folders))
	for _, f := range folders {
		key := RootKey
		if f.ParentID != nil {
			key = *f.ParentID
		}
		idx[key] = append(idx[key], f)
	}
	// Stable so equal names keep snapshot order. Names are unique
	// within one account, but a user-wide snapshot can hold equal-named
	// roots from different accounts.
	for _, children := range idx {
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].BaseName < children[j].BaseName
		})
	}
	return idx
}

// FullTree returns every root folder with its full descendant subtree.
func FullTree(folders []model.Folder) []Node {
	idx := BuildIndex(folders)
	return expand(idx, RootKey, make(map[int64]bool))
}

// DirectChildren returns the immediate children of folderID, each still
// carrying its own recursively nested subtree. A folderID absent from
// the snapshot yields no children.
func DirectChildren(folderID int64, folders []model.Folder) []Node {
	idx := BuildIndex(folders)
	onPath := make(map[int64]bool)
	onPath[folderID] = true
	return expand(idx, folderID, onPath)
}

// expand materializes the subtree rooted at key. onPath tracks folder
// ids along the current recursion path: a folder listed as its own
// ancestor (corrupt sync data) gets an empty subtree instead of
// recursing forever.
func expand(idx Index, key int64, onPath map[int64]bool) []Node {
	children := idx[key]
	nodes := make([]Node, 0, len(children))
	for _, child := range children {
		node := Node{Folder: child, Subfolders: []Node{}}
		if !onPath[child.ID] {
			onPath[child.ID] = true
			node.Subfolders = expand(idx, child.ID, onPath)
			delete(onPath, child.ID)
		}
		nodes = append(nodes, node)
	}
	return nodes
}
