// Package vfs mirrors an on-disk directory hierarchy into a dtree forest.
//
// Each loaded directory becomes a mount under the forest root, with files
// and subdirectories as descendant nodes kept in name-sorted sibling order.
// Disk mutations (Create, Mkdir, Rename, Remove) go through the FS so the
// mirror and the disk stay consistent; Close drops a subtree from the
// mirror without touching the disk.
package vfs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/arbor/pkg/dtree"
)

// ID addresses one entry of the mirror. The zero ID is the forest root,
// which holds no entry and only anchors the mounts.
type ID = dtree.Node

// Root is the forest root above all mounts.
const Root = dtree.Root

var (
	// ErrNotFound is returned for ids or paths with no live entry.
	ErrNotFound = errors.New("vfs: entry not found")

	// ErrNotDirectory is returned when a directory operation targets a file.
	ErrNotDirectory = errors.New("vfs: not a directory")

	// ErrInvalidName is returned for empty names or names containing a
	// path separator.
	ErrInvalidName = errors.New("vfs: invalid name")
)

// dirPermissions is the mode for directories made through Mkdir.
const dirPermissions = 0o755

// Entry is the payload stored per node of the mirror.
type Entry struct {
	// Name is the base name of the entry.
	Name string

	// Path is the absolute on-disk path.
	Path string

	// Dir reports whether the entry is a directory.
	Dir bool

	// Size is the on-disk size in bytes at load time, 0 for directories.
	Size int64

	// ModTime is the modification time at load time.
	ModTime time.Time
}

// FS is a virtual filesystem over a directed tree of entries. FS is not
// safe for concurrent use.
type FS struct {
	tree *dtree.Tree[Entry]
	log  *slog.Logger
}

// New creates an empty FS logging through logger. A nil logger falls back
// to slog.Default.
func New(logger *slog.Logger) *FS {
	if logger == nil {
		logger = slog.Default()
	}

	return &FS{tree: dtree.New[Entry](), log: logger}
}

// Tree exposes the underlying forest for traversal with dtree cursors.
func (f *FS) Tree() *dtree.Tree[Entry] {
	return f.tree
}

// Entry returns the entry of id, or ErrNotFound for the root and dead ids.
func (f *FS) Entry(id ID) (*Entry, error) {
	if id == Root || !f.tree.Valid(id) {
		return nil, fmt.Errorf("vfs: entry %d: %w", id, ErrNotFound)
	}

	return f.tree.At(id), nil
}

// Parent returns the id of the containing directory, Root for mounts.
func (f *FS) Parent(id ID) ID { return f.tree.Parent(id) }

// Next returns the id of the next sibling in name order.
func (f *FS) Next(id ID) ID { return f.tree.NextSibling(id) }

// Prev returns the id of the previous sibling in name order.
func (f *FS) Prev(id ID) ID { return f.tree.PrevSibling(id) }

// Begin returns the id of the first entry inside a directory.
func (f *FS) Begin(id ID) ID { return f.tree.FirstChild(id) }

// Depth returns the nesting depth: mounts are at depth 1.
func (f *FS) Depth(id ID) uint { return f.tree.Depth(id) }

// Len returns the number of live entries across all mounts.
func (f *FS) Len() int { return f.tree.Len() }

// Walk visits every entry in pre-order, directories before their contents
// and siblings in name order. Returning false stops the walk.
func (f *FS) Walk(visit func(id ID, entry *Entry) bool) {
	f.tree.Traverse(dtree.PreOrder, visit)
}

// resolve normalizes path to an absolute, cleaned form.
func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("vfs: resolve %q: %w", path, err)
	}

	return filepath.Clean(abs), nil
}

// covers reports whether path lies inside base (or is base itself). Both
// must be absolute and cleaned.
func covers(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}

	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

// validName rejects empty names and names that escape the directory.
func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsRune(name, os.PathSeparator) {
		return fmt.Errorf("vfs: name %q: %w", name, ErrInvalidName)
	}

	return nil
}

// entryFromInfo builds an Entry for an absolute path from its stat result.
func entryFromInfo(path string, info fs.FileInfo) Entry {
	entry := Entry{
		Name:    filepath.Base(path),
		Path:    path,
		Dir:     info.IsDir(),
		ModTime: info.ModTime(),
	}

	if !entry.Dir {
		entry.Size = info.Size()
	}

	return entry
}

// insertSorted places entry under parent keeping siblings in ascending
// name order.
func (f *FS) insertSorted(parent ID, entry Entry) ID {
	for child := f.tree.FirstChild(parent); child != Root; child = f.tree.NextSibling(child) {
		if f.tree.At(child).Name > entry.Name {
			return f.tree.InsertBefore(entry, parent, child)
		}
	}

	return f.tree.Insert(entry, parent)
}

// Find resolves an on-disk path to its id in the mirror.
func (f *FS) Find(path string) (ID, bool) {
	target, err := resolve(path)
	if err != nil {
		return Root, false
	}

	mount := f.tree.FirstChild(Root)
	for mount != Root {
		if covers(f.tree.At(mount).Path, target) {
			break
		}

		mount = f.tree.NextSibling(mount)
	}

	if mount == Root {
		return Root, false
	}

	rel, err := filepath.Rel(f.tree.At(mount).Path, target)
	if err != nil {
		return Root, false
	}

	if rel == "." {
		return mount, true
	}

	current := mount
	for _, component := range strings.Split(rel, string(os.PathSeparator)) {
		next := Root

		for child := f.tree.FirstChild(current); child != Root; child = f.tree.NextSibling(child) {
			if f.tree.At(child).Name == component {
				next = child

				break
			}
		}

		if next == Root {
			return Root, false
		}

		current = next
	}

	return current, true
}
