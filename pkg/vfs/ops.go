package vfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadDirectory mirrors a directory tree from disk and returns the id of
// its mount. Loading a path already covered by an existing mount returns
// the id it resolves to instead of mounting twice.
func (f *FS) LoadDirectory(dir string) (ID, error) {
	path, err := resolve(dir)
	if err != nil {
		return Root, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return Root, fmt.Errorf("vfs: load %q: %w", dir, err)
	}

	if !info.IsDir() {
		return Root, fmt.Errorf("vfs: load %q: %w", dir, ErrNotDirectory)
	}

	for mount := f.tree.FirstChild(Root); mount != Root; mount = f.tree.NextSibling(mount) {
		if covers(f.tree.At(mount).Path, path) {
			id, ok := f.Find(path)
			if !ok {
				return Root, fmt.Errorf("vfs: load %q: %w", dir, ErrNotFound)
			}

			return id, nil
		}
	}

	mountID := f.insertSorted(Root, entryFromInfo(path, info))

	type frame struct {
		id      ID
		pending []os.DirEntry
	}

	listing, err := os.ReadDir(path)
	if err != nil {
		return Root, fmt.Errorf("vfs: load %q: %w", dir, err)
	}

	stack := []frame{{id: mountID, pending: listing}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if len(top.pending) == 0 {
			stack = stack[:len(stack)-1]

			continue
		}

		dirEntry := top.pending[0]
		top.pending = top.pending[1:]

		childPath := filepath.Join(f.tree.At(top.id).Path, dirEntry.Name())

		childInfo, infoErr := dirEntry.Info()
		if infoErr != nil {
			f.log.Warn("vfs: skipping entry", "path", childPath, "error", infoErr)

			continue
		}

		parent := top.id
		id := f.insertSorted(parent, entryFromInfo(childPath, childInfo))

		if !dirEntry.IsDir() {
			continue
		}

		sub, subErr := os.ReadDir(childPath)
		if subErr != nil {
			f.log.Warn("vfs: skipping directory", "path", childPath, "error", subErr)

			continue
		}

		stack = append(stack, frame{id: id, pending: sub})
	}

	f.log.Info("vfs: directory loaded", "path", path, "entries", f.tree.Len())

	return mountID, nil
}

// Create makes an empty file inside the directory of parent and returns
// its id.
func (f *FS) Create(name string, parent ID) (ID, error) {
	dir, err := f.directory(parent)
	if err != nil {
		return Root, fmt.Errorf("vfs: create %q: %w", name, err)
	}

	if nameErr := validName(name); nameErr != nil {
		return Root, nameErr
	}

	path := filepath.Join(dir.Path, name)

	handle, err := os.Create(path) //nolint:gosec // path is confined to a mount.
	if err != nil {
		return Root, fmt.Errorf("vfs: create %q: %w", name, err)
	}

	info, err := handle.Stat()

	closeErr := handle.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		return Root, fmt.Errorf("vfs: create %q: %w", name, err)
	}

	id := f.insertSorted(parent, entryFromInfo(path, info))
	f.log.Debug("vfs: file created", "path", path, "id", id)

	return id, nil
}

// Mkdir makes a directory inside the directory of parent and returns its
// id.
func (f *FS) Mkdir(name string, parent ID) (ID, error) {
	dir, err := f.directory(parent)
	if err != nil {
		return Root, fmt.Errorf("vfs: mkdir %q: %w", name, err)
	}

	if nameErr := validName(name); nameErr != nil {
		return Root, nameErr
	}

	path := filepath.Join(dir.Path, name)

	if err := os.Mkdir(path, dirPermissions); err != nil {
		return Root, fmt.Errorf("vfs: mkdir %q: %w", name, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Root, fmt.Errorf("vfs: mkdir %q: %w", name, err)
	}

	id := f.insertSorted(parent, entryFromInfo(path, info))
	f.log.Debug("vfs: directory created", "path", path, "id", id)

	return id, nil
}

// Rename changes the base name of an entry, keeping its extension, and
// bubbles the node through its siblings until name order is restored. The
// node id stays valid across the rename.
func (f *FS) Rename(id ID, name string) error {
	entry, err := f.Entry(id)
	if err != nil {
		return fmt.Errorf("vfs: rename: %w", err)
	}

	if nameErr := validName(name); nameErr != nil {
		return nameErr
	}

	newName := strings.TrimSuffix(name, filepath.Ext(name)) + filepath.Ext(entry.Name)
	if newName == entry.Name {
		return nil
	}

	oldPath := entry.Path
	newPath := filepath.Join(filepath.Dir(oldPath), newName)

	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("vfs: rename %q: %w", entry.Name, err)
	}

	entry.Name = newName
	entry.Path = newPath
	f.rebasePaths(id, oldPath, newPath)

	// Bubble toward the correct slot one neighbor at a time. Each swap
	// moves the node past exactly one sibling, so the loop terminates
	// after at most the sibling count.
	for {
		if next := f.tree.NextSibling(id); next != Root && f.tree.At(next).Name < newName {
			f.tree.Swap(id, next)

			continue
		}

		if prev := f.tree.PrevSibling(id); prev != Root && f.tree.At(prev).Name > newName {
			f.tree.Swap(prev, id)

			continue
		}

		break
	}

	f.log.Debug("vfs: renamed", "from", oldPath, "to", newPath)

	return nil
}

// Remove deletes an entry from disk and erases its subtree from the
// mirror. Directories are removed recursively.
func (f *FS) Remove(id ID) error {
	entry, err := f.Entry(id)
	if err != nil {
		return fmt.Errorf("vfs: remove: %w", err)
	}

	if err := os.RemoveAll(entry.Path); err != nil {
		return fmt.Errorf("vfs: remove %q: %w", entry.Path, err)
	}

	f.log.Debug("vfs: removed", "path", entry.Path, "id", id)
	f.tree.Erase(id)

	return nil
}

// Close drops an entry and its subtree from the mirror without touching
// the disk.
func (f *FS) Close(id ID) error {
	entry, err := f.Entry(id)
	if err != nil {
		return fmt.Errorf("vfs: close: %w", err)
	}

	f.log.Debug("vfs: closed", "path", entry.Path, "id", id)
	f.tree.Erase(id)

	return nil
}

// directory returns the entry of parent when it is a loaded directory.
func (f *FS) directory(parent ID) (*Entry, error) {
	entry, err := f.Entry(parent)
	if err != nil {
		return nil, err
	}

	if !entry.Dir {
		return nil, ErrNotDirectory
	}

	return entry, nil
}

// rebasePaths rewrites the stored paths of every descendant of id after
// its directory moved from oldPath to newPath.
func (f *FS) rebasePaths(id ID, oldPath, newPath string) {
	stack := []ID{f.tree.FirstChild(id)}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current == Root {
			continue
		}

		entry := f.tree.At(current)
		if rel, err := filepath.Rel(oldPath, entry.Path); err == nil {
			entry.Path = filepath.Join(newPath, rel)
		}

		stack = append(stack, f.tree.NextSibling(current), f.tree.FirstChild(current))
	}
}

// Mounts returns the ids of all loaded directory roots in name order.
func (f *FS) Mounts() []ID {
	var ids []ID

	for mount := f.tree.FirstChild(Root); mount != Root; mount = f.tree.NextSibling(mount) {
		ids = append(ids, mount)
	}

	return ids
}
