package services

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"fileweb/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateFolder(t *testing.T) {
	e, n, root := newTestExplorer(t)
	n.expectChange(models.ChangeCreate).Twice()

	created, err := e.Create(context.Background(), ItemFolder, root, "projects")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "projects"), created)
	assert.DirExists(t, created)

	// Creating an existing folder is not an error
	_, err = e.Create(context.Background(), ItemFolder, root, "projects")
	require.NoError(t, err)
	n.AssertExpectations(t)
}

func TestCreateFileIsExclusive(t *testing.T) {
	e, n, root := newTestExplorer(t)
	n.expectChange(models.ChangeCreate)

	created, err := e.Create(context.Background(), ItemFile, root, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "", readFile(t, created))

	require.NoError(t, os.WriteFile(created, []byte("keep me"), 0o644))

	_, err = e.Create(context.Background(), ItemFile, root, "notes.txt")
	require.Error(t, err)
	assert.Equal(t, KindAlreadyExists, KindOf(err))
	assert.Equal(t, "keep me", readFile(t, created))

	n.AssertNumberOfCalls(t, "NotifyChanged", 1)
}

func TestCreateFolderOverFile(t *testing.T) {
	e, n, root := newTestExplorer(t)
	writeFile(t, filepath.Join(root, "taken"), "x")

	_, err := e.Create(context.Background(), ItemFolder, root, "taken")
	require.Error(t, err)
	assert.Equal(t, KindAlreadyExists, KindOf(err))
	n.AssertNotCalled(t, "NotifyChanged", mock.Anything)
}

func TestCreateRejectsBadInput(t *testing.T) {
	e, n, root := newTestExplorer(t)

	tests := []struct {
		name     string
		itemType ItemType
		parent   string
		item     string
		want     Kind
	}{
		{"unknown type", ItemType("symlink"), root, "x", KindInvalidRequest},
		{"traversal name", ItemFile, root, "../escape.txt", KindInvalidPath},
		{"dot name", ItemFolder, root, ".", KindInvalidPath},
		{"empty name", ItemFile, root, "", KindInvalidPath},
		{"missing parent for file", ItemFile, filepath.Join(root, "nope"), "a.txt", KindNotFound},
		{"parent outside root", ItemFolder, filepath.Dir(root), "x", KindAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Create(context.Background(), tt.itemType, tt.parent, tt.item)
			require.Error(t, err)
			assert.Equal(t, tt.want, KindOf(err))
		})
	}
	n.AssertNotCalled(t, "NotifyChanged", mock.Anything)
}

func TestDeleteDirectoryRecursively(t *testing.T) {
	e, n, root := newTestExplorer(t)
	tree := filepath.Join(root, "tree")
	writeFile(t, filepath.Join(tree, "a.txt"), "a")
	writeFile(t, filepath.Join(tree, "x", "y", "z.txt"), "z")
	n.expectChange(models.ChangeDelete)

	require.NoError(t, e.Delete(context.Background(), tree))
	assert.NoDirExists(t, tree)

	listing, err := e.List(context.Background(), root)
	require.NoError(t, err)
	for _, item := range listing.Items {
		assert.NotEqual(t, "tree", item.Name)
	}
	n.AssertExpectations(t)
}

func TestDeleteFile(t *testing.T) {
	e, n, root := newTestExplorer(t)
	file := filepath.Join(root, "gone.txt")
	writeFile(t, file, "bye")
	n.expectChange(models.ChangeDelete)

	require.NoError(t, e.Delete(context.Background(), file))
	assert.NoFileExists(t, file)
	n.AssertExpectations(t)
}

func TestDeleteErrors(t *testing.T) {
	e, n, root := newTestExplorer(t)

	err := e.Delete(context.Background(), filepath.Join(root, "missing"))
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))

	err = e.Delete(context.Background(), root)
	require.Error(t, err)
	assert.Equal(t, KindAccessDenied, KindOf(err))
	assert.ErrorIs(t, err, ErrRootDelete)
	assert.DirExists(t, root)

	n.AssertNotCalled(t, "NotifyChanged", mock.Anything)
}

func TestOperationsStayInsideRootThroughLinks(t *testing.T) {
	e, n, root := newTestExplorer(t)
	outside := t.TempDir()
	secret := filepath.Join(outside, "secret.txt")
	writeFile(t, secret, "secret")
	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink(outside, link))
	writeFile(t, filepath.Join(root, "local.txt"), "local")

	_, err := e.List(context.Background(), link)
	assert.Equal(t, KindAccessDenied, KindOf(err))

	err = e.Delete(context.Background(), filepath.Join(link, "secret.txt"))
	assert.Equal(t, KindAccessDenied, KindOf(err))

	_, err = e.Rename(context.Background(), filepath.Join(link, "secret.txt"), filepath.Join(root, "taken.txt"))
	assert.Equal(t, KindAccessDenied, KindOf(err))

	err = e.Copy(context.Background(), filepath.Join(root, "local.txt"), filepath.Join(link, "planted.txt"))
	assert.Equal(t, KindAccessDenied, KindOf(err))

	_, err = e.OpenThumbnail(context.Background(), filepath.Join(link, "secret.txt"))
	assert.Equal(t, KindAccessDenied, KindOf(err))

	assert.Equal(t, "secret", readFile(t, secret))
	assert.NoFileExists(t, filepath.Join(outside, "planted.txt"))
	n.AssertNotCalled(t, "NotifyChanged", mock.Anything)
}

func TestDeleteRefusesVolumeRoot(t *testing.T) {
	e := NewExplorer(ExplorerOptions{})
	volumeRoot := string(filepath.Separator)
	if runtime.GOOS == "windows" {
		volumeRoot = `C:\`
	}

	err := e.Delete(context.Background(), volumeRoot)
	require.Error(t, err)
	assert.Equal(t, KindAccessDenied, KindOf(err))
}

func TestRename(t *testing.T) {
	e, n, root := newTestExplorer(t)
	old := filepath.Join(root, "old.txt")
	writeFile(t, old, "data")
	n.expectChange(models.ChangeRename)

	renamed, err := e.Rename(context.Background(), old, filepath.Join(root, "new.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "new.txt"), renamed)
	assert.NoFileExists(t, old)
	assert.Equal(t, "data", readFile(t, renamed))
	n.AssertExpectations(t)
}

func TestRenameErrors(t *testing.T) {
	e, n, root := newTestExplorer(t)
	dir := filepath.Join(root, "dir")
	writeFile(t, filepath.Join(dir, "f.txt"), "f")
	occupied := filepath.Join(root, "occupied")
	writeFile(t, filepath.Join(occupied, "g.txt"), "g")

	tests := []struct {
		name string
		from string
		to   string
		want Kind
	}{
		{"missing source", filepath.Join(root, "ghost"), filepath.Join(root, "ghost2"), KindNotFound},
		{"into own subtree", dir, filepath.Join(dir, "inner"), KindConflict},
		{"onto non-empty directory", dir, occupied, KindConflict},
		{"destination outside root", dir, filepath.Join(filepath.Dir(root), "x"), KindAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Rename(context.Background(), tt.from, tt.to)
			require.Error(t, err)
			assert.Equal(t, tt.want, KindOf(err))
		})
	}
	assert.DirExists(t, dir)
	n.AssertNotCalled(t, "NotifyChanged", mock.Anything)
}

func TestCopyFilePreservesContentAndTime(t *testing.T) {
	e, n, root := newTestExplorer(t)
	src := filepath.Join(root, "src.txt")
	writeFile(t, src, "payload")
	stamp := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, stamp, stamp))
	n.expectChange(models.ChangeCopy)

	dst := filepath.Join(root, "dst.txt")
	require.NoError(t, e.Copy(context.Background(), src, dst))

	assert.Equal(t, "payload", readFile(t, dst))
	assert.Equal(t, "payload", readFile(t, src))
	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(stamp))
	n.AssertExpectations(t)
}

func TestCopyDirectoryRecursively(t *testing.T) {
	e, n, root := newTestExplorer(t)
	src := filepath.Join(root, "src")
	writeFile(t, filepath.Join(src, "a.txt"), "A")
	writeFile(t, filepath.Join(src, "sub", "b.txt"), "B")
	n.expectChange(models.ChangeCopy)

	dst := filepath.Join(root, "dst")
	require.NoError(t, e.Copy(context.Background(), src, dst))

	assert.Equal(t, "A", readFile(t, filepath.Join(dst, "a.txt")))
	assert.Equal(t, "B", readFile(t, filepath.Join(dst, "sub", "b.txt")))
	assert.Equal(t, "A", readFile(t, filepath.Join(src, "a.txt")))
	n.AssertNumberOfCalls(t, "NotifyChanged", 1)
}

func TestCopyRecreatesSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on Windows")
	}
	e, n, root := newTestExplorer(t)
	src := filepath.Join(root, "src")
	writeFile(t, filepath.Join(src, "target.txt"), "t")
	require.NoError(t, os.Symlink("target.txt", filepath.Join(src, "link")))
	n.expectChange(models.ChangeCopy)

	dst := filepath.Join(root, "dst")
	require.NoError(t, e.Copy(context.Background(), src, dst))

	target, err := os.Readlink(filepath.Join(dst, "link"))
	require.NoError(t, err)
	assert.Equal(t, "target.txt", target)
}

func TestCopyErrors(t *testing.T) {
	e, n, root := newTestExplorer(t)
	dir := filepath.Join(root, "dir")
	file := filepath.Join(dir, "f.txt")
	writeFile(t, file, "f")

	tests := []struct {
		name string
		from string
		to   string
		want Kind
	}{
		{"missing source", filepath.Join(root, "ghost"), filepath.Join(root, "copy"), KindNotFound},
		{"same file", file, file, KindConflict},
		{"same directory", dir, dir, KindConflict},
		{"into own subtree", dir, filepath.Join(dir, "nested"), KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.Copy(context.Background(), tt.from, tt.to)
			require.Error(t, err)
			assert.Equal(t, tt.want, KindOf(err))
		})
	}
	assert.NoDirExists(t, filepath.Join(dir, "nested"))
	n.AssertNotCalled(t, "NotifyChanged", mock.Anything)
}

func TestCopyIntoItselfThroughLink(t *testing.T) {
	e, n, root := newTestExplorer(t)
	src := filepath.Join(root, "src")
	writeFile(t, filepath.Join(src, "f.txt"), "f")
	alias := filepath.Join(root, "alias")
	require.NoError(t, os.Symlink(src, alias))

	err := e.Copy(context.Background(), src, filepath.Join(alias, "copy"))
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.ErrorIs(t, err, ErrIntoItself)
	assert.NoDirExists(t, filepath.Join(src, "copy"))

	err = e.Copy(context.Background(), alias, src)
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.ErrorIs(t, err, ErrSameLocation)

	err = e.Move(context.Background(), src, filepath.Join(alias, "moved"))
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.ErrorIs(t, err, ErrIntoItself)
	assert.DirExists(t, src)

	n.AssertNotCalled(t, "NotifyChanged", mock.Anything)
}

func TestMoveLinkIntoItsTarget(t *testing.T) {
	e, n, root := newTestExplorer(t)
	dir := filepath.Join(root, "dir")
	require.NoError(t, os.Mkdir(dir, 0o755))
	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink(dir, link))
	n.expectChange(models.ChangeMove)

	require.NoError(t, e.Move(context.Background(), link, filepath.Join(dir, "link")))

	target, err := os.Readlink(filepath.Join(dir, "link"))
	require.NoError(t, err)
	assert.Equal(t, dir, target)
	n.AssertExpectations(t)
}

func TestMoveIsRenameEquivalent(t *testing.T) {
	e, n, root := newTestExplorer(t)
	from := filepath.Join(root, "from")
	to := filepath.Join(root, "to")
	writeFile(t, filepath.Join(from, "item.txt"), "i")
	require.NoError(t, os.Mkdir(to, 0o755))
	n.expectChange(models.ChangeMove)

	require.NoError(t, e.Move(context.Background(), filepath.Join(from, "item.txt"), filepath.Join(to, "item.txt")))

	src, err := e.List(context.Background(), from)
	require.NoError(t, err)
	assert.Empty(t, src.Items)

	dst, err := e.List(context.Background(), to)
	require.NoError(t, err)
	require.Len(t, dst.Items, 1)
	assert.Equal(t, "item.txt", dst.Items[0].Name)
	assert.EqualValues(t, 1, dst.Items[0].Size)
	n.AssertExpectations(t)
}

func TestMoveIntoItself(t *testing.T) {
	e, n, root := newTestExplorer(t)
	dir := filepath.Join(root, "dir")
	require.NoError(t, os.Mkdir(dir, 0o755))

	err := e.Move(context.Background(), dir, filepath.Join(dir, "child"))
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.ErrorIs(t, err, ErrIntoItself)
	n.AssertNotCalled(t, "NotifyChanged", mock.Anything)
}

func TestPaste(t *testing.T) {
	e, n, root := newTestExplorer(t)
	a := filepath.Join(root, "a.txt")
	b := filepath.Join(root, "b")
	writeFile(t, a, "a")
	writeFile(t, filepath.Join(b, "inner.txt"), "inner")
	dest := filepath.Join(root, "dest")
	require.NoError(t, os.Mkdir(dest, 0o755))

	t.Run("copy", func(t *testing.T) {
		n.expectChange(models.ChangePaste)

		results, err := e.Paste(context.Background(), PasteCopy, []string{a, b, filepath.Join(root, "ghost")}, dest)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.True(t, results[0].Success)
		assert.Equal(t, filepath.Join(dest, "a.txt"), results[0].Destination)
		assert.True(t, results[1].Success)
		assert.False(t, results[2].Success)
		assert.Equal(t, string(KindNotFound), results[2].Code)

		assert.Equal(t, "inner", readFile(t, filepath.Join(dest, "b", "inner.txt")))
		assert.FileExists(t, a)
		n.AssertNumberOfCalls(t, "NotifyChanged", 1)
	})

	t.Run("cut", func(t *testing.T) {
		cutDest := filepath.Join(root, "cut")
		require.NoError(t, os.Mkdir(cutDest, 0o755))
		n.expectChange(models.ChangePaste)

		results, err := e.Paste(context.Background(), PasteCut, []string{a}, cutDest)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.True(t, results[0].Success)
		assert.NoFileExists(t, a)
		assert.FileExists(t, filepath.Join(cutDest, "a.txt"))
		n.AssertNumberOfCalls(t, "NotifyChanged", 2)
	})

	t.Run("nothing succeeds", func(t *testing.T) {
		results, err := e.Paste(context.Background(), PasteCopy, []string{filepath.Join(root, "ghost")}, dest)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.False(t, results[0].Success)
		n.AssertNumberOfCalls(t, "NotifyChanged", 2)
	})
}

// cancelAfter reports cancellation once Err has been checked more than limit times
type cancelAfter struct {
	context.Context
	limit  int
	checks int
}

func (c *cancelAfter) Err() error {
	c.checks++
	if c.checks > c.limit {
		return context.Canceled
	}
	return nil
}

func TestPasteCancelledAnnouncesFinishedItems(t *testing.T) {
	e, n, root := newTestExplorer(t)
	a := filepath.Join(root, "a.txt")
	b := filepath.Join(root, "b.txt")
	writeFile(t, a, "a")
	writeFile(t, b, "b")
	dest := filepath.Join(root, "dest")
	require.NoError(t, os.Mkdir(dest, 0o755))
	n.On("NotifyChanged", mock.MatchedBy(func(ev models.ChangeEvent) bool {
		return ev.Op == models.ChangePaste && len(ev.Paths) == 1 && ev.Paths[0] == filepath.Join(dest, "a.txt")
	})).Once()

	ctx := &cancelAfter{Context: context.Background(), limit: 1}
	results, err := e.Paste(ctx, PasteCopy, []string{a, b}, dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.FileExists(t, filepath.Join(dest, "a.txt"))
	assert.NoFileExists(t, filepath.Join(dest, "b.txt"))
	n.AssertExpectations(t)
}

func TestPasteRejectsBadRequests(t *testing.T) {
	e, n, root := newTestExplorer(t)

	_, err := e.Paste(context.Background(), PasteOp("link"), []string{root}, root)
	assert.Equal(t, KindInvalidRequest, KindOf(err))

	_, err = e.Paste(context.Background(), PasteCopy, nil, root)
	assert.Equal(t, KindInvalidRequest, KindOf(err))

	n.AssertNotCalled(t, "NotifyChanged", mock.Anything)
}
