package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"fileweb/internal/models"

	"go.uber.org/zap"
)

// ItemType selects what Create makes
type ItemType string

const (
	ItemFile   ItemType = "file"
	ItemFolder ItemType = "folder"
)

// PasteOp is the clipboard action applied by Paste
type PasteOp string

const (
	PasteCopy PasteOp = "copy"
	PasteCut  PasteOp = "cut"
)

// Create makes an empty file or a folder named name inside parent and
// returns its path. Folders are created with any missing parents; an
// existing folder is not an error. Files must not already exist.
func (e *Explorer) Create(ctx context.Context, itemType ItemType, parent, name string) (created string, err error) {
	defer e.observe(OpCreate, time.Now(), &err)

	if itemType != ItemFile && itemType != ItemFolder {
		return "", newOpError(OpCreate, string(itemType), KindInvalidRequest, ErrUnsupportedType)
	}
	dir, err := e.sanitizer.Sanitize(parent)
	if err != nil {
		return "", err
	}
	if err := ValidateName(name); err != nil {
		return "", err
	}
	target := filepath.Join(dir, name)

	switch itemType {
	case ItemFolder:
		if err := os.MkdirAll(target, 0o755); err != nil {
			if info, statErr := os.Lstat(target); statErr == nil && !info.IsDir() {
				return "", newOpError(OpCreate, target, KindAlreadyExists, os.ErrExist)
			}
			return "", classify(OpCreate, target, err)
		}
	case ItemFile:
		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return "", classify(OpCreate, target, err)
		}
		if err := f.Close(); err != nil {
			return "", classify(OpCreate, target, err)
		}
	}

	e.logger.Info("Created item", zap.String("type", string(itemType)), zap.String("path", target))
	e.notify(models.ChangeCreate, target)
	return target, nil
}

// Delete removes a file, or a directory with all its contents.
// Volume roots and the confinement root cannot be deleted.
func (e *Explorer) Delete(ctx context.Context, rawPath string) (err error) {
	defer e.observe(OpDelete, time.Now(), &err)

	target, err := e.sanitizer.Sanitize(rawPath)
	if err != nil {
		return err
	}
	if isVolumeRoot(target) || (e.sanitizer.Confined() && target == e.sanitizer.Root()) {
		return newOpError(OpDelete, target, KindAccessDenied, ErrRootDelete)
	}

	info, err := os.Lstat(target)
	if err != nil {
		return classify(OpDelete, target, err)
	}
	if info.IsDir() {
		err = os.RemoveAll(target)
	} else {
		err = os.Remove(target)
	}
	if err != nil {
		return classify(OpDelete, target, err)
	}

	e.logger.Info("Deleted item", zap.String("path", target), zap.Bool("directory", info.IsDir()))
	e.notify(models.ChangeDelete, target)
	return nil
}

// Rename moves oldPath to newPath with a single host rename and returns
// the new path. It may cross directories but never volumes.
func (e *Explorer) Rename(ctx context.Context, oldPath, newPath string) (renamed string, err error) {
	defer e.observe(OpRename, time.Now(), &err)

	src, dst, err := e.sanitizePair(oldPath, newPath)
	if err != nil {
		return "", err
	}
	if err := e.rename(OpRename, src, dst); err != nil {
		return "", err
	}

	e.logger.Info("Renamed item", zap.String("from", src), zap.String("to", dst))
	e.notify(models.ChangeRename, src, dst)
	return dst, nil
}

// Copy duplicates a file or directory tree at destination. Existing files at
// the destination are overwritten. A failure part way leaves a partial copy.
func (e *Explorer) Copy(ctx context.Context, source, destination string) (err error) {
	defer e.observe(OpCopy, time.Now(), &err)

	src, dst, err := e.sanitizePair(source, destination)
	if err != nil {
		return err
	}
	if err := e.copy(src, dst); err != nil {
		return err
	}

	e.logger.Info("Copied item", zap.String("from", src), zap.String("to", dst))
	e.notify(models.ChangeCopy, src, dst)
	return nil
}

// Move relocates an item within one volume. Cross-volume moves are refused
// with KindCrossVolume; callers can copy then delete instead.
func (e *Explorer) Move(ctx context.Context, source, destination string) (err error) {
	defer e.observe(OpMove, time.Now(), &err)

	src, dst, err := e.sanitizePair(source, destination)
	if err != nil {
		return err
	}
	if err := e.rename(OpMove, src, dst); err != nil {
		return err
	}

	e.logger.Info("Moved item", zap.String("from", src), zap.String("to", dst))
	e.notify(models.ChangeMove, src, dst)
	return nil
}

// Paste copies or moves every source into destination, keeping base names.
// Items are processed in order and each gets its own result; one failure does
// not stop the rest. A single change event follows if anything succeeded.
func (e *Explorer) Paste(ctx context.Context, op PasteOp, sources []string, destination string) (results []models.PasteResult, err error) {
	defer e.observe(OpPaste, time.Now(), &err)

	if op != PasteCopy && op != PasteCut {
		return nil, newOpError(OpPaste, string(op), KindInvalidRequest, ErrUnsupportedType)
	}
	if len(sources) == 0 {
		return nil, newOpError(OpPaste, "", KindInvalidRequest, errors.New("no items to paste"))
	}
	dir, err := e.sanitizer.Sanitize(destination)
	if err != nil {
		return nil, err
	}

	results = make([]models.PasteResult, 0, len(sources))
	var touched []string
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			if len(touched) > 0 {
				e.notify(models.ChangePaste, touched...)
			}
			return results, classify(OpPaste, dir, err)
		}

		result := models.PasteResult{Source: source}
		itemErr := func() error {
			src, err := e.sanitizer.Sanitize(source)
			if err != nil {
				return err
			}
			dst := filepath.Join(dir, filepath.Base(src))
			result.Destination = dst
			if op == PasteCut {
				return e.rename(OpMove, src, dst)
			}
			return e.copy(src, dst)
		}()

		if itemErr != nil {
			result.Error = itemErr.Error()
			result.Code = string(KindOf(itemErr))
			e.logger.Warn("Paste item failed", zap.String("source", source), zap.Error(itemErr))
		} else {
			result.Success = true
			touched = append(touched, result.Destination)
		}
		results = append(results, result)
	}

	if len(touched) > 0 {
		e.notify(models.ChangePaste, touched...)
	}
	return results, nil
}

func (e *Explorer) sanitizePair(a, b string) (string, string, error) {
	src, err := e.sanitizer.Sanitize(a)
	if err != nil {
		return "", "", err
	}
	dst, err := e.sanitizer.Sanitize(b)
	if err != nil {
		return "", "", err
	}
	return src, dst, nil
}

// rename backs both Rename and Move; op only changes error reporting
func (e *Explorer) rename(op, src, dst string) error {
	if isStrictlyWithin(src, dst) || isStrictlyWithin(resolveEntry(src), resolveEntry(dst)) {
		return &OpError{Op: op, Path: src, Dest: dst, Kind: KindConflict, Err: ErrIntoItself}
	}
	if err := os.Rename(src, dst); err != nil {
		return classifyPair(op, src, dst, err)
	}
	return nil
}

func (e *Explorer) copy(src, dst string) error {
	if src == dst {
		return &OpError{Op: OpCopy, Path: src, Dest: dst, Kind: KindConflict, Err: ErrSameLocation}
	}

	info, err := os.Stat(src)
	if err != nil {
		return classify(OpCopy, src, err)
	}

	if info.IsDir() {
		realSrc, realDst := resolvePath(src), resolvePath(dst)
		if realSrc == realDst {
			return &OpError{Op: OpCopy, Path: src, Dest: dst, Kind: KindConflict, Err: ErrSameLocation}
		}
		if isStrictlyWithin(src, dst) || isStrictlyWithin(realSrc, realDst) {
			return &OpError{Op: OpCopy, Path: src, Dest: dst, Kind: KindConflict, Err: ErrIntoItself}
		}
		if err := copyTree(src, dst); err != nil {
			return classifyPair(OpCopy, src, dst, err)
		}
		return nil
	}

	if existing, err := os.Stat(dst); err == nil && os.SameFile(info, existing) {
		return &OpError{Op: OpCopy, Path: src, Dest: dst, Kind: KindConflict, Err: ErrSameLocation}
	}
	if err := copyFile(src, dst, info.Mode()); err != nil {
		return classifyPair(OpCopy, src, dst, err)
	}
	return nil
}
