//go:build unix

package services

import (
	"errors"

	"golang.org/x/sys/unix"
)

func isCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}

// isRenameConflict reports errors a rename returns when the destination is
// occupied or the source cannot be placed there.
func isRenameConflict(err error) bool {
	return errors.Is(err, unix.ENOTEMPTY) ||
		errors.Is(err, unix.EEXIST) ||
		errors.Is(err, unix.EISDIR) ||
		errors.Is(err, unix.ENOTDIR) ||
		errors.Is(err, unix.EINVAL)
}
