//go:build windows

package services

import (
	"context"
	"fmt"
	"os"

	"fileweb/internal/logging"
	"fileweb/internal/models"

	"golang.org/x/sys/windows"
)

func defaultVolumeEnumerator(logger *logging.Logger) VolumeEnumerator {
	return &DriveLetterEnumerator{
		Probe:      rootAccessible,
		Classifier: ClassifierFunc(classifyDriveType),
		Logger:     logger,
	}
}

// classifyDriveType maps GetDriveType results onto volume kinds.
func classifyDriveType(_ context.Context, root string) (models.VolumeKind, error) {
	p, err := windows.UTF16PtrFromString(root)
	if err != nil {
		return models.VolumeUnknown, err
	}
	switch t := windows.GetDriveType(p); t {
	case windows.DRIVE_REMOVABLE:
		return models.VolumeRemovable, nil
	case windows.DRIVE_FIXED, windows.DRIVE_RAMDISK:
		return models.VolumeFixed, nil
	case windows.DRIVE_REMOTE:
		return models.VolumeNetwork, nil
	case windows.DRIVE_CDROM:
		return models.VolumeOptical, nil
	case windows.DRIVE_NO_ROOT_DIR:
		return models.VolumeUnknown, fmt.Errorf("no volume mounted at %s", root)
	default:
		return models.VolumeUnknown, nil
	}
}

func driveRoot(id string) string {
	return id + `\`
}

// defaultPrimaryRoot is the system drive, usually C:\
func defaultPrimaryRoot() string {
	if drive := os.Getenv("SystemDrive"); drive != "" {
		return driveRoot(drive)
	}
	return `C:\`
}
