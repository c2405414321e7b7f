//go:build !windows

package services

import "fileweb/internal/logging"

func defaultVolumeEnumerator(*logging.Logger) VolumeEnumerator {
	return SingleRootEnumerator{Root: "/"}
}

// driveRoot leaves the identifier alone; drive letters have no meaning here
func driveRoot(id string) string {
	return id
}

func defaultPrimaryRoot() string {
	return "/"
}
