package models

import "time"

// DirectoryEntry represents one child observed while listing a directory
type DirectoryEntry struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	IsDirectory bool      `json:"isDirectory"`
	Size        int64     `json:"size"` // Always 0 for directories
	Modified    time.Time `json:"modified"`
}

// DirectoryListing is a point-in-time snapshot of one directory.
// Items keep the order in which the filesystem enumerated them.
type DirectoryListing struct {
	CurrentPath string           `json:"currentPath"`
	Items       []DirectoryEntry `json:"items"`
}
