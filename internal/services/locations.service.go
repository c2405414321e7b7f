package services

import (
	"os"
	"path/filepath"
	"strings"
)

// Special location names accepted by Resolve. Matching is case-insensitive.
const (
	LocationHome      = "home"
	LocationDesktop   = "desktop"
	LocationDownloads = "downloads"
	LocationDocuments = "documents"
	LocationPictures  = "pictures"
	LocationMusic     = "music"
	LocationMusics    = "musics"
	LocationVideos    = "videos"
	LocationRoot      = "root"
	LocationDriveC    = "c:"
)

// Locations maps well-known names to paths under the user's home directory.
// Resolution is purely lexical apart from the desktop existence check.
type Locations struct {
	primaryRoot string
	home        func() (string, error)
	exists      func(path string) bool
}

// NewLocations creates a resolver. primaryRoot answers "root" and "c:";
// when empty the host's system volume is used.
func NewLocations(primaryRoot string) *Locations {
	if primaryRoot == "" {
		primaryRoot = defaultPrimaryRoot()
	}
	return &Locations{
		primaryRoot: primaryRoot,
		home:        os.UserHomeDir,
		exists:      pathExists,
	}
}

// Home returns the current user's home directory
func (l *Locations) Home() (string, error) {
	home, err := l.home()
	if err != nil {
		return "", newOpError(OpResolve, LocationHome, KindIO, err)
	}
	return home, nil
}

// PrimaryRoot returns the path "root" resolves to
func (l *Locations) PrimaryRoot() string {
	return l.primaryRoot
}

// Resolve maps a location name to a path. Unknown names yield KindUnknownLocation.
func (l *Locations) Resolve(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	switch key {
	case LocationRoot, LocationDriveC:
		return l.primaryRoot, nil
	case LocationHome, LocationDesktop, LocationDownloads, LocationDocuments,
		LocationPictures, LocationMusic, LocationMusics, LocationVideos:
	default:
		return "", newOpError(OpResolve, name, KindUnknownLocation, ErrUnknownLocation)
	}

	home, err := l.Home()
	if err != nil {
		return "", err
	}

	switch key {
	case LocationDesktop:
		// Synced desktops take precedence when present
		synced := filepath.Join(home, "OneDrive", "Desktop")
		if l.exists(synced) {
			return synced, nil
		}
		return filepath.Join(home, "Desktop"), nil
	case LocationDownloads:
		return filepath.Join(home, "Downloads"), nil
	case LocationDocuments:
		return filepath.Join(home, "Documents"), nil
	case LocationPictures:
		// No local fallback, unlike desktop
		return filepath.Join(home, "OneDrive", "Pictures"), nil
	case LocationMusic, LocationMusics:
		return filepath.Join(home, "Music"), nil
	case LocationVideos:
		return filepath.Join(home, "Videos"), nil
	default:
		return home, nil
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
