package services

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"

	"fileweb/internal/logging"
	"fileweb/internal/models"

	"go.uber.org/zap"
)

// VolumeEnumerator lists the top-level volumes a client can browse.
type VolumeEnumerator interface {
	ListVolumes(ctx context.Context) ([]models.Volume, error)
}

// DriveClassifier reports the kind of the volume mounted at root.
type DriveClassifier interface {
	Classify(ctx context.Context, root string) (models.VolumeKind, error)
}

// ClassifierFunc adapts a plain function to DriveClassifier
type ClassifierFunc func(ctx context.Context, root string) (models.VolumeKind, error)

func (f ClassifierFunc) Classify(ctx context.Context, root string) (models.VolumeKind, error) {
	return f(ctx, root)
}

// NewVolumeEnumerator picks the enumeration strategy for this host.
// A confinement root always yields that root as the only volume.
func NewVolumeEnumerator(root string, logger *logging.Logger) VolumeEnumerator {
	if root != "" {
		return SingleRootEnumerator{Root: root}
	}
	return defaultVolumeEnumerator(logger)
}

// SingleRootEnumerator reports one fixed volume. Used on hosts with a single
// filesystem tree and whenever a confinement root is configured.
type SingleRootEnumerator struct {
	Root string
}

func (e SingleRootEnumerator) ListVolumes(ctx context.Context) ([]models.Volume, error) {
	return []models.Volume{{Identifier: e.Root, Kind: models.VolumeFixed}}, nil
}

// DriveLetterEnumerator probes A: through Z: and classifies the present drives.
type DriveLetterEnumerator struct {
	// Probe reports whether a drive root such as "C:\" is accessible
	Probe func(root string) bool
	// Classifier may be nil, in which case every drive is unknown
	Classifier DriveClassifier
	Logger     *logging.Logger
}

func (e *DriveLetterEnumerator) ListVolumes(ctx context.Context) ([]models.Volume, error) {
	probe := e.Probe
	if probe == nil {
		probe = rootAccessible
	}

	volumes := make([]models.Volume, 0, 4)
	for c := 'A'; c <= 'Z'; c++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id := string(c) + ":"
		if probe(driveRoot(id)) {
			volumes = append(volumes, models.Volume{Identifier: id, Kind: models.VolumeUnknown})
		}
	}

	if e.Classifier != nil {
		if err := e.classify(ctx, volumes); err != nil {
			if e.Logger != nil {
				e.Logger.Warn("Drive classification failed, reporting drives as unknown", zap.Error(err))
			}
			for i := range volumes {
				volumes[i].Kind = models.VolumeUnknown
			}
		}
	}

	SortVolumes(volumes)
	return volumes, nil
}

// classify fills in kinds in place. Any failure invalidates the whole pass.
func (e *DriveLetterEnumerator) classify(ctx context.Context, volumes []models.Volume) error {
	for i := range volumes {
		kind, err := e.Classifier.Classify(ctx, driveRoot(volumes[i].Identifier))
		if err != nil {
			return err
		}
		volumes[i].Kind = kind
	}
	return nil
}

// SortVolumes orders removable volumes first, then fixed, then the rest.
// Ties keep their enumeration order.
func SortVolumes(volumes []models.Volume) {
	sort.SliceStable(volumes, func(i, j int) bool {
		return volumeRank(volumes[i].Kind) < volumeRank(volumes[j].Kind)
	})
}

func volumeRank(kind models.VolumeKind) int {
	switch kind {
	case models.VolumeRemovable:
		return 0
	case models.VolumeFixed:
		return 1
	default:
		return 2
	}
}

var errInvalidDriveLetter = errors.New("drive letter must be a single letter A-Z")

// DrivePath converts a drive letter such as "d" or "D:" to its browsable root path.
func DrivePath(letter string) (string, error) {
	l := strings.TrimSuffix(strings.TrimSpace(letter), ":")
	if len(l) != 1 {
		return "", newOpError(OpResolve, letter, KindInvalidPath, errInvalidDriveLetter)
	}
	c := l[0] &^ 0x20
	if c < 'A' || c > 'Z' {
		return "", newOpError(OpResolve, letter, KindInvalidPath, errInvalidDriveLetter)
	}
	return driveRoot(string(c) + ":"), nil
}

func rootAccessible(root string) bool {
	_, err := os.Stat(root)
	return err == nil
}
