package services

import (
	"context"
	"time"

	"fileweb/internal/logging"
	"fileweb/internal/metrics"
	"fileweb/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChangeMessage is the human-readable text carried by every change event
const ChangeMessage = "Files updated"

// Explorer is the entry point for every browse and mutate operation.
// It holds no per-request state; each call is independent.
type Explorer struct {
	sanitizer *Sanitizer
	locations *Locations
	volumes   VolumeEnumerator
	notifier  Notifier
	logger    *logging.Logger
}

// ExplorerOptions groups the collaborators of an Explorer.
// Nil Notifier and Logger are replaced with no-op versions.
type ExplorerOptions struct {
	Sanitizer *Sanitizer
	Locations *Locations
	Volumes   VolumeEnumerator
	Notifier  Notifier
	Logger    *logging.Logger
}

// NewExplorer creates an Explorer
func NewExplorer(opts ExplorerOptions) *Explorer {
	e := &Explorer{
		sanitizer: opts.Sanitizer,
		locations: opts.Locations,
		volumes:   opts.Volumes,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.sanitizer == nil {
		e.sanitizer = &Sanitizer{}
	}
	if e.locations == nil {
		e.locations = NewLocations(e.sanitizer.Root())
	}
	if e.volumes == nil {
		e.volumes = NewVolumeEnumerator(e.sanitizer.Root(), e.logger)
	}
	if e.notifier == nil {
		e.notifier = NopNotifier{}
	}
	return e
}

// ListVolumes returns the browsable volumes, removable first
func (e *Explorer) ListVolumes(ctx context.Context) (volumes []models.Volume, err error) {
	defer e.observe(OpVolumes, time.Now(), &err)

	volumes, err = e.volumes.ListVolumes(ctx)
	if err != nil {
		return nil, classify(OpVolumes, "", err)
	}
	if volumes == nil {
		volumes = []models.Volume{}
	}
	return volumes, nil
}

// ResolveLocation maps a special location name to a path
func (e *Explorer) ResolveLocation(name string) (path string, err error) {
	defer e.observe(OpResolve, time.Now(), &err)
	return e.locations.Resolve(name)
}

// observe records metrics and logs failures. Call it deferred with a pointer
// to the named error result.
func (e *Explorer) observe(op string, start time.Time, errp *error) {
	result := "ok"
	if errp != nil && *errp != nil {
		result = string(KindOf(*errp))
		e.logger.Warn("Operation failed",
			zap.String("op", op),
			zap.String("kind", result),
			zap.Error(*errp))
	}
	metrics.RecordOperation(op, result, time.Since(start))
}

// notify emits exactly one change event
func (e *Explorer) notify(op string, paths ...string) {
	event := models.ChangeEvent{
		ID:        uuid.NewString(),
		Op:        op,
		Paths:     paths,
		Message:   ChangeMessage,
		Timestamp: time.Now(),
	}
	metrics.RecordChangeNotification(op)
	e.logger.Debug("Change notification", zap.String("op", op), zap.Strings("paths", paths))
	e.notifier.NotifyChanged(event)
}
