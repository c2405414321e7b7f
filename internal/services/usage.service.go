package services

import (
	"context"
	"path/filepath"

	"fileweb/internal/logging"
	"fileweb/internal/models"

	"github.com/shirou/gopsutil/v3/disk"
	"go.uber.org/zap"
)

const GB = 1024 * 1024 * 1024

// UsageFunc reports capacity figures for the volume mounted at path
type UsageFunc func(ctx context.Context, path string) (*disk.UsageStat, error)

// VolumeUsageReader reports capacity for every enumerated volume.
type VolumeUsageReader struct {
	volumes VolumeEnumerator
	usage   UsageFunc
	logger  *logging.Logger
}

// NewVolumeUsageReader creates a reader backed by gopsutil
func NewVolumeUsageReader(volumes VolumeEnumerator, logger *logging.Logger) *VolumeUsageReader {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &VolumeUsageReader{
		volumes: volumes,
		usage:   disk.UsageWithContext,
		logger:  logger,
	}
}

// ReadUsage returns usage for each volume. Volumes whose usage cannot be read are skipped.
func (r *VolumeUsageReader) ReadUsage(ctx context.Context) ([]models.VolumeUsage, error) {
	volumes, err := r.volumes.ListVolumes(ctx)
	if err != nil {
		return nil, classify(OpUsage, "", err)
	}

	fstypes := r.filesystemTypes(ctx)
	result := make([]models.VolumeUsage, 0, len(volumes))
	for _, v := range volumes {
		root := driveRoot(v.Identifier)
		usage, err := r.usage(ctx, root)
		if err != nil {
			r.logger.Warn("Could not read volume usage",
				zap.String("volume", v.Identifier), zap.Error(err))
			continue
		}

		fstype := usage.Fstype
		if t, ok := fstypes[filepath.Clean(root)]; ok && t != "" {
			fstype = t
		}
		result = append(result, models.VolumeUsage{
			Path:         v.Identifier,
			TotalGB:      float64(usage.Total) / GB,
			UsedGB:       float64(usage.Used) / GB,
			FreeGB:       float64(usage.Free) / GB,
			UsagePercent: usage.UsedPercent,
			Filesystem:   fstype,
		})
	}
	return result, nil
}

// filesystemTypes maps mount points to filesystem names. Failure only loses the names.
func (r *VolumeUsageReader) filesystemTypes(ctx context.Context) map[string]string {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		r.logger.Debug("Could not list partitions", zap.Error(err))
		return nil
	}
	types := make(map[string]string, len(partitions))
	for _, p := range partitions {
		types[filepath.Clean(p.Mountpoint)] = p.Fstype
	}
	return types
}
