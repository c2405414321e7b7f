package models

// VolumeKind classifies a volume for display ordering only
type VolumeKind string

const (
	VolumeRemovable VolumeKind = "removable"
	VolumeFixed     VolumeKind = "fixed"
	VolumeNetwork   VolumeKind = "network"
	VolumeOptical   VolumeKind = "optical"
	VolumeUnknown   VolumeKind = "unknown"
)

// Volume is a navigable root: a drive letter such as "E:" or the single "/" root
type Volume struct {
	Identifier string     `json:"identifier"`
	Kind       VolumeKind `json:"kind"`
}
