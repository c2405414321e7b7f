//go:build !unix && !windows

package services

func isCrossDevice(error) bool { return false }

func isRenameConflict(error) bool { return false }
