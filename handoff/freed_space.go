package handoff

import "fmt"

// FreedSpace describes the unallocated region left behind a shrunk partition
type FreedSpace struct {
	PlanID              string `json:"plan_id"`
	DevicePath          string `json:"device_path"`
	ShrunkPartitionPath string `json:"shrunk_partition_path"`
	ExtendedPath        string `json:"extended_path,omitempty"`
	FreedStartOffset    uint64 `json:"freed_start_offset"`
	FreedSizeMB         uint64 `json:"freed_size_mb"`
	FileSystem          string `json:"file_system"`
}

func (s FreedSpace) String() string {
	return fmt.Sprintf("[Device: %s, Start: %dB, Size: %dMB, FileSystem: %s]", s.DevicePath, s.FreedStartOffset, s.FreedSizeMB, s.FileSystem)
}
