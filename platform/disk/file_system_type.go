package disk

import "strings"

type FileSystemType string

const (
	FileSystemUnknown FileSystemType = ""
	FileSystemSwap    FileSystemType = "swap"
	FileSystemExt2    FileSystemType = "ext2"
	FileSystemExt3    FileSystemType = "ext3"
	FileSystemExt4    FileSystemType = "ext4"
	FileSystemXFS     FileSystemType = "xfs"
	FileSystemBTRFS   FileSystemType = "btrfs"
	FileSystemNTFS    FileSystemType = "ntfs"
	FileSystemVFAT    FileSystemType = "vfat"
)

// IsSwap also matches signatures such as `linux-swap'
func (t FileSystemType) IsSwap() bool {
	return strings.Contains(string(t), string(FileSystemSwap))
}

type FileSystemProber interface {
	GetPartitionFormatType(partitionPath string) (FileSystemType, error)
}
