package disk

type FileSystemShrinker interface {
	// Shrink leaves the filesystem no larger than newSizeInBytes
	Shrink(partitionPath string, newSizeInBytes uint64) (err error)
}

type Resizer interface {
	Resize(partitionPath string, fsType FileSystemType, newSizeInBytes uint64) (err error)
}
