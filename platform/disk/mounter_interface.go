package disk

type Mounter interface {
	Mount(partitionPath, mountPoint string, mountOptions ...string) (err error)

	// Unmount detaches lazily so that a busy filesystem never blocks the caller
	Unmount(partitionOrMountPoint string) (didUnmount bool, err error)

	IsMountPoint(path string) (partitionPath string, result bool, err error)
	FindMountPoint(partitionPath string) (mountPoint string, found bool, err error)
}
