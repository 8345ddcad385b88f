package disk

type Manager interface {
	GetDeviceLister() DeviceLister
	GetPartitioner() Partitioner
	GetFileSystemProber() FileSystemProber
	GetMounter() Mounter
	GetMountsSearcher() MountsSearcher
	GetResizer() Resizer
	GetUsageReader() UsageReader
}
