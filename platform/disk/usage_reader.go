package disk

import (
	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	sigar "github.com/cloudfoundry/gosigar"
)

type Usage struct {
	TotalInKb uint64
	UsedInKb  uint64
}

type UsageReader interface {
	GetUsage(mountPoint string) (Usage, error)
}

// FileSystemUsageGetter is the part of sigar.Sigar used to measure filesystems
type FileSystemUsageGetter interface {
	GetFileSystemUsage(path string) (sigar.FileSystemUsage, error)
}

type sigarUsageReader struct {
	sigar FileSystemUsageGetter
}

func NewSigarUsageReader(sigar FileSystemUsageGetter) UsageReader {
	return sigarUsageReader{sigar: sigar}
}

func (r sigarUsageReader) GetUsage(mountPoint string) (Usage, error) {
	fsUsage, err := r.sigar.GetFileSystemUsage(mountPoint)
	if err != nil {
		return Usage{}, bosherr.WrapErrorf(err, "Getting filesystem usage of `%s'", mountPoint)
	}

	return Usage{
		TotalInKb: fsUsage.Total,
		UsedInKb:  fsUsage.Used,
	}, nil
}
