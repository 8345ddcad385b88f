package fakes

import (
	boshdisk "github.com/cloudfoundry/bosh-alongside/platform/disk"
)

type FakeDiskManager struct {
	FakeDeviceLister     *FakeDeviceLister
	FakePartitioner      *FakePartitioner
	FakeFileSystemProber *FakeFileSystemProber
	FakeMounter          *FakeMounter
	FakeMountsSearcher   *FakeMountsSearcher
	FakeResizer          *FakeResizer
	FakeUsageReader      *FakeUsageReader
}

func NewFakeDiskManager() *FakeDiskManager {
	return &FakeDiskManager{
		FakeDeviceLister:     &FakeDeviceLister{},
		FakePartitioner:      NewFakePartitioner(),
		FakeFileSystemProber: NewFakeFileSystemProber(),
		FakeMounter:          NewFakeMounter(),
		FakeMountsSearcher:   &FakeMountsSearcher{},
		FakeResizer:          &FakeResizer{},
		FakeUsageReader:      &FakeUsageReader{},
	}
}

func (m *FakeDiskManager) GetDeviceLister() boshdisk.DeviceLister { return m.FakeDeviceLister }
func (m *FakeDiskManager) GetPartitioner() boshdisk.Partitioner   { return m.FakePartitioner }
func (m *FakeDiskManager) GetFileSystemProber() boshdisk.FileSystemProber {
	return m.FakeFileSystemProber
}
func (m *FakeDiskManager) GetMounter() boshdisk.Mounter               { return m.FakeMounter }
func (m *FakeDiskManager) GetMountsSearcher() boshdisk.MountsSearcher { return m.FakeMountsSearcher }
func (m *FakeDiskManager) GetResizer() boshdisk.Resizer               { return m.FakeResizer }
func (m *FakeDiskManager) GetUsageReader() boshdisk.UsageReader       { return m.FakeUsageReader }
