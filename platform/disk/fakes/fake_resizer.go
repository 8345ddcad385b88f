package fakes

import (
	boshdisk "github.com/cloudfoundry/bosh-alongside/platform/disk"
)

type FakeResizer struct {
	ResizeCalled         bool
	ResizePartitionPath  string
	ResizeFsType         boshdisk.FileSystemType
	ResizeNewSizeInBytes uint64
	ResizeErr            error
}

func (r *FakeResizer) Resize(partitionPath string, fsType boshdisk.FileSystemType, newSizeInBytes uint64) error {
	r.ResizeCalled = true
	r.ResizePartitionPath = partitionPath
	r.ResizeFsType = fsType
	r.ResizeNewSizeInBytes = newSizeInBytes
	return r.ResizeErr
}
