package fakes

import (
	boshdisk "github.com/cloudfoundry/bosh-alongside/platform/disk"
)

type FakeFileSystemProber struct {
	GetFileSystemType map[string]boshdisk.FileSystemType
	GetFileSystemErrs map[string]error
}

func NewFakeFileSystemProber() *FakeFileSystemProber {
	return &FakeFileSystemProber{
		GetFileSystemType: make(map[string]boshdisk.FileSystemType),
		GetFileSystemErrs: make(map[string]error),
	}
}

func (p *FakeFileSystemProber) GetPartitionFormatType(partitionPath string) (boshdisk.FileSystemType, error) {
	if err := p.GetFileSystemErrs[partitionPath]; err != nil {
		return "", err
	}
	return p.GetFileSystemType[partitionPath], nil
}
