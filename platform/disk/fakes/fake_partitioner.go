package fakes

import (
	boshdisk "github.com/cloudfoundry/bosh-alongside/platform/disk"
)

type FakePartitioner struct {
	GetPartitionsDevicePaths []string
	GetPartitionsPartitions  map[string][]boshdisk.ExistingPartition
	GetPartitionsSizes       map[string]uint64
	GetPartitionsErrs        map[string]error

	ShrinkPartitionCalled         bool
	ShrinkPartitionDevicePath     string
	ShrinkPartitionPartition      boshdisk.ExistingPartition
	ShrinkPartitionNewSizeInBytes uint64
	ShrinkPartitionErr            error
}

func NewFakePartitioner() *FakePartitioner {
	return &FakePartitioner{
		GetPartitionsPartitions: make(map[string][]boshdisk.ExistingPartition),
		GetPartitionsSizes:      make(map[string]uint64),
		GetPartitionsErrs:       make(map[string]error),
	}
}

func (p *FakePartitioner) GetPartitions(devicePath string) (partitions []boshdisk.ExistingPartition, deviceFullSizeInBytes uint64, err error) {
	p.GetPartitionsDevicePaths = append(p.GetPartitionsDevicePaths, devicePath)
	if err := p.GetPartitionsErrs[devicePath]; err != nil {
		return nil, 0, err
	}
	return p.GetPartitionsPartitions[devicePath], p.GetPartitionsSizes[devicePath], nil
}

func (p *FakePartitioner) ShrinkPartition(devicePath string, partition boshdisk.ExistingPartition, newSizeInBytes uint64) error {
	p.ShrinkPartitionCalled = true
	p.ShrinkPartitionDevicePath = devicePath
	p.ShrinkPartitionPartition = partition
	p.ShrinkPartitionNewSizeInBytes = newSizeInBytes
	return p.ShrinkPartitionErr
}
