package disk

import "fmt"

type PartitionRole string

const (
	PartitionRolePrimary  PartitionRole = "primary"
	PartitionRoleExtended PartitionRole = "extended"
	PartitionRoleLogical  PartitionRole = "logical"
)

type ExistingPartition struct {
	Index             int
	Path              string
	Role              PartitionRole
	TypeID            string
	StartInBytes      uint64
	SizeInBytes       uint64
	EndInBytes        uint64
	SectorSizeInBytes uint64
	FileSystem        FileSystemType
}

type Partitioner interface {
	GetPartitions(devicePath string) (partitions []ExistingPartition, deviceFullSizeInBytes uint64, err error)

	// ShrinkPartition rewrites the table entry of partition so that it keeps
	// its start, number and type but ends newSizeInBytes after its start.
	ShrinkPartition(devicePath string, partition ExistingPartition, newSizeInBytes uint64) (err error)
}

func (p ExistingPartition) String() string {
	return fmt.Sprintf("[Path: %s, Role: %s, Type: %s, StartInBytes: %d, SizeInBytes: %d]", p.Path, p.Role, p.TypeID, p.StartInBytes, p.SizeInBytes)
}
