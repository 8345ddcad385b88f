package alongside

import (
	"fmt"

	"github.com/google/uuid"

	boshdisk "github.com/cloudfoundry/bosh-alongside/platform/disk"
)

// ReservedMarginMB must stay free on the shrunk partition
const ReservedMarginMB = uint64(5000)

type CapacityBounds struct {
	PartitionPath string

	// MinSizeMB is the space in use, MaxSizeMB the size of the filesystem
	MinSizeMB uint64
	MaxSizeMB uint64
}

// UpperLimitMB is the largest size the partition may be shrunk to
func (b CapacityBounds) UpperLimitMB() uint64 {
	if b.MaxSizeMB < ReservedMarginMB {
		return 0
	}
	return b.MaxSizeMB - ReservedMarginMB
}

func (b CapacityBounds) String() string {
	return fmt.Sprintf("[Partition: %s, MinSizeMB: %d, MaxSizeMB: %d]", b.PartitionPath, b.MinSizeMB, b.MaxSizeMB)
}

type SizeChooser interface {
	ChooseSize(bounds CapacityBounds) (sizeMB uint64, err error)
}

type SizeChooserFunc func(bounds CapacityBounds) (uint64, error)

func (f SizeChooserFunc) ChooseSize(bounds CapacityBounds) (uint64, error) {
	return f(bounds)
}

// FixedSizeChooser always answers with the same size
type FixedSizeChooser uint64

func (c FixedSizeChooser) ChooseSize(CapacityBounds) (uint64, error) {
	return uint64(c), nil
}

type ShrinkPlan struct {
	ID            string
	PartitionPath string
	DevicePath    string
	FileSystem    boshdisk.FileSystemType

	MinSizeMB    uint64
	MaxSizeMB    uint64
	ChosenSizeMB uint64

	Partition    boshdisk.ExistingPartition
	ExtendedPath string
}

func NewShrinkPlan(bounds CapacityBounds, chosenSizeMB uint64, partition boshdisk.ExistingPartition, topology TopologySnapshot) ShrinkPlan {
	return ShrinkPlan{
		ID:            uuid.NewString(),
		PartitionPath: partition.Path,
		DevicePath:    topology.DevicePath,
		FileSystem:    partition.FileSystem,
		MinSizeMB:     bounds.MinSizeMB,
		MaxSizeMB:     bounds.MaxSizeMB,
		ChosenSizeMB:  chosenSizeMB,
		Partition:     partition,
		ExtendedPath:  topology.ExtendedPath,
	}
}

func (p ShrinkPlan) Bounds() CapacityBounds {
	return CapacityBounds{
		PartitionPath: p.PartitionPath,
		MinSizeMB:     p.MinSizeMB,
		MaxSizeMB:     p.MaxSizeMB,
	}
}

func (p ShrinkPlan) ChosenSizeInBytes() uint64 {
	return boshdisk.ConvertFromMbToBytes(p.ChosenSizeMB)
}

// Validate checks MinSizeMB <= ChosenSizeMB <= MaxSizeMB - ReservedMarginMB
// and that the chosen size fits the partition geometry.
func (p ShrinkPlan) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return InvalidPlanError{PlanID: p.ID, Reason: fmt.Sprintf(format, args...)}
	}

	if p.PartitionPath == "" || p.DevicePath == "" {
		return invalid("partition and device are required")
	}

	if p.Partition.Path != p.PartitionPath {
		return invalid("geometry belongs to `%s', not `%s'", p.Partition.Path, p.PartitionPath)
	}

	if p.Partition.Role == boshdisk.PartitionRoleExtended {
		return invalid("`%s' is an extended partition", p.PartitionPath)
	}

	if p.ChosenSizeMB == 0 {
		return invalid("chosen size must be positive")
	}

	if p.ChosenSizeMB < p.MinSizeMB {
		return invalid("chosen size %dMB is below the %dMB in use", p.ChosenSizeMB, p.MinSizeMB)
	}

	upperLimitMB := p.Bounds().UpperLimitMB()
	if p.MaxSizeMB < ReservedMarginMB || p.ChosenSizeMB > upperLimitMB {
		return invalid("chosen size %dMB leaves less than %dMB of %dMB free", p.ChosenSizeMB, ReservedMarginMB, p.MaxSizeMB)
	}

	if p.ChosenSizeInBytes() >= p.Partition.SizeInBytes {
		return invalid("chosen size %dB does not shrink the %dB partition", p.ChosenSizeInBytes(), p.Partition.SizeInBytes)
	}

	return nil
}

func (p ShrinkPlan) String() string {
	return fmt.Sprintf("[ID: %s, Partition: %s, Device: %s, FileSystem: %s, MinSizeMB: %d, MaxSizeMB: %d, ChosenSizeMB: %d]",
		p.ID, p.PartitionPath, p.DevicePath, p.FileSystem, p.MinSizeMB, p.MaxSizeMB, p.ChosenSizeMB)
}
