package alongside

import (
	"errors"
	"fmt"
	"sync"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"

	"github.com/cloudfoundry/bosh-alongside/handoff"
	"github.com/cloudfoundry/bosh-alongside/lock"
	boshdisk "github.com/cloudfoundry/bosh-alongside/platform/disk"
)

type Orchestrator struct {
	catalog   Catalog
	analyzer  CapacityAnalyzer
	validator TopologyValidator
	executor  Executor
	publisher handoff.Publisher
	locker    lock.Locker
	logger    boshlog.Logger
	logTag    string

	shrinkMutex *sync.Mutex
}

func NewOrchestrator(
	catalog Catalog,
	analyzer CapacityAnalyzer,
	validator TopologyValidator,
	executor Executor,
	publisher handoff.Publisher,
	locker lock.Locker,
	logger boshlog.Logger,
) Orchestrator {
	return Orchestrator{
		catalog:     catalog,
		analyzer:    analyzer,
		validator:   validator,
		executor:    executor,
		publisher:   publisher,
		locker:      locker,
		logger:      logger,
		logTag:      "Orchestrator",
		shrinkMutex: &sync.Mutex{},
	}
}

func (o Orchestrator) Scan() ([]CatalogEntry, error) {
	entries, _, err := o.catalog.Scan()
	return entries, err
}

// Analyze measures a partition offered by Scan
func (o Orchestrator) Analyze(partitionPath string) (CapacityBounds, error) {
	partition, _, err := o.findInstallable(partitionPath)
	if err != nil {
		return CapacityBounds{}, err
	}

	return o.analyzer.AnalyzeFileSystem(partitionPath, partition.FileSystem)
}

// Plan measures partitionPath, asks chooser for the new size and checks
// that the device can take another partition. Nothing is modified.
func (o Orchestrator) Plan(partitionPath string, chooser SizeChooser) (ShrinkPlan, error) {
	partition, partitions, err := o.findInstallable(partitionPath)
	if err != nil {
		return ShrinkPlan{}, err
	}

	bounds, err := o.analyzer.AnalyzeFileSystem(partitionPath, partition.FileSystem)
	if err != nil {
		return ShrinkPlan{}, err
	}

	chosenSizeMB, err := chooser.ChooseSize(bounds)
	if err != nil {
		return ShrinkPlan{}, bosherr.WrapErrorf(err, "Choosing new size of `%s'", partitionPath)
	}

	topology, err := o.validator.Validate(partitionPath, partitions)
	if err != nil {
		return ShrinkPlan{}, err
	}

	plan := NewShrinkPlan(bounds, chosenSizeMB, partition, topology)

	err = plan.Validate()
	if err != nil {
		return ShrinkPlan{}, err
	}

	o.logger.Info(o.logTag, "Planned %s", plan)

	return plan, nil
}

// Shrink executes plan and hands the freed space to the installer. Only one
// shrink may run at a time on the whole system. A handoff failure is
// returned together with the freed space since the disk is already changed.
func (o Orchestrator) Shrink(plan ShrinkPlan) (handoff.FreedSpace, error) {
	if !o.shrinkMutex.TryLock() {
		return handoff.FreedSpace{}, ShrinkInProgressError{}
	}
	defer o.shrinkMutex.Unlock()

	err := o.locker.TryLock()
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return handoff.FreedSpace{}, ShrinkInProgressError{}
		}
		return handoff.FreedSpace{}, bosherr.WrapError(err, "Acquiring shrink lock")
	}

	defer func() {
		err := o.locker.Unlock()
		if err != nil {
			o.logger.Warn(o.logTag, "Failed to release shrink lock: %s", err)
		}
	}()

	err = o.revalidate(plan)
	if err != nil {
		return handoff.FreedSpace{}, err
	}

	space, err := o.executor.Execute(plan)
	if err != nil {
		return handoff.FreedSpace{}, err
	}

	err = o.publisher.Publish(space)
	if err != nil {
		o.logger.Error(o.logTag, "Freed space %s is ready but could not be handed off: %s", space, err)
		return space, bosherr.WrapError(err, "Handing off freed space")
	}

	return space, nil
}

// revalidate re-reads the partition table right before the destructive
// stages and rejects plans made against an older layout.
func (o Orchestrator) revalidate(plan ShrinkPlan) error {
	current, err := o.catalog.DevicePartitions(plan.DevicePath)
	if err != nil {
		return bosherr.WrapErrorf(err, "Re-reading partitions of `%s'", plan.DevicePath)
	}

	partitions := map[string]boshdisk.ExistingPartition{}
	for _, partition := range current {
		partitions[partition.Path] = partition
	}

	partition, found := partitions[plan.PartitionPath]
	if !found {
		return PartitionNotFoundError{PartitionPath: plan.PartitionPath}
	}

	if partition.StartInBytes != plan.Partition.StartInBytes || partition.SizeInBytes != plan.Partition.SizeInBytes {
		return InvalidPlanError{PlanID: plan.ID, Reason: fmt.Sprintf("partition `%s' changed since planning", plan.PartitionPath)}
	}

	_, err = o.validator.Validate(plan.PartitionPath, partitions)
	return err
}

func (o Orchestrator) findInstallable(partitionPath string) (boshdisk.ExistingPartition, map[string]boshdisk.ExistingPartition, error) {
	entries, partitions, err := o.catalog.Scan()
	if err != nil {
		return boshdisk.ExistingPartition{}, nil, err
	}

	for _, entry := range entries {
		if entry.PartitionPath == partitionPath {
			return partitions[partitionPath], partitions, nil
		}
	}

	return boshdisk.ExistingPartition{}, nil, PartitionNotFoundError{PartitionPath: partitionPath}
}
