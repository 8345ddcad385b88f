package alongside

import (
	"time"

	"code.cloudfoundry.org/clock"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"

	"github.com/cloudfoundry/bosh-alongside/handoff"
	"github.com/cloudfoundry/bosh-alongside/metrics"
	boshdisk "github.com/cloudfoundry/bosh-alongside/platform/disk"
)

type ExecutionStage string

const (
	StageFsResize       ExecutionStage = "FS_RESIZE"
	StagePartitionSplit ExecutionStage = "PARTITION_SPLIT"
)

type ExecutionState string

const (
	StateDone         ExecutionState = "DONE"
	StateAbortedClean ExecutionState = "ABORTED_CLEAN"
	StateUnsafe       ExecutionState = "UNSAFE_STATE"
	StateInvalidPlan  ExecutionState = "INVALID_PLAN"
)

const (
	// UnsafeStateMarker prefixes the log line of a split that failed after a resize
	UnsafeStateMarker = "*** FILESYSTEM IN UNSAFE STATE ***"

	DefaultTargetFileSystem = boshdisk.FileSystemExt4
)

type Executor struct {
	resizer          boshdisk.Resizer
	partitioner      boshdisk.Partitioner
	clock            clock.Clock
	metrics          metrics.Recorder
	targetFileSystem boshdisk.FileSystemType
	logger           boshlog.Logger
	logTag           string
}

func NewExecutor(
	resizer boshdisk.Resizer,
	partitioner boshdisk.Partitioner,
	clock clock.Clock,
	recorder metrics.Recorder,
	targetFileSystem boshdisk.FileSystemType,
	logger boshlog.Logger,
) Executor {
	if targetFileSystem == boshdisk.FileSystemUnknown {
		targetFileSystem = DefaultTargetFileSystem
	}

	return Executor{
		resizer:          resizer,
		partitioner:      partitioner,
		clock:            clock,
		metrics:          recorder,
		targetFileSystem: targetFileSystem,
		logger:           logger,
		logTag:           "Executor",
	}
}

// Execute shrinks the filesystem and then the partition entry of plan.
// Neither stage is retried or interrupted once started. A failed resize
// leaves the disk untouched (ABORTED_CLEAN); a failed split after a
// successful resize leaves a partition larger than its filesystem
// (UNSAFE_STATE).
func (e Executor) Execute(plan ShrinkPlan) (handoff.FreedSpace, error) {
	err := plan.Validate()
	if err != nil {
		e.metrics.RecordShrinkOutcome(string(StateInvalidPlan))
		return handoff.FreedSpace{}, err
	}

	chosenSizeInBytes := plan.ChosenSizeInBytes()

	e.logger.Info(e.logTag, "Starting shrink plan %s", plan)

	err = e.runStage(StageFsResize, func() error {
		return e.resizer.Resize(plan.PartitionPath, plan.FileSystem, chosenSizeInBytes)
	})
	if err != nil {
		e.logger.Error(e.logTag, "Resizing filesystem of `%s' failed, nothing was changed: %s", plan.PartitionPath, err)
		e.metrics.RecordShrinkOutcome(string(StateAbortedClean))

		return handoff.FreedSpace{}, ExecutionError{
			PlanID:        plan.ID,
			PartitionPath: plan.PartitionPath,
			Stage:         StageFsResize,
			State:         StateAbortedClean,
			Cause:         err,
		}
	}

	err = e.runStage(StagePartitionSplit, func() error {
		return e.partitioner.ShrinkPartition(plan.DevicePath, plan.Partition, chosenSizeInBytes)
	})
	if err != nil {
		e.logger.Error(e.logTag, "%s Filesystem on `%s' is %dMB but its partition still spans %dB: %s",
			UnsafeStateMarker, plan.PartitionPath, plan.ChosenSizeMB, plan.Partition.SizeInBytes, err)
		e.metrics.RecordShrinkOutcome(string(StateUnsafe))

		return handoff.FreedSpace{}, ExecutionError{
			PlanID:        plan.ID,
			PartitionPath: plan.PartitionPath,
			Stage:         StagePartitionSplit,
			State:         StateUnsafe,
			Cause:         err,
		}
	}

	space := handoff.FreedSpace{
		PlanID:              plan.ID,
		DevicePath:          plan.DevicePath,
		ShrunkPartitionPath: plan.PartitionPath,
		ExtendedPath:        plan.ExtendedPath,
		FreedStartOffset:    plan.Partition.StartInBytes + chosenSizeInBytes,
		FreedSizeMB:         boshdisk.ConvertFromBytesToMb(plan.Partition.SizeInBytes - chosenSizeInBytes),
		FileSystem:          string(e.targetFileSystem),
	}

	e.logger.Info(e.logTag, "Shrink plan %s done, freed %s", plan.ID, space)
	e.metrics.RecordShrinkOutcome(string(StateDone))

	return space, nil
}

func (e Executor) runStage(stage ExecutionStage, run func() error) error {
	e.logger.Info(e.logTag, "Entering stage %s", stage)

	startedAt := e.clock.Now()
	err := run()
	duration := e.clock.Since(startedAt)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	e.metrics.ObserveStage(string(stage), outcome, duration)
	e.logger.Debug(e.logTag, "Stage %s finished in %s", stage, duration.Round(time.Millisecond))

	return err
}
