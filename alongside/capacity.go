package alongside

import (
	"sync"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshsys "github.com/cloudfoundry/bosh-utils/system"

	"github.com/cloudfoundry/bosh-alongside/metrics"
	boshdisk "github.com/cloudfoundry/bosh-alongside/platform/disk"
)

const DefaultScratchMountPoint = "/mnt"

type CapacityAnalyzer struct {
	mounter           boshdisk.Mounter
	usageReader       boshdisk.UsageReader
	fs                boshsys.FileSystem
	scratchMountPoint string
	metrics           metrics.Recorder
	logger            boshlog.Logger
	logTag            string

	// guards scratchMountPoint
	mutex *sync.Mutex
}

func NewCapacityAnalyzer(
	mounter boshdisk.Mounter,
	usageReader boshdisk.UsageReader,
	fs boshsys.FileSystem,
	scratchMountPoint string,
	recorder metrics.Recorder,
	logger boshlog.Logger,
) CapacityAnalyzer {
	if scratchMountPoint == "" {
		scratchMountPoint = DefaultScratchMountPoint
	}

	return CapacityAnalyzer{
		mounter:           mounter,
		usageReader:       usageReader,
		fs:                fs,
		scratchMountPoint: scratchMountPoint,
		metrics:           recorder,
		logger:            logger,
		logTag:            "CapacityAnalyzer",
		mutex:             &sync.Mutex{},
	}
}

// Analyze measures the filesystem on partitionPath and decides whether it
// can give up space: used + ReservedMarginMB must be below its total size.
func (a CapacityAnalyzer) Analyze(partitionPath string) (CapacityBounds, error) {
	return a.AnalyzeFileSystem(partitionPath, boshdisk.FileSystemUnknown)
}

// AnalyzeFileSystem is Analyze for a partition whose filesystem is known.
// Journaled ext filesystems are mounted without replaying their journal.
func (a CapacityAnalyzer) AnalyzeFileSystem(partitionPath string, fsType boshdisk.FileSystemType) (CapacityBounds, error) {
	usage, err := a.readUsage(partitionPath, fsType)
	if err != nil {
		a.metrics.RecordAnalysis("usage_error")
		return CapacityBounds{}, UsageQueryError{PartitionPath: partitionPath, Cause: err}
	}

	// Used space is rounded up so the filesystem never gets shrunk below its content
	bounds := CapacityBounds{
		PartitionPath: partitionPath,
		MinSizeMB:     boshdisk.ConvertFromKbToMb(usage.UsedInKb + 1023),
		MaxSizeMB:     boshdisk.ConvertFromKbToMb(usage.TotalInKb),
	}

	a.logger.Info(a.logTag, "Partition `%s' uses %dMB of %dMB", partitionPath, bounds.MinSizeMB, bounds.MaxSizeMB)

	if bounds.MinSizeMB+ReservedMarginMB >= bounds.MaxSizeMB {
		a.metrics.RecordAnalysis("insufficient_space")
		return bounds, InsufficientSpaceError{
			PartitionPath: partitionPath,
			MinSizeMB:     bounds.MinSizeMB,
			MaxSizeMB:     bounds.MaxSizeMB,
		}
	}

	a.metrics.RecordAnalysis("ok")

	return bounds, nil
}

func (a CapacityAnalyzer) readUsage(partitionPath string, fsType boshdisk.FileSystemType) (boshdisk.Usage, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	mountPoint, alreadyMounted, err := a.mounter.FindMountPoint(partitionPath)
	if err != nil {
		return boshdisk.Usage{}, bosherr.WrapError(err, "Checking whether partition is mounted")
	}

	if alreadyMounted {
		a.logger.Debug(a.logTag, "Partition `%s' is already mounted at `%s'", partitionPath, mountPoint)
		return a.usageReader.GetUsage(mountPoint)
	}

	busyPartitionPath, busy, err := a.mounter.IsMountPoint(a.scratchMountPoint)
	if err != nil {
		return boshdisk.Usage{}, bosherr.WrapError(err, "Checking scratch mount point")
	}

	if busy {
		return boshdisk.Usage{}, bosherr.Errorf("Scratch mount point `%s' is in use by `%s'", a.scratchMountPoint, busyPartitionPath)
	}

	err = a.fs.MkdirAll(a.scratchMountPoint, 0755)
	if err != nil {
		return boshdisk.Usage{}, bosherr.WrapErrorf(err, "Creating scratch mount point `%s'", a.scratchMountPoint)
	}

	err = a.mounter.Mount(partitionPath, a.scratchMountPoint, scratchMountOptions(fsType)...)
	if err != nil {
		return boshdisk.Usage{}, err
	}

	defer func() {
		_, err := a.mounter.Unmount(a.scratchMountPoint)
		if err != nil {
			a.logger.Error(a.logTag, "Failed to release scratch mount point `%s': %s", a.scratchMountPoint, err)
		}
	}()

	return a.usageReader.GetUsage(a.scratchMountPoint)
}

// A read-only ext3/ext4 mount still replays a dirty journal unless noload is given
func scratchMountOptions(fsType boshdisk.FileSystemType) []string {
	switch fsType {
	case boshdisk.FileSystemExt3, boshdisk.FileSystemExt4:
		return []string{"-o", "ro,noload"}
	default:
		return []string{"-o", "ro"}
	}
}
