package alongside

import (
	"fmt"
	"sort"
	"strings"

	boshlog "github.com/cloudfoundry/bosh-utils/logger"

	"github.com/cloudfoundry/bosh-alongside/metrics"
	boshdisk "github.com/cloudfoundry/bosh-alongside/platform/disk"
	"github.com/cloudfoundry/bosh-alongside/platform/osdetect"
)

const UnknownOSLabel = "unknown"

// Devices that never hold an installable partition: optical drives and
// device-mapper volumes (raid, lvm, encrypted).
var excludedDevicePrefixes = []string{"/dev/sr", "/dev/mapper", "/dev/dm-"}

type CatalogEntry struct {
	PartitionPath string
	DevicePath    string
	OSLabel       string
	FileSystem    boshdisk.FileSystemType
	SizeInBytes   uint64
}

func (e CatalogEntry) String() string {
	return fmt.Sprintf("[Partition: %s, OS: %s, FileSystem: %s]", e.PartitionPath, e.OSLabel, e.FileSystem)
}

type Catalog struct {
	deviceLister boshdisk.DeviceLister
	partitioner  boshdisk.Partitioner
	prober       boshdisk.FileSystemProber
	detector     osdetect.Detector
	metrics      metrics.Recorder
	logger       boshlog.Logger
	logTag       string
}

func NewCatalog(
	deviceLister boshdisk.DeviceLister,
	partitioner boshdisk.Partitioner,
	prober boshdisk.FileSystemProber,
	detector osdetect.Detector,
	recorder metrics.Recorder,
	logger boshlog.Logger,
) Catalog {
	return Catalog{
		deviceLister: deviceLister,
		partitioner:  partitioner,
		prober:       prober,
		detector:     detector,
		metrics:      recorder,
		logger:       logger,
		logTag:       "Catalog",
	}
}

// Scan lists the partitions a new system can be installed alongside. The
// returned mapping holds every partition of every readable device, including
// extended and swap partitions, keyed by partition path.
func (c Catalog) Scan() ([]CatalogEntry, map[string]boshdisk.ExistingPartition, error) {
	devices, err := c.deviceLister.ListDevices()
	if err != nil {
		c.metrics.RecordScan(0, err)
		return nil, nil, EnumerationError{Cause: err}
	}

	oses := c.detectOSes()

	entries := []CatalogEntry{}
	partitions := map[string]boshdisk.ExistingPartition{}

	for _, device := range devices {
		if c.isExcluded(device) {
			c.logger.Debug(c.logTag, "Skipping device %s", device)
			continue
		}

		devicePartitions, err := c.DevicePartitions(device.Path)
		if err != nil {
			c.logger.Warn(c.logTag, "Unable to create list of partitions of `%s': %s", device.Path, err)
			continue
		}

		for _, partition := range devicePartitions {
			partitions[partition.Path] = partition

			if partition.Role == boshdisk.PartitionRoleExtended || partition.FileSystem.IsSwap() {
				continue
			}

			osLabel, found := oses[partition.Path]
			if !found {
				osLabel = UnknownOSLabel
			}

			entries = append(entries, CatalogEntry{
				PartitionPath: partition.Path,
				DevicePath:    device.Path,
				OSLabel:       osLabel,
				FileSystem:    partition.FileSystem,
				SizeInBytes:   partition.SizeInBytes,
			})
		}
	}

	c.logger.Info(c.logTag, "Found %d installable partitions out of %d", len(entries), len(partitions))
	c.metrics.RecordScan(len(entries), nil)

	return entries, partitions, nil
}

// DevicePartitions returns the partitions of one device in table order
// with their filesystem kind filled in.
func (c Catalog) DevicePartitions(devicePath string) ([]boshdisk.ExistingPartition, error) {
	partitions, _, err := c.partitioner.GetPartitions(devicePath)
	if err != nil {
		return nil, err
	}

	sorted := make([]boshdisk.ExistingPartition, len(partitions))
	copy(sorted, partitions)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	for i, partition := range sorted {
		if partition.Role == boshdisk.PartitionRoleExtended {
			continue
		}

		fsType, err := c.prober.GetPartitionFormatType(partition.Path)
		if err != nil {
			c.logger.Warn(c.logTag, "Unable to detect filesystem of `%s': %s", partition.Path, err)
			fsType = boshdisk.FileSystemUnknown
		}

		sorted[i].FileSystem = fsType
	}

	return sorted, nil
}

func (c Catalog) detectOSes() map[string]string {
	oses, err := c.detector.GetOSDict()
	if err != nil {
		c.logger.Warn(c.logTag, "Unable to detect installed operating systems: %s", err)
		return map[string]string{}
	}

	if oses == nil {
		return map[string]string{}
	}

	return oses
}

func (c Catalog) isExcluded(device boshdisk.Device) bool {
	if device.Optical {
		return true
	}

	for _, prefix := range excludedDevicePrefixes {
		if strings.HasPrefix(device.Path, prefix) {
			return true
		}
	}

	return false
}
