package alongside

import (
	"fmt"
	"sort"

	boshlog "github.com/cloudfoundry/bosh-utils/logger"

	boshdisk "github.com/cloudfoundry/bosh-alongside/platform/disk"
)

// MaxPrimaryPartitions is the number of entries in an MBR partition table
const MaxPrimaryPartitions = 4

// TopologySnapshot describes one device. PrimaryPaths is ordered by partition
// number, so /dev/sda2 comes before /dev/sda10.
type TopologySnapshot struct {
	DevicePath   string
	PrimaryPaths []string
	ExtendedPath string
}

func (s TopologySnapshot) String() string {
	return fmt.Sprintf("[Device: %s, Primary: %v, Extended: %s]", s.DevicePath, s.PrimaryPaths, s.ExtendedPath)
}

type TopologyValidator struct {
	logger boshlog.Logger
	logTag string
}

func NewTopologyValidator(logger boshlog.Logger) TopologyValidator {
	return TopologyValidator{
		logger: logger,
		logTag: "TopologyValidator",
	}
}

// Validate checks that the device holding partitionPath can take another
// partition once partitionPath is shrunk.
func (v TopologyValidator) Validate(partitionPath string, partitions map[string]boshdisk.ExistingPartition) (TopologySnapshot, error) {
	devicePath, _, err := boshdisk.ParsePartitionPath(partitionPath)
	if err != nil {
		return TopologySnapshot{}, InvalidTopologyError{DevicePath: partitionPath, Reason: err.Error()}
	}

	snapshot := TopologySnapshot{DevicePath: devicePath}
	primaryNumbers := map[string]int{}

	for path, partition := range partitions {
		partitionDevicePath, number, err := boshdisk.ParsePartitionPath(path)
		if err != nil {
			v.logger.Debug(v.logTag, "Ignoring partition `%s': %s", path, err)
			continue
		}

		if partitionDevicePath != devicePath {
			continue
		}

		switch partition.Role {
		case boshdisk.PartitionRolePrimary:
			snapshot.PrimaryPaths = append(snapshot.PrimaryPaths, path)
			primaryNumbers[path] = number

		case boshdisk.PartitionRoleExtended:
			if snapshot.ExtendedPath != "" {
				return TopologySnapshot{}, InvalidTopologyError{
					DevicePath: devicePath,
					Reason:     fmt.Sprintf("more than one extended partition (%s, %s)", snapshot.ExtendedPath, path),
				}
			}
			snapshot.ExtendedPath = path
		}
	}

	sort.Slice(snapshot.PrimaryPaths, func(i, j int) bool {
		return primaryNumbers[snapshot.PrimaryPaths[i]] < primaryNumbers[snapshot.PrimaryPaths[j]]
	})

	v.logger.Debug(v.logTag, "Topology of `%s': %s", devicePath, snapshot)

	if len(snapshot.PrimaryPaths) >= MaxPrimaryPartitions {
		return snapshot, TooManyPrimaryPartitionsError{
			DevicePath:   devicePath,
			PrimaryPaths: snapshot.PrimaryPaths,
		}
	}

	return snapshot, nil
}
