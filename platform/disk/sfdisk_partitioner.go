package disk

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshretry "github.com/cloudfoundry/bosh-utils/retrystrategy"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
)

const (
	defaultSectorSize = uint64(512)

	rereadAttempts = 5
	rereadDelay    = 1 * time.Second
)

// MBR type ids of extended (container) partitions
var extendedPartitionTypeIDs = map[string]bool{
	"5":  true,
	"f":  true,
	"85": true,
}

type sfdiskDump struct {
	PartitionTable struct {
		Label      string            `json:"label"`
		Device     string            `json:"device"`
		Unit       string            `json:"unit"`
		SectorSize uint64            `json:"sectorsize"`
		Partitions []sfdiskPartition `json:"partitions"`
	} `json:"partitiontable"`
}

type sfdiskPartition struct {
	Node     string `json:"node"`
	Start    uint64 `json:"start"`
	Size     uint64 `json:"size"`
	Type     string `json:"type"`
	Bootable bool   `json:"bootable"`
}

type sfdiskPartitioner struct {
	logger    boshlog.Logger
	cmdRunner boshsys.CmdRunner
	logTag    string
}

func NewSfdiskPartitioner(logger boshlog.Logger, cmdRunner boshsys.CmdRunner) Partitioner {
	return sfdiskPartitioner{
		logger:    logger,
		cmdRunner: cmdRunner,
		logTag:    "SfdiskPartitioner",
	}
}

func (p sfdiskPartitioner) GetPartitions(devicePath string) ([]ExistingPartition, uint64, error) {
	deviceFullSizeInBytes, err := p.getDeviceSizeInBytes(devicePath)
	if err != nil {
		return nil, 0, err
	}

	stdout, stderr, _, err := p.cmdRunner.RunCommand("sfdisk", "--json", devicePath)
	if err != nil {
		// A device without any partition table has no partitions to offer
		if strings.Contains(stderr, "does not contain a recognized partition table") {
			return []ExistingPartition{}, deviceFullSizeInBytes, nil
		}
		return nil, 0, bosherr.WrapErrorf(err, "Dumping partition table of `%s'", devicePath)
	}

	var dump sfdiskDump
	err = json.Unmarshal([]byte(stdout), &dump)
	if err != nil {
		return nil, 0, bosherr.WrapErrorf(err, "Parsing partition table of `%s'", devicePath)
	}

	table := dump.PartitionTable
	if table.Unit != "" && table.Unit != "sectors" {
		return nil, 0, bosherr.Errorf("Unexpected sfdisk unit `%s' for `%s'", table.Unit, devicePath)
	}

	sectorSize := table.SectorSize
	if sectorSize == 0 {
		sectorSize = defaultSectorSize
	}

	partitions := make([]ExistingPartition, 0, len(table.Partitions))
	for _, entry := range table.Partitions {
		_, index, err := ParsePartitionPath(entry.Node)
		if err != nil {
			return nil, 0, bosherr.WrapErrorf(err, "Parsing partition node of `%s'", devicePath)
		}

		startInBytes := entry.Start * sectorSize
		sizeInBytes := entry.Size * sectorSize
		typeID := strings.ToLower(strings.TrimPrefix(entry.Type, "0x"))

		partitions = append(partitions, ExistingPartition{
			Index:             index,
			Path:              entry.Node,
			Role:              partitionRole(table.Label, index, typeID),
			TypeID:            typeID,
			StartInBytes:      startInBytes,
			SizeInBytes:       sizeInBytes,
			EndInBytes:        startInBytes + sizeInBytes - 1,
			SectorSizeInBytes: sectorSize,
		})
	}

	return partitions, deviceFullSizeInBytes, nil
}

func (p sfdiskPartitioner) ShrinkPartition(devicePath string, partition ExistingPartition, newSizeInBytes uint64) error {
	if partition.Role == PartitionRoleExtended {
		return bosherr.Errorf("Refusing to shrink extended partition `%s'", partition.Path)
	}

	if newSizeInBytes == 0 || newSizeInBytes >= partition.SizeInBytes {
		return bosherr.Errorf("New size %dB of `%s' must be smaller than its current size %dB", newSizeInBytes, partition.Path, partition.SizeInBytes)
	}

	p.logger.Info(p.logTag, "Shrinking partition %d on `%s' to %dB", partition.Index, devicePath, newSizeInBytes)

	sectorSize := partition.SectorSizeInBytes
	if sectorSize == 0 {
		sectorSize = defaultSectorSize
	}
	newSizeInSectors := (newSizeInBytes + sectorSize - 1) / sectorSize

	// Empty start keeps the current start; a plain sector count is not re-aligned
	input := fmt.Sprintf(",%d\n", newSizeInSectors)
	_, stderr, _, err := p.cmdRunner.RunCommandWithInput(input, "sfdisk", "--no-reread", "-N", strconv.Itoa(partition.Index), devicePath)
	if err != nil {
		p.logger.Error(p.logTag, "Failed to rewrite partition %d on `%s': %s", partition.Index, devicePath, stderr)
		return bosherr.WrapErrorf(err, "Rewriting partition %d of `%s'", partition.Index, devicePath)
	}

	p.rereadPartitionTable(devicePath)

	return p.verifyShrunkPartition(devicePath, partition, newSizeInBytes)
}

func (p sfdiskPartitioner) getDeviceSizeInBytes(devicePath string) (uint64, error) {
	stdout, _, _, err := p.cmdRunner.RunCommand("lsblk", "--nodeps", "-nb", "-o", "SIZE", devicePath)
	if err != nil {
		return 0, bosherr.WrapErrorf(err, "Getting block device size of '%s'", devicePath)
	}

	deviceSize, err := strconv.ParseUint(strings.TrimSpace(stdout), 10, 64)
	if err != nil {
		return 0, bosherr.WrapErrorf(err, "Converting block device size of '%s'", devicePath)
	}

	return deviceSize, nil
}

// rereadPartitionTable only informs the kernel; the table on disk is already
// written, so a kernel that refuses to re-read is logged and not fatal.
func (p sfdiskPartitioner) rereadPartitionTable(devicePath string) {
	rereadRetryable := boshretry.NewRetryable(func() (bool, error) {
		_, _, _, err := p.cmdRunner.RunCommand("partprobe", devicePath)
		if err != nil {
			p.logger.Warn(p.logTag, "Failed to re-read partition table of `%s': %s", devicePath, err)
			return true, bosherr.WrapError(err, "Re-reading partition table")
		}

		_, _, _, err = p.cmdRunner.RunCommand("udevadm", "settle")
		if err != nil {
			p.logger.Warn(p.logTag, "Failed to run udevadm settle: %s", err)
		}

		return false, nil
	})

	err := boshretry.NewAttemptRetryStrategy(rereadAttempts, rereadDelay, rereadRetryable, p.logger).Try()
	if err != nil {
		p.logger.Error(p.logTag, "Kernel still uses the old partition table of `%s': %s", devicePath, err)
	}
}

func (p sfdiskPartitioner) verifyShrunkPartition(devicePath string, original ExistingPartition, newSizeInBytes uint64) error {
	partitions, _, err := p.GetPartitions(devicePath)
	if err != nil {
		return bosherr.WrapErrorf(err, "Reading back partition table of `%s'", devicePath)
	}

	for _, partition := range partitions {
		if partition.Index != original.Index {
			continue
		}

		if partition.StartInBytes != original.StartInBytes {
			return bosherr.Errorf("Partition `%s' moved from %dB to %dB", partition.Path, original.StartInBytes, partition.StartInBytes)
		}

		// The filesystem must still fit inside the rewritten entry
		if partition.SizeInBytes < newSizeInBytes || !withinDelta(partition.SizeInBytes, newSizeInBytes, ConvertFromMbToBytes(1)) {
			return bosherr.Errorf("Partition `%s' is %dB after rewrite, expected %dB", partition.Path, partition.SizeInBytes, newSizeInBytes)
		}

		p.logger.Info(p.logTag, "Partition `%s' now spans %dB", partition.Path, partition.SizeInBytes)
		return nil
	}

	return bosherr.Errorf("Partition %d disappeared from `%s'", original.Index, devicePath)
}

func partitionRole(label string, index int, typeID string) PartitionRole {
	if label != "dos" {
		return PartitionRolePrimary
	}

	if extendedPartitionTypeIDs[typeID] {
		return PartitionRoleExtended
	}

	if index > 4 {
		return PartitionRoleLogical
	}

	return PartitionRolePrimary
}

func withinDelta(existing, expected, delta uint64) bool {
	if existing > expected {
		return existing-expected <= delta
	}
	return expected-existing <= delta
}
