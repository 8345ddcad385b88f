package disk

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
)

var (
	// Devices whose names end in a digit separate the partition number with `p'
	numberedDevicePartitionRegexp = regexp.MustCompile(`^(/dev/(?:nvme\d+n\d+|mmcblk\d+|loop\d+|md\d+|nbd\d+))p(\d+)$`)
	mapperPartitionRegexp         = regexp.MustCompile(`^(/dev/mapper/.+)-part(\d+)$`)
	lettersDevicePartitionRegexp  = regexp.MustCompile(`^(/dev/[a-z]+)(\d+)$`)
)

// ParsePartitionPath splits a partition path such as /dev/sda10 or
// /dev/nvme0n1p3 into its parent device path and partition number.
func ParsePartitionPath(partitionPath string) (devicePath string, partitionNumber int, err error) {
	for _, re := range []*regexp.Regexp{numberedDevicePartitionRegexp, mapperPartitionRegexp, lettersDevicePartitionRegexp} {
		matches := re.FindStringSubmatch(partitionPath)
		if matches == nil {
			continue
		}

		partitionNumber, err = strconv.Atoi(matches[2])
		if err != nil {
			return "", 0, bosherr.WrapErrorf(err, "Parsing partition number of `%s'", partitionPath)
		}

		if partitionNumber == 0 {
			return "", 0, bosherr.Errorf("Partition path `%s' has no partition number", partitionPath)
		}

		return matches[1], partitionNumber, nil
	}

	return "", 0, bosherr.Errorf("Partition path `%s' has an unsupported name", partitionPath)
}

func PartitionPath(devicePath string, partitionNumber int) string {
	switch {
	case numberedDevicePartitionRegexp.MatchString(fmt.Sprintf("%sp%d", devicePath, partitionNumber)):
		return fmt.Sprintf("%sp%d", devicePath, partitionNumber)
	case strings.HasPrefix(devicePath, "/dev/mapper/"):
		return fmt.Sprintf("%s-part%d", devicePath, partitionNumber)
	default:
		return fmt.Sprintf("%s%d", devicePath, partitionNumber)
	}
}
