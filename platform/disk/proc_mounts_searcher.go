package disk

import (
	"strings"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
)

// /proc/mounts escapes whitespace in paths as octal sequences
var procMountsUnescaper = strings.NewReplacer(`\040`, " ", `\011`, "\t", `\012`, "\n", `\134`, `\`)

type procMountsSearcher struct {
	fs boshsys.FileSystem
}

func NewProcMountsSearcher(fs boshsys.FileSystem) MountsSearcher {
	return procMountsSearcher{fs}
}

func (s procMountsSearcher) SearchMounts() ([]Mount, error) {
	mountInfo, err := s.fs.ReadFileString("/proc/mounts")
	if err != nil {
		return []Mount{}, bosherr.WrapError(err, "Reading /proc/mounts")
	}

	mountEntries := strings.Split(mountInfo, "\n")
	mounts := make([]Mount, 0, len(mountEntries))
	for _, mountEntry := range mountEntries {
		mountFields := strings.Fields(mountEntry)
		if len(mountFields) < 3 {
			continue
		}

		mounts = append(mounts, Mount{
			PartitionPath: procMountsUnescaper.Replace(mountFields[0]),
			MountPoint:    procMountsUnescaper.Replace(mountFields[1]),
			FileSystem:    FileSystemType(mountFields[2]),
		})
	}

	return mounts, nil
}
