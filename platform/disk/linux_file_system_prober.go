package disk

import (
	"regexp"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
)

var blkidTypeRegexp = regexp.MustCompile(` TYPE="([^"]+)"`)

type linuxFileSystemProber struct {
	runner boshsys.CmdRunner
}

func NewLinuxFileSystemProber(runner boshsys.CmdRunner) FileSystemProber {
	return linuxFileSystemProber{runner: runner}
}

func (p linuxFileSystemProber) GetPartitionFormatType(partitionPath string) (FileSystemType, error) {
	stdout, stderr, exitStatus, err := p.runner.RunCommand("blkid", "-p", partitionPath)
	if err != nil {
		if exitStatus == 2 && stderr == "" {
			// in that case we expect the device not to have any file system
			return FileSystemUnknown, nil
		}
		return FileSystemUnknown, bosherr.WrapErrorf(err, "Probing filesystem of `%s'", partitionPath)
	}

	match := blkidTypeRegexp.FindStringSubmatch(stdout)
	if nil == match {
		return FileSystemUnknown, nil
	}

	return FileSystemType(match[1]), nil
}
