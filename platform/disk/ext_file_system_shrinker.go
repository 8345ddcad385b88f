package disk

import (
	"fmt"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
)

// e2fsck exits with 1 when it corrected errors
const e2fsckErrorsCorrectedExitStatus = 1

type extFileSystemShrinker struct {
	runner boshsys.CmdRunner
}

func NewExtFileSystemShrinker(runner boshsys.CmdRunner) FileSystemShrinker {
	return extFileSystemShrinker{runner: runner}
}

func (s extFileSystemShrinker) Shrink(partitionPath string, newSizeInBytes uint64) error {
	// resize2fs refuses to shrink a filesystem that was not checked since last mount
	_, stderr, exitStatus, err := s.runner.RunCommand("e2fsck", "-f", "-y", partitionPath)
	if err != nil && exitStatus != e2fsckErrorsCorrectedExitStatus {
		return bosherr.WrapErrorf(err, "Checking filesystem on `%s': %s", partitionPath, stderr)
	}

	size := fmt.Sprintf("%dM", ConvertFromBytesToMb(newSizeInBytes))
	_, stderr, _, err = s.runner.RunCommand("resize2fs", partitionPath, size)
	if err != nil {
		return bosherr.WrapErrorf(err, "Shrinking ext filesystem on `%s' to %s: %s", partitionPath, size, stderr)
	}

	return nil
}
