package disk

import (
	"strconv"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
)

type ntfsFileSystemShrinker struct {
	runner boshsys.CmdRunner
}

func NewNtfsFileSystemShrinker(runner boshsys.CmdRunner) FileSystemShrinker {
	return ntfsFileSystemShrinker{runner: runner}
}

func (s ntfsFileSystemShrinker) Shrink(partitionPath string, newSizeInBytes uint64) error {
	// ntfsresize size suffixes are decimal, plain bytes are not
	size := strconv.FormatUint(newSizeInBytes, 10)

	_, stderr, _, err := s.runner.RunCommand("ntfsresize", "--no-action", "--size", size, partitionPath)
	if err != nil {
		return bosherr.WrapErrorf(err, "Test run of ntfsresize on `%s': %s", partitionPath, stderr)
	}

	_, stderr, _, err = s.runner.RunCommandWithInput("y\n", "ntfsresize", "--size", size, partitionPath)
	if err != nil {
		return bosherr.WrapErrorf(err, "Shrinking ntfs filesystem on `%s' to %sB: %s", partitionPath, size, stderr)
	}

	return nil
}
