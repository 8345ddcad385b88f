package disk

import (
	"fmt"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
)

type btrfsFileSystemShrinker struct {
	runner  boshsys.CmdRunner
	fs      boshsys.FileSystem
	mounter Mounter
	logger  boshlog.Logger
	logTag  string
}

func NewBtrfsFileSystemShrinker(runner boshsys.CmdRunner, fs boshsys.FileSystem, mounter Mounter, logger boshlog.Logger) FileSystemShrinker {
	return btrfsFileSystemShrinker{
		runner:  runner,
		fs:      fs,
		mounter: mounter,
		logger:  logger,
		logTag:  "BtrfsFileSystemShrinker",
	}
}

func (s btrfsFileSystemShrinker) Shrink(partitionPath string, newSizeInBytes uint64) error {
	// unlike other filesystems, BTRFS requires to be mounted to be resized
	tempDir, err := s.fs.TempDir("btrfs-shrink")
	if err != nil {
		return bosherr.WrapError(err, "Creating temporary mount point")
	}
	defer s.fs.RemoveAll(tempDir) //nolint:errcheck

	err = s.mounter.Mount(partitionPath, tempDir)
	if err != nil {
		return bosherr.WrapErrorf(err, "Mounting `%s' for resize", partitionPath)
	}

	defer func() {
		_, err := s.mounter.Unmount(tempDir)
		if err != nil {
			s.logger.Warn(s.logTag, "Failed to unmount `%s': %s", tempDir, err)
		}
	}()

	size := fmt.Sprintf("%dM", ConvertFromBytesToMb(newSizeInBytes))
	_, stderr, _, err := s.runner.RunCommand("btrfs", "filesystem", "resize", size, tempDir)
	if err != nil {
		return bosherr.WrapErrorf(err, "Shrinking btrfs filesystem on `%s' to %s: %s", partitionPath, size, stderr)
	}

	return nil
}
