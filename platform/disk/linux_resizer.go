package disk

import (
	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
)

type linuxResizer struct {
	shrinkers map[FileSystemType]FileSystemShrinker
	logger    boshlog.Logger
	logTag    string
}

func NewLinuxResizer(runner boshsys.CmdRunner, fs boshsys.FileSystem, mounter Mounter, logger boshlog.Logger) Resizer {
	ext := NewExtFileSystemShrinker(runner)

	return NewResizer(map[FileSystemType]FileSystemShrinker{
		FileSystemExt2:  ext,
		FileSystemExt3:  ext,
		FileSystemExt4:  ext,
		FileSystemNTFS:  NewNtfsFileSystemShrinker(runner),
		FileSystemBTRFS: NewBtrfsFileSystemShrinker(runner, fs, mounter, logger),
	}, logger)
}

func NewResizer(shrinkers map[FileSystemType]FileSystemShrinker, logger boshlog.Logger) Resizer {
	return linuxResizer{
		shrinkers: shrinkers,
		logger:    logger,
		logTag:    "LinuxResizer",
	}
}

func (r linuxResizer) Resize(partitionPath string, fsType FileSystemType, newSizeInBytes uint64) error {
	// xfs cannot shrink at all
	shrinker, found := r.shrinkers[fsType]
	if !found {
		return bosherr.Errorf("Shrinking filesystem `%s' on `%s' is not supported", fsType, partitionPath)
	}

	if newSizeInBytes == 0 {
		return bosherr.Errorf("Refusing to shrink `%s' to zero bytes", partitionPath)
	}

	r.logger.Info(r.logTag, "Shrinking %s filesystem on `%s' to %dB", fsType, partitionPath, newSizeInBytes)

	err := shrinker.Shrink(partitionPath, newSizeInBytes)
	if err != nil {
		return bosherr.WrapErrorf(err, "Resizing `%s'", partitionPath)
	}

	return nil
}
