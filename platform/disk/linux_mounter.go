package disk

import (
	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
)

type linuxMounter struct {
	runner         boshsys.CmdRunner
	mountsSearcher MountsSearcher
	logger         boshlog.Logger
	logTag         string
}

func NewLinuxMounter(runner boshsys.CmdRunner, mountsSearcher MountsSearcher, logger boshlog.Logger) Mounter {
	return linuxMounter{
		runner:         runner,
		mountsSearcher: mountsSearcher,
		logger:         logger,
		logTag:         "LinuxMounter",
	}
}

func (m linuxMounter) Mount(partitionPath, mountPoint string, mountOptions ...string) error {
	mountArgs := []string{partitionPath, mountPoint}
	mountArgs = append(mountArgs, mountOptions...)

	m.logger.Debug(m.logTag, "Mounting `%s' at `%s' with %v", partitionPath, mountPoint, mountOptions)

	_, stderr, _, err := m.runner.RunCommand("mount", mountArgs...)
	if err != nil {
		return bosherr.WrapErrorf(err, "Mounting `%s' at `%s': %s", partitionPath, mountPoint, stderr)
	}

	return nil
}

// Unmount lazily unmounts partitionOrMountPoint. When the mount table cannot
// be read the unmount is still attempted.
func (m linuxMounter) Unmount(partitionOrMountPoint string) (bool, error) {
	isMounted, err := m.isMounted(partitionOrMountPoint)
	if err != nil {
		m.logger.Warn(m.logTag, "Unmounting `%s' without checking mounts: %s", partitionOrMountPoint, err)
	} else if !isMounted {
		return false, nil
	}

	_, stderr, _, err := m.runner.RunCommand("umount", "-l", partitionOrMountPoint)
	if err != nil {
		return false, bosherr.WrapErrorf(err, "Unmounting `%s': %s", partitionOrMountPoint, stderr)
	}

	return true, nil
}

func (m linuxMounter) IsMountPoint(path string) (string, bool, error) {
	mounts, err := m.mountsSearcher.SearchMounts()
	if err != nil {
		return "", false, bosherr.WrapError(err, "Searching mounts")
	}

	for _, mount := range mounts {
		if mount.MountPoint == path {
			return mount.PartitionPath, true, nil
		}
	}

	return "", false, nil
}

func (m linuxMounter) FindMountPoint(partitionPath string) (string, bool, error) {
	mounts, err := m.mountsSearcher.SearchMounts()
	if err != nil {
		return "", false, bosherr.WrapError(err, "Searching mounts")
	}

	for _, mount := range mounts {
		if mount.PartitionPath == partitionPath {
			return mount.MountPoint, true, nil
		}
	}

	return "", false, nil
}

func (m linuxMounter) isMounted(partitionOrMountPoint string) (bool, error) {
	mounts, err := m.mountsSearcher.SearchMounts()
	if err != nil {
		return false, bosherr.WrapError(err, "Searching mounts")
	}

	for _, mount := range mounts {
		if mount.PartitionPath == partitionOrMountPoint || mount.MountPoint == partitionOrMountPoint {
			return true, nil
		}
	}

	return false, nil
}
