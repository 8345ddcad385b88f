package disk

import (
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
	sigar "github.com/cloudfoundry/gosigar"
)

type linuxDiskManager struct {
	deviceLister     DeviceLister
	partitioner      Partitioner
	fileSystemProber FileSystemProber
	mounter          Mounter
	mountsSearcher   MountsSearcher
	resizer          Resizer
	usageReader      UsageReader
}

type LinuxDiskManagerOpts struct {
	// MountsSource is either "proc" or "cmd"
	MountsSource string
}

func NewLinuxDiskManager(
	logger boshlog.Logger,
	runner boshsys.CmdRunner,
	fs boshsys.FileSystem,
	opts LinuxDiskManagerOpts,
) Manager {
	// By default we want to use most reliable source of
	// mount information which is /proc/mounts
	mountsSearcher := NewProcMountsSearcher(fs)

	// Inside a chroot or container /proc may be missing,
	// so fall back to the mount command which reads /etc/mtab.
	if opts.MountsSource == "cmd" {
		mountsSearcher = NewCmdMountsSearcher(runner)
	}

	mounter := NewLinuxMounter(runner, mountsSearcher, logger)

	return linuxDiskManager{
		deviceLister:     NewGhwDeviceLister(logger),
		partitioner:      NewSfdiskPartitioner(logger, runner),
		fileSystemProber: NewLinuxFileSystemProber(runner),
		mounter:          mounter,
		mountsSearcher:   mountsSearcher,
		resizer:          NewLinuxResizer(runner, fs, mounter, logger),
		usageReader:      NewSigarUsageReader(&sigar.ConcreteSigar{}),
	}
}

func (m linuxDiskManager) GetDeviceLister() DeviceLister         { return m.deviceLister }
func (m linuxDiskManager) GetPartitioner() Partitioner           { return m.partitioner }
func (m linuxDiskManager) GetFileSystemProber() FileSystemProber { return m.fileSystemProber }
func (m linuxDiskManager) GetMounter() Mounter                   { return m.mounter }
func (m linuxDiskManager) GetMountsSearcher() MountsSearcher     { return m.mountsSearcher }
func (m linuxDiskManager) GetResizer() Resizer                   { return m.resizer }
func (m linuxDiskManager) GetUsageReader() UsageReader           { return m.usageReader }
