package disk_test

import (
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	fakesys "github.com/cloudfoundry/bosh-utils/system/fakes"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cloudfoundry/bosh-alongside/platform/disk"
)

var _ = Describe("NewLinuxDiskManager", func() {
	var (
		runner *fakesys.FakeCmdRunner
		fs     *fakesys.FakeFileSystem
		logger boshlog.Logger
	)

	BeforeEach(func() {
		runner = fakesys.NewFakeCmdRunner()
		fs = fakesys.NewFakeFileSystem()
		logger = boshlog.NewLogger(boshlog.LevelNone)
	})

	Context("when mounts source is not set", func() {
		It("searches mounts in /proc/mounts", func() {
			diskManager := disk.NewLinuxDiskManager(logger, runner, fs, disk.LinuxDiskManagerOpts{})
			Expect(diskManager.GetMountsSearcher()).To(Equal(disk.NewProcMountsSearcher(fs)))

			expectedMounter := disk.NewLinuxMounter(runner, disk.NewProcMountsSearcher(fs), logger)
			Expect(diskManager.GetMounter()).To(Equal(expectedMounter))
		})
	})

	Context("when mounts source is 'cmd'", func() {
		It("searches mounts with the mount command", func() {
			diskManager := disk.NewLinuxDiskManager(logger, runner, fs, disk.LinuxDiskManagerOpts{MountsSource: "cmd"})
			Expect(diskManager.GetMountsSearcher()).To(Equal(disk.NewCmdMountsSearcher(runner)))
		})
	})

	It("uses sfdisk to read and rewrite partition tables", func() {
		diskManager := disk.NewLinuxDiskManager(logger, runner, fs, disk.LinuxDiskManagerOpts{})
		Expect(diskManager.GetPartitioner()).To(Equal(disk.NewSfdiskPartitioner(logger, runner)))
	})

	It("probes filesystems with blkid", func() {
		diskManager := disk.NewLinuxDiskManager(logger, runner, fs, disk.LinuxDiskManagerOpts{})
		Expect(diskManager.GetFileSystemProber()).To(Equal(disk.NewLinuxFileSystemProber(runner)))
	})

	It("provides a resizer, a usage reader and a device lister", func() {
		diskManager := disk.NewLinuxDiskManager(logger, runner, fs, disk.LinuxDiskManagerOpts{})
		Expect(diskManager.GetResizer()).ToNot(BeNil())
		Expect(diskManager.GetUsageReader()).ToNot(BeNil())
		Expect(diskManager.GetDeviceLister()).ToNot(BeNil())
	})
})
