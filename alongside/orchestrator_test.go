package alongside_test

import (
	"errors"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	fakesys "github.com/cloudfoundry/bosh-utils/system/fakes"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/cloudfoundry/bosh-alongside/alongside"
	fakehandoff "github.com/cloudfoundry/bosh-alongside/handoff/fakes"
	"github.com/cloudfoundry/bosh-alongside/lock"
	fakelock "github.com/cloudfoundry/bosh-alongside/lock/fakes"
	fakemetrics "github.com/cloudfoundry/bosh-alongside/metrics/fakes"
	boshdisk "github.com/cloudfoundry/bosh-alongside/platform/disk"
	fakedisk "github.com/cloudfoundry/bosh-alongside/platform/disk/fakes"
	fakeosdetect "github.com/cloudfoundry/bosh-alongside/platform/osdetect/fakes"
)

var _ = Describe("Orchestrator", func() {
	var (
		partitioner  *fakedisk.FakePartitioner
		usageReader  *fakedisk.FakeUsageReader
		resizer      *fakedisk.FakeResizer
		publisher    *fakehandoff.FakePublisher
		locker       *fakelock.FakeLocker
		orchestrator Orchestrator
	)

	BeforeEach(func() {
		logger := boshlog.NewLogger(boshlog.LevelNone)
		recorder := &fakemetrics.FakeRecorder{}

		deviceLister := &fakedisk.FakeDeviceLister{
			ListDevicesDevices: []boshdisk.Device{{Path: "/dev/sda"}},
		}

		partitioner = fakedisk.NewFakePartitioner()
		partitioner.GetPartitionsPartitions["/dev/sda"] = []boshdisk.ExistingPartition{
			mbrPartition("/dev/sda1", 1, boshdisk.PartitionRolePrimary, 1, 500),
			mbrPartition("/dev/sda2", 2, boshdisk.PartitionRolePrimary, 501, 40000),
			mbrPartition("/dev/sda3", 3, boshdisk.PartitionRolePrimary, 40501, 1000),
		}

		prober := fakedisk.NewFakeFileSystemProber()
		prober.GetFileSystemType["/dev/sda1"] = boshdisk.FileSystemNTFS
		prober.GetFileSystemType["/dev/sda2"] = boshdisk.FileSystemNTFS
		prober.GetFileSystemType["/dev/sda3"] = boshdisk.FileSystemSwap

		detector := &fakeosdetect.FakeDetector{
			GetOSDictOSes: map[string]string{"/dev/sda2": "Windows 10"},
		}

		usageReader = &fakedisk.FakeUsageReader{GetUsageUsage: usageInMb(20000, 40000)}
		resizer = &fakedisk.FakeResizer{}
		publisher = &fakehandoff.FakePublisher{}
		locker = &fakelock.FakeLocker{}

		orchestrator = NewOrchestrator(
			NewCatalog(deviceLister, partitioner, prober, detector, recorder, logger),
			NewCapacityAnalyzer(fakedisk.NewFakeMounter(), usageReader, fakesys.NewFakeFileSystem(), "", recorder, logger),
			NewTopologyValidator(logger),
			NewExecutor(resizer, partitioner, fakeclock.NewFakeClock(time.Now()), recorder, "", logger),
			publisher,
			locker,
			logger,
		)
	})

	Describe("Scan", func() {
		It("returns installable partitions", func() {
			entries, err := orchestrator.Scan()
			Expect(err).ToNot(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(entries[1].PartitionPath).To(Equal("/dev/sda2"))
			Expect(entries[1].OSLabel).To(Equal("Windows 10"))
		})
	})

	Describe("Analyze", func() {
		It("measures an installable partition", func() {
			bounds, err := orchestrator.Analyze("/dev/sda2")
			Expect(err).ToNot(HaveOccurred())
			Expect(bounds).To(Equal(CapacityBounds{PartitionPath: "/dev/sda2", MinSizeMB: 20000, MaxSizeMB: 40000}))
		})

		It("refuses partitions that are not installable", func() {
			_, err := orchestrator.Analyze("/dev/sda3")
			Expect(err).To(Equal(PartitionNotFoundError{PartitionPath: "/dev/sda3"}))
			Expect(usageReader.GetUsageMountPoints).To(BeEmpty())
		})
	})

	Describe("Plan", func() {
		It("plans a shrink to the chosen size", func() {
			var offeredBounds CapacityBounds
			chooser := SizeChooserFunc(func(bounds CapacityBounds) (uint64, error) {
				offeredBounds = bounds
				return 25000, nil
			})

			plan, err := orchestrator.Plan("/dev/sda2", chooser)
			Expect(err).ToNot(HaveOccurred())

			Expect(offeredBounds.UpperLimitMB()).To(Equal(uint64(35000)))
			Expect(plan.PartitionPath).To(Equal("/dev/sda2"))
			Expect(plan.DevicePath).To(Equal("/dev/sda"))
			Expect(plan.FileSystem).To(Equal(boshdisk.FileSystemNTFS))
			Expect(plan.ChosenSizeMB).To(Equal(uint64(25000)))
			Expect(plan.Partition.StartInBytes).To(Equal(boshdisk.ConvertFromMbToBytes(501)))

			Expect(resizer.ResizeCalled).To(BeFalse())
			Expect(partitioner.ShrinkPartitionCalled).To(BeFalse())
		})

		It("does not ask for a size when there is not enough space", func() {
			usageReader.GetUsageUsage = usageInMb(36000, 40000)

			chooserCalled := false
			chooser := SizeChooserFunc(func(CapacityBounds) (uint64, error) {
				chooserCalled = true
				return 0, nil
			})

			_, err := orchestrator.Plan("/dev/sda2", chooser)
			Expect(err).To(BeAssignableToTypeOf(InsufficientSpaceError{}))
			Expect(chooserCalled).To(BeFalse())
		})

		It("wraps chooser errors", func() {
			chooser := SizeChooserFunc(func(CapacityBounds) (uint64, error) {
				return 0, errors.New("fake-cancelled-err")
			})

			_, err := orchestrator.Plan("/dev/sda2", chooser)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Choosing new size of `/dev/sda2'"))
			Expect(err.Error()).To(ContainSubstring("fake-cancelled-err"))
		})

		It("rejects sizes outside the bounds", func() {
			_, err := orchestrator.Plan("/dev/sda2", FixedSizeChooser(36000))
			Expect(err).To(BeAssignableToTypeOf(InvalidPlanError{}))
		})

		It("rejects devices without a free primary slot", func() {
			partitioner.GetPartitionsPartitions["/dev/sda"] = append(partitioner.GetPartitionsPartitions["/dev/sda"],
				mbrPartition("/dev/sda4", 4, boshdisk.PartitionRolePrimary, 41501, 1000))

			_, err := orchestrator.Plan("/dev/sda2", FixedSizeChooser(25000))
			Expect(err).To(BeAssignableToTypeOf(TooManyPrimaryPartitionsError{}))
		})

		It("refuses partitions that are not installable", func() {
			_, err := orchestrator.Plan("/dev/sdz1", FixedSizeChooser(25000))
			Expect(err).To(Equal(PartitionNotFoundError{PartitionPath: "/dev/sdz1"}))
		})
	})

	Describe("Shrink", func() {
		var plan ShrinkPlan

		BeforeEach(func() {
			var err error
			plan, err = orchestrator.Plan("/dev/sda2", FixedSizeChooser(25000))
			Expect(err).ToNot(HaveOccurred())
		})

		It("shrinks and hands off the freed space", func() {
			space, err := orchestrator.Shrink(plan)
			Expect(err).ToNot(HaveOccurred())

			Expect(space.DevicePath).To(Equal("/dev/sda"))
			Expect(space.FreedSizeMB).To(Equal(uint64(15000)))
			Expect(publisher.PublishSpaces).To(ConsistOf(space))

			Expect(locker.TryLockCallCount).To(Equal(1))
			Expect(locker.UnlockCallCount).To(Equal(1))
			Expect(locker.Locked).To(BeFalse())
		})

		It("allows another shrink after the first finished", func() {
			_, err := orchestrator.Shrink(plan)
			Expect(err).ToNot(HaveOccurred())

			_, err = orchestrator.Shrink(plan)
			Expect(err).ToNot(BeAssignableToTypeOf(ShrinkInProgressError{}))
		})

		It("refuses to run while another process holds the lock", func() {
			locker.TryLockErr = lock.ErrLocked

			_, err := orchestrator.Shrink(plan)
			Expect(err).To(Equal(ShrinkInProgressError{}))
			Expect(resizer.ResizeCalled).To(BeFalse())
			Expect(locker.UnlockCallCount).To(Equal(0))
		})

		It("wraps other lock errors", func() {
			locker.TryLockErr = errors.New("fake-lock-err")

			_, err := orchestrator.Shrink(plan)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Acquiring shrink lock"))
			Expect(resizer.ResizeCalled).To(BeFalse())
		})

		It("rejects plans made against an older partition table", func() {
			partitioner.GetPartitionsPartitions["/dev/sda"][1] = mbrPartition("/dev/sda2", 2, boshdisk.PartitionRolePrimary, 501, 39000)

			_, err := orchestrator.Shrink(plan)
			Expect(err).To(BeAssignableToTypeOf(InvalidPlanError{}))
			Expect(err.Error()).To(ContainSubstring("changed since planning"))
			Expect(resizer.ResizeCalled).To(BeFalse())
			Expect(locker.UnlockCallCount).To(Equal(1))
		})

		It("rejects plans whose partition disappeared", func() {
			partitioner.GetPartitionsPartitions["/dev/sda"] = []boshdisk.ExistingPartition{
				mbrPartition("/dev/sda1", 1, boshdisk.PartitionRolePrimary, 1, 500),
			}

			_, err := orchestrator.Shrink(plan)
			Expect(err).To(Equal(PartitionNotFoundError{PartitionPath: "/dev/sda2"}))
			Expect(resizer.ResizeCalled).To(BeFalse())
		})

		It("rejects plans when a primary partition was added since planning", func() {
			partitioner.GetPartitionsPartitions["/dev/sda"] = append(partitioner.GetPartitionsPartitions["/dev/sda"],
				mbrPartition("/dev/sda4", 4, boshdisk.PartitionRolePrimary, 41501, 1000))

			_, err := orchestrator.Shrink(plan)
			Expect(err).To(BeAssignableToTypeOf(TooManyPrimaryPartitionsError{}))
			Expect(resizer.ResizeCalled).To(BeFalse())
		})

		It("does not hand off anything when the shrink fails", func() {
			partitioner.ShrinkPartitionErr = errors.New("fake-sfdisk-err")

			_, err := orchestrator.Shrink(plan)
			Expect(IsUnsafeState(err)).To(BeTrue())
			Expect(publisher.PublishCalled).To(BeFalse())
			Expect(locker.UnlockCallCount).To(Equal(1))
		})

		It("returns the freed space together with handoff errors", func() {
			publisher.PublishErr = errors.New("fake-publish-err")

			space, err := orchestrator.Shrink(plan)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Handing off freed space"))
			Expect(IsFatal(err)).To(BeFalse())
			Expect(space.FreedSizeMB).To(Equal(uint64(15000)))
		})
	})
})
