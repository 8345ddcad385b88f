package disk_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	fakesys "github.com/cloudfoundry/bosh-utils/system/fakes"

	. "github.com/cloudfoundry/bosh-alongside/platform/disk"
)

const devSdaSfdiskDump = `{
   "partitiontable": {
      "label": "dos",
      "id": "0x5f3e2a1c",
      "device": "/dev/sda",
      "unit": "sectors",
      "sectorsize": 512,
      "partitions": [
         {"node": "/dev/sda1", "start": 2048, "size": 1024000, "type": "7", "bootable": true},
         {"node": "/dev/sda2", "start": 1026048, "size": 81920000, "type": "7"},
         {"node": "/dev/sda3", "start": 82946048, "size": 20480000, "type": "5"},
         {"node": "/dev/sda5", "start": 82948096, "size": 4096000, "type": "82"},
         {"node": "/dev/sda10", "start": 87046144, "size": 4096000, "type": "83"}
      ]
   }
}`

const devSdaShrunkSfdiskDump = `{
   "partitiontable": {
      "label": "dos",
      "device": "/dev/sda",
      "unit": "sectors",
      "sectorsize": 512,
      "partitions": [
         {"node": "/dev/sda1", "start": 2048, "size": 1024000, "type": "7", "bootable": true},
         {"node": "/dev/sda2", "start": 1026048, "size": 51200000, "type": "7"},
         {"node": "/dev/sda3", "start": 82946048, "size": 20480000, "type": "5"}
      ]
   }
}`

const devSdaMovedSfdiskDump = `{
   "partitiontable": {
      "label": "dos",
      "device": "/dev/sda",
      "unit": "sectors",
      "sectorsize": 512,
      "partitions": [
         {"node": "/dev/sda2", "start": 1028096, "size": 51200000, "type": "7"}
      ]
   }
}`

const devNvmeGptSfdiskDump = `{
   "partitiontable": {
      "label": "gpt",
      "device": "/dev/nvme0n1",
      "unit": "sectors",
      "sectorsize": 512,
      "partitions": [
         {"node": "/dev/nvme0n1p1", "start": 2048, "size": 1048576, "type": "C12A7328-F81F-11D2-BA4B-00A0C93EC93B"},
         {"node": "/dev/nvme0n1p2", "start": 1050624, "size": 2097152, "type": "0FC63DAF-8483-4772-8E79-3D69D8477DE4"},
         {"node": "/dev/nvme0n1p3", "start": 3147776, "size": 2097152, "type": "0FC63DAF-8483-4772-8E79-3D69D8477DE4"},
         {"node": "/dev/nvme0n1p4", "start": 5244928, "size": 2097152, "type": "0FC63DAF-8483-4772-8E79-3D69D8477DE4"},
         {"node": "/dev/nvme0n1p5", "start": 7342080, "size": 2097152, "type": "0FC63DAF-8483-4772-8E79-3D69D8477DE4"}
      ]
   }
}`

var _ = Describe("sfdiskPartitioner", func() {
	var (
		fakeCmdRunner *fakesys.FakeCmdRunner
		partitioner   Partitioner
	)

	BeforeEach(func() {
		logger := boshlog.NewLogger(boshlog.LevelNone)
		fakeCmdRunner = fakesys.NewFakeCmdRunner()
		partitioner = NewSfdiskPartitioner(logger, fakeCmdRunner)

		fakeCmdRunner.AddCmdResult("lsblk --nodeps -nb -o SIZE /dev/sda", fakesys.FakeCmdResult{Stdout: "128849018880\n", Sticky: true})
	})

	Describe("GetPartitions", func() {
		It("returns every partition with its table role", func() {
			fakeCmdRunner.AddCmdResult("sfdisk --json /dev/sda", fakesys.FakeCmdResult{Stdout: devSdaSfdiskDump})

			partitions, deviceSize, err := partitioner.GetPartitions("/dev/sda")
			Expect(err).ToNot(HaveOccurred())
			Expect(deviceSize).To(Equal(uint64(128849018880)))

			Expect(partitions).To(HaveLen(5))
			Expect(partitions[0]).To(Equal(ExistingPartition{
				Index:             1,
				Path:              "/dev/sda1",
				Role:              PartitionRolePrimary,
				TypeID:            "7",
				StartInBytes:      2048 * 512,
				SizeInBytes:       1024000 * 512,
				EndInBytes:        (2048+1024000)*512 - 1,
				SectorSizeInBytes: 512,
			}))
			Expect(partitions[1].Role).To(Equal(PartitionRolePrimary))
			Expect(partitions[2].Role).To(Equal(PartitionRoleExtended))
			Expect(partitions[3].Role).To(Equal(PartitionRoleLogical))
			Expect(partitions[3].TypeID).To(Equal("82"))
			Expect(partitions[4].Index).To(Equal(10))
			Expect(partitions[4].Role).To(Equal(PartitionRoleLogical))
		})

		It("treats every partition of a non-dos table as primary", func() {
			fakeCmdRunner.AddCmdResult("lsblk --nodeps -nb -o SIZE /dev/nvme0n1", fakesys.FakeCmdResult{Stdout: "512110190592"})
			fakeCmdRunner.AddCmdResult("sfdisk --json /dev/nvme0n1", fakesys.FakeCmdResult{Stdout: devNvmeGptSfdiskDump})

			partitions, _, err := partitioner.GetPartitions("/dev/nvme0n1")
			Expect(err).ToNot(HaveOccurred())
			Expect(partitions).To(HaveLen(5))
			for _, partition := range partitions {
				Expect(partition.Role).To(Equal(PartitionRolePrimary))
			}
			Expect(partitions[2].Path).To(Equal("/dev/nvme0n1p3"))
			Expect(partitions[2].Index).To(Equal(3))
		})

		It("returns no partitions for a device without partition table", func() {
			fakeCmdRunner.AddCmdResult("sfdisk --json /dev/sda", fakesys.FakeCmdResult{
				Stderr:     "sfdisk: /dev/sda: does not contain a recognized partition table\n",
				ExitStatus: 1,
				Error:      errors.New("exit 1"),
			})

			partitions, deviceSize, err := partitioner.GetPartitions("/dev/sda")
			Expect(err).ToNot(HaveOccurred())
			Expect(partitions).To(BeEmpty())
			Expect(deviceSize).To(Equal(uint64(128849018880)))
		})

		It("returns error when sfdisk fails", func() {
			fakeCmdRunner.AddCmdResult("sfdisk --json /dev/sda", fakesys.FakeCmdResult{Error: errors.New("sadness")})

			_, _, err := partitioner.GetPartitions("/dev/sda")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Dumping partition table of `/dev/sda'"))
		})

		It("returns error when sfdisk output is not json", func() {
			fakeCmdRunner.AddCmdResult("sfdisk --json /dev/sda", fakesys.FakeCmdResult{Stdout: "unit: sectors"})

			_, _, err := partitioner.GetPartitions("/dev/sda")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Parsing partition table"))
		})

		It("returns error when the device size cannot be read", func() {
			fakeCmdRunner.AddCmdResult("lsblk --nodeps -nb -o SIZE /dev/sdb", fakesys.FakeCmdResult{Error: errors.New("no such device")})

			_, _, err := partitioner.GetPartitions("/dev/sdb")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Getting block device size of '/dev/sdb'"))
		})
	})

	Describe("ShrinkPartition", func() {
		var partition ExistingPartition

		BeforeEach(func() {
			fakeCmdRunner.AddCmdResult("sfdisk --json /dev/sda", fakesys.FakeCmdResult{Stdout: devSdaSfdiskDump})
			partitions, _, err := partitioner.GetPartitions("/dev/sda")
			Expect(err).ToNot(HaveOccurred())
			partition = partitions[1]
		})

		It("rewrites only the size of the partition and re-reads the table", func() {
			fakeCmdRunner.AddCmdResult("sfdisk --json /dev/sda", fakesys.FakeCmdResult{Stdout: devSdaShrunkSfdiskDump})

			err := partitioner.ShrinkPartition("/dev/sda", partition, ConvertFromMbToBytes(25000))
			Expect(err).ToNot(HaveOccurred())

			Expect(fakeCmdRunner.RunCommandsWithInput).To(Equal([][]string{
				{",51200000\n", "sfdisk", "--no-reread", "-N", "2", "/dev/sda"},
			}))
			Expect(fakeCmdRunner.RunCommands).To(ContainElement([]string{"partprobe", "/dev/sda"}))
			Expect(fakeCmdRunner.RunCommands).To(ContainElement([]string{"udevadm", "settle"}))
		})

		It("returns error when rewriting the table fails", func() {
			fakeCmdRunner.AddCmdResult(",51200000\n sfdisk --no-reread -N 2 /dev/sda", fakesys.FakeCmdResult{
				Stderr: "sfdisk: failed to write",
				Error:  errors.New("exit 1"),
			})

			err := partitioner.ShrinkPartition("/dev/sda", partition, ConvertFromMbToBytes(25000))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("Rewriting partition 2 of `/dev/sda'"))
			Expect(fakeCmdRunner.RunCommands).ToNot(ContainElement([]string{"partprobe", "/dev/sda"}))
		})

		It("returns error when the partition start moved", func() {
			fakeCmdRunner.AddCmdResult("sfdisk --json /dev/sda", fakesys.FakeCmdResult{Stdout: devSdaMovedSfdiskDump})

			err := partitioner.ShrinkPartition("/dev/sda", partition, ConvertFromMbToBytes(25000))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("moved"))
		})

		It("returns error when the rewritten partition has the wrong size", func() {
			fakeCmdRunner.AddCmdResult("sfdisk --json /dev/sda", fakesys.FakeCmdResult{Stdout: devSdaSfdiskDump})

			err := partitioner.ShrinkPartition("/dev/sda", partition, ConvertFromMbToBytes(25000))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("after rewrite"))
		})

		It("returns error when the partition disappeared", func() {
			fakeCmdRunner.AddCmdResult("sfdisk --json /dev/sda", fakesys.FakeCmdResult{Stdout: `{"partitiontable": {"label": "dos", "unit": "sectors", "partitions": []}}`})

			err := partitioner.ShrinkPartition("/dev/sda", partition, ConvertFromMbToBytes(25000))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("disappeared"))
		})

		It("refuses to grow the partition", func() {
			err := partitioner.ShrinkPartition("/dev/sda", partition, partition.SizeInBytes)
			Expect(err).To(HaveOccurred())
			Expect(fakeCmdRunner.RunCommandsWithInput).To(BeEmpty())
		})

		It("refuses to shrink an extended partition", func() {
			extended := ExistingPartition{Index: 3, Path: "/dev/sda3", Role: PartitionRoleExtended, SizeInBytes: 20480000 * 512}

			err := partitioner.ShrinkPartition("/dev/sda", extended, ConvertFromMbToBytes(100))
			Expect(err).To(HaveOccurred())
			Expect(fakeCmdRunner.RunCommandsWithInput).To(BeEmpty())
		})
	})
})
