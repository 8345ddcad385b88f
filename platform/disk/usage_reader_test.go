package disk_test

import (
	"errors"

	sigar "github.com/cloudfoundry/gosigar"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/cloudfoundry/bosh-alongside/platform/disk"
)

type fakeFileSystemUsageGetter struct {
	path  string
	usage sigar.FileSystemUsage
	err   error
}

func (g *fakeFileSystemUsageGetter) GetFileSystemUsage(path string) (sigar.FileSystemUsage, error) {
	g.path = path
	return g.usage, g.err
}

var _ = Describe("sigarUsageReader", func() {
	var (
		getter *fakeFileSystemUsageGetter
		reader UsageReader
	)

	BeforeEach(func() {
		getter = &fakeFileSystemUsageGetter{}
		reader = NewSigarUsageReader(getter)
	})

	It("returns total and used kilobytes of the mount point", func() {
		getter.usage = sigar.FileSystemUsage{Total: 40960000, Used: 20480000, Free: 20480000, Avail: 18432000}

		usage, err := reader.GetUsage("/mnt")
		Expect(err).ToNot(HaveOccurred())
		Expect(getter.path).To(Equal("/mnt"))
		Expect(usage).To(Equal(Usage{TotalInKb: 40960000, UsedInKb: 20480000}))
		Expect(ConvertFromKbToMb(usage.TotalInKb)).To(Equal(uint64(40000)))
	})

	It("returns error when statfs fails", func() {
		getter.err = errors.New("fake-statfs-err")

		_, err := reader.GetUsage("/mnt")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("fake-statfs-err"))
	})
})
