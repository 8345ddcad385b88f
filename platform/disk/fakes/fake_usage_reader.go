package fakes

import (
	boshdisk "github.com/cloudfoundry/bosh-alongside/platform/disk"
)

type FakeUsageReader struct {
	GetUsageMountPoints []string
	GetUsageUsage       boshdisk.Usage
	GetUsageErr         error
}

func (r *FakeUsageReader) GetUsage(mountPoint string) (boshdisk.Usage, error) {
	r.GetUsageMountPoints = append(r.GetUsageMountPoints, mountPoint)
	return r.GetUsageUsage, r.GetUsageErr
}
