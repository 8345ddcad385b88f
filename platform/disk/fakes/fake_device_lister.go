package fakes

import (
	boshdisk "github.com/cloudfoundry/bosh-alongside/platform/disk"
)

type FakeDeviceLister struct {
	ListDevicesCallCount int
	ListDevicesDevices   []boshdisk.Device
	ListDevicesErr       error
}

func (l *FakeDeviceLister) ListDevices() ([]boshdisk.Device, error) {
	l.ListDevicesCallCount++
	return l.ListDevicesDevices, l.ListDevicesErr
}
