package disk

import (
	"fmt"
	"strings"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	"github.com/jaypipes/ghw"
	"github.com/jaypipes/ghw/pkg/block"
)

type Device struct {
	Path        string
	Optical     bool
	Removable   bool
	SizeInBytes uint64
}

type DeviceLister interface {
	ListDevices() ([]Device, error)
}

type BlockInfoFunc func() (*block.Info, error)

type ghwDeviceLister struct {
	blockInfo BlockInfoFunc
	logger    boshlog.Logger
	logTag    string
}

func NewGhwDeviceLister(logger boshlog.Logger) DeviceLister {
	return NewGhwDeviceListerWithBlockInfo(func() (*block.Info, error) { return ghw.Block() }, logger)
}

func NewGhwDeviceListerWithBlockInfo(blockInfo BlockInfoFunc, logger boshlog.Logger) DeviceLister {
	return ghwDeviceLister{
		blockInfo: blockInfo,
		logger:    logger,
		logTag:    "GhwDeviceLister",
	}
}

func (l ghwDeviceLister) ListDevices() ([]Device, error) {
	info, err := l.blockInfo()
	if err != nil {
		return nil, bosherr.WrapError(err, "Enumerating block devices")
	}

	devices := make([]Device, 0, len(info.Disks))
	for _, d := range info.Disks {
		path := d.Name
		if !strings.HasPrefix(path, "/dev/") {
			path = fmt.Sprintf("/dev/%s", d.Name)
		}

		device := Device{
			Path:        path,
			Optical:     d.DriveType == block.DriveTypeODD,
			Removable:   d.IsRemovable,
			SizeInBytes: d.SizeBytes,
		}

		l.logger.Debug(l.logTag, "Found block device %s", device)
		devices = append(devices, device)
	}

	return devices, nil
}

func (d Device) String() string {
	return fmt.Sprintf("[Path: %s, Optical: %t, Removable: %t, SizeInBytes: %d]", d.Path, d.Optical, d.Removable, d.SizeInBytes)
}
