package handoff

import (
	"encoding/json"
	"path/filepath"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
)

type filePublisher struct {
	path   string
	fs     boshsys.FileSystem
	logger boshlog.Logger
	logTag string
}

func NewFilePublisher(path string, fs boshsys.FileSystem, logger boshlog.Logger) Publisher {
	return filePublisher{
		path:   path,
		fs:     fs,
		logger: logger,
		logTag: "FilePublisher",
	}
}

func (p filePublisher) Publish(space FreedSpace) error {
	bytes, err := json.MarshalIndent(space, "", "  ")
	if err != nil {
		return bosherr.WrapError(err, "Marshalling freed space")
	}

	err = p.fs.MkdirAll(filepath.Dir(p.path), 0755)
	if err != nil {
		return bosherr.WrapErrorf(err, "Creating directory for `%s'", p.path)
	}

	err = p.fs.WriteFile(p.path, bytes)
	if err != nil {
		return bosherr.WrapErrorf(err, "Writing freed space to `%s'", p.path)
	}

	p.logger.Info(p.logTag, "Wrote freed space %s to `%s'", space, p.path)

	return nil
}
