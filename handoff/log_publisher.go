package handoff

import (
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
)

type logPublisher struct {
	logger boshlog.Logger
	logTag string
}

func NewLogPublisher(logger boshlog.Logger) Publisher {
	return logPublisher{
		logger: logger,
		logTag: "LogPublisher",
	}
}

func (p logPublisher) Publish(space FreedSpace) error {
	p.logger.Info(p.logTag, "Freed space ready for installation: %s", space)
	return nil
}
