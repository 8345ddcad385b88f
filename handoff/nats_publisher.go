package handoff

import (
	"encoding/json"
	"time"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	"github.com/nats-io/nats.go"
)

const (
	DefaultSubject = "installer.freed_space"

	natsFlushTimeout = 10 * time.Second
)

type NatsConnection interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

type ConnectFunc func(url string, options ...nats.Option) (NatsConnection, error)

type natsPublisher struct {
	url     string
	subject string
	connect ConnectFunc
	logger  boshlog.Logger
	logTag  string
}

func NewNatsPublisher(url, subject string, connect ConnectFunc, logger boshlog.Logger) Publisher {
	if subject == "" {
		subject = DefaultSubject
	}

	return natsPublisher{
		url:     url,
		subject: subject,
		connect: connect,
		logger:  logger,
		logTag:  "NatsPublisher",
	}
}

func (p natsPublisher) Publish(space FreedSpace) error {
	bytes, err := json.Marshal(space)
	if err != nil {
		return bosherr.WrapError(err, "Marshalling freed space")
	}

	conn, err := p.connect(p.url, nats.Name("bosh-alongside"))
	if err != nil {
		return bosherr.WrapError(err, "Connecting to NATS")
	}
	defer conn.Close()

	p.logger.Info(p.logTag, "Publishing freed space to %s", p.subject)
	p.logger.DebugWithDetails(p.logTag, "Message Payload", string(bytes))

	err = conn.Publish(p.subject, bytes)
	if err != nil {
		return bosherr.WrapErrorf(err, "Publishing to %s", p.subject)
	}

	// Publish only buffers, so wait until the server has the message
	err = conn.FlushTimeout(natsFlushTimeout)
	if err != nil {
		return bosherr.WrapErrorf(err, "Flushing %s", p.subject)
	}

	return nil
}
