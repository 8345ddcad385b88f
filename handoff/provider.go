package handoff

import (
	"net/url"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	boshlog "github.com/cloudfoundry/bosh-utils/logger"
	boshsys "github.com/cloudfoundry/bosh-utils/system"
	"github.com/nats-io/nats.go"
)

type Provider struct {
	fs      boshsys.FileSystem
	logger  boshlog.Logger
	connect ConnectFunc
}

func NewProvider(fs boshsys.FileSystem, logger boshlog.Logger) Provider {
	return NewProviderWithConnect(fs, logger, natsConnect)
}

func NewProviderWithConnect(fs boshsys.FileSystem, logger boshlog.Logger, connect ConnectFunc) Provider {
	return Provider{fs: fs, logger: logger, connect: connect}
}

func natsConnect(url string, options ...nats.Option) (NatsConnection, error) {
	return nats.Connect(url, options...)
}

// Get selects the publisher by URL scheme; an empty URL only logs the freed space
func (p Provider) Get(handoffURL, subject string) (Publisher, error) {
	if handoffURL == "" {
		return NewLogPublisher(p.logger), nil
	}

	parsedURL, err := url.Parse(handoffURL)
	if err != nil {
		return nil, bosherr.WrapError(err, "Parsing handoff URL")
	}

	switch parsedURL.Scheme {
	case "nats", "tls":
		return NewNatsPublisher(handoffURL, subject, p.connect, p.logger), nil
	case "file":
		if parsedURL.Path == "" {
			return nil, bosherr.Errorf("Handoff URL `%s' has no path", handoffURL)
		}
		return NewFilePublisher(parsedURL.Path, p.fs, p.logger), nil
	default:
		return nil, bosherr.Errorf("Handoff publisher with scheme %s could not be found", parsedURL.Scheme)
	}
}
