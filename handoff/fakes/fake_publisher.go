package fakes

import (
	"github.com/cloudfoundry/bosh-alongside/handoff"
)

type FakePublisher struct {
	PublishCalled bool
	PublishSpaces []handoff.FreedSpace
	PublishErr    error
}

func (p *FakePublisher) Publish(space handoff.FreedSpace) error {
	p.PublishCalled = true
	p.PublishSpaces = append(p.PublishSpaces, space)
	return p.PublishErr
}
