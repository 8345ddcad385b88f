package handoff

type Publisher interface {
	Publish(space FreedSpace) error
}
