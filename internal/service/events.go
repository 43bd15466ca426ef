package service

// EventPublisher fans mutation events out to live dashboards. The websocket
// hub implements it.
type EventPublisher interface {
	Publish(action string, actorID uint, data interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, uint, interface{}) {}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}
