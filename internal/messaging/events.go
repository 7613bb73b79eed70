package messaging

import (
	"encoding/json"
	"fmt"
)

// EventPublisher serializes game events as JSON onto NATS subjects.
type EventPublisher struct {
	server *NatsServer
}

func NewEventPublisher(server *NatsServer) *EventPublisher {
	return &EventPublisher{server: server}
}

func (p *EventPublisher) PublishEvent(subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}
	return p.server.Publish(subject, data)
}
