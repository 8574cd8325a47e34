package service

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Broadcaster pushes live updates to connected dashboards.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	Broadcast(topic, eventType string, payload any)
}

// EventPublisher forwards domain events to the message bus.
// Satisfied by *events.Publisher and events.Noop.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// notifier fans a domain event out to the hub and the bus. Either side may be
// nil. Bus failures are logged and never fail the calling operation.
type notifier struct {
	hub Broadcaster
	bus EventPublisher
}

func (n notifier) broadcast(topic, eventType string, payload any) {
	if n.hub != nil {
		n.hub.Broadcast(topic, eventType, payload)
	}
}

func (n notifier) publish(ctx context.Context, eventType string, payload any) {
	if n.bus == nil {
		return
	}
	if err := n.bus.Publish(ctx, eventType, payload); err != nil {
		log.Warn().Err(err).Str("event", eventType).Msg("publish event")
	}
}
