package service

import (
	"context"
	"fmt"

	"ppods-be/internal/pkg/logger"
	"ppods-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	Publish(ctx context.Context, evt events.Event) error
}

// EventForwarder ships events outside the process (NATS in production).
type EventForwarder interface {
	Publish(ctx context.Context, evt events.Event) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
	forwarder EventForwarder
	logger    logger.ILogger
}

// NewPublisherService publishes on the internal bus and, when forwarder is non-nil,
// forwards the same event. Forwarding failures are logged and never returned.
func NewPublisherService(topicName string, publisher message.Publisher, forwarder EventForwarder, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
		forwarder: forwarder,
		logger:    log,
	}
}

func (s *publisherService) Publish(ctx context.Context, evt events.Event) error {
	payload, err := events.Marshal(evt)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", evt.EventType())
	msg.SetContext(ctx)

	if err := s.publisher.Publish(s.topicName, msg); err != nil {
		return fmt.Errorf("publish %s: %w", evt.EventType(), err)
	}

	if s.forwarder != nil {
		if err := s.forwarder.Publish(ctx, evt); err != nil {
			s.logger.Warn("Publisher", "Failed to forward event", map[string]interface{}{
				"event_type": evt.EventType(),
				"error":      err.Error(),
			})
		}
	}
	return nil
}
