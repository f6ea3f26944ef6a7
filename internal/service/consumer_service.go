package service

import (
	"context"

	"ppods-be/internal/pkg/logger"
	"ppods-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// VoiceReleaser frees every speech capability a user holds.
type VoiceReleaser interface {
	StopAll(userID string) int
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	voice      VoiceReleaser
	logger     logger.ILogger
}

func NewConsumerService(subscriber message.Subscriber, topicName string, voice VoiceReleaser, log logger.ILogger) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		voice:      voice,
		logger:     log,
	}
}

// Consume subscribes to the internal event topic and handles messages until ctx is done.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	evt, err := events.Unmarshal(msg.Payload)
	if err != nil {
		cs.logger.Error("Consumer", "Dropping malformed event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack()
		return
	}

	switch evt.EventType() {
	case events.TypeEmergencyModeActivated:
		userID := evt.UserID()
		released := cs.voice.StopAll(userID)
		cs.logger.Info("Consumer", "Emergency exit released voice capabilities", map[string]interface{}{
			"user_id":  userID,
			"released": released,
		})
	default:
		cs.logger.Debug("Consumer", "Event ignored", map[string]interface{}{"event_type": evt.EventType()})
	}

	msg.Ack()
}
