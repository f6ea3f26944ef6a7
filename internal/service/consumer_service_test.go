package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"ppods-be/internal/pkg/logger"
	"ppods-be/pkg/events"
	"ppods-be/pkg/voice"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingForwarder struct {
	mu    sync.Mutex
	types []string
}

func (f *recordingForwarder) Publish(_ context.Context, evt events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types = append(f.types, evt.EventType())
	return nil
}

func TestEmergencyEventReleasesVoiceSessions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	vm := newVoiceManager()
	rec, _, err := vm.Start("u1", voice.KindRecognition, nil)
	require.NoError(t, err)
	other, _, err := vm.Start("u2", voice.KindRecording, nil)
	require.NoError(t, err)

	consumer := NewConsumerService(pubSub, "EMERGENCY_EVENTS", vm, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	fwd := &recordingForwarder{}
	publisher := NewPublisherService("EMERGENCY_EVENTS", pubSub, fwd, logger.NewNopLogger())
	require.NoError(t, publisher.Publish(ctx, events.NewEmergencyModeEvent("u1", true, time.Now())))

	require.Eventually(t, func() bool {
		select {
		case <-rec.Done():
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	select {
	case <-other.Done():
		t.Fatal("other user's session was released")
	default:
	}

	fwd.mu.Lock()
	defer fwd.mu.Unlock()
	assert.Equal(t, []string{events.TypeEmergencyModeActivated}, fwd.types)
}

func TestConsumerAcksMalformedMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	vm := newVoiceManager()
	rec, _, err := vm.Start("u1", voice.KindRecognition, nil)
	require.NoError(t, err)

	require.NoError(t, NewConsumerService(pubSub, "T", vm, logger.NewNopLogger()).Consume(ctx))
	require.NoError(t, pubSub.Publish("T", message.NewMessage(watermill.NewUUID(), []byte("garbage"))))

	deactivated, err := events.Marshal(events.NewEmergencyModeEvent("u1", false, time.Now()))
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish("T", message.NewMessage(watermill.NewUUID(), deactivated)))

	time.Sleep(20 * time.Millisecond)
	select {
	case <-rec.Done():
		t.Fatal("session released by a non-activation event")
	default:
	}
}
