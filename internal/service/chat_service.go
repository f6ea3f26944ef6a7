package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ppods-be/internal/dto"
	"ppods-be/internal/pkg/logger"
	"ppods-be/internal/repository/memory"
	"ppods-be/pkg/appstate"
	"ppods-be/pkg/chatbot"
	"ppods-be/pkg/voice"

	"github.com/google/uuid"
)

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

type IChatService interface {
	StartConversation(ctx context.Context, userID string) (*dto.ConversationResponse, error)
	SendMessage(ctx context.Context, userID string, req *dto.SendChatMessageRequest) (*dto.SendChatMessageResponse, error)
}

type chatService struct {
	registry   *memory.StoreRegistry
	responder  chatbot.Responder
	voice      *voice.Manager
	replyDelay time.Duration
	logger     logger.ILogger
}

func NewChatService(registry *memory.StoreRegistry, responder chatbot.Responder, voiceManager *voice.Manager, replyDelay time.Duration, log logger.ILogger) IChatService {
	return &chatService{
		registry:   registry,
		responder:  responder,
		voice:      voiceManager,
		replyDelay: replyDelay,
		logger:     log,
	}
}

// NewMessageID returns a timestamp-derived id such as 1700000000000-1a2b3c4d.
func NewMessageID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}

func (s *chatService) StartConversation(ctx context.Context, userID string) (*dto.ConversationResponse, error) {
	store := s.registry.Get(ctx, userID)
	if msgs := store.Snapshot().Messages; len(msgs) > 0 {
		return &dto.ConversationResponse{Messages: msgs, Started: false}, nil
	}

	text, err := s.responder.Welcome(ctx)
	if err != nil {
		return nil, fmt.Errorf("welcome message: %w", err)
	}

	now := time.Now().UTC()
	welcome := appstate.ChatMessage{
		ID:        NewMessageID(now),
		Sender:    SenderAssistant,
		Content:   text,
		Timestamp: now,
		Type:      appstate.MessageTypeSystem,
	}
	// A concurrent start may have won since the check above.
	added, err := store.AddMessageIfEmpty(ctx, welcome)
	if err != nil {
		return nil, err
	}

	return &dto.ConversationResponse{Messages: store.Snapshot().Messages, Started: added}, nil
}

func (s *chatService) SendMessage(ctx context.Context, userID string, req *dto.SendChatMessageRequest) (*dto.SendChatMessageResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrBlankMessage
	}
	msgType := appstate.MessageTypeText
	if req.Type == string(appstate.MessageTypeVoice) {
		msgType = appstate.MessageTypeVoice
	}

	s.voice.StopKind(userID, voice.KindSynthesis)

	store := s.registry.Get(ctx, userID)
	now := time.Now().UTC()
	userMsg := appstate.ChatMessage{
		ID:            NewMessageID(now),
		Sender:        SenderUser,
		Content:       text,
		Timestamp:     now,
		Type:          msgType,
		IsUserMessage: true,
	}
	if err := store.AddMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	if s.replyDelay > 0 {
		timer := time.NewTimer(s.replyDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	replyText, err := s.responder.Reply(ctx, store.Snapshot().Messages)
	if err != nil {
		s.logger.Error("ChatService", "Responder failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	replyAt := time.Now().UTC()
	reply := appstate.ChatMessage{
		ID:        NewMessageID(replyAt),
		Sender:    SenderAssistant,
		Content:   replyText,
		Timestamp: replyAt,
		Type:      appstate.MessageTypeText,
	}
	if err := store.AddMessage(ctx, reply); err != nil {
		return nil, err
	}

	res := &dto.SendChatMessageResponse{UserMessage: userMsg, Reply: reply}
	if req.Speak {
		volume := 1.0
		if req.Volume != nil {
			volume = *req.Volume
		}
		_, info, err := s.voice.Start(userID, voice.KindSynthesis, voice.NewUtterance(replyText, volume))
		if err != nil {
			return nil, err
		}
		res.Speech = &info
	}

	return res, nil
}
