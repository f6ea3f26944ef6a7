package service

import (
	"context"

	"ppods-be/internal/dto"
	"ppods-be/internal/pkg/logger"
	"ppods-be/pkg/appstate"
	"ppods-be/pkg/voice"
)

type IVoiceService interface {
	Start(ctx context.Context, userID string, req *dto.StartVoiceSessionRequest) (voice.Info, error)
	Transcript(ctx context.Context, userID, sessionID string, req *dto.VoiceTranscriptRequest) (*dto.VoiceTranscriptResponse, error)
	Stop(ctx context.Context, userID, sessionID string) (voice.Info, error)
	Active(ctx context.Context, userID string) *dto.VoiceSessionsResponse
}

type voiceService struct {
	manager *voice.Manager
	chat    IChatService
	logger  logger.ILogger
}

func NewVoiceService(manager *voice.Manager, chat IChatService, log logger.ILogger) IVoiceService {
	return &voiceService{
		manager: manager,
		chat:    chat,
		logger:  log,
	}
}

func (s *voiceService) Start(_ context.Context, userID string, req *dto.StartVoiceSessionRequest) (voice.Info, error) {
	var utterance *voice.Utterance
	kind := voice.Kind(req.Kind)
	if kind == voice.KindSynthesis {
		volume := 1.0
		if req.Volume != nil {
			volume = *req.Volume
		}
		utterance = voice.NewUtterance(req.Text, volume)
	}

	_, info, err := s.manager.Start(userID, kind, utterance)
	return info, err
}

// Transcript feeds a recognition result; the spoken send command submits the
// accumulated transcript to the chat as a voice message.
func (s *voiceService) Transcript(ctx context.Context, userID, sessionID string, req *dto.VoiceTranscriptRequest) (*dto.VoiceTranscriptResponse, error) {
	res, err := s.manager.Transcript(userID, sessionID, req.Text, req.Final)
	if err != nil {
		return nil, err
	}

	out := &dto.VoiceTranscriptResponse{Session: res.Session, Sent: res.Sent}
	if !res.Sent {
		return out, nil
	}
	if res.Submitted == "" {
		s.logger.Debug("VoiceService", "Send command with empty transcript", map[string]interface{}{"user_id": userID})
		return out, nil
	}

	chat, err := s.chat.SendMessage(ctx, userID, &dto.SendChatMessageRequest{
		Text: res.Submitted,
		Type: string(appstate.MessageTypeVoice),
	})
	if err != nil {
		return nil, err
	}
	out.Chat = chat
	return out, nil
}

func (s *voiceService) Stop(_ context.Context, userID, sessionID string) (voice.Info, error) {
	return s.manager.Stop(userID, sessionID)
}

func (s *voiceService) Active(_ context.Context, userID string) *dto.VoiceSessionsResponse {
	sessions := s.manager.Active(userID)
	if sessions == nil {
		sessions = []voice.Info{}
	}
	return &dto.VoiceSessionsResponse{Sessions: sessions}
}
