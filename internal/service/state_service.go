package service

import (
	"context"
	"time"

	"ppods-be/internal/dto"
	"ppods-be/internal/pkg/logger"
	"ppods-be/internal/repository/memory"
	"ppods-be/pkg/appstate"
	"ppods-be/pkg/events"
)

type IStateService interface {
	GetState(ctx context.Context, userID string) dto.StateResponse
	SetTheme(ctx context.Context, userID string, theme appstate.Theme) (dto.StateResponse, error)
	SetSystemTheme(ctx context.Context, userID string, theme appstate.Theme) (dto.StateResponse, error)
	UpdateAccessibility(ctx context.Context, userID string, raw map[string]any) (*dto.AccessibilityResponse, error)
	ToggleEmergencyMode(ctx context.Context, userID string) (*dto.EmergencyToggleResponse, error)
	ClearUser(ctx context.Context, userID string) dto.StateResponse
	ListMessages(ctx context.Context, userID string) []appstate.ChatMessage
	AddMessage(ctx context.Context, userID string, req *dto.AddMessageRequest) (*appstate.ChatMessage, error)
}

type stateService struct {
	registry    *memory.StoreRegistry
	publisher   IPublisherService
	safeExitURL string
	strictKeys  bool
	logger      logger.ILogger
}

func NewStateService(registry *memory.StoreRegistry, publisher IPublisherService, safeExitURL string, strictKeys bool, log logger.ILogger) IStateService {
	return &stateService{
		registry:    registry,
		publisher:   publisher,
		safeExitURL: safeExitURL,
		strictKeys:  strictKeys,
		logger:      log,
	}
}

func (s *stateService) GetState(ctx context.Context, userID string) dto.StateResponse {
	return dto.NewStateResponse(s.registry.Get(ctx, userID).Snapshot())
}

func (s *stateService) SetTheme(ctx context.Context, userID string, theme appstate.Theme) (dto.StateResponse, error) {
	store := s.registry.Get(ctx, userID)
	if err := store.SetTheme(ctx, theme); err != nil {
		return dto.StateResponse{}, err
	}
	s.publishChanged(ctx, userID, "theme")
	return dto.NewStateResponse(store.Snapshot()), nil
}

func (s *stateService) SetSystemTheme(ctx context.Context, userID string, theme appstate.Theme) (dto.StateResponse, error) {
	store := s.registry.Get(ctx, userID)
	if err := store.SetSystemTheme(ctx, theme); err != nil {
		return dto.StateResponse{}, err
	}
	s.publishChanged(ctx, userID, "systemTheme")
	return dto.NewStateResponse(store.Snapshot()), nil
}

func (s *stateService) UpdateAccessibility(ctx context.Context, userID string, raw map[string]any) (*dto.AccessibilityResponse, error) {
	patch, unknown, err := decodeSettingsPatch(raw, s.strictKeys, s.logger, userID)
	if err != nil {
		return nil, err
	}

	settings := s.registry.Get(ctx, userID).UpdateAccessibilitySettings(ctx, patch)
	if !patch.IsEmpty() {
		s.publishChanged(ctx, userID, "accessibilitySettings")
	}
	return &dto.AccessibilityResponse{AccessibilitySettings: settings, IgnoredKeys: unknown}, nil
}

func (s *stateService) ToggleEmergencyMode(ctx context.Context, userID string) (*dto.EmergencyToggleResponse, error) {
	active := s.registry.Get(ctx, userID).ToggleEmergencyMode(ctx)

	res := &dto.EmergencyToggleResponse{IsEmergencyMode: active}
	if active {
		res.RedirectURL = s.safeExitURL
	}

	if err := s.publisher.Publish(ctx, events.NewEmergencyModeEvent(userID, active, time.Now())); err != nil {
		// The flag is already committed; the navigation-away still has to happen.
		s.logger.Error("StateService", "Failed to publish emergency event", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}

	s.logger.Info("StateService", "Emergency mode toggled", map[string]interface{}{
		"user_id": userID,
		"active":  active,
	})
	return res, nil
}

func (s *stateService) ClearUser(ctx context.Context, userID string) dto.StateResponse {
	store := s.registry.Get(ctx, userID)
	store.SetUser(ctx, nil)
	return dto.NewStateResponse(store.Snapshot())
}

func (s *stateService) ListMessages(ctx context.Context, userID string) []appstate.ChatMessage {
	return s.registry.Get(ctx, userID).Snapshot().Messages
}

func (s *stateService) AddMessage(ctx context.Context, userID string, req *dto.AddMessageRequest) (*appstate.ChatMessage, error) {
	msg := appstate.ChatMessage{
		ID:            req.ID,
		Sender:        req.Sender,
		Content:       req.Content,
		Type:          appstate.MessageType(req.Type),
		IsUserMessage: req.IsUserMessage,
		Timestamp:     time.Now().UTC(),
	}
	if req.Timestamp != nil {
		msg.Timestamp = req.Timestamp.UTC()
	}

	if err := s.registry.Get(ctx, userID).AddMessage(ctx, msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// publishChanged announces a settings change. Delivery is best effort.
func (s *stateService) publishChanged(ctx context.Context, userID string, fields ...string) {
	if err := s.publisher.Publish(ctx, events.NewStateChangedEvent(userID, fields, time.Now())); err != nil {
		s.logger.Warn("StateService", "Failed to publish state change", map[string]interface{}{
			"user_id": userID,
			"fields":  fields,
			"error":   err.Error(),
		})
	}
}
