package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ppods-be/internal/dto"
	"ppods-be/internal/entity"
	"ppods-be/internal/mapper"
	"ppods-be/internal/pkg/logger"
	"ppods-be/internal/repository/memory"
	"ppods-be/internal/repository/specification"
	"ppods-be/internal/repository/unitofwork"
	"ppods-be/pkg/events"
)

const defaultProfileName = "Friend"

type IProfileService interface {
	GetOrCreate(ctx context.Context, userID, name string) (*dto.ProfileResponse, error)
	Update(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	RecordProgress(ctx context.Context, userID string, req *dto.RecordProgressRequest) (*dto.ProfileResponse, error)
}

type profileService struct {
	uowFactory unitofwork.RepositoryFactory
	registry   *memory.StoreRegistry
	publisher  IPublisherService
	mapper     *mapper.ProfileMapper
	strictKeys bool
	logger     logger.ILogger
}

func NewProfileService(uowFactory unitofwork.RepositoryFactory, registry *memory.StoreRegistry, publisher IPublisherService, strictKeys bool, log logger.ILogger) IProfileService {
	return &profileService{
		uowFactory: uowFactory,
		registry:   registry,
		publisher:  publisher,
		mapper:     mapper.NewProfileMapper(),
		strictKeys: strictKeys,
		logger:     log,
	}
}

func (s *profileService) GetOrCreate(ctx context.Context, userID, name string) (*dto.ProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.ProfileRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}

	if profile == nil {
		name = strings.TrimSpace(name)
		if name == "" {
			name = defaultProfileName
		}
		profile = entity.NewProfile(userID, name)
		if err := uow.ProfileRepository().Create(ctx, profile); err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
		s.logger.Info("ProfileService", "Profile created", map[string]interface{}{"user_id": userID})
	}

	s.mirror(ctx, profile)
	return s.toResponse(profile), nil
}

func (s *profileService) Update(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	patch, _, err := decodeSettingsPatch(req.AccessibilitySettings, s.strictKeys, s.logger, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.modify(ctx, userID, func(p *entity.Profile) {
		if req.Name != nil {
			if name := strings.TrimSpace(*req.Name); name != "" {
				p.Name = name
			}
		}
		p.AccessibilitySettings = patch.Apply(p.AccessibilitySettings)
	})
	if err != nil {
		return nil, err
	}

	s.mirror(ctx, profile)
	s.publishUpdated(ctx, profile)
	return s.toResponse(profile), nil
}

func (s *profileService) RecordProgress(ctx context.Context, userID string, req *dto.RecordProgressRequest) (*dto.ProfileResponse, error) {
	profile, err := s.modify(ctx, userID, func(p *entity.Profile) {
		p.CompleteScenario(req.ScenarioID)
		p.SafetyScore = *req.SafetyScore
	})
	if err != nil {
		return nil, err
	}

	s.mirror(ctx, profile)
	s.publishUpdated(ctx, profile)
	return s.toResponse(profile), nil
}

// modify runs a read-modify-write of the profile inside one transaction.
func (s *profileService) modify(ctx context.Context, userID string, change func(*entity.Profile)) (*entity.Profile, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback()

	profile, err := uow.ProfileRepository().FindOne(ctx, specification.ByID{ID: userID}, specification.ForUpdate{})
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	change(profile)
	if err := uow.ProfileRepository().Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("commit profile: %w", err)
	}
	return profile, nil
}

// mirror copies the stored profile into the user's application store.
func (s *profileService) mirror(ctx context.Context, profile *entity.Profile) {
	s.registry.Get(ctx, profile.Id).SetUser(ctx, s.mapper.ToAppState(profile))
}

func (s *profileService) publishUpdated(ctx context.Context, profile *entity.Profile) {
	evt := events.NewProfileUpdatedEvent(profile.Id, profile.CurrentLevel, time.Now())
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("ProfileService", "Failed to publish profile event", map[string]interface{}{
			"user_id": profile.Id,
			"error":   err.Error(),
		})
	}
}

func (s *profileService) toResponse(p *entity.Profile) *dto.ProfileResponse {
	u := s.mapper.ToAppState(p)
	return &dto.ProfileResponse{
		Id:                    u.ID,
		Name:                  u.Name,
		AccessibilitySettings: u.AccessibilitySettings,
		Progress:              u.Progress,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}
