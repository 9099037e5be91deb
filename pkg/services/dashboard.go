package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrisense-io/agrisense-engine/pkg/models"
	"github.com/agrisense-io/agrisense-engine/pkg/repositories"
)

// adminChatLogLimit caps the admin dashboard's chat feed.
const adminChatLogLimit = 50

// UserDashboard bundles a farmer's own records.
type UserDashboard struct {
	Recommendations []*models.CropRecommendation `json:"recommendations"`
	Detections      []*models.DiseaseDetection   `json:"detections"`
	ChatLogs        []*models.ChatLog            `json:"chat_logs"`
}

// AdminDashboard bundles every user's records plus summary counts.
type AdminDashboard struct {
	Users           []*models.User               `json:"users"`
	Recommendations []*models.CropRecommendation `json:"recommendations"`
	Detections      []*models.DiseaseDetection   `json:"detections"`
	ChatLogs        []*models.ChatLog            `json:"chat_logs"`
	CropFrequency   map[string]int               `json:"crop_frequency"`
	DiseaseCounts   map[string]int               `json:"disease_counts"`
}

// DashboardService assembles the farmer and admin dashboard views.
type DashboardService interface {
	ForUser(ctx context.Context, userID uuid.UUID) (*UserDashboard, error)
	ForAdmin(ctx context.Context) (*AdminDashboard, error)
}

// dashboardService implements DashboardService.
type dashboardService struct {
	userRepo repositories.UserRepository
	cropRepo repositories.CropRepository
	detRepo  repositories.DetectionRepository
	chatRepo repositories.ChatRepository
	logger   *zap.Logger
}

// NewDashboardService creates a new dashboard service with dependencies.
func NewDashboardService(
	userRepo repositories.UserRepository,
	cropRepo repositories.CropRepository,
	detRepo repositories.DetectionRepository,
	chatRepo repositories.ChatRepository,
	logger *zap.Logger,
) DashboardService {
	return &dashboardService{
		userRepo: userRepo,
		cropRepo: cropRepo,
		detRepo:  detRepo,
		chatRepo: chatRepo,
		logger:   logger,
	}
}

func (s *dashboardService) ForUser(ctx context.Context, userID uuid.UUID) (*UserDashboard, error) {
	recs, err := s.cropRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	dets, err := s.detRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	logs, err := s.chatRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserDashboard{
		Recommendations: recs,
		Detections:      dets,
		ChatLogs:        logs,
	}, nil
}

func (s *dashboardService) ForAdmin(ctx context.Context) (*AdminDashboard, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := s.cropRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	dets, err := s.detRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	logs, err := s.chatRepo.GetLatest(ctx, adminChatLogLimit)
	if err != nil {
		return nil, err
	}

	cropFreq := make(map[string]int)
	for _, r := range recs {
		cropFreq[r.RecommendedCrop]++
	}
	diseaseCounts := make(map[string]int)
	for _, d := range dets {
		diseaseCounts[d.DiseaseName]++
	}

	return &AdminDashboard{
		Users:           users,
		Recommendations: recs,
		Detections:      dets,
		ChatLogs:        logs,
		CropFrequency:   cropFreq,
		DiseaseCounts:   diseaseCounts,
	}, nil
}
