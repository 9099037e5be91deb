package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrisense-io/agrisense-engine/pkg/apperrors"
	"github.com/agrisense-io/agrisense-engine/pkg/auth"
	"github.com/agrisense-io/agrisense-engine/pkg/models"
	"github.com/agrisense-io/agrisense-engine/pkg/services"
)

const testSecret = "test-signing-secret"

// testAuth builds a real issuer-backed middleware for handler tests.
func testAuth(t *testing.T) (*auth.Issuer, *auth.SessionStore, *auth.Middleware) {
	t.Helper()
	issuer := auth.NewIssuer(testSecret, time.Hour, 24*time.Hour)
	sessions := auth.NewSessionStore(testSecret)
	return issuer, sessions, auth.NewMiddleware(issuer, sessions, zap.NewNop())
}

// authorize attaches a valid access token for the given user.
func authorize(t *testing.T, r *http.Request, issuer *auth.Issuer, userID uuid.UUID, role string) {
	t.Helper()
	token, err := issuer.IssueAccess(userID, "test@example.com", role)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	r.Header.Set("Authorization", "Bearer "+token)
}

type mockUserService struct {
	registered *models.User
	authedUser *models.User
	authErr    error
	regErr     error
	users      []*models.User
}

func (m *mockUserService) Register(ctx context.Context, name, email, password, role string) (*models.User, error) {
	if m.regErr != nil {
		return nil, m.regErr
	}
	m.registered = &models.User{ID: uuid.New(), Name: name, Email: email, Role: role}
	if role == "" {
		m.registered.Role = models.RoleFarmer
	}
	return m.registered, nil
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if m.authErr != nil {
		return nil, m.authErr
	}
	return m.authedUser, nil
}

func (m *mockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	if m.authedUser != nil && m.authedUser.ID == id {
		return m.authedUser, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockUserService) GetAll(ctx context.Context) ([]*models.User, error) {
	return m.users, nil
}

type mockRecommendationService struct {
	rec     *models.CropRecommendation
	err     error
	history []*models.CropRecommendation
}

func (m *mockRecommendationService) Recommend(ctx context.Context, userID uuid.UUID, city string, soil models.SoilData) (*models.CropRecommendation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rec, nil
}

func (m *mockRecommendationService) History(ctx context.Context, userID uuid.UUID) ([]*models.CropRecommendation, error) {
	return m.history, nil
}

type mockDetectionService struct {
	result    *models.EnrichedDetection
	imageURL  string
	err       error
	history   []*models.DiseaseDetection
	available bool
	filename  string
	data      []byte
}

func (m *mockDetectionService) Detect(ctx context.Context, userID uuid.UUID, filename string, data []byte) (*models.EnrichedDetection, string, error) {
	m.filename = filename
	m.data = data
	if m.err != nil {
		return nil, "", m.err
	}
	return m.result, m.imageURL, nil
}

func (m *mockDetectionService) History(ctx context.Context, userID uuid.UUID) ([]*models.DiseaseDetection, error) {
	return m.history, nil
}

func (m *mockDetectionService) Available() bool { return m.available }

type mockChatService struct {
	answer   string
	err      error
	message  string
	language string
}

func (m *mockChatService) Ask(ctx context.Context, userID uuid.UUID, text, language string) (string, error) {
	m.message = text
	m.language = language
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

type mockDashboardService struct {
	user  *services.UserDashboard
	admin *services.AdminDashboard
	err   error
}

func (m *mockDashboardService) ForUser(ctx context.Context, userID uuid.UUID) (*services.UserDashboard, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockDashboardService) ForAdmin(ctx context.Context) (*services.AdminDashboard, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.admin, nil
}
