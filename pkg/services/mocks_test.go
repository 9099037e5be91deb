package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/agrisense-io/agrisense-engine/pkg/apperrors"
	"github.com/agrisense-io/agrisense-engine/pkg/models"
)

type mockUserRepo struct {
	users     map[uuid.UUID]*models.User
	createErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockUserRepo) GetAll(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

type mockCropRepo struct {
	saved   []*models.CropRecommendation
	saveErr error
}

func (m *mockCropRepo) Save(ctx context.Context, rec *models.CropRecommendation) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, rec)
	return nil
}

func (m *mockCropRepo) GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.CropRecommendation, error) {
	var out []*models.CropRecommendation
	for _, r := range m.saved {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockCropRepo) GetAll(ctx context.Context) ([]*models.CropRecommendation, error) {
	return m.saved, nil
}

type mockDetectionRepo struct {
	saved   []*models.DiseaseDetection
	saveErr error
}

func (m *mockDetectionRepo) Save(ctx context.Context, det *models.DiseaseDetection) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, det)
	return nil
}

func (m *mockDetectionRepo) GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.DiseaseDetection, error) {
	var out []*models.DiseaseDetection
	for _, d := range m.saved {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockDetectionRepo) GetAll(ctx context.Context) ([]*models.DiseaseDetection, error) {
	return m.saved, nil
}

type mockChatRepo struct {
	saved   []*models.ChatLog
	saveErr error
}

func (m *mockChatRepo) Save(ctx context.Context, log *models.ChatLog) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, log)
	return nil
}

func (m *mockChatRepo) GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.ChatLog, error) {
	var out []*models.ChatLog
	for _, l := range m.saved {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockChatRepo) GetLatest(ctx context.Context, limit int) ([]*models.ChatLog, error) {
	if len(m.saved) > limit {
		return m.saved[:limit], nil
	}
	return m.saved, nil
}

type mockWeather struct {
	stats  models.WeatherStats
	cities []string
}

func (m *mockWeather) Stats(ctx context.Context, city string) models.WeatherStats {
	m.cities = append(m.cities, city)
	return m.stats
}

type mockScorer struct {
	scores   []float64
	err      error
	features [][7]float64
}

func (m *mockScorer) Score(ctx context.Context, features [7]float64) ([]float64, error) {
	m.features = append(m.features, features)
	if m.err != nil {
		return nil, m.err
	}
	return m.scores, nil
}

type mockInferrer struct {
	result models.DetectionResult
	paths  []string
}

func (m *mockInferrer) Infer(ctx context.Context, path string) models.DetectionResult {
	m.paths = append(m.paths, path)
	return m.result
}

// mockTranslator "translates" by tagging the text with the target
// language, which lets tests see exactly what was sent where.
type mockTranslator struct {
	calls []string
	err   error
}

func (m *mockTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	m.calls = append(m.calls, source+">"+target+":"+text)
	if m.err != nil {
		return "", m.err
	}
	return "[" + target + "]" + text, nil
}
