package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestFetchDailyHistory(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"days":[{"temp":25,"humidity":60,"precip":0},{"temp":26,"humidity":62,"precip":2}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5*time.Second, zap.NewNop())
	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)

	days, err := client.FetchDailyHistory(context.Background(), "Lahore", from, to)
	if err != nil {
		t.Fatalf("FetchDailyHistory: %v", err)
	}

	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[1].Precip != 2 {
		t.Errorf("expected precip 2, got %v", days[1].Precip)
	}
	if gotPath != "/Lahore/2026-05-01/2026-07-30" {
		t.Errorf("unexpected path %q", gotPath)
	}
	for _, want := range []string{"unitGroup=metric", "include=days", "key=test-key"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestFetchDailyHistory_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad", 5*time.Second, zap.NewNop())
	if _, err := client.FetchDailyHistory(context.Background(), "Lahore", time.Now().AddDate(0, 0, -1), time.Now()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestFetchDailyHistory_EmptyDays(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"days":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", 5*time.Second, zap.NewNop())
	if _, err := client.FetchDailyHistory(context.Background(), "Lahore", time.Now().AddDate(0, 0, -1), time.Now()); err == nil {
		t.Fatal("expected error for empty days")
	}
}
