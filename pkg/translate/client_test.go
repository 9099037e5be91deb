package translate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

type recordingTranslator struct {
	calls []string
}

func (r *recordingTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	r.calls = append(r.calls, text)
	return fmt.Sprintf("<%s:%s>%s", source, target, text), nil
}

func TestChunks(t *testing.T) {
	long := strings.Repeat("a", 9000)
	chunks := Chunks(long)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks for 9000 chars, got %d", len(chunks))
	}
	if len(chunks[0]) != 4000 || len(chunks[1]) != 4000 || len(chunks[2]) != 1000 {
		t.Errorf("expected chunk sizes 4000/4000/1000, got %d/%d/%d",
			len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}

	if got := Chunks("short"); len(got) != 1 || got[0] != "short" {
		t.Errorf("expected single chunk for short text, got %v", got)
	}
	if got := Chunks(""); got != nil {
		t.Errorf("expected nil for empty text, got %v", got)
	}
	if got := Chunks(strings.Repeat("b", 4000)); len(got) != 1 {
		t.Errorf("expected single chunk at exact limit, got %d", len(got))
	}
}

func TestToEnglish_PassThrough(t *testing.T) {
	tr := &recordingTranslator{}
	out, err := ToEnglish(context.Background(), tr, "hello", "en")
	if err != nil {
		t.Fatalf("ToEnglish: %v", err)
	}
	if out != "hello" {
		t.Errorf("expected pass-through, got %q", out)
	}
	if len(tr.calls) != 0 {
		t.Error("english input must not hit the translator")
	}
}

func TestToEnglish_Translates(t *testing.T) {
	tr := &recordingTranslator{}
	out, err := ToEnglish(context.Background(), tr, "سلام", "ur")
	if err != nil {
		t.Fatalf("ToEnglish: %v", err)
	}
	if out != "<ur:en>سلام" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestFromEnglish_ChunksInOrder(t *testing.T) {
	tr := &recordingTranslator{}
	text := strings.Repeat("x", 4000) + strings.Repeat("y", 4000) + "z"

	out, err := FromEnglish(context.Background(), tr, text, "ur")
	if err != nil {
		t.Fatalf("FromEnglish: %v", err)
	}

	if len(tr.calls) != 3 {
		t.Fatalf("expected 3 translate calls, got %d", len(tr.calls))
	}
	if tr.calls[0] != strings.Repeat("x", 4000) || tr.calls[2] != "z" {
		t.Error("chunks not translated in order")
	}
	if strings.Count(out, " ") < 2 {
		t.Errorf("chunks must be joined with single spaces: %q", out[:50])
	}
}

func TestClient_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"text":"hello"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zap.NewNop())
	out, err := client.Translate(context.Background(), "سلام", "ur", "en")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "hello" {
		t.Errorf("expected hello, got %q", out)
	}
}

func TestClient_Translate_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, zap.NewNop())
	if _, err := client.Translate(context.Background(), "hi", "en", "ur"); err == nil {
		t.Fatal("expected error for non-200")
	}
}
