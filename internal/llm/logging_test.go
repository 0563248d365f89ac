package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/mathsheet/internal/store"
)

func openEventRepo(t *testing.T) store.EventRepo {
	t.Helper()
	s, err := store.Open("file:llm_" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.EventRepo()
}

func TestLoggingProvider_RecordsSuccessAndFailure(t *testing.T) {
	repo := openEventRepo(t)
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"problems":[]}`), Usage: Usage{InputTokens: 12, OutputTokens: 34}},
		MockResponse{Err: &ErrRateLimit{RetryAfter: time.Second}},
	)
	p := WithLogging(mock, repo)
	ctx := WithPurpose(context.Background(), "problem-gen")

	req := Request{
		System:   "당신은 수학 교사입니다.",
		Messages: []Message{{Role: RoleUser, Content: "문제를 만들어 주세요"}},
		Schema:   &Schema{Name: "problem-set", Definition: map[string]any{"type": "object"}},
	}
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := p.Generate(ctx, req); err == nil {
		t.Fatal("expected error from second call")
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}

	failed, ok := events[0], events[1]
	if ok.Provider != "mock" || ok.Model != "mock" || ok.Purpose != "problem-gen" {
		t.Errorf("ok event = %+v", ok)
	}
	if !ok.Success || ok.InputTokens != 12 || ok.OutputTokens != 34 {
		t.Errorf("ok usage = %+v", ok)
	}
	if ok.ResponseBody != `{"problems":[]}` {
		t.Errorf("response body = %q", ok.ResponseBody)
	}
	for _, want := range []string{"[system]", "당신은 수학 교사입니다.", "[user]", "[schema: problem-set]"} {
		if !strings.Contains(ok.RequestBody, want) {
			t.Errorf("request body missing %q:\n%s", want, ok.RequestBody)
		}
	}
	if failed.Success || failed.ErrorMessage == "" {
		t.Errorf("failed event = %+v", failed)
	}
}

func TestLoggingProvider_KeepsRejectedProblemSet(t *testing.T) {
	repo := openEventRepo(t)
	bad := json.RawMessage(`{"problems":[{"question":"?"}]}`)
	mock := NewMockProvider(MockResponse{Err: &ErrInvalidResponse{Schema: "problem-set", Content: bad, Err: errors.New("missing options")}})

	ctx := WithPurpose(context.Background(), PurposeLevelTest)
	if _, err := WithLogging(mock, repo).Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "레벨 테스트"}}}); err == nil {
		t.Fatal("expected error")
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil || len(events) != 1 {
		t.Fatalf("events = %v, err = %v", events, err)
	}
	ev := events[0]
	if ev.ResponseBody != string(bad) || ev.Purpose != "level-test" {
		t.Errorf("event = %+v", ev)
	}
	if !strings.Contains(ev.ErrorMessage, "invalid problem-set response") {
		t.Errorf("error message = %q", ev.ErrorMessage)
	}
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestTimeoutProvider(t *testing.T) {
	p := WithTimeout(slowProvider{}, 20*time.Millisecond)
	start := time.Now()
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if time.Since(start) > time.Second {
		t.Errorf("timeout took %v", time.Since(start))
	}

	if WithTimeout(slowProvider{}, 0) != (slowProvider{}) {
		t.Error("zero timeout should return the provider unchanged")
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("model = %q", p.ModelID())
	}

	if _, err := NewProvider(context.Background(), Config{Provider: "nope"}, nil); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewProvider_OpenRouterWrapped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "openrouter"
	cfg.OpenRouter.APIKey = "sk-or-test"
	p, err := NewProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "google/gemini-3-pro-preview" {
		t.Errorf("model = %q", p.ModelID())
	}
}
