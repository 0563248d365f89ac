package llm

import (
	"errors"
	"testing"
	"time"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MATHSHEET_LLM_PROVIDER", "MATHSHEET_GEMINI_API_KEY", "MATHSHEET_GEMINI_MODEL",
		"MATHSHEET_ANTHROPIC_API_KEY", "MATHSHEET_OPENAI_API_KEY", "MATHSHEET_OPENROUTER_API_KEY",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != "gemini" {
		t.Errorf("provider = %q, want gemini", cfg.Provider)
	}
	if got := resolveModel(cfg.Gemini.Model, geminiModels); got != "gemini-3-pro-preview" {
		t.Errorf("gemini model = %q, want gemini-3-pro-preview", got)
	}
	if cfg.Timeout != 120*time.Second {
		t.Errorf("timeout = %v, want 120s", cfg.Timeout)
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("MATHSHEET_LLM_PROVIDER", "gemini")
	t.Setenv("MATHSHEET_GEMINI_API_KEY", "g-key")
	t.Setenv("MATHSHEET_GEMINI_MODEL", "gemini-flash")

	cfg := ConfigFromEnv()
	if cfg.Provider != "gemini" || cfg.Gemini.APIKey != "g-key" || cfg.Gemini.Model != "gemini-flash" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestResolveConfig(t *testing.T) {
	t.Run("nothing configured", func(t *testing.T) {
		clearLLMEnv(t)
		_, err := ResolveConfig()
		if !errors.Is(err, ErrNoProvider) {
			t.Fatalf("err = %v, want ErrNoProvider", err)
		}
	})

	t.Run("discovers gemini key", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("GEMINI_API_KEY", "k")
		cfg, err := ResolveConfig()
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Provider != "gemini" || cfg.Gemini.APIKey != "k" {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("explicit provider without key", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("MATHSHEET_LLM_PROVIDER", "openrouter")
		if _, err := ResolveConfig(); err == nil {
			t.Fatal("expected validation error")
		}
	})
}

func TestConfigOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Override("openrouter", "anthropic/claude-3-haiku", 5*time.Second)
	if cfg.Provider != "openrouter" {
		t.Errorf("provider = %q", cfg.Provider)
	}
	if cfg.OpenRouter.Model != "anthropic/claude-3-haiku" {
		t.Errorf("openrouter model = %q", cfg.OpenRouter.Model)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}

	cfg = DefaultConfig()
	cfg.Override("", "", 0)
	if cfg != DefaultConfig() {
		t.Errorf("empty override changed config: %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"gemini without key", Config{Provider: "gemini"}, true},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "g-key"}}, false},
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-ant"}}, false},
		{"openrouter without key", Config{Provider: "openrouter"}, true},
		{"offline mock needs no key", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "mathpix"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFromEnv_AnthropicGateway(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("MATHSHEET_LLM_PROVIDER", "anthropic")
	t.Setenv("MATHSHEET_ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("MATHSHEET_ANTHROPIC_BASE_URL", "https://gateway.example/anthropic")

	cfg := ConfigFromEnv()
	if cfg.Anthropic.BaseURL != "https://gateway.example/anthropic" {
		t.Fatalf("base URL = %q", cfg.Anthropic.BaseURL)
	}
}
