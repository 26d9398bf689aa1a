package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGeneratorConfig_Bounds(t *testing.T) {
	cases := []struct {
		name string
		cfg  GeneratorConfig
		ok   bool
	}{
		{"defaults", NewDefaultConfig().Generator, true},
		{"too few notes", GeneratorConfig{NoteCount: 1, Density: 0.5}, false},
		{"density above one", GeneratorConfig{NoteCount: 10, Density: 1.5}, false},
		{"negative density", GeneratorConfig{NoteCount: 10, Density: -0.5}, false},
		{"density zero", GeneratorConfig{NoteCount: 10}, true},
		{"density one", GeneratorConfig{NoteCount: 10, Density: 1}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLLMConfig_EmptyModeDefaultsTemplate(t *testing.T) {
	cfg := LLMConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to template: %v", err)
	}
	if cfg.Mode != ContentModeTemplate {
		t.Errorf("mode = %q, want %q", cfg.Mode, ContentModeTemplate)
	}
}

func TestLLMConfig_OpenAIRequiresKey(t *testing.T) {
	cfg := LLMConfig{Mode: ContentModeOpenAI}
	if err := cfg.Validate(); err == nil {
		t.Fatal("openai mode with empty api_key should fail")
	}
	cfg.APIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("openai mode with key should pass: %v", err)
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestFullConfig_GeneratorValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Generator.Density = 3
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch generator error")
	}
}
