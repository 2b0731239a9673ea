package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docscout/docscout/internal/providers"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Provider.Type != "openai" {
		t.Errorf("provider type = %q, want openai", cfg.Provider.Type)
	}
	if cfg.Provider.Temperature != 0 {
		t.Errorf("temperature = %v, want 0", cfg.Provider.Temperature)
	}
	if cfg.Scan.WindowItems != 8 || cfg.Scan.WindowBytes != 4096 {
		t.Errorf("window budgets = %d/%d, want 8/4096", cfg.Scan.WindowItems, cfg.Scan.WindowBytes)
	}
	if cfg.Scan.EvidenceCap != 20 || cfg.Scan.MaxSteps != 12 {
		t.Errorf("scan caps = %d/%d, want 20/12", cfg.Scan.EvidenceCap, cfg.Scan.MaxSteps)
	}
	if cfg.Scan.IncludeHeadings {
		t.Error("headings should be excluded by default")
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("DOCSCOUT_TEST_KEY", "sk-secret")

	tests := []struct {
		in   string
		want string
	}{
		{"${DOCSCOUT_TEST_KEY}", "sk-secret"},
		{"prefix-${DOCSCOUT_TEST_KEY}-suffix", "prefix-sk-secret-suffix"},
		{"no refs here", "no refs here"},
		{"${DOCSCOUT_TEST_UNSET}", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ResolveEnvVars(tt.in); got != tt.want {
			t.Errorf("ResolveEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToProviderConfig(t *testing.T) {
	t.Setenv("DOCSCOUT_TEST_KEY", "sk-secret")

	cfg := DefaultConfig()
	cfg.Provider.APIKey = "${DOCSCOUT_TEST_KEY}"
	cfg.Provider.BaseURL = "http://localhost:8080/v1"

	pc := cfg.ToProviderConfig()
	if pc.APIKey != "sk-secret" {
		t.Errorf("APIKey = %q, want resolved env value", pc.APIKey)
	}
	if pc.BaseURL != "http://localhost:8080/v1" || pc.DefaultModel != "gpt-4o-mini" {
		t.Errorf("provider config = %+v", pc)
	}
}

func TestToAgentConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scan.MaxSteps = 7
	cfg.Scan.IncludeHeadings = true

	mock := providers.NewMockClient()
	ac := cfg.ToAgentConfig(mock, nil)

	if ac.Client != providers.LLMClient(mock) {
		t.Error("client not carried through")
	}
	if ac.Model != cfg.Provider.Model {
		t.Errorf("model = %q, want %q", ac.Model, cfg.Provider.Model)
	}
	if ac.MaxSteps != 7 || !ac.IncludeHeadings {
		t.Errorf("scan settings not carried through: %+v", ac)
	}
	if ac.WindowItems != 8 || ac.WindowBytes != 4096 || ac.EvidenceCap != 20 {
		t.Errorf("budgets not carried through: %+v", ac)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	out := string(data)
	if !strings.HasPrefix(out, "# docscout configuration") {
		t.Error("written config missing header comment")
	}
	for _, want := range []string{"provider:", "scan:", "model: gpt-4o-mini", "window_items: 8"} {
		if !strings.Contains(out, want) {
			t.Errorf("written config missing %q:\n%s", want, out)
		}
	}
}
