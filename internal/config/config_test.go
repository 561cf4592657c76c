package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validConfig = `
schedule: "@every 30m"
sources:
  - name: greenhouse:acme
    type: greenhouse
    company: Acme
    board_token: acme
    enabled: true
  - name: usajobs
    type: usajobs
    keyword: software engineer
    api_key: test-key
    hourly_quota: 30
    enabled: true
filters:
  title_keywords: [engineer]
  remote_only: true
store:
  backend: sqlite
  path: test.db
notification:
  type: log
`

func TestLoad_Valid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Schedule != "@every 30m" {
		t.Errorf("schedule = %q", cfg.Schedule)
	}
	if len(cfg.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(cfg.Sources))
	}
	if cfg.Sources[0].HourlyQuota != defaultHourlyQuota {
		t.Errorf("expected default quota %d, got %d", defaultHourlyQuota, cfg.Sources[0].HourlyQuota)
	}
	if cfg.Sources[1].HourlyQuota != 30 {
		t.Errorf("expected explicit quota 30, got %d", cfg.Sources[1].HourlyQuota)
	}
	if !cfg.Filters.RemoteOnly {
		t.Error("expected remote_only true")
	}
	if cfg.Store.Path != "test.db" {
		t.Errorf("store path = %q", cfg.Store.Path)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
sources:
  - name: lever:globex
    type: lever
    company: Globex
    board_token: globex
    enabled: true
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Schedule != defaultSchedule {
		t.Errorf("expected default schedule, got %q", cfg.Schedule)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.Path != defaultStorePath {
		t.Errorf("expected sqlite defaults, got %+v", cfg.Store)
	}
	if cfg.HTTP.Listen != defaultListenAddr {
		t.Errorf("expected default listen addr, got %q", cfg.HTTP.Listen)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_USAJOBS_KEY", "expanded-secret")

	cfg, err := Load(writeConfig(t, `
sources:
  - name: usajobs
    type: usajobs
    keyword: engineer
    api_key: ${TEST_USAJOBS_KEY}
    enabled: true
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Sources[0].APIKey != "expanded-secret" {
		t.Errorf("expected env expansion, got %q", cfg.Sources[0].APIKey)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"no enabled sources",
			`
sources:
  - name: greenhouse:acme
    type: greenhouse
    company: Acme
    board_token: acme
    enabled: false
`,
			"at least one source",
		},
		{
			"unknown source type",
			`
sources:
  - name: x
    type: teleport
    enabled: true
`,
			"unknown type",
		},
		{
			"duplicate names",
			`
sources:
  - name: a
    type: greenhouse
    company: Acme
    board_token: acme
    enabled: true
  - name: a
    type: lever
    company: Acme
    board_token: acme
    enabled: true
`,
			"duplicate source name",
		},
		{
			"greenhouse without board token",
			`
sources:
  - name: gh
    type: greenhouse
    company: Acme
    enabled: true
`,
			"board_token",
		},
		{
			"mcp without endpoint",
			`
sources:
  - name: mcp
    type: mcp
    enabled: true
`,
			"endpoint",
		},
		{
			"postgres without dsn",
			`
sources:
  - name: gh
    type: greenhouse
    company: Acme
    board_token: acme
    enabled: true
store:
  backend: postgres
`,
			"store.dsn",
		},
		{
			"slack without webhook",
			`
sources:
  - name: gh
    type: greenhouse
    company: Acme
    board_token: acme
    enabled: true
notification:
  type: slack
`,
			"webhook_url",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
