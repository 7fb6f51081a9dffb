package resource

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeProperties(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "application.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write properties: %v", err)
	}
	return path
}

func TestResolveEnv(t *testing.T) {
	t.Setenv("RESOURCE_TEST_HOST", "redis.internal")

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "literal", value: "metric", want: "metric"},
		{name: "env set", value: "${RESOURCE_TEST_HOST:localhost}", want: "redis.internal"},
		{name: "default", value: "${RESOURCE_TEST_MISSING:8080}", want: "8080"},
		{name: "empty default", value: "${RESOURCE_TEST_MISSING:}", want: ""},
		{name: "no default", value: "${RESOURCE_TEST_MISSING}", want: ""},
		{name: "several", value: "${RESOURCE_TEST_HOST:x}:${RESOURCE_TEST_PORT:6379}", want: "redis.internal:6379"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveEnv(tt.value); got != tt.want {
				t.Fatalf("ResolveEnv(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestInitResolvesPlaceholders(t *testing.T) {
	t.Setenv("RESOURCE_TEST_TOKEN", "secret")
	path := writeProperties(t, `
app:
  name: weather-bot
  token: ${RESOURCE_TEST_TOKEN}
  port: ${RESOURCE_TEST_PORT:8080}
  enabled: ${RESOURCE_TEST_ENABLED:true}
  timeout: ${RESOURCE_TEST_TIMEOUT:10s}
  items:
    - status: ясно
      adjective: ясная
`)

	if err := Init(path); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if got := GetString("app.name"); got != "weather-bot" {
		t.Errorf("app.name = %q", got)
	}
	if got := GetString("app.token"); got != "secret" {
		t.Errorf("app.token = %q", got)
	}
	if got := GetInt("app.port"); got != 8080 {
		t.Errorf("app.port = %d", got)
	}
	if !GetBool("app.enabled") {
		t.Errorf("app.enabled = false")
	}
	if got := GetDuration("app.timeout"); got != 10*time.Second {
		t.Errorf("app.timeout = %v", got)
	}

	var items []struct {
		Status    string `mapstructure:"status"`
		Adjective string `mapstructure:"adjective"`
	}
	if err := UnmarshalKey("app.items", &items); err != nil {
		t.Fatalf("UnmarshalKey: %v", err)
	}
	if len(items) != 1 || items[0].Status != "ясно" || items[0].Adjective != "ясная" {
		t.Errorf("items = %+v", items)
	}
}

func TestInitMissingFile(t *testing.T) {
	if err := Init(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
