package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnv_AppliesReferenceDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "APP_PORT", "METRICS_PORT", "SHUTDOWN_TIMEOUT", "CALLER_ID", "DEFAULT_DESTINATION", "LOG_FILE"} {
		t.Setenv(k, "")
	}

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.App.Env != "local" || c.App.Port != 3000 {
		t.Fatalf("unexpected app config: %+v", c.App)
	}
	if c.Answer.CallerID != "+918044784759" || c.Answer.DefaultDestination != "+919148227303" {
		t.Fatalf("unexpected answer config: %+v", c.Answer)
	}
	if c.App.ShutdownTimeout != 20*time.Second {
		t.Fatalf("expected default shutdown timeout, got %s", c.App.ShutdownTimeout)
	}
	if c.MetricsAddr() != "" {
		t.Fatalf("expected metrics disabled by default")
	}
	if c.HTTPAddr() != ":3000" {
		t.Fatalf("unexpected http addr %q", c.HTTPAddr())
	}
}

func TestFromEnv_ReportsAllParseErrors(t *testing.T) {
	t.Setenv("APP_PORT", "abc")
	t.Setenv("METRICS_PORT", "x")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	_, err := FromEnv()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{"APP_PORT", "METRICS_PORT", "SHUTDOWN_TIMEOUT"} {
		if !contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

func TestFromEnv_OverridesFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("METRICS_PORT", "9090")
	t.Setenv("CALLER_ID", "+15550000000")
	t.Setenv("DEFAULT_DESTINATION", "+15551111111")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !c.IsProduction() {
		t.Fatalf("expected production")
	}
	if c.MetricsAddr() != ":9090" {
		t.Fatalf("unexpected metrics addr %q", c.MetricsAddr())
	}
	if c.Answer.CallerID != "+15550000000" || c.Answer.DefaultDestination != "+15551111111" {
		t.Fatalf("unexpected answer config: %+v", c.Answer)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	c := Config{
		App:    AppConfig{Env: "qa", Port: 70000, MetricsPort: 70000, ShutdownTimeout: time.Second},
		Answer: AnswerConfig{CallerID: "+1", DefaultDestination: "+2"},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}

	c = Config{
		App:    AppConfig{Env: "local", Port: 3000, MetricsPort: 3000, ShutdownTimeout: time.Second},
		Answer: AnswerConfig{CallerID: "+1", DefaultDestination: "+2"},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for shared port")
	}
}

func TestLoadDotEnv_MissingFileIsIgnored(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("CALLER_ID=+10000000000\nDEFAULT_DESTINATION=+12223334444\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CALLER_ID", "+19999999999")
	t.Setenv("DEFAULT_DESTINATION", "")
	os.Unsetenv("DEFAULT_DESTINATION")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("CALLER_ID"); got != "+19999999999" {
		t.Fatalf("expected environment to win, got %q", got)
	}
	if got := os.Getenv("DEFAULT_DESTINATION"); got != "+12223334444" {
		t.Fatalf("expected value from file, got %q", got)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
