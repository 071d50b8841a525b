package config

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lukehollenback/gosling/exchange/robinhood"
)

func writeFile(t *testing.T, name string, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)

	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("Failed to write %s. (Error: %s)", name, err)
	}

	return path
}

func TestDefaultsWithoutFile(t *testing.T) {
	t.Setenv(PathEnv, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load defaults. (Error: %s)", err)
	}

	if cfg.BaseURL != robinhood.BaseURL {
		t.Errorf("Expected the default base URL, but got %s.", cfg.BaseURL)
	}

	if cfg.Watch.Interval != 5*time.Second || cfg.Watch.History != 60 {
		t.Errorf("Unexpected watch defaults: %+v", cfg.Watch)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, "gosling.yaml", `
base_url: http://localhost:8080
timeout: 10s
watch:
  interval: 1m
  output_dir: /tmp/quotes
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load the config. (Error: %s)", err)
	}

	if cfg.BaseURL != "http://localhost:8080" || cfg.Timeout != 10*time.Second {
		t.Errorf("The file did not override the defaults: %+v", cfg)
	}

	if cfg.Watch.Interval != time.Minute || cfg.Watch.OutputDir != "/tmp/quotes" {
		t.Errorf("The watch settings were not loaded: %+v", cfg.Watch)
	}

	if cfg.Watch.History != 60 || cfg.UserAgent != "gosling" {
		t.Errorf("Values absent from the file should keep their defaults: %+v", cfg)
	}
}

func TestLoadFromEnvironmentPath(t *testing.T) {
	t.Setenv(PathEnv, writeFile(t, "gosling.yaml", "user_agent: from-env\n"))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load the config. (Error: %s)", err)
	}

	if cfg.UserAgent != "from-env" {
		t.Errorf("Expected the file named by %s to be loaded, but got %+v.", PathEnv, cfg)
	}
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	files := map[string]string{
		"malformed":     "base_url: [",
		"bad interval":  "watch:\n  interval: 0s\n",
		"empty url":     "base_url: \"\"\n",
		"bad duration":  "timeout: soon\n",
		"zero history":  "watch:\n  history: 0\n",
	}

	for name, contents := range files {
		if _, err := Load(writeFile(t, "gosling.yaml", contents)); err == nil {
			t.Errorf("The %s file should have been rejected.", name)
		}
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("A missing file should be rejected when explicitly named.")
	}
}

func TestLoadCredentialsFromDotenv(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

	t.Setenv(robinhood.APIKeyEnv, "")
	t.Setenv(robinhood.PrivateKeyEnv, "")
	t.Setenv(robinhood.PublicKeyEnv, "")

	// NOTE ~> godotenv does not override variables that are already set, even to "", so they are
	//  removed here. t.Setenv restores them afterwards.
	os.Unsetenv(robinhood.APIKeyEnv)
	os.Unsetenv(robinhood.PrivateKeyEnv)
	os.Unsetenv(robinhood.PublicKeyEnv)

	path := writeFile(t, ".env", "ROBINHOOD_API_KEY=rh-api-test\n"+
		"ROBINHOOD_SIGNING_PRIVATE_B64="+key+"\n"+
		"ROBINHOOD_PUBLIC_KEY=pub\n")

	creds, err := LoadCredentials(path)
	if err != nil {
		t.Fatalf("Failed to load credentials. (Error: %s)", err)
	}

	if creds.APIKey() != "rh-api-test" || creds.PublicKey() != "pub" {
		t.Errorf("The credentials were not loaded as expected: %s", creds)
	}
}

func TestLoadCredentialsFailsFast(t *testing.T) {
	t.Setenv(robinhood.APIKeyEnv, "rh-api-test")
	t.Setenv(robinhood.PrivateKeyEnv, base64.StdEncoding.EncodeToString([]byte("too short")))
	t.Setenv(robinhood.PublicKeyEnv, "pub")

	_, err := LoadCredentials(filepath.Join(t.TempDir(), "missing.env"))

	if !errors.Is(err, robinhood.ErrInvalidPrivateKey) {
		t.Errorf("Expected ErrInvalidPrivateKey, but got %v.", err)
	}

	t.Setenv(robinhood.APIKeyEnv, "")

	_, err = LoadCredentials(filepath.Join(t.TempDir(), "missing.env"))

	if !errors.Is(err, robinhood.ErrMissingCredential) {
		t.Errorf("Expected ErrMissingCredential, but got %v.", err)
	}
}
