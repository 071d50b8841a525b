package config

import (
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lukehollenback/gosling/exchange/robinhood"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	PathEnv = "GOSLING_CONFIG"
)

//
// Config holds the non-secret settings of the command line client. Secrets never live here; see
// LoadCredentials.
//
type Config struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	Watch     WatchConfig   `yaml:"watch"`
}

//
// WatchConfig holds the settings of the quote watcher.
//
type WatchConfig struct {
	Interval  time.Duration `yaml:"interval"`
	History   int           `yaml:"history"`
	OutputDir string        `yaml:"output_dir"`
}

//
// Default returns the settings used when no configuration file is provided.
//
func Default() *Config {
	return &Config{
		BaseURL:   robinhood.BaseURL,
		Timeout:   30 * time.Second,
		UserAgent: "gosling",
		Watch: WatchConfig{
			Interval: 5 * time.Second,
			History:  60,
		},
	}
}

//
// Load reads the YAML settings file at the provided path, falling back to the path named by the
// GOSLING_CONFIG environment variable. Values absent from the file keep their defaults. When no path
// is available at all, the defaults are returned.
//
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(PathEnv)
	}

	if path == "" {
		return cfg, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file %s", path)
	}

	return cfg, nil
}

func (o *Config) validate() error {
	if o.BaseURL == "" {
		return errors.New("base_url must not be empty")
	}

	if o.Timeout < 0 {
		return errors.Errorf("timeout must not be negative (%s)", o.Timeout)
	}

	if o.Watch.Interval <= 0 {
		return errors.Errorf("watch.interval must be positive (%s)", o.Watch.Interval)
	}

	if o.Watch.History <= 0 {
		return errors.Errorf("watch.history must be positive (%d)", o.Watch.History)
	}

	return nil
}

//
// LoadCredentials loads the API key, private signing key, and public key from the environment. The
// provided dotenv files (".env" when none are provided) are loaded first if they exist; variables
// that are already set in the environment take precedence over them.
//
func LoadCredentials(envFiles ...string) (*robinhood.Credentials, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "failed to load %s", f)
		}
	}

	return robinhood.NewCredentials(
		os.Getenv(robinhood.APIKeyEnv),
		os.Getenv(robinhood.PrivateKeyEnv),
		os.Getenv(robinhood.PublicKeyEnv),
	)
}
