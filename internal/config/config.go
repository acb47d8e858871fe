package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults match the reference deployment of the answer URL server.
const (
	DefaultPort            = 3000
	DefaultCallerID        = "+918044784759"
	DefaultDestination     = "+919148227303"
	DefaultShutdownTimeout = 20 * time.Second
	defaultEnv             = "local"
	defaultDotEnvFile      = ".env"
)

// Config holds all configuration required by the answer URL process.
// Values come from the environment, optionally seeded from a .env file.
// Variables already present in the environment win over the file.
type Config struct {
	App    AppConfig
	Answer AnswerConfig
	Log    LogConfig
}

type AppConfig struct {
	Env  string
	Port int

	// MetricsPort serves Prometheus metrics on a separate listener. 0 disables it.
	MetricsPort int

	ShutdownTimeout time.Duration
}

type AnswerConfig struct {
	// CallerID is presented to the bridged party. It must be a number verified
	// with the voice platform account.
	CallerID string

	// DefaultDestination is dialed when the request names no destination.
	DefaultDestination string
}

type LogConfig struct {
	File string
}

// Load reads .env (if present) and then the environment.
func Load() (Config, error) {
	if err := loadDotEnv(defaultDotEnvFile); err != nil {
		return Config{}, err
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := optionalInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}
	{
		n, err := optionalInt("METRICS_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.MetricsPort = n
	}
	{
		d, err := optionalDuration("SHUTDOWN_TIMEOUT")
		if err != nil {
			parseErrs = append(parseErrs, err)
		}
		c.App.ShutdownTimeout = d
	}

	c.Answer.CallerID = strings.TrimSpace(os.Getenv("CALLER_ID"))
	c.Answer.DefaultDestination = strings.TrimSpace(os.Getenv("DEFAULT_DESTINATION"))

	c.Log.File = strings.TrimSpace(os.Getenv("LOG_FILE"))

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ApplyDefaults fills unset values with the reference deployment defaults.
func (c *Config) ApplyDefaults() {
	if c.App.Env == "" {
		c.App.Env = defaultEnv
	}
	if c.App.Port == 0 {
		c.App.Port = DefaultPort
	}
	if c.App.ShutdownTimeout <= 0 {
		c.App.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Answer.CallerID == "" {
		c.Answer.CallerID = DefaultCallerID
	}
	if c.Answer.DefaultDestination == "" {
		c.Answer.DefaultDestination = DefaultDestination
	}
}

func (c Config) Validate() error {
	var errs []error

	if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}
	if c.App.MetricsPort < 0 || c.App.MetricsPort > 65535 {
		errs = append(errs, fmt.Errorf("METRICS_PORT must be a valid port or 0, got %d", c.App.MetricsPort))
	}
	if c.App.MetricsPort != 0 && c.App.MetricsPort == c.App.Port {
		errs = append(errs, errors.New("METRICS_PORT must differ from APP_PORT"))
	}
	if c.App.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}

	if c.Answer.CallerID == "" {
		errs = append(errs, errors.New("CALLER_ID is required"))
	}
	if c.Answer.DefaultDestination == "" {
		errs = append(errs, errors.New("DEFAULT_DESTINATION is required"))
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

// MetricsAddr returns "" when the metrics listener is disabled.
func (c Config) MetricsAddr() string {
	if c.App.MetricsPort == 0 {
		return ""
	}
	return fmt.Sprintf(":%d", c.App.MetricsPort)
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func optionalInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optionalDuration(key string) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration, got %q", key, v)
	}
	return d, nil
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
