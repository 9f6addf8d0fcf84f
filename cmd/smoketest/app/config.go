package app

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/agentstation/smoketest/internal/cmd/cmdutil"
	"github.com/agentstation/smoketest/internal/envfile"
	"github.com/agentstation/smoketest/pkg/constants"
	"github.com/agentstation/smoketest/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Discovery and probing
	Root    string
	Pattern string
	Timeout time.Duration
	Ports   map[string]string

	// Logging configuration
	LogLevel    string // --log-level flag
	EnvLogLevel string // LOG_LEVEL environment variable
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. SMOKETEST_* environment variables
// 3. .env files
// 4. Config file (configFile, or .smoketest.yaml in the working directory or $HOME)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	if _, err := envfile.Load("."); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("root", ".")
	v.SetDefault("pattern", constants.DefaultSpecPattern)
	v.SetDefault("timeout", constants.DefaultProbeTimeout)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(constants.ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "failed to read config file: "+err.Error(), err)
		}
	}

	timeout, err := parseTimeout(v.Get("timeout"))
	if err != nil {
		return nil, err
	}

	ports := v.GetStringMapString("ports")
	for service, port := range ports {
		if err := cmdutil.ValidatePort(port); err != nil {
			return nil, errors.NewConfigError("config", "invalid port for "+service+": "+err.Error(), err)
		}
	}

	return &Config{
		Verbose:    v.GetBool("verbose"),
		Quiet:      v.GetBool("quiet"),
		NoColor:    v.GetBool("no_color"),
		Format:     v.GetString("format"),
		ConfigFile: v.ConfigFileUsed(),

		Root:    v.GetString("root"),
		Pattern: v.GetString("pattern"),
		Timeout: timeout,
		Ports:   ports,

		EnvLogLevel: os.Getenv("LOG_LEVEL"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}, nil
}

// Flags holds the global flag values after parsing.
type Flags struct {
	Verbose  bool
	Quiet    bool
	NoColor  bool
	Format   string
	LogLevel string
	Root     string
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(f Flags) {
	c.Verbose = c.Verbose || f.Verbose
	c.Quiet = c.Quiet || f.Quiet
	c.NoColor = c.NoColor || f.NoColor
	if f.Format != "" {
		c.Format = f.Format
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	if f.Root != "" {
		c.Root = f.Root
	}
}

// parseTimeout accepts durations ("5s", "250ms") and bare numbers of milliseconds.
func parseTimeout(raw any) (time.Duration, error) {
	var d time.Duration
	switch t := raw.(type) {
	case int, int64, float64:
		d = time.Duration(cast.ToFloat64(t) * float64(time.Millisecond))
	case time.Duration:
		d = t
	default:
		s := cast.ToString(t)
		if n, err := cast.ToFloat64E(s); err == nil {
			d = time.Duration(n * float64(time.Millisecond))
			break
		}
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return 0, errors.NewConfigError("config", "invalid timeout "+s, err)
		}
		d = parsed
	}
	if d <= 0 {
		return 0, errors.NewConfigError("config", "timeout must be positive", nil)
	}
	return d, nil
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
