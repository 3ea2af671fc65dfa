package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DefaultBaseURL   = "https://www.nps.gov"
	DefaultLookupURL = "https://www.mapquestapi.com/search/v2/radius"
)

type Config struct {
	//===============
	// Sources
	//===============
	// Root of the directory site; its page lists every region.
	baseURL url.URL
	// Endpoint of the nearby-place radius search.
	lookupURL url.URL
	// Credential for the lookup API. Sent as a query parameter, never cached or logged.
	apiKey string

	//===============
	// Lookup
	//===============
	// Search radius around the record's postal code, in miles
	searchRadius int
	// Maximum number of nearby places returned per lookup
	maxMatches int

	//===============
	// Fetch
	//===============
	// Maximum time of a single fetch request
	timeout time.Duration
	// User agent that will be used in the request header. In raw string
	userAgent string

	//===============
	// Cache
	//===============
	// Location of the durable cache store
	cacheFile string
	// Keep the cache in memory only; nothing is written to disk
	dryRun bool

	//===============
	// Output
	//===============
	// Render nearby places as a table instead of a bullet list
	tableOutput bool
	// zap level name: debug, info, warn, error
	logLevel string
	// "json" or "console"
	logFormat string
	// Optional rotating log file; logs go to stderr when empty
	logFile string
}

type configDTO struct {
	BaseURL      string        `json:"baseUrl,omitempty"`
	LookupURL    string        `json:"lookupUrl,omitempty"`
	APIKey       string        `json:"apiKey,omitempty"`
	SearchRadius int           `json:"searchRadius,omitempty"`
	MaxMatches   int           `json:"maxMatches,omitempty"`
	Timeout      time.Duration `json:"timeout,omitempty"`
	UserAgent    string        `json:"userAgent,omitempty"`
	CacheFile    string        `json:"cacheFile,omitempty"`
	DryRun       bool          `json:"dryRun,omitempty"`
	TableOutput  bool          `json:"tableOutput,omitempty"`
	LogLevel     string        `json:"logLevel,omitempty"`
	LogFormat    string        `json:"logFormat,omitempty"`
	LogFile      string        `json:"logFile,omitempty"`
}

// envDTO holds the settings that may come from the environment.
// The API key is expected here so it never has to be committed to a config file.
type envDTO struct {
	APIKey    string `env:"PARKS_EXPLORER_API_KEY"`
	CacheFile string `env:"PARKS_EXPLORER_CACHE_FILE"`
	LogLevel  string `env:"PARKS_EXPLORER_LOG_LEVEL"`
	LogFile   string `env:"PARKS_EXPLORER_LOG_FILE"`
}

func newConfigFromDTO(dto configDTO) (*Config, error) {
	cfg := WithDefault()

	if dto.BaseURL != "" {
		u, err := parseAbsoluteURL(dto.BaseURL)
		if err != nil {
			return nil, err
		}
		cfg.baseURL = u
	}
	if dto.LookupURL != "" {
		u, err := parseAbsoluteURL(dto.LookupURL)
		if err != nil {
			return nil, err
		}
		cfg.lookupURL = u
	}
	if dto.APIKey != "" {
		cfg.apiKey = dto.APIKey
	}
	if dto.SearchRadius != 0 {
		cfg.searchRadius = dto.SearchRadius
	}
	if dto.MaxMatches != 0 {
		cfg.maxMatches = dto.MaxMatches
	}
	if dto.Timeout != 0 {
		cfg.timeout = dto.Timeout
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}
	if dto.CacheFile != "" {
		cfg.cacheFile = dto.CacheFile
	}
	cfg.dryRun = dto.DryRun
	cfg.tableOutput = dto.TableOutput
	if dto.LogLevel != "" {
		cfg.logLevel = dto.LogLevel
	}
	if dto.LogFormat != "" {
		cfg.logFormat = dto.LogFormat
	}
	if dto.LogFile != "" {
		cfg.logFile = dto.LogFile
	}

	return cfg, nil
}

// WithConfigFile starts from the defaults and applies the JSON config file at path.
// The result is a builder so flags and environment can still override it.
func WithConfigFile(path string) (*Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(cfgDTO)
}

// WithDefault creates a new Config with default values for all fields.
func WithDefault() *Config {
	baseURL, _ := url.Parse(DefaultBaseURL)
	lookupURL, _ := url.Parse(DefaultLookupURL)
	defaultConfig := Config{
		baseURL:      *baseURL,
		lookupURL:    *lookupURL,
		searchRadius: 10,
		maxMatches:   10,
		timeout:      time.Second * 10,
		userAgent:    "parks-explorer/1.0",
		cacheFile:    defaultCacheFile(),
		dryRun:       false,
		tableOutput:  false,
		logLevel:     "warn",
		logFormat:    "console",
	}
	return &defaultConfig
}

func defaultCacheFile() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		return ".parks-explorer-cache.json"
	}
	return filepath.Join(dir, "parks-explorer", "cache.json")
}

// WithEnv overlays non-empty environment values onto the builder.
func (c *Config) WithEnv() (*Config, error) {
	var dto envDTO
	if err := env.Parse(&dto); err != nil {
		return c, fmt.Errorf("%w: %s", ErrEnvParsingFail, err.Error())
	}
	if dto.APIKey != "" {
		c.apiKey = dto.APIKey
	}
	if dto.CacheFile != "" {
		c.cacheFile = dto.CacheFile
	}
	if dto.LogLevel != "" {
		c.logLevel = dto.LogLevel
	}
	if dto.LogFile != "" {
		c.logFile = dto.LogFile
	}
	return c, nil
}

func (c *Config) WithBaseURL(u url.URL) *Config {
	c.baseURL = u
	return c
}

func (c *Config) WithLookupURL(u url.URL) *Config {
	c.lookupURL = u
	return c
}

func (c *Config) WithAPIKey(key string) *Config {
	c.apiKey = key
	return c
}

func (c *Config) WithSearchRadius(radius int) *Config {
	c.searchRadius = radius
	return c
}

func (c *Config) WithMaxMatches(matches int) *Config {
	c.maxMatches = matches
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithCacheFile(path string) *Config {
	c.cacheFile = path
	return c
}

func (c *Config) WithDryRun(dryRun bool) *Config {
	c.dryRun = dryRun
	return c
}

func (c *Config) WithTableOutput(table bool) *Config {
	c.tableOutput = table
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.logLevel = level
	return c
}

func (c *Config) WithLogFormat(format string) *Config {
	c.logFormat = format
	return c
}

func (c *Config) WithLogFile(path string) *Config {
	c.logFile = path
	return c
}

func (c *Config) Build() (Config, error) {
	if !isAbsoluteHTTP(c.baseURL) {
		return Config{}, fmt.Errorf("%w: base URL must be an absolute http(s) URL, got %q", ErrInvalidConfig, c.baseURL.String())
	}
	if !isAbsoluteHTTP(c.lookupURL) {
		return Config{}, fmt.Errorf("%w: lookup URL must be an absolute http(s) URL, got %q", ErrInvalidConfig, c.lookupURL.String())
	}
	if c.searchRadius <= 0 {
		return Config{}, fmt.Errorf("%w: search radius must be positive", ErrInvalidConfig)
	}
	if c.maxMatches <= 0 {
		return Config{}, fmt.Errorf("%w: max matches must be positive", ErrInvalidConfig)
	}
	if c.timeout <= 0 {
		return Config{}, fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if c.cacheFile == "" && !c.dryRun {
		return Config{}, fmt.Errorf("%w: cache file cannot be empty", ErrInvalidConfig)
	}
	if c.logFormat != "json" && c.logFormat != "console" {
		return Config{}, fmt.Errorf("%w: log format must be json or console, got %q", ErrInvalidConfig, c.logFormat)
	}
	return *c, nil
}

func parseAbsoluteURL(raw string) (url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return url.URL{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}
	if !isAbsoluteHTTP(*u) {
		return url.URL{}, fmt.Errorf("%w: %q is not an absolute http(s) URL", ErrInvalidConfig, raw)
	}
	return *u, nil
}

func isAbsoluteHTTP(u url.URL) bool {
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (c Config) BaseURL() url.URL {
	return c.baseURL
}

func (c Config) LookupURL() url.URL {
	return c.lookupURL
}

func (c Config) APIKey() string {
	return c.apiKey
}

func (c Config) SearchRadius() int {
	return c.searchRadius
}

func (c Config) MaxMatches() int {
	return c.maxMatches
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) CacheFile() string {
	return c.cacheFile
}

func (c Config) DryRun() bool {
	return c.dryRun
}

func (c Config) TableOutput() bool {
	return c.tableOutput
}

func (c Config) LogLevel() string {
	return c.logLevel
}

func (c Config) LogFormat() string {
	return c.logFormat
}

func (c Config) LogFile() string {
	return c.logFile
}
