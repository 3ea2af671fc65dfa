package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rohmanhakim/parks-explorer/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile     string
	cacheFile   string
	baseURL     string
	lookupURL   string
	apiKey      string
	timeout     time.Duration
	userAgent   string
	radius      int
	maxMatches  int
	dryRun      bool
	tableOutput bool
	logLevel    string
	logFormat   string
	logFile     string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "parks-explorer",
	Short: "Browse national park sites by state and find places nearby.",
	Long: `parks-explorer is an interactive console program. Pick a state to list
its national sites, then pick a site to search for places around its postal code.

Every page and every search result is kept in a local cache file, so
repeating a lookup never touches the network again.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}

		logger, err := config.InitLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err = runExplorer(ctx, cfg, logger, cmd.InOrStdin(), cmd.OutOrStdout())
		if errors.Is(err, context.Canceled) {
			logger.Info("session interrupted")
			return nil
		}
		if err != nil {
			logger.Error("session ended with error", zap.Error(err))
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/parks-explorer.json)")
	rootCmd.PersistentFlags().StringVar(&cacheFile, "cache-file", "", "cache file path (defaults to the user cache directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a rotating file instead of stderr")

	rootCmd.Flags().StringVar(&baseURL, "base-url", "", "root URL of the park directory site")
	rootCmd.Flags().StringVar(&lookupURL, "lookup-url", "", "radius search API endpoint")
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "radius search API key (prefer PARKS_EXPLORER_API_KEY)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "timeout for HTTP requests")
	rootCmd.Flags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	rootCmd.Flags().IntVar(&radius, "radius", 0, "search radius in miles around the postal code")
	rootCmd.Flags().IntVar(&maxMatches, "max-matches", 0, "maximum number of nearby places")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "use the cache read-only; nothing is written")
	rootCmd.Flags().BoolVar(&tableOutput, "table", false, "print nearby places as a table")

	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}

// InitConfigWithError builds the configuration from, in increasing priority,
// the defaults or the config file, the environment and the command-line flags.
func InitConfigWithError() (config.Config, error) {
	configBuilder := config.WithDefault()
	if cfgFile != "" {
		fromFile, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("error initializing config from file: %w", err)
		}
		configBuilder = fromFile
	}

	configBuilder, err := configBuilder.WithEnv()
	if err != nil {
		return config.Config{}, err
	}

	if baseURL != "" {
		u, err := parseFlagURL("base-url", baseURL)
		if err != nil {
			return config.Config{}, err
		}
		configBuilder = configBuilder.WithBaseURL(u)
	}

	if lookupURL != "" {
		u, err := parseFlagURL("lookup-url", lookupURL)
		if err != nil {
			return config.Config{}, err
		}
		configBuilder = configBuilder.WithLookupURL(u)
	}

	if apiKey != "" {
		configBuilder = configBuilder.WithAPIKey(apiKey)
	}

	if cacheFile != "" {
		configBuilder = configBuilder.WithCacheFile(cacheFile)
	}

	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if radius > 0 {
		configBuilder = configBuilder.WithSearchRadius(radius)
	}

	if maxMatches > 0 {
		configBuilder = configBuilder.WithMaxMatches(maxMatches)
	}

	if dryRun {
		configBuilder = configBuilder.WithDryRun(dryRun)
	}

	if tableOutput {
		configBuilder = configBuilder.WithTableOutput(tableOutput)
	}

	if logLevel != "" {
		configBuilder = configBuilder.WithLogLevel(logLevel)
	}

	if logFormat != "" {
		configBuilder = configBuilder.WithLogFormat(logFormat)
	}

	if logFile != "" {
		configBuilder = configBuilder.WithLogFile(logFile)
	}

	return configBuilder.Build()
}

func parseFlagURL(flag string, raw string) (url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return url.URL{}, fmt.Errorf("%w: --%s: %s", config.ErrInvalidConfig, flag, err.Error())
	}
	return *u, nil
}

func ResetFlags() {
	cfgFile = ""
	cacheFile = ""
	baseURL = ""
	lookupURL = ""
	apiKey = ""
	timeout = 0
	userAgent = ""
	radius = 0
	maxMatches = 0
	dryRun = false
	tableOutput = false
	logLevel = ""
	logFormat = ""
	logFile = ""
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetCacheFileForTest(path string) {
	cacheFile = path
}

func SetBaseURLForTest(raw string) {
	baseURL = raw
}

func SetLookupURLForTest(raw string) {
	lookupURL = raw
}

func SetAPIKeyForTest(key string) {
	apiKey = key
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetRadiusForTest(r int) {
	radius = r
}

func SetMaxMatchesForTest(m int) {
	maxMatches = m
}

func SetDryRunForTest(dry bool) {
	dryRun = dry
}

func SetTableOutputForTest(table bool) {
	tableOutput = table
}

func SetLogLevelForTest(level string) {
	logLevel = level
}

func SetLogFormatForTest(format string) {
	logFormat = format
}

func SetLogFileForTest(path string) {
	logFile = path
}
