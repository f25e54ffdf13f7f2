package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"marketdownloader/internal/storage"
)

const (
	ProviderYahoo        = "yahoo"
	ProviderAlphaVantage = "alphavantage"
)

// Providers lists the supported market data providers.
var Providers = []string{ProviderYahoo, ProviderAlphaVantage}

// DefaultTickers are the volatility research indices fetched when none are configured.
var DefaultTickers = []string{"^GSPC", "^VIX", "^IXIC", "^DJI"}

// Config holds all configuration for the market downloader.
type Config struct {
	// What to fetch
	Tickers  []string `mapstructure:"tickers"`
	Period   string   `mapstructure:"period"`
	Interval string   `mapstructure:"interval"`

	// Where and how to save
	OutputDir        string `mapstructure:"output_dir"`
	SaveIndividual   bool   `mapstructure:"save_individual"`
	SaveCombined     bool   `mapstructure:"save_combined"`
	CombinedFilename string `mapstructure:"combined_filename"`
	Format           string `mapstructure:"format"`

	// Provider selection and endpoints (base URLs are configurable for testing)
	Provider            string        `mapstructure:"provider"`
	YahooBaseURL        string        `mapstructure:"yahoo_base_url"`
	AlphavantageBaseURL string        `mapstructure:"alphavantage_base_url"`
	AlphavantageAPIKey  string        `mapstructure:"alphavantage_api_key"`
	HTTPTimeout         time.Duration `mapstructure:"http_timeout"`

	// Output
	LogDir      string `mapstructure:"log_dir"`
	FileLogging bool   `mapstructure:"file_logging"`
	Colors      bool   `mapstructure:"colors"`

	Seed uint64 `mapstructure:"seed"`

	// Describe, when set, prints information about an existing data file
	// instead of downloading.
	Describe string `mapstructure:"describe"`
}

// Flags returns the command-line flags understood by Load.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("marketdownloader", pflag.ContinueOnError)
	fs.StringSlice("tickers", DefaultTickers, "ticker symbols to download")
	fs.String("period", "1y", "data period (1d,5d,1mo,3mo,6mo,1y,2y,5y,10y,ytd,max)")
	fs.String("interval", "1d", "data interval (1m,5m,15m,30m,60m,1h,1d,1wk,1mo,3mo)")
	fs.String("output-dir", "./data/raw", "directory for downloaded files")
	fs.Bool("save-individual", true, "save one file per ticker")
	fs.Bool("save-combined", false, "save all tickers into one XLSX workbook")
	fs.String("combined-filename", "", "combined workbook name (default combined_stocks_{period}.xlsx)")
	fs.String("format", string(storage.FormatCSV), "individual file format (csv, sqlite)")
	fs.String("provider", ProviderYahoo, "market data provider (yahoo, alphavantage)")
	fs.Duration("http-timeout", 30*time.Second, "provider request timeout")
	fs.String("log-dir", "./logs", "directory for the daily log file")
	fs.Bool("file-logging", true, "write a JSON log file")
	fs.Bool("colors", true, "colorize console output")
	fs.Uint64("seed", 42, "random seed")
	fs.String("describe", "", "print information about a data file and exit")
	return fs
}

// Load reads configuration from, in increasing precedence: defaults, an
// optional config.yaml, environment variables and command-line args.
//
// Environment variables use the DOWNLOADER_ prefix (DOWNLOADER_PERIOD,
// DOWNLOADER_OUTPUT_DIR, ...). The Alpha Vantage key is read from
// ALPHAVANTAGE_API_KEY, and the base URLs from YAHOO_BASE_URL and
// ALPHAVANTAGE_BASE_URL.
func Load(args []string) (*Config, error) {
	v := viper.New()

	fs := Flags()
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	v.SetDefault("yahoo_base_url", "https://query2.finance.yahoo.com")
	v.SetDefault("alphavantage_base_url", "https://www.alphavantage.co/query")

	// Flags are bound under the underscore key names
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", bindErr)
	}

	v.SetEnvPrefix("downloader")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.BindEnv("alphavantage_api_key", "ALPHAVANTAGE_API_KEY")
	v.BindEnv("yahoo_base_url", "DOWNLOADER_YAHOO_BASE_URL", "YAHOO_BASE_URL")
	v.BindEnv("alphavantage_base_url", "DOWNLOADER_ALPHAVANTAGE_BASE_URL", "ALPHAVANTAGE_BASE_URL")

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.marketdownloader")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Tickers = splitTickers(config.Tickers)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the fields that cannot be left to the provider.
// Period and interval tokens are passed through unchecked.
func (c *Config) Validate() error {
	var problems []string

	if len(c.Tickers) == 0 && c.Describe == "" {
		problems = append(problems, "at least one ticker is required")
	}
	if !slices.Contains(storage.Formats, storage.Format(c.Format)) {
		problems = append(problems, fmt.Sprintf("unknown format %q", c.Format))
	}
	if !slices.Contains(Providers, c.Provider) {
		problems = append(problems, fmt.Sprintf("unknown provider %q", c.Provider))
	}
	if c.Provider == ProviderAlphaVantage && c.AlphavantageAPIKey == "" {
		problems = append(problems, "ALPHAVANTAGE_API_KEY is required for the alphavantage provider")
	}
	if c.HTTPTimeout <= 0 {
		problems = append(problems, "http_timeout must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// splitTickers flattens comma separated entries, as env values arrive
// as a single string, and drops blanks.
func splitTickers(in []string) []string {
	var out []string
	for _, entry := range in {
		for _, t := range strings.Split(entry, ",") {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}
