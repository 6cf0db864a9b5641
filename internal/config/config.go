// Package config handles the parsing and validation of application configuration
// from command-line arguments, environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/woozymasta/dstone/internal/logger"
	"github.com/woozymasta/dstone/internal/vars"
)

// Config represents the complete application flags configuration.
type Config struct {
	// betteralign:ignore

	Server    Server        `group:"Server Options" env-namespace:"DSTONE"`
	Storage   Storage       `group:"Storage Options" namespace:"db" env-namespace:"DSTONE_DB"`
	Lobby     Lobby         `group:"Lobby Options" namespace:"lobby" env-namespace:"DSTONE_LOBBY"`
	Bot       Bot           `group:"Bot Options" namespace:"bot" env-namespace:"DSTONE_BOT"`
	GeoIP     GeoIP         `group:"GeoIP Options" namespace:"geoip" env-namespace:"DSTONE_GEOIP"`
	RateLimit RateLimit     `group:"Rate Limit Options" namespace:"rate-limit" env-namespace:"DSTONE_RATE_LIMIT"`
	Logger    logger.Config `group:"Logger Options" namespace:"log" env-namespace:"DSTONE_LOG"`

	Version bool `short:"v" long:"version" description:"Print version and build info"`
}

// Server holds web server configuration.
type Server struct {
	// betteralign:ignore

	Address    string `short:"l" long:"address" env:"LISTEN_ADDRESS" description:"Server listen address" default:":8080"`
	AuthToken  string `short:"t" long:"auth-token" env:"AUTH_TOKEN" description:"Admin API bearer token, admin API disabled when empty"`
	TrustProxy bool   `long:"trust-proxy" env:"TRUST_PROXY" description:"Trust X-Forwarded-For headers"`
	MaxBody    int64  `long:"max-body-size" env:"MAX_BODY_SIZE" description:"Max body size for incoming requests" default:"4096"`
}

// Storage holds database configuration and maintenance actions.
type Storage struct {
	// betteralign:ignore

	Path          string `short:"d" long:"path" env:"PATH" description:"Path to SQLite database" default:"dstone.db"`
	Refresh       bool   `long:"refresh" description:"Run one lobby poll, store the snapshot and exit"`
	Remove        string `long:"remove" description:"Delete the snapshot row with this room key and exit"`
	PruneNA       bool   `long:"prune-na" description:"Delete snapshot rows without a room name and exit"`
	GenerateCount int    `long:"gen-fake-data" hidden:"true"`
}

// Lobby holds upstream lobby API configuration.
type Lobby struct {
	// betteralign:ignore

	Token       string        `long:"token" env:"TOKEN" description:"Lobby API token used for room detail requests"`
	Regions     []string      `short:"r" long:"region" env:"REGIONS" env-delim:"," description:"Lobby regions, in detail lookup priority order" default:"ap-east-1"`
	Platforms   []string      `short:"p" long:"platform" env:"PLATFORMS" env-delim:"," description:"Lobby platforms polled for the snapshot" default:"Steam" default:"Rail"`
	Interval    time.Duration `short:"i" long:"interval" env:"INTERVAL" description:"Snapshot poll interval" default:"2m"`
	Timeout     time.Duration `long:"timeout" env:"TIMEOUT" description:"Outbound request timeout, 0 disables it" default:"0"`
	ListURL     string        `long:"list-url" env:"LIST_URL" description:"Summary endpoint template, {region} and {platform} are substituted" default:"https://lobby-v2-cdn.klei.com/{region}-{platform}.json.gz"`
	ReadURL     string        `long:"read-url" env:"READ_URL" description:"Detail endpoint template, {region} is substituted" default:"https://lobby-v2-{region}.klei.com/lobby/read"`
	PollOnStart bool          `long:"poll-on-start" env:"POLL_ON_START" description:"Poll once immediately instead of waiting for the first interval"`
}

// Bot holds chat command configuration.
type Bot struct {
	// betteralign:ignore

	Authority     int      `long:"authority" env:"AUTHORITY" description:"Authority level required to run commands" default:"1"`
	UserAuthority int      `long:"user-authority" env:"USER_AUTHORITY" description:"Authority level of regular chat users" default:"1"`
	Operators     []string `long:"operator" env:"OPERATORS" env-delim:"," description:"Chat user ids granted operator authority"`
	SearchAliases []string `long:"search-alias" env:"SEARCH_ALIASES" env-delim:"," description:"Aliases of the room search command" default:"/查房"`
	DetailAliases []string `long:"detail-alias" env:"DETAIL_ALIASES" env-delim:"," description:"Aliases of the room detail command" default:"." default:"。"`
	MaxResults    int      `long:"max-results" env:"MAX_RESULTS" description:"Max rooms listed by a search, 0 lists all" default:"0"`
}

// GeoIP holds MaxMind GeoIP configuration.
type GeoIP struct {
	// betteralign:ignore

	Path     string        `short:"g" long:"path" env:"PATH" description:"Path to MMDB file, country lookup disabled when empty" default:""`
	URL      string        `long:"url" env:"URL" description:"URL to download MMDB" default:"https://git.io/GeoLite2-Country.mmdb"`
	Interval time.Duration `long:"interval" env:"INTERVAL" description:"Update interval check" default:"24h"`
}

// RateLimit holds command webhook rate limiting configuration.
type RateLimit struct {
	// betteralign:ignore

	Count  int           `long:"count" env:"COUNT" description:"Commands allowed per client IP within the window" default:"30"`
	Window time.Duration `long:"window" env:"WINDOW" description:"Rate limit window duration" default:"1m"`
}

// ErrMissingToken is returned by Validate when no lobby token is configured.
var ErrMissingToken = errors.New("required flag `--lobby-token' or environment variable `DSTONE_LOBBY_TOKEN' was not specified")

// Parse reads the configuration from .env, flags and environment variables.
// It terminates the application if the configuration is invalid or if the help flag is invoked.
func Parse() *Config {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := ParseArgs(os.Args[1:])
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if cfg.Version {
		vars.Print()
		os.Exit(0)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	return cfg
}

// ParseArgs parses args into a Config without touching the process state.
func ParseArgs(args []string) (*Config, error) {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.NamespaceDelimiter = "-"

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the values go-flags cannot express as constraints.
func (c *Config) Validate() error {
	if c.Lobby.Token == "" {
		return ErrMissingToken
	}
	if len(c.Lobby.Regions) == 0 {
		return errors.New("at least one lobby region is required")
	}
	if c.Lobby.Interval <= 0 {
		return fmt.Errorf("lobby interval must be positive, got %s", c.Lobby.Interval)
	}

	return nil
}
