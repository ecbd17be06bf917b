package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"talent-match/internal/config"
	"talent-match/internal/domain/matching"
	"talent-match/internal/infrastructure/geocoding"
	"talent-match/internal/pkg/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "matchctl"
	envPrefix = "MATCHCTL"
)

// Actual version can be specified in build command.
var version = "unknown"

// Settings are the options shared by every subcommand. They come from flags,
// MATCHCTL_* environment variables or the --config file, in that order.
type Settings struct {
	MatchingConfig string  `mapstructure:"matching-config"`
	Workers        int     `mapstructure:"workers"`
	K              int     `mapstructure:"k"`
	MaxDistanceKm  float64 `mapstructure:"max-distance-km"`
	GeocoderURL    string  `mapstructure:"geocoder-url"`
	Debug          bool    `mapstructure:"debug"`
	JSON           bool    `mapstructure:"json"`
}

type session struct {
	settings Settings
	logger   *logging.Logger
	service  *matching.Service
	geocoder matching.Geocoder
}

// NewRootCmd builds the command tree with its own viper instance so that
// several trees can coexist in tests.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           app,
		Short:         "matchctl scores and ranks job postings against candidate profiles from JSON files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cfgFile == "" {
				return nil
			}
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config %s: %w", cfgFile, err)
			}
			return nil
		},
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "a yaml config file with defaults for the flags below")
	pf.String("matching-config", "", "yaml file with weights and extra known locations")
	pf.Int("workers", 0, "concurrent scorers, 0 means GOMAXPROCS")
	pf.Int("k", matching.DefaultK, "how many ranked results to return")
	pf.Float64("max-distance-km", 0, "drop results farther than this, 0 disables the cutoff")
	pf.String("geocoder-url", "", "Nominatim-compatible search endpoint used after the built-in table")
	pf.BoolP("debug", "d", false, "verbose/debug output")
	pf.BoolP("json", "j", false, "json format for logging")
	for _, name := range []string{"matching-config", "workers", "k", "max-distance-km", "geocoder-url", "debug", "json"} {
		_ = v.BindPFlag(name, pf.Lookup(name))
	}

	load := func() (*session, error) { return newSession(v) }

	root.AddCommand(
		newScoreCmd(load),
		newRankCandidatesCmd(load),
		newRankJobsCmd(load),
		newNearbyCmd(load),
		newDistanceCmd(load),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", app, err)
		return 1
	}
	return 0
}

func newSession(v *viper.Viper) (*session, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}

	level := "info"
	if s.Debug {
		level = "debug"
	}
	logger, err := logging.NewConsole(level, s.JSON)
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	file, err := config.LoadMatchingFile(s.MatchingConfig)
	if err != nil {
		return nil, err
	}

	geocoder := buildGeocoder(s, file, logger)
	svc, err := matching.NewService(matching.ServiceConfig{
		Weights: file.Weights.Apply(matching.DefaultWeights()),
		Workers: s.Workers,
	}, geocoder)
	if err != nil {
		return nil, err
	}

	logger.Debug("matchctl ready", "workers", s.Workers, "k", s.K, "geocoder_url", s.GeocoderURL)
	return &session{settings: s, logger: logger, service: svc, geocoder: geocoder}, nil
}

func buildGeocoder(s Settings, file config.MatchingFile, logger *logging.Logger) matching.Geocoder {
	extra := make([]geocoding.Location, 0, len(file.Locations))
	for _, l := range file.Locations {
		extra = append(extra, geocoding.Location{
			Name:        l.Name,
			Aliases:     l.Aliases,
			Coordinates: matching.Coordinates{Latitude: l.Latitude, Longitude: l.Longitude},
		})
	}
	static := geocoding.NewStaticGeocoder(extra...)
	if s.GeocoderURL == "" {
		return static
	}

	remote := geocoding.NewHTTPGeocoder(config.GeocodingConfig{
		BaseURL:    s.GeocoderURL,
		UserAgent:  app + "/" + version,
		RPS:        1,
		Burst:      1,
		MaxRetries: 2,
	}, logger)
	// No store: the CLI never talks to Redis, so this only collapses
	// concurrent lookups of the same address.
	return geocoding.NewChain(static, geocoding.NewCachedGeocoder(remote, nil, 0, logger))
}

func readJSON(path string, out any) error {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", app, version)
		},
	}
}
