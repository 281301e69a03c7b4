package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mobil-koeln/navi-cli/internal/api"
	"github.com/mobil-koeln/navi-cli/internal/cache"
	"github.com/mobil-koeln/navi-cli/internal/config"
	"github.com/mobil-koeln/navi-cli/internal/location"
	"github.com/mobil-koeln/navi-cli/internal/logging"
	"github.com/mobil-koeln/navi-cli/internal/models"
	"github.com/mobil-koeln/navi-cli/internal/navigation"
	"github.com/mobil-koeln/navi-cli/internal/output"
	"github.com/mobil-koeln/navi-cli/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var version = "0.1.0"

// originHere asks the route command to start at the current position
const originHere = "here"

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "navi",
	Short: "Terminal live navigation with Google Directions",
	Long: `navi is a terminal live-navigation client for the Google Directions API.

Features:
  - Driving route between a location and a destination on a terminal map
  - Live navigation: the route is recalculated from your position
  - Position from a fixed coordinate or an NMEA GPS receiver
  - JSON output for scripting
  - Response caching for faster repeated queries

Quick Start:
  1. Write a config:           navi config init
  2. Launch TUI:               navi (or navi tui)
  3. One-off route:            navi route "Gandhi Maidan, Patna" "Patna Junction"
  4. Follow a route:           navi route here "Patna Junction" --watch --at 25.61,85.14
  5. Show your position:       navi locate`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// If no subcommand is provided, launch TUI
		if len(args) == 0 {
			return runTUI(cmd, args)
		}
		return cmd.Help()
	},
}

// Global flags
var (
	flagConfig       string
	flagLogLevel     string
	flagColor        string
	flagAt           string
	flagNoCache      bool
	flagNMEAInterval time.Duration
)

// Output flags
var (
	flagJSON    bool
	flagRawJSON bool
	flagDetails bool
	flagWatch   bool
	flagForce   bool
	flagExpired bool
)

func init() {
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/navi/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error, off")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto", "Color output: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&flagAt, "at", "", "Use a fixed position (lat,lng) instead of the configured source")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Disable response caching")
	rootCmd.PersistentFlags().DurationVar(&flagNMEAInterval, "nmea-interval", 0, "Pace NMEA replay files, e.g. 1s")

	// Route flags
	routeCmd.Flags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	routeCmd.Flags().BoolVar(&flagRawJSON, "raw-json", false, "Output raw API response")
	routeCmd.Flags().BoolVarP(&flagDetails, "details", "v", false, "Show addresses, warnings and copyrights")
	routeCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "Navigate: recalculate from the current position on every refresh")

	// Locate flags
	locateCmd.Flags().BoolVar(&flagJSON, "json", false, "Output as JSON")

	configInitCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "Overwrite an existing config file")
	cacheClearCmd.Flags().BoolVar(&flagExpired, "expired", false, "Only remove expired or unreadable entries")
}

// app holds what every command needs after startup
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

// setup loads the configuration, applies flag overrides and opens the log
func setup() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagAt != "" {
		cfg.Location.Source = config.SourceStatic
		cfg.Location.At = flagAt
	}
	if flagNoCache {
		cfg.Cache.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	logger.Debug("config loaded",
		zap.String("source", cfg.Location.Source),
		zap.Duration("refresh", cfg.Navigation.RefreshInterval),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	return &app{cfg: cfg, logger: logger}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// client creates an API client from the google and cache settings
func (a *app) client() (*api.Client, error) {
	opts := []api.ClientOption{
		api.WithBaseURL(a.cfg.Google.BaseURL),
		api.WithAPIKey(a.cfg.Google.APIKey),
		api.WithTimeout(a.cfg.Google.Timeout),
		api.WithUnits(a.cfg.Google.Units),
		api.WithLogger(a.logger.Named("api")),
	}
	if a.cfg.Google.Language != "" {
		opts = append(opts, api.WithLanguage(a.cfg.Google.Language))
	}

	// Enable caching unless disabled
	if a.cfg.Cache.Enabled {
		opts = append(opts, api.WithFileCache(cache.DefaultCacheDir(), a.cfg.Cache.TTL))
	}

	return api.NewClient(opts...)
}

// source creates the configured position source
func (a *app) source() (location.Source, error) {
	switch a.cfg.Location.Source {
	case config.SourceNMEA:
		opts := []location.NMEAOption{location.WithNMEALogger(a.logger.Named("nmea"))}
		if flagNMEAInterval > 0 {
			opts = append(opts, location.WithReplayInterval(flagNMEAInterval))
		}
		return location.NewNMEASource(a.cfg.Location.Device, opts...), nil
	default:
		at, err := a.cfg.Location.Fixed()
		if err != nil {
			return nil, err
		}
		return location.NewStaticSource(at), nil
	}
}

func (a *app) locationOptions() location.Options {
	return location.Options{
		HighAccuracy: a.cfg.Location.HighAccuracy,
		MaximumAge:   a.cfg.Location.MaximumAge,
		Timeout:      a.cfg.Location.Timeout,
	}
}

// getColorMode returns the color mode based on flag
func getColorMode() output.ColorMode {
	return output.ParseColorMode(flagColor)
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive full-screen TUI",
	Long: `Launch an interactive full-screen terminal UI with route inputs and a map.

Keyboard:
  Tab          Cycle focus: location, destination, map
  Enter        Request directions
  Ctrl+X / x   Clear the route
  Ctrl+N / n   Start or stop live navigation
  c            Center the map (map focus)
  + / -        Zoom (map focus)
  Esc          Dismiss an alert
  q            Quit (map focus)`,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	client, err := a.client()
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}
	source, err := a.source()
	if err != nil {
		return err
	}

	var loadErr error
	if !client.HasAPIKey() {
		loadErr = errors.New("no Google API key configured (set google.apiKey or NAVI_GOOGLE_APIKEY)")
		a.logger.Warn("starting without API key")
	}

	model := tui.New(tui.Config{
		Router:          client,
		Source:          source,
		Logger:          a.logger.Named("tui"),
		RefreshInterval: a.cfg.Navigation.RefreshInterval,
		Watch:           a.locationOptions(),
		Center:          a.cfg.Map.CenterCoordinate(),
		Zoom:            a.cfg.Map.Zoom,
		LoadErr:         loadErr,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

var routeCmd = &cobra.Command{
	Use:   "route <origin> <destination>",
	Short: "Show driving distance and time",
	Long: `Show the driving distance and time of the first route leg.

The origin is a place name, a "lat,lng" coordinate or "here" for the
current position of the configured location source.

Example:
  navi route "Gandhi Maidan, Patna" "Patna Junction"
  navi route 25.6194,85.1447 "Patna Junction" --json
  navi route here "Patna Junction" --watch --at 25.61,85.14`,
	Args: cobra.ExactArgs(2),
	RunE: runRoute,
}

func runRoute(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	client, err := a.client()
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	origin, err := a.resolveOrigin(ctx, args[0])
	if err != nil {
		return err
	}

	nav := navigation.NewController(
		navigation.WithRefreshInterval(a.cfg.Navigation.RefreshInterval),
		navigation.WithLogger(a.logger.Named("route")),
	)
	req, err := nav.RequestRoute(origin, args[1])
	if err != nil {
		return err
	}

	// Raw JSON output
	if flagRawJSON {
		raw, err := client.DirectionsRaw(ctx, req.Query)
		if err != nil {
			return err
		}
		return printPrettyJSON(raw)
	}

	route, err := client.Directions(ctx, req.Query)
	if err := nav.ApplyRoute(req.Seq, route, err); err != nil {
		return err
	}

	// Watch mode
	if flagWatch {
		source, err := a.source()
		if err != nil {
			return err
		}
		screen := output.NewWatchScreen(os.Stdout, output.NewColors(getColorMode()))
		return runWatch(ctx, screen, output.InterruptSignals(), nav, client, source, a.locationOptions(), origin.String())
	}

	// JSON output
	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(nav.Route())
	}

	output.RenderRoute(os.Stdout, nav.Route(), output.RouteOptions{
		Colors:      output.NewColors(getColorMode()),
		ShowDetails: flagDetails,
	})
	return nil
}

// resolveOrigin turns the origin argument into a text or coordinate origin
func (a *app) resolveOrigin(ctx context.Context, arg string) (models.Origin, error) {
	if strings.EqualFold(strings.TrimSpace(arg), originHere) {
		source, err := a.source()
		if err != nil {
			return models.Origin{}, err
		}
		fix, err := source.CurrentPosition(ctx, a.locationOptions())
		if err != nil {
			return models.Origin{}, &navigation.LocationError{Err: err}
		}
		return models.CoordOrigin(fix.Coord), nil
	}
	if c, err := models.ParseCoordinate(arg); err == nil {
		return models.CoordOrigin(c), nil
	}
	return models.TextOrigin(arg), nil
}

// runWatch navigates from the current position until stop fires. Each
// refresh prints one line with the change in duration; stopping prints the
// route from the planned origin once more.
func runWatch(ctx context.Context, screen *output.WatchScreen, stop <-chan os.Signal,
	nav *navigation.Controller, router navigation.Router,
	source location.Source, opts location.Options, origin string) error {
	handle, _, err := nav.StartNavigation()
	if err != nil {
		return err
	}

	ticker := time.NewTicker(handle.Interval)
	defer ticker.Stop()

	screen.Begin(nav.Session().Planned.Destination, handle.Interval)
	defer screen.End()
	screen.Route(time.Now(), origin, nav.Route())

	for {
		select {
		case <-ticker.C:
			if !nav.RefreshDue(handle.ID) {
				return nil
			}

			fix, err := source.CurrentPosition(ctx, opts)
			if err != nil {
				screen.Skipped(time.Now(), nav.PositionFailed(handle.ID, err))
				continue
			}

			req, ok := nav.RefreshQuery(handle.ID, fix.Coord)
			if !ok {
				continue
			}
			route, err := router.Directions(ctx, req.Query)
			if err := nav.ApplyRoute(req.Seq, route, err); err != nil {
				screen.Skipped(time.Now(), err)
				continue
			}
			screen.Route(time.Now(), fix.Coord.String(), nav.Route())

		case <-stop:
			req, ok := nav.StopNavigation()
			if !ok {
				return nil
			}
			route, err := router.Directions(ctx, req.Query)
			if err := nav.ApplyRoute(req.Seq, route, err); err != nil {
				screen.Skipped(time.Now(), err)
				return nil
			}
			screen.Route(time.Now(), req.Query.Origin.String(), nav.Route())
			return nil
		}
	}
}

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Print one position fix from the location source",
	Long: `Print one position fix from the configured location source.

Example:
  navi locate --at 25.5941,85.1376
  NAVI_LOCATION_SOURCE=nmea NAVI_LOCATION_DEVICE=/dev/ttyUSB0 navi locate`,
	Args: cobra.NoArgs,
	RunE: runLocate,
}

func runLocate(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	source, err := a.source()
	if err != nil {
		return err
	}

	fix, err := source.CurrentPosition(context.Background(), a.locationOptions())
	if err != nil {
		return &navigation.LocationError{Err: err}
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Lat  float64   `json:"lat"`
			Lng  float64   `json:"lng"`
			Time time.Time `json:"time"`
		}{fix.Coord.Lat, fix.Coord.Lng, fix.Time})
	}

	output.RenderFix(os.Stdout, fix, output.NewColors(getColorMode()))
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := flagConfig
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.WriteDefault(path, flagForce); err != nil {
			if errors.Is(err, config.ErrExists) {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		shown := *a.cfg
		shown.Google.APIKey = maskKey(shown.Google.APIKey)

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(shown)
	},
}

// maskKey hides all but the last four characters of an API key
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the directions response cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached directions responses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fc, err := cache.NewFileCache(cache.DefaultCacheDir(), 0)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}

		remove := fc.Clear
		if flagExpired {
			remove = fc.Cleanup
		}
		n, err := remove()
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d cached responses from %s\n", n, fc.Dir())
		return nil
	},
}

// printPrettyJSON prints JSON with indentation
func printPrettyJSON(data []byte) error {
	var prettyJSON interface{}
	if err := json.Unmarshal(data, &prettyJSON); err != nil {
		// If we can't parse it, just print raw
		fmt.Println(string(data))
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(prettyJSON)
}
