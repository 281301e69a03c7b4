package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/mobil-koeln/navi-cli/internal/models"
	"github.com/pkg/errors"
)

const (
	// EnvPrefix marks environment variables that override file values,
	// e.g. NAVI_GOOGLE_APIKEY -> google.apiKey
	EnvPrefix = "NAVI_"

	fileName = "config.yaml"
)

// Location source kinds
const (
	SourceStatic = "static"
	SourceNMEA   = "nmea"
)

// Config is the complete application configuration
type Config struct {
	Google     GoogleConfig     `koanf:"google" yaml:"google"`
	Navigation NavigationConfig `koanf:"navigation" yaml:"navigation"`
	Location   LocationConfig   `koanf:"location" yaml:"location"`
	Map        MapConfig        `koanf:"map" yaml:"map"`
	Cache      CacheConfig      `koanf:"cache" yaml:"cache"`
	Log        LogConfig        `koanf:"log" yaml:"log"`
}

// GoogleConfig configures the Directions client
type GoogleConfig struct {
	APIKey   string        `koanf:"apiKey" yaml:"apiKey"`
	BaseURL  string        `koanf:"baseUrl" yaml:"baseUrl" validate:"required,url"`
	Timeout  time.Duration `koanf:"timeout" yaml:"timeout" validate:"gt=0"`
	Language string        `koanf:"language" yaml:"language"`
	Units    string        `koanf:"units" yaml:"units" validate:"oneof=metric imperial"`
}

// NavigationConfig configures live navigation
type NavigationConfig struct {
	RefreshInterval time.Duration `koanf:"refreshInterval" yaml:"refreshInterval" validate:"gte=1s"`
}

// LocationConfig selects and tunes the device position source
type LocationConfig struct {
	Source       string        `koanf:"source" yaml:"source" validate:"oneof=static nmea"`
	At           string        `koanf:"at" yaml:"at" validate:"omitempty,latlng"`
	Device       string        `koanf:"device" yaml:"device" validate:"required_if=Source nmea"`
	HighAccuracy bool          `koanf:"highAccuracy" yaml:"highAccuracy"`
	MaximumAge   time.Duration `koanf:"maximumAge" yaml:"maximumAge" validate:"gte=0"`
	Timeout      time.Duration `koanf:"timeout" yaml:"timeout" validate:"gt=0"`
}

// MapConfig configures the terminal map camera
type MapConfig struct {
	Center CenterConfig `koanf:"center" yaml:"center"`
	Zoom   int          `koanf:"zoom" yaml:"zoom" validate:"gte=1,lte=19"`
}

// CenterConfig is the default camera position
type CenterConfig struct {
	Lat float64 `koanf:"lat" yaml:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `koanf:"lng" yaml:"lng" validate:"gte=-180,lte=180"`
}

// CacheConfig configures the Directions response cache
type CacheConfig struct {
	Enabled bool          `koanf:"enabled" yaml:"enabled"`
	TTL     time.Duration `koanf:"ttl" yaml:"ttl" validate:"gte=0"`
}

// LogConfig configures the file logger
type LogConfig struct {
	Level string `koanf:"level" yaml:"level" validate:"oneof=debug info warn error off"`
	File  string `koanf:"file" yaml:"file"`
}

// defaults holds every known key; durations are strings so that the same
// map can be written out by `config init`
var defaults = map[string]any{
	"google.apiKey":              "",
	"google.baseUrl":             "https://maps.googleapis.com/maps/api",
	"google.timeout":             "10s",
	"google.language":            "",
	"google.units":               "metric",
	"navigation.refreshInterval": "10s",
	"location.source":            SourceStatic,
	"location.at":                "",
	"location.device":            "",
	"location.highAccuracy":      true,
	"location.maximumAge":        "0s",
	"location.timeout":           "5s",
	"map.center.lat":             25.5941,
	"map.center.lng":             85.1376,
	"map.zoom":                   15,
	"cache.enabled":              true,
	"cache.ttl":                  "90s",
	"log.level":                  "info",
	"log.file":                   "",
}

// CenterCoordinate returns the default camera position
func (m MapConfig) CenterCoordinate() models.Coordinate {
	return models.Coordinate{Lat: m.Center.Lat, Lng: m.Center.Lng}
}

// Fixed returns the configured static position, nil when unset
func (l LocationConfig) Fixed() (*models.Coordinate, error) {
	if strings.TrimSpace(l.At) == "" {
		return nil, nil
	}
	c, err := models.ParseCoordinate(l.At)
	if err != nil {
		return nil, errors.Wrap(err, "location.at")
	}
	return &c, nil
}

// DefaultPath returns the config file location under the XDG config dir
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "navi", fileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fileName
	}
	return filepath.Join(home, ".config", "navi", fileName)
}

// Load reads defaults, then the config file, then NAVI_* environment
// variables. An explicit path must exist; without one the default path and
// ./navi.yaml are tried and a missing file is not an error.
func Load(path string) (*Config, error) {
	k, err := newKoanf()
	if err != nil {
		return nil, err
	}

	configFile, err := findConfigFile(path)
	if err != nil {
		return nil, err
	}
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config %s failed", configFile)
		}
	}

	existing := k.Raw()
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return canonicalizeEnvKey(strings.TrimPrefix(key, EnvPrefix), existing), value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	cfg, err := decode(k)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the built-in configuration, ignoring files and environment
func Default() *Config {
	k, err := newKoanf()
	if err == nil {
		var cfg *Config
		if cfg, err = decode(k); err == nil {
			return cfg
		}
	}
	// defaults are static; failing here is a programming error
	panic(err)
}

func newKoanf() (*koanf.Koanf, error) {
	k := koanf.New(".")
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, errors.Wrapf(err, "set default %s", key)
		}
	}
	return k, nil
}

func decode(k *koanf.Koanf) (*Config, error) {
	cfg := new(Config)
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config failed")
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field requirements
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("latlng", func(fl validator.FieldLevel) bool {
		_, err := models.ParseCoordinate(fl.Field().String())
		return err == nil
	})
	return v
}

func findConfigFile(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", errors.Wrapf(err, "config file %s", path)
		}
		return path, nil
	}

	for _, candidate := range []string{DefaultPath(), "navi.yaml"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

// canonicalizeEnvKey maps GOOGLE_APIKEY to google.apiKey by matching each
// segment against keys that already exist
func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (string, map[string]any, bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}
		child, _ := value.(map[string]any)
		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
