package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mobil-koeln/navi-cli/internal/location"
	"github.com/mobil-koeln/navi-cli/internal/models"
	"github.com/mobil-koeln/navi-cli/internal/navigation"
	"go.uber.org/zap"
)

type focusPanel int

const (
	focusOrigin focusPanel = iota
	focusDestination
	focusMap
)

// DefaultZoom is the initial map zoom level
const DefaultZoom = 15

// DefaultCenter is the initial map center when none is configured
var DefaultCenter = models.Coordinate{Lat: 25.5941, Lng: 85.1376}

// Config holds the collaborators and settings of the TUI.
type Config struct {
	Router navigation.Router
	Source location.Source
	Logger *zap.Logger

	RefreshInterval time.Duration
	Watch           location.Options

	Center models.Coordinate
	Zoom   int

	// LoadErr replaces the map with an error, e.g. a missing API key
	LoadErr error
}

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	router  navigation.Router
	source  location.Source
	logger  *zap.Logger
	nav     *navigation.Controller
	tracker *navigation.Tracker

	watchOpts location.Options
	center    models.Coordinate
	loadErr   error

	width  int
	height int

	originInput      textinput.Model
	destinationInput textinput.Model
	focus            focusPanel

	spinner  spinner.Model
	spinning bool
	watching bool

	// alert is a dismissable message banner
	alert      string
	lastUpdate time.Time

	mapView mapView
}

// New creates a new TUI model.
func New(cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	origin := textinput.New()
	origin.Placeholder = "Your Location"
	origin.Focus()
	origin.CharLimit = 200
	origin.Width = 40

	destination := textinput.New()
	destination.Placeholder = "Destination"
	destination.CharLimit = 200
	destination.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styleLoading

	center := cfg.Center
	if center == (models.Coordinate{}) {
		center = DefaultCenter
	}
	zoom := cfg.Zoom
	if zoom == 0 {
		zoom = DefaultZoom
	}
	watch := cfg.Watch
	if watch == (location.Options{}) {
		watch = location.WatchOptions()
	}

	return Model{
		router: cfg.Router,
		source: cfg.Source,
		logger: logger,
		nav: navigation.NewController(
			navigation.WithRefreshInterval(cfg.RefreshInterval),
			navigation.WithLogger(logger.Named("route")),
		),
		tracker:          navigation.NewTracker(logger.Named("tracker")),
		watchOpts:        watch,
		center:           center,
		loadErr:          cfg.LoadErr,
		originInput:      origin,
		destinationInput: destination,
		focus:            focusOrigin,
		spinner:          sp,
		mapView:          newMapView(center, zoom),
	}
}

// Init returns the initial command (textinput blink).
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Close releases the position subscription. It is safe to call more than once.
func (m Model) Close() {
	m.tracker.Release()
}

// Controller exposes the route controller for callers that run the program.
func (m Model) Controller() *navigation.Controller {
	return m.nav
}
