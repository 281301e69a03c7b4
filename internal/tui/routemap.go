package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mobil-koeln/navi-cli/internal/models"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

const (
	minZoom  = 1
	maxZoom  = 19
	tileSize = 256.0

	// world pixels covered by one terminal cell; cells are ~2x taller than wide
	cellWidthPx  = 8.0
	cellHeightPx = 16.0
)

type mapCellType int

const (
	mapCellEmpty mapCellType = iota
	mapCellPath
	mapCellCenter
	mapCellStart
	mapCellEnd
	mapCellPosition
)

type mapCell struct {
	ch    rune
	ctype mapCellType
}

type mapMarker struct {
	at    orb.Point
	ch    rune
	ctype mapCellType
}

// mapView is the camera of the terminal map. It is loaded once it has a
// size, and PanTo is a no-op before that.
type mapView struct {
	center orb.Point
	zoom   int
	width  int
	height int
	loaded bool
}

func newMapView(center models.Coordinate, zoom int) mapView {
	return mapView{
		center: center.Point(),
		zoom:   clampZoom(zoom),
	}
}

// SetSize resizes the view and reports whether this was the first size,
// i.e. the map just loaded
func (v *mapView) SetSize(width, height int) bool {
	wasLoaded := v.loaded
	v.width = width
	v.height = height
	v.loaded = width > 0 && height > 0
	return !wasLoaded && v.loaded
}

// PanTo moves the camera center
func (v *mapView) PanTo(c models.Coordinate) bool {
	if !v.loaded {
		return false
	}
	v.center = c.Point()
	return true
}

// Center returns the camera center
func (v mapView) Center() models.Coordinate {
	return models.CoordinateFromPoint(v.center)
}

func (v *mapView) ZoomIn() {
	v.zoom = clampZoom(v.zoom + 1)
}

func (v *mapView) ZoomOut() {
	v.zoom = clampZoom(v.zoom - 1)
}

// Fit centers on b and picks the closest zoom at which it fits the view
func (v *mapView) Fit(b orb.Bound) {
	if !v.loaded {
		return
	}
	v.center = b.Center()

	for z := maxZoom; z >= minZoom; z-- {
		lo := maptile.Fraction(orb.Point{b.Min[0], b.Max[1]}, maptile.Zoom(z))
		hi := maptile.Fraction(orb.Point{b.Max[0], b.Min[1]}, maptile.Zoom(z))
		cols := (hi[0] - lo[0]) * tileSize / cellWidthPx
		rows := (hi[1] - lo[1]) * tileSize / cellHeightPx
		if cols <= float64(v.width-2) && rows <= float64(v.height-2) {
			v.zoom = z
			return
		}
	}
	v.zoom = minZoom
}

// project converts a point to a grid cell relative to the camera
func (v mapView) project(p orb.Point) (col, row int) {
	z := maptile.Zoom(v.zoom)
	f := maptile.Fraction(p, z)
	c := maptile.Fraction(v.center, z)
	col = int(math.Round((f[0]-c[0])*tileSize/cellWidthPx)) + v.width/2
	row = int(math.Round((f[1]-c[1])*tileSize/cellHeightPx)) + v.height/2
	return col, row
}

func (v mapView) inside(col, row int) bool {
	return col >= 0 && col < v.width && row >= 0 && row < v.height
}

// Render draws the route path and markers; later markers win on overlap
func (v mapView) Render(path orb.LineString, markers []mapMarker) string {
	if !v.loaded || v.width < 3 || v.height < 3 {
		return ""
	}

	grid := make([][]mapCell, v.height)
	for r := 0; r < v.height; r++ {
		grid[r] = make([]mapCell, v.width)
		for c := 0; c < v.width; c++ {
			grid[r][c] = mapCell{ch: ' ', ctype: mapCellEmpty}
		}
	}

	for i := 0; i < len(path)-1; i++ {
		c0, r0 := v.project(path[i])
		c1, r1 := v.project(path[i+1])
		if offscreenSameSide(c0, r0, c1, r1, v.width, v.height) {
			continue
		}
		bresenhamLine(grid, c0, r0, c1, r1)
	}

	for _, mk := range markers {
		c, r := v.project(mk.at)
		if v.inside(c, r) {
			grid[r][c] = mapCell{ch: mk.ch, ctype: mk.ctype}
		}
	}

	pathStyle := lipgloss.NewStyle().Foreground(colorCyan)
	centerStyle := lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	startStyle := lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	endStyle := lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	positionStyle := lipgloss.NewStyle().Foreground(colorYellow).Bold(true)

	var b strings.Builder
	for r := 0; r < v.height; r++ {
		var line strings.Builder
		for c := 0; c < v.width; c++ {
			ch := string(grid[r][c].ch)
			switch grid[r][c].ctype {
			case mapCellPath:
				line.WriteString(pathStyle.Render(ch))
			case mapCellCenter:
				line.WriteString(centerStyle.Render(ch))
			case mapCellStart:
				line.WriteString(startStyle.Render(ch))
			case mapCellEnd:
				line.WriteString(endStyle.Render(ch))
			case mapCellPosition:
				line.WriteString(positionStyle.Render(ch))
			default:
				line.WriteString(ch)
			}
		}
		b.WriteString(line.String())
		if r < v.height-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func offscreenSameSide(c0, r0, c1, r1, width, height int) bool {
	return (c0 < 0 && c1 < 0) || (r0 < 0 && r1 < 0) ||
		(c0 >= width && c1 >= width) || (r0 >= height && r1 >= height)
}

func clampZoom(z int) int {
	if z < minZoom {
		return minZoom
	}
	if z > maxZoom {
		return maxZoom
	}
	return z
}

// bresenhamLine draws a line between two points on the grid using Bresenham's algorithm.
func bresenhamLine(grid [][]mapCell, x0, y0, x1, y1 int) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
		if y0 >= 0 && y0 < len(grid) && x0 >= 0 && x0 < len(grid[y0]) {
			if grid[y0][x0].ctype == mapCellEmpty {
				grid[y0][x0] = mapCell{ch: '·', ctype: mapCellPath}
			}
		}

		if x0 == x1 && y0 == y1 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}
