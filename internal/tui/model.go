package tui

import (
	"fmt"
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"geofilter/internal/config"
	"geofilter/internal/geom"
	"geofilter/internal/pathfilter"
)

type Model struct {
	cfg config.Config

	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Data
	data        geom.Data
	refs        []geom.ArcRef
	paths       *pathfilter.Collection
	retainedPct float64

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// layer visibility
	showPoints   bool
	showLines    bool
	showPolys    bool
	showVertices bool

	// inspect popup
	inspectPopup string

	// hover state, in micro-pixels of the map canvas
	hovering    bool
	hoverMicX   int
	hoverMicY   int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// attributes table
	showAttrs bool
	tbl       table.Model
}

func New(cfg config.Config) Model {
	m := Model{
		cfg:         cfg,
		helpVisible: true,
		zoom:        1.0,
		status:      "geofilter ready",
		retainedPct: cfg.RetainedPct,
		showPoints:  true,
		showLines:   true,
		showPolys:   true,
	}
	m.cwd, _ = os.Getwd()
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)

	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here (POINT, LINESTRING, POLYGON, MULTI*). Press Enter to render; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)

	// columns are inferred per dataset
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath preloads a file's data at launch.
func NewWithPath(cfg config.Config, path string) Model {
	m := New(cfg)
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// setData swaps in a new dataset and resets the viewport.
func (m *Model) setData(d geom.Data) error {
	c, refs, err := geom.BuildArcs(d)
	if err != nil {
		return err
	}
	if m.paths == nil {
		m.paths = pathfilter.New(c, m.cfg.EngineOptions()...)
	} else {
		m.paths.Update(c)
	}
	m.paths.SetRetainedPct(m.retainedPct)
	m.data, m.refs = d, refs
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.hovering, m.hoverHasGeo = false, false
	m.inspectPopup = ""

	// prefer polys > lines > points for visibility
	m.showPolys = len(d.Polygons) > 0
	m.showLines = len(d.Lines) > 0 && !m.showPolys
	m.showPoints = len(d.Points) > 0 && !m.showPolys
	return nil
}

func (m Model) counts() string {
	return fmt.Sprintf("pts=%s ls=%s poly=%s vertices=%s",
		humanize.Comma(int64(len(m.data.Points))),
		humanize.Comma(int64(len(m.data.Lines))),
		humanize.Comma(int64(len(m.data.Polygons))),
		humanize.Comma(int64(m.data.VertexCount())))
}

func (m *Model) setRetainedPct(pct float64) {
	m.retainedPct = min(1, max(0, pct))
	if m.paths != nil {
		m.paths.SetRetainedPct(m.retainedPct)
	}
	m.status = fmt.Sprintf("detail: %.0f%%", m.retainedPct*100)
}
