package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"geofilter/internal/pathfilter"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	s := m.layout()

	header := titleStyle.Render(" geofilter ─ terminal geometry viewer ")
	header = lipgloss.NewStyle().Width(s.contentW).Padding(0).Render(header)

	var sidebar string
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, s.contentH-2)
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var mapView string
	var st pathfilter.Stats
	drawn := false
	switch {
	case m.showAttrs:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		if colW == 0 {
			colW = min(60, s.contentW-6)
		}
		maxW := min(s.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(s.mapH-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(s.mapW, s.mapH, lipgloss.Center, lipgloss.Center, attrsBox)
	case m.pasteMode:
		m.ta.SetWidth(s.mapW)
		m.ta.SetHeight(min(s.mapH, 12))
		mapView = lipgloss.NewStyle().Width(s.mapW).Height(s.mapH).Render(m.ta.View())
	default:
		var canvas string
		canvas, st = m.renderAsciiMap(s.mapW, s.mapH)
		drawn = m.paths != nil
		mapView = lipgloss.NewStyle().Width(s.mapW).Height(s.mapH).Render(canvas)
	}

	popup := ""
	if m.inspectPopup != "" && !m.showAttrs {
		maxPopupW := max(20, min(48, s.contentW/2))
		box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MaxWidth(maxPopupW).Render(m.inspectPopup)
		popup = lipgloss.Place(s.contentW, s.contentH, lipgloss.Left, lipgloss.Center, box)
	}

	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	status := dimStyle.Render(" " + m.status + " ")
	right := ""
	if drawn {
		right = fmt.Sprintf("  %s %s arcs %s verts %.0f%%",
			st.Tier, humanize.Comma(int64(st.Arcs)), humanize.Comma(int64(st.Vertices)), m.retainedPct*100)
	}
	if m.hoverHasGeo {
		right += fmt.Sprintf("  lon=%.5f lat=%.5f", m.hoverLon, m.hoverLat)
	}
	coords := ""
	if right != "" {
		coords = dimStyle.Render(right + "  ")
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp())
	spacerW := max(0, s.contentW-lipgloss.Width(left)-lipgloss.Width(coords))
	rightCol := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(s.contentW).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, rightCol))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, popup, body, footer)
	return appStyle.Width(s.contentW).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"[/] detail",
		"v vertices",
		"Tab sidebar",
		"Enter open",
		"p paste",
		"a attrs",
		"i inspect",
		"l layers",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
