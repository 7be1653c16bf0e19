package tui

import "math"

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// micro snaps a projected coordinate to its micro-pixel.
func micro(v float64) int {
	return int(math.Floor(v))
}

// screen is the layout of one frame, in terminal cells.
type screen struct {
	contentW, contentH int
	mapX, mapY         int
	mapW, mapH         int
}

func (m Model) layout() screen {
	s := screen{
		contentW: max(10, m.width),
		contentH: max(4, m.height-headerHeight-footerHeight),
		mapY:     headerHeight,
	}
	side := 0
	if m.showSidebar {
		side = sidebarWidth
		s.mapX = sidebarWidth + 1
	}
	s.mapW = max(10, s.contentW-side-1)
	s.mapH = s.contentH
	return s
}
