package tui

import (
	"os"
	"path/filepath"
	"sort"

	list "github.com/charmbracelet/bubbles/list"
	"go.uber.org/zap"

	"geofilter/internal/geom"
	"geofilter/internal/pathfilter"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(name)
		if geom.SupportedExt(ext) {
			items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath loads a supported file into the model.
func (m *Model) loadPath(p string) {
	d, err := geom.Load(p)
	if err != nil {
		pathfilter.Logger().Warn("load failed", zap.String("path", p), zap.Error(err))
		m.status = "load error: " + err.Error()
		return
	}
	if err := m.setData(d); err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	m.selPath = p
	m.status = "loaded: " + filepath.Base(p) + "  " + m.counts()
	pathfilter.Logger().Info("dataset loaded",
		zap.String("path", p), zap.Int("vertices", d.VertexCount()))

	// a new dataset may not carry attributes
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
}
