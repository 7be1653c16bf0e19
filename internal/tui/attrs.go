package tui

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	table "github.com/charmbracelet/bubbles/table"
	geojson "github.com/paulmach/go.geojson"
)

const maxAttrColWidth = 24

// refreshAttrsFromCurrent rebuilds the table from the current dataset.
func (m *Model) refreshAttrsFromCurrent() {
	cols, rows := m.buildAttributes()
	// an empty table panics on render
	if len(cols) == 0 || len(rows) == 0 {
		m.showAttrs = false
		m.status = "no attributes for current dataset"
		return
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	for _, c := range cols {
		tcols = append(tcols, table.Column{Title: c, Width: min(len(c)+2, maxAttrColWidth)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		cells := make([]string, len(tcols))
		cells[0] = fmt.Sprintf("%d", i+1)
		copy(cells[1:], r)
		trows = append(trows, table.Row(cells))
	}
	// clear rows first so SetColumns never sees a row of the old width
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes returns the columns and rows for the current dataset.
func (m *Model) buildAttributes() ([]string, [][]string) {
	p := m.selPath
	if p == "" {
		// pasted WKT carries no attributes
		return nil, nil
	}
	switch strings.ToLower(filepath.Ext(p)) {
	case ".geojson", ".json":
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, nil
		}
		return geoJSONAttrs(b)
	case ".csv":
		return csvAttrs(p)
	}
	bb := m.data.BBox
	cols := []string{"name", "bbox", "points", "lines", "polygons", "vertices"}
	vals := []string{
		filepath.Base(p),
		fmt.Sprintf("[%.5f,%.5f,%.5f,%.5f]", bb.MinX, bb.MinY, bb.MaxX, bb.MaxY),
		fmt.Sprintf("%d", len(m.data.Points)),
		fmt.Sprintf("%d", len(m.data.Lines)),
		fmt.Sprintf("%d", len(m.data.Polygons)),
		fmt.Sprintf("%d", m.data.VertexCount()),
	}
	return cols, [][]string{vals}
}

// geoJSONAttrs returns one row per feature over the sorted union of
// property keys.
func geoJSONAttrs(b []byte) ([]string, [][]string) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return nil, nil
	}
	var features []*geojson.Feature
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(b)
		if err != nil {
			return nil, nil
		}
		features = fc.Features
	case "Feature":
		f, err := geojson.UnmarshalFeature(b)
		if err != nil {
			return nil, nil
		}
		features = []*geojson.Feature{f}
	default:
		return nil, nil
	}

	seen := map[string]bool{}
	var keys []string
	for _, f := range features {
		for k := range f.Properties {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	slices.Sort(keys)

	rows := make([][]string, 0, len(features))
	for _, f := range features {
		vals := make([]string, len(keys))
		for i, k := range keys {
			vals[i] = formatProp(f.Properties[k])
		}
		rows = append(rows, vals)
	}
	return keys, rows
}

func formatProp(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	}
	bs, _ := json.Marshal(v)
	return string(bs)
}

// csvAttrs returns the header as columns and each record as a row.
func csvAttrs(path string) ([]string, [][]string) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	if err != nil || len(recs) == 0 {
		return nil, nil
	}
	header := recs[0]
	rows := make([][]string, 0, len(recs)-1)
	for _, row := range recs[1:] {
		vals := make([]string, len(header))
		copy(vals, row)
		rows = append(rows, vals)
	}
	return header, rows
}
