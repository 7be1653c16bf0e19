package geom

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	gogeom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// LoadGeo reads a GeoJSON file and returns Data (points, lines, polygons)
func LoadGeo(path string) (Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Data{}, errors.Wrapf(err, "read %s", path)
	}
	d, err := ParseGeoJSON(b)
	return d, errors.Wrapf(err, "geojson %s", filepath.Base(path))
}

// ParseGeoJSON decodes a bare geometry, a Feature or a FeatureCollection.
func ParseGeoJSON(b []byte) (Data, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return Data{}, errors.Wrap(err, "decode")
	}
	var d Data
	switch head.Type {
	case "":
		return Data{}, errors.New("missing type")
	case "FeatureCollection":
		var fc geojson.FeatureCollection
		if err := json.Unmarshal(b, &fc); err != nil {
			return Data{}, errors.Wrap(err, "decode feature collection")
		}
		for _, f := range fc.Features {
			if f != nil {
				d.addGeom(f.Geometry)
			}
		}
	case "Feature":
		var f geojson.Feature
		if err := json.Unmarshal(b, &f); err != nil {
			return Data{}, errors.Wrap(err, "decode feature")
		}
		d.addGeom(f.Geometry)
	default:
		var g gogeom.T
		if err := geojson.Unmarshal(b, &g); err != nil {
			return Data{}, errors.Wrapf(err, "decode %s", head.Type)
		}
		d.addGeom(g)
	}
	if d.Empty() {
		return Data{}, errors.New("no geometries found")
	}
	return d, nil
}

// addGeom flattens a go-geom geometry into the point, line and polygon layers.
func (d *Data) addGeom(g gogeom.T) {
	switch g := g.(type) {
	case *gogeom.Point:
		if !g.Empty() {
			d.AddPoint(xy(g.Coords()))
		}
	case *gogeom.MultiPoint:
		for i := 0; i < g.NumPoints(); i++ {
			if p := g.Point(i); !p.Empty() {
				d.AddPoint(xy(p.Coords()))
			}
		}
	case *gogeom.LineString:
		d.AddLine(coordPath(g.Coords()))
	case *gogeom.MultiLineString:
		for i := 0; i < g.NumLineStrings(); i++ {
			d.AddLine(coordPath(g.LineString(i).Coords()))
		}
	case *gogeom.Polygon:
		d.AddPolygon(coordRings(g.Coords()))
	case *gogeom.MultiPolygon:
		for i := 0; i < g.NumPolygons(); i++ {
			d.AddPolygon(coordRings(g.Polygon(i).Coords()))
		}
	case *gogeom.GeometryCollection:
		for _, c := range g.Geoms() {
			d.addGeom(c)
		}
	}
}

func xy(c gogeom.Coord) [2]float64 {
	return [2]float64{c.X(), c.Y()}
}

func coordPath(cs []gogeom.Coord) [][2]float64 {
	out := make([][2]float64, len(cs))
	for i, c := range cs {
		out[i] = xy(c)
	}
	return out
}

func coordRings(rs [][]gogeom.Coord) [][][2]float64 {
	out := make([][][2]float64, len(rs))
	for i, r := range rs {
		out[i] = coordPath(r)
	}
	return out
}
