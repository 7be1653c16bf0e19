package geom

import (
	"encoding/xml"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlBoundary struct {
	Ring kmlCoords `xml:"LinearRing"`
}

type kmlPolygon struct {
	Outer kmlBoundary   `xml:"outerBoundaryIs"`
	Inner []kmlBoundary `xml:"innerBoundaryIs"`
}

type kmlPlacemark struct {
	Point      *kmlCoords  `xml:"Point"`
	LineString *kmlCoords  `xml:"LineString"`
	Polygon    *kmlPolygon `xml:"Polygon"`
}

type kmlDoc struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Document   struct {
		Placemarks []kmlPlacemark `xml:"Placemark"`
		Folders    []struct {
			Placemarks []kmlPlacemark `xml:"Placemark"`
		} `xml:"Folder"`
	} `xml:"Document"`
}

// LoadKML extracts Point, LineString and Polygon placemarks from a KML file.
// KML coordinates are "lon,lat[,alt]"; altitude is ignored.
func LoadKML(path string) (Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Data{}, errors.Wrapf(err, "read %s", path)
	}
	var doc kmlDoc
	if err := xml.Unmarshal(b, &doc); err != nil {
		return Data{}, errors.Wrapf(err, "kml %s", path)
	}
	pms := append([]kmlPlacemark{}, doc.Placemarks...)
	pms = append(pms, doc.Document.Placemarks...)
	for _, f := range doc.Document.Folders {
		pms = append(pms, f.Placemarks...)
	}
	var d Data
	for _, pm := range pms {
		switch {
		case pm.Point != nil:
			for _, p := range parseKMLCoords(pm.Point.Coordinates) {
				d.AddPoint(p)
			}
		case pm.LineString != nil:
			d.AddLine(parseKMLCoords(pm.LineString.Coordinates))
		case pm.Polygon != nil:
			poly := [][][2]float64{parseKMLCoords(pm.Polygon.Outer.Ring.Coordinates)}
			for _, in := range pm.Polygon.Inner {
				poly = append(poly, parseKMLCoords(in.Ring.Coordinates))
			}
			d.AddPolygon(poly)
		}
	}
	if d.Empty() {
		return Data{}, errors.New("kml: no placemarks found")
	}
	return d, nil
}

// parseKMLCoords splits whitespace-separated "lon,lat[,alt]" tuples.
func parseKMLCoords(s string) [][2]float64 {
	var out [][2]float64
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, [2]float64{lon, lat})
	}
	return out
}
