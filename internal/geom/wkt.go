package geom

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// ParseWKTData returns Data for any WKT geometry go-geom understands
// (POINT, LINESTRING, POLYGON, their MULTI forms and GEOMETRYCOLLECTION).
func ParseWKTData(s string) (Data, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Data{}, errors.New("empty wkt")
	}
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return Data{}, errors.Wrap(err, "wkt")
	}
	var d Data
	d.addGeom(g)
	if d.Empty() {
		return Data{}, errors.New("wkt: no coordinates parsed")
	}
	return d, nil
}
