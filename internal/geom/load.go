package geom

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// SupportedExt reports whether Load can read files with extension ext
// (including the dot, any case).
func SupportedExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".geojson", ".json", ".csv", ".kml", ".wkt":
		return true
	}
	return false
}

// Load reads a file, choosing the parser by extension.
func Load(path string) (Data, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".geojson", ".json":
		return LoadGeo(path)
	case ".csv":
		return LoadCSV(path)
	case ".kml":
		return LoadKML(path)
	case ".wkt":
		b, err := os.ReadFile(path)
		if err != nil {
			return Data{}, errors.Wrapf(err, "read %s", path)
		}
		return ParseWKTData(string(b))
	}
	return Data{}, errors.Errorf("unsupported file: %s", ext)
}
