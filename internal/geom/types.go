package geom

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Valid reports whether the box has a positive extent on both axes.
func (b BBox) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// Data is a minimal geometry container for rendering
type Data struct {
	Points   [][2]float64
	Lines    [][][2]float64
	Polygons [][][][2]float64 // polygons with rings (first outer, following holes)
	BBox     BBox

	seen int // coordinates folded into BBox
}

func (d *Data) extend(pt [2]float64) {
	if d.seen == 0 {
		d.BBox = BBox{MinX: pt[0], MinY: pt[1], MaxX: pt[0], MaxY: pt[1]}
	} else {
		d.BBox.MinX = min(d.BBox.MinX, pt[0])
		d.BBox.MinY = min(d.BBox.MinY, pt[1])
		d.BBox.MaxX = max(d.BBox.MaxX, pt[0])
		d.BBox.MaxY = max(d.BBox.MaxY, pt[1])
	}
	d.seen++
}

func (d *Data) AddPoint(pt [2]float64) {
	d.Points = append(d.Points, pt)
	d.extend(pt)
}

func (d *Data) AddLine(ls [][2]float64) {
	if len(ls) == 0 {
		return
	}
	d.Lines = append(d.Lines, ls)
	for _, p := range ls {
		d.extend(p)
	}
}

func (d *Data) AddPolygon(poly [][][2]float64) {
	if len(poly) == 0 || len(poly[0]) == 0 {
		return
	}
	d.Polygons = append(d.Polygons, poly)
	for _, ring := range poly {
		for _, p := range ring {
			d.extend(p)
		}
	}
}

// Empty reports whether no geometry was added.
func (d Data) Empty() bool {
	return len(d.Points) == 0 && len(d.Lines) == 0 && len(d.Polygons) == 0
}

// VertexCount returns the number of coordinates across all layers.
func (d Data) VertexCount() int {
	n := len(d.Points)
	for _, ls := range d.Lines {
		n += len(ls)
	}
	for _, poly := range d.Polygons {
		for _, ring := range poly {
			n += len(ring)
		}
	}
	return n
}
