package kami

import "math"

// IndexEntry is the index's projection of a widget: its bounds, its overlap
// priority and its handle. Entries are values; the index never holds a
// reference into the registry.
type IndexEntry struct {
	Bounds   Rect
	Priority float64
	Handle   Handle
}

type cellKey struct {
	x, y int
}

// SpatialIndex answers "which widget is on top at this point" over a uniform
// grid. An entry is stored in every cell its bounds touch, so a point query
// only scans the single cell containing the point.
//
// Entries are compared by value on removal; an entry is found only if its
// bounds, priority and handle all match what was inserted.
type SpatialIndex struct {
	cellSize float64
	cells    map[cellKey][]IndexEntry
	count    int
}

// NewSpatialIndex creates an empty index. cellSize should be close to the
// widget size; non-positive values fall back to DefaultWidgetSize.X.
func NewSpatialIndex(cellSize float64) *SpatialIndex {
	if cellSize <= 0 || math.IsNaN(cellSize) {
		cellSize = DefaultWidgetSize.X
	}
	return &SpatialIndex{
		cellSize: cellSize,
		cells:    make(map[cellKey][]IndexEntry),
	}
}

// Len returns the number of entries in the index.
func (s *SpatialIndex) Len() int {
	return s.count
}

// Insert adds an entry. Inserting the same entry twice stores it twice.
func (s *SpatialIndex) Insert(e IndexEntry) {
	x0, y0, x1, y1 := s.cellRange(e.Bounds)
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			k := cellKey{cx, cy}
			s.cells[k] = append(s.cells[k], e)
		}
	}
	s.count++
}

// Remove deletes one entry equal to e and reports whether one was found.
// Removing a missing entry is a no-op.
func (s *SpatialIndex) Remove(e IndexEntry) bool {
	x0, y0, x1, y1 := s.cellRange(e.Bounds)
	found := false
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			k := cellKey{cx, cy}
			bucket := s.cells[k]
			i := indexOfEntry(bucket, e)
			if i < 0 {
				continue
			}
			found = true
			copy(bucket[i:], bucket[i+1:])
			bucket[len(bucket)-1] = IndexEntry{}
			bucket = bucket[:len(bucket)-1]
			if len(bucket) == 0 {
				delete(s.cells, k)
			} else {
				s.cells[k] = bucket
			}
		}
	}
	if found {
		s.count--
	}
	return found
}

// QueryAll appends every entry whose bounds contain (x, y) to buf, in
// insertion order, and returns the extended slice.
func (s *SpatialIndex) QueryAll(x, y float64, buf []IndexEntry) []IndexEntry {
	for _, e := range s.cells[s.cellOf(x, y)] {
		if e.Bounds.Contains(x, y) {
			buf = append(buf, e)
		}
	}
	return buf
}

// QueryTopmost returns the handle of the highest-priority entry containing
// (x, y). Among equal priorities the entry inserted first wins.
func (s *SpatialIndex) QueryTopmost(x, y float64) (Handle, bool) {
	var (
		best  IndexEntry
		found bool
	)
	for _, e := range s.cells[s.cellOf(x, y)] {
		if !e.Bounds.Contains(x, y) {
			continue
		}
		if !found || e.Priority > best.Priority {
			best = e
			found = true
		}
	}
	return best.Handle, found
}

// Entries returns every entry once, in no particular order.
func (s *SpatialIndex) Entries() []IndexEntry {
	out := make([]IndexEntry, 0, s.count)
	for k, bucket := range s.cells {
		for _, e := range bucket {
			// Each entry is reported from the cell holding its minimum corner.
			if s.cellOf(e.Bounds.X, e.Bounds.Y) == k {
				out = append(out, e)
			}
		}
	}
	return out
}

func (s *SpatialIndex) cellOf(x, y float64) cellKey {
	return cellKey{
		x: int(math.Floor(x / s.cellSize)),
		y: int(math.Floor(y / s.cellSize)),
	}
}

func (s *SpatialIndex) cellRange(r Rect) (x0, y0, x1, y1 int) {
	lo := s.cellOf(r.X, r.Y)
	hi := s.cellOf(r.X+r.Width, r.Y+r.Height)
	return lo.x, lo.y, hi.x, hi.y
}

func indexOfEntry(bucket []IndexEntry, e IndexEntry) int {
	for i := range bucket {
		if bucket[i] == e {
			return i
		}
	}
	return -1
}
