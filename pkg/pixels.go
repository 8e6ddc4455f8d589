package gainmap

// pixelIndex is the global bin of the legacy tools, y-major.
func pixelIndex(x int, y int) int {
	return NX*y + x
}

func inGrid(x int, y int) bool {
	return x >= 0 && x < NX && y >= 0 && y < NY
}

// PixelGrid owns the charge samples of every pixel of the detector. It is
// allocated once per run and is not safe for concurrent writers.
type PixelGrid struct {
	samples [NPIXELS][]float64
}

func NewPixelGrid() *PixelGrid {
	return &PixelGrid{}
}

func (g *PixelGrid) Add(x int, y int, charge float64) {
	idx := pixelIndex(x, y)
	g.samples[idx] = append(g.samples[idx], charge)
}

// Samples returns the samples of a pixel. The slice must not be modified.
func (g *PixelGrid) Samples(x int, y int) []float64 {
	return g.samples[pixelIndex(x, y)]
}

func (g *PixelGrid) Occupancy(x int, y int) int {
	return len(g.samples[pixelIndex(x, y)])
}

func (g *PixelGrid) Total() int {
	total := 0
	for _, s := range g.samples {
		total += len(s)
	}
	return total
}

// DoubleHitMap counts events with two clusters on both axes at the
// positions each pair of clusters would have given.
type DoubleHitMap struct {
	counts [NPIXELS]int32
}

func NewDoubleHitMap() *DoubleHitMap {
	return &DoubleHitMap{}
}

func (d *DoubleHitMap) Fill(x int, y int) bool {
	if !inGrid(x, y) {
		return false
	}
	d.counts[pixelIndex(x, y)]++
	return true
}

func (d *DoubleHitMap) Count(x int, y int) int32 {
	return d.counts[pixelIndex(x, y)]
}

// Columns returns the counts in x-major order, the layout of the map tables.
func (d *DoubleHitMap) Columns() []int32 {
	data := make([]int32, NPIXELS)
	for x := 0; x < NX; x++ {
		for y := 0; y < NY; y++ {
			data[mapIndex(x, y)] = d.counts[pixelIndex(x, y)]
		}
	}
	return data
}

type RunStats struct {
	Lines        int
	Skipped      int
	Malformed    int
	Accepted     int
	NoHit        int
	Ambiguous    int
	DoubleHit    int
	OutOfRange   int
	SideMismatch int
}

func (s *RunStats) Count(status EventStatus) {
	switch status {
	case EventAccepted:
		s.Accepted++
	case EventMalformed:
		s.Malformed++
	case EventNoHit:
		s.NoHit++
	case EventAmbiguous:
		s.Ambiguous++
	case EventDoubleHit:
		s.DoubleHit++
	case EventOutOfRange:
		s.OutOfRange++
	case EventSideMismatch:
		s.SideMismatch++
	}
}
