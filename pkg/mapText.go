package gainmap

import (
	"bufio"
	"fmt"
	"io"
)

// WriteMapText writes the map as space separated columns
// x y mean sigma nraw npeak chi2 ndf, floats in %.18e like numpy savetxt.
func WriteMapText(w io.Writer, m CalibrationMap) error {
	bw := bufio.NewWriter(w)
	for _, r := range m {
		_, err := fmt.Fprintf(bw, "%d %d %.18e %.18e %.18e %.18e %.18e %d\n",
			r.X, r.Y, r.Mean, r.Width, float64(r.RawOccupancy), float64(r.PeakOccupancy), r.ChiSquare, r.Ndf)
		if err != nil {
			return fmt.Errorf("error writing map: %w", err)
		}
	}
	return bw.Flush()
}
