package gainmap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMapText(t *testing.T) {
	m := CalibrationMap{
		{X: 0, Y: 0, Mean: -1, Width: -1, RawOccupancy: 3},
		{X: 0, Y: 1, Mean: 400.5, Width: 70.25, RawOccupancy: 1000, PeakOccupancy: 950, Ndf: 1},
	}

	var buffer bytes.Buffer
	require.NoError(t, WriteMapText(&buffer, m))

	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "0 0 -1.000000000000000000e+00 -1.000000000000000000e+00 3.000000000000000000e+00 0.000000000000000000e+00 0.000000000000000000e+00 0", lines[0])
	assert.Equal(t, "0 1 4.005000000000000000e+02 7.025000000000000000e+01 1.000000000000000000e+03 9.500000000000000000e+02 0.000000000000000000e+00 1", lines[1])
}
