package gainmap

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WritePremap stores the samples of every pixel, one line per pixel in
// x-major order: x, y, global bin and the samples, tab separated. Samples
// are written with the shortest exact representation so that fitting the
// file gives the same map as fitting the grid.
func WritePremap(w io.Writer, grid *PixelGrid) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)
	for x := 0; x < NX; x++ {
		for y := 0; y < NY; y++ {
			buf = buf[:0]
			buf = strconv.AppendInt(buf, int64(x), 10)
			buf = append(buf, '\t')
			buf = strconv.AppendInt(buf, int64(y), 10)
			buf = append(buf, '\t')
			buf = strconv.AppendInt(buf, int64(pixelIndex(x, y)), 10)
			for _, sample := range grid.Samples(x, y) {
				buf = append(buf, '\t')
				buf = strconv.AppendFloat(buf, sample, 'g', -1, 64)
			}
			buf = append(buf, '\n')
			if _, err := bw.Write(buf); err != nil {
				return fmt.Errorf("error writing premap: %w", err)
			}
		}
	}
	return bw.Flush()
}

// ReadPremap rebuilds a pixel grid from a premap file. Lines that cannot be
// parsed are skipped and counted.
func ReadPremap(r io.Reader) (*PixelGrid, int, error) {
	grid := NewPixelGrid()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*maxLineLength)

	skipped := 0
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		x, y, samples, err := parsePremapLine(scanner.Text())
		if err != nil {
			skipped++
			if configuration.Verbosity > 1 {
				message := fmt.Errorf("discarding premap line %d: %w", lineNumber, err)
				logger.Error(message.Error())
			}
			continue
		}
		for _, sample := range samples {
			grid.Add(x, y, sample)
		}
	}
	if err := scanner.Err(); err != nil {
		return grid, skipped, fmt.Errorf("error reading premap: %w", err)
	}
	return grid, skipped, nil
}

func parsePremapLine(line string) (int, int, []float64, error) {
	words := strings.Fields(line)
	if len(words) < 3 {
		return 0, 0, nil, fmt.Errorf("expected at least 3 fields, got %d", len(words))
	}
	x, err := strconv.Atoi(words[0])
	if err != nil {
		return 0, 0, nil, fmt.Errorf("invalid x: %w", err)
	}
	y, err := strconv.Atoi(words[1])
	if err != nil {
		return 0, 0, nil, fmt.Errorf("invalid y: %w", err)
	}
	if !inGrid(x, y) {
		return 0, 0, nil, fmt.Errorf("pixel (%d, %d) outside the grid", x, y)
	}
	samples := make([]float64, len(words)-3)
	for i, word := range words[3:] {
		samples[i], err = strconv.ParseFloat(word, 64)
		if err != nil {
			return 0, 0, nil, fmt.Errorf("invalid sample: %w", err)
		}
	}
	return x, y, samples, nil
}
