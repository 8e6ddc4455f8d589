package gainmap

import (
	"fmt"
	"sync"
)

// CalibrationMap holds one record per pixel in x-major order: all y values
// of column x = 0 first, then x = 1, and so on.
type CalibrationMap []PixelFitRecord

func mapIndex(x int, y int) int {
	return x*NY + y
}

func (m CalibrationMap) At(x int, y int) PixelFitRecord {
	return m[mapIndex(x, y)]
}

// Filter returns the records accepted by keep, in map order.
func (m CalibrationMap) Filter(keep func(PixelFitRecord) bool) []PixelFitRecord {
	selected := make([]PixelFitRecord, 0)
	for _, record := range m {
		if keep(record) {
			selected = append(selected, record)
		}
	}
	return selected
}

// GoodFit is the quality cut used when drawing the maps.
func GoodFit(r PixelFitRecord) bool {
	if r.Ndf <= 0 || r.Mean <= 0 {
		return false
	}
	return r.ChiSquare/float64(r.Ndf) < 2 && r.Width/r.Mean < 0.5
}

// AssembleMap fits every pixel of the grid with the fit settings of config.
// Columns are shared among config.NumWorkers goroutines, each record is
// written at its own index so the result does not depend on scheduling.
func AssembleMap(grid *PixelGrid, config Configuration) CalibrationMap {
	settings := config.FitSettings()
	nWorkers := config.NumWorkers
	if nWorkers < 1 {
		nWorkers = 1
	}
	fitMap := make(CalibrationMap, NPIXELS)
	jobs := make(chan int, NX)

	var wg sync.WaitGroup
	for w := 1; w <= nWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			fitWorker(id, grid, settings, config.Verbosity, jobs, fitMap)
		}(w)
	}

	for x := 0; x < NX; x++ {
		jobs <- x
	}
	close(jobs)
	wg.Wait()

	if config.Verbosity > 0 {
		fitted := len(fitMap.Filter(PixelFitRecord.Fitted))
		message := fmt.Sprintf("Fitted %d of %d pixels", fitted, NPIXELS)
		logger.Info(message, "mapAssembler")
	}
	return fitMap
}

func fitWorker(id int, grid *PixelGrid, settings FitSettings, verbosity int, jobs <-chan int, fitMap CalibrationMap) {
	for x := range jobs {
		if verbosity > 2 {
			message := fmt.Sprintf("Worker %d fitting column %d", id, x)
			logger.Info(message, "mapAssembler")
		}
		for y := 0; y < NY; y++ {
			fitMap[mapIndex(x, y)] = FitPixel(x, y, grid.Samples(x, y), settings)
		}
	}
}
