package main

import (
	"fmt"

	gainmap "github.com/jmbenlloch/gainmap_go/pkg"
)

// printConfiguration shows the settings used when fitting a premap.
func printConfiguration(config gainmap.Configuration, logger gainmap.Logger) {
	logger.Info(fmt.Sprintf("File premap: %s", config.FilePremap), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("File map: %s", config.FileMap), "config")
	logger.Info(fmt.Sprintf("File sqlite: %s", config.FileSqlite), "config")
	logger.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "config")
	logger.Info(fmt.Sprintf("Min samples: %d", config.MinSamples), "config")
	logger.Info(fmt.Sprintf("Trim sigma: %g", config.TrimSigma), "config")
	logger.Info(fmt.Sprintf("Peak sigma: %g", config.PeakSigma), "config")
	logger.Info(fmt.Sprintf("Max mean: %g", config.MaxMean), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
}
