package main

import (
	"fmt"

	gainmap "github.com/jmbenlloch/gainmap_go/pkg"
)

func printConfiguration(config gainmap.Configuration, logger gainmap.Logger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("File map: %s", config.FileMap), "config")
	logger.Info(fmt.Sprintf("File premap: %s", config.FilePremap), "config")
	logger.Info(fmt.Sprintf("File sqlite: %s", config.FileSqlite), "config")
	logger.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Skip: %d", config.Skip), "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Amplitude prefix: %t", config.AmplitudePrefix), "config")
	logger.Info(fmt.Sprintf("Same side: %t", config.SameSide), "config")
	logger.Info(fmt.Sprintf("Right offset: %d", config.RightOffset), "config")
	logger.Info(fmt.Sprintf("Pedestals: %v", config.Pedestals), "config")
	logger.Info(fmt.Sprintf("Pre scale: %v", config.PreScale), "config")
	logger.Info(fmt.Sprintf("Post scale: %v", config.PostScale), "config")
	logger.Info(fmt.Sprintf("Min samples: %d", config.MinSamples), "config")
	logger.Info(fmt.Sprintf("Trim sigma: %g", config.TrimSigma), "config")
	logger.Info(fmt.Sprintf("Peak sigma: %g", config.PeakSigma), "config")
	logger.Info(fmt.Sprintf("Max mean: %g", config.MaxMean), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
}
