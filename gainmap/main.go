package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	gainmap "github.com/jmbenlloch/gainmap_go/pkg"
	"github.com/jmbenlloch/gainmap_go/pkg/writer"
)

var configuration gainmap.Configuration

var (
	logger         gainmap.Logger
	VerbosityLevel int
)

func init() {
	logger = gainmap.NewLogger(os.Stdout, os.Stderr)
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	if err := run(*configFilename); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(configFilename string) error {
	var err error
	configuration, err = gainmap.LoadConfiguration(configFilename)
	if err != nil {
		return fmt.Errorf("Error reading configuration file: %w", err)
	}
	gainmap.SetConfiguration(configuration)
	gainmap.SetLogger(logger)

	VerbosityLevel = configuration.Verbosity
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", configFilename)
		logger.Info(message, "main")
		printConfiguration(configuration, logger)
	}

	if !configuration.NoDB {
		if err := loadRunConditions(); err != nil {
			return err
		}
	}

	file, err := os.Open(configuration.FileIn)
	if err != nil {
		return fmt.Errorf("Error opening file: %w", err)
	}
	defer file.Close()

	start := time.Now()
	result, err := gainmap.AccumulateRun(file, configuration)
	if err != nil {
		return err
	}
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Generating map took %d ms, %d samples from %d lines (%d malformed)",
			time.Since(start).Milliseconds(), result.Pixels.Total(), result.Stats.Lines, result.Stats.Malformed)
		logger.Info(message, "main")
	}

	if configuration.FilePremap != "" {
		if err := writePremap(configuration.FilePremap, result.Pixels); err != nil {
			return err
		}
	}

	start = time.Now()
	fitMap := gainmap.AssembleMap(result.Pixels, configuration)
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Fitting map took %d ms", time.Since(start).Milliseconds())
		logger.Info(message, "main")
	}

	if err := writer.WriteOutputs(configuration, fitMap, result); err != nil {
		return fmt.Errorf("Error writing outputs: %w", err)
	}
	return nil
}

// loadRunConditions replaces the configured pedestals and scales with the
// ones stored for the run.
func loadRunConditions() error {
	dbConn, err := gainmap.ConnectToDatabase(configuration.User, configuration.Passwd, configuration.Host, configuration.DBName)
	if err != nil {
		return fmt.Errorf("Error connection to database: %w", err)
	}
	defer dbConn.Close()

	calibration, err := gainmap.LoadRunConditions(dbConn, configuration.RunNumber, configuration.ChargeCalibration())
	if err != nil {
		return err
	}
	configuration.Pedestals = calibration.Pedestals
	configuration.PreScale = calibration.PreScale
	configuration.PostScale = calibration.PostScale
	gainmap.SetConfiguration(configuration)
	return nil
}

func writePremap(filename string, grid *gainmap.PixelGrid) error {
	if VerbosityLevel > 0 {
		logger.Info(fmt.Sprintf("Saving premap to: %s", filename), "main")
	}
	file, err := os.Create(filename)
	if err != nil {
		return &gainmap.ErrOpenFile{Filename: filename, Err: err}
	}
	if err := gainmap.WritePremap(file, grid); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
