// Command fitmap fits a premap file written by gainmap, so the fit settings
// can be changed without decoding the run again.
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

var logger gainmap.Logger

func init() {
	logger = gainmap.NewLogger(os.Stdout, os.Stderr)
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	premapFilename := flag.String("premap", "", "Premap file, overrides file_premap")
	flag.Parse()

	if err := run(*configFilename, *premapFilename); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(configFilename string, premapFilename string) error {
	var err error
	configuration, err = gainmap.LoadConfiguration(configFilename)
	if err != nil {
		return fmt.Errorf("Error reading configuration file: %w", err)
	}
	if premapFilename != "" {
		configuration.FilePremap = premapFilename
	}
	gainmap.SetConfiguration(configuration)
	gainmap.SetLogger(logger)

	if configuration.Verbosity > 0 {
		printConfiguration(configuration, logger)
	}

	file, err := os.Open(configuration.FilePremap)
	if err != nil {
		return fmt.Errorf("Error opening file: %w", err)
	}
	defer file.Close()

	start := time.Now()
	grid, skipped, err := gainmap.ReadPremap(file)
	if err != nil {
		return err
	}
	if skipped > 0 {
		logger.Error(fmt.Sprintf("%d premap lines could not be read", skipped))
	}

	fitMap := gainmap.AssembleMap(grid, configuration)
	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Generating map took %d ms", time.Since(start).Milliseconds())
		logger.Info(message, "main")
	}

	result := gainmap.RunResult{Pixels: grid}
	if err := writer.WriteOutputs(configuration, fitMap, result); err != nil {
		return fmt.Errorf("Error writing outputs: %w", err)
	}
	return nil
}
