package writer

import (
	"fmt"
	"os"

	gainmap "github.com/jmbenlloch/gainmap_go/pkg"
)

// WriteOutputs sends the map to every sink that has a file name configured.
func WriteOutputs(config gainmap.Configuration, fitMap gainmap.CalibrationMap, run gainmap.RunResult) error {
	if !config.WriteData {
		return nil
	}

	if config.FileMap != "" {
		if err := writeMapText(config.FileMap, fitMap); err != nil {
			return err
		}
	}

	if config.FileOut != "" {
		mapWriter, err := NewMapWriter(config.FileOut, config.CompressionLevel)
		if err != nil {
			return err
		}
		if err := mapWriter.WriteRunInfo(config.RunNumber, run.Stats); err != nil {
			mapWriter.Close()
			return err
		}
		if err := mapWriter.WriteMap(fitMap); err != nil {
			mapWriter.Close()
			return err
		}
		if run.DoubleHits != nil {
			if err := mapWriter.WriteDoubleHits(run.DoubleHits); err != nil {
				mapWriter.Close()
				return err
			}
		}
		if err := mapWriter.Close(); err != nil {
			return err
		}
	}

	if config.FileSqlite != "" {
		db, err := gainmap.OpenMapDatabase(config.FileSqlite)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := gainmap.ExportMap(db, config.RunNumber, fitMap); err != nil {
			return err
		}
	}
	return nil
}

func writeMapText(filename string, fitMap gainmap.CalibrationMap) error {
	file, err := os.Create(filename)
	if err != nil {
		return &gainmap.ErrOpenFile{Filename: filename, Err: err}
	}
	if err := gainmap.WriteMapText(file, fitMap); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", filename, err)
	}
	return nil
}
