package writer

import (
	"errors"
	"fmt"

	gainmap "github.com/jmbenlloch/gainmap_go/pkg"
	hdf5 "github.com/jmbenlloch/go-hdf5"
)

// MapWriter stores a calibration map and its run diagnostics in HDF5:
//
//	/Run/runInfo     run number
//	/Run/stats       event counters
//	/Map/pixels      one row per pixel, x-major
//	/Map/double_hits NX x NY double hit counts
type MapWriter struct {
	File             *hdf5.File
	Filename         string
	CompressionLevel int
	RunGroup         *hdf5.Group
	MapGroup         *hdf5.Group
	RunInfoTable     *hdf5.Dataset
	StatsTable       *hdf5.Dataset
	PixelsTable      *hdf5.Dataset
	DoubleHits       *hdf5.Dataset
	RunCounter       int
}

func NewMapWriter(filename string, compressionLevel int) (*MapWriter, error) {
	var err error
	writer := &MapWriter{Filename: filename, CompressionLevel: compressionLevel}
	if gainmap.GetConfiguration().Verbosity > 0 {
		gainmap.GetLogger().Info(fmt.Sprintf("Creating file: %s", filename), "hdf5writer")
	}

	if writer.File, err = openFile(filename); err != nil {
		return nil, err
	}
	if writer.RunGroup, err = createGroup(writer.File, "Run"); err != nil {
		writer.Close()
		return nil, err
	}
	if writer.MapGroup, err = createGroup(writer.File, "Map"); err != nil {
		writer.Close()
		return nil, err
	}
	if writer.RunInfoTable, err = createTable(writer.RunGroup, "runInfo", RunInfoHDF5{}, compressionLevel); err != nil {
		writer.Close()
		return nil, err
	}
	if writer.StatsTable, err = createTable(writer.RunGroup, "stats", RunStatsHDF5{}, compressionLevel); err != nil {
		writer.Close()
		return nil, err
	}
	if writer.PixelsTable, err = createTable(writer.MapGroup, "pixels", PixelFitHDF5{}, compressionLevel); err != nil {
		writer.Close()
		return nil, err
	}
	return writer, nil
}

func (w *MapWriter) WriteRunInfo(runNumber int, stats gainmap.RunStats) error {
	if err := writeEntryToTable(w.RunInfoTable, RunInfoHDF5{run_number: int32(runNumber)}, w.RunCounter); err != nil {
		return fmt.Errorf("error writing run info: %w", err)
	}
	if err := writeEntryToTable(w.StatsTable, toRunStatsHDF5(stats), w.RunCounter); err != nil {
		return fmt.Errorf("error writing run stats: %w", err)
	}
	w.RunCounter++
	return nil
}

func (w *MapWriter) WriteMap(m gainmap.CalibrationMap) error {
	rows := make([]PixelFitHDF5, len(m))
	for i, record := range m {
		rows[i] = toPixelFitHDF5(record)
	}
	if err := writeArrayToTable(w.PixelsTable, &rows, 0); err != nil {
		return fmt.Errorf("error writing map: %w", err)
	}
	return nil
}

func (w *MapWriter) WriteDoubleHits(d *gainmap.DoubleHitMap) error {
	var err error
	if w.DoubleHits == nil {
		w.DoubleHits, err = create2dArray(w.MapGroup, "double_hits", gainmap.NX, gainmap.NY, w.CompressionLevel)
		if err != nil {
			return err
		}
	}
	data := d.Columns()
	if err := w.DoubleHits.Write(&data); err != nil {
		return fmt.Errorf("error writing double hits: %w", err)
	}
	return nil
}

func (w *MapWriter) Close() error {
	if gainmap.GetConfiguration().Verbosity > 0 {
		gainmap.GetLogger().Info(fmt.Sprintf("Closing file %s", w.Filename), "hdf5writer")
	}
	var errs []error

	datasets := []struct {
		name string
		dset *hdf5.Dataset
	}{
		{"run info table", w.RunInfoTable},
		{"stats table", w.StatsTable},
		{"pixels table", w.PixelsTable},
		{"double hits", w.DoubleHits},
	}
	for _, d := range datasets {
		if d.dset == nil {
			continue
		}
		if err := d.dset.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s: %w", d.name, err))
		}
	}
	if w.RunGroup != nil {
		if err := w.RunGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing run group: %w", err))
		}
	}
	if w.MapGroup != nil {
		if err := w.MapGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing map group: %w", err))
		}
	}
	if w.File != nil {
		if err := w.File.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing file: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
