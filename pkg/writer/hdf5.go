package writer

import (
	gainmap "github.com/jmbenlloch/gainmap_go/pkg"
	hdf5 "github.com/jmbenlloch/go-hdf5"
)

// Field names are the column names of the tables in the file.
type PixelFitHDF5 struct {
	x     int32
	y     int32
	mean  float64
	sigma float64
	nraw  float64
	npeak float64
	chi2  float64
	ndf   int32
}

type RunInfoHDF5 struct {
	run_number int32
}

type RunStatsHDF5 struct {
	lines         int32
	skipped       int32
	malformed     int32
	accepted      int32
	no_hit        int32
	ambiguous     int32
	double_hit    int32
	out_of_range  int32
	side_mismatch int32
}

func toPixelFitHDF5(r gainmap.PixelFitRecord) PixelFitHDF5 {
	return PixelFitHDF5{
		x:     int32(r.X),
		y:     int32(r.Y),
		mean:  r.Mean,
		sigma: r.Width,
		nraw:  float64(r.RawOccupancy),
		npeak: float64(r.PeakOccupancy),
		chi2:  r.ChiSquare,
		ndf:   int32(r.Ndf),
	}
}

func toRunStatsHDF5(s gainmap.RunStats) RunStatsHDF5 {
	return RunStatsHDF5{
		lines:         int32(s.Lines),
		skipped:       int32(s.Skipped),
		malformed:     int32(s.Malformed),
		accepted:      int32(s.Accepted),
		no_hit:        int32(s.NoHit),
		ambiguous:     int32(s.Ambiguous),
		double_hit:    int32(s.DoubleHit),
		out_of_range:  int32(s.OutOfRange),
		side_mismatch: int32(s.SideMismatch),
	}
}

func openFile(fname string) (*hdf5.File, error) {
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, &gainmap.ErrOpenFile{Filename: fname, Err: err}
	}
	return f, nil
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		return nil, &gainmap.ErrCreateGroup{GroupName: groupName, Err: err}
	}
	return g, nil
}

func newCompressedPropList(chunks []uint, compressionLevel int) (*hdf5.PropList, error) {
	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, err
	}
	if err := plist.SetChunk(chunks); err != nil {
		plist.Close()
		return nil, err
	}
	if err := plist.SetDeflate(compressionLevel); err != nil {
		plist.Close()
		return nil, err
	}
	return plist, nil
}

// createTable creates an extendable one dimensional table of compound rows
// shaped like datatype.
func createTable(group *hdf5.Group, name string, datatype interface{}, compressionLevel int) (*hdf5.Dataset, error) {
	dims := []uint{0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims)}
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, &gainmap.ErrCreateTable{TableName: name, Err: err}
	}
	defer fileSpace.Close()

	plist, err := newCompressedPropList([]uint{32768}, compressionLevel)
	if err != nil {
		return nil, &gainmap.ErrCreateTable{TableName: name, Err: err}
	}
	defer plist.Close()

	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		return nil, &gainmap.ErrCreateTable{TableName: name, Err: err}
	}

	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		return nil, &gainmap.ErrCreateTable{TableName: name, Err: err}
	}
	return dset, nil
}

// create2dArray creates a fixed nRows x nCols int32 dataset.
func create2dArray(group *hdf5.Group, name string, nRows int, nCols int, compressionLevel int) (*hdf5.Dataset, error) {
	dims := []uint{uint(nRows), uint(nCols)}
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return nil, &gainmap.ErrCreateTable{TableName: name, Err: err}
	}
	defer fileSpace.Close()

	plist, err := newCompressedPropList(dims, compressionLevel)
	if err != nil {
		return nil, &gainmap.ErrCreateTable{TableName: name, Err: err}
	}
	defer plist.Close()

	dset, err := group.CreateDatasetWith(name, hdf5.T_NATIVE_INT32, fileSpace, plist)
	if err != nil {
		return nil, &gainmap.ErrCreateTable{TableName: name, Err: err}
	}
	return dset, nil
}

func writeEntryToTable[T any](dataset *hdf5.Dataset, data T, offset int) error {
	array := []T{data}
	return writeArrayToTable(dataset, &array, offset)
}

// writeArrayToTable extends the table and writes data starting at row offset.
func writeArrayToTable[T any](dataset *hdf5.Dataset, data *[]T, offset int) error {
	length := uint(len(*data))
	dataspace, err := hdf5.CreateSimpleDataspace([]uint{length}, nil)
	if err != nil {
		return err
	}
	defer dataspace.Close()

	if err := dataset.Resize([]uint{uint(offset) + length}); err != nil {
		return err
	}
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{uint(offset)}
	count := []uint{length}
	if err := filespace.SelectHyperslab(start, nil, count, nil); err != nil {
		return err
	}
	return dataset.WriteSubset(data, dataspace, filespace)
}
