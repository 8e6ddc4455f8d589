package gainmap

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

const maxLineLength = 1024 * 1024

type LineData struct {
	Number  int
	Line    string
	TooLong bool
	Length  int
}

type Pixel struct {
	X int
	Y int
}

type HitResult struct {
	Line       int
	Status     EventStatus
	X          int
	Y          int
	Charge     float64
	DoubleHits []Pixel
	Err        error
}

// LineProcessor turns event lines into hits with the settings of one run.
type LineProcessor struct {
	AmplitudePrefix bool
	SameSide        bool
	RightOffset     int
	Calibration     ChargeCalibration
}

func NewLineProcessor(config Configuration) LineProcessor {
	return LineProcessor{
		AmplitudePrefix: config.AmplitudePrefix,
		SameSide:        config.SameSide,
		RightOffset:     config.RightOffset,
		Calibration:     config.ChargeCalibration(),
	}
}

func (p LineProcessor) Process(number int, line string) (result HitResult) {
	result.Line = number
	defer func() {
		if r := recover(); r != nil {
			result.Status = EventMalformed
			result.Err = fmt.Errorf("recovered from panic decoding line %d: %v", number, r)
		}
	}()

	record, err := DecodeRecord(line, p.AmplitudePrefix)
	if err != nil {
		result.Status = EventMalformed
		result.Err = err
		return result
	}

	clusters := FindClusters(record)
	hit := ResolveHitWithOffset(clusters, p.RightOffset)
	result.Status = clusters.Status(hit)

	if hit.X.Kind == CoordDoubleHit && hit.Y.Kind == CoordDoubleHit {
		result.DoubleHits = []Pixel{
			{X: int(clusters.XLeft.Centroid), Y: int(clusters.YLeft.Centroid)},
			{X: int(clusters.XRight.Centroid) + p.RightOffset, Y: int(clusters.YRight.Centroid)},
		}
	}
	if result.Status != EventAccepted {
		return result
	}
	if p.SameSide && !clusters.SameSide() {
		result.Status = EventSideMismatch
		return result
	}

	result.X = hit.X.Value
	result.Y = hit.Y.Value
	result.Charge = p.Calibration.Calibrate(hit.X.Value, record.Amplitudes)
	return result
}

type RunResult struct {
	Pixels     *PixelGrid
	DoubleHits *DoubleHitMap
	Stats      RunStats
}

func NewRunResult() RunResult {
	return RunResult{
		Pixels:     NewPixelGrid(),
		DoubleHits: NewDoubleHitMap(),
	}
}

// Add stores one hit. Only one goroutine may call it.
func (r *RunResult) Add(hit HitResult) {
	r.Stats.Count(hit.Status)
	for _, pixel := range hit.DoubleHits {
		r.DoubleHits.Fill(pixel.X, pixel.Y)
	}
	if hit.Status == EventAccepted {
		r.Pixels.Add(hit.X, hit.Y, hit.Charge)
	}
}

// AccumulateRun decodes every event line of r into a pixel grid. Lines are
// decoded by config.NumWorkers goroutines and collected by the caller's
// goroutine, which is the only one touching the grid. Bad lines, including
// lines longer than maxLineLength, are counted and skipped; only a read
// error stops the run.
func AccumulateRun(r io.Reader, config Configuration) (RunResult, error) {
	nWorkers := config.NumWorkers
	if nWorkers < 1 {
		nWorkers = 1
	}

	reader := bufio.NewReaderSize(r, 64*1024)

	jobs := make(chan LineData, 1000)
	results := make(chan HitResult, 1000)
	processor := NewLineProcessor(config)

	var wg sync.WaitGroup
	for w := 1; w <= nWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker(id, processor, config.Verbosity, jobs, results)
		}(w)
	}

	var readStats readerStats
	readErr := make(chan error, 1)
	go func() {
		var err error
		readStats, err = sendLinesToWorkers(reader, jobs, config.Skip, config.MaxEvents, config.Verbosity)
		readErr <- err
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	run := NewRunResult()
	for hit := range results {
		if hit.Err != nil && config.Verbosity > 1 {
			message := fmt.Errorf("discarding line %d: %w", hit.Line, hit.Err)
			logger.Error(message.Error())
		}
		run.Add(hit)
	}

	err := <-readErr
	run.Stats.Lines = readStats.Sent
	run.Stats.Skipped = readStats.Skipped
	if err != nil {
		return run, fmt.Errorf("error reading events: %w", err)
	}

	if config.Verbosity > 0 {
		message := fmt.Sprintf("Lines: %d, accepted: %d, malformed: %d, no hit: %d, ambiguous: %d, double hit: %d",
			run.Stats.Lines, run.Stats.Accepted, run.Stats.Malformed, run.Stats.NoHit,
			run.Stats.Ambiguous, run.Stats.DoubleHit)
		logger.Info(message, "workers")
	}
	return run, nil
}

func worker(id int, processor LineProcessor, verbosity int, jobs <-chan LineData, results chan<- HitResult) {
	for job := range jobs {
		if verbosity > 3 {
			message := fmt.Sprintf("Worker %d processing line %d", id, job.Number)
			logger.Info(message, "workers")
		}
		if job.TooLong {
			results <- HitResult{
				Line:   job.Number,
				Status: EventMalformed,
				Err:    &ErrLineTooLong{Length: job.Length, Limit: maxLineLength},
			}
			continue
		}
		results <- processor.Process(job.Number, job.Line)
	}
}

type readerStats struct {
	Sent    int
	Skipped int
}

// sendLinesToWorkers feeds the jobs channel and always closes it.
func sendLinesToWorkers(reader *bufio.Reader, jobs chan<- LineData, skip int, maxEvents int, verbosity int) (readerStats, error) {
	defer close(jobs)

	var stats readerStats
	number := -1
	for {
		line, length, err := readLine(reader, maxLineLength)
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}
		number++
		if number < skip {
			stats.Skipped++
			continue
		}
		if stats.Sent >= maxEvents {
			if verbosity > 0 {
				logger.Info("Max events reached", "fileReader")
			}
			return stats, nil
		}
		jobs <- LineData{Number: number, Line: line, TooLong: length > maxLineLength, Length: length}
		stats.Sent++
	}
}

// readLine returns the next line without its end of line and the line
// length. Lines longer than maxLength are consumed but their content is
// dropped. The error is io.EOF only when no line is left.
func readLine(reader *bufio.Reader, maxLength int) (string, int, error) {
	var buf []byte
	length := 0
	for {
		chunk, isPrefix, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF && length > 0 {
				break
			}
			return "", 0, err
		}
		length += len(chunk)
		if length <= maxLength {
			buf = append(buf, chunk...)
		} else {
			buf = nil
		}
		if !isPrefix {
			break
		}
	}
	return string(buf), length, nil
}
