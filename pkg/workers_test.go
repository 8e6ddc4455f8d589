package gainmap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const amplitudes = "3000 1500 2900 2700"

var (
	leftHitLine   = "0 0 0 3 5 6 7 1 20 0 0 " + amplitudes
	rightHitLine  = "0 0 0 0 0 1 10 1 50 " + amplitudes
	doubleHitLine = "0 0 0 1 10 1 30 1 20 1 40 " + amplitudes
	mixedSideLine = "0 0 0 1 5 0 0 1 50 " + amplitudes
	noHitLine     = "0 0 0 1 5 0 0 0 " + amplitudes
	ambiguousLine = "0 0 0 2 5 7 1 20 0 0 " + amplitudes
	brokenLine    = "0 0 0 3 5 6"
)

func testConfiguration(nWorkers int) Configuration {
	config := DefaultConfiguration()
	config.NumWorkers = nWorkers
	return config
}

func TestProcessLeftHit(t *testing.T) {
	processor := NewLineProcessor(testConfiguration(1))
	result := processor.Process(7, leftHitLine)

	assert.Equal(t, 7, result.Line)
	assert.Equal(t, EventAccepted, result.Status)
	assert.Equal(t, 6, result.X)
	assert.Equal(t, 20, result.Y)
	assert.InDelta(t, 1.4*(3000.0-2792.0), result.Charge, 1e-9)
	assert.NoError(t, result.Err)
}

func TestProcessRightHit(t *testing.T) {
	processor := NewLineProcessor(testConfiguration(1))
	result := processor.Process(0, rightHitLine)

	require.Equal(t, EventAccepted, result.Status)
	assert.Equal(t, 122, result.X)
	assert.Equal(t, 50, result.Y)
	assert.InDelta(t, 2900.0-2801.0, result.Charge, 1e-9)
}

func TestProcessStatuses(t *testing.T) {
	processor := NewLineProcessor(testConfiguration(1))

	tests := []struct {
		line     string
		expected EventStatus
	}{
		{noHitLine, EventNoHit},
		{ambiguousLine, EventAmbiguous},
		{doubleHitLine, EventDoubleHit},
		{brokenLine, EventMalformed},
		{"", EventMalformed},
		{mixedSideLine, EventAccepted},
	}
	for _, tt := range tests {
		result := processor.Process(0, tt.line)
		assert.Equal(t, tt.expected, result.Status, "line %q", tt.line)
	}
}

func TestProcessSameSide(t *testing.T) {
	config := testConfiguration(1)
	config.SameSide = true
	processor := NewLineProcessor(config)

	assert.Equal(t, EventSideMismatch, processor.Process(0, mixedSideLine).Status)
	assert.Equal(t, EventAccepted, processor.Process(0, rightHitLine).Status)
}

func TestProcessDoubleHitPositions(t *testing.T) {
	processor := NewLineProcessor(testConfiguration(1))
	result := processor.Process(0, doubleHitLine)

	assert.Equal(t, []Pixel{{X: 10, Y: 30}, {X: 132, Y: 40}}, result.DoubleHits)
}

func TestAccumulateRun(t *testing.T) {
	input := strings.Join([]string{
		leftHitLine,
		leftHitLine,
		rightHitLine,
		doubleHitLine,
		noHitLine,
		ambiguousLine,
		brokenLine,
	}, "\n")

	run, err := AccumulateRun(strings.NewReader(input), testConfiguration(2))
	require.NoError(t, err)

	assert.Equal(t, 2, run.Pixels.Occupancy(6, 20))
	assert.Equal(t, 1, run.Pixels.Occupancy(122, 50))
	assert.Equal(t, 3, run.Pixels.Total())
	for _, sample := range run.Pixels.Samples(6, 20) {
		assert.InDelta(t, 1.4*(3000.0-2792.0), sample, 1e-9)
	}

	assert.Equal(t, int32(1), run.DoubleHits.Count(10, 30))
	assert.Equal(t, int32(1), run.DoubleHits.Count(132, 40))

	expected := RunStats{
		Lines:     7,
		Malformed: 1,
		Accepted:  3,
		NoHit:     1,
		Ambiguous: 1,
		DoubleHit: 1,
	}
	assert.Equal(t, expected, run.Stats)
}

func TestAccumulateRunEmpty(t *testing.T) {
	run, err := AccumulateRun(strings.NewReader(""), testConfiguration(4))
	require.NoError(t, err)
	assert.Equal(t, 0, run.Pixels.Total())
	assert.Equal(t, RunStats{}, run.Stats)
}

func TestAccumulateRunSkipAndMaxEvents(t *testing.T) {
	lines := []string{noHitLine, noHitLine, leftHitLine, leftHitLine, leftHitLine, leftHitLine}
	config := testConfiguration(1)
	config.Skip = 2
	config.MaxEvents = 3

	run, err := AccumulateRun(strings.NewReader(strings.Join(lines, "\n")), config)
	require.NoError(t, err)
	assert.Equal(t, 2, run.Stats.Skipped)
	assert.Equal(t, 3, run.Stats.Lines)
	assert.Equal(t, 3, run.Stats.Accepted)
	assert.Equal(t, 0, run.Stats.NoHit)
	assert.Equal(t, 3, run.Pixels.Occupancy(6, 20))
}

func TestAccumulateRunWorkerIndependence(t *testing.T) {
	var builder strings.Builder
	bodies := []string{leftHitLine, rightHitLine, doubleHitLine, noHitLine}
	for i := 0; i < 400; i++ {
		builder.WriteString(bodies[i%len(bodies)])
		builder.WriteString("\n")
	}
	input := builder.String()

	single, err := AccumulateRun(strings.NewReader(input), testConfiguration(1))
	require.NoError(t, err)
	multi, err := AccumulateRun(strings.NewReader(input), testConfiguration(4))
	require.NoError(t, err)

	assert.Equal(t, single.Stats, multi.Stats)
	assert.Equal(t, single.Pixels.Samples(6, 20), multi.Pixels.Samples(6, 20))
	assert.Equal(t, single.Pixels.Samples(122, 50), multi.Pixels.Samples(122, 50))
	assert.Equal(t, single.DoubleHits.Columns(), multi.DoubleHits.Columns())
}

func TestAccumulateRunReadError(t *testing.T) {
	readErr := errors.New("disk on fire")
	_, err := AccumulateRun(iotest.ErrReader(readErr), testConfiguration(2))
	require.Error(t, err)
	assert.ErrorIs(t, err, readErr)
}

func TestAccumulateRunOversizedLine(t *testing.T) {
	oversized := "0 0 0 " + strings.Repeat("9", 2*maxLineLength)
	input := leftHitLine + "\n" + oversized + "\n" + leftHitLine + "\n"

	run, err := AccumulateRun(strings.NewReader(input), testConfiguration(2))
	require.NoError(t, err)
	assert.Equal(t, 3, run.Stats.Lines)
	assert.Equal(t, 2, run.Stats.Accepted)
	assert.Equal(t, 1, run.Stats.Malformed)
	assert.Equal(t, 2, run.Pixels.Occupancy(6, 20))
}

func TestAccumulateRunOversizedLastLine(t *testing.T) {
	input := leftHitLine + "\n" + strings.Repeat("1 ", maxLineLength)

	run, err := AccumulateRun(strings.NewReader(input), testConfiguration(1))
	require.NoError(t, err)
	assert.Equal(t, 2, run.Stats.Lines)
	assert.Equal(t, 1, run.Stats.Accepted)
	assert.Equal(t, 1, run.Stats.Malformed)
}

func TestReadLine(t *testing.T) {
	reader := bufio.NewReaderSize(strings.NewReader("ab\n\n"+strings.Repeat("x", 40)+"\r\nlast"), 16)

	line, length, err := readLine(reader, 20)
	require.NoError(t, err)
	assert.Equal(t, "ab", line)
	assert.Equal(t, 2, length)

	line, length, err = readLine(reader, 20)
	require.NoError(t, err)
	assert.Equal(t, "", line)
	assert.Equal(t, 0, length)

	line, length, err = readLine(reader, 20)
	require.NoError(t, err)
	assert.Equal(t, "", line)
	assert.Equal(t, 40, length)

	line, _, err = readLine(reader, 20)
	require.NoError(t, err)
	assert.Equal(t, "last", line)

	_, _, err = readLine(reader, 20)
	assert.Equal(t, io.EOF, err)
}

type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *recordingLogger) Info(message string, module string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, module+": "+message)
}

func (l *recordingLogger) Error(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, "error: "+message)
}

func useRecordingLogger(t *testing.T) *recordingLogger {
	t.Helper()
	previous := GetLogger()
	recorder := &recordingLogger{}
	SetLogger(recorder)
	t.Cleanup(func() { SetLogger(previous) })
	return recorder
}

func TestVerbosityFollowsArgument(t *testing.T) {
	recorder := useRecordingLogger(t)
	require.Equal(t, 0, GetConfiguration().Verbosity)

	config := testConfiguration(1)
	config.Verbosity = 4
	run, err := AccumulateRun(strings.NewReader(leftHitLine), config)
	require.NoError(t, err)
	AssembleMap(run.Pixels, config)

	assert.Contains(t, recorder.messages, "workers: Worker 1 processing line 0")
	assert.Contains(t, recorder.messages, "mapAssembler: Worker 1 fitting column 0")

	recorder.messages = nil
	config.Verbosity = 0
	run, err = AccumulateRun(strings.NewReader(leftHitLine), config)
	require.NoError(t, err)
	AssembleMap(run.Pixels, config)
	assert.Empty(t, recorder.messages)
}

func TestPipelineIdempotent(t *testing.T) {
	var builder strings.Builder
	for _, sample := range gaussianSamples(600, 3000, 40, 21) {
		// Amplitude 0 is calibrated as 1.4*(amp - 2792)
		fmt.Fprintf(&builder, "0 0 0 3 5 6 7 1 20 0 0 %.6f 0 0 0\n", sample)
	}
	builder.WriteString(doubleHitLine + "\n" + brokenLine + "\n")
	input := builder.String()

	first, err := AccumulateRun(strings.NewReader(input), testConfiguration(1))
	require.NoError(t, err)
	second, err := AccumulateRun(strings.NewReader(input), testConfiguration(4))
	require.NoError(t, err)

	firstMap := AssembleMap(first.Pixels, testConfiguration(1))
	secondMap := AssembleMap(second.Pixels, testConfiguration(4))
	assert.Equal(t, firstMap, secondMap)
	assert.Equal(t, first.Stats, second.Stats)

	record := firstMap.At(6, 20)
	require.True(t, record.Fitted())
	assert.InEpsilon(t, 1.4*(3000.0-2792.0), record.Mean, 0.05)
	assert.Equal(t, 600, record.RawOccupancy)
}

func TestPipelineEmptyInput(t *testing.T) {
	run, err := AccumulateRun(strings.NewReader(""), testConfiguration(2))
	require.NoError(t, err)
	fitMap := AssembleMap(run.Pixels, testConfiguration(2))

	require.Len(t, fitMap, NPIXELS)
	assert.Empty(t, fitMap.Filter(PixelFitRecord.Fitted))
	for i, record := range fitMap {
		assert.Equal(t, i, mapIndex(record.X, record.Y))
		assert.Equal(t, -1.0, record.Mean)
		assert.Equal(t, 0, record.RawOccupancy)
	}
}
