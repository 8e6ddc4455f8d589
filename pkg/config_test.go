package gainmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name string, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o644))
	return filename
}

func TestLoadConfigurationJSON(t *testing.T) {
	filename := writeConfigFile(t, "config.json", `{
		"file_in": "run_1234.txt",
		"num_workers": 8,
		"same_side": true,
		"pedestals": [1, 2, 3, 4]
	}`)

	config, err := LoadConfiguration(filename)
	require.NoError(t, err)
	assert.Equal(t, "run_1234.txt", config.FileIn)
	assert.Equal(t, 8, config.NumWorkers)
	assert.True(t, config.SameSide)
	assert.Equal(t, [NADC]float64{1, 2, 3, 4}, config.Pedestals)

	defaults := DefaultConfiguration()
	assert.Equal(t, defaults.PreScale, config.PreScale)
	assert.Equal(t, defaults.MaxEvents, config.MaxEvents)
	assert.Equal(t, defaults.FitSettings(), config.FitSettings())
}

func TestLoadConfigurationTOML(t *testing.T) {
	filename := writeConfigFile(t, "config.toml", `
file_in = "scan.txt"
file_map = "map.txt"
verbosity = 2
min_samples = 50
amplitude_prefix = true
`)

	config, err := LoadConfiguration(filename)
	require.NoError(t, err)
	assert.Equal(t, "scan.txt", config.FileIn)
	assert.Equal(t, "map.txt", config.FileMap)
	assert.Equal(t, 2, config.Verbosity)
	assert.Equal(t, 50, config.FitSettings().MinSamples)
	assert.True(t, config.AmplitudePrefix)
	assert.Equal(t, RIGHT_OFFSET, config.RightOffset)
}

func TestLoadConfigurationYAML(t *testing.T) {
	filename := writeConfigFile(t, "config.yaml", `
file_in: scan.txt
skip: 10
post_scale: [1.2, 1, 1, 1]
`)

	config, err := LoadConfiguration(filename)
	require.NoError(t, err)
	assert.Equal(t, "scan.txt", config.FileIn)
	assert.Equal(t, 10, config.Skip)
	assert.Equal(t, 1.2, config.ChargeCalibration().PostScale[0])
	assert.Equal(t, DefaultChargeCalibration().Pedestals, config.ChargeCalibration().Pedestals)
}

func TestLoadConfigurationErrors(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	filename := writeConfigFile(t, "broken.json", `{"file_in": `)
	_, err = LoadConfiguration(filename)
	assert.ErrorContains(t, err, "decode JSON")

	filename = writeConfigFile(t, "broken.toml", `file_in = `)
	_, err = LoadConfiguration(filename)
	assert.ErrorContains(t, err, "decode TOML")
}
