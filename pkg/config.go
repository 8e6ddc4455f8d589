package gainmap

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Configuration struct {
	MaxEvents        int           `json:"max_events" toml:"max_events" yaml:"max_events"`
	Skip             int           `json:"skip" toml:"skip" yaml:"skip"`
	Verbosity        int           `json:"verbosity" toml:"verbosity" yaml:"verbosity"`
	RunNumber        int           `json:"run_number" toml:"run_number" yaml:"run_number"`
	FileIn           string        `json:"file_in" toml:"file_in" yaml:"file_in"`
	FileOut          string        `json:"file_out" toml:"file_out" yaml:"file_out"`
	FileMap          string        `json:"file_map" toml:"file_map" yaml:"file_map"`
	FilePremap       string        `json:"file_premap" toml:"file_premap" yaml:"file_premap"`
	FileSqlite       string        `json:"file_sqlite" toml:"file_sqlite" yaml:"file_sqlite"`
	NoDB             bool          `json:"no_db" toml:"no_db" yaml:"no_db"`
	Host             string        `json:"host" toml:"host" yaml:"host"`
	User             string        `json:"user" toml:"user" yaml:"user"`
	Passwd           string        `json:"pass" toml:"pass" yaml:"pass"`
	DBName           string        `json:"dbname" toml:"dbname" yaml:"dbname"`
	NumWorkers       int           `json:"num_workers" toml:"num_workers" yaml:"num_workers"`
	WriteData        bool          `json:"write_data" toml:"write_data" yaml:"write_data"`
	CompressionLevel int           `json:"compression_level" toml:"compression_level" yaml:"compression_level"`
	AmplitudePrefix  bool          `json:"amplitude_prefix" toml:"amplitude_prefix" yaml:"amplitude_prefix"`
	SameSide         bool          `json:"same_side" toml:"same_side" yaml:"same_side"`
	RightOffset      int           `json:"right_offset" toml:"right_offset" yaml:"right_offset"`
	Pedestals        [NADC]float64 `json:"pedestals" toml:"pedestals" yaml:"pedestals"`
	PreScale         [NADC]float64 `json:"pre_scale" toml:"pre_scale" yaml:"pre_scale"`
	PostScale        [NADC]float64 `json:"post_scale" toml:"post_scale" yaml:"post_scale"`
	MinSamples       int           `json:"min_samples" toml:"min_samples" yaml:"min_samples"`
	TrimSigma        float64       `json:"trim_sigma" toml:"trim_sigma" yaml:"trim_sigma"`
	PeakSigma        float64       `json:"peak_sigma" toml:"peak_sigma" yaml:"peak_sigma"`
	MaxMean          float64       `json:"max_mean" toml:"max_mean" yaml:"max_mean"`
}

var configuration Configuration = DefaultConfiguration()

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}

func DefaultConfiguration() Configuration {
	var config Configuration

	// Set default values
	config.MaxEvents = 1000000000
	config.Skip = 0
	config.Verbosity = 0
	config.RunNumber = 0
	config.NoDB = true
	config.Host = "localhost"
	config.User = "gainreader"
	config.Passwd = "readonly"
	config.DBName = "GAINSCAN"
	config.NumWorkers = 1
	config.WriteData = true
	config.CompressionLevel = 4
	config.AmplitudePrefix = false
	config.SameSide = false
	config.RightOffset = RIGHT_OFFSET

	calibration := DefaultChargeCalibration()
	config.Pedestals = calibration.Pedestals
	config.PreScale = calibration.PreScale
	config.PostScale = calibration.PostScale

	fit := DefaultFitSettings()
	config.MinSamples = fit.MinSamples
	config.TrimSigma = fit.TrimSigma
	config.PeakSigma = fit.PeakSigma
	config.MaxMean = fit.MaxMean
	return config
}

// LoadConfiguration reads the configuration file on top of the defaults.
// The format is chosen by extension; anything that is not TOML or YAML is read as JSON.
func LoadConfiguration(filename string) (Configuration, error) {
	config := DefaultConfiguration()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}

	switch filepath.Ext(filename) {
	case ".toml":
		if _, err := toml.Decode(string(data), &config); err != nil {
			return config, fmt.Errorf("decode TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("decode JSON: %w", err)
		}
	}
	return config, nil
}

func (c Configuration) ChargeCalibration() ChargeCalibration {
	return ChargeCalibration{
		Pedestals: c.Pedestals,
		PreScale:  c.PreScale,
		PostScale: c.PostScale,
	}
}

func (c Configuration) FitSettings() FitSettings {
	return FitSettings{
		MinSamples: c.MinSamples,
		TrimSigma:  c.TrimSigma,
		PeakSigma:  c.PeakSigma,
		MaxMean:    c.MaxMean,
	}
}
