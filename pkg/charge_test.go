package gainmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdcIndex(t *testing.T) {
	tests := []struct {
		x        int
		expected int
	}{
		{0, 0}, {55, 0}, {56, 1}, {111, 1}, {112, 2}, {167, 2}, {168, 3}, {223, 3},
		{-1, -1}, {NX, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, AdcIndex(tt.x), "x = %d", tt.x)
	}
}

func TestCalibrate(t *testing.T) {
	calibration := DefaultChargeCalibration()
	amplitudes := [NADC]float64{3000, 1500, 2900, 2700}

	assert.InDelta(t, 1.4*(3000.0-2792.0), calibration.Calibrate(10, amplitudes), 1e-9)
	assert.InDelta(t, 2*1500.0-2780.0, calibration.Calibrate(60, amplitudes), 1e-9)
	assert.InDelta(t, 2900.0-2801.0, calibration.Calibrate(150, amplitudes), 1e-9)
	// Negative charges are kept, the fit deals with them
	assert.InDelta(t, 2700.0-2790.0, calibration.Calibrate(200, amplitudes), 1e-9)
}

func TestCalibrateCustomConstants(t *testing.T) {
	calibration := ChargeCalibration{
		Pedestals: [NADC]float64{100, 100, 100, 100},
		PreScale:  [NADC]float64{1, 1, 1, 3},
		PostScale: [NADC]float64{1, 1, 1, 0.5},
	}
	amplitudes := [NADC]float64{0, 0, 0, 200}
	assert.InDelta(t, (3*200.0-100)*0.5, calibration.Calibrate(NX-1, amplitudes), 1e-9)
}
