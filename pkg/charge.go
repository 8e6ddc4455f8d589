package gainmap

// ChargeCalibration holds the per-readout-channel corrections. The raw
// amplitude is multiplied by PreScale, the pedestal is subtracted and the
// result is multiplied by PostScale.
type ChargeCalibration struct {
	Pedestals [NADC]float64
	PreScale  [NADC]float64
	PostScale [NADC]float64
}

func DefaultChargeCalibration() ChargeCalibration {
	return ChargeCalibration{
		Pedestals: [NADC]float64{2792, 2780, 2801, 2790},
		// The firmware stores half the amplitude of channel 1
		PreScale: [NADC]float64{1, 2, 1, 1},
		// Gain matching of channel 0
		PostScale: [NADC]float64{1.4, 1, 1, 1},
	}
}

// AdcIndex returns the readout channel of an x pixel coordinate, or -1 if x
// is outside the grid.
func AdcIndex(x int) int {
	if x < 0 || x >= NX {
		return -1
	}
	return x / ADC_BAND
}

// Calibrate converts the raw amplitudes of an event into the charge seen by
// the pixel column x. Sign and magnitude are not checked.
func (c ChargeCalibration) Calibrate(x int, amplitudes [NADC]float64) float64 {
	adc := AdcIndex(x)
	if adc < 0 {
		return 0
	}
	charge := amplitudes[adc] * c.PreScale[adc]
	charge -= c.Pedestals[adc]
	return charge * c.PostScale[adc]
}
