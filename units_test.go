package bristol671_test

import (
	"testing"

	"github.com/lightbench/bristol671"
	"github.com/stretchr/testify/assert"
)

func TestPowerReadingConversions(t *testing.T) {
	t.Run("dBm to milliwatts", func(t *testing.T) {
		p := bristol671.PowerReading{Value: 10, Unit: bristol671.DBm}
		assert.InDelta(t, 10.0, p.DBm(), 1e-9)
		assert.InDelta(t, 10.0, p.Milliwatts(), 1e-9)

		p = bristol671.PowerReading{Value: 0, Unit: bristol671.DBm}
		assert.InDelta(t, 1.0, p.Milliwatts(), 1e-9)

		p = bristol671.PowerReading{Value: -30, Unit: bristol671.DBm}
		assert.InDelta(t, 0.001, p.Milliwatts(), 1e-9)
	})

	t.Run("milliwatts to dBm", func(t *testing.T) {
		p := bristol671.PowerReading{Value: 1, Unit: bristol671.Milliwatt}
		assert.InDelta(t, 0.0, p.DBm(), 1e-9)
		assert.InDelta(t, 1.0, p.Milliwatts(), 1e-9)

		p = bristol671.PowerReading{Value: 100, Unit: bristol671.Milliwatt}
		assert.InDelta(t, 20.0, p.DBm(), 1e-9)
	})
}

func TestWavenumberConversions(t *testing.T) {
	w := bristol671.Wavenumber(6410.0)

	assert.InDelta(t, 6410.0, w.PerCentimeter(), 1e-9)
	assert.InDelta(t, 641000.0, w.PerMeter(), 1e-9)

	// λ = 1/ν̃
	assert.InDelta(t, 1e7/6410.0, w.Wavelength().Nanometers(), 1e-6)

	// f = c·ν̃
	expectedTHz := 299792458.0 * 641000.0 / 1e12
	assert.InDelta(t, expectedTHz, w.Frequency().Terahertz(), 1e-6)
}

func TestPowerUnitWireTokens(t *testing.T) {
	assert.Equal(t, "MW", bristol671.Milliwatt.String())
	assert.Equal(t, "DBM", bristol671.DBm.String())
}
