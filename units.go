package bristol671

import (
	"fmt"
	"math"

	"github.com/martinlindhe/unit"
)

// speed of light in vacuum, m/s
const speedOfLight = 299792458.0

// Environment is the FETCH/READ/MEASURE:ENV? reading: internal
// temperature in degrees Celsius and pressure in mmHg.
type Environment struct {
	Temperature float64
	Pressure    float64
}

// Measurement is the combined FETCH/READ/MEASURE:ALL? reading. Power
// is reported in whatever unit UNIT:POWER currently selects.
type Measurement struct {
	ScanIndex  int
	Status     QuestionableStatus
	Wavelength unit.Length
	Power      float64
}

func asNanometers(v float64) unit.Length {
	return unit.Length(v) * unit.Nanometer
}

// Wavenumber is a spectroscopic wavenumber in reciprocal centimeters.
type Wavenumber float64

func (w Wavenumber) PerCentimeter() float64 {
	return float64(w)
}

func (w Wavenumber) PerMeter() float64 {
	return float64(w) * 100
}

// Wavelength is the equivalent vacuum wavelength, λ = 1/ν̃.
func (w Wavenumber) Wavelength() unit.Length {
	return unit.Length(1/float64(w)) * unit.Centimeter
}

// Frequency is the equivalent optical frequency, f = c·ν̃.
func (w Wavenumber) Frequency() unit.Frequency {
	return unit.Frequency(speedOfLight*w.PerMeter()) * unit.Hertz
}

// PowerUnit is the unit power readings are reported in. Its String is
// the wire token used by UNIT:POWER.
type PowerUnit int

const (
	Milliwatt PowerUnit = iota
	DBm
)

func (u PowerUnit) String() string {
	switch u {
	case Milliwatt:
		return "MW"
	case DBm:
		return "DBM"
	}

	return fmt.Sprintf("PowerUnit(%d)", int(u))
}

// PowerReading is an optical power sample tagged with the unit the
// instrument reported it in. Conversion between the linear and the
// logarithmic scale is done here since general purpose unit libraries
// only cover linear units.
type PowerReading struct {
	Value float64
	Unit  PowerUnit
}

func (p PowerReading) Milliwatts() float64 {
	if p.Unit == DBm {
		return math.Pow(10, p.Value/10)
	}

	return p.Value
}

func (p PowerReading) DBm() float64 {
	if p.Unit == DBm {
		return p.Value
	}

	return 10 * math.Log10(p.Value)
}
