package bristol671

import (
	"context"
	"fmt"

	"github.com/martinlindhe/unit"
	"github.com/pkg/errors"
)

// Acquisition selects which scan a measurement query reads from.
// FETCH reuses the last complete scan, READ waits for the current scan
// and MEASURE waits for the next one; READ and MEASURE guarantee a
// fresh reading. To retrieve several quantities from one scan, issue a
// READ followed by FETCHes.
type Acquisition int

const (
	Fetch Acquisition = iota
	Read
	Measure
)

func (a Acquisition) String() string {
	switch a {
	case Fetch:
		return "FETCH"
	case Read:
		return "READ"
	case Measure:
		return "MEASURE"
	}

	return fmt.Sprintf("Acquisition(%d)", int(a))
}

func (a Acquisition) valid() bool {
	return a == Fetch || a == Read || a == Measure
}

// Measurand is a quantity the meter can report.
type Measurand int

const (
	DataPower Measurand = iota
	DataFrequency
	DataWavelength
	DataWavenumber
	DataEnvironment
	DataAll
)

func (m Measurand) String() string {
	switch m {
	case DataPower:
		return "POWER"
	case DataFrequency:
		return "FREQUENCY"
	case DataWavelength:
		return "WAVELENGTH"
	case DataWavenumber:
		return "WAVENUMBER"
	case DataEnvironment:
		return "ENVIRONMENT"
	case DataAll:
		return "ALL"
	}

	return fmt.Sprintf("Measurand(%d)", int(m))
}

// field is the wire spelling used by FETCH/READ/MEASURE queries, which
// differs from String for wavenumber and environment.
func (m Measurand) field() string {
	switch m {
	case DataWavenumber:
		return "WNUMBER"
	case DataEnvironment:
		return "ENV"
	default:
		return m.String()
	}
}

func (m Measurand) scalar() bool {
	switch m {
	case DataPower, DataFrequency, DataWavelength, DataWavenumber:
		return true
	}

	return false
}

func (in *Instrument) measurementQuery(ctx context.Context, acq Acquisition, m Measurand) (string, error) {
	if !acq.valid() {
		return "", errors.Wrapf(ErrInvalidArgument, "unknown acquisition %d", int(acq))
	}

	return in.client.Exec(ctx, fmt.Sprintf("%s:%s?", acq, m.field()))
}

// Wavelength queries the vacuum wavelength. The instrument reports
// nanometers.
func (in *Instrument) Wavelength(ctx context.Context, acq Acquisition) (unit.Length, error) {
	reply, err := in.measurementQuery(ctx, acq, DataWavelength)
	if err != nil {
		return 0, err
	}

	v, err := toFloat(reply, "WAVELENGTH")
	if err != nil {
		return 0, err
	}

	return unit.Length(v) * unit.Nanometer, nil
}

// Frequency queries the optical frequency. The instrument reports
// terahertz.
func (in *Instrument) Frequency(ctx context.Context, acq Acquisition) (unit.Frequency, error) {
	reply, err := in.measurementQuery(ctx, acq, DataFrequency)
	if err != nil {
		return 0, err
	}

	v, err := toFloat(reply, "FREQUENCY")
	if err != nil {
		return 0, err
	}

	return unit.Frequency(v) * unit.Terahertz, nil
}

// Wavenumber queries the wavenumber in reciprocal centimeters.
func (in *Instrument) Wavenumber(ctx context.Context, acq Acquisition) (Wavenumber, error) {
	reply, err := in.measurementQuery(ctx, acq, DataWavenumber)
	if err != nil {
		return 0, err
	}

	v, err := toFloat(reply, "WNUMBER")
	if err != nil {
		return 0, err
	}

	return Wavenumber(v), nil
}

// Power queries the input power together with the unit the instrument
// is currently reporting in, so the reading stays interpretable after
// a UNIT:POWER change.
func (in *Instrument) Power(ctx context.Context, acq Acquisition) (PowerReading, error) {
	reply, err := in.measurementQuery(ctx, acq, DataPower)
	if err != nil {
		return PowerReading{}, err
	}

	v, err := toFloat(reply, "POWER")
	if err != nil {
		return PowerReading{}, err
	}

	u, err := in.PowerUnit(ctx)
	if err != nil {
		return PowerReading{}, err
	}

	return PowerReading{Value: v, Unit: u}, nil
}

// Environment queries the internal temperature and pressure sensors.
func (in *Instrument) Environment(ctx context.Context, acq Acquisition) (Environment, error) {
	reply, err := in.measurementQuery(ctx, acq, DataEnvironment)
	if err != nil {
		return Environment{}, err
	}

	return parseEnvironment(reply)
}

// Snapshot queries FETCH/READ/MEASURE:ALL?, one scan's index, status
// word, wavelength and power in a single exchange.
func (in *Instrument) Snapshot(ctx context.Context, acq Acquisition) (Measurement, error) {
	reply, err := in.measurementQuery(ctx, acq, DataAll)
	if err != nil {
		return Measurement{}, err
	}

	return parseMeasurement(reply)
}

// Scalar dispatches a measurement query by measurand and returns the
// raw value in the instrument's native unit. Only the four scalar
// channels are accepted.
func (in *Instrument) Scalar(ctx context.Context, acq Acquisition, m Measurand) (float64, error) {
	if !m.scalar() {
		return 0, errors.Wrapf(ErrInvalidArgument, "%s is not a scalar measurand", m)
	}

	reply, err := in.measurementQuery(ctx, acq, m)
	if err != nil {
		return 0, err
	}

	return toFloat(reply, m.String())
}

// Averaging queries SENSE:AVERAGE:STATE?.
func (in *Instrument) Averaging(ctx context.Context) (bool, error) {
	reply, err := in.client.Exec(ctx, "SENSE:AVERAGE:STATE?")
	if err != nil {
		return false, err
	}

	return parseOnOff(reply)
}

// SetAveraging switches sample averaging on or off.
func (in *Instrument) SetAveraging(ctx context.Context, on bool) error {
	token := "OFF"
	if on {
		token = "ON"
	}

	return in.client.Send(ctx, "SENSE:AVERAGE:STATE "+token)
}

// AverageCount queries the number of samples folded into an average.
func (in *Instrument) AverageCount(ctx context.Context) (int, error) {
	return in.queryInt(ctx, "SENSE:AVERAGE:COUNT?")
}

// SetAverageCount sets the number of samples to average, which must be
// positive.
func (in *Instrument) SetAverageCount(ctx context.Context, count int) error {
	if count <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "average count %d must be > 0", count)
	}

	return in.client.Send(ctx, fmt.Sprintf("SENSE:AVERAGE:COUNT %d", count))
}

// AverageData queries the running average of a scalar measurand over
// the configured count.
func (in *Instrument) AverageData(ctx context.Context, m Measurand) (float64, error) {
	if !m.scalar() {
		return 0, errors.Wrapf(ErrInvalidArgument, "%s cannot be averaged", m)
	}

	return in.queryFloat(ctx, "SENSE:AVERAGE:DATA? "+m.String())
}

// PowerUnit queries UNIT:POWER?.
func (in *Instrument) PowerUnit(ctx context.Context) (PowerUnit, error) {
	reply, err := in.client.Exec(ctx, "UNIT:POWER?")
	if err != nil {
		return Milliwatt, err
	}

	switch reply {
	case "MW":
		return Milliwatt, nil
	case "DBM":
		return DBm, nil
	}

	return Milliwatt, errors.Wrapf(ErrBadReply, "UNIT:POWER reply %q is neither MW nor DBM", reply)
}

// SetPowerUnit selects the unit for power readings.
func (in *Instrument) SetPowerUnit(ctx context.Context, u PowerUnit) error {
	if u != Milliwatt && u != DBm {
		return errors.Wrapf(ErrInvalidArgument, "unknown power unit %d", int(u))
	}

	return in.client.Send(ctx, "UNIT:POWER "+u.String())
}
