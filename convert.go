package bristol671

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrBadReply = errors.New("malformed instrument reply")

func toFloat(reply, context string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(reply), 64)
	if err != nil {
		return 0, errors.Wrapf(ErrBadReply, "%s reply %q is not a float", context, reply)
	}

	return v, nil
}

func toInt(reply, context string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(reply))
	if err != nil {
		return 0, errors.Wrapf(ErrBadReply, "%s reply %q is not an integer", context, reply)
	}

	return v, nil
}

// splitReply validates a comma separated reply against the expected
// field count and trims each field.
func splitReply(reply string, fields int, context string) ([]string, error) {
	parts := strings.Split(reply, ",")
	if len(parts) != fields {
		return nil, errors.Wrapf(
			ErrBadReply,
			"%s reply %q must carry %d comma separated fields", context, reply, fields,
		)
	}

	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts, nil
}

// parseEnvironment decodes "{temperature} C,{pressure} MMHG".
func parseEnvironment(reply string) (Environment, error) {
	parts, err := splitReply(reply, 2, "ENV")
	if err != nil {
		return Environment{}, err
	}

	temperature, err := leadingFloat(parts[0], "ENV temperature")
	if err != nil {
		return Environment{}, err
	}

	pressure, err := leadingFloat(parts[1], "ENV pressure")
	if err != nil {
		return Environment{}, err
	}

	return Environment{Temperature: temperature, Pressure: pressure}, nil
}

// leadingFloat reads the numeric part of a "{value} {unit}" field.
func leadingFloat(field, context string) (float64, error) {
	tokens := strings.Fields(field)
	if len(tokens) == 0 {
		return 0, errors.Wrapf(ErrBadReply, "%s field is empty", context)
	}

	return toFloat(tokens[0], context)
}

// parseMeasurement decodes "{scan index},{status},{wavelength},{power}".
func parseMeasurement(reply string) (Measurement, error) {
	parts, err := splitReply(reply, 4, "ALL")
	if err != nil {
		return Measurement{}, err
	}

	scanIndex, err := toInt(parts[0], "ALL scan index")
	if err != nil {
		return Measurement{}, err
	}

	status, err := toInt(parts[1], "ALL status")
	if err != nil {
		return Measurement{}, err
	}

	wavelength, err := toFloat(parts[2], "ALL wavelength")
	if err != nil {
		return Measurement{}, err
	}

	power, err := toFloat(parts[3], "ALL power")
	if err != nil {
		return Measurement{}, err
	}

	return Measurement{
		ScanIndex:  scanIndex,
		Status:     QuestionableStatus(status),
		Wavelength: asNanometers(wavelength),
		Power:      power,
	}, nil
}

func parseOnOff(reply string) (bool, error) {
	switch reply {
	case "ON":
		return true, nil
	case "OFF":
		return false, nil
	}

	return false, errors.Wrapf(ErrBadReply, "state reply %q is neither ON nor OFF", reply)
}

// parseQueueEntry decodes a SYSTEM:ERROR? reply, "{code},{message}"
// with the message usually double quoted.
func parseQueueEntry(reply string) (QueueEntry, error) {
	parts := strings.SplitN(reply, ",", 2)
	if len(parts) != 2 {
		return QueueEntry{}, errors.Wrapf(ErrBadReply, "SYSTEM:ERROR reply %q is missing a comma", reply)
	}

	code, err := toInt(parts[0], "SYSTEM:ERROR code")
	if err != nil {
		return QueueEntry{}, err
	}

	message := strings.Trim(strings.TrimSpace(parts[1]), `"`)

	return QueueEntry{Code: QueueCode(code), Message: message}, nil
}
