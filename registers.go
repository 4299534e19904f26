package bristol671

import (
	"fmt"
	"strings"
)

// Register views over the integer replies of *ESE?, *ESR?, *STB? and
// STATUS:QUESTIONABLE:...?. Each view lists its set bits, knows which
// of them signal faults and can be mutated to compose enable masks
// before writing them back.

type EventStatusBit uint

const (
	EventOperationComplete    EventStatusBit = 0
	EventQueryError           EventStatusBit = 2
	EventDeviceDependentError EventStatusBit = 3
	EventExecutionError       EventStatusBit = 4
	EventCommandError         EventStatusBit = 5
	EventPowerOn              EventStatusBit = 7
)

func (b EventStatusBit) String() string {
	switch b {
	case EventOperationComplete:
		return "OperationComplete"
	case EventQueryError:
		return "QueryError"
	case EventDeviceDependentError:
		return "DeviceDependentError"
	case EventExecutionError:
		return "ExecutionError"
	case EventCommandError:
		return "CommandError"
	case EventPowerOn:
		return "PowerOn"
	}

	return fmt.Sprintf("Bit%d", uint(b))
}

// EventStatus is the standard event status register (*ESR?) and, bit
// for bit, its enable mask (*ESE?).
type EventStatus uint16

const eventStatusWidth = 8

var eventStatusFaults = []EventStatusBit{
	EventCommandError,
	EventExecutionError,
	EventDeviceDependentError,
	EventQueryError,
}

func (r EventStatus) Has(bit EventStatusBit) bool {
	return hasBit(uint16(r), uint(bit))
}

func (r *EventStatus) Set(bit EventStatusBit) {
	*r = EventStatus(setBit(uint16(*r), uint(bit)))
}

func (r *EventStatus) Clear(bit EventStatusBit) {
	*r = EventStatus(clearBit(uint16(*r), uint(bit)))
}

func (r EventStatus) Bits() []EventStatusBit {
	var bits []EventStatusBit
	for _, b := range setBits(uint16(r), eventStatusWidth) {
		bits = append(bits, EventStatusBit(b))
	}

	return bits
}

// Faults lists the set bits that indicate an error condition.
func (r EventStatus) Faults() []EventStatusBit {
	var faults []EventStatusBit
	for _, b := range eventStatusFaults {
		if r.Has(b) {
			faults = append(faults, b)
		}
	}

	return faults
}

func (r EventStatus) OK() bool {
	return len(r.Faults()) == 0
}

func (r EventStatus) String() string {
	return registerString("EventStatus", eventStatusNames(r.Bits()))
}

func eventStatusNames(bits []EventStatusBit) []string {
	names := make([]string, 0, len(bits))
	for _, b := range bits {
		names = append(names, b.String())
	}

	return names
}

type StatusByteBit uint

const (
	StatusEventSummary        StatusByteBit = 2
	StatusErrorQueueNotEmpty  StatusByteBit = 3
	StatusQuestionableSummary StatusByteBit = 5
)

func (b StatusByteBit) String() string {
	switch b {
	case StatusEventSummary:
		return "EventSummary"
	case StatusErrorQueueNotEmpty:
		return "ErrorQueueNotEmpty"
	case StatusQuestionableSummary:
		return "QuestionableSummary"
	}

	return fmt.Sprintf("Bit%d", uint(b))
}

// StatusByte is the instrument status byte (*STB?).
type StatusByte uint16

const statusByteWidth = 6

var statusByteFaults = []StatusByteBit{StatusErrorQueueNotEmpty}

func (r StatusByte) Has(bit StatusByteBit) bool {
	return hasBit(uint16(r), uint(bit))
}

func (r *StatusByte) Set(bit StatusByteBit) {
	*r = StatusByte(setBit(uint16(*r), uint(bit)))
}

func (r *StatusByte) Clear(bit StatusByteBit) {
	*r = StatusByte(clearBit(uint16(*r), uint(bit)))
}

func (r StatusByte) Bits() []StatusByteBit {
	var bits []StatusByteBit
	for _, b := range setBits(uint16(r), statusByteWidth) {
		bits = append(bits, StatusByteBit(b))
	}

	return bits
}

func (r StatusByte) Faults() []StatusByteBit {
	var faults []StatusByteBit
	for _, b := range statusByteFaults {
		if r.Has(b) {
			faults = append(faults, b)
		}
	}

	return faults
}

func (r StatusByte) OK() bool {
	return len(r.Faults()) == 0
}

func (r StatusByte) String() string {
	names := make([]string, 0, 3)
	for _, b := range r.Bits() {
		names = append(names, b.String())
	}

	return registerString("StatusByte", names)
}

type QuestionableBit uint

const (
	QuestionableWavelengthAlreadyRead QuestionableBit = 0
	QuestionablePowerOutOfRange       QuestionableBit = 3
	QuestionableTemperatureOutOfRange QuestionableBit = 4
	QuestionableWavelengthOutOfRange  QuestionableBit = 5
	QuestionablePressureOutOfRange    QuestionableBit = 9
	QuestionableReferenceNotStable    QuestionableBit = 10
)

func (b QuestionableBit) String() string {
	switch b {
	case QuestionableWavelengthAlreadyRead:
		return "WavelengthAlreadyRead"
	case QuestionablePowerOutOfRange:
		return "PowerOutOfRange"
	case QuestionableTemperatureOutOfRange:
		return "TemperatureOutOfRange"
	case QuestionableWavelengthOutOfRange:
		return "WavelengthOutOfRange"
	case QuestionablePressureOutOfRange:
		return "PressureOutOfRange"
	case QuestionableReferenceNotStable:
		return "ReferenceNotStable"
	}

	return fmt.Sprintf("Bit%d", uint(b))
}

// QuestionableStatus is the questionable status register, reported by
// STATUS:QUESTIONABLE:CONDITION? and carried as the status word of
// every ALL reading.
type QuestionableStatus uint16

const questionableWidth = 11

var questionableFaults = []QuestionableBit{
	QuestionableWavelengthAlreadyRead,
	QuestionablePowerOutOfRange,
	QuestionableTemperatureOutOfRange,
	QuestionableWavelengthOutOfRange,
	QuestionablePressureOutOfRange,
	QuestionableReferenceNotStable,
}

func (r QuestionableStatus) Has(bit QuestionableBit) bool {
	return hasBit(uint16(r), uint(bit))
}

func (r *QuestionableStatus) Set(bit QuestionableBit) {
	*r = QuestionableStatus(setBit(uint16(*r), uint(bit)))
}

func (r *QuestionableStatus) Clear(bit QuestionableBit) {
	*r = QuestionableStatus(clearBit(uint16(*r), uint(bit)))
}

func (r QuestionableStatus) Bits() []QuestionableBit {
	var bits []QuestionableBit
	for _, b := range setBits(uint16(r), questionableWidth) {
		bits = append(bits, QuestionableBit(b))
	}

	return bits
}

func (r QuestionableStatus) Faults() []QuestionableBit {
	var faults []QuestionableBit
	for _, b := range questionableFaults {
		if r.Has(b) {
			faults = append(faults, b)
		}
	}

	return faults
}

func (r QuestionableStatus) OK() bool {
	return len(r.Faults()) == 0
}

func (r QuestionableStatus) String() string {
	names := make([]string, 0, 6)
	for _, b := range r.Bits() {
		names = append(names, b.String())
	}

	return registerString("QuestionableStatus", names)
}

func hasBit(v uint16, bit uint) bool {
	return v>>bit&1 == 1
}

func setBit(v uint16, bit uint) uint16 {
	return v | 1<<bit
}

func clearBit(v uint16, bit uint) uint16 {
	return v &^ (1 << bit)
}

func setBits(v uint16, width uint) []uint {
	var bits []uint
	for i := uint(0); i < width; i++ {
		if hasBit(v, i) {
			bits = append(bits, i)
		}
	}

	return bits
}

func registerString(name string, bits []string) string {
	return name + "(" + strings.Join(bits, "|") + ")"
}
