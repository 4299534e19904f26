package bristol671

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var ErrUnknownCode = errors.New("unknown system error code")
var ErrQueueNotDrained = errors.New("error queue did not terminate with NO ERROR")
var ErrQueueActive = errors.New("error queue contains active errors")

// QueueCode is an error code from the SYSTEM:ERROR? fifo.
type QueueCode int

const (
	NoError            QueueCode = 0
	InvalidCharacter   QueueCode = -101
	SyntaxError        QueueCode = -102
	InvalidSeparator   QueueCode = -103
	DataTypeError      QueueCode = -104
	ParameterError     QueueCode = -220
	SettingsConflict   QueueCode = -221
	DataOutOfRange     QueueCode = -222
	DataCorruptOrStale QueueCode = -230
)

func (c QueueCode) String() string {
	switch c {
	case NoError:
		return "NO ERROR"
	case InvalidCharacter:
		return "INVALID CHARACTER"
	case SyntaxError:
		return "SYNTAX ERROR"
	case InvalidSeparator:
		return "INVALID SEPARATOR"
	case DataTypeError:
		return "DATA TYPE ERROR"
	case ParameterError:
		return "PARAMETER ERROR"
	case SettingsConflict:
		return "SETTINGS CONFLICT"
	case DataOutOfRange:
		return "DATA OUT OF RANGE"
	case DataCorruptOrStale:
		return "DATA CORRUPT OR STALE"
	}

	return fmt.Sprintf("QueueCode(%d)", int(c))
}

func (c QueueCode) known() bool {
	switch c {
	case NoError, InvalidCharacter, SyntaxError, InvalidSeparator, DataTypeError,
		ParameterError, SettingsConflict, DataOutOfRange, DataCorruptOrStale:
		return true
	}

	return false
}

// QueueEntry is one parsed SYSTEM:ERROR? reply.
type QueueEntry struct {
	Code    QueueCode
	Message string
}

// SystemError pops the oldest entry from the SYSTEM:ERROR? fifo.
func (in *Instrument) SystemError(ctx context.Context) (QueueEntry, error) {
	reply, err := in.client.Exec(ctx, "SYSTEM:ERROR?")
	if err != nil {
		return QueueEntry{}, err
	}

	entry, err := parseQueueEntry(reply)
	if err != nil {
		return QueueEntry{}, err
	}

	if !entry.Code.known() {
		return QueueEntry{}, errors.Wrapf(ErrUnknownCode, "code %d in reply %q", int(entry.Code), reply)
	}

	return entry, nil
}

// DrainErrorQueue reads SYSTEM:ERROR? until the instrument reports NO
// ERROR, capped at maxReads so a misbehaving instrument cannot keep
// the loop alive forever. All entries including the terminating NO
// ERROR are returned. With failOnActive set, an ErrQueueActive wrapping
// every non-zero entry is returned after the queue was drained.
func (in *Instrument) DrainErrorQueue(ctx context.Context, maxReads int, failOnActive bool) ([]QueueEntry, error) {
	if maxReads <= 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "maxReads %d must be > 0", maxReads)
	}

	var entries []QueueEntry
	drained := false

	for i := 0; i < maxReads; i++ {
		entry, err := in.SystemError(ctx)
		if err != nil {
			return entries, err
		}

		entries = append(entries, entry)
		if entry.Code == NoError {
			drained = true
			break
		}
	}

	if !drained {
		return entries, errors.Wrapf(ErrQueueNotDrained, "after %d reads", maxReads)
	}

	if failOnActive {
		var active []string
		for _, e := range entries {
			if e.Code != NoError {
				active = append(active, fmt.Sprintf("%d: %s", int(e.Code), e.Message))
			}
		}

		if len(active) > 0 {
			return entries, errors.Wrap(ErrQueueActive, strings.Join(active, "; "))
		}
	}

	return entries, nil
}
