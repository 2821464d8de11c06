package normalize

import (
	"strings"

	"github.com/eventscope/eventscope/pkg/event"
)

// Format resolves the event format from the two signals the extractors
// produce: whether a physical venue/address was found and whether an
// online-meeting signal exists. Both present means hybrid; with neither,
// the event can only be reached online.
func Format(hasAddress, hasOnlineSignal bool) event.Format {
	switch {
	case hasAddress && hasOnlineSignal:
		return event.FormatHibrido
	case hasAddress:
		return event.FormatPresencial
	case hasOnlineSignal:
		return event.FormatOnline
	default:
		return event.FormatOnline
	}
}

// AttendanceMode maps a schema.org eventAttendanceMode value onto the format
// enum. Unknown values report false so the caller falls back to Format.
func AttendanceMode(raw string) (event.Format, bool) {
	switch {
	case strings.Contains(raw, "Mixed"):
		return event.FormatHibrido, true
	case strings.Contains(raw, "Online"):
		return event.FormatOnline, true
	case strings.Contains(raw, "Offline"):
		return event.FormatPresencial, true
	}
	return "", false
}
