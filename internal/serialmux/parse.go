package serialmux

import "strings"

const (
	EventTypeDistance = "distance"
	EventTypeState    = "state"
	EventTypeError    = "error"
	EventTypeUnknown  = "unknown"
)

// ClassifyPayload inspects a payload line from the rangefinder and returns
// a simple event type token. Distance samples stream as "DS,<angle>,<m>",
// device state as "ST,<state>" and faults as "ER,<message>".
func ClassifyPayload(payload string) string {
	switch {
	case strings.HasPrefix(payload, "DS,"):
		return EventTypeDistance
	case strings.HasPrefix(payload, "ST,"):
		return EventTypeState
	case strings.HasPrefix(payload, "ER,"):
		return EventTypeError
	default:
		return EventTypeUnknown
	}
}
