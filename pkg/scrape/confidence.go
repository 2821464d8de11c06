package scrape

import "github.com/eventscope/eventscope/pkg/event"

// Confidence rates an extraction from signal provenance and required-field
// completeness. Kept as a small pure rule table so the monotonicity
// guarantee (more signal or more fields never lowers the tier) stays easy to
// check by reading it.
func Confidence(hasStructured, hasSocial bool, populatedRequired int) event.Confidence {
	switch {
	case hasStructured && populatedRequired >= event.RequiredFieldCount:
		return event.ConfidenceHigh
	case (hasStructured || hasSocial) && populatedRequired >= event.RequiredFieldCount-2:
		return event.ConfidenceMedium
	default:
		return event.ConfidenceLow
	}
}
