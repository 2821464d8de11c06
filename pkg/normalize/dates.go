package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ptMonths maps lowercase Portuguese month names to their number.
var ptMonths = map[string]int{
	"janeiro":   1,
	"fevereiro": 2,
	"março":     3,
	"marco":     3,
	"abril":     4,
	"maio":      5,
	"junho":     6,
	"julho":     7,
	"agosto":    8,
	"setembro":  9,
	"outubro":   10,
	"novembro":  11,
	"dezembro":  12,
}

var (
	isoDateRe     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	slashDateRe   = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
	writtenDateRe = regexp.MustCompile(`^(\d{1,2})\s+de\s+([a-zà-ú]+)(?:\s+de\s+(\d{4}))?$`)
)

// Date converts a raw date notation into canonical "YYYY-MM-DD".
// Accepted: ISO dates and datetimes ("2026-03-02", "2026-03-02T19:00:00-03:00"),
// Brazilian numeric dates ("02/03/2026", "2-3-2026", day first), and written
// Portuguese dates ("2 de março de 2026"). Anything else is rejected, never
// guessed.
func Date(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if m := isoDateRe.FindStringSubmatch(raw); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		return buildDate(y, mo, d)
	}

	if m := slashDateRe.FindStringSubmatch(raw); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		return buildDate(y, mo, d)
	}

	if m := writtenDateRe.FindStringSubmatch(strings.ToLower(raw)); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, ok := ptMonths[m[2]]
		if !ok {
			return "", false
		}
		if m[3] == "" {
			return "", false // a date without a year would be a guess
		}
		y, _ := strconv.Atoi(m[3])
		return buildDate(y, mo, d)
	}

	return "", false
}

func buildDate(y, mo, d int) (string, bool) {
	if y < 1900 || y > 2200 || mo < 1 || mo > 12 || d < 1 || d > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, mo, d), true
}

var (
	clockRe    = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::\d{2})?$`)
	hSuffixRe  = regexp.MustCompile(`^(\d{1,2})h(\d{2})?$`)
	isoClockRe = regexp.MustCompile(`[T\s](\d{2}):(\d{2})`)
)

// Time converts a raw clock notation into canonical 24-hour "HH:MM".
// Accepted: "19:00", "19:00:00", "19h30", "19h", and the clock portion of an
// ISO datetime. Out-of-range values are rejected.
func Time(raw string) (string, bool) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return "", false
	}

	if m := isoClockRe.FindStringSubmatch(raw); m != nil {
		return buildTime(atoi(m[1]), atoi(m[2]))
	}
	if m := clockRe.FindStringSubmatch(raw); m != nil {
		return buildTime(atoi(m[1]), atoi(m[2]))
	}
	if m := hSuffixRe.FindStringSubmatch(raw); m != nil {
		minutes := 0
		if m[2] != "" {
			minutes = atoi(m[2])
		}
		return buildTime(atoi(m[1]), minutes)
	}
	return "", false
}

func buildTime(h, m int) (string, bool) {
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
