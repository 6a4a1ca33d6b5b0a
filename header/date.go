package header

import (
	"strconv"
	"strings"
	"time"
)

var dayNames = map[string]bool{
	"MON": true, "TUE": true, "WED": true, "THU": true, "FRI": true, "SAT": true, "SUN": true,
}

var monthByName = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March, "APR": time.April,
	"MAY": time.May, "JUN": time.June, "JUL": time.July, "AUG": time.August,
	"SEP": time.September, "OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// militaryZoneOffsets maps a single military zone letter (RFC 822 §5) to
// its signed offset in minutes from UTC. J is deliberately absent: it has
// no assigned meaning and is invalid.
var militaryZoneOffsets = map[byte]int{
	'A': 1 * 60, 'B': 2 * 60, 'C': 3 * 60, 'D': 4 * 60, 'E': 5 * 60,
	'F': 6 * 60, 'G': 7 * 60, 'H': 8 * 60, 'I': 9 * 60,
	'K': 10 * 60, 'L': 11 * 60, 'M': 12 * 60,
	'N': -1 * 60, 'O': -2 * 60, 'P': -3 * 60, 'Q': -4 * 60, 'R': -5 * 60,
	'S': -6 * 60, 'T': -7 * 60, 'U': -8 * 60, 'V': -9 * 60, 'W': -10 * 60,
	'X': -11 * 60, 'Y': -12 * 60,
	'Z': 0,
}

// usZoneOffsets maps the common three-letter US civil zone names to their
// offset in minutes from UTC.
var usZoneOffsets = map[string]int{
	"EST": -5 * 60, "EDT": -4 * 60,
	"CST": -6 * 60, "CDT": -5 * 60,
	"MST": -7 * 60, "MDT": -6 * 60,
	"PST": -8 * 60, "PDT": -7 * 60,
}

// DateParseOptions controls ParseDate's lenience, per spec.md §4.4.
type DateParseOptions struct {
	// WantTimeOfDay requests that a missing HH:MM[:SS] be treated as a
	// parse failure rather than defaulting to noon.
	WantTimeOfDay bool

	// FailToWallClock selects the caller's failure-mode: when true, a
	// malformed Date yields the current wall-clock time; when false, it
	// yields the zero time.
	FailToWallClock bool
}

// wallClock is the clock ParseDate's FailToWallClock failure mode reads;
// it is time.Now.
var wallClock = time.Now

// ParseDate implements the RFC 822 date-parsing algorithm of spec.md
// §4.4: an optional day-name prefix, 1-2 digit day of month, 3-letter
// month name, 2/4-digit year with the source's lenient expansion rules,
// an optional time-of-day, and a zone that is either numeric (+-HHMM), a
// single military letter, UT/GMT, or a US 3-letter zone name.
//
// On any parse failure it returns either the zero time or the current
// wall-clock time, selected by opts.FailToWallClock.
func ParseDate(body string, opts DateParseOptions) time.Time {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return onFailure(opts)
	}

	// drop an optional "Mon," or "Mon" day-name prefix
	if up := strings.ToUpper(strings.TrimSuffix(fields[0], ",")); dayNames[up] {
		fields = fields[1:]
	}
	if len(fields) < 3 {
		return onFailure(opts)
	}

	day, ok := parseDay(fields[0])
	if !ok {
		return onFailure(opts)
	}

	month, ok := monthByName[strings.ToUpper(fields[1])]
	if !ok {
		return onFailure(opts)
	}

	year, ok := parseYear(fields[2])
	if !ok {
		return onFailure(opts)
	}

	rest := fields[3:]

	hour, min, sec := 12, 0, 0
	haveTime := false
	if len(rest) > 0 && looksLikeTime(rest[0]) {
		var ok bool
		hour, min, sec, ok = parseTime(rest[0])
		if !ok {
			return onFailure(opts)
		}
		haveTime = true
		rest = rest[1:]
	}
	if opts.WantTimeOfDay && !haveTime {
		return onFailure(opts)
	}

	offsetMin := 0
	haveZone := false
	if len(rest) > 0 {
		offsetMin, ok = parseZone(rest[0])
		if !ok {
			return onFailure(opts)
		}
		haveZone = true
	}
	_ = haveZone

	loc := time.FixedZone("", offsetMin*60)
	return time.Date(year, month, day, hour, min, sec, 0, loc)
}

func onFailure(opts DateParseOptions) time.Time {
	if opts.FailToWallClock {
		return wallClock()
	}
	return time.Time{}
}

func parseDay(s string) (int, bool) {
	if len(s) == 0 || len(s) > 2 {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 31 {
		return 0, false
	}
	return n, true
}

// parseYear applies spec.md §4.4's lenient year expansion: two digits
// < 70 means 2000s, 70..99 means 1900s; three digits from 019 to 099
// mean +1900, while below 019 or from 100 up they are invalid; four
// digits pass through unchanged; five or more digits is invalid.
func parseYear(s string) (int, bool) {
	if len(s) < 1 || len(s) > 4 {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	switch len(s) {
	case 1, 2:
		if n < 70 {
			return n + 2000, true
		}
		return n + 1900, true
	case 3:
		// a three-digit year only makes sense as a zero-padded two-digit
		// year (e.g. "019" for 1919); anything above 99 has no sensible
		// expansion and is rejected, per spec.md §8 scenario S6.
		if n < 19 || n > 99 {
			return 0, false
		}
		return n + 1900, true
	case 4:
		return n, true
	}
	return 0, false
}

func looksLikeTime(s string) bool {
	return strings.Contains(s, ":")
}

func parseTime(s string) (hour, min, sec int, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, 0, false
	}
	s2 := 0
	if len(parts) == 3 {
		s2, err = strconv.Atoi(parts[2])
		if err != nil || s2 < 0 || s2 > 60 {
			return 0, 0, 0, false
		}
	}
	return h, m, s2, true
}

// parseZone parses a zone token: numeric +-HHMM, UT/GMT, a US 3-letter
// zone, or a single military letter, returning the offset in minutes
// from UTC.
func parseZone(s string) (int, bool) {
	up := strings.ToUpper(s)

	if up == "UT" || up == "GMT" {
		return 0, true
	}
	if off, ok := usZoneOffsets[up]; ok {
		return off, true
	}
	if len(s) == 1 {
		if s[0] == 'j' || s[0] == 'J' {
			return 0, false
		}
		if off, ok := militaryZoneOffsets[byte(up[0])]; ok {
			return off, true
		}
		return 0, false
	}

	if len(s) == 5 && (s[0] == '+' || s[0] == '-') {
		hh, err1 := strconv.Atoi(s[1:3])
		mm, err2 := strconv.Atoi(s[3:5])
		if err1 != nil || err2 != nil || hh > 23 || mm > 59 {
			return 0, false
		}
		total := hh*60 + mm
		if s[0] == '-' {
			total = -total
		}
		return total, true
	}

	return 0, false
}
