package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-mime-index/header"
)

// TestParseDateExtremes covers spec.md §8 scenario S6.
func TestParseDateExtremes(t *testing.T) {
	t.Parallel()

	got := header.ParseDate("Sat, 1 Jan 00 12:00:00 +0000", header.DateParseOptions{})
	assert.Equal(t, 2000, got.Year())

	got = header.ParseDate("Sat, 1 Jan 85 12:00:00 -0500", header.DateParseOptions{})
	assert.Equal(t, 1985, got.Year())
	_, offset := got.Zone()
	assert.Equal(t, -5*3600, offset)

	got = header.ParseDate("Sat, 1 Jan 105 12:00:00 GMT", header.DateParseOptions{})
	assert.True(t, got.IsZero(), "three-digit year above 99 has no sensible expansion")
}

func TestParseDateDefaultsToNoon(t *testing.T) {
	t.Parallel()

	got := header.ParseDate("1 Jan 2020", header.DateParseOptions{})
	assert.Equal(t, 12, got.Hour())
	assert.Equal(t, 0, got.Minute())
}

func TestParseDateWantTimeOfDayRejectsMissingTime(t *testing.T) {
	t.Parallel()

	got := header.ParseDate("1 Jan 2020", header.DateParseOptions{WantTimeOfDay: true})
	assert.True(t, got.IsZero())
}

func TestParseDateMilitaryZone(t *testing.T) {
	t.Parallel()

	got := header.ParseDate("1 Jan 2020 00:00:00 A", header.DateParseOptions{})
	_, offset := got.Zone()
	assert.Equal(t, 1*3600, offset)

	got = header.ParseDate("1 Jan 2020 00:00:00 J", header.DateParseOptions{})
	assert.True(t, got.IsZero(), "military zone J is unassigned")
}

func TestParseDateMalformedReturnsZeroByDefault(t *testing.T) {
	t.Parallel()

	got := header.ParseDate("not a date at all", header.DateParseOptions{})
	assert.True(t, got.IsZero())
}

func TestParseDateUSZone(t *testing.T) {
	t.Parallel()

	got := header.ParseDate("1 Jan 2020 00:00:00 PST", header.DateParseOptions{})
	_, offset := got.Zone()
	assert.Equal(t, -8*3600, offset)
}
