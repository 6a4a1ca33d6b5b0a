package cache_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mime-index/address"
	"github.com/zostay/go-mime-index/addrparse"
	"github.com/zostay/go-mime-index/cache"
	"github.com/zostay/go-mime-index/charset"
	"github.com/zostay/go-mime-index/config"
	"github.com/zostay/go-mime-index/cursor"
	"github.com/zostay/go-mime-index/digest"
	"github.com/zostay/go-mime-index/mimebody"
)

func parseTestMessage(t *testing.T, msg string) (*mimebody.Body, *cursor.Cursor) {
	t.Helper()
	c := cursor.Writable([]byte(msg))
	body, err := mimebody.Parse(c, &config.Config{}, mimebody.Deps{
		AddressParser: addrparse.Default(),
		Digest:        digest.Default(digest.SHA256),
	})
	require.NoError(t, err)
	return body, c
}

// TestBuildEnvelopeMinimal covers spec.md §8 scenario S1's ENVELOPE
// rendering.
func TestBuildEnvelopeMinimal(t *testing.T) {
	t.Parallel()

	body, _ := parseTestMessage(t, "From: a@b\r\nSubject: hi\r\n\r\nhello\r\n")
	env := string(cache.BuildEnvelope(body))

	assert.Equal(t, `(NIL "hi" (("" NIL "a" "b")) (("" NIL "a" "b")) (("" NIL "a" "b")) NIL NIL NIL NIL NIL)`, env)
}

// TestBuildBodyStructureMinimal covers S1's BODYSTRUCTURE rendering.
func TestBuildBodyStructureMinimal(t *testing.T) {
	t.Parallel()

	body, _ := parseTestMessage(t, "From: a@b\r\nSubject: hi\r\n\r\nhello\r\n")
	bs := string(cache.BuildBodyStructure(body))

	assert.Equal(t, `("TEXT" "PLAIN" ("CHARSET" "us-ascii") NIL NIL "7BIT" 7 1 NIL NIL NIL NIL)`, bs)
}

func TestBuildSearchFormLowercasesAndPreservesName(t *testing.T) {
	t.Parallel()

	list := address.NewList([]*address.Address{
		{Name: "Bob Smith", Mailbox: "BOB", Domain: "EXAMPLE.COM"},
	})

	got := cache.BuildSearchForm(list)
	assert.Equal(t, "Bob Smith <bob@example.com>", got)
}

// TestBuildSearchFormGroupRoundTrips covers spec.md §8 property 6's group
// open/close requirement.
func TestBuildSearchFormGroupRoundTrips(t *testing.T) {
	t.Parallel()

	list := address.NewList([]*address.Address{
		{Mailbox: "Friends"},
		{Mailbox: "a", Domain: "b"},
		{Mailbox: "c", Domain: "d"},
		{},
	})

	got := cache.BuildSearchForm(list)
	assert.Equal(t, "Friends: <a@b>, <c@d>;", got)
}

func TestBuildSearchFormEmptyList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", cache.BuildSearchForm(nil))
	assert.Equal(t, "", cache.BuildSearchForm(address.NewList(nil)))
}

func TestBuildSubjectPassesPlainSubjectThrough(t *testing.T) {
	t.Parallel()

	cs := charset.Default()
	got := cache.BuildSubject("plain subject", cs)
	assert.Equal(t, "plain subject", got)
}

// TestSectionTableRoundTrips covers spec.md §8 property 4 via the
// Section Table's own binary encoding rather than a whole-message
// reconstruction.
func TestSectionTableRoundTrips(t *testing.T) {
	t.Parallel()

	body, _ := parseTestMessage(t, "Content-Type: multipart/mixed; boundary=X\r\n\r\n"+
		"preamble\r\n--X\r\nContent-Type: text/plain\r\n\r\nA\r\n--X\r\nContent-Type: text/plain\r\n\r\nB\r\n--X--\r\n")

	wire := cache.BuildSectionTable(body)
	decoded, err := cache.DecodeSectionTable(wire)
	require.NoError(t, err)

	expected := cache.ExpectedSectionTable(body)
	assert.Equal(t, expected, decoded)
	require.Len(t, decoded.Children, 2)
}

func TestBuildRecordFramesTenFields(t *testing.T) {
	t.Parallel()

	body, _ := parseTestMessage(t, "From: a@b\r\nSubject: hi\r\n\r\nhello\r\n")
	rec := cache.BuildRecord(body, charset.Default())

	pos := 0
	count := 0
	for pos < len(rec) {
		require.LessOrEqual(t, pos+4, len(rec))
		n := int(binary.BigEndian.Uint32(rec[pos : pos+4]))
		pos += 4
		require.LessOrEqual(t, pos+n, len(rec))
		pos += n
		if pad := (4 - n%4) % 4; pad > 0 {
			pos += pad
		}
		count++
	}
	assert.Equal(t, 10, count)
	assert.Equal(t, len(rec), pos)
}
