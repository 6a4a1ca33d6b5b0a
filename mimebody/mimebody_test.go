package mimebody_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mime-index/addrparse"
	"github.com/zostay/go-mime-index/config"
	"github.com/zostay/go-mime-index/cursor"
	"github.com/zostay/go-mime-index/digest"
	"github.com/zostay/go-mime-index/header"
	"github.com/zostay/go-mime-index/mimebody"
)

func testDeps() mimebody.Deps {
	return mimebody.Deps{
		AddressParser: addrparse.Default(),
		Digest:        digest.Default(digest.SHA256),
	}
}

// TestParseMinimalTextMessage covers spec.md §8 scenario S1.
func TestParseMinimalTextMessage(t *testing.T) {
	t.Parallel()

	msg := []byte("From: a@b\r\nSubject: hi\r\n\r\nhello\r\n")
	c := cursor.Writable(msg)

	body, err := mimebody.Parse(c, &config.Config{}, testDeps())
	require.NoError(t, err)

	assert.Equal(t, "TEXT", body.Type)
	assert.Equal(t, "PLAIN", body.Subtype)
	assert.Equal(t, 7, body.ContentSize)
	assert.Equal(t, 1, body.ContentLines)
	assert.Equal(t, "hi", body.Subject)

	require.NotNil(t, body.From)
	require.Equal(t, 1, body.From.Len())
	from := body.From.Head()
	assert.Equal(t, "", from.Name)
	assert.Equal(t, "a", from.Mailbox)
	assert.Equal(t, "b", from.Domain)

	assert.Equal(t, body.HeaderOffset+body.HeaderSize, body.ContentOffset)
	assert.LessOrEqual(t, body.ContentOffset+body.ContentSize, len(msg))
}

// TestParseSimpleMultipart covers spec.md §8 scenario S2.
func TestParseSimpleMultipart(t *testing.T) {
	t.Parallel()

	msg := []byte("Content-Type: multipart/mixed; boundary=X\r\n\r\n" +
		"preamble\r\n--X\r\nContent-Type: text/plain\r\n\r\nA\r\n--X\r\nContent-Type: text/plain\r\n\r\nB\r\n--X--\r\n")
	c := cursor.Writable(msg)

	body, err := mimebody.Parse(c, &config.Config{}, testDeps())
	require.NoError(t, err)

	assert.Equal(t, "MULTIPART", body.Type)
	require.Len(t, body.Subpart, 2)

	assert.Equal(t, 3, body.Subpart[0].ContentSize)
	assert.Equal(t, 1, body.Subpart[0].ContentLines)
	assert.Equal(t, 3, body.Subpart[1].ContentSize)
	assert.Equal(t, 1, body.Subpart[1].ContentLines)

	// size additivity, property 2
	childTotal := 0
	lineTotal := 0
	for _, child := range body.Subpart {
		childTotal += child.HeaderSize + child.ContentSize + child.BoundarySize
		lineTotal += child.HeaderLines + child.ContentLines + child.BoundaryLines
	}
	assert.Equal(t, body.ContentSize, childTotal+len("preamble\r\n")+len("--X\r\n"))
	assert.Equal(t, body.ContentLines, lineTotal+1+1)
}

// TestParseBinaryReencoding covers spec.md §8 scenario S3.
func TestParseBinaryReencoding(t *testing.T) {
	t.Parallel()

	raw := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	hdr := "Content-Type: application/octet-stream\r\nContent-Transfer-Encoding: binary\r\n\r\n"
	msg := append([]byte(hdr), raw...)

	c := cursor.Writable(msg)
	body, err := mimebody.Parse(c, &config.Config{}, testDeps())
	require.NoError(t, err)

	assert.Equal(t, header.EncBase64, body.Encoding)
	assert.Equal(t, 12, body.ContentSize)

	want := base64.StdEncoding.EncodeToString(raw)
	assert.Equal(t, "AAECAwQFBgcI", want)

	full := c.Bytes()
	assert.True(t, strings.Contains(string(full[body.HeaderOffset:body.ContentOffset]), "base64"))
	assert.False(t, strings.Contains(string(full[body.HeaderOffset:body.ContentOffset]), "binary"))
	assert.Equal(t, want, string(full[body.ContentOffset:body.ContentOffset+body.ContentSize]))
}

// TestParseNestedMessageRFC822 exercises a MESSAGE/RFC822 child, the other
// structural dispatch path besides MULTIPART and leaf.
func TestParseNestedMessageRFC822(t *testing.T) {
	t.Parallel()

	msg := []byte("Content-Type: message/rfc822\r\n\r\n" +
		"From: a@b\r\nSubject: inner\r\n\r\ninner body\r\n")
	c := cursor.Writable(msg)

	body, err := mimebody.Parse(c, &config.Config{}, testDeps())
	require.NoError(t, err)

	assert.Equal(t, "MESSAGE", body.Type)
	assert.Equal(t, "RFC822", body.Subtype)
	require.Len(t, body.Subpart, 1)

	child := body.Subpart[0]
	assert.Equal(t, "TEXT", child.Type)
	assert.Equal(t, "inner body\r\n", string(c.Bytes()[child.ContentOffset:child.ContentOffset+child.ContentSize]))
}

func TestParseUnknownTransferEncodingRetainsToken(t *testing.T) {
	t.Parallel()

	msg := []byte("Content-Type: text/plain\r\nContent-Transfer-Encoding: x-proprietary\r\n\r\nbody\r\n")
	c := cursor.Writable(msg)

	body, err := mimebody.Parse(c, &config.Config{}, testDeps())
	require.NoError(t, err)
	assert.Equal(t, header.EncUnknown, body.Encoding)
	assert.Equal(t, "X-PROPRIETARY", body.EncodingToken)
}
