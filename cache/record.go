package cache

import (
	"bytes"
	"encoding/binary"

	"github.com/zostay/go-mime-index/charset"
	"github.com/zostay/go-mime-index/mimebody"
)

// BuildRecord assembles the ten-field cache record spec.md §6 describes:
// ENVELOPE, BODYSTRUCTURE, HEADERS, BODY, SECTION TABLE, FROM, TO, CC,
// BCC, SUBJECT, each framed as a big-endian 4-byte length followed by the
// field's bytes padded with \0 to a 4-byte boundary.
func BuildRecord(body *mimebody.Body, cs charset.Service) []byte {
	fields := [][]byte{
		BuildEnvelope(body),
		BuildBodyStructure(body),
		body.CacheHeaders,
		BuildBody(body),
		BuildSectionTable(body),
		[]byte(BuildSearchForm(body.From)),
		[]byte(BuildSearchForm(body.To)),
		[]byte(BuildSearchForm(body.Cc)),
		[]byte(BuildSearchForm(body.Bcc)),
		[]byte(BuildSubject(body.Subject, cs)),
	}

	var buf bytes.Buffer
	for _, f := range fields {
		writeFramed(&buf, f)
	}
	return buf.Bytes()
}

func writeFramed(buf *bytes.Buffer, field []byte) {
	var lenBytes [4]byte
	binary.BigEndian.PutUint32(lenBytes[:], uint32(len(field)))
	buf.Write(lenBytes[:])
	buf.Write(field)
	if pad := (4 - len(field)%4) % 4; pad > 0 {
		buf.Write(make([]byte, pad))
	}
}
