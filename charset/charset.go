// Package charset implements the default charset-service collaborator of
// spec.md §6: decoding a MIME body given its declared charset and
// Content-transfer-encoding, and decoding RFC 2047 encoded-words in
// header values (used by the Cache Writer's SUBJECT field and by the
// Bodypart Finder's decoded_body).
//
// It is grounded on derat-rendmail/message.go's header-decoding
// pipeline: a mime.WordDecoder with a CharsetReader callback, feeding
// golang.org/x/text/encoding implementations for charsets the standard
// library's mime package doesn't know about natively.
package charset

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/quotedprintable"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// ID names a resolved charset, normalized to the form
// golang.org/x/text/encoding/htmlindex understands (lowercase, e.g.
// "iso-8859-1", "windows-1252", "utf-8").
type ID string

// ASCII is the charset Bodypart Finder falls back to when a message
// names an unrecognized charset, per spec.md §4.9.
const ASCII ID = "us-ascii"

// Service is the external charset collaborator of spec.md §6.
type Service interface {
	Lookup(name string) (ID, bool)
	DecodeMIMEBody(b []byte, transferEncoding string) ([]byte, error)
	EncodeMIMEBody(b []byte) (encoded []byte, lines int)
	ToUTF8(b []byte, cs ID, transferEncoding string) (string, error)
	DecodeMIMEHeader(s string) (string, error)
}

// Default returns the x/text-backed Service implementation.
func Default() Service { return service{} }

type service struct{}

// Lookup resolves a charset name (as written in a Content-type
// parameter) to a normalized ID, reporting false for unrecognized names
// so the caller can apply the ASCII fallback spec.md §4.9 specifies.
func (service) Lookup(name string) (ID, bool) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return "", false
	}
	if _, err := htmlindex.Get(name); err != nil {
		return "", false
	}
	return ID(name), true
}

// DecodeMIMEBody reverses Content-transfer-encoding, returning the raw
// octets in their declared charset (still not decoded to UTF-8; ToUTF8
// does that separately, since the Bodypart Finder needs both steps
// available independently).
func (service) DecodeMIMEBody(b []byte, transferEncoding string) ([]byte, error) {
	switch strings.ToUpper(transferEncoding) {
	case "", "7BIT", "8BIT", "BINARY":
		return b, nil
	case "QUOTED-PRINTABLE":
		return io.ReadAll(quotedprintable.NewReader(bytes.NewReader(b)))
	case "BASE64":
		dec := base64.NewDecoder(base64.StdEncoding, bytes.NewReader(stripBase64Junk(b)))
		return io.ReadAll(dec)
	default:
		return b, nil
	}
}

// stripBase64Junk drops bytes base64 padding/alphabet scanning would
// otherwise choke on (bare CR, stray whitespace already tolerated by the
// standard decoder, but an embedded NUL from a truncated read is not).
func stripBase64Junk(b []byte) []byte {
	return bytes.ReplaceAll(b, []byte{0}, nil)
}

// encodeLineWidth is RFC 2045 §6.8's 76-character base64 line limit.
const encodeLineWidth = 76

// EncodeMIMEBody base64-encodes b, wrapping at 76 characters per RFC 2045
// §6.8, and reports the resulting line count -- the general-purpose
// counterpart to mimebody's in-place Binary Recoder, which performs the
// same wrapping directly against a cursor's byte span instead of through
// this service.
func (service) EncodeMIMEBody(b []byte) ([]byte, int) {
	enc := base64.StdEncoding.EncodeToString(b)
	if len(enc) == 0 {
		return nil, 0
	}
	if len(enc) <= encodeLineWidth {
		return []byte(enc), 1
	}
	var out bytes.Buffer
	lines := 0
	for i := 0; i < len(enc); i += encodeLineWidth {
		end := i + encodeLineWidth
		if end > len(enc) {
			end = len(enc)
		}
		if i > 0 {
			out.WriteString("\r\n")
		}
		out.WriteString(enc[i:end])
		lines++
	}
	return out.Bytes(), lines
}

// ToUTF8 decodes transfer-encoded bytes in charset cs to a UTF-8 string.
func (s service) ToUTF8(b []byte, cs ID, transferEncoding string) (string, error) {
	raw, err := s.DecodeMIMEBody(b, transferEncoding)
	if err != nil {
		return "", err
	}
	enc, err := htmlindex.Get(string(cs))
	if err != nil {
		return string(raw), nil
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw), nil
	}
	return string(out), nil
}

// DecodeMIMEHeader decodes RFC 2047 encoded-words in s (e.g. a Subject
// header value) to a UTF-8 string, using the x/text registry for any
// charset beyond the three mime.WordDecoder knows natively.
func (service) DecodeMIMEHeader(s string) (string, error) {
	dec := mime.WordDecoder{CharsetReader: charsetReader}
	out, err := dec.DecodeHeader(s)
	if err != nil {
		return s, err
	}
	return out, nil
}

func charsetReader(cs string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(cs)
	if err != nil {
		return nil, fmt.Errorf("charset: unsupported charset %q: %w", cs, err)
	}
	return transformReader(enc, input), nil
}

func transformReader(enc encoding.Encoding, r io.Reader) io.Reader {
	return enc.NewDecoder().Reader(r)
}
