// Package header implements the RFC 822/2045 Field Parsers of spec.md
// §4.3: one parser per recognized header field, built on the rfc822
// lexer and the param package's RFC 2231 folding.
package header

import (
	"bytes"
)

// Field is one logical header line: a name and its raw, still-folded
// body bytes as they appeared in the message (used for cache_headers
// extraction, which must preserve the original CRLF-terminated text).
type Field struct {
	Name    string
	RawBody []byte // body bytes including internal CRLFs from folding
	RawLine []byte // the complete "Name: body" logical line, CRLF terminated, as sliced from the header buffer
}

// SplitLogicalLines implements the logical-line-assembly rule of spec.md
// §4.3: a header line ends at '\n' not followed by SP or HTAB; every
// other '\n' is a fold and stays part of the same logical line. hdr is
// expected to carry the artificial leading '\n' sentinel that
// cursor.SlurpHeader produces; the sentinel itself is not returned as a
// field.
func SplitLogicalLines(hdr []byte) [][]byte {
	var lines [][]byte
	i := 0
	if len(hdr) > 0 && hdr[0] == '\n' {
		i = 1
	}
	start := i
	for i < len(hdr) {
		if hdr[i] == '\n' {
			if i+1 < len(hdr) && (hdr[i+1] == ' ' || hdr[i+1] == '\t') {
				i++
				continue
			}
			lines = append(lines, hdr[start:i+1])
			i++
			start = i
			continue
		}
		i++
	}
	if start < len(hdr) {
		lines = append(lines, hdr[start:])
	}
	return lines
}

// unfold removes CR and LF bytes from a logical line's body by a
// copy-shift, per spec.md §4.3's description of the uninterpreted-value
// field parsers: "continuation-unfolding (CR or LF removed by copy-shift,
// the remaining text becomes the field value)".
func unfold(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c == '\r' || c == '\n' {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ParseFields splits a slurped header buffer into Field values, extracting
// the name/body split of each logical line per spec.md §4.3's name/colon
// extraction rule. Lines with no valid field name are skipped (and,
// unlike go-email's liberal BadStartError reporting, simply dropped: a
// garbled header line before any Content-type is recoverable per spec.md
// §7, not fatal).
func ParseFields(hdr []byte) []Field {
	lines := SplitLogicalLines(hdr)
	fields := make([]Field, 0, len(lines))
	for _, line := range lines {
		ix := bytes.IndexByte(line, ':')
		if ix <= 0 {
			continue
		}
		name := line[:ix]
		valid := true
		for _, b := range name {
			if b <= ' ' {
				valid = false
				break
			}
		}
		if !valid || len(name) > 255 {
			continue
		}
		body := bytes.TrimSuffix(bytes.TrimSuffix(line[ix+1:], []byte("\n")), []byte("\r"))
		fields = append(fields, Field{
			Name:    string(name),
			RawBody: body,
			RawLine: line,
		})
	}
	return fields
}

// LogicalBody returns f's body with folding undone and leading/trailing
// whitespace trimmed, ready to feed to a field-specific parser.
func (f Field) LogicalBody() string {
	return string(bytes.TrimSpace(unfold(f.RawBody)))
}
