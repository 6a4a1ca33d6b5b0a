// Package rfc822 implements the header lexer primitives spec.md §4.3
// describes: RFC 822 whitespace/comment skipping and token extraction
// subject to the TSPECIALS rule. Field Parsers (see the header package)
// are built out of these primitives.
package rfc822

import "strings"

// TSpecials is the set of bytes that must not appear unquoted in a token,
// per RFC 822/2045: ()<>@,;:\"/[]?=
const TSpecials = "()<>@,;:\"/[]?="

// IsTSpecial reports whether b is one of the TSPECIALS bytes.
func IsTSpecial(b byte) bool {
	return strings.IndexByte(TSpecials, b) >= 0
}

// isSpaceOrTab reports whether b is SP or HTAB.
func isSpaceOrTab(b byte) bool { return b == ' ' || b == '\t' }

// SkipWS advances past SP/HTAB, CRLF-folds (a newline immediately followed
// by SP or HTAB), and balanced "(...)" comments, returning the number of
// bytes consumed from the front of s. Comment nesting is allowed; a
// backslash inside a comment escapes the following byte; a line feed not
// followed by whitespace terminates both the comment and, per spec.md
// §4.3, the header itself (callers scanning within a single logical line
// will simply stop at that point, since folded continuations were already
// joined before this lexer ever sees the bytes).
func SkipWS(s []byte) int {
	i := 0
	for i < len(s) {
		switch {
		case s[i] == ' ' || s[i] == '\t':
			i++
		case s[i] == '\r':
			// bare CR is treated as part of a fold only when followed by
			// LF SP/HTAB; otherwise it is not whitespace we recognize
			// here and we stop.
			if i+2 < len(s) && s[i+1] == '\n' && isSpaceOrTab(s[i+2]) {
				i += 3
			} else if i+1 < len(s) && s[i+1] == '\n' {
				// CRLF not followed by WSP: end of logical content for
				// comment-skipping purposes.
				return i
			} else {
				return i
			}
		case s[i] == '\n':
			if i+1 < len(s) && isSpaceOrTab(s[i+1]) {
				i += 2
			} else {
				return i
			}
		case s[i] == '(':
			n, ok := skipComment(s[i:])
			if !ok {
				return i
			}
			i += n
		default:
			return i
		}
	}
	return i
}

// skipComment consumes one balanced, possibly-nested "(...)" comment
// starting at s[0] == '('. It returns the number of bytes consumed and
// whether the comment was properly terminated. A backslash escapes the
// following byte. An LF not followed by WSP terminates the comment (and
// the header) early, per spec.md §4.3.
func skipComment(s []byte) (int, bool) {
	depth := 0
	i := 0
	for i < len(s) {
		switch s[i] {
		case '\\':
			if i+1 < len(s) {
				i += 2
				continue
			}
			return i, false
		case '(':
			depth++
			i++
		case ')':
			depth--
			i++
			if depth == 0 {
				return i, true
			}
		case '\n':
			if i+1 < len(s) && isSpaceOrTab(s[i+1]) {
				i += 2
				continue
			}
			return i, false
		default:
			i++
		}
	}
	return i, false
}

// stopByte reports whether b should terminate a token: whitespace, '(',
// or any of the caller-supplied extra stop bytes.
func stopByte(b byte, extraStops string) bool {
	if b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '(' {
		return true
	}
	return strings.IndexByte(extraStops, b) >= 0
}

// Token extracts a token from the front of s: a run of bytes that stops at
// whitespace, '(', or any byte in extraStops (typically some subset of
// ";/ =" depending on context), rejecting control bytes below SPACE and
// any TSPECIALS byte not explicitly permitted by extraStops.
//
// It returns the token and the number of bytes consumed. If the very
// first byte is disallowed, it returns a nil token and 0 consumed so the
// caller can treat the field as malformed.
func Token(s []byte, extraStops string) ([]byte, int) {
	i := 0
	for i < len(s) {
		b := s[i]
		if stopByte(b, extraStops) {
			break
		}
		if b < ' ' {
			break
		}
		if IsTSpecial(b) && strings.IndexByte(extraStops, b) < 0 {
			break
		}
		i++
	}
	if i == 0 {
		return nil, 0
	}
	return s[:i], i
}

// FieldName extracts the header field name from the start of a logical
// line: everything up to the first ':'. Per spec.md §4.3, the name must
// be non-empty, contain only bytes greater than SPACE, and be no longer
// than 255 octets. It returns the name and true, or nil and false if the
// line does not contain a valid field name.
func FieldName(line []byte) ([]byte, bool) {
	ix := -1
	for i, b := range line {
		if b == ':' {
			ix = i
			break
		}
	}
	if ix <= 0 || ix > 255 {
		return nil, false
	}
	name := line[:ix]
	for _, b := range name {
		if b <= ' ' {
			return nil, false
		}
	}
	return name, true
}
