// Package validate implements the pre-parse message validation entry
// point of spec.md §6, validate_and_copy: a streaming copy that enforces
// the byte-level hygiene rules a parse is allowed to assume hold before
// the Byte Cursor ever sees the message -- no NUL in headers, CR always
// preceding LF in headers, no malformed header name bytes, and
// configurable handling of raw 8-bit bytes in headers.
package validate

import (
	"bufio"
	"errors"
	"io"

	"github.com/zostay/go-mime-index/config"
)

// Sentinel errors distinguishing the validation failure kinds spec.md §6
// calls for (contains-NUL, contains-NL, contains-8bit, bad-header).
var (
	ErrContainsNUL    = errors.New("validate: NUL byte in header")
	ErrContainsBareNL = errors.New("validate: bare LF not preceded by CR in header")
	ErrContains8Bit   = errors.New("validate: 8-bit byte in header")
	ErrBadHeaderName  = errors.New("validate: malformed header name")
)

// CopyAndValidate streams up to size bytes from src to dst, validating
// only the header section (everything up to the first blank line) and
// copying the remainder verbatim. It returns the number of bytes copied
// and the first validation or I/O error encountered.
//
// Per spec.md §7, a NUL in a header is fatal (the message is rejected
// outright, nothing is copied past that point); an 8-bit byte in a header
// is fatal when cfg.Reject8Bit is set, silently munged to '?' when
// cfg.Munge8Bit is set, and otherwise copied unchanged; it is never
// logged.
func CopyAndValidate(dst io.Writer, src io.Reader, size int64, cfg *config.Config) (n int64, err error) {
	r := bufio.NewReader(io.LimitReader(src, size))
	w := bufio.NewWriter(dst)
	defer w.Flush()

	inHeader := true
	var lineStart []byte
	prevWasCR := false

	for {
		b, err := r.ReadByte()
		if err == io.EOF {
			if len(lineStart) > 0 {
				if werr := writeLine(w, lineStart, inHeader, cfg); werr != nil {
					return n, werr
				}
				n += int64(len(lineStart))
			}
			return n, nil
		}
		if err != nil {
			return n, err
		}

		if inHeader {
			if b == 0 {
				return n, ErrContainsNUL
			}
			if b == '\n' && !prevWasCR {
				return n, ErrContainsBareNL
			}
			prevWasCR = b == '\r'
		}

		lineStart = append(lineStart, b)

		if b == '\n' {
			if inHeader && len(lineStart) <= 2 {
				// blank line (possibly just "\n" if CR was stripped
				// upstream, or "\r\n"): header section ends here.
				inHeader = false
			} else if inHeader {
				if name, ok := headerNameOf(lineStart); ok {
					if !validHeaderName(name) {
						return n, ErrBadHeaderName
					}
				}
			}
			if werr := writeLine(w, lineStart, inHeader, cfg); werr != nil {
				return n, werr
			}
			n += int64(len(lineStart))
			lineStart = lineStart[:0]
			if !inHeader {
				rest, cerr := io.Copy(w, r)
				n += rest
				return n, cerr
			}
		}
	}
}

// headerNameOf returns the header name portion of line (up to ':'),
// and whether it found one. A continuation line (starting with SP or
// HTAB) and a line with no colon at all are exempt from name validation.
func headerNameOf(line []byte) ([]byte, bool) {
	if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') {
		return nil, false // continuation line
	}
	for i, b := range line {
		if b == ':' {
			return line[:i], true
		}
	}
	return nil, false
}

func validHeaderName(name []byte) bool {
	if len(name) == 0 || len(name) > 255 {
		return false
	}
	for _, b := range name {
		if b <= ' ' {
			return false
		}
	}
	return true
}

// writeLine writes line to w, applying the 8-bit byte policy from cfg
// while inHeader; body bytes are never touched here (the caller switches
// to a raw io.Copy once the header ends).
func writeLine(w io.Writer, line []byte, inHeader bool, cfg *config.Config) error {
	if !inHeader || !has8Bit(line) {
		_, err := w.Write(line)
		return err
	}
	if cfg != nil && cfg.Reject8Bit {
		return ErrContains8Bit
	}
	if cfg != nil && cfg.Munge8Bit {
		munged := make([]byte, len(line))
		for i, b := range line {
			if b >= 0x80 {
				munged[i] = '?'
			} else {
				munged[i] = b
			}
		}
		_, err := w.Write(munged)
		return err
	}
	_, err := w.Write(line)
	return err
}

func has8Bit(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return true
		}
	}
	return false
}
