// Package cursor implements the byte cursor that every other parsing
// package in this module is built on top of. A Cursor wraps a single,
// memory-resident copy of a message and tracks an offset into it; it never
// copies the underlying bytes and it never reads past the end of the
// buffer.
//
// Two constructors are provided rather than one cursor type with a runtime
// flag: ReadOnly returns a Cursor whose Recode method always fails, while
// Writable returns one that is allowed to rewrite bytes in place. Callers
// that only have a read-only view of a message (e.g. a memory-mapped file)
// can use ReadOnly and be statically certain that Parse will never mutate
// their buffer.
package cursor

import "errors"

// ErrReadOnly is returned by Recode when called on a Cursor constructed by
// ReadOnly.
var ErrReadOnly = errors.New("cursor: buffer is not writable")

// Cursor wraps a message buffer and an offset into it. It corresponds to
// the "Cursor" data model entry: base, len, offset, encode_flag.
type Cursor struct {
	buf      []byte
	offset   int
	writable bool
}

// ReadOnly returns a Cursor over buf that will never mutate buf. Recode
// always fails on a cursor returned from ReadOnly.
func ReadOnly(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Writable returns a Cursor over buf that is permitted to rewrite bytes in
// place and to grow buf, e.g. to expand a binary part in place to base64.
// The caller must own buf and must not alias it with any other reader.
func Writable(buf []byte) *Cursor {
	return &Cursor{buf: buf, writable: true}
}

// CanRecode reports whether this Cursor is permitted to mutate its buffer.
func (c *Cursor) CanRecode() bool { return c.writable }

// Offset returns the current read position.
func (c *Cursor) Offset() int { return c.offset }

// Seek moves the cursor to an absolute offset. It is clamped to [0, Len()].
func (c *Cursor) Seek(off int) {
	if off < 0 {
		off = 0
	}
	if off > len(c.buf) {
		off = len(c.buf)
	}
	c.offset = off
}

// Len returns the total length of the underlying buffer, which may grow
// across a binary recode.
func (c *Cursor) Len() int { return len(c.buf) }

// Bytes returns the full underlying buffer. Callers must not retain it
// across a Recode call, since Recode may reallocate the buffer.
func (c *Cursor) Bytes() []byte { return c.buf }

// AtEnd reports whether the cursor has consumed the entire buffer.
func (c *Cursor) AtEnd() bool { return c.offset >= len(c.buf) }

// Slice returns buf[from:to], a borrowed view; it does not copy.
func (c *Cursor) Slice(from, to int) []byte {
	if from < 0 {
		from = 0
	}
	if to > len(c.buf) {
		to = len(c.buf)
	}
	if to < from {
		to = from
	}
	return c.buf[from:to]
}

// GetLine returns the next slice up to and including the next newline, or
// up to the end of the buffer if no newline remains. It never reads past
// Len(). It does not unfold header continuations; callers handling headers
// must do that themselves.
func (c *Cursor) GetLine() []byte {
	start := c.offset
	if start >= len(c.buf) {
		return nil
	}
	i := start
	for i < len(c.buf) && c.buf[i] != '\n' {
		i++
	}
	if i < len(c.buf) {
		i++ // include the newline
	}
	c.offset = i
	return c.buf[start:i]
}

// PeekLine behaves like GetLine but does not advance the cursor.
func (c *Cursor) PeekLine() []byte {
	save := c.offset
	line := c.GetLine()
	c.offset = save
	return line
}

// HeaderSlurpResult is returned by SlurpHeader.
type HeaderSlurpResult struct {
	// Header is a freshly allocated buffer whose first byte is an
	// artificial '\n' sentinel (to simplify field-start scanning by the
	// header lexer) followed by the raw header bytes, including any
	// embedded CRLFs from folded fields.
	Header []byte

	// SawBoundary is true when a multipart boundary line was encountered
	// in place of the blank line that normally terminates a header
	// section. When true, the cursor is left positioned at the byte
	// immediately after the boundary line, and Header does not include
	// that line.
	SawBoundary bool

	// BoundaryLine holds the boundary delimiter line when SawBoundary is
	// true, to spare the recursor from having to re-scan for it.
	BoundaryLine []byte
}

// BoundaryMatcher is the minimal dependency SlurpHeader needs on the
// boundary stack: a way to ask whether a candidate line opens or closes any
// boundary currently in scope. It exists so this package does not need to
// import boundary and create a cycle; boundary.Stack satisfies it.
type BoundaryMatcher interface {
	Matches(line []byte) bool
}

// SlurpHeader implements the header-slurp contract of spec.md §4.1: it
// produces one concatenated buffer whose first byte is an artificial '\n'
// sentinel, whose remainder is the raw header bytes, and whose final
// cursor position is precisely the byte after the blank line terminating
// the header -- unless a boundary line appears first, in which case
// SawBoundary is set and the cursor is left pointing after that line.
//
// bm may be nil, in which case boundary detection is skipped entirely.
func (c *Cursor) SlurpHeader(bm BoundaryMatcher) HeaderSlurpResult {
	var hdr []byte
	hdr = append(hdr, '\n')

	for {
		lineStart := c.offset
		line := c.GetLine()
		if line == nil {
			// end of buffer reached with no blank line; header is
			// everything we accumulated.
			return HeaderSlurpResult{Header: hdr}
		}

		if bm != nil && len(line) >= 2 && line[0] == '-' && line[1] == '-' && bm.Matches(line) {
			c.Seek(lineStart)
			c.GetLine() // reconsume, advancing past the boundary line
			return HeaderSlurpResult{SawBoundary: true, Header: hdr, BoundaryLine: line}
		}

		trimmed := stripEOL(line)
		if len(trimmed) == 0 {
			// blank line: header/body separator
			return HeaderSlurpResult{Header: hdr}
		}

		hdr = append(hdr, line...)
	}
}

// stripEOL removes a trailing \r\n, \n, or \r from line.
func stripEOL(line []byte) []byte {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
		if n > 0 && line[n-1] == '\r' {
			n--
		}
	} else if n > 0 && line[n-1] == '\r' {
		n--
	}
	return line[:n]
}

// Recode replaces buf[from:to] with replacement, growing or shrinking the
// underlying buffer as needed and leaving the cursor's current Offset
// adjusted by the resulting delta. It fails with ErrReadOnly unless the
// Cursor was constructed with Writable.
func (c *Cursor) Recode(from, to int, replacement []byte) (delta int, err error) {
	if !c.writable {
		return 0, ErrReadOnly
	}
	if from < 0 || to > len(c.buf) || from > to {
		return 0, errors.New("cursor: invalid recode range")
	}

	delta = len(replacement) - (to - from)

	newBuf := make([]byte, 0, len(c.buf)+delta)
	newBuf = append(newBuf, c.buf[:from]...)
	newBuf = append(newBuf, replacement...)
	newBuf = append(newBuf, c.buf[to:]...)
	c.buf = newBuf

	if c.offset >= to {
		c.offset += delta
	} else if c.offset > from {
		c.offset = from + len(replacement)
	}

	return delta, nil
}
