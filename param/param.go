// Package param implements the Param data model and the RFC 2231
// parameter-continuation folding algorithm described in spec.md §3 and
// §4.3.
//
// Like address.Address, spec.md models Param as a singly-linked list
// element ({ attribute, value, next }); this package stores the ordered
// collection as a slice (param.List) per the same design note, with
// Next() provided for linked-list-shaped traversal.
package param

import (
	"strconv"
	"strings"

	"github.com/zostay/go-mime-index/rfc822"
)

// Param is one (attribute, value) pair from a parameterized header field
// such as Content-type or Content-disposition. Attribute is always
// uppercased; Value preserves the original case it was written in.
type Param struct {
	Attribute string
	Value     string

	list *List
	idx  int
}

// Next returns the following Param in the same list, or nil if this is
// the last one.
func (p *Param) Next() *Param {
	if p == nil || p.list == nil || p.idx+1 >= len(p.list.params) {
		return nil
	}
	return p.list.params[p.idx+1]
}

// List is an ordered collection of Param values in original insertion
// order.
type List struct {
	params []*Param
}

// NewList wraps a slice of Param values as a List, wiring up Next().
func NewList(ps []*Param) *List {
	l := &List{params: ps}
	for i, p := range ps {
		p.list = l
		p.idx = i
	}
	return l
}

// Head returns the first Param, or nil if the list is empty.
func (l *List) Head() *Param {
	if l == nil || len(l.params) == 0 {
		return nil
	}
	return l.params[0]
}

// Slice returns the params in order.
func (l *List) Slice() []*Param {
	if l == nil {
		return nil
	}
	return l.params
}

// Get returns the value of the first param with the given (case
// sensitive, expected-uppercase) attribute, and whether it was found.
func (l *List) Get(attr string) (string, bool) {
	if l == nil {
		return "", false
	}
	for _, p := range l.params {
		if p.Attribute == attr {
			return p.Value, true
		}
	}
	return "", false
}

// rawParam is an attribute/value pair as lexed before RFC 2231 folding,
// retaining whether the value was written in extended
// (charset'lang'percent-encoded) form and what continuation index (if
// any) it carries.
type rawParam struct {
	baseName string // attribute with any *N/*N* suffix stripped
	seq      int    // continuation sequence number, -1 if none
	extended bool   // true if attribute ended in *N* (or bare name*)
	value    string // the segment's value, still percent-encoded if extended
}

// ParseParams lexes a ";"-separated parameter list (the portion of a
// Content-type/Content-disposition header body following the primary
// token) per spec.md §4.3:
//
//	attribute [ws] "=" [ws] (quoted-string | token) [ws] (";" | EOH)
//
// Quoted strings accept backslash escapes and already-unfolded
// continuation whitespace (the input here is expected to already have had
// header folding undone). Malformed parameters are skipped to the next
// ";" and do not abort the whole parse, per spec.md §7. The returned
// params have NOT yet had RFC 2231 continuation-folding applied; call
// Fold to do that.
func ParseParams(s []byte) []rawParam {
	var out []rawParam
	i := 0
	for i < len(s) {
		i += rfc822.SkipWS(s[i:])
		if i >= len(s) {
			break
		}
		if s[i] == ';' {
			i++
			continue
		}

		// attribute name, including any "*N" or "*N*" suffix, lexed with
		// '*' and '=' permitted so we can see the whole thing.
		start := i
		for i < len(s) && s[i] != '=' && s[i] != ';' && !isWSByte(s[i]) {
			i++
		}
		attr := string(s[start:i])
		i += rfc822.SkipWS(s[i:])

		if i >= len(s) || s[i] != '=' {
			// malformed: no "=" present; skip to next ";"
			i = skipToSemi(s, i)
			continue
		}
		i++ // consume '='
		i += rfc822.SkipWS(s[i:])

		var value string
		var ok bool
		if i < len(s) && s[i] == '"' {
			value, i, ok = parseQuotedString(s, i)
		} else {
			tok, n := rfc822.Token(s[i:], "")
			if n == 0 {
				ok = false
			} else {
				value = string(tok)
				i += n
				ok = true
			}
		}
		if !ok {
			i = skipToSemi(s, i)
			continue
		}

		i += rfc822.SkipWS(s[i:])
		if i < len(s) && s[i] != ';' {
			// trailing junk before the next ";" -- malformed, skip it
			i = skipToSemi(s, i)
			continue
		}

		baseName, seq, extended := splitContinuation(attr)
		out = append(out, rawParam{baseName: baseName, seq: seq, extended: extended, value: value})
	}
	return out
}

// ParseAndFold lexes and RFC 2231-folds a ";"-separated parameter list in
// one step; it is the entry point header.ParseContentType and
// header.ParseContentDisposition use.
func ParseAndFold(s []byte) *List {
	return Fold(ParseParams(s))
}

func isWSByte(b byte) bool { return b == ' ' || b == '\t' || b == '\r' || b == '\n' }

func skipToSemi(s []byte, i int) int {
	for i < len(s) && s[i] != ';' {
		i++
	}
	if i < len(s) {
		i++
	}
	return i
}

// parseQuotedString consumes a double-quoted string starting at s[i] ==
// '"', honoring backslash escapes, and returns the unescaped content, the
// index after the closing quote, and whether a closing quote was found.
func parseQuotedString(s []byte, i int) (string, int, bool) {
	i++ // skip opening quote
	var b strings.Builder
	for i < len(s) {
		switch s[i] {
		case '\\':
			if i+1 < len(s) {
				b.WriteByte(s[i+1])
				i += 2
				continue
			}
			return "", i, false
		case '"':
			return b.String(), i + 1, true
		case '\r', '\n':
			// continuation whitespace inside a quoted string: the input
			// is expected pre-unfolded, so a literal fold byte here is
			// just copied through.
			b.WriteByte(s[i])
			i++
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return "", i, false
}

// splitContinuation splits an attribute name like "x*0*" into its base
// name "x", sequence number 0, and whether it is an extended
// (percent-encoded) segment. An attribute with no "*" suffix returns
// seq -1, extended false. An attribute ending in a bare "*" with no digits
// (e.g. "x*") is treated as extended with seq -1, matching the "name*"
// form used for a single-segment RFC 2231 value.
func splitContinuation(attr string) (base string, seq int, extended bool) {
	ix := strings.IndexByte(attr, '*')
	if ix < 0 {
		return attr, -1, false
	}
	base = attr[:ix]
	rest := attr[ix+1:]
	if rest == "" {
		return base, -1, true
	}
	if rest == "*" {
		return base, -1, true
	}
	if strings.HasSuffix(rest, "*") {
		extended = true
		rest = rest[:len(rest)-1]
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return base, -1, extended
	}
	return base, n, extended
}
