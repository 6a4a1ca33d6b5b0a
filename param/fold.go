package param

import (
	"fmt"
	"strings"

	"github.com/zostay/go-mime-index/rfc822"
)

// maxContinuations bounds how many *N segments Fold will gather for a
// single attribute, per spec.md §4.3 ("capped at 99").
const maxContinuations = 99

// needsPercentEncode reports whether b must be percent-encoded when
// promoting a simple (non-percent-encoded) RFC 2231 continuation segment
// into extended form: bytes below SPACE, bytes >= 0x7F, '*', '\'', '%',
// and any TSPECIALS byte.
func needsPercentEncode(b byte) bool {
	if b < ' ' || b >= 0x7f {
		return true
	}
	switch b {
	case '*', '\'', '%':
		return true
	}
	return rfc822.IsTSpecial(b)
}

// percentEncode encodes exactly the bytes needsPercentEncode flags,
// leaving everything else untouched -- this is percent-encoding
// "promotion" of a simple value, not general URL escaping.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if needsPercentEncode(c) {
			fmt.Fprintf(&b, "%%%02X", c)
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// continuationGroup accumulates the rawParam segments for one base
// attribute name while Fold walks the lexed parameter list in order.
type continuationGroup struct {
	baseName string
	segments map[int]rawParam // keyed by seq; seq -1 means "no continuation"
	order    []int            // insertion order of distinct seq values seen
}

// Fold applies the RFC 2231 continuation-folding algorithm of spec.md
// §4.3 to a lexed parameter list, returning the final Param list. Per
// invariant 5, no attribute in the result carries a "*N" or "*N*" suffix.
//
// For each attribute containing a "*0" or "*0*" suffix at the start
// position, continuations "*1", "*2", ... are gathered in order (up to
// maxContinuations). When concatenating a simple continuation onto an
// extended initial value, the simple segment's bytes are percent-encoded
// before appending. When concatenating an extended continuation onto a
// simple initial value, the initial value is first percent-encoded and
// prefixed with an empty charset'language'' tag, matching a value that
// had been extended-encoded from the start. The merged attribute is
// renamed to "name" (if no segment was ever extended) or "name*" (if any
// segment was extended), per spec.md §4.3.
func Fold(raw []rawParam) *List {
	groups := map[string]*continuationGroup{}
	var groupOrder []string
	var simple []rawParam // attributes with no "*" suffix at all (seq == -1, not part of a continuation family with a *0)

	// Separate single-shot values (plain "attr=value", seq==-1 and not
	// the sole "name*" extended form) from continuation families. A
	// lone "name*" (extended, seq -1) is itself a one-segment
	// continuation family, per spec.md's "capped at 99" language which
	// implies "*0" is how a family begins; we treat a bare "name*" the
	// same as "name*0*" for folding purposes since both mean "the one
	// and only segment of this value is extended".
	for _, rp := range raw {
		if rp.seq < 0 {
			if rp.extended {
				// "name*": a single extended segment.
				g := &continuationGroup{baseName: rp.baseName, segments: map[int]rawParam{0: rp}, order: []int{0}}
				groups[rp.baseName] = g
				groupOrder = append(groupOrder, rp.baseName)
				continue
			}
			simple = append(simple, rp)
			continue
		}

		g, ok := groups[rp.baseName]
		if !ok {
			g = &continuationGroup{baseName: rp.baseName, segments: map[int]rawParam{}}
			groups[rp.baseName] = g
			groupOrder = append(groupOrder, rp.baseName)
		}
		if _, dup := g.segments[rp.seq]; !dup {
			g.segments[rp.seq] = rp
			g.order = append(g.order, rp.seq)
		}
	}

	var out []*Param

	for _, rp := range simple {
		out = append(out, &Param{Attribute: strings.ToUpper(rp.baseName), Value: rp.value})
	}

	for _, name := range groupOrder {
		g := groups[name]
		value, extended := mergeGroup(g)
		attrName := strings.ToUpper(name)
		if extended {
			attrName += "*"
		}
		out = append(out, &Param{Attribute: attrName, Value: value})
	}

	return NewList(out)
}

// mergeGroup concatenates the ordered segments of one continuation
// family, applying the simple/extended promotion rule at the boundary
// where the encoding form changes, and reports whether the merged value
// should be considered extended overall.
func mergeGroup(g *continuationGroup) (value string, extended bool) {
	var b strings.Builder
	sawExtended := false
	first := true

	for i := 0; i < maxContinuations; i++ {
		seg, ok := g.segments[i]
		if !ok {
			break
		}

		if first {
			if seg.extended {
				sawExtended = true
				b.WriteString(seg.value)
			} else {
				b.WriteString(seg.value)
			}
			first = false
			continue
		}

		if seg.extended && !sawExtended {
			// we were accumulating a simple value and just hit an
			// extended continuation: promote everything accumulated so
			// far to extended form by percent-encoding it and prefixing
			// an empty charset'language'' tag, then append the new
			// extended bytes verbatim.
			promoted := "''" + percentEncode(b.String())
			b.Reset()
			b.WriteString(promoted)
			b.WriteString(seg.value)
			sawExtended = true
			continue
		}

		if !seg.extended && sawExtended {
			// accumulating an extended value and this continuation is
			// simple: percent-encode its bytes before appending so the
			// whole value stays validly percent-encoded.
			b.WriteString(percentEncode(seg.value))
			continue
		}

		// same form as what's accumulated so far: append as-is.
		b.WriteString(seg.value)
	}

	return b.String(), sawExtended
}
