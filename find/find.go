// Package find implements the Bodypart Finder of spec.md §4.9: a tree
// walk over a parsed mimebody.Body that collects leaves matching a
// caller-supplied predicate list, numbering them with IMAP-style dotted
// section identifiers and lazily decoding matched content to UTF-8.
package find

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zostay/go-mime-index/charset"
	"github.com/zostay/go-mime-index/mimebody"
)

// Predicate matches a part's (Type, Subtype). An empty Type or Subtype is
// a wildcard at that level, per spec.md §4.9.
type Predicate struct {
	Type    string
	Subtype string
}

func (p Predicate) matches(body *mimebody.Body) bool {
	return (p.Type == "" || p.Type == body.Type) &&
		(p.Subtype == "" || p.Subtype == body.Subtype)
}

// Match is one part of msg matched against a Predicate, with its dotted
// section number and, once DecodedBody has been populated, its UTF-8
// content.
type Match struct {
	Section string
	Body    *mimebody.Body
}

// Find walks root collecting every leaf part matching any of preds (MULTIPART
// and MESSAGE/RFC822 containers are descended into, never matched), assigning
// dotted section numbers ("1", "1.1", "1.2", ...) to the children of a
// MULTIPART and to the single child of a MESSAGE/RFC822, per spec.md
// §4.9. msg is the full message buffer root was parsed from, used for the
// content_offset+content_size <= len(msg) sanity check and for decoding
// matched content. cs resolves charsets and decodes MIME body content; an
// unknown charset name falls back to US-ASCII rather than failing.
func Find(root *mimebody.Body, msg []byte, cs charset.Service, preds []Predicate) ([]Match, error) {
	var out []Match
	if err := walk(root, "", msg, cs, preds, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func walk(body *mimebody.Body, section string, msg []byte, cs charset.Service, preds []Predicate, out *[]Match) error {
	leaf := body.Type != "MULTIPART" && !(body.Type == "MESSAGE" && body.Subtype == "RFC822")
	if leaf && matchesAny(body, preds) {
		if err := checkBounds(body, section, msg); err != nil {
			return err
		}
		if body.DecodedBody == nil {
			decoded, err := decode(body, msg, cs)
			if err != nil {
				return fmt.Errorf("find: decoding part %q: %w", sectionLabel(section), err)
			}
			body.DecodedBody = &decoded
		}
		*out = append(*out, Match{Section: sectionLabel(section), Body: body})
	}

	switch {
	case body.Type == "MULTIPART":
		for i, child := range body.Subpart {
			childSection := appendSection(section, i+1)
			if err := walk(child, childSection, msg, cs, preds, out); err != nil {
				return err
			}
		}

	case body.Type == "MESSAGE" && body.Subtype == "RFC822":
		if len(body.Subpart) > 0 {
			childSection := appendSection(section, 1)
			if err := walk(body.Subpart[0], childSection, msg, cs, preds, out); err != nil {
				return err
			}
		}
	}

	return nil
}

func matchesAny(body *mimebody.Body, preds []Predicate) bool {
	for _, p := range preds {
		if p.matches(body) {
			return true
		}
	}
	return false
}

// checkBounds enforces spec.md §4.9's sanity check: a matched part whose
// recorded offsets run past the end of the message buffer it was parsed
// from indicates a parser bug, not a malformed message, so it is fatal
// rather than skipped.
func checkBounds(body *mimebody.Body, section string, msg []byte) error {
	if body.ContentOffset+body.ContentSize > len(msg) {
		return fmt.Errorf("find: part %q content runs past end of message (offset %d size %d len %d)",
			sectionLabel(section), body.ContentOffset, body.ContentSize, len(msg))
	}
	return nil
}

func decode(body *mimebody.Body, msg []byte, cs charset.Service) (string, error) {
	raw := msg[body.ContentOffset : body.ContentOffset+body.ContentSize]

	name, _ := body.Params.Get("CHARSET")
	id, ok := cs.Lookup(name)
	if !ok {
		id = charset.ASCII
	}
	return cs.ToUTF8(raw, id, body.Encoding)
}

func sectionLabel(section string) string {
	if section == "" {
		return "TEXT"
	}
	return section
}

func appendSection(parent string, n int) string {
	if parent == "" {
		return strconv.Itoa(n)
	}
	var b strings.Builder
	b.WriteString(parent)
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(n))
	return b.String()
}
