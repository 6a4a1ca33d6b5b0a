// Package addrparse implements the default address-parser-service
// collaborator of spec.md §6, converting the joined logical body of an
// address-bearing header (From, To, Cc, Bcc, Sender, Reply-To) into an
// address.List.
//
// The primary parser is github.com/zostay/go-addr. Real mailboxes
// routinely carry addresses go-addr rejects outright -- a bare
// "user@host" with no angle brackets sitting next to a comment, or a
// domain-less local mailing-list token -- so a second, lenient pass
// picks up whatever go-addr's strict grammar refused, rather than
// dropping the header.
package addrparse

import (
	"strings"

	goaddr "github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-mime-index/address"
)

// Service is the external address-parser collaborator of spec.md §6.
type Service interface {
	ParseAddressList(s string) []*address.Address
}

// Default returns the go-addr-backed Service, falling back to a lenient
// comment-stripping split for any address go-addr can't parse.
func Default() Service { return service{} }

type service struct{}

func (service) ParseAddressList(s string) []*address.Address {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	list, err := goaddr.ParseEmailAddressList(s)
	if err != nil || list == nil {
		return parseLenient(s)
	}

	var out []*address.Address
	for _, spec := range list.Addresses() {
		out = append(out, fromSpecifier(spec)...)
	}
	if len(out) == 0 {
		return parseLenient(s)
	}
	return out
}

// fromSpecifier converts one go-addr AddressSpecifier (a mailbox or a
// group) into one or more address.Address values, using the
// mailbox-opener/terminator group encoding spec.md §3 describes.
func fromSpecifier(spec goaddr.AddressSpecifier) []*address.Address {
	if mb, ok := spec.(goaddr.Mailbox); ok {
		return []*address.Address{mailboxToAddress(mb)}
	}
	if g, ok := spec.(goaddr.Group); ok {
		out := []*address.Address{{Mailbox: g.DisplayName()}}
		for _, mb := range g.Mailboxes() {
			out = append(out, mailboxToAddress(mb))
		}
		out = append(out, &address.Address{})
		return out
	}
	return nil
}

func mailboxToAddress(mb goaddr.Mailbox) *address.Address {
	local, domain := splitAddrSpec(mb.Address())
	return &address.Address{
		Name:    mb.DisplayName(),
		Mailbox: local,
		Domain:  domain,
	}
}

func splitAddrSpec(spec string) (local, domain string) {
	if ix := strings.LastIndexByte(spec, '@'); ix >= 0 {
		return spec[:ix], spec[ix+1:]
	}
	return spec, ""
}

// parseLenient strips any "(...)" comments, splits on top-level commas
// (not inside quotes or angle brackets), and for each piece extracts
// "Name <local@domain>" or a bare "local@domain", tolerating a missing
// domain.
func parseLenient(s string) []*address.Address {
	var out []*address.Address
	for _, piece := range splitTopLevelCommas(stripComments(s)) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		if a := parseOnePiece(piece); a != nil {
			out = append(out, a)
		}
	}
	return out
}

func stripComments(s string) string {
	var b strings.Builder
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteByte(s[i])
			}
		}
	}
	return b.String()
}

func splitTopLevelCommas(s string) []string {
	var parts []string
	depthAngle, depthQuote := 0, false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			depthQuote = !depthQuote
		case '<':
			if !depthQuote {
				depthAngle++
			}
		case '>':
			if !depthQuote && depthAngle > 0 {
				depthAngle--
			}
		case ',':
			if !depthQuote && depthAngle == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func parseOnePiece(piece string) *address.Address {
	name := ""
	spec := piece
	if lt := strings.IndexByte(piece, '<'); lt >= 0 {
		if gt := strings.IndexByte(piece[lt:], '>'); gt >= 0 {
			name = strings.Trim(strings.TrimSpace(piece[:lt]), `"`)
			spec = piece[lt+1 : lt+gt]
		}
	}
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}
	local, domain := splitAddrSpec(spec)
	local = strings.TrimSpace(local)
	if local == "" {
		return nil
	}
	return &address.Address{Name: name, Mailbox: local, Domain: domain}
}
