package cache

import (
	"strings"

	"github.com/zostay/go-mime-index/address"
	"github.com/zostay/go-mime-index/charset"
)

// BuildSearchForm renders l in the lowercase "<mailbox@domain>" search
// form spec.md §4.8.6-9 calls for: comma-separated, names retained
// verbatim, and RFC 822 group syntax ("display-name: addr1, addr2;")
// round-tripped rather than flattened.
func BuildSearchForm(l *address.List) string {
	if l == nil || l.Len() == 0 {
		return ""
	}

	var b strings.Builder
	first := true
	writeSep := func() {
		if !first {
			b.WriteString(", ")
		}
		first = false
	}

	for a := l.Head(); a != nil; a = a.Next() {
		switch {
		case a.IsGroupStart():
			if !first {
				b.WriteString(", ")
			}
			b.WriteString(a.Mailbox)
			b.WriteString(": ")
			first = true
		case a.IsGroupEnd():
			b.WriteByte(';')
			first = false
		default:
			writeSep()
			writeSearchAddr(&b, a)
		}
	}
	return b.String()
}

func writeSearchAddr(b *strings.Builder, a *address.Address) {
	if a.Name != "" {
		b.WriteString(a.Name)
		b.WriteByte(' ')
	}
	b.WriteByte('<')
	b.WriteString(strings.ToLower(a.Mailbox))
	if a.Domain != "" {
		b.WriteByte('@')
		b.WriteString(strings.ToLower(a.Domain))
	}
	b.WriteByte('>')
}

// BuildSubject MIME-decodes raw (RFC 2047 encoded-words) via cs, per
// spec.md §4.8.10. A decode failure falls back to the raw subject rather
// than dropping it, consistent with spec.md §7's never-abort-on-a-single
// field-parse-error rule.
func BuildSubject(raw string, cs charset.Service) string {
	decoded, err := cs.DecodeMIMEHeader(raw)
	if err != nil {
		return raw
	}
	return decoded
}
