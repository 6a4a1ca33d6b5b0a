package header

import (
	"strings"

	"github.com/zostay/go-mime-index/address"
	"github.com/zostay/go-mime-index/param"
	"github.com/zostay/go-mime-index/rfc822"
)

// Recognized header field names, matched case-insensitively against
// spec.md §4.3's list.
const (
	ContentType             = "Content-Type"
	ContentDisposition      = "Content-Disposition"
	ContentTransferEncoding = "Content-Transfer-Encoding"
	ContentLanguage         = "Content-Language"
	ContentID               = "Content-ID"
	ContentDescription      = "Content-Description"
	ContentLocation         = "Content-Location"
	ContentMD5              = "Content-MD5"
	Date                    = "Date"
	From                    = "From"
	To                      = "To"
	Cc                      = "Cc"
	Bcc                     = "Bcc"
	Sender                  = "Sender"
	ReplyTo                 = "Reply-To"
	MessageID               = "Message-ID"
	InReplyTo               = "In-Reply-To"
	References              = "References"
	Subject                 = "Subject"
	Received                = "Received"
)

// Is reports whether f.Name matches name case-insensitively, the matching
// rule spec.md §4.3 specifies for recognized field names.
func (f Field) Is(name string) bool {
	return strings.EqualFold(f.Name, name)
}

// ContentTypeValue is the parsed form of a Content-type header.
type ContentTypeValue struct {
	Type    string
	Subtype string
	Params  *param.List
}

// ParseContentType parses a Content-type field body as
// type "/" subtype (";" param)*, uppercasing Type and Subtype. On any
// syntax error it silently returns def unchanged, per RFC 2045 §5.2 ("a
// broken Content-type is treated as absent") and spec.md §7.
func ParseContentType(body string, def ContentTypeValue) ContentTypeValue {
	b := []byte(body)
	i := rfc822.SkipWS(b)
	typeTok, n := rfc822.Token(b[i:], "/")
	if n == 0 {
		return def
	}
	i += n
	i += rfc822.SkipWS(b[i:])
	if i >= len(b) || b[i] != '/' {
		return def
	}
	i++
	i += rfc822.SkipWS(b[i:])
	subTok, n := rfc822.Token(b[i:], ";")
	if n == 0 {
		return def
	}
	i += n
	i += rfc822.SkipWS(b[i:])

	var params *param.List
	if i < len(b) && b[i] == ';' {
		params = param.ParseAndFold(b[i+1:])
	}

	return ContentTypeValue{
		Type:    strings.ToUpper(string(typeTok)),
		Subtype: strings.ToUpper(string(subTok)),
		Params:  params,
	}
}

// DispositionValue is the parsed form of a Content-disposition header.
type DispositionValue struct {
	Value  string
	Params *param.List
}

// ParseContentDisposition parses a Content-disposition field body as
// token (";" param)*, uppercasing the disposition token. On syntax error,
// it returns ok=false and the caller leaves disposition unset.
func ParseContentDisposition(body string) (DispositionValue, bool) {
	b := []byte(body)
	i := rfc822.SkipWS(b)
	tok, n := rfc822.Token(b[i:], ";")
	if n == 0 {
		return DispositionValue{}, false
	}
	i += n
	i += rfc822.SkipWS(b[i:])

	var params *param.List
	if i < len(b) && b[i] == ';' {
		params = param.ParseAndFold(b[i+1:])
	}

	return DispositionValue{Value: strings.ToUpper(string(tok)), Params: params}, true
}

// Known Content-transfer-encoding vocabulary tokens, per spec.md
// invariant 4.
const (
	Enc7Bit            = "7BIT"
	Enc8Bit            = "8BIT"
	EncBinary          = "BINARY"
	EncQuotedPrintable = "QUOTED-PRINTABLE"
	EncBase64          = "BASE64"
	EncUnknown         = "UNKNOWN"
)

var knownEncodings = map[string]bool{
	Enc7Bit: true, Enc8Bit: true, EncBinary: true, EncQuotedPrintable: true, EncBase64: true,
}

// Encoding is the parsed, classified form of a Content-transfer-encoding
// header.
type Encoding struct {
	Token string // the uppercased token as written
	Known bool   // false if Token is not in the fixed vocabulary
}

// Class returns Token if Known, else EncUnknown -- the classification
// spec.md invariant 4 calls for while still retaining the original token
// verbatim in Encoding.Token.
func (e Encoding) Class() string {
	if e.Known {
		return e.Token
	}
	return EncUnknown
}

// ParseContentTransferEncoding parses a single uppercased token from the
// field body and classifies it against the known vocabulary.
func ParseContentTransferEncoding(body string) Encoding {
	b := []byte(body)
	i := rfc822.SkipWS(b)
	tok, n := rfc822.Token(b[i:], "")
	if n == 0 {
		return Encoding{}
	}
	up := strings.ToUpper(string(tok))
	return Encoding{Token: up, Known: knownEncodings[up]}
}

// ParseContentLanguage parses a comma-separated list of
// letter(-letter)* tokens, uppercasing each one.
func ParseContentLanguage(body string) []string {
	parts := strings.Split(body, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, strings.ToUpper(p))
	}
	return out
}

// ParseReceived implements spec.md §4.3's Received rule: the value kept
// is the substring after the last semicolon in the unfolded header; if
// there is no semicolon, the whole header value is kept.
//
// Per spec.md §9's open question, this searches the *unfolded* text, so a
// semicolon inside an RFC 822 comment embedded in the value can select
// the wrong substring; that is the source behavior being preserved
// deliberately, not a bug to be fixed here.
func ParseReceived(body string) string {
	if ix := strings.LastIndexByte(body, ';'); ix >= 0 {
		return strings.TrimSpace(body[ix+1:])
	}
	return strings.TrimSpace(body)
}

// AddressParser is the external address-parser-service dependency spec.md
// §6 describes.
type AddressParser interface {
	ParseAddressList(s string) []*address.Address
}

// ParseAddressField delegates address-list parsing across a joined
// logical header body to the given AddressParser collaborator.
func ParseAddressField(body string, ap AddressParser) *address.List {
	return address.NewList(ap.ParseAddressList(body))
}

// ParseOpaque returns body unchanged: Content-ID, Content-description,
// Content-location, Content-MD5, Subject (pre-MIME-word-decoding),
// Message-ID, In-reply-to, and References all need no structural parsing
// beyond Field.LogicalBody's unfolding.
func ParseOpaque(body string) string { return body }
