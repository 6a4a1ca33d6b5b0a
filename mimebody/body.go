// Package mimebody implements the Body-Part Recursor, Multipart parsing,
// Leaf content scan, and Binary Recoder of spec.md §4.5-§4.7: the
// recursive walk that turns a memory-resident RFC 5322/MIME message into
// a tree of Body nodes annotated with byte-accurate offsets.
package mimebody

import (
	"time"

	"github.com/zostay/go-mime-index/address"
	"github.com/zostay/go-mime-index/addrparse"
	"github.com/zostay/go-mime-index/digest"
	"github.com/zostay/go-mime-index/param"
)

// Body is one node in the parsed MIME tree, corresponding exactly to
// spec.md §3's Body data model.
type Body struct {
	Type    string
	Subtype string
	Params  *param.List

	Disposition       string
	DispositionParams *param.List
	Language          []string
	Location          string
	ID                string
	Description       string

	// Encoding is the classified Content-transfer-encoding: one of the
	// fixed vocabulary tokens, or EncUnknown when the header named
	// something outside it.
	Encoding string

	// EncodingToken is the original Content-transfer-encoding token as
	// written, uppercased but otherwise verbatim. It is set whenever a
	// Content-Transfer-Encoding header is present, including when
	// Encoding == header.EncUnknown, per spec.md §3 invariant 4's
	// "retained verbatim but classified as UNKNOWN" requirement.
	EncodingToken string

	MD5 string

	HeaderOffset int
	HeaderSize   int
	HeaderLines  int

	ContentOffset int
	ContentSize   int
	ContentLines  int

	BoundarySize  int
	BoundaryLines int

	Subpart []*Body

	// Top-level-only envelope fields; zero/nil on every non-root Body.
	Date         time.Time
	Subject      string
	From         *address.List
	Sender       *address.List
	ReplyTo      *address.List
	To           *address.List
	Cc           *address.List
	Bcc          *address.List
	InReplyTo    string
	MessageID    string
	References   string
	ReceivedDate string

	CacheHeaders []byte

	GUID digest.GUID

	DecodedBody *string
}

// Deps bundles the external collaborators spec.md §6 describes that the
// recursor needs while walking a message.
type Deps struct {
	AddressParser addrparse.Service
	Digest        digest.Service
}

// defaultContentType is TEXT/PLAIN; charset=us-ascii, the top-level
// default spec.md §3 names.
func defaultContentType() (string, string, *param.List) {
	return "TEXT", "PLAIN", param.NewList([]*param.Param{{Attribute: "CHARSET", Value: "us-ascii"}})
}
