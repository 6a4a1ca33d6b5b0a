package cache

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/zostay/go-mime-index/header"
	"github.com/zostay/go-mime-index/mimebody"
)

// sentinelWord marks the synthetic part 0 of a plain multipart: spec.md
// §4.8.5 calls for "zero/-1 sentinels" there.
const sentinelWord = 0xFFFFFFFF

// Section-table encoding codes, packed into the low 16 bits of each
// tuple's final word alongside the charset code in the high 16.
const (
	codeUnknown = iota
	code7Bit
	code8Bit
	codeBinary
	codeQuotedPrintable
	codeBase64
)

var encodingCodes = map[string]uint32{
	header.Enc7Bit:            code7Bit,
	header.Enc8Bit:            code8Bit,
	header.EncBinary:          codeBinary,
	header.EncQuotedPrintable: codeQuotedPrintable,
	header.EncBase64:          codeBase64,
}

// BuildSectionTable renders body's SECTION TABLE per spec.md §4.8.5: a
// binary, big-endian tree walk with one block per node (n=0 for a leaf,
// n=numparts+1 with a 5-word tuple per part otherwise), recursing into
// real children in depth-first order after the local table.
func BuildSectionTable(body *mimebody.Body) []byte {
	var buf bytes.Buffer
	writeSectionNode(&buf, body)
	return buf.Bytes()
}

func writeSectionNode(buf *bytes.Buffer, node *mimebody.Body) {
	switch {
	case node.Type == "MESSAGE" && node.Subtype == "RFC822":
		var child *mimebody.Body
		if len(node.Subpart) > 0 {
			child = node.Subpart[0]
		}
		writeUint32(buf, 2)
		writeTuple(buf, tupleFor(node))
		writeTuple(buf, tupleFor(child))
		writeSectionNode(buf, child)

	case node.Type == "MULTIPART":
		if len(node.Subpart) == 0 {
			writeUint32(buf, 2)
			writeTuple(buf, [5]uint32{0, 0, 0, 0, sentinelWord})
			writeTuple(buf, zeroTextPlainTuple())
			writeUint32(buf, 0) // the synthetic zero-length TEXT/PLAIN part is itself a leaf
			return
		}
		writeUint32(buf, uint32(len(node.Subpart)+1))
		writeTuple(buf, [5]uint32{0, 0, 0, 0, sentinelWord})
		for _, child := range node.Subpart {
			writeTuple(buf, tupleFor(child))
		}
		for _, child := range node.Subpart {
			writeSectionNode(buf, child)
		}

	default:
		writeUint32(buf, 0)
	}
}

func tupleFor(node *mimebody.Body) [5]uint32 {
	if node == nil {
		return [5]uint32{0, 0, 0, 0, sentinelWord}
	}
	return [5]uint32{
		uint32(node.HeaderOffset),
		uint32(node.HeaderSize),
		uint32(node.ContentOffset),
		uint32(node.ContentSize),
		charsetEncodingWord(node),
	}
}

func zeroTextPlainTuple() [5]uint32 {
	return [5]uint32{0, 0, 0, 0, (charsetCode("us-ascii") << 16) | code7Bit}
}

func charsetEncodingWord(node *mimebody.Body) uint32 {
	cs := "us-ascii"
	if v, ok := node.Params.Get("CHARSET"); ok && v != "" {
		cs = v
	}
	return (charsetCode(cs) << 16) | encodingCode(node.Encoding)
}

func encodingCode(enc string) uint32 {
	if c, ok := encodingCodes[enc]; ok {
		return c
	}
	return codeUnknown
}

// charsetCode maps a charset name to a stable 16-bit code. Unlike the
// encoding vocabulary, spec.md never enumerates a fixed charset list, so
// this hashes the lowercased name down to 16 bits rather than maintaining
// a registry that would silently go stale as new charsets showed up in
// the wild.
func charsetCode(name string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(name)))
	return h.Sum32() & 0xFFFF
}

// ExpectedSectionTable builds the same SectionNode tree BuildSectionTable
// would serialize, directly from body, without an encode/decode
// round-trip. The CLI's verify subcommand compares this against
// DecodeSectionTable(BuildSectionTable(body)) to confirm the wire format
// is lossless.
func ExpectedSectionTable(body *mimebody.Body) *SectionNode {
	if body == nil {
		return &SectionNode{}
	}
	switch {
	case body.Type == "MESSAGE" && body.Subtype == "RFC822":
		var child *mimebody.Body
		if len(body.Subpart) > 0 {
			child = body.Subpart[0]
		}
		return &SectionNode{
			Parts:    [][5]uint32{tupleFor(body), tupleFor(child)},
			Children: []*SectionNode{ExpectedSectionTable(child)},
		}

	case body.Type == "MULTIPART":
		if len(body.Subpart) == 0 {
			return &SectionNode{
				Parts:    [][5]uint32{{0, 0, 0, 0, sentinelWord}, zeroTextPlainTuple()},
				Children: []*SectionNode{{}},
			}
		}
		node := &SectionNode{Parts: [][5]uint32{{0, 0, 0, 0, sentinelWord}}}
		for _, child := range body.Subpart {
			node.Parts = append(node.Parts, tupleFor(child))
		}
		for _, child := range body.Subpart {
			node.Children = append(node.Children, ExpectedSectionTable(child))
		}
		return node

	default:
		return &SectionNode{}
	}
}

// SectionNode is the decoded form of one block of a SECTION TABLE, for
// callers (the CLI's verify subcommand) that want to check the binary
// encoding round-trips losslessly rather than re-deriving it by hand.
type SectionNode struct {
	Parts    [][5]uint32
	Children []*SectionNode
}

// DecodeSectionTable parses b back into the SectionNode tree
// BuildSectionTable produced, the inverse of writeSectionNode.
func DecodeSectionTable(b []byte) (*SectionNode, error) {
	r := &tableReader{b: b}
	node, err := r.readNode()
	if err != nil {
		return nil, err
	}
	return node, nil
}

type tableReader struct {
	b   []byte
	pos int
}

func (r *tableReader) readNode() (*SectionNode, error) {
	n, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	node := &SectionNode{}
	if n == 0 {
		return node, nil
	}
	for i := uint32(0); i < n; i++ {
		t, err := r.readTuple()
		if err != nil {
			return nil, err
		}
		node.Parts = append(node.Parts, t)
	}
	childCount := n - 1
	for i := uint32(0); i < childCount; i++ {
		child, err := r.readNode()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func (r *tableReader) readUint32() (uint32, error) {
	if r.pos+4 > len(r.b) {
		return 0, fmt.Errorf("cache: section table truncated at offset %d", r.pos)
	}
	v := binary.BigEndian.Uint32(r.b[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *tableReader) readTuple() ([5]uint32, error) {
	var t [5]uint32
	for i := range t {
		v, err := r.readUint32()
		if err != nil {
			return t, err
		}
		t[i] = v
	}
	return t, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeTuple(buf *bytes.Buffer, t [5]uint32) {
	for _, w := range t {
		writeUint32(buf, w)
	}
}
