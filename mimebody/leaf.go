package mimebody

import (
	"encoding/base64"
	"strings"

	"github.com/zostay/go-mime-index/boundary"
	"github.com/zostay/go-mime-index/config"
	"github.com/zostay/go-mime-index/cursor"
	"github.com/zostay/go-mime-index/header"
)

// outcome describes how a node's content scan terminated, for the
// enclosing multipart (or the top-level caller) to interpret.
type outcome struct {
	// eof is true iff the buffer was exhausted with no boundary matching
	// anywhere; every multipart ancestor must then truncate its boundary
	// stack to zero and stop, per spec.md §4.6.
	eof bool

	// propagate is true iff a boundary-stack match ended this node's
	// scan; result names which one. The immediate parent must check
	// whether result.Index is its own depth or a shallower ancestor's.
	propagate bool
	result    boundary.Result
}

// scanLines reads content lines from c until end of buffer or a line
// that matches some boundary currently on bs, accumulating byte and line
// counts. When a boundary line is matched and it was a Closing match, the
// stack is truncated here (the caller does not need to).
func scanLines(c *cursor.Cursor, bs *boundary.Stack) (out outcome, size, lines int, matchedLine []byte) {
	for {
		line := c.GetLine()
		if line == nil {
			return outcome{eof: true}, size, lines, nil
		}
		if len(line) >= 2 && line[0] == '-' && line[1] == '-' {
			if res := bs.Classify(line); res.Kind != boundary.None {
				if res.Kind == boundary.Closing {
					bs.Truncate(res.Index)
				}
				return outcome{propagate: true, result: res}, size, lines, line
			}
		}
		size += len(line)
		lines++
	}
}

// parseLeaf implements the Leaf content scan of spec.md §4.7: it is used
// both for genuine leaf parts and as the degrade-to-leaf path for a
// multipart with no boundary parameter or past the nesting limit.
//
// The CRLF immediately preceding a delimiter line is, per RFC 2046
// §5.1.1, conceptually part of the delimiter rather than the preceding
// part's content; this implementation keeps it attributed to content
// instead (boundary_size is exactly the delimiter line's own bytes),
// matching the byte counts named in spec.md §8 scenario S2 rather than
// the stricter RFC reading -- see DESIGN.md for this decision.
func parseLeaf(c *cursor.Cursor, cfg *config.Config, bs *boundary.Stack, body *Body) outcome {
	out, size, lines, matched := scanLines(c, bs)
	body.ContentSize = size
	body.ContentLines = lines
	if out.propagate {
		body.BoundarySize = len(matched)
		body.BoundaryLines = 1
	}

	if c.CanRecode() && body.Encoding == header.EncBinary {
		recodeBinary(c, cfg, body)
	}

	return out
}

// recodeBinary implements the Binary Recoder of spec.md §4.7: it patches
// the Content-transfer-encoding token in the original header bytes from
// "binary" to "base64" in place (both are six ASCII bytes, so this never
// shifts any later offset), then replaces the part's content bytes with
// their base64 expansion, wrapped at 76 characters per RFC 2045, growing
// the underlying buffer and adjusting the cursor accordingly.
func recodeBinary(c *cursor.Cursor, cfg *config.Config, body *Body) {
	if ix := findCaseInsensitive(c.Slice(body.HeaderOffset, body.ContentOffset), "binary"); ix >= 0 {
		abs := body.HeaderOffset + ix
		if _, err := c.Recode(abs, abs+len("binary"), []byte("base64")); err != nil {
			cfg.Log("mimebody: failed to patch content-transfer-encoding token: %v", err)
		}
	}

	raw := make([]byte, body.ContentSize)
	copy(raw, c.Slice(body.ContentOffset, body.ContentOffset+body.ContentSize))

	encoded := wrapBase64(raw)

	delta, err := c.Recode(body.ContentOffset, body.ContentOffset+body.ContentSize, encoded)
	if err != nil {
		cfg.Log("mimebody: failed to recode binary part: %v", err)
		return
	}
	body.ContentSize += delta
	body.ContentLines = countLines(encoded)
	body.Encoding = header.EncBase64
}

const base64LineWidth = 76

// wrapBase64 base64-encodes raw, inserting a CRLF after every 76 encoded
// characters (RFC 2045 §6.8), with no trailing CRLF after the final line.
func wrapBase64(raw []byte) []byte {
	enc := base64.StdEncoding.EncodeToString(raw)
	if len(enc) <= base64LineWidth {
		return []byte(enc)
	}
	var b strings.Builder
	for i := 0; i < len(enc); i += base64LineWidth {
		end := i + base64LineWidth
		if end > len(enc) {
			end = len(enc)
		}
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(enc[i:end])
	}
	return []byte(b.String())
}

func countLines(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	n := 1
	for _, c := range b {
		if c == '\n' {
			n++
		}
	}
	return n
}

func findCaseInsensitive(haystack []byte, needle string) int {
	lower := strings.ToLower(string(haystack))
	return strings.Index(lower, strings.ToLower(needle))
}
