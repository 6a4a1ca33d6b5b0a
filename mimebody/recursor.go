package mimebody

import (
	"github.com/zostay/go-mime-index/boundary"
	"github.com/zostay/go-mime-index/config"
	"github.com/zostay/go-mime-index/cursor"
	"github.com/zostay/go-mime-index/header"
)

// Parse runs the Body-Part Recursor over the whole of c's buffer, per
// spec.md §4.5, starting from the top-level default Content-type
// (TEXT/PLAIN; charset=us-ascii) and a fresh Boundary Stack.
func Parse(c *cursor.Cursor, cfg *config.Config, deps Deps) (*Body, error) {
	bs := boundary.New(cfg.RFC2046Strict)
	typ, subtype, params := defaultContentType()
	body := &Body{Type: typ, Subtype: subtype, Params: params}

	if _, err := parseBodyPart(c, cfg, deps, bs, body, 0, true); err != nil {
		return nil, err
	}

	body.GUID = deps.Digest.Digest(c.Bytes())
	return body, nil
}

// parseBodyPart implements spec.md §4.5: it slurps one entity's headers,
// runs the field parsers, dispatches on the resulting Content-type, and
// fills in body in place. body must already carry the inherited default
// Content-type/params the caller wants applied when no Content-type
// header is present.
func parseBodyPart(c *cursor.Cursor, cfg *config.Config, deps Deps, bs *boundary.Stack, body *Body, depth int, topLevel bool) (outcome, error) {
	headerOffset := c.Offset()
	slurp := c.SlurpHeader(bs)

	logicalLines := header.SplitLogicalLines(slurp.Header)
	fields := header.ParseFields(slurp.Header)

	receivedSeen := false

	for _, f := range fields {
		switch {
		case f.Is(header.ContentType):
			def := header.ContentTypeValue{Type: body.Type, Subtype: body.Subtype, Params: body.Params}
			parsed := header.ParseContentType(f.LogicalBody(), def)
			body.Type, body.Subtype, body.Params = parsed.Type, parsed.Subtype, parsed.Params

		case f.Is(header.ContentDisposition):
			if dv, ok := header.ParseContentDisposition(f.LogicalBody()); ok {
				body.Disposition = dv.Value
				body.DispositionParams = dv.Params
			}

		case f.Is(header.ContentTransferEncoding):
			enc := header.ParseContentTransferEncoding(f.LogicalBody())
			body.Encoding = enc.Class()
			body.EncodingToken = enc.Token

		case f.Is(header.ContentLanguage):
			body.Language = header.ParseContentLanguage(f.LogicalBody())

		case f.Is(header.ContentID):
			body.ID = header.ParseOpaque(f.LogicalBody())

		case f.Is(header.ContentDescription):
			body.Description = header.ParseOpaque(f.LogicalBody())

		case f.Is(header.ContentLocation):
			body.Location = header.ParseOpaque(f.LogicalBody())

		case f.Is(header.ContentMD5):
			body.MD5 = header.ParseOpaque(f.LogicalBody())

		case topLevel && f.Is(header.Date):
			body.Date = header.ParseDate(f.LogicalBody(), header.DateParseOptions{
				WantTimeOfDay:   cfg.DateWantTimeOfDay,
				FailToWallClock: cfg.DateFailToWallClock,
			})

		case topLevel && f.Is(header.Subject):
			body.Subject = header.ParseOpaque(f.LogicalBody())

		case topLevel && f.Is(header.From):
			body.From = header.ParseAddressField(f.LogicalBody(), deps.AddressParser)

		case topLevel && f.Is(header.To):
			body.To = header.ParseAddressField(f.LogicalBody(), deps.AddressParser)

		case topLevel && f.Is(header.Cc):
			body.Cc = header.ParseAddressField(f.LogicalBody(), deps.AddressParser)

		case topLevel && f.Is(header.Bcc):
			body.Bcc = header.ParseAddressField(f.LogicalBody(), deps.AddressParser)

		case topLevel && f.Is(header.Sender):
			body.Sender = header.ParseAddressField(f.LogicalBody(), deps.AddressParser)

		case topLevel && f.Is(header.ReplyTo):
			body.ReplyTo = header.ParseAddressField(f.LogicalBody(), deps.AddressParser)

		case topLevel && f.Is(header.MessageID):
			body.MessageID = header.ParseOpaque(f.LogicalBody())

		case topLevel && f.Is(header.InReplyTo):
			body.InReplyTo = header.ParseOpaque(f.LogicalBody())

		case topLevel && f.Is(header.References):
			body.References = header.ParseOpaque(f.LogicalBody())

		case topLevel && f.Is(header.Received):
			if !receivedSeen {
				body.ReceivedDate = header.ParseReceived(f.LogicalBody())
				receivedSeen = true
			}
		}

		if cfg.CachedHeader(f.Name) {
			body.CacheHeaders = append(body.CacheHeaders, ensureCRLF(f.RawLine)...)
		}
	}

	body.HeaderOffset = headerOffset
	contentOffset := c.Offset()
	body.HeaderSize = contentOffset - headerOffset
	body.HeaderLines = len(logicalLines)
	body.ContentOffset = contentOffset

	if slurp.SawBoundary {
		res := bs.Classify(slurp.BoundaryLine)
		if res.Kind == boundary.Closing {
			bs.Truncate(res.Index)
		}
		body.BoundarySize = len(slurp.BoundaryLine)
		body.BoundaryLines = 1
		return outcome{propagate: true, result: res}, nil
	}

	switch {
	case body.Type == "MULTIPART":
		return parseMultipart(c, cfg, deps, bs, body, depth)

	case body.Type == "MESSAGE" && body.Subtype == "RFC822":
		childType, childSubtype, childParams := defaultContentType()
		child := &Body{Type: childType, Subtype: childSubtype, Params: childParams}
		cout, err := parseBodyPart(c, cfg, deps, bs, child, depth+1, false)
		if err != nil {
			return outcome{}, err
		}
		body.Subpart = []*Body{child}
		body.ContentSize = child.HeaderSize + child.ContentSize + child.BoundarySize
		body.ContentLines = child.HeaderLines + child.ContentLines + child.BoundaryLines
		return cout, nil

	default:
		return parseLeaf(c, cfg, bs, body), nil
	}
}

// ensureCRLF returns line with a trailing CRLF, adding one if line ends
// in a bare LF or nothing at all, so cache_headers is always
// CRLF-terminated per spec.md §3 regardless of the source message's line
// endings.
func ensureCRLF(line []byte) []byte {
	n := len(line)
	if n >= 2 && line[n-2] == '\r' && line[n-1] == '\n' {
		return line
	}
	if n >= 1 && line[n-1] == '\n' {
		out := make([]byte, 0, n+1)
		out = append(out, line[:n-1]...)
		out = append(out, '\r', '\n')
		return out
	}
	out := make([]byte, 0, n+2)
	out = append(out, line...)
	out = append(out, '\r', '\n')
	return out
}
