package mimebody

import (
	"github.com/zostay/go-mime-index/boundary"
	"github.com/zostay/go-mime-index/config"
	"github.com/zostay/go-mime-index/cursor"
	"github.com/zostay/go-mime-index/param"
)

// parseMultipart implements Multipart parsing, spec.md §4.6. c is
// positioned at the first byte of content immediately following this
// part's headers; body already carries its own Content-type/params.
func parseMultipart(c *cursor.Cursor, cfg *config.Config, deps Deps, bs *boundary.Stack, body *Body, depth int) (outcome, error) {
	boundaryStr, ok := body.Params.Get("BOUNDARY")
	if !ok || boundaryStr == "" {
		return parseLeaf(c, cfg, bs, body), nil
	}
	if cfg.BoundaryNestingLimit > 0 && depth >= cfg.BoundaryNestingLimit {
		cfg.Log("mimebody: boundary nesting limit %d exceeded, not recursing further", cfg.BoundaryNestingLimit)
		return parseLeaf(c, cfg, bs, body), nil
	}

	idx := bs.Push([]byte(boundaryStr))

	preOut, preSize, preLines, preLine := scanLines(c, bs)
	if preOut.eof {
		bs.Truncate(0)
		body.ContentSize = preSize
		body.ContentLines = preLines
		return outcome{eof: true}, nil
	}
	if preOut.result.Index != idx {
		// an enclosing boundary fired during our preamble: we have no
		// children and this boundary is not ours to claim. Our own
		// boundary goes out of scope with it.
		if bs.Alive() > idx {
			bs.Truncate(idx)
		}
		body.ContentSize = preSize
		body.ContentLines = preLines
		return preOut, nil
	}

	total := preSize + len(preLine)
	totalLines := preLines + 1

	childType, childSubtype, childParams := childDefault(body.Subtype)

	var children []*Body
	for bs.Alive() == idx+1 {
		child := &Body{Type: childType, Subtype: childSubtype, Params: childParams}
		cout, err := parseBodyPart(c, cfg, deps, bs, child, depth+1, false)
		if err != nil {
			return outcome{}, err
		}
		children = append(children, child)
		total += child.HeaderSize + child.ContentSize + child.BoundarySize
		totalLines += child.HeaderLines + child.ContentLines + child.BoundaryLines

		if cout.eof {
			bs.Truncate(0)
			body.Subpart = children
			body.ContentSize = total
			body.ContentLines = totalLines
			return outcome{eof: true}, nil
		}

		if cout.result.Index == idx {
			continue
		}

		// an enclosing boundary fired while parsing the last child: lift
		// its boundary info onto this node and stop; our own boundary
		// was never reached, but it goes out of scope all the same.
		if bs.Alive() > idx {
			bs.Truncate(idx)
		}
		body.BoundarySize = child.BoundarySize
		body.BoundaryLines = child.BoundaryLines
		body.Subpart = children
		body.ContentSize = total
		body.ContentLines = totalLines
		return cout, nil
	}

	// our own boundary closed (bs.Alive() dropped to idx): parse the
	// epilogue as opaque content.
	epiOut, epiSize, epiLines, _ := scanLines(c, bs)
	body.Subpart = children
	body.ContentSize = total + epiSize
	body.ContentLines = totalLines + epiLines

	if epiOut.eof {
		// ran cleanly to end of buffer after our own closing delimiter:
		// fully resolved, nothing to propagate.
		return outcome{}, nil
	}
	// an ancestor boundary fired during the epilogue; bubble it up. Our
	// own boundary already closed above, so we don't claim it again.
	return epiOut, nil
}

// childDefault returns the default Content-type a multipart's children
// inherit when they carry no Content-type header of their own: ordinary
// multipart subtypes default to TEXT/PLAIN;charset=us-ascii, while
// multipart/digest children default to MESSAGE/RFC822, per spec.md §4.5's
// "default Content-Type (inherited, e.g. MESSAGE/RFC822 for children of
// multipart/digest)".
func childDefault(parentSubtype string) (typ, subtype string, params *param.List) {
	if parentSubtype == "DIGEST" {
		return "MESSAGE", "RFC822", nil
	}
	typ, subtype, params = defaultContentType()
	return
}
