package cache

import (
	"bytes"

	"github.com/zostay/go-mime-index/header"
	"github.com/zostay/go-mime-index/mimebody"
	"github.com/zostay/go-mime-index/param"
)

// BuildBodyStructure renders body's BODYSTRUCTURE field, the extended
// form with md5/disposition/language/location carried on every part
// (including the subtype-trailing extension fields on multipart nodes),
// per spec.md §4.8.2.
func BuildBodyStructure(body *mimebody.Body) []byte {
	var buf bytes.Buffer
	serialize(&buf, structureValue(body, true))
	return buf.Bytes()
}

// BuildBody renders body's BODY field, the non-extended form spec.md
// §4.8.4 calls for: the same shape with every extension field dropped.
func BuildBody(body *mimebody.Body) []byte {
	var buf bytes.Buffer
	serialize(&buf, structureValue(body, false))
	return buf.Bytes()
}

func structureValue(body *mimebody.Body, extended bool) any {
	if body.Type == "MULTIPART" {
		items := make([]any, 0, len(body.Subpart)+3)
		for _, child := range body.Subpart {
			items = append(items, structureValue(child, extended))
		}
		items = append(items, body.Subtype)
		if extended {
			items = append(items, paramListValue(body.Params), dispositionValue(body), languageValue(body.Language), nstr(body.Location))
		}
		return items
	}

	items := []any{
		body.Type,
		body.Subtype,
		paramListValue(body.Params),
		nstr(body.ID),
		nstr(body.Description),
		encodingToken(body),
		body.ContentSize,
	}

	switch {
	case body.Type == "TEXT":
		items = append(items, body.ContentLines)
	case body.Type == "MESSAGE" && body.Subtype == "RFC822":
		var child *mimebody.Body
		if len(body.Subpart) > 0 {
			child = body.Subpart[0]
		}
		items = append(items, envelopeValue(child), structureValue(child, extended), body.ContentLines)
	}

	if extended {
		items = append(items, nstr(body.MD5), dispositionValue(body), languageValue(body.Language), nstr(body.Location))
	}

	return items
}

// envelopeValue is BuildEnvelope's value-tree half, reused here so a
// MESSAGE/RFC822 part's embedded envelope nests inside the enclosing
// BODYSTRUCTURE/BODY list rather than being serialized to text and
// re-parsed.
func envelopeValue(body *mimebody.Body) any {
	if body == nil {
		return nil
	}
	sender := body.Sender
	if sender == nil {
		sender = body.From
	}
	replyTo := body.ReplyTo
	if replyTo == nil {
		replyTo = body.From
	}
	return []any{
		dateValue(body.Date),
		nstr(body.Subject),
		addressListValue(body.From),
		addressListValue(sender),
		addressListValue(replyTo),
		addressListValue(body.To),
		addressListValue(body.Cc),
		addressListValue(body.Bcc),
		nstr(body.InReplyTo),
		nstr(body.MessageID),
	}
}

func paramListValue(pl *param.List) any {
	if pl == nil || pl.Head() == nil {
		return nil
	}
	var items []any
	for p := pl.Head(); p != nil; p = p.Next() {
		items = append(items, p.Attribute, p.Value)
	}
	return list(items)
}

func dispositionValue(body *mimebody.Body) any {
	if body.Disposition == "" {
		return nil
	}
	return []any{body.Disposition, paramListValue(body.DispositionParams)}
}

func languageValue(lang []string) any {
	if len(lang) == 0 {
		return nil
	}
	items := make([]any, len(lang))
	for i, l := range lang {
		items[i] = l
	}
	return list(items)
}

// encodingToken renders a part's Content-transfer-encoding for
// BODYSTRUCTURE/BODY: the classified token normally, or the original
// verbatim header token when Encoding is header.EncUnknown, per spec.md
// §3 invariant 4 -- an unrecognized encoding is classified as UNKNOWN
// internally but still reported to the caller as written.
func encodingToken(body *mimebody.Body) string {
	switch {
	case body.Encoding == header.EncUnknown && body.EncodingToken != "":
		return body.EncodingToken
	case body.Encoding == "":
		return header.Enc7Bit
	default:
		return body.Encoding
	}
}
