package cache

import (
	"bytes"
	"time"

	"github.com/zostay/go-mime-index/address"
	"github.com/zostay/go-mime-index/mimebody"
)

const imapDateLayout = "02-Jan-2006 15:04:05 -0700"

// BuildEnvelope renders body's ENVELOPE field per spec.md §4.8.1: date,
// subject, from, sender, reply-to, to, cc, bcc, in-reply-to, message-id,
// with sender and reply-to defaulting to from when the message carried
// neither header of its own.
func BuildEnvelope(body *mimebody.Body) []byte {
	sender := body.Sender
	if sender == nil {
		sender = body.From
	}
	replyTo := body.ReplyTo
	if replyTo == nil {
		replyTo = body.From
	}

	v := []any{
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

	var buf bytes.Buffer
	serialize(&buf, v)
	return buf.Bytes()
}

func dateValue(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(imapDateLayout)
}

// addressListValue renders l as spec.md §4.8.1's parenthesised list of
// (name route mailbox domain) 4-tuples, or NIL when l is empty. The
// personal name is always rendered as a string, even when empty, per
// spec.md §8 scenario S1's worked example (`("" NIL "a" "b")`); route is
// NIL'd when absent since the grammar has no way to write an empty
// source route.
func addressListValue(l *address.List) any {
	if l == nil || l.Len() == 0 {
		return nil
	}
	items := make([]any, 0, l.Len())
	for a := l.Head(); a != nil; a = a.Next() {
		items = append(items, []any{
			a.Name,
			nstr(a.Route),
			nstr(a.Mailbox),
			nstr(a.Domain),
		})
	}
	return list(items)
}
