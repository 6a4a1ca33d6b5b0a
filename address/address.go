// Package address implements the Address data model of spec.md §3.
//
// spec.md describes Address as a singly-linked list element:
//
//	Address: { name, route, mailbox, domain, next }
//
// Per spec.md §9's design note ("prefer ordered vectors with appended
// linkage when performance matters, keeping API semantics intact"), a
// List here is backed by a slice rather than individually allocated
// nodes. Next() gives every Address a pointer to its slice-successor so
// call sites that want to walk the classic linked-list shape still can.
package address

// Address is one element of an address list. A list whose head has
// Mailbox set and Domain unset denotes an RFC 822 group opener (e.g. the
// "undisclosed-recipients:" in "undisclosed-recipients:;"); a later
// element with both Name/Mailbox/Domain empty denotes the matching group
// terminator.
type Address struct {
	Name    string
	Route   string
	Mailbox string
	Domain  string

	list *List
	idx  int
}

// IsGroupStart reports whether this Address opens an RFC 822 group:
// Mailbox is set (the group display name) and Domain is empty.
func (a *Address) IsGroupStart() bool {
	return a != nil && a.Mailbox != "" && a.Domain == ""
}

// IsGroupEnd reports whether this Address is a group terminator: every
// field is empty.
func (a *Address) IsGroupEnd() bool {
	return a != nil && a.Name == "" && a.Route == "" && a.Mailbox == "" && a.Domain == ""
}

// Next returns the following Address in the list this Address belongs to,
// or nil if this is the last element (or a.List is nil, i.e. the Address
// was constructed standalone).
func (a *Address) Next() *Address {
	if a == nil || a.list == nil || a.idx+1 >= len(a.list.addrs) {
		return nil
	}
	return a.list.addrs[a.idx+1]
}

// List is an ordered collection of Address values, insertion order
// preserved, supporting linear traversal from the head via Head/Next.
type List struct {
	addrs []*Address
}

// NewList builds a List from a slice of Address values, assigning each one
// its list membership and index so Next() works.
func NewList(as []*Address) *List {
	l := &List{addrs: as}
	for i, a := range as {
		a.list = l
		a.idx = i
	}
	return l
}

// Head returns the first Address in the list, or nil if the list is
// empty.
func (l *List) Head() *Address {
	if l == nil || len(l.addrs) == 0 {
		return nil
	}
	return l.addrs[0]
}

// Len returns the number of addresses in the list.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.addrs)
}

// Slice returns the addresses as a plain slice, in order.
func (l *List) Slice() []*Address {
	if l == nil {
		return nil
	}
	return l.addrs
}
