package addrparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mime-index/addrparse"
)

func TestParseAddressListStrict(t *testing.T) {
	t.Parallel()

	p := addrparse.Default()
	out := p.ParseAddressList(`"Bob Smith" <bob@example.com>, alice@example.com`)
	require.Len(t, out, 2)

	assert.Equal(t, "Bob Smith", out[0].Name)
	assert.Equal(t, "bob", out[0].Mailbox)
	assert.Equal(t, "example.com", out[0].Domain)

	assert.Equal(t, "alice", out[1].Mailbox)
	assert.Equal(t, "example.com", out[1].Domain)
}

func TestParseAddressListEmpty(t *testing.T) {
	t.Parallel()

	p := addrparse.Default()
	assert.Nil(t, p.ParseAddressList(""))
	assert.Nil(t, p.ParseAddressList("   "))
}

// TestParseAddressListLenientFallback covers an address shape the strict
// go-addr grammar rejects outright but a real mailbox still needs parsed:
// a bare local-part with a trailing '@' and no domain.
func TestParseAddressListLenientFallback(t *testing.T) {
	t.Parallel()

	p := addrparse.Default()
	out := p.ParseAddressList("justatoken@")
	require.NotEmpty(t, out)
	assert.Equal(t, "justatoken", out[0].Mailbox)
	assert.Equal(t, "", out[0].Domain)
}

func TestParseAddressListLenientNameAngleAddr(t *testing.T) {
	t.Parallel()

	p := addrparse.Default()
	out := p.ParseAddressList(`bad>name <user@host>`)
	require.NotEmpty(t, out)
	assert.Equal(t, "user", out[0].Mailbox)
	assert.Equal(t, "host", out[0].Domain)
}
