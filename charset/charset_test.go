package charset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mime-index/charset"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	cs := charset.Default()

	id, ok := cs.Lookup("UTF-8")
	assert.True(t, ok)
	assert.Equal(t, charset.ID("utf-8"), id)

	_, ok = cs.Lookup("no-such-charset")
	assert.False(t, ok)

	_, ok = cs.Lookup("")
	assert.False(t, ok)
}

func TestDecodeMIMEBodyPerEncoding(t *testing.T) {
	t.Parallel()

	cs := charset.Default()

	out, err := cs.DecodeMIMEBody([]byte("hello"), "7BIT")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))

	out, err = cs.DecodeMIMEBody([]byte("hello"), "")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))

	out, err = cs.DecodeMIMEBody([]byte("aGVsbG8="), "BASE64")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))

	out, err = cs.DecodeMIMEBody([]byte("hello=20world=0D=0A"), "QUOTED-PRINTABLE")
	require.NoError(t, err)
	assert.Equal(t, "hello world\r\n", string(out))
}

func TestEncodeMIMEBodyWrapsAt76(t *testing.T) {
	t.Parallel()

	cs := charset.Default()

	out, lines := cs.EncodeMIMEBody(nil)
	assert.Nil(t, out)
	assert.Equal(t, 0, lines)

	raw := make([]byte, 60) // 60 bytes -> 80 base64 chars -> 2 lines
	out, lines = cs.EncodeMIMEBody(raw)
	assert.Equal(t, 2, lines)
	assert.Contains(t, string(out), "\r\n")
}

func TestToUTF8(t *testing.T) {
	t.Parallel()

	cs := charset.Default()
	id, ok := cs.Lookup("us-ascii")
	require.True(t, ok)

	out, err := cs.ToUTF8([]byte("hello"), id, "7BIT")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestDecodeMIMEHeaderPlainPassthrough(t *testing.T) {
	t.Parallel()

	cs := charset.Default()
	out, err := cs.DecodeMIMEHeader("plain subject")
	require.NoError(t, err)
	assert.Equal(t, "plain subject", out)
}

func TestDecodeMIMEHeaderEncodedWord(t *testing.T) {
	t.Parallel()

	cs := charset.Default()
	out, err := cs.DecodeMIMEHeader("=?UTF-8?B?aGVsbG8=?=")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}
