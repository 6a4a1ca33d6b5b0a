package cursor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mime-index/cursor"
)

func TestGetLine(t *testing.T) {
	t.Parallel()

	c := cursor.ReadOnly([]byte("one\r\ntwo\r\nthree"))

	assert.Equal(t, []byte("one\r\n"), c.GetLine())
	assert.Equal(t, []byte("two\r\n"), c.GetLine())
	assert.Equal(t, []byte("three"), c.GetLine())
	assert.Nil(t, c.GetLine())
	assert.True(t, c.AtEnd())
}

func TestPeekLineDoesNotAdvance(t *testing.T) {
	t.Parallel()

	c := cursor.ReadOnly([]byte("one\r\ntwo\r\n"))
	assert.Equal(t, []byte("one\r\n"), c.PeekLine())
	assert.Equal(t, []byte("one\r\n"), c.PeekLine())
	assert.Equal(t, 0, c.Offset())

	assert.Equal(t, []byte("one\r\n"), c.GetLine())
	assert.Equal(t, 5, c.Offset())
}

func TestSeekClamps(t *testing.T) {
	t.Parallel()

	c := cursor.ReadOnly([]byte("hello"))
	c.Seek(-5)
	assert.Equal(t, 0, c.Offset())
	c.Seek(100)
	assert.Equal(t, 5, c.Offset())
}

func TestSlice(t *testing.T) {
	t.Parallel()

	c := cursor.ReadOnly([]byte("hello world"))
	assert.Equal(t, []byte("hello"), c.Slice(0, 5))
	assert.Equal(t, []byte("world"), c.Slice(6, 100))
	assert.Equal(t, []byte{}, c.Slice(8, 3))
}

func TestRecodeReadOnlyFails(t *testing.T) {
	t.Parallel()

	c := cursor.ReadOnly([]byte("hello"))
	_, err := c.Recode(0, 5, []byte("goodbye"))
	assert.ErrorIs(t, err, cursor.ErrReadOnly)
}

func TestRecodeGrowsAndShrinksBuffer(t *testing.T) {
	t.Parallel()

	c := cursor.Writable([]byte("hello world"))

	delta, err := c.Recode(0, 5, []byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, -3, delta)
	assert.Equal(t, []byte("hi world"), c.Bytes())
	assert.Equal(t, 8, c.Len())

	delta, err = c.Recode(0, 2, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 3, delta)
	assert.Equal(t, []byte("hello world"), c.Bytes())
}

func TestRecodeAdjustsOffset(t *testing.T) {
	t.Parallel()

	c := cursor.Writable([]byte("0123456789"))
	c.Seek(8)

	// recoding a span entirely before the cursor shifts it by delta.
	_, err := c.Recode(0, 2, []byte("ab"))
	require.NoError(t, err)
	assert.Equal(t, 8, c.Offset())

	_, err = c.Recode(0, 2, []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 9, c.Offset())
}

func TestSlurpHeaderNoBoundary(t *testing.T) {
	t.Parallel()

	c := cursor.ReadOnly([]byte("From: a@b\r\nSubject: hi\r\n\r\nbody\r\n"))
	res := c.SlurpHeader(nil)

	require.False(t, res.SawBoundary)
	assert.Equal(t, byte('\n'), res.Header[0])
	assert.Contains(t, string(res.Header), "From: a@b\r\n")
	assert.Contains(t, string(res.Header), "Subject: hi\r\n")
	assert.Equal(t, []byte("body\r\n"), c.GetLine())
}

type fakeMatcher struct{ boundary string }

func (f fakeMatcher) Matches(line []byte) bool {
	return len(line) > 2 && string(line[:len(f.boundary)+2]) == "--"+f.boundary
}

func TestSlurpHeaderStopsAtBoundary(t *testing.T) {
	t.Parallel()

	c := cursor.ReadOnly([]byte("Content-Type: text/plain\r\n--X\r\nrest"))
	res := c.SlurpHeader(fakeMatcher{boundary: "X"})

	require.True(t, res.SawBoundary)
	assert.Equal(t, []byte("--X\r\n"), res.BoundaryLine)
	assert.Equal(t, []byte("rest"), c.GetLine())
}
