package digest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-mime-index/digest"
)

func TestDigestIsDeterministicAndHex(t *testing.T) {
	t.Parallel()

	svc := digest.Default(digest.SHA256)

	a := svc.Digest([]byte("hello world"))
	b := svc.Digest([]byte("hello world"))
	assert.Equal(t, a, b)
	assert.Len(t, string(a), 64)

	c := svc.Digest([]byte("goodbye world"))
	assert.NotEqual(t, a, c)
}

func TestDigestKnownVector(t *testing.T) {
	t.Parallel()

	svc := digest.Default(digest.SHA256)
	got := svc.Digest([]byte(""))
	assert.Equal(t, digest.GUID("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"), got)
}
