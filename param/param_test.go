package param_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mime-index/param"
)

// TestFoldPromotion covers spec.md §8 scenario S4: an extended initial
// segment followed by a simple continuation appends the simple bytes
// percent-encoded (here none need it) and renames the attribute to "NAME*".
func TestFoldPromotion(t *testing.T) {
	t.Parallel()

	raw := param.ParseParams([]byte(`x*0*=us-ascii'en'hello%20; x*1=world`))
	list := param.Fold(raw)

	require.NotNil(t, list.Head())
	p := list.Head()
	assert.Equal(t, "X*", p.Attribute)
	assert.Equal(t, "us-ascii'en'hello%20world", p.Value)
	assert.Nil(t, p.Next())
}

// TestFoldIdempotent covers property 3: folding a list that is already
// folded (no "*N" suffixes left) is a fixed point under a second
// application.
func TestFoldIdempotent(t *testing.T) {
	t.Parallel()

	cases := []string{
		`a=1; b=2; c="three"`,
		`x*0*=us-ascii'en'hello%20; x*1=world`,
		`name*=utf-8''%e2%82%ac`,
	}

	for _, body := range cases {
		first := param.Fold(param.ParseParams([]byte(body)))
		serialized := serialize(first)

		second := param.Fold(param.ParseParams([]byte(serialized)))
		assert.Equal(t, serialize(first), serialize(second), "not a fixed point for %q", body)
	}
}

// serialize renders a *param.List back into "ATTR=value; ATTR=value"
// form so a folded list can be re-parsed and re-folded for the
// idempotency check.
func serialize(l *param.List) string {
	out := ""
	for p := l.Head(); p != nil; p = p.Next() {
		if out != "" {
			out += "; "
		}
		out += p.Attribute + `="` + escapeQuotes(p.Value) + `"`
	}
	return out
}

func escapeQuotes(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

func TestParseAndFold(t *testing.T) {
	t.Parallel()

	l := param.ParseAndFold([]byte(`CHARSET=us-ascii; boundary=X`))
	v, ok := l.Get("CHARSET")
	assert.True(t, ok)
	assert.Equal(t, "us-ascii", v)

	v, ok = l.Get("BOUNDARY")
	assert.True(t, ok)
	assert.Equal(t, "X", v)

	_, ok = l.Get("MISSING")
	assert.False(t, ok)
}

func TestParseParamsMalformedSkipped(t *testing.T) {
	t.Parallel()

	// a parameter with no "=" is malformed and skipped, not fatal, per
	// spec.md §7.
	l := param.ParseAndFold([]byte(`garbage; a=1`))
	v, ok := l.Get("A")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}
