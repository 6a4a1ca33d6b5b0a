package boundary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-mime-index/boundary"
)

func TestClassifyOpeningAndClosing(t *testing.T) {
	t.Parallel()

	s := boundary.New(false)
	idx := s.Push([]byte("X"))
	assert.Equal(t, 0, idx)
	assert.Equal(t, 1, s.Alive())

	res := s.Classify([]byte("--X\r\n"))
	assert.Equal(t, boundary.Opening, res.Kind)
	assert.Equal(t, 0, res.Index)

	res = s.Classify([]byte("--X--\r\n"))
	assert.Equal(t, boundary.Closing, res.Kind)
	assert.Equal(t, 0, res.Index)

	res = s.Classify([]byte("not a boundary line\r\n"))
	assert.Equal(t, boundary.None, res.Kind)
}

func TestTruncateClosesStackedBoundaries(t *testing.T) {
	t.Parallel()

	s := boundary.New(false)
	s.Push([]byte("A"))
	s.Push([]byte("B"))
	assert.Equal(t, 2, s.Alive())
	assert.Equal(t, 2, s.Depth())

	s.Truncate(1)
	assert.Equal(t, 1, s.Alive())
	assert.Equal(t, 2, s.Depth(), "Truncate never forgets how many were pushed")
}

// TestSubstringBoundaryLaxVsStrict covers spec.md §8 scenario S5: two
// multiparts with boundaries "AA" and "AAB". In lax mode a "--AA..." line
// matches the shallower boundary even while the longer one is also
// stacked; in strict mode a "--AAB" line is reported against the innermost
// boundary, which is pushed last and tried first.
func TestSubstringBoundaryLaxVsStrict(t *testing.T) {
	t.Parallel()

	t.Run("lax", func(t *testing.T) {
		t.Parallel()
		s := boundary.New(false)
		outer := s.Push([]byte("AA"))
		inner := s.Push([]byte("AAB"))

		res := s.Classify([]byte("--AAB\r\n"))
		assert.Equal(t, boundary.Opening, res.Kind)
		assert.Equal(t, inner, res.Index)

		res = s.Classify([]byte("--AAX\r\n"))
		assert.Equal(t, boundary.Opening, res.Kind)
		assert.Equal(t, outer, res.Index)
	})

	t.Run("strict", func(t *testing.T) {
		t.Parallel()
		s := boundary.New(true)
		_ = s.Push([]byte("AA"))
		inner := s.Push([]byte("AAB"))

		// the innermost (most recently pushed) entry is tried first, and
		// "AAB" matches it exactly, so the inner boundary's index is
		// reported.
		res := s.Classify([]byte("--AAB\r\n"))
		assert.Equal(t, boundary.Opening, res.Kind)
		assert.Equal(t, inner, res.Index)
	})
}

func TestMatchesSatisfiesCursorBoundaryMatcher(t *testing.T) {
	t.Parallel()

	s := boundary.New(false)
	s.Push([]byte("X"))

	assert.True(t, s.Matches([]byte("--X\r\n")))
	assert.False(t, s.Matches([]byte("plain text\r\n")))
}

func TestBoundaryLookup(t *testing.T) {
	t.Parallel()

	s := boundary.New(false)
	s.Push([]byte("X"))
	assert.Equal(t, []byte("X"), s.Boundary(0))
	assert.Nil(t, s.Boundary(1))
	assert.Nil(t, s.Boundary(-1))
}
