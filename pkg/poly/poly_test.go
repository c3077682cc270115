package poly

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// int64s flattens a generated sequence for comparison; every term must fit.
func int64s(t *testing.T, seq []*big.Int) []int64 {
	t.Helper()
	out := make([]int64, len(seq))
	for i, v := range seq {
		require.True(t, v.IsInt64(), "term %d does not fit int64", i)
		out[i] = v.Int64()
	}
	return out
}

func TestParseSpec(t *testing.T) {
	s, err := ParseSpec("1..3,0..2")
	require.NoError(t, err)
	assert.Equal(t, Spec{{1, 2, 3}, {0, 1, 2}}, s)
	assert.Equal(t, 9, s.Count())

	s, err = ParseSpec("1|5|-2, 0..1")
	require.NoError(t, err)
	assert.Equal(t, Spec{{1, 5, -2}, {0, 1}}, s)

	s, err = ParseSpec("-3..-1")
	require.NoError(t, err)
	assert.Equal(t, Spec{{-3, -2, -1}}, s)

	_, err = ParseSpec("")
	assert.Error(t, err)
	_, err = ParseSpec("1..x")
	assert.Error(t, err)
}

func TestSpec_StringRoundTrip(t *testing.T) {
	s, err := ParseSpec("1|2,4..4")
	require.NoError(t, err)
	back, err := ParseSpec(s.String())
	require.NoError(t, err)
	assert.Equal(t, s, back)
}

func TestSpec_CountAndValidate(t *testing.T) {
	assert.Equal(t, 0, Spec{}.Count())
	assert.Error(t, Spec{}.Validate())
	assert.Error(t, Spec{{1}, {}}.Validate())
	require.NoError(t, Spec{{1, 2}, {3}}.Validate())
	assert.Equal(t, 2, Spec{{1, 2}, {3}}.Count())
}

func TestIterator_VisitsFullCartesianProductOnce(t *testing.T) {
	g, err := Get(CartesianAn)
	require.NoError(t, err)
	spec := Spec{{1, 2, 3}, {0, 1}}

	seen := map[[2]int64]int{}
	it := g.Iterate(spec)
	for {
		coef, ok := it.Next()
		if !ok {
			break
		}
		seen[[2]int64{coef[0], coef[1]}]++
	}
	require.Len(t, seen, 6, "expected 3x2 distinct tuples")
	for tuple, n := range seen {
		assert.Equal(t, 1, n, "tuple %v visited %d times", tuple, n)
	}
	assert.Equal(t, g.Count(spec), len(seen))
}

func TestIterator_ReusesTupleStorage(t *testing.T) {
	g, _ := Get(CartesianAn)
	it := g.Iterate(Spec{{1, 2}})
	first, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, int64(1), first[0])
	second, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, int64(2), second[0])
	assert.Same(t, &first[0], &second[0], "Next must reuse the tuple slice; callers copy")
}

func TestGenerate_HornerDescendingOrder(t *testing.T) {
	an, err := Get(CartesianAn)
	require.NoError(t, err)
	// 2n + 3 at n = 0, 1, 2, ...
	assert.Equal(t, []int64{3, 5, 7, 9}, int64s(t, an.Generate([]int64{2, 3}, 4)))
	// n^2 at n = 0..4
	assert.Equal(t, []int64{0, 1, 4, 9, 16}, int64s(t, an.Generate([]int64{1, 0, 0}, 5)))

	bn, err := Get(CartesianBn)
	require.NoError(t, err)
	// {b_n} is indexed from 1: 2n + 3 at n = 1, 2, ...
	assert.Equal(t, []int64{5, 7, 9}, int64s(t, bn.Generate([]int64{2, 3}, 3)))
	// -n at n = 1, 2, ...
	assert.Equal(t, []int64{-1, -2, -3}, int64s(t, bn.Generate([]int64{-1, 0}, 3)))
}

func TestGenerate_ExactBeyondInt64(t *testing.T) {
	an, err := Get(CartesianAn)
	require.NoError(t, err)

	// 10n^6 at n = 999 is 9940149800149940010, past the int64 range; the
	// verification pass depends on these terms being exact
	seq := an.Generate([]int64{10, 0, 0, 0, 0, 0, 0}, 1000)
	require.Len(t, seq, 1000)

	want, ok := new(big.Int).SetString("9940149800149940010", 10)
	require.True(t, ok)
	assert.Equal(t, 0, seq[999].Cmp(want), "a(999) = %s", seq[999])
	assert.False(t, seq[999].IsInt64())
	assert.Positive(t, seq[999].Sign(), "overflow would wrap negative")

	// terms that do fit int64 agree with direct evaluation: 10 * 50^6
	assert.Equal(t, int64(156_250_000_000), seq[50].Int64())
}

func TestGenerate_PrefixConsistency(t *testing.T) {
	for _, name := range []string{CartesianAn, CartesianBn} {
		g, err := Get(name)
		require.NoError(t, err)
		coef := []int64{1, -2, 3}
		short := g.Generate(coef, 8)
		long := g.Generate(coef, 64)
		assert.Equal(t, int64s(t, short), int64s(t, long[:8]),
			"%s: shorter generation must be a prefix", name)
	}
}

func TestRegistry(t *testing.T) {
	names := Names()
	assert.Contains(t, names, CartesianAn)
	assert.Contains(t, names, CartesianBn)
	_, err := Get("sparse")
	assert.Error(t, err)
}
