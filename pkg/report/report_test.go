package report

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyamroy001/MasseyRamanujan/pkg/constants"
	"github.com/satyamroy001/MasseyRamanujan/pkg/enum"
	"github.com/satyamroy001/MasseyRamanujan/pkg/expr"
	"github.com/satyamroy001/MasseyRamanujan/pkg/gcf"
	"github.com/satyamroy001/MasseyRamanujan/pkg/poly"
	"github.com/satyamroy001/MasseyRamanujan/pkg/refine"
)

func bigs(vals ...int64) []*big.Int {
	s := make([]*big.Int, len(vals))
	for i, v := range vals {
		s[i] = big.NewInt(v)
	}
	return s
}

func TestPolyFromSeries(t *testing.T) {
	cases := []struct {
		name  string
		seq   []int64
		start int64
		want  []int64
	}{
		{"constant", []int64{5, 5, 5, 5}, 0, []int64{5}},
		{"linear from zero", []int64{3, 4, 5, 6}, 0, []int64{1, 3}},
		{"quadratic from one", []int64{4, 13, 26, 43}, 1, []int64{2, 3, -1}},
		{"negative linear", []int64{-1, -2, -3}, 1, []int64{-1, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, ok := PolyFromSeries(bigs(tc.seq...), tc.start)
			require.True(t, ok)
			assert.Equal(t, expr.Poly(tc.want), p)
		})
	}
}

func TestPolyFromSeries_BeyondInt64Samples(t *testing.T) {
	an, err := poly.Get(poly.CartesianAn)
	require.NoError(t, err)

	// 10n^6 over 1000 terms leaves int64 range near the tail; recovery must
	// still identify the generating polynomial exactly
	coef := []int64{10, 0, 0, 0, 0, 0, 0}
	p, ok := PolyFromSeries(an.Generate(coef, 1000), 0)
	require.True(t, ok)
	assert.Equal(t, expr.Poly(coef), p)
}

func TestPolyFromSeries_RejectsNonPolynomial(t *testing.T) {
	// powers of two interpolate only with fractional coefficients
	_, ok := PolyFromSeries(bigs(1, 2, 4, 8), 0)
	assert.False(t, ok)

	_, ok = PolyFromSeries(nil, 0)
	assert.False(t, ok)
}

// symStub hands back fixed symbolic renderings regardless of key.
type symStub struct {
	syms []string
}

func (s *symStub) EvaluateSym(key int64, symbol string) ([]string, error) {
	return s.syms, nil
}

func newFormatter(t *testing.T, table Symbolic) *Formatter {
	t.Helper()
	an, err := poly.Get(poly.CartesianAn)
	require.NoError(t, err)
	bn, err := poly.Get(poly.CartesianBn)
	require.NoError(t, err)
	return New(table, an, bn)
}

func TestFormat_GoldenRatio(t *testing.T) {
	f := newFormatter(t, &symStub{syms: []string{"φ"}})

	m := refine.RefinedMatch{Match: enum.Match{
		Key:    16180339887,
		AnCoef: []int64{1},
		BnCoef: []int64{1},
	}}
	res, err := f.Format(m, constants.Get("phi"))
	require.NoError(t, err)

	assert.Equal(t, "φ", res.LHS)
	assert.Equal(t, "1 + 1/(1 + 1/(1 + 1/(1 + 1/(1 + 1/(...)))))", res.RHS)
	assert.Equal(t, expr.Poly{1}, res.AnPoly)
	assert.Equal(t, expr.Poly{1}, res.BnPoly)
	assert.Contains(t, res.Equation, "φ = 1 + 1/(")
	assert.Contains(t, res.Equation, "a(n) = 1, b(n) = 1")
	assert.Contains(t, res.LaTeX, "\\cfrac{1}{")
}

func TestFormat_RecoversPolynomialsFromSeries(t *testing.T) {
	f := newFormatter(t, &symStub{syms: []string{"e"}})

	m := refine.RefinedMatch{Match: enum.Match{
		AnCoef: []int64{1, 3},
		BnCoef: []int64{-1, 0},
	}}
	res, err := f.Format(m, constants.Get("e"))
	require.NoError(t, err)

	assert.Equal(t, expr.Poly{1, 3}, res.AnPoly)
	assert.Equal(t, expr.Poly{-1, 0}, res.BnPoly)
	assert.Contains(t, res.Equation, "a(n) = n + 3, b(n) = -n")
}

func TestFormat_MatchIndexOutOfRange(t *testing.T) {
	f := newFormatter(t, &symStub{syms: []string{"φ"}})

	m := refine.RefinedMatch{
		Match:       enum.Match{AnCoef: []int64{1}, BnCoef: []int64{1}},
		LhsMatchIdx: 3,
	}
	_, err := f.Format(m, constants.Get("phi"))
	assert.Error(t, err)
}

func TestConvergenceRate_GoldenRatio(t *testing.T) {
	f := newFormatter(t, &symStub{})

	m := refine.RefinedMatch{Match: enum.Match{
		AnCoef: []int64{1},
		BnCoef: []int64{1},
	}}
	target := constants.Get("phi").Value(gcf.Bits(200))

	rate, err := f.ConvergenceRate(m, target)
	require.NoError(t, err)
	// the simple continued fraction of phi gains 2*log10(phi) digits per term
	assert.InDelta(t, 0.418, rate, 0.01)
}

func TestConvergenceRate_NoUsableConvergents(t *testing.T) {
	f := newFormatter(t, &symStub{})

	m := refine.RefinedMatch{Match: enum.Match{
		AnCoef: []int64{5},
		BnCoef: []int64{1},
	}}
	// every convergent is several units away from this target
	target := constants.Get("pi").Value(gcf.Bits(50))
	_, err := f.ConvergenceRate(m, target)
	assert.Error(t, err)
}
