package refine

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyamroy001/MasseyRamanujan/pkg/constants"
	"github.com/satyamroy001/MasseyRamanujan/pkg/enum"
	"github.com/satyamroy001/MasseyRamanujan/pkg/lhs"
	"github.com/satyamroy001/MasseyRamanujan/pkg/poly"
)

// stubTable returns canned values or errors keyed by the lookup key.
type stubTable struct {
	vals func(kappa *big.Float) []*big.Float
	err  error
}

func (s *stubTable) Evaluate(key int64, kappa *big.Float) ([]*big.Float, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vals(kappa), nil
}

// test settings scaled down so the all-ones continued fraction still clears
// the comparison length: it gains roughly 0.42 digits per term, so 500 terms
// give well over 200 agreeing digits.
func testSettings() Settings {
	return Settings{Terms: 500, CompareDigits: 100, Digits: 150}
}

func newEngine(t *testing.T, table Evaluator) *Engine {
	t.Helper()
	an, err := poly.Get(poly.CartesianAn)
	require.NoError(t, err)
	bn, err := poly.Get(poly.CartesianBn)
	require.NoError(t, err)
	return New(table, an, bn, testSettings(), nil)
}

// the all-ones continued fraction is the golden ratio; a table entry equal to
// kappa itself must confirm, and the index must point at the agreeing entry.
func TestRun_ConfirmsExactMatch(t *testing.T) {
	table := &stubTable{vals: func(kappa *big.Float) []*big.Float {
		wrong := new(big.Float).SetPrec(kappa.Prec()).SetInt64(3)
		return []*big.Float{wrong, kappa}
	}}
	e := newEngine(t, table)

	m := enum.Match{Key: 16180339887, AnCoef: []int64{1}, BnCoef: []int64{1}}
	out := e.Run([]enum.Match{m}, constants.Get("phi"))

	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].LhsMatchIdx)
	assert.Equal(t, m.AnCoef, out[0].AnCoef)

	single := &stubTable{vals: func(kappa *big.Float) []*big.Float {
		return []*big.Float{kappa}
	}}
	out = newEngine(t, single).Run([]enum.Match{m}, constants.Get("phi"))
	require.Len(t, out, 1)
	assert.Equal(t, 0, out[0].LhsMatchIdx)
}

func TestRun_RejectsDisagreementInsideCompareLength(t *testing.T) {
	table := &stubTable{vals: func(kappa *big.Float) []*big.Float {
		// off at roughly the 50th digit, well inside the comparison window
		off := new(big.Float).SetPrec(kappa.Prec()).SetFloat64(1e-50)
		return []*big.Float{new(big.Float).Add(kappa, off)}
	}}
	e := newEngine(t, table)

	m := enum.Match{Key: 16180339887, AnCoef: []int64{1}, BnCoef: []int64{1}}
	out := e.Run([]enum.Match{m}, constants.Get("phi"))
	assert.Empty(t, out)
}

func TestRun_IgnoresDisagreementBeyondCompareLength(t *testing.T) {
	table := &stubTable{vals: func(kappa *big.Float) []*big.Float {
		// off around the 120th digit, past the 100-digit comparison
		off := new(big.Float).SetPrec(kappa.Prec()).SetFloat64(1e-120)
		return []*big.Float{new(big.Float).Add(kappa, off)}
	}}
	e := newEngine(t, table)

	m := enum.Match{Key: 16180339887, AnCoef: []int64{1}, BnCoef: []int64{1}}
	out := e.Run([]enum.Match{m}, constants.Get("phi"))
	assert.Len(t, out, 1)
}

func TestRun_DropsExpectedTableErrors(t *testing.T) {
	m := enum.Match{Key: 1, AnCoef: []int64{1}, BnCoef: []int64{1}}

	for _, err := range []error{lhs.ErrKeyNotFound, lhs.ErrDivisionByZero} {
		e := newEngine(t, &stubTable{err: err})
		out := e.Run([]enum.Match{m}, constants.Get("phi"))
		assert.Empty(t, out, "error %v must drop the candidate silently", err)
	}
}

func TestRun_DropsInfiniteTableValues(t *testing.T) {
	table := &stubTable{vals: func(kappa *big.Float) []*big.Float {
		return []*big.Float{new(big.Float).SetInf(false)}
	}}
	e := newEngine(t, table)

	m := enum.Match{Key: 1, AnCoef: []int64{1}, BnCoef: []int64{1}}
	out := e.Run([]enum.Match{m}, constants.Get("phi"))
	assert.Empty(t, out)
}

func TestDigits(t *testing.T) {
	one := new(big.Float).SetPrec(500).SetInt64(1)

	// 2^-400 is far beyond 100 significant digits of 1
	tiny := new(big.Float).SetPrec(500).SetMantExp(big.NewFloat(1), -400)
	assert.Equal(t, Digits(one, 100), Digits(new(big.Float).Add(one, tiny), 100))

	// 2^-100 is about 8e-31, visible inside 100 digits
	small := new(big.Float).SetPrec(500).SetMantExp(big.NewFloat(1), -100)
	assert.NotEqual(t, Digits(one, 100), Digits(new(big.Float).Add(one, small), 100))

	assert.Equal(t, "0.5", Digits(big.NewFloat(0.5), 10))
}
