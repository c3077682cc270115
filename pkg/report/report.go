// Package report turns refined matches into presentable equations: a
// symbolic left-hand side, a truncated continued fraction right-hand side,
// closed forms for the defining polynomials, and an empirical convergence
// rate.
package report

import (
	"fmt"
	"math"
	"math/big"

	"github.com/satyamroy001/MasseyRamanujan/pkg/constants"
	"github.com/satyamroy001/MasseyRamanujan/pkg/expr"
	"github.com/satyamroy001/MasseyRamanujan/pkg/gcf"
	"github.com/satyamroy001/MasseyRamanujan/pkg/poly"
	"github.com/satyamroy001/MasseyRamanujan/pkg/refine"
)

// displayTerms is how many sequence terms are regenerated for display and
// convergence diagnostics.
const displayTerms = 250

// minDepth is the minimum nesting depth shown for the continued fraction.
const minDepth = 5

// Symbolic is the part of the LHS table the formatter needs.
type Symbolic interface {
	EvaluateSym(key int64, symbol string) ([]string, error)
}

// FormattedResult is a human-presentable equation for one refined match.
type FormattedResult struct {
	LHS     string // symbolic left-hand side, e.g. "(1 + √5)/(2)"
	RHS     string // truncated continued fraction
	Equation string // "LHS = RHS"
	LaTeX   string // the same equation in LaTeX
	AnPoly  expr.Poly
	BnPoly  expr.Poly
}

// Formatter renders refined matches.
type Formatter struct {
	table Symbolic
	an    poly.Generator
	bn    poly.Generator
}

// New creates a formatter over the given table and generators.
func New(table Symbolic, an, bn poly.Generator) *Formatter {
	return &Formatter{table: table, an: an, bn: bn}
}

// Format renders one refined match against the constant it was found for.
func (f *Formatter) Format(m refine.RefinedMatch, c *constants.Constant) (FormattedResult, error) {
	syms, err := f.table.EvaluateSym(m.Key, c.Symbol)
	if err != nil {
		return FormattedResult{}, fmt.Errorf("report: render lhs for key %d: %w", m.Key, err)
	}
	if m.LhsMatchIdx < 0 || m.LhsMatchIdx >= len(syms) {
		return FormattedResult{}, fmt.Errorf("report: match index %d out of range for key %d", m.LhsMatchIdx, m.Key)
	}
	latexSyms, err := f.table.EvaluateSym(m.Key, c.LaTeX)
	if err != nil {
		return FormattedResult{}, fmt.Errorf("report: render lhs for key %d: %w", m.Key, err)
	}

	an := f.an.Generate(m.AnCoef, displayTerms)
	bn := f.bn.Generate(m.BnCoef, displayTerms)
	cf := expr.ContFrac{An: int64Prefix(an), Bn: int64Prefix(bn)}

	depth := len(m.AnCoef)
	if len(m.BnCoef) > depth {
		depth = len(m.BnCoef)
	}
	if depth < minDepth {
		depth = minDepth
	}

	anPoly, ok := PolyFromSeries(an, 0)
	if !ok {
		anPoly = expr.Poly(m.AnCoef)
	}
	bnPoly, ok := PolyFromSeries(bn, 1)
	if !ok {
		bnPoly = expr.Poly(m.BnCoef)
	}

	lhsSym := syms[m.LhsMatchIdx]
	rhs := cf.String(depth)
	return FormattedResult{
		LHS:      lhsSym,
		RHS:      rhs,
		Equation: fmt.Sprintf("%s = %s\n  where a(n) = %s, b(n) = %s", lhsSym, rhs, anPoly, bnPoly),
		LaTeX: fmt.Sprintf("%s = %s \\quad a(n) = %s,\\ b(n) = %s",
			latexSyms[m.LhsMatchIdx], cf.LaTeX(depth), anPoly.LaTeX(), bnPoly.LaTeX()),
		AnPoly: anPoly,
		BnPoly: bnPoly,
	}, nil
}

// ConvergenceRate estimates how many correct decimal digits each continued
// fraction term contributes, by comparing successive convergents against
// the known LHS value. digits sets the working precision; the rate is
// averaged over the tail of the convergent list, where the asymptotic
// behavior has settled.
func (f *Formatter) ConvergenceRate(m refine.RefinedMatch, target *big.Float) (float64, error) {
	prec := target.Prec()
	an := f.an.Generate(m.AnCoef, displayTerms)
	bn := f.bn.Generate(m.BnCoef, displayTerms)
	convs := gcf.Convergents(an, bn, prec)

	// digits of agreement per convergent
	var first, last float64
	var firstIdx, lastIdx int
	found := false
	diff := new(big.Float).SetPrec(prec)
	for i, v := range convs {
		diff.Sub(v, target)
		if diff.Sign() == 0 {
			continue // exact, no measurable error left
		}
		d := -log10Abs(diff)
		if d <= 0 {
			continue
		}
		if !found {
			first, firstIdx = d, i
			found = true
		}
		last, lastIdx = d, i
	}
	if !found || lastIdx == firstIdx {
		return 0, fmt.Errorf("report: too few usable convergents for a rate estimate")
	}
	return (last - first) / float64(lastIdx-firstIdx), nil
}

// int64Prefix converts the leading sequence terms that fit int64, plenty
// for the handful of nesting levels the display shows.
func int64Prefix(seq []*big.Int) []int64 {
	out := make([]int64, 0, len(seq))
	for _, v := range seq {
		if !v.IsInt64() {
			break
		}
		out = append(out, v.Int64())
	}
	return out
}

// log10Abs returns log10 |v| from the big.Float exponent, avoiding a
// float64 overflow for very small errors.
func log10Abs(v *big.Float) float64 {
	mant := new(big.Float)
	exp := v.MantExp(mant)
	m, _ := mant.Float64()
	return float64(exp)*math.Log10(2) + math.Log10(math.Abs(m))
}
