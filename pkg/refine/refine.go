// Package refine implements the second search pass: every intermediate
// match is re-evaluated at very high precision with a much longer sequence,
// and kept only if its decimal rendering agrees with an LHS candidate to
// the full comparison length. String equality over a fixed number of
// significant digits, not bit-exact numeric equality, is the acceptance
// criterion; it tolerates rounding in the trailing digits of both sides.
package refine

import (
	"errors"
	"io"
	"log/slog"
	"math/big"

	"github.com/satyamroy001/MasseyRamanujan/pkg/constants"
	"github.com/satyamroy001/MasseyRamanujan/pkg/enum"
	"github.com/satyamroy001/MasseyRamanujan/pkg/gcf"
	"github.com/satyamroy001/MasseyRamanujan/pkg/lhs"
	"github.com/satyamroy001/MasseyRamanujan/pkg/poly"
)

// RefinedMatch is a confirmed match. LhsMatchIdx identifies which of the
// possibly several LHS expressions sharing the hash key actually matched.
type RefinedMatch struct {
	enum.Match
	LhsMatchIdx int
}

// Evaluator is the part of the LHS table refinement needs.
type Evaluator interface {
	Evaluate(key int64, kappa *big.Float) ([]*big.Float, error)
}

// Settings holds the verification parameters.
type Settings struct {
	Terms         int // continued fraction terms for re-evaluation
	CompareDigits int // significant digits both sides must agree on
	Digits        int // verification precision in decimal digits
}

// DefaultSettings returns the standard verification parameters.
func DefaultSettings() Settings {
	return Settings{
		Terms:         1000,
		CompareDigits: 100,
		Digits:        2000,
	}
}

// progressEvery is the candidate count between progress log lines.
const progressEvery = 50

// Engine runs the refinement pass.
type Engine struct {
	table Evaluator
	an    poly.Generator
	bn    poly.Generator
	cfg   Settings
	log   *slog.Logger
}

// New creates a refinement engine. A nil logger disables progress output.
func New(table Evaluator, an, bn poly.Generator, cfg Settings, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{table: table, an: an, bn: bn, cfg: cfg, log: log}
}

// Run verifies every intermediate match and returns the confirmed ones.
// The whole phase runs at twice the verification digit count, so the
// comparison length is comfortably inside the working precision.
//
// Lookup misses and division-by-zero from the LHS table are expected
// filtering outcomes and drop the candidate silently. An infinite LHS value
// indicates a defect in table construction; it is logged and the candidate
// dropped, but the batch continues.
func (e *Engine) Run(matches []enum.Match, c *constants.Constant) []RefinedMatch {
	prec := gcf.Bits(2 * e.cfg.Digits)
	kappa := c.Value(prec)

	var out []RefinedMatch
	for i, m := range matches {
		if n := i + 1; n%progressEvery == 0 {
			e.log.Info("refinement progress", "passed", n, "total", len(matches), "matches", len(out))
		}

		vals, err := e.table.Evaluate(m.Key, kappa)
		if err != nil {
			if errors.Is(err, lhs.ErrKeyNotFound) || errors.Is(err, lhs.ErrDivisionByZero) {
				continue
			}
			e.log.Warn("lhs evaluation failed", "key", m.Key, "error", err)
			continue
		}
		if anyInf(vals) {
			e.log.Warn("infinite value in lhs table", "key", m.Key, "constant", c.Name)
			continue
		}

		an := e.an.Generate(m.AnCoef, e.cfg.Terms)
		bn := e.bn.Generate(m.BnCoef, e.cfg.Terms)
		rhs := Digits(gcf.Evaluate(an, bn, prec), e.cfg.CompareDigits)

		for idx, v := range vals {
			if Digits(v, e.cfg.CompareDigits) == rhs {
				out = append(out, RefinedMatch{Match: m, LhsMatchIdx: idx})
			}
		}
	}
	e.log.Info("refinement complete", "candidates", len(matches), "matches", len(out))
	return out
}

// Digits renders a value rounded to n significant decimal digits. Both
// sides of a comparison must go through this to make string equality a
// meaningful acceptance test.
func Digits(v *big.Float, n int) string {
	return v.Text('g', n)
}

func anyInf(vals []*big.Float) bool {
	for _, v := range vals {
		if v.IsInf() {
			return true
		}
	}
	return false
}
