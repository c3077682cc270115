// Package gcf evaluates generalized continued fractions
//
//	a_0 + b_1/(a_1 + b_2/(a_2 + ...))
//
// via the classical three-term recurrence for the convergent numerators and
// denominators. The recurrence runs over exact big.Int arithmetic; only the
// final quotient is rounded, at an explicitly supplied precision.
package gcf

import (
	"math"
	"math/big"
)

// Bits converts a working precision in decimal digits to big.Float bits,
// with headroom for rounding in the final quotient.
func Bits(decimalDigits int) uint {
	return uint(math.Ceil(float64(decimalDigits)*math.Log2(10))) + 32
}

// Evaluator computes continued fraction values. It reuses internal big.Int
// scratch state across calls, so each worker in a parallel enumeration needs
// its own Evaluator. The zero value is not usable; use New.
type Evaluator struct {
	p, pPrev *big.Int
	q, qPrev *big.Int
	t1, t2   *big.Int
	num, den *big.Float
}

// New returns an Evaluator producing values at prec bits of precision.
func New(prec uint) *Evaluator {
	return &Evaluator{
		p: new(big.Int), pPrev: new(big.Int),
		q: new(big.Int), qPrev: new(big.Int),
		t1: new(big.Int), t2: new(big.Int),
		num: new(big.Float).SetPrec(prec),
		den: new(big.Float).SetPrec(prec),
	}
}

// Eval computes the value of the continued fraction defined by an and bn,
// which must be the same length, L >= 1. The partial numerator bn[i-1]
// pairs with the partial denominator an[i]. If the final convergent
// denominator is exactly zero, Eval returns zero: the enumeration loop must
// never abort on a pathological coefficient combination.
//
// The returned value aliases internal state and is only valid until the
// next call.
func (e *Evaluator) Eval(an, bn []*big.Int) *big.Float {
	e.pPrev.SetInt64(1)
	e.p.Set(an[0])
	e.qPrev.SetInt64(0)
	e.q.SetInt64(1)
	for i := 1; i < len(an); i++ {
		e.t1.Mul(an[i], e.q)
		e.t2.Mul(bn[i-1], e.qPrev)
		e.qPrev, e.q = e.q, e.qPrev.Add(e.t1, e.t2)
		e.t1.Mul(an[i], e.p)
		e.t2.Mul(bn[i-1], e.pPrev)
		e.pPrev, e.p = e.p, e.pPrev.Add(e.t1, e.t2)
	}
	if e.q.Sign() == 0 {
		return e.num.SetInt64(0)
	}
	e.num.SetInt(e.p)
	e.den.SetInt(e.q)
	return e.num.Quo(e.num, e.den)
}

// Evaluate is a one-shot convenience around Evaluator for callers outside
// the enumeration hot loop.
func Evaluate(an, bn []*big.Int, prec uint) *big.Float {
	return new(big.Float).SetPrec(prec).Copy(New(prec).Eval(an, bn))
}

// Convergents returns the value of every convergent of the continued
// fraction, one per term. Convergents with a zero denominator are reported
// as zero, matching Eval. Used for convergence-rate diagnostics, not in the
// search hot path.
func Convergents(an, bn []*big.Int, prec uint) []*big.Float {
	out := make([]*big.Float, 0, len(an))
	pPrev, p := big.NewInt(1), new(big.Int).Set(an[0])
	qPrev, q := big.NewInt(0), big.NewInt(1)
	t1, t2 := new(big.Int), new(big.Int)
	quot := func(p, q *big.Int) *big.Float {
		if q.Sign() == 0 {
			return new(big.Float).SetPrec(prec)
		}
		num := new(big.Float).SetPrec(prec).SetInt(p)
		den := new(big.Float).SetPrec(prec).SetInt(q)
		return num.Quo(num, den)
	}
	out = append(out, quot(p, q))
	for i := 1; i < len(an); i++ {
		t1.Mul(an[i], q)
		t2.Mul(bn[i-1], qPrev)
		qPrev, q = q, new(big.Int).Add(t1, t2)
		t1.Mul(an[i], p)
		t2.Mul(bn[i-1], pPrev)
		pPrev, p = p, new(big.Int).Add(t1, t2)
		out = append(out, quot(p, q))
	}
	return out
}
