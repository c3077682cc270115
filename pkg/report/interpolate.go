package report

import (
	"math/big"

	"github.com/satyamroy001/MasseyRamanujan/pkg/expr"
)

// maxFitDegree caps the polynomial degree attempted when recovering a
// closed form from sampled terms.
const maxFitDegree = 8

// PolyFromSeries recovers the integer polynomial that generates seq at
// consecutive indices start, start+1, ... It tries increasing degrees and
// returns the lowest-degree polynomial consistent with every sample, or
// false if none fits (the sequence is not polynomial, or its coefficients
// are not integers).
func PolyFromSeries(seq []*big.Int, start int64) (expr.Poly, bool) {
	if len(seq) == 0 {
		return nil, false
	}
	maxDeg := maxFitDegree
	if len(seq)-1 < maxDeg {
		maxDeg = len(seq) - 1
	}
	for deg := 0; deg <= maxDeg; deg++ {
		coef, ok := fitDegree(seq, start, deg)
		if !ok {
			continue
		}
		p := expr.Poly(coef)
		if verify(p, seq, start) {
			return p, true
		}
	}
	return nil, false
}

// fitDegree solves the (deg+1)x(deg+1) Vandermonde system over big.Rat for
// an exact-degree fit through the first deg+1 samples. Returns false if any
// solved coefficient is not an integer.
func fitDegree(seq []*big.Int, start int64, deg int) ([]int64, bool) {
	n := deg + 1
	// rows: sum_j c_j * x^(deg-j) = seq[i], x = start+i; columns highest
	// degree first to match the generator's Horner order.
	m := make([][]*big.Rat, n)
	for i := 0; i < n; i++ {
		x := big.NewRat(start+int64(i), 1)
		row := make([]*big.Rat, n+1)
		pow := big.NewRat(1, 1)
		for j := n - 1; j >= 0; j-- {
			row[j] = new(big.Rat).Set(pow)
			pow = new(big.Rat).Mul(pow, x)
		}
		row[n] = new(big.Rat).SetInt(seq[i])
		m[i] = row
	}

	// Gaussian elimination with exact rational arithmetic.
	for col := 0; col < n; col++ {
		pivot := -1
		for r := col; r < n; r++ {
			if m[r][col].Sign() != 0 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			return nil, false
		}
		m[col], m[pivot] = m[pivot], m[col]
		inv := new(big.Rat).Inv(m[col][col])
		for j := col; j <= n; j++ {
			m[col][j].Mul(m[col][j], inv)
		}
		for r := 0; r < n; r++ {
			if r == col || m[r][col].Sign() == 0 {
				continue
			}
			factor := new(big.Rat).Set(m[r][col])
			for j := col; j <= n; j++ {
				t := new(big.Rat).Mul(factor, m[col][j])
				m[r][j].Sub(m[r][j], t)
			}
		}
	}

	coef := make([]int64, n)
	for i := 0; i < n; i++ {
		c := m[i][n]
		if !c.IsInt() || !c.Num().IsInt64() {
			return nil, false
		}
		coef[i] = c.Num().Int64()
	}
	return coef, true
}

// verify checks the fit against every sample with exact arithmetic; the
// tail samples do not fit int64.
func verify(p expr.Poly, seq []*big.Int, start int64) bool {
	x := new(big.Int)
	v := new(big.Int)
	c := new(big.Int)
	for i, want := range seq {
		x.SetInt64(start + int64(i))
		v.SetInt64(0)
		for _, k := range p {
			v.Mul(v, x)
			c.SetInt64(k)
			v.Add(v, c)
		}
		if v.Cmp(want) != 0 {
			return false
		}
	}
	return true
}
