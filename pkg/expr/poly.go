// Package expr renders the closed forms behind search results: polynomials
// in n and truncated continued fraction expansions, in unicode and LaTeX.
package expr

import (
	"fmt"
	"strings"
)

// Poly is a polynomial in n with integer coefficients, highest degree
// first, matching the Horner order used by the series generators.
type Poly []int64

// Eval evaluates the polynomial at n by Horner's rule.
func (p Poly) Eval(n int64) int64 {
	var v int64
	for _, c := range p {
		v = v*n + c
	}
	return v
}

// Degree returns the polynomial degree, ignoring leading zeros.
func (p Poly) Degree() int {
	for i, c := range p {
		if c != 0 {
			return len(p) - 1 - i
		}
	}
	return 0
}

// String renders the polynomial as e.g. "2n^2 + 3n - 1".
func (p Poly) String() string {
	return p.render("n^%d", "n")
}

// LaTeX renders the polynomial as e.g. "2n^{2} + 3n - 1".
func (p Poly) LaTeX() string {
	return p.render("n^{%d}", "n")
}

func (p Poly) render(powFmt, varName string) string {
	var b strings.Builder
	for i, c := range p {
		deg := len(p) - 1 - i
		if c == 0 && !(len(p) == 1) {
			continue
		}
		if b.Len() == 0 {
			if c < 0 {
				b.WriteByte('-')
			}
		} else if c < 0 {
			b.WriteString(" - ")
		} else {
			b.WriteString(" + ")
		}
		abs := c
		if abs < 0 {
			abs = -abs
		}
		switch {
		case deg == 0:
			fmt.Fprintf(&b, "%d", abs)
		case abs == 1 && deg == 1:
			b.WriteString(varName)
		case abs == 1:
			fmt.Fprintf(&b, powFmt, deg)
		case deg == 1:
			fmt.Fprintf(&b, "%d%s", abs, varName)
		default:
			fmt.Fprintf(&b, "%d"+powFmt, abs, deg)
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}
