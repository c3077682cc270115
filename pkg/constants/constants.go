// Package constants provides named mathematical constants computed to
// arbitrary precision with math/big.
package constants

import (
	"math/big"
	"sort"
	"sync"
)

// DefaultPrecision is the default precision in bits.
const DefaultPrecision uint = 512

// Constant is a named mathematical constant. Values are computed on demand
// at the requested precision and cached per precision.
type Constant struct {
	Name    string
	Symbol  string // unicode symbol for pretty printing
	LaTeX   string
	compute func(prec uint) *big.Float

	mu    sync.Mutex
	cache map[uint]*big.Float
}

// Value returns the constant computed to prec bits of precision.
// The returned value is shared; callers must not mutate it.
func (c *Constant) Value(prec uint) *big.Float {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cache == nil {
		c.cache = make(map[uint]*big.Float)
	}
	if v, ok := c.cache[prec]; ok {
		return v
	}
	v := c.compute(prec)
	c.cache[prec] = v
	return v
}

var registry = map[string]*Constant{}

func register(c *Constant) {
	registry[c.Name] = c
}

// Get returns a constant by name, or nil if unknown.
func Get(name string) *Constant {
	return registry[name]
}

// Names returns all registered constant names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func init() {
	register(&Constant{Name: "e", Symbol: "e", LaTeX: "e", compute: computeE})
	register(&Constant{Name: "pi", Symbol: "π", LaTeX: "\\pi", compute: computePi})
	register(&Constant{Name: "phi", Symbol: "φ", LaTeX: "\\varphi", compute: computePhi})
	register(&Constant{Name: "sqrt2", Symbol: "√2", LaTeX: "\\sqrt{2}", compute: computeSqrt2})
	register(&Constant{Name: "ln2", Symbol: "ln(2)", LaTeX: "\\ln 2", compute: computeLn2})
}

// guardBits is extra working precision to absorb rounding in the last terms.
const guardBits = 32

// computeE sums the Taylor series e = sum 1/k!.
func computeE(prec uint) *big.Float {
	wp := prec + guardBits
	sum := big.NewFloat(1).SetPrec(wp)
	term := big.NewFloat(1).SetPrec(wp)
	k := new(big.Float).SetPrec(wp)
	eps := epsilon(wp)
	for i := int64(1); ; i++ {
		k.SetInt64(i)
		term.Quo(term, k)
		if term.Cmp(eps) < 0 {
			break
		}
		sum.Add(sum, term)
	}
	return round(sum, prec)
}

// computePi uses Machin's formula: pi = 16*atan(1/5) - 4*atan(1/239).
func computePi(prec uint) *big.Float {
	wp := prec + guardBits
	a := atanInvInt(5, wp)
	b := atanInvInt(239, wp)
	a.Mul(a, big.NewFloat(16).SetPrec(wp))
	b.Mul(b, big.NewFloat(4).SetPrec(wp))
	return round(a.Sub(a, b), prec)
}

// computePhi returns the golden ratio (1 + sqrt 5) / 2.
func computePhi(prec uint) *big.Float {
	wp := prec + guardBits
	v := new(big.Float).SetPrec(wp).SetInt64(5)
	v.Sqrt(v)
	v.Add(v, big.NewFloat(1).SetPrec(wp))
	v.Quo(v, big.NewFloat(2).SetPrec(wp))
	return round(v, prec)
}

func computeSqrt2(prec uint) *big.Float {
	wp := prec + guardBits
	v := new(big.Float).SetPrec(wp).SetInt64(2)
	return round(v.Sqrt(v), prec)
}

// computeLn2 uses ln 2 = 2*atanh(1/3) = 2 * sum 1/((2k+1)*3^(2k+1)).
func computeLn2(prec uint) *big.Float {
	wp := prec + guardBits
	sum := new(big.Float).SetPrec(wp)
	pow := new(big.Float).SetPrec(wp).Quo(big.NewFloat(1).SetPrec(wp), big.NewFloat(3).SetPrec(wp))
	nine := big.NewFloat(9).SetPrec(wp)
	term := new(big.Float).SetPrec(wp)
	denom := new(big.Float).SetPrec(wp)
	eps := epsilon(wp)
	for k := int64(0); ; k++ {
		denom.SetInt64(2*k + 1)
		term.Quo(pow, denom)
		if term.Cmp(eps) < 0 {
			break
		}
		sum.Add(sum, term)
		pow.Quo(pow, nine)
	}
	sum.Mul(sum, big.NewFloat(2).SetPrec(wp))
	return round(sum, prec)
}

// atanInvInt computes atan(1/x) for integer x > 1 by the Taylor series
// sum (-1)^k / ((2k+1) * x^(2k+1)).
func atanInvInt(x int64, wp uint) *big.Float {
	sum := new(big.Float).SetPrec(wp)
	xf := new(big.Float).SetPrec(wp).SetInt64(x)
	xx := new(big.Float).SetPrec(wp).Mul(xf, xf)
	pow := new(big.Float).SetPrec(wp).Quo(big.NewFloat(1).SetPrec(wp), xf)
	term := new(big.Float).SetPrec(wp)
	denom := new(big.Float).SetPrec(wp)
	eps := epsilon(wp)
	neg := false
	for k := int64(0); ; k++ {
		denom.SetInt64(2*k + 1)
		term.Quo(pow, denom)
		if term.Cmp(eps) < 0 {
			break
		}
		if neg {
			sum.Sub(sum, term)
		} else {
			sum.Add(sum, term)
		}
		neg = !neg
		pow.Quo(pow, xx)
	}
	return sum
}

// epsilon returns 2^-wp, the truncation threshold for series summation.
func epsilon(wp uint) *big.Float {
	return new(big.Float).SetPrec(wp).SetMantExp(big.NewFloat(1), -int(wp))
}

func round(v *big.Float, prec uint) *big.Float {
	return v.SetPrec(prec)
}
