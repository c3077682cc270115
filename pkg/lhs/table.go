// Package lhs implements the left-hand-side hash table: a map from
// quantized low-precision values to the integer-coefficient expressions
//
//	(a + b·κ) / (c + d·κ)
//
// of a target constant κ that produced them. The table is built once, is
// read-only during a search, and answers membership probes from the
// enumeration hot loop.
package lhs

import (
	"errors"
	"fmt"
	"log/slog"
	"math/big"
)

// Sentinel errors. Both are expected filtering outcomes during refinement,
// never fatal: the engine drops the candidate and moves on.
var (
	ErrKeyNotFound    = errors.New("lhs: key not found")
	ErrDivisionByZero = errors.New("lhs: expression denominator is zero")
)

// Entry is one stored expression (A + B·κ) / (C + D·κ).
type Entry struct {
	A, B, C, D int64
}

// Value evaluates the entry for the given constant value. kappa's precision
// sets the result precision.
func (e Entry) Value(kappa *big.Float) (*big.Float, error) {
	prec := kappa.Prec()
	num := linear(e.A, e.B, kappa, prec)
	den := linear(e.C, e.D, kappa, prec)
	if den.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	return num.Quo(num, den), nil
}

// Sym renders the entry symbolically using the given constant symbol.
func (e Entry) Sym(symbol string) string {
	num := linearSym(e.A, e.B, symbol)
	den := linearSym(e.C, e.D, symbol)
	if den == "1" {
		return num
	}
	return fmt.Sprintf("(%s)/(%s)", num, den)
}

func linear(u, v int64, kappa *big.Float, prec uint) *big.Float {
	r := new(big.Float).SetPrec(prec).SetInt64(v)
	r.Mul(r, kappa)
	return r.Add(r, new(big.Float).SetPrec(prec).SetInt64(u))
}

func linearSym(u, v int64, symbol string) string {
	switch {
	case v == 0:
		return fmt.Sprintf("%d", u)
	case u == 0 && v == 1:
		return symbol
	case u == 0:
		return fmt.Sprintf("%d%s", v, symbol)
	case v == 1:
		return fmt.Sprintf("%d + %s", u, symbol)
	case v < 0:
		return fmt.Sprintf("%d - %d%s", u, -v, symbol)
	default:
		return fmt.Sprintf("%d + %d%s", u, v, symbol)
	}
}

// Table maps hash keys to the entries that quantize to them. Multiple
// distinct expressions may share one key; refinement disambiguates by index.
type Table struct {
	Constant  string
	Limit     int64
	KeyDigits int

	entries map[int64][]Entry
}

// Quantizer maps values to hash keys: the value divided by the threshold
// 10^-keyDigits, truncated toward zero. The 10^keyDigits factor and the
// scratch state are allocated once; the enumeration hot loop keys millions
// of values through a single Quantizer per worker.
type Quantizer struct {
	factor *big.Float
	scaled *big.Float
	trunc  *big.Int
}

// NewQuantizer returns a Quantizer for values carrying at most prec bits.
func NewQuantizer(keyDigits int, prec uint) *Quantizer {
	f := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(keyDigits)), nil)
	return &Quantizer{
		factor: new(big.Float).SetPrec(prec).SetInt(f),
		scaled: new(big.Float).SetPrec(prec),
		trunc:  new(big.Int),
	}
}

// Key returns the hash key for v. Returns false if the key does not fit an
// int64; such values cannot be in the table.
func (q *Quantizer) Key(v *big.Float) (int64, bool) {
	q.scaled.Mul(q.factor, v)
	q.scaled.Int(q.trunc)
	if !q.trunc.IsInt64() {
		return 0, false
	}
	return q.trunc.Int64(), true
}

// Quantize is a one-shot convenience around Quantizer for callers outside
// the hot loop.
func Quantize(v *big.Float, keyDigits int) (int64, bool) {
	return NewQuantizer(keyDigits, v.Prec()).Key(v)
}

// Contains reports whether any entry quantizes to key. This is the
// enumeration hot-loop probe.
func (t *Table) Contains(key int64) bool {
	_, ok := t.entries[key]
	return ok
}

// Len returns the number of distinct keys.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns the entries stored under key, in insertion order.
func (t *Table) Entries(key int64) []Entry { return t.entries[key] }

// Evaluate computes the high-precision value of every entry under key using
// the actual constant value, not the quantized key. Returns ErrKeyNotFound
// for an absent key and ErrDivisionByZero if any entry's denominator
// vanishes for this constant.
func (t *Table) Evaluate(key int64, kappa *big.Float) ([]*big.Float, error) {
	entries, ok := t.entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	vals := make([]*big.Float, len(entries))
	for i, e := range entries {
		v, err := e.Value(kappa)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// EvaluateSym renders every entry under key symbolically.
func (t *Table) EvaluateSym(key int64, symbol string) ([]string, error) {
	entries, ok := t.entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	syms := make([]string, len(entries))
	for i, e := range entries {
		syms[i] = e.Sym(symbol)
	}
	return syms, nil
}

// Insert adds an entry under key. Exposed for synthetic tables in tests and
// for the loader.
func (t *Table) Insert(key int64, e Entry) {
	if t.entries == nil {
		t.entries = make(map[int64][]Entry)
	}
	t.entries[key] = append(t.entries[key], e)
}

// Build enumerates all expressions (a + b·κ)/(c + d·κ) with coefficients in
// [-limit, limit], skipping degenerate and gcd-reducible duplicates, and
// stores each under the quantized key of its value. kappa must carry the
// enumeration working precision.
func Build(constant string, kappa *big.Float, limit int64, keyDigits int, log *slog.Logger) *Table {
	t := &Table{
		Constant:  constant,
		Limit:     limit,
		KeyDigits: keyDigits,
		entries:   make(map[int64][]Entry),
	}
	seen := make(map[Entry]struct{})
	quant := NewQuantizer(keyDigits, kappa.Prec())
	var scanned, kept int64
	for a := -limit; a <= limit; a++ {
		for b := -limit; b <= limit; b++ {
			if a == 0 && b == 0 {
				continue // zero numerator, trivial value
			}
			for c := -limit; c <= limit; c++ {
				for d := -limit; d <= limit; d++ {
					if c == 0 && d == 0 {
						continue
					}
					scanned++
					e, ok := normalize(Entry{A: a, B: b, C: c, D: d})
					if !ok {
						continue
					}
					if _, dup := seen[e]; dup {
						continue
					}
					seen[e] = struct{}{}
					v, err := e.Value(kappa)
					if err != nil {
						continue
					}
					key, ok := quant.Key(v)
					if !ok {
						continue
					}
					t.entries[key] = append(t.entries[key], e)
					kept++
				}
			}
		}
		if log != nil {
			log.Debug("lhs build progress", "numerator_a", a, "scanned", scanned, "kept", kept)
		}
	}
	if log != nil {
		log.Info("lhs table built", "constant", constant, "limit", limit, "keys", len(t.entries), "entries", kept)
	}
	return t
}

// normalize reduces an entry by the gcd of its four coefficients and fixes
// the sign so the denominator's leading coefficient is positive. Entries
// that reduce to the same normal form denote the same value; only the first
// is kept.
func normalize(e Entry) (Entry, bool) {
	g := gcd64(gcd64(abs64(e.A), abs64(e.B)), gcd64(abs64(e.C), abs64(e.D)))
	if g > 1 {
		e.A /= g
		e.B /= g
		e.C /= g
		e.D /= g
	}
	lead := e.C
	if lead == 0 {
		lead = e.D
	}
	if lead < 0 {
		e.A, e.B, e.C, e.D = -e.A, -e.B, -e.C, -e.D
	}
	return e, true
}

func gcd64(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
