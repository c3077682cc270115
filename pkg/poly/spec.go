// Package poly defines compact polynomial specifications and the series
// generators that expand them into integer sequences.
package poly

import (
	"fmt"
	"strconv"
	"strings"
)

// Spec is a compact polynomial specification: one inner slice per
// coefficient, listing the candidate values that coefficient may take.
// Coefficients are ordered highest degree first, matching the Horner
// evaluation in Generate.
type Spec [][]int64

// Count returns the number of concrete coefficient tuples the spec expands
// to: the product of the inner slice lengths. An empty spec has count 0.
func (s Spec) Count() int {
	if len(s) == 0 {
		return 0
	}
	n := 1
	for _, vals := range s {
		n *= len(vals)
	}
	return n
}

// Size returns the total number of coefficient values across all positions.
func (s Spec) Size() int {
	n := 0
	for _, vals := range s {
		n += len(vals)
	}
	return n
}

// Degree returns the polynomial degree described by the spec.
func (s Spec) Degree() int {
	return len(s) - 1
}

// Validate reports whether the spec can be enumerated at all.
func (s Spec) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("poly: empty spec")
	}
	for i, vals := range s {
		if len(vals) == 0 {
			return fmt.Errorf("poly: coefficient %d has no candidate values", i)
		}
	}
	return nil
}

// Range returns the candidate values lo..hi inclusive.
func Range(lo, hi int64) []int64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	vals := make([]int64, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		vals = append(vals, v)
	}
	return vals
}

// ParseSpec parses a textual spec of the form "1..3,0..2,5" where each
// comma-separated field is one coefficient: either a range "lo..hi" or a
// pipe-separated value list "1|2|5".
func ParseSpec(s string) (Spec, error) {
	fields := strings.Split(s, ",")
	spec := make(Spec, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			return nil, fmt.Errorf("poly: empty coefficient in spec %q", s)
		}
		if lo, hi, ok := strings.Cut(f, ".."); ok {
			a, err := strconv.ParseInt(lo, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("poly: bad range start %q: %w", lo, err)
			}
			b, err := strconv.ParseInt(hi, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("poly: bad range end %q: %w", hi, err)
			}
			spec = append(spec, Range(a, b))
			continue
		}
		var vals []int64
		for _, p := range strings.Split(f, "|") {
			v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("poly: bad coefficient value %q: %w", p, err)
			}
			vals = append(vals, v)
		}
		spec = append(spec, vals)
	}
	return spec, nil
}

// String renders the spec in the same textual form ParseSpec accepts.
func (s Spec) String() string {
	var b strings.Builder
	for i, vals := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		for j, v := range vals {
			if j > 0 {
				b.WriteByte('|')
			}
			b.WriteString(strconv.FormatInt(v, 10))
		}
	}
	return b.String()
}
