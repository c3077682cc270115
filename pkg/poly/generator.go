package poly

import (
	"fmt"
	"math/big"
)

// Generator expands compact polynomial specs into coefficient tuples and
// turns coefficient tuples into integer sequences. Sequences are exact big
// integers: at verification term counts a modest-degree polynomial already
// exceeds int64. Implementations must guarantee that Generate with a larger
// term count yields a sequence whose prefix equals the shorter generation.
type Generator interface {
	Name() string
	Iterate(s Spec) *Iterator
	Count(s Spec) int
	Generate(coef []int64, terms int) []*big.Int
}

var registry = map[string]func() Generator{}

// Register adds a generator constructor to the registry.
func Register(name string, constructor func() Generator) {
	registry[name] = constructor
}

// Get returns a generator by name.
func Get(name string) (Generator, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown generator: %s", name)
	}
	return ctor(), nil
}

// Names returns all registered generator names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	return names
}

// Iterator walks the cartesian product of a spec's coefficient values.
// The slice returned by Next is reused between calls; callers that retain
// a tuple must copy it.
type Iterator struct {
	spec Spec
	idx  []int
	cur  []int64
	done bool
}

// Next returns the next coefficient tuple, or false when exhausted.
func (it *Iterator) Next() ([]int64, bool) {
	if it.done {
		return nil, false
	}
	for i := range it.spec {
		it.cur[i] = it.spec[i][it.idx[i]]
	}
	// advance the odometer, rightmost coefficient fastest
	for i := len(it.idx) - 1; i >= 0; i-- {
		it.idx[i]++
		if it.idx[i] < len(it.spec[i]) {
			return it.cur, true
		}
		it.idx[i] = 0
	}
	it.done = true
	return it.cur, true
}

func newIterator(s Spec) *Iterator {
	if s.Count() == 0 {
		return &Iterator{done: true}
	}
	return &Iterator{
		spec: s,
		idx:  make([]int, len(s)),
		cur:  make([]int64, len(s)),
	}
}

// cartesian is the shared expansion logic for both sequence sides; they
// differ only in the index the polynomial is first evaluated at.
type cartesian struct {
	name  string
	start int64
}

func (c *cartesian) Name() string { return c.name }

func (c *cartesian) Iterate(s Spec) *Iterator { return newIterator(s) }

func (c *cartesian) Count(s Spec) int { return s.Count() }

// Generate evaluates the polynomial by Horner's rule, highest-degree
// coefficient first, at indices start, start+1, ..., start+terms-1. The
// arithmetic is exact: a(999) for a degree-6 polynomial does not fit int64.
func (c *cartesian) Generate(coef []int64, terms int) []*big.Int {
	seq := make([]*big.Int, terms)
	n := new(big.Int)
	cf := new(big.Int)
	for i := 0; i < terms; i++ {
		n.SetInt64(c.start + int64(i))
		v := new(big.Int)
		for _, k := range coef {
			v.Mul(v, n)
			cf.SetInt64(k)
			v.Add(v, cf)
		}
		seq[i] = v
	}
	return seq
}

// Registered generator names for the two sequence sides. The {a_n} side is
// indexed from 0, the {b_n} side from 1 (b_1 is the first partial
// numerator of the continued fraction).
const (
	CartesianAn = "cartesian-an"
	CartesianBn = "cartesian-bn"
)

func init() {
	Register(CartesianAn, func() Generator { return &cartesian{name: CartesianAn, start: 0} })
	Register(CartesianBn, func() Generator { return &cartesian{name: CartesianBn, start: 1} })
}
