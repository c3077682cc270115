// Package enum implements the first-pass enumeration: it walks the full
// cartesian product of {a_n} and {b_n} polynomial coefficient tuples,
// evaluates each continued fraction cheaply at low precision, and collects
// the candidates whose quantized value hits the LHS hash table.
//
// The pass is exploratory and lossy by design: quantization can produce
// false negatives, and hash collisions produce false positives that the
// refinement pass filters out.
package enum

import (
	"io"
	"log/slog"
	"math/big"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/satyamroy001/MasseyRamanujan/pkg/gcf"
	"github.com/satyamroy001/MasseyRamanujan/pkg/lhs"
	"github.com/satyamroy001/MasseyRamanujan/pkg/poly"
)

// Match is an intermediate result: a candidate whose low-precision value
// shares a hash key with some LHS expression, not yet confirmed. It carries
// the original coefficient tuples, not the generated sequences; refinement
// regenerates the sequences at a much higher term count.
type Match struct {
	Key    int64
	AnCoef []int64
	BnCoef []int64
}

// Membership is the part of the LHS table the hot loop touches.
type Membership interface {
	Contains(key int64) bool
}

// Settings holds the first-pass search parameters.
type Settings struct {
	Terms     int // continued fraction terms per candidate
	KeyDigits int // significant decimal digits in the hash key
	Digits    int // working precision in decimal digits
	Workers   int // parallel workers over the streamed dimension
}

// DefaultSettings returns the standard first-pass parameters.
func DefaultSettings() Settings {
	return Settings{
		Terms:     32,
		KeyDigits: 10,
		Digits:    50,
		Workers:   runtime.NumCPU(),
	}
}

// progressEvery is the probe count between progress log lines.
const progressEvery = 100_000

// Engine runs the first enumeration pass.
type Engine struct {
	table Membership
	an    poly.Generator
	bn    poly.Generator
	cfg   Settings
	log   *slog.Logger
}

// New creates an enumeration engine. A nil logger disables progress output.
func New(table Membership, an, bn poly.Generator, cfg Settings, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Engine{table: table, an: an, bn: bn, cfg: cfg, log: log}
}

// cached is one fully expanded element of the materialized side.
type cached struct {
	coef []int64
	seq  []*big.Int
}

// Run enumerates the full cartesian product of the two specs and returns
// all intermediate matches. Whichever side has the smaller expansion is
// materialized in memory; the larger side is streamed, partitioned across
// workers. Streamed tuples whose sequence fails the zero filter skip the
// entire inner loop.
func (e *Engine) Run(anSpec, bnSpec poly.Spec) ([]Match, error) {
	if err := anSpec.Validate(); err != nil {
		return nil, err
	}
	if err := bnSpec.Validate(); err != nil {
		return nil, err
	}

	sizeA := e.an.Count(anSpec)
	sizeB := e.bn.Count(bnSpec)

	// Cache {b_n} when the {a_n} expansion is strictly larger, otherwise
	// cache {a_n}.
	if sizeA > sizeB {
		cache := e.materialize(e.bn, bnSpec, false)
		e.log.Info("cached bn side", "candidates", len(cache), "filtered_out", sizeB-len(cache))
		return e.stream(e.an, anSpec, cache, true, int64(sizeA)*int64(len(cache)))
	}
	cache := e.materialize(e.an, anSpec, true)
	e.log.Info("cached an side", "candidates", len(cache), "filtered_out", sizeA-len(cache))
	return e.stream(e.bn, bnSpec, cache, false, int64(sizeB)*int64(len(cache)))
}

// materialize expands every coefficient tuple of a spec into its sequence,
// dropping tuples whose sequence contains a zero term. On the {a_n} side
// the zeroth term is exempt: a_0 = 0 is a legal leading term, every later
// zero degenerates the recurrence.
func (e *Engine) materialize(g poly.Generator, s poly.Spec, skipFirst bool) []cached {
	var out []cached
	it := g.Iterate(s)
	for {
		coef, ok := it.Next()
		if !ok {
			break
		}
		seq := g.Generate(coef, e.cfg.Terms)
		if hasZero(seq, skipFirst) {
			continue
		}
		c := make([]int64, len(coef))
		copy(c, coef)
		out = append(out, cached{coef: c, seq: seq})
	}
	return out
}

// stream iterates the larger side, pairing every surviving tuple with every
// cached element. streamedIsAn tells which side of the pair the streamed
// tuple is, both for the zero-filter policy and for match assembly.
func (e *Engine) stream(g poly.Generator, s poly.Spec, cache []cached, streamedIsAn bool, total int64) ([]Match, error) {
	eval := gcf.Bits(e.cfg.Digits)
	var probed atomic.Int64
	var found atomic.Int64

	jobs := make(chan []int64, 4*e.cfg.Workers)
	matches := make([][]Match, e.cfg.Workers)
	var grp errgroup.Group

	for w := 0; w < e.cfg.Workers; w++ {
		w := w
		grp.Go(func() error {
			ev := gcf.New(eval)
			quant := lhs.NewQuantizer(e.cfg.KeyDigits, eval)
			var local []Match
			for coef := range jobs {
				seq := g.Generate(coef, e.cfg.Terms)
				if hasZero(seq, streamedIsAn) {
					e.advance(&probed, &found, int64(len(cache)), total)
					continue
				}
				for i := range cache {
					v := evalPair(ev, seq, cache[i].seq, streamedIsAn)
					if key, ok := quant.Key(v); ok && e.table.Contains(key) {
						m := Match{Key: key}
						if streamedIsAn {
							m.AnCoef, m.BnCoef = coef, cache[i].coef
						} else {
							m.AnCoef, m.BnCoef = cache[i].coef, coef
						}
						local = append(local, m)
						found.Add(1)
					}
					e.advance(&probed, &found, 1, total)
				}
			}
			matches[w] = local
			return nil
		})
	}

	it := g.Iterate(s)
	for {
		coef, ok := it.Next()
		if !ok {
			break
		}
		c := make([]int64, len(coef))
		copy(c, coef)
		jobs <- c
	}
	close(jobs)
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	var out []Match
	for _, local := range matches {
		out = append(out, local...)
	}
	e.log.Info("first enumeration complete", "probed", probed.Load(), "matches", len(out))
	return out, nil
}

// evalPair evaluates one (a_n, b_n) pairing; which sequence came from the
// streamed side depends on the cache choice.
func evalPair(ev *gcf.Evaluator, streamed, cachedSeq []*big.Int, streamedIsAn bool) *big.Float {
	if streamedIsAn {
		return ev.Eval(streamed, cachedSeq)
	}
	return ev.Eval(cachedSeq, streamed)
}

// advance bumps the probe counter and logs every progressEvery probes.
// Filtered-out streamed tuples advance by the whole cached side at once;
// those pairs count as passed.
func (e *Engine) advance(probed, found *atomic.Int64, n, total int64) {
	before := probed.Load()
	after := probed.Add(n)
	if before/progressEvery != after/progressEvery {
		pct := 100 * float64(after) / float64(total)
		e.log.Info("enumeration progress", "passed", after, "total", total,
			"percent", float64(int(pct*100))/100, "matches", found.Load())
	}
}

// hasZero reports whether seq contains a zero term, optionally exempting
// the first term.
func hasZero(seq []*big.Int, skipFirst bool) bool {
	start := 0
	if skipFirst {
		start = 1
	}
	for _, v := range seq[start:] {
		if v.Sign() == 0 {
			return true
		}
	}
	return false
}
