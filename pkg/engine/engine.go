// Package engine wires the search pipeline together: LHS table
// construction or loading, the first enumeration pass, the refinement
// pass, and result formatting.
package engine

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/satyamroy001/MasseyRamanujan/pkg/constants"
	"github.com/satyamroy001/MasseyRamanujan/pkg/enum"
	"github.com/satyamroy001/MasseyRamanujan/pkg/gcf"
	"github.com/satyamroy001/MasseyRamanujan/pkg/lhs"
	"github.com/satyamroy001/MasseyRamanujan/pkg/poly"
	"github.com/satyamroy001/MasseyRamanujan/pkg/refine"
	"github.com/satyamroy001/MasseyRamanujan/pkg/report"
)

// Engine runs the full two-pass search for one configuration.
type Engine struct {
	cfg      Config
	constant *constants.Constant
	an       poly.Generator
	bn       poly.Generator
	anSpec   poly.Spec
	bnSpec   poly.Spec
	table    *lhs.Table
	log      *slog.Logger
}

// New creates an engine from the given config, building or loading the LHS
// hash table as needed. A nil logger falls back to slog.Default.
func New(cfg Config, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := constants.Get(cfg.Constant)
	if c == nil {
		return nil, fmt.Errorf("engine: unknown constant: %s (available: %v)", cfg.Constant, constants.Names())
	}
	an, err := poly.Get(cfg.AnGenerator)
	if err != nil {
		return nil, fmt.Errorf("engine: an generator: %w", err)
	}
	bn, err := poly.Get(cfg.BnGenerator)
	if err != nil {
		return nil, fmt.Errorf("engine: bn generator: %w", err)
	}
	anSpec, _ := poly.ParseSpec(cfg.AnSpec) // validated above
	bnSpec, _ := poly.ParseSpec(cfg.BnSpec)

	e := &Engine{
		cfg:      cfg,
		constant: c,
		an:       an,
		bn:       bn,
		anSpec:   anSpec,
		bnSpec:   bnSpec,
		log:      log,
	}
	if err := e.prepareTable(); err != nil {
		return nil, err
	}
	return e, nil
}

// prepareTable loads a persisted LHS table when one exists at the
// configured path, otherwise builds it (and persists it when a path is
// configured). Matches the load-or-initialize behavior the search has
// always had.
func (e *Engine) prepareTable() error {
	if e.cfg.TablePath != "" {
		if _, err := os.Stat(e.cfg.TablePath); err == nil {
			t, err := lhs.Load(e.cfg.TablePath, e.log)
			if err != nil {
				return err
			}
			if t.Constant != e.cfg.Constant || t.KeyDigits != e.cfg.KeyDigits {
				return fmt.Errorf("engine: table at %s was built for constant=%s key_digits=%d, config wants %s/%d",
					e.cfg.TablePath, t.Constant, t.KeyDigits, e.cfg.Constant, e.cfg.KeyDigits)
			}
			e.table = t
			return nil
		}
	}

	e.log.Info("no saved hash table, building", "constant", e.cfg.Constant, "limit", e.cfg.LhsLimit)
	start := time.Now()
	kappa := e.constant.Value(gcf.Bits(e.cfg.InitialDigits))
	e.table = lhs.Build(e.cfg.Constant, kappa, e.cfg.LhsLimit, e.cfg.KeyDigits, e.log)
	e.log.Info("hash table ready", "keys", e.table.Len(), "elapsed", time.Since(start).String())

	if e.cfg.TablePath != "" {
		if err := e.table.Save(e.cfg.TablePath, e.log); err != nil {
			return err
		}
	}
	return nil
}

// Table exposes the LHS table, mainly for the table-build command.
func (e *Engine) Table() *lhs.Table { return e.table }

// FindInitialHits runs the first enumeration pass.
func (e *Engine) FindInitialHits() ([]enum.Match, error) {
	eng := enum.New(e.table, e.an, e.bn, enum.Settings{
		Terms:     e.cfg.InitialTerms,
		KeyDigits: e.cfg.KeyDigits,
		Digits:    e.cfg.InitialDigits,
		Workers:   e.cfg.Workers,
	}, e.log)
	e.log.Info("starting preliminary search",
		"an_spec", e.cfg.AnSpec, "bn_spec", e.cfg.BnSpec, "terms", e.cfg.InitialTerms)
	start := time.Now()
	matches, err := eng.Run(e.anSpec, e.bnSpec)
	if err != nil {
		return nil, err
	}
	e.log.Info("preliminary search done", "matches", len(matches), "elapsed", time.Since(start).String())
	return matches, nil
}

// RefineResults verifies intermediate matches at high precision.
func (e *Engine) RefineResults(matches []enum.Match) []refine.RefinedMatch {
	eng := refine.New(e.table, e.an, e.bn, refine.Settings{
		Terms:         e.cfg.VerifyTerms,
		CompareDigits: e.cfg.CompareDigits,
		Digits:        e.cfg.VerifyDigits,
	}, e.log)
	e.log.Info("starting to verify results", "candidates", len(matches))
	start := time.Now()
	refined := eng.Run(matches, e.constant)
	e.log.Info("verification done", "matches", len(refined), "elapsed", time.Since(start).String())
	return refined
}

// Run executes the whole pipeline and returns a summary.
func (e *Engine) Run() (Summary, error) {
	start := time.Now()
	matches, err := e.FindInitialHits()
	if err != nil {
		return Summary{}, err
	}
	refined := e.RefineResults(matches)

	formatter := report.New(e.table, e.an, e.bn)
	results := make([]Result, 0, len(refined))
	for _, m := range refined {
		fr, err := formatter.Format(m, e.constant)
		if err != nil {
			e.log.Warn("failed to format result", "key", m.Key, "error", err)
			continue
		}
		r := Result{
			Key:      m.Key,
			AnCoef:   m.AnCoef,
			BnCoef:   m.BnCoef,
			LhsIdx:   m.LhsMatchIdx,
			LHS:      fr.LHS,
			RHS:      fr.RHS,
			Equation: fr.Equation,
			AnPoly:   fr.AnPoly.String(),
			BnPoly:   fr.BnPoly.String(),
		}
		// the latex document writer renders r.LaTeX per result, so the
		// latex format implies it
		if e.cfg.LaTeX || e.cfg.Format == "latex" {
			r.LaTeX = fr.LaTeX
		}
		if e.cfg.ConvergenceRate {
			target := e.constant.Value(gcf.Bits(e.cfg.VerifyDigits))
			if vals, err := e.table.Evaluate(m.Key, target); err == nil && m.LhsMatchIdx < len(vals) {
				if rate, err := formatter.ConvergenceRate(m, vals[m.LhsMatchIdx]); err == nil {
					r.DigitsPerTerm = rate
				}
			}
		}
		results = append(results, r)
	}

	return Summary{
		RunID:        uuid.NewString(),
		Config:       e.cfg,
		Intermediate: len(matches),
		Confirmed:    len(refined),
		Elapsed:      time.Since(start).String(),
		Results:      results,
	}, nil
}
