package engine

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/satyamroy001/MasseyRamanujan/pkg/poly"
)

// Config holds all parameters for a search run. The precision and term
// count knobs trade search breadth and speed against the false-negative
// rate of the first pass and the confidence of the verification pass.
type Config struct {
	Constant    string `yaml:"constant"`     // target constant name
	LhsLimit    int64  `yaml:"lhs_limit"`    // coefficient range for LHS expressions
	TablePath   string `yaml:"table_path"`   // badger directory; empty = in-memory only
	AnSpec      string `yaml:"an_spec"`      // compact polynomial spec for {a_n}
	BnSpec      string `yaml:"bn_spec"`      // compact polynomial spec for {b_n}
	AnGenerator string `yaml:"an_generator"` // series generator for {a_n}
	BnGenerator string `yaml:"bn_generator"` // series generator for {b_n}

	InitialTerms  int `yaml:"initial_terms"`  // CF terms in the first pass
	KeyDigits     int `yaml:"key_digits"`     // decimal digits in the hash key
	InitialDigits int `yaml:"initial_digits"` // first-pass precision, decimal digits
	VerifyTerms   int `yaml:"verify_terms"`   // CF terms in the verification pass
	CompareDigits int `yaml:"compare_digits"` // digits compared during verification
	VerifyDigits  int `yaml:"verify_digits"`  // verification precision, decimal digits

	Workers         int    `yaml:"workers"`
	Format          string `yaml:"format"` // "text" or "json"
	LaTeX           bool   `yaml:"latex"`
	ConvergenceRate bool   `yaml:"convergence_rate"`
}

// DefaultConfig returns a config with the standard search parameters.
func DefaultConfig() Config {
	return Config{
		Constant:        "e",
		LhsLimit:        5,
		AnSpec:          "1..3,0..3",
		BnSpec:          "1..2,0..2",
		AnGenerator:     poly.CartesianAn,
		BnGenerator:     poly.CartesianBn,
		InitialTerms:    32,
		KeyDigits:       10,
		InitialDigits:   50,
		VerifyTerms:     1000,
		CompareDigits:   100,
		VerifyDigits:    2000,
		Workers:         runtime.NumCPU(),
		Format:          "text",
		ConvergenceRate: true,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("engine: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("engine: parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the parts of the config that would otherwise fail deep
// inside a long run.
func (c Config) Validate() error {
	if c.InitialTerms < 1 || c.VerifyTerms < 1 {
		return fmt.Errorf("engine: term counts must be positive")
	}
	if c.KeyDigits < 1 {
		return fmt.Errorf("engine: key digits must be positive")
	}
	if c.CompareDigits > c.VerifyDigits {
		return fmt.Errorf("engine: compare length %d exceeds verification precision %d",
			c.CompareDigits, c.VerifyDigits)
	}
	if c.LhsLimit < 1 {
		return fmt.Errorf("engine: lhs limit must be positive")
	}
	anSpec, err := poly.ParseSpec(c.AnSpec)
	if err != nil {
		return fmt.Errorf("engine: an spec: %w", err)
	}
	if err := anSpec.Validate(); err != nil {
		return fmt.Errorf("engine: an spec: %w", err)
	}
	bnSpec, err := poly.ParseSpec(c.BnSpec)
	if err != nil {
		return fmt.Errorf("engine: bn spec: %w", err)
	}
	if err := bnSpec.Validate(); err != nil {
		return fmt.Errorf("engine: bn spec: %w", err)
	}
	return nil
}
