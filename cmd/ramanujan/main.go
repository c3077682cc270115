// Command ramanujan searches for continued fraction representations of
// mathematical constants.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satyamroy001/MasseyRamanujan/pkg/constants"
	"github.com/satyamroy001/MasseyRamanujan/pkg/engine"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "ramanujan",
		Short: "Brute-force search for continued fraction identities",
		Long: "ramanujan enumerates generalized continued fractions built from polynomial\n" +
			"sequences and matches them against expressions of known constants\n" +
			"(" + strings.Join(constants.Names(), ", ") + ").",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newSearchCmd())
	root.AddCommand(newTableCmd())
	return root
}

// bindConfigFlags registers the flags shared by the search and table
// commands, mirroring the engine config fields.
func bindConfigFlags(cmd *cobra.Command, cfg *engine.Config) {
	f := cmd.Flags()
	f.StringVar(&cfg.Constant, "constant", cfg.Constant, "target constant ("+strings.Join(constants.Names(), ", ")+")")
	f.Int64Var(&cfg.LhsLimit, "lhs-limit", cfg.LhsLimit, "coefficient range for LHS expressions")
	f.StringVar(&cfg.TablePath, "table", cfg.TablePath, "directory for the persisted LHS table")
	f.IntVar(&cfg.KeyDigits, "key-digits", cfg.KeyDigits, "decimal digits in the hash key")
	f.IntVar(&cfg.InitialDigits, "initial-digits", cfg.InitialDigits, "first-pass working precision in decimal digits")
}

func newSearchCmd() *cobra.Command {
	cfg := engine.DefaultConfig()
	var configPath string
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run the two-pass search over a polynomial coefficient space",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				fileCfg, err := engine.LoadConfig(configPath)
				if err != nil {
					return err
				}
				// flags set explicitly on the command line win over the file
				merged := fileCfg
				applyExplicitFlags(cmd, &merged, cfg)
				cfg = merged
			}
			e, err := engine.New(cfg, slog.Default())
			if err != nil {
				return err
			}
			summary, err := e.Run()
			if err != nil {
				return err
			}
			switch cfg.Format {
			case "json":
				return engine.WriteJSON(os.Stdout, summary)
			case "latex":
				engine.WriteLatexDocument(os.Stdout, summary)
			default:
				engine.WriteText(os.Stdout, summary)
			}
			return nil
		},
	}
	bindConfigFlags(cmd, &cfg)
	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML config file (flags override it)")
	f.StringVar(&cfg.AnSpec, "an", cfg.AnSpec, "compact polynomial spec for {a_n}, e.g. \"1..3,0..3\"")
	f.StringVar(&cfg.BnSpec, "bn", cfg.BnSpec, "compact polynomial spec for {b_n}")
	f.IntVar(&cfg.InitialTerms, "initial-terms", cfg.InitialTerms, "continued fraction terms in the first pass")
	f.IntVar(&cfg.VerifyTerms, "verify-terms", cfg.VerifyTerms, "continued fraction terms in verification")
	f.IntVar(&cfg.CompareDigits, "compare-digits", cfg.CompareDigits, "digits compared during verification")
	f.IntVar(&cfg.VerifyDigits, "verify-digits", cfg.VerifyDigits, "verification working precision in decimal digits")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel workers for the first pass")
	f.StringVar(&cfg.Format, "format", cfg.Format, "output format (text, json, latex)")
	f.BoolVar(&cfg.LaTeX, "latex", cfg.LaTeX, "include LaTeX forms in results")
	f.BoolVar(&cfg.ConvergenceRate, "convergence-rate", cfg.ConvergenceRate, "estimate digits gained per term")
	return cmd
}

func newTableCmd() *cobra.Command {
	cfg := engine.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Build the LHS hash table and persist it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.TablePath == "" {
				return fmt.Errorf("table: --table directory is required")
			}
			e, err := engine.New(cfg, slog.Default())
			if err != nil {
				return err
			}
			slog.Info("table ready", "path", cfg.TablePath, "keys", e.Table().Len())
			return nil
		},
	}
	bindConfigFlags(cmd, &cfg)
	return cmd
}

// applyExplicitFlags copies every flag the user set on the command line
// from the flag-bound config into dst.
func applyExplicitFlags(cmd *cobra.Command, dst *engine.Config, flagCfg engine.Config) {
	set := map[string]func(){
		"constant":         func() { dst.Constant = flagCfg.Constant },
		"lhs-limit":        func() { dst.LhsLimit = flagCfg.LhsLimit },
		"table":            func() { dst.TablePath = flagCfg.TablePath },
		"an":               func() { dst.AnSpec = flagCfg.AnSpec },
		"bn":               func() { dst.BnSpec = flagCfg.BnSpec },
		"initial-terms":    func() { dst.InitialTerms = flagCfg.InitialTerms },
		"key-digits":       func() { dst.KeyDigits = flagCfg.KeyDigits },
		"initial-digits":   func() { dst.InitialDigits = flagCfg.InitialDigits },
		"verify-terms":     func() { dst.VerifyTerms = flagCfg.VerifyTerms },
		"compare-digits":   func() { dst.CompareDigits = flagCfg.CompareDigits },
		"verify-digits":    func() { dst.VerifyDigits = flagCfg.VerifyDigits },
		"workers":          func() { dst.Workers = flagCfg.Workers },
		"format":           func() { dst.Format = flagCfg.Format },
		"latex":            func() { dst.LaTeX = flagCfg.LaTeX },
		"convergence-rate": func() { dst.ConvergenceRate = flagCfg.ConvergenceRate },
	}
	for name, apply := range set {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
}
