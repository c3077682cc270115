package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Result is one confirmed identity, formatted for presentation.
type Result struct {
	Key           int64   `json:"lhs_key"`
	AnCoef        []int64 `json:"an_coef"`
	BnCoef        []int64 `json:"bn_coef"`
	LhsIdx        int     `json:"lhs_match_idx"`
	LHS           string  `json:"lhs"`
	RHS           string  `json:"rhs"`
	Equation      string  `json:"equation"`
	AnPoly        string  `json:"an_poly"`
	BnPoly        string  `json:"bn_poly"`
	LaTeX         string  `json:"latex,omitempty"`
	DigitsPerTerm float64 `json:"digits_per_term,omitempty"`
}

// Summary describes a whole search run.
type Summary struct {
	RunID        string   `json:"run_id"`
	Config       Config   `json:"config"`
	Intermediate int      `json:"intermediate_matches"`
	Confirmed    int      `json:"confirmed_matches"`
	Elapsed      string   `json:"elapsed"`
	Results      []Result `json:"results"`
}

// WriteText writes the run summary in human-readable format.
func WriteText(w io.Writer, s Summary) {
	fmt.Fprintln(w, "========== SEARCH SUMMARY ==========")
	fmt.Fprintf(w, "Constant:      %s\n", s.Config.Constant)
	fmt.Fprintf(w, "an spec:       %s\n", s.Config.AnSpec)
	fmt.Fprintf(w, "bn spec:       %s\n", s.Config.BnSpec)
	fmt.Fprintf(w, "Intermediate:  %d\n", s.Intermediate)
	fmt.Fprintf(w, "Confirmed:     %d\n", s.Confirmed)
	fmt.Fprintf(w, "Elapsed:       %s\n", s.Elapsed)
	fmt.Fprintln(w, "====================================")
	for i, r := range s.Results {
		fmt.Fprintf(w, "\n#%d  %s\n", i+1, r.Equation)
		if r.DigitsPerTerm > 0 {
			fmt.Fprintf(w, "    converges at %.3f digits per term\n", r.DigitsPerTerm)
		}
		if r.LaTeX != "" {
			fmt.Fprintf(w, "    $$ %s $$\n", r.LaTeX)
		}
	}
}

// WriteJSON writes the run summary as indented JSON.
func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteLatexDocument writes a compilable LaTeX document listing every
// confirmed identity.
func WriteLatexDocument(w io.Writer, s Summary) {
	fmt.Fprintln(w, `\documentclass{article}`)
	fmt.Fprintln(w, `\usepackage{amsmath}`)
	fmt.Fprintln(w, `\usepackage{geometry}`)
	fmt.Fprintln(w, `\geometry{margin=1in}`)
	fmt.Fprintf(w, "\\title{Continued Fraction Identities --- %s}\n", latexEscape(s.Config.Constant))
	fmt.Fprintln(w, `\date{\today}`)
	fmt.Fprintln(w, `\begin{document}`)
	fmt.Fprintln(w, `\maketitle`)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "\\noindent Constant: \\texttt{%s}, an spec: \\verb|%s|, bn spec: \\verb|%s|\\\\\n",
		latexEscape(s.Config.Constant), s.Config.AnSpec, s.Config.BnSpec)
	fmt.Fprintf(w, "Intermediate matches: %d, confirmed: %d\n\n", s.Intermediate, s.Confirmed)
	for i, r := range s.Results {
		fmt.Fprintf(w, "\\section*{Identity %d}\n", i+1)
		fmt.Fprintf(w, "$$ %s $$\n", r.LaTeX)
		if r.DigitsPerTerm > 0 {
			fmt.Fprintf(w, "Converges at %.3f digits per term.\n", r.DigitsPerTerm)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, `\end{document}`)
}

// latexEscape escapes underscores and other special chars for LaTeX text mode.
func latexEscape(s string) string {
	return strings.ReplaceAll(s, "_", `\_`)
}
