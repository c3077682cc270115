package expr

import "fmt"

// ContFrac displays the leading terms of a generalized continued fraction
// a_0 + b_1/(a_1 + b_2/(a_2 + ...)). Bn[0] holds b_1, pairing with An[1],
// as in the evaluator. Only the first few levels are rendered; the tail is
// shown as an ellipsis.
type ContFrac struct {
	An []int64
	Bn []int64
}

// String renders the fraction nested to the given depth, e.g.
// "1 + 1/(1 + 1/(1 + ...))".
func (c ContFrac) String(depth int) string {
	if len(c.An) < 2 || len(c.Bn) == 0 {
		return fmt.Sprintf("%d", c.An[0])
	}
	depth = c.clamp(depth)
	tail := "..."
	for i := depth - 1; i >= 0; i-- {
		tail = fmt.Sprintf("%d + %d/(%s)", c.An[i], c.Bn[i], tail)
	}
	return tail
}

// LaTeX renders the fraction with nested \cfrac, ending in \ddots.
func (c ContFrac) LaTeX(depth int) string {
	if len(c.An) < 2 || len(c.Bn) == 0 {
		return fmt.Sprintf("%d", c.An[0])
	}
	depth = c.clamp(depth)
	tail := "\\ddots"
	for i := depth - 1; i >= 0; i-- {
		tail = fmt.Sprintf("%d + \\cfrac{%d}{%s}", c.An[i], c.Bn[i], tail)
	}
	return tail
}

func (c ContFrac) clamp(depth int) int {
	if depth > len(c.Bn) {
		depth = len(c.Bn)
	}
	if depth >= len(c.An) {
		depth = len(c.An) - 1
	}
	if depth < 1 {
		depth = 1
	}
	return depth
}
