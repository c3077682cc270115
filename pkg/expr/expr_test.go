package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolyString(t *testing.T) {
	cases := []struct {
		poly Poly
		want string
	}{
		{Poly{0}, "0"},
		{Poly{5}, "5"},
		{Poly{-5}, "-5"},
		{Poly{1, 0}, "n"},
		{Poly{-1, 0}, "-n"},
		{Poly{1, 3}, "n + 3"},
		{Poly{2, 3, -1}, "2n^2 + 3n - 1"},
		{Poly{1, 0, 0}, "n^2"},
		{Poly{-3, 0, 2, 0}, "-3n^3 + 2n"},
		{Poly{0, 0}, "0"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.poly.String(), "%v", []int64(tc.poly))
	}
}

func TestPolyLaTeX(t *testing.T) {
	assert.Equal(t, "2n^{2} + 3n - 1", Poly{2, 3, -1}.LaTeX())
	assert.Equal(t, "n^{3}", Poly{1, 0, 0, 0}.LaTeX())
	assert.Equal(t, "n + 1", Poly{1, 1}.LaTeX())
}

func TestPolyEval(t *testing.T) {
	p := Poly{2, 3, -1} // 2n^2 + 3n - 1
	assert.Equal(t, int64(-1), p.Eval(0))
	assert.Equal(t, int64(4), p.Eval(1))
	assert.Equal(t, int64(13), p.Eval(2))
}

func TestPolyDegree(t *testing.T) {
	assert.Equal(t, 2, Poly{2, 3, -1}.Degree())
	assert.Equal(t, 1, Poly{0, 1, 0}.Degree())
	assert.Equal(t, 0, Poly{0}.Degree())
}

func TestContFracString(t *testing.T) {
	phi := ContFrac{An: []int64{1, 1, 1, 1}, Bn: []int64{1, 1, 1}}
	assert.Equal(t, "1 + 1/(1 + 1/(...))", phi.String(2))

	e := ContFrac{An: []int64{3, 4, 5}, Bn: []int64{-1, -2}}
	assert.Equal(t, "3 + -1/(4 + -2/(...))", e.String(2))

	// depth clamps to the available terms
	assert.Equal(t, "1 + 1/(1 + 1/(1 + 1/(...)))", phi.String(50))
	assert.Equal(t, "1 + 1/(...)", phi.String(0))
}

func TestContFracLaTeX(t *testing.T) {
	phi := ContFrac{An: []int64{1, 1, 1}, Bn: []int64{1, 1}}
	assert.Equal(t, "1 + \\cfrac{1}{1 + \\cfrac{1}{\\ddots}}", phi.LaTeX(2))
}

func TestContFracDegenerate(t *testing.T) {
	single := ContFrac{An: []int64{7}}
	assert.Equal(t, "7", single.String(3))
	assert.Equal(t, "7", single.LaTeX(3))
}
