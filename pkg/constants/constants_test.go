package constants

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 60 published digits per constant; computed values must agree on a long
// prefix after rounding at the requested precision.
var golden = map[string]string{
	"e":     "2.718281828459045235360287471352662497757247093699959574966967",
	"pi":    "3.141592653589793238462643383279502884197169399375105820974944",
	"phi":   "1.618033988749894848204586834365638117720309179805762862135448",
	"sqrt2": "1.414213562373095048801688724209698078569671875376948073176679",
	"ln2":   "0.693147180559945309417232121458176568075500134360255254120680",
}

func TestConstants_GoldenDigits(t *testing.T) {
	for name, want := range golden {
		c := Get(name)
		require.NotNil(t, c, "constant %s not registered", name)
		got := c.Value(256).Text('g', 50)
		assert.True(t, strings.HasPrefix(want, got[:45]),
			"%s: got %s, want prefix of %s", name, got, want)
	}
}

func TestConstants_HigherPrecisionExtendsDigits(t *testing.T) {
	c := Get("pi")
	require.NotNil(t, c)
	lo := c.Value(128).Text('g', 30)
	hi := c.Value(2048).Text('g', 30)
	assert.Equal(t, lo, hi, "pi digits must be stable across precisions")

	long := c.Value(2048).Text('g', 60)
	assert.Equal(t, golden["pi"][:55], long[:55])
}

func TestConstants_ValueIsCached(t *testing.T) {
	c := Get("e")
	require.NotNil(t, c)
	v1 := c.Value(256)
	v2 := c.Value(256)
	assert.Same(t, v1, v2, "same precision should return the cached value")
}

func TestGet_Unknown(t *testing.T) {
	assert.Nil(t, Get("feigenbaum"))
}

func TestNames_SortedAndComplete(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{"e", "ln2", "phi", "pi", "sqrt2"}, names)
}
