package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize_Numbers(t *testing.T) {
	got := Canonicalize(150)
	require.NotNil(t, got)
	assert.Equal(t, "150.00", *got)

	got = Canonicalize(float64(29.9))
	require.NotNil(t, got)
	assert.Equal(t, "29.90", *got)
}

func TestCanonicalize_Strings(t *testing.T) {
	got := Canonicalize("29.9")
	require.NotNil(t, got)
	assert.Equal(t, "29.90", *got)

	got = Canonicalize("¥45")
	require.NotNil(t, got)
	assert.Equal(t, "45.00", *got)
}

func TestCanonicalize_NoMagnitudeGuessing(t *testing.T) {
	// A value over 100 is stored as given, never divided into "yuan".
	got := Canonicalize(2990)
	require.NotNil(t, got)
	assert.Equal(t, "2990.00", *got)
}

func TestCanonicalize_Empty(t *testing.T) {
	assert.Nil(t, Canonicalize(nil))
	assert.Nil(t, Canonicalize(""))
	assert.Nil(t, Canonicalize("   "))
}

func TestCanonicalize_UnparseableKeptVerbatim(t *testing.T) {
	got := Canonicalize("out of print")
	require.NotNil(t, got)
	assert.Equal(t, "out of print", *got)
}

func TestParse(t *testing.T) {
	price := "¥29.90"
	assert.InDelta(t, 29.9, Parse(&price), 0.0001)

	assert.Zero(t, Parse(nil))

	empty := ""
	assert.Zero(t, Parse(&empty))

	junk := "unknown"
	assert.Zero(t, Parse(&junk))
}
