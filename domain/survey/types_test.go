package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeMapsAliases(t *testing.T) {
	cases := map[string]Condition{
		"Raw":          ConditionRaw,
		"NoMetrics":    ConditionRaw,
		"Control":      ConditionRaw,
		"UEQ-S":        ConditionUEQ,
		"Standard":     ConditionUEQ,
		"UEQ-A":        ConditionUEEQ,
		"UEQ+Autonomy": ConditionUEEQ,
		"Autonomy":     ConditionUEEQ,
	}
	for raw, want := range cases {
		got, ok := Canonicalize(raw)
		assert.True(t, ok, "alias %q should be known", raw)
		assert.Equal(t, string(want), got)
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	for _, c := range Conditions() {
		got, ok := Canonicalize(string(c))
		require.True(t, ok)
		assert.Equal(t, string(c), got)

		again, ok := Canonicalize(got)
		require.True(t, ok)
		assert.Equal(t, got, again)
	}
}

func TestCanonicalizeUnknownPassesThrough(t *testing.T) {
	got, ok := Canonicalize("B2")
	assert.False(t, ok)
	assert.Equal(t, "B2", got)
}

func TestFieldNaming(t *testing.T) {
	fp := Field(1, ConditionUEQ)
	assert.Equal(t, "1_UEQ Tendency", fp.Tendency)
	assert.Equal(t, "1_UEQ Release", fp.Release)

	fp = Field(15, ConditionUEEQ)
	assert.Equal(t, "15_UEEQ Tendency", fp.Tendency)
	assert.Equal(t, "15_UEEQ Release", fp.Release)
}

func TestSchemaCoversAllCells(t *testing.T) {
	pairs := Schema()
	require.Len(t, pairs, InterfaceCount*3)

	seen := make(map[string]bool)
	for _, fp := range pairs {
		assert.False(t, seen[fp.Tendency], "duplicate column %s", fp.Tendency)
		seen[fp.Tendency] = true
	}
	// Interface-major ordering: first three cells belong to interface 1.
	assert.Equal(t, "1_RAW Tendency", pairs[0].Tendency)
	assert.Equal(t, "1_UEQ Tendency", pairs[1].Tendency)
	assert.Equal(t, "1_UEEQ Tendency", pairs[2].Tendency)
	assert.Equal(t, "2_RAW Tendency", pairs[3].Tendency)
}

func TestParseRelease(t *testing.T) {
	assert.True(t, ParseRelease("Yes"))
	assert.True(t, ParseRelease("yes, release it"))
	assert.True(t, ParseRelease("YES"))
	assert.False(t, ParseRelease("No"))
	assert.False(t, ParseRelease(""))
	assert.False(t, ParseRelease("undecided"))
}

func TestRejectionComplementsRelease(t *testing.T) {
	released := Observation{ReleaseBinary: true}
	held := Observation{ReleaseBinary: false}

	assert.Equal(t, 0.0, released.Rejection())
	assert.Equal(t, 1.0, released.ReleaseValue())
	assert.Equal(t, 1.0, held.Rejection())
	assert.Equal(t, 0.0, held.ReleaseValue())
}

func TestPatternNames(t *testing.T) {
	for _, iface := range Interfaces() {
		assert.True(t, iface.Valid())
		assert.NotEmpty(t, iface.PatternName())
	}
	assert.Equal(t, "Confirmshaming", Interface(1).PatternName())
	assert.False(t, Interface(0).Valid())
	assert.False(t, Interface(16).Valid())
}
