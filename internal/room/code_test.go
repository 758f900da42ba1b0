// internal/room/code_test.go
package room

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := NewCode()
		require.NoError(t, err)
		assert.Len(t, code, CodeLength)
		for _, ch := range code {
			assert.Contains(t, codeAlphabet, string(ch))
		}
	}
}

func TestCodeAlphabetExcludesAmbiguousCharacters(t *testing.T) {
	for _, ch := range "0O1I" {
		assert.NotContains(t, codeAlphabet, string(ch))
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "ABC234", NormalizeCode("  abc234 "))
	assert.Equal(t, "XYZ789", NormalizeCode("xYz789"))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestNewCodeVariety(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := NewCode()
		require.NoError(t, err)
		seen[code] = true
	}
	// 32^6 codes: fifty draws colliding down to a handful would mean the
	// generator is broken, not unlucky.
	assert.Greater(t, len(seen), 45)
}

func TestNormalizeCodeRoundTrip(t *testing.T) {
	code, err := NewCode()
	require.NoError(t, err)
	assert.Equal(t, code, NormalizeCode(strings.ToLower(code)))
}
