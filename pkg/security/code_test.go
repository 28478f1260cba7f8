package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	seen := map[string]bool{}

	for range 100 {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		for _, r := range code {
			require.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected character %q in code %q", r, code)
		}

		seen[code] = true
	}

	// 100 draws from 62^6 possibilities colliding down to a handful would
	// mean the random source is broken
	require.Greater(t, len(seen), 90)
}
