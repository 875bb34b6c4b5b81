package provision

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratePassword_LengthAndAlphabet(t *testing.T) {
	for i := 0; i < 100; i++ {
		p := GeneratePassword()
		require.Len(t, p, passwordLength)
		for _, c := range p {
			require.True(t, strings.ContainsRune(passwordAlphabet, c),
				"unexpected character %q in password %q", c, p)
		}
	}
}

func TestGeneratePassword_Varies(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[GeneratePassword()] = true
	}
	// 50 draws from a 62^8 space collapsing to one value would mean a
	// broken generator.
	require.Greater(t, len(seen), 1)
}
