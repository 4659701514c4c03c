package bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReference(t *testing.T) {
	reference, err := GenerateReference()
	require.NoError(t, err)

	assert.Len(t, reference, 13)
	assert.True(t, IsValidReferenceFormat(reference), "generated reference %q must match the wire format", reference)
	assert.Equal(t, "BX", reference[:2])
}

func TestGenerateReferenceVaries(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		reference, err := GenerateReference()
		require.NoError(t, err)
		seen[reference] = struct{}{}
	}
	// 50 draws over a 100k space colliding down to a single value would mean
	// the random part is broken.
	assert.Greater(t, len(seen), 1)
}

func TestIsValidReferenceFormat(t *testing.T) {
	valid := []string{"BX25091012345", "AB00000000000", "ZZ99999999999"}
	for _, ref := range valid {
		assert.True(t, IsValidReferenceFormat(ref), ref)
	}

	invalid := []string{
		"",
		"BX2509101234",    // too short
		"BX250910123456",  // too long
		"bx25091012345",   // lowercase letters
		"B925091012345",   // digit where a letter belongs
		"BXA5091012345",   // letter where a digit belongs
		"BX25091012345 ",  // trailing space
		" BX25091012345",  // leading space
	}
	for _, ref := range invalid {
		assert.False(t, IsValidReferenceFormat(ref), ref)
	}
}

func TestNormalizeReference(t *testing.T) {
	assert.Equal(t, "BX25091012345", NormalizeReference("  bx25091012345 "))
	assert.Equal(t, "BX25091012345", NormalizeReference("BX25091012345"))
}
