package book

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeKeyRoundTrip(t *testing.T) {
	keys := []uint64{0, 1, 42, 1 << 20, (1 << 49) - 1}
	for _, key := range keys {
		encoded := EncodeKey(key)
		assert.Len(t, encoded, keyWidth)
		decoded, err := DecodeKey(encoded)
		require.NoError(t, err)
		assert.Equal(t, key, decoded)
	}
}

func TestDecodeKeyRejectsInvalidDigit(t *testing.T) {
	_, err := DecodeKey("!!!!!!!!!!!")
	assert.Error(t, err)
}

func TestLoadSkipsCommentsAndBlankLines(t *testing.T) {
	data := "# ply=4\n\n" + EncodeKey(7) + " 3\n  \n# trailing comment\n"
	b, err := Load(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, b.Len())
	score, hit := b.Lookup(7)
	require.True(t, hit)
	assert.Equal(t, 3, score)
}

func TestLoadToleratesCRLF(t *testing.T) {
	data := EncodeKey(9) + " -2\r\n"
	b, err := Load(strings.NewReader(data))
	require.NoError(t, err)
	score, hit := b.Lookup(9)
	require.True(t, hit)
	assert.Equal(t, -2, score)
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	_, err := Load(strings.NewReader("not-a-valid-line\n"))
	require.Error(t, err)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 1, fe.Line)
}

func TestLookupMissesWithNoFallback(t *testing.T) {
	b := New()
	b.Put(5, 1)
	_, hit := b.Lookup(6)
	assert.False(t, hit, "book lookup must not fall back to a neighboring ply's entry")
}
