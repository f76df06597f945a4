package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = hex.EncodeToString(bytes.Repeat([]byte{7}, 32))

func TestSealRoundTrip(t *testing.T) {
	s, err := New(testKey)
	require.NoError(t, err)
	require.True(t, s.Configured())

	sealed, err := s.Seal("HN-0012-3344")
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "HN-0012-3344")

	again, err := s.Seal("HN-0012-3344")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per seal")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "HN-0012-3344", plain)
}

func TestEmptyValueStaysNull(t *testing.T) {
	s, err := New(testKey)
	require.NoError(t, err)
	sealed, err := s.Seal("")
	require.NoError(t, err)
	assert.Nil(t, sealed)

	plain, err := s.Open(nil)
	require.NoError(t, err)
	assert.Empty(t, plain)
}

func TestPlainValuesReadableAfterKeyAdded(t *testing.T) {
	var unkeyed *Sealer
	sealed, err := unkeyed.Seal("001-22")
	require.NoError(t, err)

	keyed, err := New(testKey)
	require.NoError(t, err)
	plain, err := keyed.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "001-22", plain)
}

func TestOpenWithoutKey(t *testing.T) {
	keyed, err := New(testKey)
	require.NoError(t, err)
	sealed, err := keyed.Seal("001-22")
	require.NoError(t, err)

	unkeyed, err := New("")
	require.NoError(t, err)
	_, err = unkeyed.Open(sealed)
	assert.ErrorIs(t, err, ErrKeyMissing)
}

func TestOpenTampered(t *testing.T) {
	s, err := New(testKey)
	require.NoError(t, err)
	sealed, err := s.Seal("001-22")
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff

	_, err = s.Open(sealed)
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestNewRejectsShortKey(t *testing.T) {
	_, err := New("too-short")
	assert.ErrorIs(t, err, ErrBadKey)
}
