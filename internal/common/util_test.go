package common

import (
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	s, err := MakeRandHexString(3)
	require.NoError(t, err)
	require.Len(t, s, 6)

	_, err = hex.DecodeString(s)
	require.NoError(t, err)
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	require.NoError(t, err)
	require.Empty(t, s)
}

func TestGenerateRandByteArray_Length(t *testing.T) {
	require.Len(t, GenerateRandByteArray(24), 24)
	require.Empty(t, GenerateRandByteArray(0))
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte("secret")
	WipeByteArray(buf)
	require.Equal(t, make([]byte, 6), buf)

	WipeByteArray(nil)
}

func TestSentinels_MatchThroughWrapping(t *testing.T) {
	err := fmt.Errorf("refresh: %w", ErrSessionInvalid)
	require.True(t, errors.Is(err, ErrSessionInvalid))
	require.False(t, errors.Is(err, ErrUnsupportedEndpoint))
}
