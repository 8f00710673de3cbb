package u2f

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWebsafeRoundTrip(t *testing.T) {
	for i := 0; i < 50; i++ {
		buf := make([]byte, challengeRawLen)
		_, err := rand.Read(buf)
		require.NoError(t, err)

		enc := encodeWebsafe(buf)
		require.Len(t, enc, challengeB64Len)

		dec, err := decodeWebsafe(enc)
		require.NoError(t, err)
		require.Equal(t, buf, dec)
	}
}

func TestDecodeWebsafeAcceptsPadded(t *testing.T) {
	// "hi" -> "aGk" unpadded, "aGk=" padded.
	unpadded, err := decodeWebsafe("aGk")
	require.NoError(t, err)
	padded, err := decodeWebsafe("aGk=")
	require.NoError(t, err)
	require.Equal(t, unpadded, padded)
	require.Equal(t, []byte("hi"), unpadded)
}

func TestDecodeWebsafeRejectsGarbage(t *testing.T) {
	_, err := decodeWebsafe("not base64!!")
	require.Error(t, err)
	var uerr *Error
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, KindFormat, uerr.Kind())
}

func TestDecodeStdAcceptsPaddedAndUnpadded(t *testing.T) {
	padded := "aGVsbG8="
	dec, err := decodeStd(padded)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), dec)

	unpadded := "aGVsbG8"
	dec, err = decodeStd(unpadded)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), dec)
}

func TestHexDumpIsDiagnosticOnly(t *testing.T) {
	out := HexDump([]byte("hello"))
	require.Contains(t, out, "68 65 6c 6c 6f")
}
