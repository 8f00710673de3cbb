package u2f

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRegistrationDataRejectsExactMinimumLength(t *testing.T) {
	// 132 bytes is the documented minimum; it must still be rejected, only
	// lengths strictly greater than 132 are legal.
	buf := make([]byte, 132)
	buf[0] = registrationReservedByte
	_, err := parseRegistrationData(buf)
	requireKind(t, err, KindFormat)
}

func TestParseRegistrationDataRejectsBadReservedByte(t *testing.T) {
	buf := make([]byte, 140)
	buf[0] = 0x04
	_, err := parseRegistrationData(buf)
	requireKind(t, err, KindFormat)
}

func TestParseRegistrationDataRejectsOversizedKeyHandleLength(t *testing.T) {
	// A valid public key is needed so parsing reaches the key-handle field.
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	pubRaw := elliptic.Marshal(elliptic.P256(), priv.PublicKey.X, priv.PublicKey.Y)

	buf := make([]byte, 140)
	buf[0] = registrationReservedByte
	copy(buf[1:1+publicKeyRawLen], pubRaw)
	buf[1+publicKeyRawLen] = 255 // declared key-handle length far exceeds what remains
	_, err = parseRegistrationData(buf)
	requireKind(t, err, KindFormat)
	require.Contains(t, err.Error(), "key handle length")
}

func TestParseRegistrationDataAcceptsZeroLengthKeyHandle(t *testing.T) {
	// A zero-length key handle is structurally legal; parsing should get
	// past the key-handle field and fail later, on the incomplete DER
	// header that follows, not on the key handle itself.
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	pubRaw := elliptic.Marshal(elliptic.P256(), priv.PublicKey.X, priv.PublicKey.Y)

	buf := []byte{registrationReservedByte}
	buf = append(buf, pubRaw...)
	buf = append(buf, 0x00)                   // zero-length key handle
	buf = append(buf, 0x30, 0x82, 0xff, 0xff) // DER header declaring a payload far larger than what follows
	buf = append(buf, make([]byte, 70)...)    // padding, just to clear the overall minimum-length check

	_, err = parseRegistrationData(buf)
	requireKind(t, err, KindFormat)
	require.Contains(t, err.Error(), "exceeds remaining buffer")
}

func TestParseSignatureDataRejectsShortBuffer(t *testing.T) {
	_, err := parseSignatureData(make([]byte, 5))
	requireKind(t, err, KindFormat)
}

func TestParseSignatureDataRejectsPresenceBitCleared(t *testing.T) {
	buf := make([]byte, 10)
	buf[0] = 0x00 // low bit unset
	_, err := parseSignatureData(buf)
	requireKind(t, err, KindFormat)
}

func TestParseSignatureDataAcceptsPresenceBitSet(t *testing.T) {
	buf := make([]byte, 10)
	buf[0] = 0x01
	buf[1], buf[2], buf[3], buf[4] = 0, 0, 0, 7
	frame, err := parseSignatureData(buf)
	require.NoError(t, err)
	require.EqualValues(t, 7, frame.counter)
	require.True(t, frame.userPresence&1 == 1)
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	var uerr *Error
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, kind, uerr.Kind())
}
