package u2f

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDerSequenceLengthRejectsShortBuffer(t *testing.T) {
	_, err := derSequenceLength([]byte{0x30, 0x82})
	requireKind(t, err, KindFormat)
}

func TestDerSequenceLengthRejectsWrongTag(t *testing.T) {
	_, err := derSequenceLength([]byte{0x31, 0x82, 0x00, 0x10, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	requireKind(t, err, KindFormat)
}

func TestDerSequenceLengthRejectsOverflow(t *testing.T) {
	// Declares a payload of 0xFFFF bytes but the buffer holds far fewer.
	buf := append([]byte{0x30, 0x82, 0xff, 0xff}, make([]byte, 16)...)
	_, err := derSequenceLength(buf)
	requireKind(t, err, KindFormat)
}

func TestDerSequenceLengthRecoversExactLength(t *testing.T) {
	// payload length 0x0005, so total = 9.
	buf := []byte{0x30, 0x82, 0x00, 0x05, 1, 2, 3, 4, 5, 0xAA, 0xBB}
	n, err := derSequenceLength(buf)
	require.NoError(t, err)
	require.Equal(t, 9, n)
}
