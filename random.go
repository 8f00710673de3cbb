package u2f

import "crypto/rand"

// challengeRawLen is the number of random bytes underlying a challenge,
// before websafe-base64 encoding.
const challengeRawLen = 32

// challengeB64Len is the length of a challenge after canonical unpadded
// websafe-base64 encoding.
const challengeB64Len = 43

// RandomSource supplies cryptographically secure random bytes for challenge
// generation. The default implementation delegates to crypto/rand.Reader;
// tests may inject a deterministic source.
type RandomSource interface {
	Read(dest []byte) (int, error)
}

type cryptoRandSource struct{}

func (cryptoRandSource) Read(dest []byte) (int, error) {
	return rand.Read(dest)
}

func genChallenge(src RandomSource) (string, error) {
	buf := make([]byte, challengeRawLen)
	n, err := src.Read(buf)
	if err != nil {
		return "", newMemoryError("generating challenge: %v", err)
	}
	if n != challengeRawLen {
		return "", newMemoryError("generating challenge: short read (%d of %d bytes)", n, challengeRawLen)
	}
	return encodeWebsafe(buf), nil
}
