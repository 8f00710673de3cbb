package u2f

import "crypto/ecdsa"

// verifyECDSA checks a DER-encoded ECDSA-P256-SHA256 signature over digest.
func verifyECDSA(pub *ecdsa.PublicKey, digest, derSignature []byte) error {
	if !ecdsa.VerifyASN1(pub, digest, derSignature) {
		return newSignatureError("ECDSA signature verification failed")
	}
	return nil
}
