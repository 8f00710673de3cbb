package u2f

import (
	"crypto/ecdsa"
	"crypto/x509"
)

// registrationReservedByte is the mandatory first byte of registrationData.
const registrationReservedByte = 0x05

// counterLen is the wire width of the authentication counter.
const counterLen = 4

// registrationFrame is the parsed form of a registrationData blob.
type registrationFrame struct {
	userPublicKey    *ecdsa.PublicKey // the enrolled credential's own key, not the signer
	userPublicKeyRaw []byte
	keyHandle        []byte
	attestationCert  *x509.Certificate
	attestationDER   []byte
	signature        []byte // DER ECDSA signature, produced by the attestation key
}

// parseRegistrationData parses a decoded registrationData blob per §4.3.1.
// It never reads past len(buf); the minimum legal length is 132 bytes
// (strictly greater is required, 132 itself is rejected).
func parseRegistrationData(buf []byte) (*registrationFrame, error) {
	const minLen = 1 + publicKeyRawLen + 1 + 64 + 1
	if len(buf) <= minLen {
		return nil, newFormatError("registrationData too short: got %d bytes, need more than %d", len(buf), minLen)
	}

	if buf[0] != registrationReservedByte {
		return nil, newFormatError("registrationData: reserved byte must be 0x%02x, got 0x%02x", registrationReservedByte, buf[0])
	}
	buf = buf[1:]

	pubKeyRaw := buf[:publicKeyRawLen]
	pub, err := decodeP256PublicKey(pubKeyRaw)
	if err != nil {
		return nil, err
	}
	buf = buf[publicKeyRawLen:]

	khLen := int(buf[0])
	buf = buf[1:]
	if len(buf) < khLen {
		return nil, newFormatError("registrationData: key handle length %d exceeds remaining buffer (%d bytes)", khLen, len(buf))
	}
	keyHandle := buf[:khLen]
	buf = buf[khLen:]

	cert, sig, err := splitCertificateAndSignature(buf)
	if err != nil {
		return nil, err
	}

	return &registrationFrame{
		userPublicKey:    pub,
		userPublicKeyRaw: pubKeyRaw,
		keyHandle:        keyHandle,
		attestationCert:  cert,
		attestationDER:   cert.Raw,
		signature:        sig,
	}, nil
}

// signatureFrame is the parsed form of a signatureData blob.
type signatureFrame struct {
	userPresence byte // raw device byte, low bit is the presence flag
	counter      uint32
	counterRaw   []byte // 4 bytes, big-endian, exactly as on the wire
	signature    []byte // DER ECDSA signature
}

// parseSignatureData parses a decoded signatureData blob per §4.3.2. If the
// low bit of the presence byte is unset, it returns KindFormat without
// reading the signature -- ECDSA verify must never run on such a frame.
func parseSignatureData(buf []byte) (*signatureFrame, error) {
	const minLen = 1 + counterLen + 1
	if len(buf) < minLen {
		return nil, newFormatError("signatureData too short: got %d bytes, need at least %d", len(buf), minLen)
	}

	presence := buf[0]
	if presence&1 == 0 {
		return nil, newFormatError("signatureData: user presence bit is not set")
	}

	counterRaw := buf[1:5]
	counter := uint32(counterRaw[0])<<24 | uint32(counterRaw[1])<<16 | uint32(counterRaw[2])<<8 | uint32(counterRaw[3])

	return &signatureFrame{
		userPresence: presence,
		counter:      counter,
		counterRaw:   counterRaw,
		signature:    buf[5:],
	}, nil
}
