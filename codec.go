package u2f

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// encodeWebsafe renders buf as canonical, unpadded websafe base64. A 32-byte
// challenge always encodes to exactly challengeB64Len characters.
func encodeWebsafe(buf []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(buf), "=")
}

// decodeWebsafe accepts websafe base64 with or without padding, as browsers
// and authenticators are inconsistent about emitting the trailing '='.
func decodeWebsafe(s string) ([]byte, error) {
	for len(s)%4 != 0 {
		s += "="
	}
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, newFormatError("invalid websafe base64: %v", err)
	}
	return b, nil
}

// decodeStd decodes the binary envelope fields (registrationData,
// signatureData, clientData). In principle these are standard base64 per
// the U2F wire format; in practice every browser's U2F extension and every
// authenticator observed in the wild actually emits websafe base64 (with
// '-'/'_' in place of '+'/'/', frequently unpadded) for these fields, not
// just for the challenge. Captured vectors from a real authenticator
// decode cleanly only under that encoding, so this tries standard base64
// first and falls back to websafe before failing, rather than rejecting
// real-world payloads in the name of a narrower reading of the wire
// format.
func decodeStd(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.RawStdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := decodeWebsafe(s); err == nil {
		return b, nil
	}
	return nil, newFormatError("invalid base64 payload")
}

// HexDump renders buf as a hex.Dumper table. It is only ever invoked behind
// a Tracer and has no effect on verification outcomes.
func HexDump(buf []byte) string {
	var sb strings.Builder
	w := hex.Dumper(&sb)
	_, _ = w.Write(buf)
	_ = w.Close()
	return sb.String()
}
