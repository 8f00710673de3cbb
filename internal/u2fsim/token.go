// Package u2fsim implements a software U2F authenticator for tests. It is
// adapted from a reference relying-party library's virtual-key test helper:
// rather than a real authenticator signing over USB/HID/BLE, it signs the
// exact same transcripts entirely in Go so tests can exercise the
// verification core against self-consistent, tamperable fixtures instead of
// only fixed byte vectors.
package u2fsim

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/big"
	"time"
)

// clientData mirrors the browser-synthesized structure the real
// navigator.id.* APIs emit.
type clientData struct {
	Typ       string `json:"typ"`
	Challenge string `json:"challenge"`
	Origin    string `json:"origin"`
}

// Credential is a single enrolled key pair, as a real authenticator would
// keep one per (AppID, key handle) pair.
type Credential struct {
	AppID     string
	KeyHandle []byte
	Private   *ecdsa.PrivateKey
	Counter   uint32
}

// Token is a software U2F authenticator: it owns one attestation key pair
// (shared across all registrations, as real tokens do) and a set of
// enrolled Credentials.
type Token struct {
	attestationKey  *ecdsa.PrivateKey
	attestationCert []byte // DER

	credentials []*Credential
}

// New generates a fresh token with its own self-signed attestation
// certificate.
func New() (*Token, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating attestation key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("generating serial number: %w", err)
	}

	template := &x509.Certificate{
		SerialNumber:       serial,
		Subject:            pkix.Name{CommonName: "U2F simulator attestation"},
		NotBefore:          time.Now().Add(-time.Hour),
		NotAfter:           time.Now().Add(10 * 365 * 24 * time.Hour),
		KeyUsage:           x509.KeyUsageDigitalSignature,
		SignatureAlgorithm: x509.ECDSAWithSHA256,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("creating attestation certificate: %w", err)
	}

	return &Token{attestationKey: key, attestationCert: der}, nil
}

func sum256(b []byte) []byte {
	s := sha256.Sum256(b)
	return s[:]
}

// Register enrolls a new credential for appID and returns the base64
// registrationData and clientData fields of a registration response, as if
// the token had just answered a browser's register() call for the given
// websafe-base64 challenge and origin.
func (t *Token) Register(appID, challenge, origin string) (registrationDataB64, clientDataB64 string, err error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("generating credential key: %w", err)
	}

	keyHandle := make([]byte, 16)
	if _, err := rand.Read(keyHandle); err != nil {
		return "", "", fmt.Errorf("generating key handle: %w", err)
	}

	cd := clientData{
		Typ:       "navigator.id.finishEnrollment",
		Challenge: challenge,
		Origin:    origin,
	}
	cdJSON, err := json.Marshal(cd)
	if err != nil {
		return "", "", err
	}

	pubKeyRaw := elliptic.Marshal(elliptic.P256(), priv.PublicKey.X, priv.PublicKey.Y)

	sig, err := t.signRegistration(appID, cdJSON, keyHandle, pubKeyRaw)
	if err != nil {
		return "", "", err
	}

	var buf []byte
	buf = append(buf, 0x05)
	buf = append(buf, pubKeyRaw...)
	buf = append(buf, byte(len(keyHandle)))
	buf = append(buf, keyHandle...)
	buf = append(buf, t.attestationCert...)
	buf = append(buf, sig...)

	t.credentials = append(t.credentials, &Credential{
		AppID:     appID,
		KeyHandle: keyHandle,
		Private:   priv,
		Counter:   0,
	})

	return base64.StdEncoding.EncodeToString(buf), base64.StdEncoding.EncodeToString(cdJSON), nil
}

func (t *Token) signRegistration(appID string, clientDataJSON, keyHandle, pubKeyRaw []byte) ([]byte, error) {
	appParam := sum256([]byte(appID))
	challengeParam := sum256(clientDataJSON)

	var transcript []byte
	transcript = append(transcript, 0x00)
	transcript = append(transcript, appParam...)
	transcript = append(transcript, challengeParam...)
	transcript = append(transcript, keyHandle...)
	transcript = append(transcript, pubKeyRaw...)
	digest := sum256(transcript)

	return ecdsa.SignASN1(rand.Reader, t.attestationKey, digest)
}

func (t *Token) credentialFor(appID string, keyHandle []byte) (*Credential, error) {
	for _, c := range t.credentials {
		if c.AppID == appID && string(c.KeyHandle) == string(keyHandle) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("u2fsim: no credential for appID %q key handle %x", appID, keyHandle)
}

// Authenticate signs an authentication response for a previously
// Register-ed credential, incrementing its usage counter. present controls
// whether the emitted presence byte has its low bit set; set it to false to
// produce a fixture for the presence-bit-cleared rejection test.
func (t *Token) Authenticate(appID, challenge, origin string, keyHandle []byte, present bool) (signatureDataB64, clientDataB64 string, err error) {
	cred, err := t.credentialFor(appID, keyHandle)
	if err != nil {
		return "", "", err
	}
	cred.Counter++

	cd := clientData{
		Typ:       "navigator.id.getAssertion",
		Challenge: challenge,
		Origin:    origin,
	}
	cdJSON, err := json.Marshal(cd)
	if err != nil {
		return "", "", err
	}

	presenceByte := byte(0x00)
	if present {
		presenceByte = 0x01
	}
	counterRaw := make([]byte, 4)
	binary.BigEndian.PutUint32(counterRaw, cred.Counter)

	sig, err := t.signAuthentication(appID, cdJSON, presenceByte, counterRaw, cred.Private)
	if err != nil {
		return "", "", err
	}

	var buf []byte
	buf = append(buf, presenceByte)
	buf = append(buf, counterRaw...)
	buf = append(buf, sig...)

	return base64.StdEncoding.EncodeToString(buf), base64.StdEncoding.EncodeToString(cdJSON), nil
}

func (t *Token) signAuthentication(appID string, clientDataJSON []byte, presenceByte byte, counterRaw []byte, priv *ecdsa.PrivateKey) ([]byte, error) {
	appParam := sum256([]byte(appID))
	challengeParam := sum256(clientDataJSON)

	var transcript []byte
	transcript = append(transcript, appParam...)
	transcript = append(transcript, presenceByte)
	transcript = append(transcript, counterRaw...)
	transcript = append(transcript, challengeParam...)
	digest := sum256(transcript)

	return ecdsa.SignASN1(rand.Reader, priv, digest)
}

// AttestationCertDER returns the token's attestation certificate in DER
// form, for tests that want to assert on it directly.
func (t *Token) AttestationCertDER() []byte {
	return t.attestationCert
}

// KeyHandleAt returns the n-th registered credential's key handle, for tests
// that need to drive AuthenticationChallenge/VerifyAuthentication without
// re-deriving it from a Register response.
func (t *Token) KeyHandleAt(n int) []byte {
	return t.credentials[n].KeyHandle
}

// PublicKeyRawAt returns the n-th credential's uncompressed SEC1 public
// key point.
func (t *Token) PublicKeyRawAt(n int) []byte {
	pub := t.credentials[n].Private.PublicKey
	return elliptic.Marshal(elliptic.P256(), pub.X, pub.Y)
}
