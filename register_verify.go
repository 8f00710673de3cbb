package u2f

// RegistrationResult is produced by a successful VerifyRegistration call.
// The caller is responsible for persisting KeyHandle and PublicKeyRaw
// against whatever user account the ceremony was for.
type RegistrationResult struct {
	// KeyHandle is the raw (not base64-encoded) key handle issued by the
	// authenticator.
	KeyHandle []byte
	// PublicKeyRaw is the 65-byte uncompressed SEC1 point of the
	// authenticator-generated credential public key.
	PublicKeyRaw []byte
	// AttestationCertPEM is the attestation certificate, PEM-encoded.
	// Attestation chain trust is not validated by this package.
	AttestationCertPEM []byte
}

// KeyHandleB64 returns KeyHandle as canonical websafe base64, matching the
// form a caller would echo back in a future AuthenticationChallenge.
func (r *RegistrationResult) KeyHandleB64() string {
	return encodeWebsafe(r.KeyHandle)
}

// VerifyRegistration validates a registration response JSON against the
// Context's AppID, Origin and Challenge, and returns the credential the
// authenticator enrolled.
//
// State machine: INIT -> JSON_PARSED -> BINARY_PARSED -> EQUALITY_CHECKED
// -> TRANSCRIPT_BUILT -> SIGNATURE_VERIFIED -> SUCCESS. Any step may fail;
// on failure no RegistrationResult is returned and c is left unmodified and
// reusable for another verification.
func (c *Context) VerifyRegistration(response []byte) (*RegistrationResult, error) {
	// INIT -> JSON_PARSED
	resp, err := parseRegistrationResponse(response)
	if err != nil {
		return nil, err
	}

	regData, err := decodeStd(resp.RegistrationData)
	if err != nil {
		return nil, err
	}
	clientDataRaw, err := decodeStd(resp.ClientData)
	if err != nil {
		return nil, err
	}
	c.tracer.DumpFrame("registrationData", regData)
	c.tracer.DumpFrame("clientData", clientDataRaw)

	cd, err := parseClientData(clientDataRaw)
	if err != nil {
		return nil, err
	}

	// JSON_PARSED -> BINARY_PARSED
	frame, err := parseRegistrationData(regData)
	if err != nil {
		return nil, err
	}

	// BINARY_PARSED -> EQUALITY_CHECKED
	if err := c.checkChallenge(cd.Challenge); err != nil {
		return nil, err
	}
	if err := c.checkOrigin(cd.Origin); err != nil {
		return nil, err
	}

	// EQUALITY_CHECKED -> TRANSCRIPT_BUILT
	digest := registrationTranscriptDigest(c.appID, clientDataRaw, frame.keyHandle, frame.userPublicKeyRaw)

	// The transcript is signed by the attestation key, not the credential
	// key it is attesting to -- the credential key only appears as signed
	// data inside the transcript.
	attestationKey, err := certificatePublicKey(frame.attestationCert)
	if err != nil {
		return nil, err
	}

	// TRANSCRIPT_BUILT -> SIGNATURE_VERIFIED
	if err := verifyECDSA(attestationKey, digest, frame.signature); err != nil {
		return nil, err
	}

	c.tracer.Debugf("registration verified for appID=%q", c.appID)

	return &RegistrationResult{
		KeyHandle:          frame.keyHandle,
		PublicKeyRaw:       frame.userPublicKeyRaw,
		AttestationCertPEM: certificateToPEM(frame.attestationDER),
	}, nil
}

// registrationTranscriptDigest builds the §4.6 registration transcript:
//
//	0x00 || SHA256(appID) || SHA256(clientData) || keyHandle || userPublicKey
//
// and returns its SHA-256 digest, the value fed to ECDSA verify.
func registrationTranscriptDigest(appID string, clientDataRaw, keyHandle, userPublicKeyRaw []byte) []byte {
	appParam := sha256Sum([]byte(appID))
	challengeParam := sha256Sum(clientDataRaw)

	return newTranscriptHash().
		write([]byte{0x00}).
		write(appParam).
		write(challengeParam).
		write(keyHandle).
		write(userPublicKeyRaw).
		sum()
}

// checkChallenge compares decoded against c.challenge byte-exactly, with no
// normalization.
func (c *Context) checkChallenge(decoded string) error {
	if decoded != c.challenge {
		return newChallengeError("clientData challenge does not match the ceremony challenge")
	}
	return nil
}

// checkOrigin compares decoded against c.origin byte-exactly, with no
// normalization.
func (c *Context) checkOrigin(decoded string) error {
	if decoded != c.origin {
		return newOriginError("clientData origin does not match the ceremony origin")
	}
	return nil
}
