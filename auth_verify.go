package u2f

// AuthenticationResult is produced by a successful VerifyAuthentication
// call. The caller owns counter monotonicity policy: compare Counter
// against the value stored for this credential and reject non-increasing
// counters as a possible cloned authenticator, then persist the new value.
type AuthenticationResult struct {
	// Counter is the authenticator's usage counter, in host byte order.
	Counter uint32
	// UserPresence is the low bit of the device's raw presence byte. This
	// package already rejects responses where the bit is unset, so on a
	// successful result UserPresence is always true; it is still surfaced
	// for callers that want to log it.
	UserPresence bool
}

// VerifyAuthentication validates an authentication response JSON against
// the Context's AppID, Origin, Challenge, KeyHandle and stored
// UserPublicKey, and returns the authenticator's counter.
//
// Same state machine as VerifyRegistration. If the presence bit is unset,
// verification fails with KindFormat and ECDSA verify is never invoked.
func (c *Context) VerifyAuthentication(response []byte) (*AuthenticationResult, error) {
	resp, err := parseAuthenticationResponse(response)
	if err != nil {
		return nil, err
	}

	if c.userPublicKey == nil {
		return nil, newMemoryError("authentication verify requires a stored user public key")
	}

	keyHandle, err := decodeStd(resp.KeyHandle)
	if err != nil {
		return nil, err
	}
	if !bytesEqual(keyHandle, c.keyHandle) {
		return nil, newFormatError("authentication response key handle does not match the ceremony key handle")
	}

	sigData, err := decodeStd(resp.SignatureData)
	if err != nil {
		return nil, err
	}
	clientDataRaw, err := decodeStd(resp.ClientData)
	if err != nil {
		return nil, err
	}
	c.tracer.DumpFrame("signatureData", sigData)
	c.tracer.DumpFrame("clientData", clientDataRaw)

	cd, err := parseClientData(clientDataRaw)
	if err != nil {
		return nil, err
	}

	// Presence-bit rejection happens inside parseSignatureData, strictly
	// before any signature is built or verified.
	frame, err := parseSignatureData(sigData)
	if err != nil {
		return nil, err
	}

	if err := c.checkChallenge(cd.Challenge); err != nil {
		return nil, err
	}
	if err := c.checkOrigin(cd.Origin); err != nil {
		return nil, err
	}

	digest := authenticationTranscriptDigest(c.appID, frame.userPresence, frame.counterRaw, clientDataRaw)

	if err := verifyECDSA(c.userPublicKey, digest, frame.signature); err != nil {
		return nil, err
	}

	c.tracer.Debugf("authentication verified for appID=%q counter=%d", c.appID, frame.counter)

	return &AuthenticationResult{
		Counter:      frame.counter,
		UserPresence: frame.userPresence&1 == 1,
	}, nil
}

// authenticationTranscriptDigest builds the §4.6 authentication transcript:
//
//	SHA256(appID) || userPresence || counter || SHA256(clientData)
//
// and returns its SHA-256 digest, the value fed to ECDSA verify.
func authenticationTranscriptDigest(appID string, userPresence byte, counterRaw, clientDataRaw []byte) []byte {
	appParam := sha256Sum([]byte(appID))
	challengeParam := sha256Sum(clientDataRaw)

	return newTranscriptHash().
		write(appParam).
		write([]byte{userPresence}).
		write(counterRaw).
		write(challengeParam).
		sum()
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
