package u2f

import "crypto/ecdsa"

// Context holds the mutable state of a single U2F ceremony: the relying
// party's AppID and Origin, the challenge issued to the authenticator, and
// -- for authentication only -- the key handle and stored public key of the
// credential being exercised.
//
// A Context is not safe for concurrent use. Independent Contexts share no
// state and may be used freely on separate goroutines.
type Context struct {
	appID     string
	origin    string
	challenge string // websafe base64, exactly challengeB64Len characters once set

	keyHandle     []byte
	userPublicKey *ecdsa.PublicKey

	tracer Tracer
	random RandomSource
}

// New returns a fresh, empty ceremony Context.
func New() *Context {
	return &Context{
		tracer: NoopTracer{},
		random: cryptoRandSource{},
	}
}

// SetTracer installs a diagnostic Tracer. A nil Tracer installs NoopTracer.
func (c *Context) SetTracer(t Tracer) {
	if t == nil {
		t = NoopTracer{}
	}
	c.tracer = t
}

// SetRandomSource overrides the randomness source used to generate a
// challenge. A nil source installs the crypto/rand default.
func (c *Context) SetRandomSource(src RandomSource) {
	if src == nil {
		src = cryptoRandSource{}
	}
	c.random = src
}

// SetAppID sets the relying party's AppID.
func (c *Context) SetAppID(appID string) {
	c.appID = appID
}

// SetOrigin sets the expected web origin of the client.
func (c *Context) SetOrigin(origin string) {
	c.origin = origin
}

// SetChallenge installs an explicit challenge, overriding any previously
// set or generated value. challenge must be exactly challengeB64Len (43)
// characters, matching a websafe-base64-encoded 32-byte challenge.
func (c *Context) SetChallenge(challenge string) error {
	if len(challenge) != challengeB64Len {
		return newChallengeError("challenge must be %d characters, got %d", challengeB64Len, len(challenge))
	}
	c.challenge = challenge
	return nil
}

// SetKeyHandle sets the opaque key handle identifying which credential an
// authentication ceremony targets. Required before AuthenticationChallenge.
func (c *Context) SetKeyHandle(keyHandle []byte) {
	c.keyHandle = keyHandle
}

// SetPublicKey sets the stored P-256 public key an authentication response
// will be verified against. buf must be a 65-byte uncompressed SEC1 point;
// it is decoded eagerly.
func (c *Context) SetPublicKey(buf []byte) error {
	pub, err := decodeP256PublicKey(buf)
	if err != nil {
		return err
	}
	c.userPublicKey = pub
	return nil
}

// ensureChallenge generates a new challenge if one hasn't been set yet,
// otherwise reuses the existing one.
func (c *Context) ensureChallenge() (string, error) {
	if c.challenge != "" {
		return c.challenge, nil
	}
	ch, err := genChallenge(c.random)
	if err != nil {
		return "", err
	}
	c.challenge = ch
	return ch, nil
}

// RegistrationChallenge generates-or-reuses a challenge and returns the
// registration-challenge JSON: { "challenge": ..., "version": "U2F_V2",
// "appId": ... }.
func (c *Context) RegistrationChallenge() ([]byte, error) {
	ch, err := c.ensureChallenge()
	if err != nil {
		return nil, err
	}
	body, err := marshalRegistrationChallenge(ch, c.appID)
	if err != nil {
		return nil, newJSONError(err, "marshaling registration challenge")
	}
	c.tracer.Debugf("registration challenge issued for appID=%q", c.appID)
	return body, nil
}

// AuthenticationChallenge requires KeyHandle to have been set, then
// generates-or-reuses a challenge and returns the authentication-challenge
// JSON: { "keyHandle": ..., "version": "U2F_V2", "challenge": ..., "appId":
// ... }.
func (c *Context) AuthenticationChallenge() ([]byte, error) {
	if len(c.keyHandle) == 0 {
		return nil, newMemoryError("authentication challenge requires a key handle")
	}
	ch, err := c.ensureChallenge()
	if err != nil {
		return nil, err
	}
	body, err := marshalAuthenticationChallenge(encodeWebsafe(c.keyHandle), ch, c.appID)
	if err != nil {
		return nil, newJSONError(err, "marshaling authentication challenge")
	}
	c.tracer.Debugf("authentication challenge issued for appID=%q", c.appID)
	return body, nil
}
