package u2f

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetChallengeRejectsWrongLength(t *testing.T) {
	c := New()
	err := c.SetChallenge("too-short")
	requireKind(t, err, KindChallenge)
}

func TestSetChallengeAccepts43Chars(t *testing.T) {
	c := New()
	challenge := make([]byte, 43)
	for i := range challenge {
		challenge[i] = 'a'
	}
	require.NoError(t, c.SetChallenge(string(challenge)))
}

func TestRegistrationChallengeGeneratesAndReuses(t *testing.T) {
	c := New()
	c.SetAppID("http://example.com")

	body1, err := c.RegistrationChallenge()
	require.NoError(t, err)
	var rc1 registrationChallenge
	require.NoError(t, json.Unmarshal(body1, &rc1))
	require.Len(t, rc1.Challenge, challengeB64Len)
	require.Equal(t, u2fVersion, rc1.Version)

	body2, err := c.RegistrationChallenge()
	require.NoError(t, err)
	var rc2 registrationChallenge
	require.NoError(t, json.Unmarshal(body2, &rc2))

	require.Equal(t, rc1.Challenge, rc2.Challenge, "challenge should be reused, not regenerated")
}

func TestAuthenticationChallengeRequiresKeyHandle(t *testing.T) {
	c := New()
	c.SetAppID("http://example.com")
	_, err := c.AuthenticationChallenge()
	requireKind(t, err, KindMemory)
}

func TestAuthenticationChallengeIncludesKeyHandle(t *testing.T) {
	c := New()
	c.SetAppID("http://example.com")
	c.SetKeyHandle([]byte("some-key-handle"))

	body, err := c.AuthenticationChallenge()
	require.NoError(t, err)

	var ac authenticationChallenge
	require.NoError(t, json.Unmarshal(body, &ac))
	require.Equal(t, encodeWebsafe([]byte("some-key-handle")), ac.KeyHandle)
	require.Equal(t, u2fVersion, ac.Version)
	require.Len(t, ac.Challenge, challengeB64Len)
}

type failingRandomSource struct{}

func (failingRandomSource) Read(dest []byte) (int, error) {
	return 0, errReadFailed
}

var errReadFailed = &testRandErr{}

type testRandErr struct{}

func (*testRandErr) Error() string { return "simulated random source failure" }

func TestRegistrationChallengePropagatesRandomSourceFailure(t *testing.T) {
	c := New()
	c.SetRandomSource(failingRandomSource{})
	c.SetAppID("http://example.com")

	_, err := c.RegistrationChallenge()
	requireKind(t, err, KindMemory)
}

func TestSetPublicKeyRejectsBadPoint(t *testing.T) {
	c := New()
	err := c.SetPublicKey(make([]byte, 65)) // all zero, leading byte isn't 0x04
	requireKind(t, err, KindFormat)
}
