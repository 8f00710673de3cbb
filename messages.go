package u2f

import "encoding/json"

// u2fVersion is the only protocol version this package speaks, and appears
// verbatim in every outbound challenge.
const u2fVersion = "U2F_V2"

// registrationChallenge is the outbound JSON shape for a registration
// challenge: { "challenge": ..., "version": "U2F_V2", "appId": ... }.
type registrationChallenge struct {
	Challenge string `json:"challenge"`
	Version   string `json:"version"`
	AppID     string `json:"appId"`
}

// authenticationChallenge is the outbound JSON shape for an authentication
// challenge: { "keyHandle": ..., "version": "U2F_V2", "challenge": ...,
// "appId": ... }.
type authenticationChallenge struct {
	KeyHandle string `json:"keyHandle"`
	Version   string `json:"version"`
	Challenge string `json:"challenge"`
	AppID     string `json:"appId"`
}

// registrationResponse is the inbound JSON shape of a registration
// response: { "registrationData": <b64>, "clientData": <b64> }.
type registrationResponse struct {
	RegistrationData string
	ClientData       string
}

// authenticationResponse is the inbound JSON shape of an authentication
// response: { "signatureData": <b64>, "clientData": <b64>, "keyHandle":
// <b64> }.
type authenticationResponse struct {
	SignatureData string
	ClientData    string
	KeyHandle     string
}

// clientData is the browser-synthesized structure inside the base64-decoded
// clientData blob: { "challenge": <str>, "origin": <str>, ... }. Other
// members (e.g. "typ") are present on the wire but ignored by this core.
type clientData struct {
	Challenge string
	Origin    string
}

// requireStringField resolves a required string-valued key out of a decoded
// JSON object, failing with KindJSON on a missing key or a key whose value
// isn't a JSON string. This is the Go analogue of the original C core's
// json_object_object_get compatibility shim: one JSON library, but the same
// "missing key is an error, not a zero value" discipline.
func requireStringField(obj map[string]json.RawMessage, key string) (string, error) {
	raw, ok := obj[key]
	if !ok {
		return "", newJSONError(nil, "missing required field %q", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", newJSONError(err, "field %q is not a string", key)
	}
	return s, nil
}

func parseJSONObject(buf []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(buf, &obj); err != nil {
		return nil, newJSONError(err, "invalid JSON body")
	}
	return obj, nil
}

func parseRegistrationResponse(buf []byte) (*registrationResponse, error) {
	obj, err := parseJSONObject(buf)
	if err != nil {
		return nil, err
	}
	var rr registrationResponse
	if rr.RegistrationData, err = requireStringField(obj, "registrationData"); err != nil {
		return nil, err
	}
	if rr.ClientData, err = requireStringField(obj, "clientData"); err != nil {
		return nil, err
	}
	return &rr, nil
}

func parseAuthenticationResponse(buf []byte) (*authenticationResponse, error) {
	obj, err := parseJSONObject(buf)
	if err != nil {
		return nil, err
	}
	var ar authenticationResponse
	if ar.SignatureData, err = requireStringField(obj, "signatureData"); err != nil {
		return nil, err
	}
	if ar.ClientData, err = requireStringField(obj, "clientData"); err != nil {
		return nil, err
	}
	if ar.KeyHandle, err = requireStringField(obj, "keyHandle"); err != nil {
		return nil, err
	}
	return &ar, nil
}

func parseClientData(buf []byte) (*clientData, error) {
	obj, err := parseJSONObject(buf)
	if err != nil {
		return nil, err
	}
	var cd clientData
	if cd.Challenge, err = requireStringField(obj, "challenge"); err != nil {
		return nil, err
	}
	if cd.Origin, err = requireStringField(obj, "origin"); err != nil {
		return nil, err
	}
	return &cd, nil
}

func marshalRegistrationChallenge(challenge, appID string) ([]byte, error) {
	return json.Marshal(registrationChallenge{
		Challenge: challenge,
		Version:   u2fVersion,
		AppID:     appID,
	})
}

func marshalAuthenticationChallenge(keyHandle, challenge, appID string) ([]byte, error) {
	return json.Marshal(authenticationChallenge{
		KeyHandle: keyHandle,
		Version:   u2fVersion,
		Challenge: challenge,
		AppID:     appID,
	})
}
