package sasl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// The OAUTHBEARER mechanism name.
const OAuthBearer = "OAUTHBEARER"

// OAuthBearerError is the JSON error body sent by an OAUTHBEARER server as a
// challenge when authentication fails, as described in RFC 7628 section 3.2.2.
type OAuthBearerError struct {
	Status  string `json:"status"`
	Schemes string `json:"schemes"`
	Scope   string `json:"scope"`
}

func (err *OAuthBearerError) Error() string {
	return fmt.Sprintf("OAUTHBEARER authentication error %v", err.Status)
}

// OAuthBearerOptions contains the fields of an OAUTHBEARER request. Host and
// Port are optional; a zero Port means unset.
type OAuthBearerOptions struct {
	Username string
	Token    string
	Host     string
	Port     int
}

type oauthBearerClient struct {
	OAuthBearerOptions
}

func (c *oauthBearerClient) Start() (mech string, ir []byte, err error) {
	mech = OAuthBearer
	str := "n,"
	if c.Username != "" {
		str += "a=" + c.Username
	}
	str += ","
	if c.Host != "" {
		str += "\x01host=" + c.Host
	}
	if c.Port != 0 {
		str += "\x01port=" + strconv.Itoa(c.Port)
	}
	str += "\x01auth=Bearer " + c.Token + "\x01\x01"
	ir = []byte(str)
	return
}

func (c *oauthBearerClient) Next(challenge []byte) (response []byte, err error) {
	authBearerErr := &OAuthBearerError{}
	if err := json.Unmarshal(challenge, authBearerErr); err != nil {
		return nil, err
	}
	return nil, authBearerErr
}

// An implementation of the OAUTHBEARER authentication mechanism, as
// described in RFC 7628.
func NewOAuthBearerClient(opt *OAuthBearerOptions) Client {
	return &oauthBearerClient{*opt}
}

// OAuthBearerAuthenticator authenticates an OAUTHBEARER request. A non-nil
// return value is reported to the client as a JSON challenge before the
// exchange fails.
type OAuthBearerAuthenticator func(opts OAuthBearerOptions) *OAuthBearerError

type oauthBearerState int

const (
	oauthBearerNotStarted oauthBearerState = iota
	oauthBearerDone
	oauthBearerFailurePending
)

type oauthBearerServer struct {
	state oauthBearerState
	// failErr is the deferred error carried by the FailurePending state. It
	// is only released after the client's 0x01 acknowledgment.
	failErr      error
	authenticate OAuthBearerAuthenticator
}

// fail enters the FailurePending state. The challenge is the generic JSON
// error body; the descriptive error is stored until the client acknowledges.
func (s *oauthBearerServer) fail(failErr error) (challenge []byte, done bool, err error) {
	challenge, err = json.Marshal(OAuthBearerError{
		Status:  "invalid_request",
		Schemes: "bearer",
	})
	if err != nil {
		return nil, false, err
	}
	s.state = oauthBearerFailurePending
	s.failErr = failErr
	return challenge, false, nil
}

func (s *oauthBearerServer) Next(response []byte) (challenge []byte, done bool, err error) {
	// Per RFC, we cannot just send an error, we need to return JSON-structured
	// value as a challenge and then after getting dummy response from the
	// client stop the exchange.
	if s.state == oauthBearerFailurePending {
		// Server libraries (go-smtp, go-imap) will not call Next on
		// protocol-specific SASL cancel response ('*'). However, GS2 (and
		// indirectly OAUTHBEARER) defines a protocol-independent way to do so
		// using 0x01.
		if len(response) != 1 || response[0] != 0x01 {
			return nil, false, errors.New("sasl: unexpected response")
		}
		failErr := s.failErr
		s.failErr = nil
		s.state = oauthBearerDone
		return nil, false, failErr
	}

	if s.state == oauthBearerDone {
		return nil, false, ErrUnexpectedClientResponse
	}

	// No initial response, send an empty challenge
	if response == nil {
		return []byte{}, false, nil
	}

	// Any further call is out of order, unless it is the failure
	// acknowledgment handled above.
	s.state = oauthBearerDone

	// Cut n,a=username,\x01host=...\x01auth=...
	// into
	//   n
	//   a=username
	//   \x01host=...\x01auth=...\x01\x01
	parts := bytes.SplitN(response, []byte(","), 3)
	if len(parts) != 3 {
		return s.fail(errors.New("sasl: invalid response"))
	}
	flag := parts[0]
	authzid := parts[1]
	if !bytes.HasPrefix(flag, []byte("n")) {
		return s.fail(errors.New("sasl: invalid response, missing 'n' in gs2-cb-flag"))
	}

	opts := OAuthBearerOptions{}
	if len(authzid) > 0 {
		if !bytes.HasPrefix(authzid, []byte("a=")) {
			return s.fail(errors.New("sasl: invalid response, missing 'a=' in gs2-authzid"))
		}
		username := authzid[len("a="):]
		if !utf8.Valid(username) {
			return nil, false, errors.New("sasl: invalid UTF-8 in username")
		}
		opts.Username = string(username)
	}

	// Cut \x01host=...\x01auth=...\x01\x01
	// into
	//   *empty*
	//   host=...
	//   auth=...
	//   *empty*
	//
	// Note that this code does not do a lot of checks to make sure the input
	// follows the exact format specified by RFC.
	params := bytes.Split(parts[2], []byte("\x01"))
	for _, p := range params {
		// Skip empty fields (one at start and end).
		if len(p) == 0 {
			continue
		}

		pParts := bytes.SplitN(p, []byte("="), 2)
		if len(pParts) != 2 {
			return s.fail(errors.New("sasl: invalid response, missing '='"))
		}
		if !utf8.Valid(pParts[0]) || !utf8.Valid(pParts[1]) {
			return nil, false, errors.New("sasl: invalid UTF-8 in response")
		}
		value := string(pParts[1])

		switch string(pParts[0]) {
		case "host":
			opts.Host = value
		case "port":
			port, err := strconv.ParseUint(value, 10, 16)
			if err != nil {
				return s.fail(errors.New("sasl: invalid response, malformed 'port' value"))
			}
			opts.Port = int(port)
		case "auth":
			const prefix = "bearer "
			auth := strings.ToLower(value)
			if !strings.HasPrefix(auth, prefix) {
				return s.fail(errors.New("sasl: unsupported token type"))
			}
			opts.Token = auth[len(prefix):]
		default:
			return s.fail(fmt.Errorf("sasl: invalid response, unknown parameter: %v", string(pParts[0])))
		}
	}

	if authzErr := s.authenticate(opts); authzErr != nil {
		return s.fail(authzErr)
	}

	return nil, true, nil
}

// NewOAuthBearerServer creates a server implementation of the OAUTHBEARER
// authentication mechanism, as described in RFC 7628.
func NewOAuthBearerServer(authenticator OAuthBearerAuthenticator) Server {
	return &oauthBearerServer{authenticate: authenticator}
}
