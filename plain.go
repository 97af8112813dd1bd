package sasl

import (
	"bytes"
	"errors"
	"unicode/utf8"
)

// The PLAIN mechanism name.
const Plain = "PLAIN"

type plainClient struct {
	Identity string
	Username string
	Password string
}

func (c *plainClient) Start() (mech string, ir []byte, err error) {
	mech = Plain
	ir = []byte(c.Identity + "\x00" + c.Username + "\x00" + c.Password)
	return
}

func (c *plainClient) Next(challenge []byte) (response []byte, err error) {
	return nil, ErrUnexpectedServerChallenge
}

// A client implementation of the PLAIN authentication mechanism, as described
// in RFC 4616. Authorization identity may be left blank to indicate that it is
// the same as the username.
func NewPlainClient(identity, username, password string) Client {
	return &plainClient{identity, username, password}
}

// PlainAuthenticator authenticates users with an identity, a username and a
// password. If the identity is left blank, it indicates that it is the same
// as the username. If identity is not empty and the server doesn't support
// it, an error must be returned.
type PlainAuthenticator func(identity, username, password string) error

type plainServer struct {
	done         bool
	authenticate PlainAuthenticator
}

func (s *plainServer) Next(response []byte) (challenge []byte, done bool, err error) {
	if s.done {
		return nil, false, ErrUnexpectedClientResponse
	}

	// No initial response, send an empty challenge
	if response == nil {
		return []byte{}, false, nil
	}

	s.done = true

	// Content after the third NUL, if any, is ignored.
	parts := bytes.SplitN(response, []byte("\x00"), 4)
	if len(parts) < 3 {
		return nil, false, errors.New("sasl: response missing identity, username or password")
	}

	identity, username, password := parts[0], parts[1], parts[2]
	if !utf8.Valid(identity) || !utf8.Valid(username) || !utf8.Valid(password) {
		return nil, false, errors.New("sasl: invalid UTF-8 in response")
	}

	return nil, true, s.authenticate(string(identity), string(username), string(password))
}

// NewPlainServer creates a server implementation of the PLAIN authentication
// mechanism, as described in RFC 4616.
func NewPlainServer(authenticator PlainAuthenticator) Server {
	return &plainServer{authenticate: authenticator}
}
