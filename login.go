package sasl

import (
	"bytes"
	"errors"
	"unicode/utf8"
)

// The LOGIN mechanism name.
const Login = "LOGIN"

var expectedChallenge = []byte("Password:")

type loginClient struct {
	Username string
	Password string
}

func (c *loginClient) Start() (mech string, ir []byte, err error) {
	mech = Login
	ir = []byte(c.Username)
	return
}

func (c *loginClient) Next(challenge []byte) (response []byte, err error) {
	if bytes.Equal(challenge, expectedChallenge) {
		return []byte(c.Password), nil
	}
	return nil, ErrUnexpectedServerChallenge
}

// A client implementation of the LOGIN authentication mechanism for SMTP,
// as described in http://www.iana.org/go/draft-murchison-sasl-login
//
// It is considered obsolete, and should not be used when other mechanisms are
// available. For plaintext password authentication use PLAIN mechanism.
func NewLoginClient(username, password string) Client {
	return &loginClient{username, password}
}

// LoginAuthenticator authenticates users with a username and a password.
type LoginAuthenticator func(username, password string) error

type loginState int

const (
	loginNotStarted loginState = iota
	loginWaitingUsername
	loginWaitingPassword
)

type loginServer struct {
	state              loginState
	username, password string
	authenticate       LoginAuthenticator
}

// NewLoginServer creates a server implementation of the LOGIN authentication
// mechanism, as described in https://tools.ietf.org/html/draft-murchison-sasl-login-00.
//
// LOGIN is obsolete and should only be enabled for legacy clients that cannot
// be updated to use PLAIN.
func NewLoginServer(authenticator LoginAuthenticator) Server {
	return &loginServer{authenticate: authenticator}
}

func (s *loginServer) Next(response []byte) (challenge []byte, done bool, err error) {
	switch s.state {
	case loginNotStarted:
		// Check for initial response field, as per RFC 4422 section 3
		if response == nil {
			challenge = []byte("Username:")
			break
		}
		s.state++
		fallthrough
	case loginWaitingUsername:
		if !utf8.Valid(response) {
			return nil, false, errors.New("sasl: invalid UTF-8 in username")
		}
		s.username = string(response)
		challenge = []byte("Password:")
	case loginWaitingPassword:
		if !utf8.Valid(response) {
			return nil, false, errors.New("sasl: invalid UTF-8 in password")
		}
		s.password = string(response)
		err = s.authenticate(s.username, s.password)
		done = true
	default:
		err = ErrUnexpectedClientResponse
		return
	}

	s.state++
	return
}
