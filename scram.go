package sasl

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"

	"github.com/xdg-go/scram"
)

// The SCRAM mechanism names.
const (
	ScramSha1   = "SCRAM-SHA-1"
	ScramSha256 = "SCRAM-SHA-256"
	ScramSha512 = "SCRAM-SHA-512"
)

var (
	sha1Fcn   scram.HashGeneratorFcn = sha1.New
	sha256Fcn scram.HashGeneratorFcn = sha256.New
	sha512Fcn scram.HashGeneratorFcn = sha512.New
)

type scramClient struct {
	mech string
	conv *scram.ClientConversation
}

func (c *scramClient) Start() (mech string, ir []byte, err error) {
	resp, err := c.conv.Step("")
	if err != nil {
		return "", nil, err
	}
	return c.mech, []byte(resp), nil
}

func (c *scramClient) Next(challenge []byte) (response []byte, err error) {
	if c.conv.Done() {
		return nil, ErrUnexpectedServerChallenge
	}
	resp, err := c.conv.Step(string(challenge))
	if err != nil {
		return nil, err
	}
	return []byte(resp), nil
}

func newScramClient(mech string, fcn scram.HashGeneratorFcn, identity, username, password string) (Client, error) {
	c, err := fcn.NewClient(username, password, identity)
	if err != nil {
		return nil, err
	}
	return &scramClient{mech, c.NewConversation()}, nil
}

// NewScramSHA1Client creates a client implementation of the SCRAM-SHA-1
// authentication mechanism, as described in RFC 5802.
//
// The returned error is non-nil if the username or password fail SASLprep
// normalization.
func NewScramSHA1Client(identity, username, password string) (Client, error) {
	return newScramClient(ScramSha1, sha1Fcn, identity, username, password)
}

// NewScramSHA256Client creates a client implementation of the SCRAM-SHA-256
// authentication mechanism, as described in RFC 7677.
func NewScramSHA256Client(identity, username, password string) (Client, error) {
	return newScramClient(ScramSha256, sha256Fcn, identity, username, password)
}

// NewScramSHA512Client creates a client implementation of the SCRAM-SHA-512
// authentication mechanism, as described in
// https://datatracker.ietf.org/doc/html/draft-melnikov-scram-sha-512.
func NewScramSHA512Client(identity, username, password string) (Client, error) {
	return newScramClient(ScramSha512, sha512Fcn, identity, username, password)
}
