package sasl

import (
	"github.com/xdg-go/scram"
)

// NewScramSHA256ClientWithNonceGenerator creates a SCRAM-SHA-256 client with a
// fixed nonce source, so tests can replay the RFC 7677 example conversation.
func NewScramSHA256ClientWithNonceGenerator(identity, username, password string, ng scram.NonceGeneratorFcn) (Client, error) {
	c, err := sha256Fcn.NewClient(username, password, identity)
	if err != nil {
		return nil, err
	}
	return &scramClient{ScramSha256, c.WithNonceGenerator(ng).NewConversation()}, nil
}
