package sasl_test

import (
	"testing"

	"github.com/emersion/go-sasl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternalClient(t *testing.T) {
	c := sasl.NewExternalClient("alice")

	mech, ir, err := c.Start()
	require.NoError(t, err)
	assert.Equal(t, sasl.External, mech)
	assert.Equal(t, []byte("alice"), ir)

	_, err = c.Next(nil)
	assert.ErrorIs(t, err, sasl.ErrUnexpectedServerChallenge)
}

func TestExternalClient_emptyIdentity(t *testing.T) {
	c := sasl.NewExternalClient("")

	_, ir, err := c.Start()
	require.NoError(t, err)
	assert.NotNil(t, ir)
	assert.Empty(t, ir)
}

func TestExternalServer(t *testing.T) {
	var authCalls int
	s := sasl.NewExternalServer(func(identity string) error {
		authCalls++
		assert.Equal(t, "alice", identity)
		return nil
	})

	challenge, done, err := s.Next(nil)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Empty(t, challenge)

	challenge, done, err = s.Next([]byte("alice"))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Empty(t, challenge)
	assert.Equal(t, 1, authCalls)

	_, _, err = s.Next([]byte("alice"))
	assert.ErrorIs(t, err, sasl.ErrUnexpectedClientResponse)
}

func TestExternalServer_nulIdentity(t *testing.T) {
	s := sasl.NewExternalServer(func(identity string) error {
		t.Fatal("authenticator called with NUL in identity")
		return nil
	})

	_, _, err := s.Next([]byte("ali\x00ce"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NUL")
}
