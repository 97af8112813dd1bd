package sasl_test

import (
	"errors"
	"testing"

	"github.com/emersion/go-sasl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainClient(t *testing.T) {
	c := sasl.NewPlainClient("identity", "username", "password")

	mech, ir, err := c.Start()
	require.NoError(t, err)
	assert.Equal(t, sasl.Plain, mech)
	assert.Equal(t, []byte("identity\x00username\x00password"), ir)

	_, err = c.Next([]byte("challenge"))
	assert.ErrorIs(t, err, sasl.ErrUnexpectedServerChallenge)
}

func TestPlainServer(t *testing.T) {
	var authCalls int
	s := sasl.NewPlainServer(func(identity, username, password string) error {
		authCalls++
		assert.Equal(t, "i", identity)
		assert.Equal(t, "u", username)
		assert.Equal(t, "p", password)
		return nil
	})

	challenge, done, err := s.Next(nil)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Empty(t, challenge)

	challenge, done, err = s.Next([]byte("i\x00u\x00p"))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Empty(t, challenge)
	assert.Equal(t, 1, authCalls)

	_, _, err = s.Next([]byte("i\x00u\x00p"))
	assert.ErrorIs(t, err, sasl.ErrUnexpectedClientResponse)
}

func TestPlainServer_initialResponse(t *testing.T) {
	var authCalls int
	s := sasl.NewPlainServer(func(identity, username, password string) error {
		authCalls++
		return nil
	})

	_, done, err := s.Next([]byte("\x00u\x00p"))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 1, authCalls)
}

func TestPlainServer_missingField(t *testing.T) {
	s := sasl.NewPlainServer(func(identity, username, password string) error {
		t.Fatal("authenticator called with malformed response")
		return nil
	})

	_, _, err := s.Next([]byte("u\x00p"))
	assert.Error(t, err)
}

func TestPlainServer_trailingData(t *testing.T) {
	s := sasl.NewPlainServer(func(identity, username, password string) error {
		assert.Equal(t, "p", password)
		return nil
	})

	// Data after the third NUL is tolerated and ignored.
	_, done, err := s.Next([]byte("i\x00u\x00p\x00trailing"))
	require.NoError(t, err)
	assert.True(t, done)
}

func TestPlainServer_authFailure(t *testing.T) {
	authErr := errors.New("wrong password")
	s := sasl.NewPlainServer(func(identity, username, password string) error {
		return authErr
	})

	_, _, err := s.Next([]byte("i\x00u\x00p"))
	assert.ErrorIs(t, err, authErr)
}

func TestPlainServer_invalidUTF8(t *testing.T) {
	s := sasl.NewPlainServer(func(identity, username, password string) error {
		t.Fatal("authenticator called with invalid UTF-8")
		return nil
	})

	_, _, err := s.Next([]byte("i\x00u\x00p\xff\xfe"))
	assert.Error(t, err)
}
