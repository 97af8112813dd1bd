package sasl

// The XOAUTH2 mechanism name.
const Xoauth2 = "XOAUTH2"

type xoauth2Client struct {
	Username string
	Token    string
}

func (c *xoauth2Client) Start() (mech string, ir []byte, err error) {
	mech = Xoauth2
	ir = []byte("user=" + c.Username + "\x01auth=Bearer " + c.Token + "\x01\x01")
	return
}

func (c *xoauth2Client) Next(challenge []byte) (response []byte, err error) {
	// Server sent an error response
	return nil, ErrUnexpectedServerChallenge
}

// An implementation of the XOAUTH2 authentication mechanism, as
// described in https://developers.google.com/gmail/xoauth2_protocol.
//
// XOAUTH2 is a predecessor of OAUTHBEARER; use OAUTHBEARER instead when the
// server supports it.
func NewXoauth2Client(username, token string) Client {
	return &xoauth2Client{username, token}
}
