package confluence

import "fmt"

// Credentials identify the user talking to Confluence.  The password is optional: a bare username
// means authentication happens some other way, e.g. a token.
type Credentials struct {
	username string
	password string
}

func NewCredentials(username, password string) (Credentials, error) {
	if username == "" {
		return Credentials{}, fmt.Errorf("confluence: configure your Confluence username with --auth-username: %w", ErrMissingUsername)
	}
	return Credentials{username: username, password: password}, nil
}

func (c Credentials) Username() string { return c.username }

// Password returns the password, and whether there is one.
func (c Credentials) Password() (string, bool) {
	return c.password, c.password != ""
}
