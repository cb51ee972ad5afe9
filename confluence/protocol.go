package confluence

import (
	"fmt"
	"regexp"
	"strings"
)

// Protocol selects the remote API family an endpoint speaks.
type Protocol int

const (
	XMLRPC Protocol = iota
	REST
)

var protocolMatchers = map[Protocol]*regexp.Regexp{
	XMLRPC: regexp.MustCompile(`.+(/rpc/xmlrpc)/?$`),
	REST:   regexp.MustCompile(`.+(/rest/api)/?$`),
}

// ParseProtocol reads a protocol name as found in configuration.
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rest":
		return REST, nil
	case "xmlrpc":
		return XMLRPC, nil
	}
	return 0, fmt.Errorf("confluence: unknown protocol %q: %w", s, ErrUnsupportedProtocol)
}

func (p Protocol) String() string {
	switch p {
	case XMLRPC:
		return "xmlrpc"
	case REST:
		return "rest"
	}
	return fmt.Sprintf("Protocol(%d)", int(p))
}

// Path is the suffix the protocol's API lives under, relative to the Confluence base URL.
func (p Protocol) Path() string {
	switch p {
	case XMLRPC:
		return "rpc/xmlrpc"
	case REST:
		return "rest/api"
	}
	panic(fmt.Sprintf("confluence: unknown protocol %d", int(p)))
}

// Representation is the markup the protocol expects page content in.
func (p Protocol) Representation() Representation {
	switch p {
	case XMLRPC:
		return RepresentationWiki
	case REST:
		return RepresentationStorage
	}
	panic(fmt.Sprintf("confluence: unknown protocol %d", int(p)))
}

// AddTo appends the protocol path to endpoint, unless endpoint already ends with it.
func (p Protocol) AddTo(endpoint string) string {
	if p.Match(endpoint) {
		return endpoint
	}
	return strings.TrimSuffix(endpoint, "/") + "/" + p.Path()
}

// RemoveFrom strips the protocol path from endpoint, along with any leading slash, leaving the
// Confluence base URL.
func (p Protocol) RemoveFrom(endpoint string) string {
	base := endpoint
	if p.Match(endpoint) {
		base = strings.TrimSuffix(strings.TrimSuffix(endpoint, "/"), p.Path())
		base = strings.TrimSuffix(base, "/")
	}
	return strings.TrimPrefix(base, "/")
}

// Match reports whether endpoint ends with the protocol path.
func (p Protocol) Match(endpoint string) bool {
	m, ok := protocolMatchers[p]
	if !ok {
		return false
	}
	return m.MatchString(endpoint)
}

// DetectProtocol finds the protocol whose path endpoint ends with, if any.
func DetectProtocol(endpoint string) (Protocol, bool) {
	for _, p := range []Protocol{REST, XMLRPC} {
		if p.Match(endpoint) {
			return p, true
		}
	}
	return 0, false
}
