// Package confluence is a client for the Confluence REST API, covering what is needed to publish a
// page tree: finding, creating, updating and removing pages, their attachments and labels.
package confluence

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every single request made by an API.
const DefaultTimeout = 30 * time.Second

// NewAPI returns a client for the Confluence at endpoint.  The endpoint is either a full base URL
// (with or without the protocol path) or a bare Atlassian Cloud instance name, e.g. "acme" for
// https://acme.atlassian.net/wiki.
func NewAPI(endpoint string, protocol Protocol, credentials Credentials) (*API, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("confluence: configure your Confluence endpoint with --endpoint")
	}
	if credentials.Username() == "" {
		return nil, fmt.Errorf("confluence: configure your Confluence username with --auth-username: %w", ErrMissingUsername)
	}

	switch protocol {
	case REST:
	case XMLRPC:
		return nil, fmt.Errorf("confluence: %s endpoints can't be published to, use rest: %w", protocol, ErrUnsupportedProtocol)
	default:
		return nil, fmt.Errorf("confluence: %s: %w", protocol, ErrUnsupportedProtocol)
	}

	if !strings.Contains(endpoint, "://") {
		endpoint = fmt.Sprintf("https://%s.atlassian.net/wiki", endpoint)
	}

	u, err := url.ParseRequestURI(strings.TrimSuffix(protocol.AddTo(endpoint), "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse REST API URL: %w", err)
	}

	a := &API{
		BaseURI:     u,
		Protocol:    protocol,
		Timeout:     DefaultTimeout,
		credentials: credentials,
	}
	a.Client = &http.Client{}

	return a, nil
}

type API struct {
	// The API root, e.g. https://INSTANCE.atlassian.net/wiki/rest/api/
	BaseURI *url.URL

	Protocol Protocol

	// An HTTP client - you can substitute VCR or whatnot.
	Client *http.Client

	// Timeout applies to each request on its own.  Zero means no timeout.
	Timeout time.Duration

	credentials Credentials
}

// Credentials returns who the API talks to Confluence as.
func (api *API) Credentials() Credentials {
	return api.credentials
}

// Endpoint is the Confluence base URL, without the protocol path.
func (api *API) Endpoint() string {
	return api.Protocol.RemoveFrom(api.BaseURI.String())
}
