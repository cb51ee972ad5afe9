package confluence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtocolAddTo(t *testing.T) {
	tests := []struct {
		protocol Protocol
		endpoint string
		want     string
	}{
		{REST, "http://localhost:8090", "http://localhost:8090/rest/api"},
		{REST, "http://localhost:8090/", "http://localhost:8090/rest/api"},
		{REST, "http://localhost:8090/rest/api", "http://localhost:8090/rest/api"},
		{REST, "http://localhost:8090/rest/api/", "http://localhost:8090/rest/api/"},
		{XMLRPC, "http://localhost:8090", "http://localhost:8090/rpc/xmlrpc"},
		{XMLRPC, "http://localhost:8090/rpc/xmlrpc", "http://localhost:8090/rpc/xmlrpc"},
	}

	for _, tt := range tests {
		t.Run(tt.protocol.String()+" "+tt.endpoint, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.protocol.AddTo(tt.endpoint))
		})
	}
}

func TestProtocolRemoveFrom(t *testing.T) {
	tests := []struct {
		protocol Protocol
		endpoint string
		want     string
	}{
		{REST, "http://localhost:8090/rest/api", "http://localhost:8090"},
		{REST, "http://localhost:8090/rest/api/", "http://localhost:8090"},
		{REST, "http://localhost:8090", "http://localhost:8090"},
		{REST, "/wiki", "wiki"},
		{XMLRPC, "http://localhost:8090/rpc/xmlrpc", "http://localhost:8090"},
		{XMLRPC, "http://localhost:8090/rest/api", "http://localhost:8090/rest/api"},
	}

	for _, tt := range tests {
		t.Run(tt.protocol.String()+" "+tt.endpoint, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.protocol.RemoveFrom(tt.endpoint))
		})
	}
}

func TestProtocolMatch(t *testing.T) {
	assert.True(t, REST.Match("http://host/rest/api"))
	assert.True(t, REST.Match("http://host/rest/api/"))
	assert.False(t, REST.Match("http://host/rest/api/content"))
	assert.False(t, REST.Match("http://host/rpc/xmlrpc"))
	assert.True(t, XMLRPC.Match("http://host/rpc/xmlrpc"))

	p, ok := DetectProtocol("http://host/rpc/xmlrpc")
	assert.True(t, ok)
	assert.Equal(t, XMLRPC, p)

	_, ok = DetectProtocol("http://host")
	assert.False(t, ok)
}

func TestProtocolRepresentation(t *testing.T) {
	assert.Equal(t, RepresentationStorage, REST.Representation())
	assert.Equal(t, RepresentationWiki, XMLRPC.Representation())
}

func TestParseProtocol(t *testing.T) {
	p, err := ParseProtocol("REST")
	require.NoError(t, err)
	assert.Equal(t, REST, p)

	p, err = ParseProtocol("")
	require.NoError(t, err)
	assert.Equal(t, REST, p)

	p, err = ParseProtocol("xmlrpc")
	require.NoError(t, err)
	assert.Equal(t, XMLRPC, p)

	_, err = ParseProtocol("soap")
	assert.ErrorIs(t, err, ErrUnsupportedProtocol)
}

func TestCredentials(t *testing.T) {
	_, err := NewCredentials("", "secret")
	assert.ErrorIs(t, err, ErrMissingUsername)

	c, err := NewCredentials("paul", "")
	require.NoError(t, err)
	assert.Equal(t, "paul", c.Username())
	_, ok := c.Password()
	assert.False(t, ok)

	c, err = NewCredentials("paul", "secret")
	require.NoError(t, err)
	password, ok := c.Password()
	assert.True(t, ok)
	assert.Equal(t, "secret", password)
}

func TestRepresentation(t *testing.T) {
	var zero Representation
	assert.False(t, zero.Valid())
	assert.True(t, RepresentationWiki.Valid())
	assert.Equal(t, "storage", RepresentationStorage.String())
	assert.Equal(t, Content{Value: "h1. x", Representation: RepresentationWiki}, NewWikiContent("h1. x"))
}
