package wiki

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHTML(t *testing.T) {
	out, err := FromHTML(`<h2>Sub</h2><p>Hi <strong>there</strong>, see <a href="https://example.com/x">other</a>.</p>`)
	require.NoError(t, err)
	assert.Equal(t, "## Sub\n\nHi **there**, see [other](https://example.com/x).", out)

	markup, err := Convert([]byte(out), Context{})
	require.NoError(t, err)
	assert.Equal(t, "h2. Sub\n\nHi *there*, see [other|https://example.com/x].", markup)
}
