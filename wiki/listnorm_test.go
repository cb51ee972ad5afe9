package wiki

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLists(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no lists",
			in:   "just some <b>text</b>",
			want: "just some <b>text</b>",
		},
		{
			name: "flat unordered",
			in:   "<ul><li>one</li><li>two</li></ul>",
			want: "* one\n* two\n",
		},
		{
			name: "flat ordered",
			in:   "<ol><li>one</li><li>two</li></ol>",
			want: "# one\n# two\n",
		},
		{
			name: "surrounding text is kept",
			in:   "before <ul><li>one</li></ul> after",
			want: "before \n* one\n after",
		},
		{
			name: "nested mixed kinds",
			in:   "<ul><li>a<ol><li>b</li></ol></li><li>c</li></ul>",
			want: "* a\n*# b\n* c\n",
		},
		{
			name: "three levels",
			in:   "<ol><li>a<ol><li>b<ul><li>c</li></ul></li></ol></li></ol>",
			want: "# a\n## b\n##* c\n",
		},
		{
			name: "tags are case insensitive",
			in:   "<UL><Li>x</LI></ul>",
			want: "* x\n",
		},
		{
			name: "attributes are ignored",
			in:   `<ul class="x"><li id="1">x</li></ul>`,
			want: "* x\n",
		},
		{
			name: "unterminated items",
			in:   "<ul><li>a<li>b</ul>",
			want: "* a\n* b\n",
		},
		{
			name: "independent lists",
			in:   "<ul><li>a</li></ul> mid <ol><li>b</li></ol>",
			want: "* a\n mid \n# b\n",
		},
		{
			name: "text after a nested list",
			in:   "<ul><li>a<ul><li>b</li></ul>tail</li></ul>",
			want: "* a\n** b\ntail\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeLists(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeListsOneLinePerItem(t *testing.T) {
	in := "<ul><li>a<ol><li>b</li><li>c<ul><li>d</li></ul></li></ol></li><li>e</li></ul>"

	got, err := NormalizeLists(in)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	require.Len(t, lines, strings.Count(in, "<li>"))
	assert.Equal(t, []string{"* a", "*# b", "*# c", "*#* d", "* e"}, lines)
}

func TestNormalizeListsMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"close without open", "text </ul>"},
		{"unterminated list", "<ul><li>x</li>"},
		{"mismatched close", "<ol><li>x</li></ul>"},
		{"item outside list", "<li>x</li>"},
		{"stray item close", "<ul></li></ul>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeLists(tt.in)
			assert.ErrorIs(t, err, ErrMalformedList)
		})
	}
}
