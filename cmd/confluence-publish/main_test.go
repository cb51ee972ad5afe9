package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime/debug"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toothbrush/confluence-publish/publish"
	"github.com/toothbrush/confluence-publish/wiki"
)

func TestShortVersion(t *testing.T) {
	info := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}
	assert.Equal(t, "devel", shortVersion(info))

	info.Settings = []debug.BuildSetting{
		{Key: "vcs.revision", Value: "abc123"},
		{Key: "vcs.modified", Value: "true"},
	}
	assert.Equal(t, "rev-abc123-dirty", shortVersion(info))

	info = &debug.BuildInfo{Main: debug.Module{Version: "v1.2.0"}}
	assert.Equal(t, "v1.2.0", shortVersion(info))
}

func TestBindFlags(t *testing.T) {
	var (
		endpoint string
		workers  int
		prune    bool
		tokenCmd []string
	)
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "")
	cmd.Flags().IntVar(&workers, "workers", 8, "")
	cmd.Flags().BoolVar(&prune, "prune", false, "")
	cmd.Flags().StringSliceVar(&tokenCmd, "auth-token-cmd", nil, "")
	require.NoError(t, cmd.Flags().Parse([]string{"--endpoint", "https://flag"}))

	yes := true
	require.NoError(t, bindFlags(cmd, YamlConfig{
		Endpoint:     "https://file",
		Workers:      3,
		Prune:        &yes,
		AuthTokenCmd: []string{"pass", "show"},
		Properties:   map[string]string{"a": "b"},
	}))

	assert.Equal(t, "https://flag", endpoint, "flags given on the command line win")
	assert.Equal(t, 3, workers)
	assert.True(t, prune)
	assert.Equal(t, []string{"pass", "show"}, tokenCmd)
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	md := filepath.Join(dir, "page.md")
	require.NoError(t, os.WriteFile(md, []byte("# Title\n\n* one\n* two\n"), 0o644))

	out, err := convertFile(md, wiki.Context{})
	require.NoError(t, err)
	assert.Equal(t, "h1. Title\n\n* one\n* two", out)

	html := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(html, []byte("<h2>Sub</h2>"), 0o644))
	out, err = convertFile(html, wiki.Context{})
	require.NoError(t, err)
	assert.Equal(t, "h2. Sub", out)

	bad := filepath.Join(dir, "bad.md")
	require.NoError(t, os.WriteFile(bad, []byte("[x][nope]\n"), 0o644))
	_, err = convertFile(bad, wiki.Context{})
	assert.ErrorIs(t, err, wiki.ErrUnresolvedReference)
}

func TestConvertContext(t *testing.T) {
	dir := t.TempDir()
	md := filepath.Join(dir, "page.md")
	require.NoError(t, os.WriteFile(md, []byte("See [rel][r] and [away](elsewhere).\n\n[r]: relativepage\n"), 0o644))

	defer func(path string) { SitePath = path }(SitePath)

	SitePath = filepath.Join(dir, "missing.yaml")
	out, err := convertFile(md, convertContext("Test"))
	require.NoError(t, err)
	assert.Equal(t, "See [rel|Test - relativepage|] and [away|Test - elsewhere].", out)

	out, err = convertFile(md, convertContext(""))
	require.NoError(t, err)
	assert.Equal(t, "See [rel|relativepage|] and [away|elsewhere].", out)

	// With a site only its own pages are prefixed.
	SitePath = filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(SitePath, []byte(`
spaceKey: DOC
home:
  name: Home
  uri: page.md
  children:
    - name: relativepage
`), 0o644))
	out, err = convertFile(md, convertContext("Test"))
	require.NoError(t, err)
	assert.Equal(t, "See [rel|Test - relativepage|] and [away|elsewhere].", out)

	out, err = convertFile(md, convertContext(""))
	require.NoError(t, err)
	assert.Equal(t, "See [rel|Home - relativepage|] and [away|elsewhere].", out)
}

func TestPrintReport(t *testing.T) {
	var out bytes.Buffer
	printReport(&out, &publish.Report{})
	assert.Equal(t, "\n0 created, 0 updated, 0 failed, 0 skipped, 0 removed\n", out.String())
}

func TestShowConfig(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("endpoint", "", "")
	flags.Int("workers", 8, "")
	require.NoError(t, flags.Parse([]string{"--endpoint", "acme"}))

	ParsedConfig = YamlConfig{Properties: map[string]string{"b": "2", "a": "1"}}
	defer func() { ParsedConfig = YamlConfig{} }()

	var out bytes.Buffer
	showConfig(&out, flags)

	assert.Regexp(t, `endpoint\s+acme\s+\(set\)`, out.String())
	assert.Regexp(t, `workers\s+8\s+\(default\)`, out.String())
	assert.Contains(t, out.String(), "Properties:\n  a: 1\n  b: 2\n")
}
