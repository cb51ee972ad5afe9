/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"fmt"
	"net/http"
	"os/exec"
	"strings"

	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"

	"github.com/toothbrush/confluence-publish/confluence"
)

// fetchToken runs the configured auth-token-cmd and returns the first line of its output.
func fetchToken() (string, error) {
	if len(AuthTokenCmd) < 1 {
		return "", fmt.Errorf("confluence-publish: please provide --auth-token-cmd")
	}
	out, err := exec.Command(AuthTokenCmd[0], AuthTokenCmd[1:]...).Output()
	if err != nil {
		return "", fmt.Errorf("confluence-publish: couldn't execute auth-token-cmd '%v': %w", AuthTokenCmd, err)
	}
	return strings.Split(string(out), "\n")[0], nil
}

// newAPI builds a Confluence client from flags and config.  The returned stop func must be called
// when done, it flushes the VCR cassette if there is one.
func newAPI(withVCR bool) (*confluence.API, func() error, error) {
	protocol, err := confluence.ParseProtocol(Protocol)
	if err != nil {
		return nil, nil, err
	}
	// An empty username is reported before running the token command.
	if _, err := confluence.NewCredentials(AuthUsername, ""); err != nil {
		return nil, nil, fmt.Errorf("confluence-publish: please provide --auth-username: %w", err)
	}

	token, err := fetchToken()
	if err != nil {
		return nil, nil, err
	}
	credentials, err := confluence.NewCredentials(AuthUsername, token)
	if err != nil {
		return nil, nil, err
	}

	api, err := confluence.NewAPI(Endpoint, protocol, credentials)
	if err != nil {
		return nil, nil, fmt.Errorf("confluence-publish: couldn't instantiate Confluence API: %w", err)
	}
	debugLog("Using %s\n", api.BaseURI)

	if !withVCR {
		return api, func() error { return nil }, nil
	}

	// set up VCR recordings.
	opts := &recorder.Options{
		CassetteName:       "fixtures/confluence-publish",
		Mode:               recorder.ModeReplayWithNewEpisodes,
		SkipRequestLatency: true,
		RealTransport:      http.DefaultTransport,
	}
	r, err := recorder.NewWithOptions(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("confluence-publish: couldn't set up go-vcr recording: %w", err)
	}

	// Add a hook which removes Authorization headers from all requests
	hook := func(i *cassette.Interaction) error {
		delete(i.Request.Headers, "Authorization")
		return nil
	}
	r.AddHook(hook, recorder.AfterCaptureHook)
	r.SetReplayableInteractions(true)

	api.Client = r.GetDefaultClient()
	return api, r.Stop, nil
}
