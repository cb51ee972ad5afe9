package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// getJSON fetches ep and decodes the response into out.
func (api *API) getJSON(ctx context.Context, ep *url.URL, out any) error {
	body, err := api.request(ctx, http.MethodGet, ep, nil, "")
	if err != nil {
		return fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}
	return nil
}

// sendJSON sends in as the JSON body of a method request to ep, and decodes the response into
// out unless out is nil.
func (api *API) sendJSON(ctx context.Context, method string, ep *url.URL, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("confluence: couldn't encode json request: %w", err)
	}

	body, err := api.request(ctx, method, ep, payload, "application/json")
	if err != nil {
		return fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}
	return nil
}

// Request implements the basic Request function
func (api *API) request(ctx context.Context, method string, url *url.URL, payload []byte, contentType string) ([]byte, error) {
	if api.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, api.Timeout)
		defer cancel()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't instantiate http request: %w", err)
	}

	req.Header.Add("Accept", "application/json, */*")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	// attachment uploads are refused without it
	req.Header.Set("X-Atlassian-Token", "no-check")

	if password, ok := api.credentials.Password(); ok {
		req.SetBasicAuth(api.credentials.Username(), password)
	}

	response, err := api.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform http request: %w", err)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't read http response body: %w", err)
	}

	if err := response.Body.Close(); err != nil {
		return nil, fmt.Errorf("confluence: couldn't close response body: %w", err)
	}

	switch response.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusPartialContent, http.StatusNoContent, http.StatusResetContent:
		return body, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("confluence: %s %s: %w", method, url.Path, ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("confluence: %s: %w", response.Status, ErrAuthentication)
	case http.StatusServiceUnavailable:
		return nil, fmt.Errorf("confluence: service is not available: %s", response.Status)
	case http.StatusInternalServerError:
		return nil, fmt.Errorf("confluence: internal server error: %s", response.Status)
	case http.StatusConflict:
		return nil, fmt.Errorf("confluence: conflict: %s", response.Status)
	case http.StatusBadRequest:
		return nil, fmt.Errorf("confluence: bad request: %s: %s", response.Status, bytes.TrimSpace(body))
	}

	return nil, fmt.Errorf("confluence: unknown HTTP response status: %s: %s", response.Status, url.String())
}
