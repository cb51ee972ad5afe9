package confluence

import (
	"context"
	"fmt"
	"net/http"
)

// AddLabels adds global labels to the page pageID.  Labels it already has are left alone.
func (api *API) AddLabels(ctx context.Context, pageID string, labels []string) error {
	if len(labels) == 0 {
		return nil
	}

	ep, err := api.getLabelsEndpoint(pageID)
	if err != nil {
		return fmt.Errorf("confluence: couldn't get labels endpoint: %w", err)
	}

	in := make([]Label, 0, len(labels))
	for _, l := range labels {
		in = append(in, Label{Prefix: "global", Name: l})
	}

	var out labelResponse
	if err := api.sendJSON(ctx, http.MethodPost, ep, in, &out); err != nil {
		return fmt.Errorf("confluence: couldn't label page %s: %w", pageID, err)
	}
	return nil
}
