package confluence

import (
	"context"
	"fmt"
)

func (api *API) getSpaces(ctx context.Context, opts SpacesQuery) (*AllSpaces, error) {
	ep, err := api.getSpaceEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get spaces endpoint: %w", err)
	}

	var allSpaces AllSpaces
	if err := api.getJSON(ctx, ep, &allSpaces); err != nil {
		return nil, err
	}
	return &allSpaces, nil
}

// ListAllSpaces returns every space visible to the user, by key.
func (api *API) ListAllSpaces(ctx context.Context, includePersonal bool) (map[string]Space, error) {
	spaces := map[string]Space{}

	query := SpacesQuery{
		Limit: 25,
	}

	if !includePersonal {
		// Logic here is a bit confusing.  The `type` parameter may be "global", "personal", or
		// nothing at all for both.  "global" will return spaces like DRE, CORE, etc., while
		// "personal" returns each user's space.  Leaving it empty gives us everything, so we only
		// set this if we _do not_ intend to include personal spaces in our query.
		query.Type = "global"
	}

	for {
		allspaces, err := api.getSpaces(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't list spaces: %w", err)
		}

		for _, space := range allspaces.Results {
			spaces[space.Key] = space
		}

		if allspaces.Links.Next == "" {
			break
		}
		query.Start, err = nextStart(allspaces.Links.Next)
		if err != nil {
			return nil, err
		}
	}

	return spaces, nil
}
