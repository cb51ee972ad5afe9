package confluence

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc) *API {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	creds, err := NewCredentials("paul", "token")
	require.NoError(t, err)

	api, err := NewAPI(srv.URL+"/wiki", REST, creds)
	require.NoError(t, err)
	api.Client = srv.Client()
	return api
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewAPI(t *testing.T) {
	creds, err := NewCredentials("paul", "token")
	require.NoError(t, err)

	api, err := NewAPI("acme", REST, creds)
	require.NoError(t, err)
	assert.Equal(t, "https://acme.atlassian.net/wiki/rest/api/", api.BaseURI.String())
	assert.Equal(t, "https://acme.atlassian.net/wiki", api.Endpoint())
	assert.Equal(t, "paul", api.Credentials().Username())

	api, err = NewAPI("http://localhost:8090/rest/api", REST, creds)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8090/rest/api/", api.BaseURI.String())

	_, err = NewAPI("http://localhost:8090", XMLRPC, creds)
	assert.ErrorIs(t, err, ErrUnsupportedProtocol)

	_, err = NewAPI("http://localhost:8090", REST, Credentials{})
	assert.ErrorIs(t, err, ErrMissingUsername)
}

func TestGetPageByTitle(t *testing.T) {
	results := []Page{}
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wiki/rest/api/content", r.URL.Path)
		assert.Equal(t, "DOC", r.URL.Query().Get("spaceKey"))
		assert.Equal(t, "Home", r.URL.Query().Get("title"))
		assert.Equal(t, "page", r.URL.Query().Get("type"))
		assert.Equal(t, "space,version,ancestors", r.URL.Query().Get("expand"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "paul", user)
		assert.Equal(t, "token", pass)

		writeJSON(t, w, MultiPageResponse{Results: results})
	})
	ctx := context.Background()

	_, err := api.GetPageByTitle(ctx, "DOC", "Home")
	assert.ErrorIs(t, err, ErrNotFound)

	results = []Page{{ID: "1", Title: "Home", Version: &Version{Number: 3}, Space: &SpaceRef{Key: "DOC"}}}
	page, err := api.GetPageByTitle(ctx, "DOC", "Home")
	require.NoError(t, err)
	assert.Equal(t, "1", page.ID)
	assert.Equal(t, 3, page.VersionNumber())
	assert.Equal(t, "DOC", page.SpaceKey())

	results = append(results, Page{ID: "2", Title: "Home"})
	_, err = api.GetPageByTitle(ctx, "DOC", "Home")
	assert.ErrorIs(t, err, ErrAmbiguous)
}

func TestGetPageNotFound(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := api.GetPage(context.Background(), "42")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnauthorized(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := api.CurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestCreatePage(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/wiki/rest/api/content", r.URL.Path)

		var in newPage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "page", in.Type)
		assert.Equal(t, "Child", in.Title)
		assert.Equal(t, "DOC", in.Space.Key)
		assert.Equal(t, []Ancestor{{ID: "1"}}, in.Ancestors)

		writeJSON(t, w, Page{ID: "2", Title: in.Title, Space: &in.Space, Version: &Version{Number: 1}, Ancestors: in.Ancestors})
	})

	page, err := api.CreatePage(context.Background(), "DOC", &Page{ID: "1"}, "Child")
	require.NoError(t, err)
	assert.Equal(t, "2", page.ID)
	assert.Equal(t, "1", page.ParentID())
}

func TestStorePageConvertsWiki(t *testing.T) {
	var calls []string
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)

		switch r.URL.Path {
		case "/wiki/rest/api/contentbody/convert/storage":
			var in Storage
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "wiki", in.Representation)
			assert.Equal(t, "h1. Hello", in.Value)
			writeJSON(t, w, Storage{Representation: "storage", Value: "<h1>Hello</h1>"})

		case "/wiki/rest/api/content/7":
			var in pageUpdate
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, 5, in.Version.Number)
			assert.Equal(t, "<h1>Hello</h1>", in.Body.Storage.Value)
			assert.Equal(t, "storage", in.Body.Storage.Representation)
			writeJSON(t, w, Page{ID: "7", Title: in.Title, Version: &in.Version})

		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	page := &Page{ID: "7", Title: "Home", Space: &SpaceRef{Key: "DOC"}, Version: &Version{Number: 4}}
	stored, err := api.StorePage(context.Background(), page, NewWikiContent("h1. Hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, stored.VersionNumber())
	assert.Equal(t, []string{"POST /wiki/rest/api/contentbody/convert/storage", "PUT /wiki/rest/api/content/7"}, calls)

	_, err = api.StorePage(context.Background(), page, Content{Value: "x"})
	assert.ErrorIs(t, err, ErrRepresentation)
}

func TestGetDescendentsPaginates(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wiki/rest/api/content/1/descendant/page", r.URL.Path)

		resp := MultiPageResponse{}
		switch r.URL.Query().Get("start") {
		case "":
			resp.Results = []Page{{ID: "2", Title: "a", Ancestors: []Ancestor{{ID: "1"}}}}
			resp.Links.Next = "/rest/api/content/1/descendant/page?limit=50&start=1"
		case "1":
			resp.Results = []Page{{ID: "3", Title: "b", Ancestors: []Ancestor{{ID: "1"}, {ID: "2"}}}}
		}
		writeJSON(t, w, resp)
	})

	pages, err := api.GetDescendents(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, []PageSummary{
		{ID: "2", Title: "a", ParentID: "1"},
		{ID: "3", Title: "b", ParentID: "2"},
	}, pages)
}

func TestRemovePageByTitle(t *testing.T) {
	var deleted []string
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/wiki/rest/api/content/1/child/page":
			writeJSON(t, w, MultiPageResponse{Results: []Page{{ID: "2", Title: "old"}}})
		case r.Method == http.MethodDelete:
			deleted = append(deleted, strings.TrimPrefix(r.URL.Path, "/wiki/rest/api/content/"))
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	ctx := context.Background()

	removed, err := api.RemovePageByTitle(ctx, &Page{ID: "1"}, "missing")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = api.RemovePageByTitle(ctx, &Page{ID: "1"}, "old")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"2"}, deleted)
}

func TestAddAttachment(t *testing.T) {
	var paths []string
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		assert.Equal(t, "no-check", r.Header.Get("X-Atlassian-Token"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "the logo", r.FormValue("comment"))

		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "logo.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))
		assert.Equal(t, "PNG", string(data))

		if strings.HasSuffix(r.URL.Path, "/data") {
			writeJSON(t, w, Attachment{ID: "att9", Title: "logo.png", Version: &Version{Number: 2}})
			return
		}
		writeJSON(t, w, MultiAttachmentResponse{Results: []Attachment{{ID: "att9", Title: "logo.png", Version: &Version{Number: 1}}}})
	})
	ctx := context.Background()
	page := &Page{ID: "1"}

	att := api.NewAttachment("logo.png", "image/png", "the logo")
	created, err := api.AddAttachment(ctx, page, att, strings.NewReader("PNG"))
	require.NoError(t, err)
	assert.Equal(t, "att9", created.ID)

	created.Metadata.MediaType = "image/png"
	created.Metadata.Comment = "the logo"
	updated, err := api.AddAttachment(ctx, page, created, strings.NewReader("PNG"))
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version.Number)

	assert.Equal(t, []string{
		"/wiki/rest/api/content/1/child/attachment",
		"/wiki/rest/api/content/1/child/attachment/att9/data",
	}, paths)
}

func TestGetAttachment(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "logo.png", r.URL.Query().Get("filename"))
		writeJSON(t, w, MultiAttachmentResponse{Results: []Attachment{{ID: "a", Title: "logo.png", Version: &Version{Number: 2}}}})
	})
	ctx := context.Background()

	att, err := api.GetAttachment(ctx, "1", "logo.png", 0)
	require.NoError(t, err)
	assert.Equal(t, "a", att.ID)

	_, err = api.GetAttachment(ctx, "1", "logo.png", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddLabels(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wiki/rest/api/content/1/label", r.URL.Path)
		var in []Label
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, []Label{{Prefix: "global", Name: "docs"}}, in)
		writeJSON(t, w, labelResponse{Results: in})
	})

	require.NoError(t, api.AddLabels(context.Background(), "1", []string{"docs"}))
	require.NoError(t, api.AddLabels(context.Background(), "1", nil))
}

func TestListAllSpaces(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wiki/rest/api/space", r.URL.Path)
		assert.Equal(t, "global", r.URL.Query().Get("type"))

		resp := AllSpaces{}
		if r.URL.Query().Get("start") == "" {
			resp.Results = []Space{{ID: 1, Key: "DOC", Name: "Docs"}}
			resp.Links.Next = "/rest/api/space?start=25&type=global"
		} else {
			resp.Results = []Space{{ID: 2, Key: "ENG", Name: "Engineering"}}
		}
		writeJSON(t, w, resp)
	})

	spaces, err := api.ListAllSpaces(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, spaces, 2)
	assert.Equal(t, "Engineering", spaces["ENG"].Name)
}

func TestFindPageByTitle(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wiki/rest/api/content/1/child/page", r.URL.Path)
		writeJSON(t, w, MultiPageResponse{Results: []Page{
			{ID: "2", Title: "first", Version: &Version{Number: 3}},
			{ID: "3", Title: "second"},
		}})
	})
	ctx := context.Background()

	found, err := api.FindPageByTitle(ctx, "1", "first")
	require.NoError(t, err)
	assert.Equal(t, &PageSummary{ID: "2", Title: "first", ParentID: "1", Version: 3}, found)

	_, err = api.FindPageByTitle(ctx, "1", "third")
	assert.ErrorIs(t, err, ErrNotFound)
}
