package npm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/oborchers/mcp-server-pacman/internal/errors"
	"github.com/oborchers/mcp-server-pacman/internal/httpclient"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
	"github.com/oborchers/mcp-server-pacman/internal/provider"
)

func serveTestData(t *testing.T, filename string) http.HandlerFunc {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", filename))
	require.NoError(t, err, "should be able to read testdata file")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}
}

func newTestProvider(t *testing.T, mux *http.ServeMux) *Provider {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := httpclient.New(hclog.NewNullLogger())
	require.NoError(t, err)

	p, err := NewProvider(hclog.NewNullLogger(), client, provider.WithBaseURL(server.URL))
	require.NoError(t, err)
	return p
}

func TestProvider_Search(t *testing.T) {
	t.Parallel()

	var gotQuery string
	search := serveTestData(t, "search.json")
	mux := http.NewServeMux()
	mux.HandleFunc("GET /-/v1/search", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		search(w, r)
	})
	p := newTestProvider(t, mux)

	results, err := p.Search(context.Background(), "express", 2)
	require.NoError(t, err)
	require.Equal(t, "size=2&text=express", gotQuery)
	require.Len(t, results, 2, "results are truncated to the limit")

	require.Equal(t, packages.Summary{
		Index:       packages.IndexNpm,
		Name:        "express",
		Version:     "4.18.2",
		Description: "Fast, unopinionated, minimalist web framework",
		Publisher:   "dougwilson",
		Date:        "2022-10-08T20:11:07.455Z",
		Links: map[string]string{
			"npm":        "https://www.npmjs.com/package/express",
			"homepage":   "http://expressjs.com/",
			"repository": "https://github.com/expressjs/express",
		},
	}, results[0])

	require.Equal(t, "express-session", results[1].Name)
	require.Empty(t, results[1].Description)
	require.Empty(t, results[1].Publisher)

	// Hits missing optional fields still carry every npm search key.
	require.ElementsMatch(t,
		[]string{"name", "version", "description", "publisher", "date", "links"},
		encodedKeys(t, results[1]),
	)
}

func TestProvider_Search_Status(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /-/v1/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	p := newTestProvider(t, mux)

	_, err := p.Search(context.Background(), "express", 5)
	require.EqualError(t, err, "failed to search npm - status code 503")
}

func TestProvider_Info_Latest(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /express", serveTestData(t, "express.json"))
	p := newTestProvider(t, mux)

	info, err := p.Info(context.Background(), "express", "")
	require.NoError(t, err)
	require.Equal(t, packages.Details{
		Index:        packages.IndexNpm,
		Name:         "express",
		Version:      "4.18.2",
		Description:  "Fast, unopinionated, minimalist web framework",
		Author:       "TJ Holowaychuk <tj@vision-media.ca>",
		Homepage:     "http://expressjs.com/",
		License:      "MIT",
		Dependencies: map[string]string{"accepts": "~1.3.8", "body-parser": "1.20.1"},
		Versions:     []string{"4.17.0", "5.0.0-beta.1", "4.18.2"},
	}, info)
}

func TestProvider_Info_Version(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /express/4.17.0", serveTestData(t, "express-4.17.0.json"))
	p := newTestProvider(t, mux)

	info, err := p.Info(context.Background(), "express", "4.17.0")
	require.NoError(t, err)
	require.Equal(t, packages.Details{
		Index:        packages.IndexNpm,
		Name:         "express",
		Version:      "4.17.0",
		Description:  "Fast, unopinionated, minimalist web framework",
		Author:       "TJ Holowaychuk <tj@vision-media.ca>",
		Homepage:     "http://expressjs.com/",
		License:      "MIT",
		Dependencies: map[string]string{"accepts": "~1.3.7"},
	}, info)
	require.Nil(t, info.Versions, "versions are only listed for the latest lookup")
}

func TestProvider_Info_EncodedKeys(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /tiny/1.0.0", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"tiny","version":"1.0.0","license":"ISC"}`))
	})
	mux.HandleFunc("GET /express", serveTestData(t, "express.json"))
	p := newTestProvider(t, mux)

	info, err := p.Info(context.Background(), "tiny", "1.0.0")
	require.NoError(t, err)
	require.ElementsMatch(t,
		[]string{"name", "version", "description", "author", "homepage", "license", "dependencies"},
		encodedKeys(t, info),
	)

	b, err := json.Marshal(info)
	require.NoError(t, err)
	require.JSONEq(t,
		`{"name":"tiny","version":"1.0.0","description":"","author":"","homepage":"","license":"ISC","dependencies":{}}`,
		string(b),
	)

	latest, err := p.Info(context.Background(), "express", "")
	require.NoError(t, err)
	require.ElementsMatch(t,
		[]string{"name", "version", "description", "author", "homepage", "license", "dependencies", "versions"},
		encodedKeys(t, latest),
	)
}

func encodedKeys(t *testing.T, v any) []string {
	t.Helper()

	b, err := json.Marshal(v)
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &m))

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func TestProvider_Info_NotFound(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /nonexistent-package", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found"}`))
	})
	p := newTestProvider(t, mux)

	_, err := p.Info(context.Background(), "nonexistent-package", "")
	require.EqualError(t, err, "failed to get package info from npm - status code 404")
	require.ErrorIs(t, err, errors.ErrPackageNotFound)
}

func TestPerson_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tc := []struct {
		name     string
		input    string
		expected Person
	}{
		{name: "string", input: `"Jane Doe <jane@example.com>"`, expected: "Jane Doe <jane@example.com>"},
		{name: "object with email", input: `{"name": "Jane Doe", "email": "jane@example.com"}`, expected: "Jane Doe <jane@example.com>"},
		{name: "object without email", input: `{"name": "Jane Doe", "url": "https://example.com"}`, expected: "Jane Doe"},
		{name: "null", input: `null`, expected: ""},
		{name: "unexpected shape", input: `["Jane"]`, expected: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var p Person
			require.NoError(t, json.Unmarshal([]byte(tt.input), &p))
			require.Equal(t, tt.expected, p)
		})
	}
}

func TestLicense_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var l License
	require.NoError(t, json.Unmarshal([]byte(`"ISC"`), &l))
	require.Equal(t, License("ISC"), l)

	require.NoError(t, json.Unmarshal([]byte(`{"type": "BSD-2-Clause"}`), &l))
	require.Equal(t, License("BSD-2-Clause"), l)
}

func TestPackument_WithoutLatest(t *testing.T) {
	t.Parallel()

	var doc Packument
	require.NoError(t, json.Unmarshal([]byte(`{"name": "unpublished"}`), &doc))

	d, err := doc.ToDomainType()
	require.NoError(t, err)
	require.Equal(t, "unpublished", d.Name)
	require.Empty(t, d.Version)
	require.Equal(t, []string{}, d.Versions)
	require.Equal(t, map[string]string{}, d.Dependencies)
}
