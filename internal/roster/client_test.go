package roster

import (
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiltring/quiltring/internal/conf"
)

const testBaseURL = "http://assets.test"

// newTestClient creates a roster client with a mock transport installed.
func newTestClient(t *testing.T, opts ...func(*conf.RosterSettings)) *Client {
	t.Helper()

	settings := &conf.RosterSettings{
		BaseURL:      testBaseURL,
		IndexPath:    "members.json",
		BasePath:     "members",
		FetchTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(settings)
	}

	client := NewClient(settings, nil)
	t.Cleanup(client.Close)

	httpmock.ActivateNonDefault(client.httpClient.StdClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	return client
}

func TestClient_URLs(t *testing.T) {
	client := newTestClient(t)

	assert.Equal(t, testBaseURL+"/members.json", client.IndexURL())
	assert.Equal(t, testBaseURL+"/orpheus/index.html", client.MarkupURL("orpheus"))
	assert.Equal(t, testBaseURL+"/orpheus/style.css", client.StylesheetURL("orpheus"))
}

func TestFetchIndex_Success(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder("GET", testBaseURL+"/members.json",
		httpmock.NewStringResponder(http.StatusOK, `["a","b"]`))

	slugs, err := client.FetchIndex(t.Context())

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, slugs)
}

func TestFetchIndex_Empty(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder("GET", testBaseURL+"/members.json",
		httpmock.NewStringResponder(http.StatusOK, `[]`))

	slugs, err := client.FetchIndex(t.Context())

	require.NoError(t, err, "empty index is a success, not an error")
	assert.Empty(t, slugs)
}

func TestFetchIndex_PreservesOrderAndDuplicates(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder("GET", testBaseURL+"/members.json",
		httpmock.NewStringResponder(http.StatusOK, `["zed","alpha","zed"]`))

	slugs, err := client.FetchIndex(t.Context())

	require.NoError(t, err)
	assert.Equal(t, []string{"zed", "alpha", "zed"}, slugs, "index order is display order, no dedup")
}

func TestFetchIndex_HTTPError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"not_found", http.StatusNotFound},
		{"forbidden", http.StatusForbidden},
		{"internal_server_error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t)
			httpmock.RegisterResponder("GET", testBaseURL+"/members.json",
				httpmock.NewStringResponder(tt.statusCode, "nope"))

			slugs, err := client.FetchIndex(t.Context())

			require.Error(t, err)
			assert.Nil(t, slugs)
			assert.NotEmpty(t, err.Error())
		})
	}
}

func TestFetchIndex_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid_json", `{invalid`},
		{"not_an_array", `{"members": []}`},
		{"non_string_entry", `["a", 42]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t)
			httpmock.RegisterResponder("GET", testBaseURL+"/members.json",
				httpmock.NewStringResponder(http.StatusOK, tt.body))

			slugs, err := client.FetchIndex(t.Context())

			require.Error(t, err)
			assert.Nil(t, slugs)
		})
	}
}

func TestFetchMarkup_Success(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder("GET", testBaseURL+"/orpheus/index.html",
		httpmock.NewStringResponder(http.StatusOK, "<h1>Orpheus</h1>"))

	markup, err := client.FetchMarkup(t.Context(), "orpheus")

	require.NoError(t, err)
	assert.Equal(t, "<h1>Orpheus</h1>", markup)
}

func TestFetchMarkup_NotFoundNamesResource(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder("GET", testBaseURL+"/ghost/index.html",
		httpmock.NewStringResponder(http.StatusNotFound, ""))

	markup, err := client.FetchMarkup(t.Context(), "ghost")

	require.Error(t, err)
	assert.Empty(t, markup)
	assert.Contains(t, err.Error(), "/ghost/index.html", "error message names the missing resource")
}

func TestFetchStylesheet(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder("GET", testBaseURL+"/orpheus/style.css",
		httpmock.NewStringResponder(http.StatusOK, "body { color: plum }"))

	style, err := client.FetchStylesheet(t.Context(), "orpheus")

	require.NoError(t, err)
	assert.Equal(t, "body { color: plum }", style)
}

func TestFetchStylesheet_Missing(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder("GET", testBaseURL+"/orpheus/style.css",
		httpmock.NewStringResponder(http.StatusNotFound, ""))

	style, err := client.FetchStylesheet(t.Context(), "orpheus")

	require.Error(t, err)
	assert.Empty(t, style)
}

func TestFetch_CacheServesSecondRequest(t *testing.T) {
	client := newTestClient(t, func(s *conf.RosterSettings) {
		s.CacheTTL = time.Minute
	})
	httpmock.RegisterResponder("GET", testBaseURL+"/orpheus/index.html",
		httpmock.NewStringResponder(http.StatusOK, "<h1>Orpheus</h1>"))

	first, err := client.FetchMarkup(t.Context(), "orpheus")
	require.NoError(t, err)

	second, err := client.FetchMarkup(t.Context(), "orpheus")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, httpmock.GetTotalCallCount(), "second request must be served from cache")
}

func TestFetch_ErrorsNotCached(t *testing.T) {
	client := newTestClient(t, func(s *conf.RosterSettings) {
		s.CacheTTL = time.Minute
	})
	httpmock.RegisterResponder("GET", testBaseURL+"/orpheus/index.html",
		httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	_, err := client.FetchMarkup(t.Context(), "orpheus")
	require.Error(t, err)

	_, err = client.FetchMarkup(t.Context(), "orpheus")
	require.Error(t, err)

	assert.Equal(t, 2, httpmock.GetTotalCallCount(), "failed responses are never cached")
}
