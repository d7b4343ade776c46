package check

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiltring/quiltring/internal/conf"
	"github.com/quiltring/quiltring/internal/roster"
)

const testAssetHost = "http://assets.test"

func newTestClient(t *testing.T) *roster.Client {
	t.Helper()

	settings := &conf.RosterSettings{
		BaseURL:   testAssetHost,
		IndexPath: "members.json",
	}

	client := roster.NewClient(settings, nil)
	t.Cleanup(client.Close)

	httpmock.ActivateNonDefault(client.StdClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	return client
}

func register(path string, status int, body string) {
	httpmock.RegisterResponder(http.MethodGet, testAssetHost+path,
		httpmock.NewStringResponder(status, body))
}

func TestRunCheckAllPagesHealthy(t *testing.T) {
	client := newTestClient(t)
	register("/members.json", http.StatusOK, `["mary-oliver"]`)
	register("/mary-oliver/index.html", http.StatusOK, "<h1>Wild Geese</h1>")
	register("/mary-oliver/style.css", http.StatusOK, "h1 {}")

	var out bytes.Buffer
	require.NoError(t, runCheck(context.Background(), client, &out))

	assert.Contains(t, out.String(), "OK      mary-oliver")
	assert.Contains(t, out.String(), "1 checked, 0 broken, 0 without stylesheet")
}

func TestRunCheckBrokenMarkupFails(t *testing.T) {
	client := newTestClient(t)
	register("/members.json", http.StatusOK, `["ghost"]`)
	register("/ghost/index.html", http.StatusNotFound, "not found")
	register("/ghost/style.css", http.StatusOK, "body {}")

	var out bytes.Buffer
	err := runCheck(context.Background(), client, &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 member page(s) are broken")
	assert.Contains(t, out.String(), "BROKEN  ghost")
}

func TestRunCheckMissingStylesheetIsWarning(t *testing.T) {
	client := newTestClient(t)
	register("/members.json", http.StatusOK, `["plain"]`)
	register("/plain/index.html", http.StatusOK, "<h1>Plain</h1>")
	register("/plain/style.css", http.StatusNotFound, "not found")

	var out bytes.Buffer
	require.NoError(t, runCheck(context.Background(), client, &out))

	assert.Contains(t, out.String(), "WARN    plain: no stylesheet")
	assert.Contains(t, out.String(), "1 without stylesheet")
}

func TestRunCheckStylesheetServerErrorIsReported(t *testing.T) {
	client := newTestClient(t)
	register("/members.json", http.StatusOK, `["flaky"]`)
	register("/flaky/index.html", http.StatusOK, "<h1>Flaky</h1>")
	register("/flaky/style.css", http.StatusInternalServerError, "boom")

	var out bytes.Buffer
	require.NoError(t, runCheck(context.Background(), client, &out))

	output := out.String()
	assert.Contains(t, output, "WARN    flaky: stylesheet fetch failed")
	assert.Contains(t, output, "status 500")
	assert.NotContains(t, output, "no stylesheet")
}

func TestRunCheckEmptyIndex(t *testing.T) {
	client := newTestClient(t)
	register("/members.json", http.StatusOK, `[]`)

	var out bytes.Buffer
	require.NoError(t, runCheck(context.Background(), client, &out))

	assert.Contains(t, out.String(), "nothing to check")
}
