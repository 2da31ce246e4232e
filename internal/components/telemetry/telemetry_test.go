package telemetry

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	mem := &Memory{}
	scoped := NewScopedAPI("quote", NewScopedAPI("run", mem))

	scoped.ReportWarning("session.fetch", errors.New("timeout"), "5L/1yr")
	scoped.ReportCount("run.null-premiums", 2)

	warnings := mem.Reports(KindWarning)
	require.Len(t, warnings, 1)
	require.Equal(t, "run: quote: session.fetch", warnings[0].ID)
	require.Equal(t, "5L/1yr", warnings[0].Params[1])

	counts := mem.Reports(KindCount)
	require.Len(t, counts, 1)
	require.Equal(t, int64(2), counts[0].Count)

	require.Len(t, mem.Reports(""), 2)
}

func TestFormatHeaders(t *testing.T) {
	require.Equal(t, "", formatHeaders(http.Header{}))
	require.Equal(t, "Accept: text/html", formatHeaders(http.Header{"Accept": {"text/html"}}))
}

func TestFormatRequestBodyWithoutBody(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://localhost", nil)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "<NO BODY AVAILABLE>", formatRequestBody(req))
}
