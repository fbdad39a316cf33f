package proxy

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/crestline/shapegate/internal/shape"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewForwarderRejectsMalformedOrigin(t *testing.T) {
	_, err := NewForwarder(discardLogger(), "://nope", "")
	require.Error(t, err)

	_, err = NewForwarder(discardLogger(), "ftp://origin.internal", "")
	require.Error(t, err)

	_, err = NewForwarder(discardLogger(), "http://origin.internal:3000", "")
	require.NoError(t, err)
}

func TestUpstreamURLSetsTableAndWhereServerSide(t *testing.T) {
	f, err := NewForwarder(discardLogger(), "http://origin.internal:3000", "")
	require.NoError(t, err)

	projectID := uuid.New().String()
	// Hostile client query: tries to override the table and predicate, and
	// smuggles an unknown key. Only the allow-listed keys may survive.
	clientQuery := url.Values{
		"table":  []string{"users"},
		"where":  []string{"1=1"},
		"offset": []string{"-1"},
		"live":   []string{"true"},
		"evil":   []string{"x"},
	}

	raw := f.upstreamURL(shape.ProjectIssues, clientQuery, []string{projectID})
	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()

	require.Equal(t, "/v1/shape", u.Path)
	require.Equal(t, shape.ProjectIssues.Table, q.Get("table"))
	require.Equal(t, shape.ProjectIssues.WhereClause, q.Get("where"))
	require.Equal(t, projectID, q.Get("params[1]"))
	require.Equal(t, "-1", q.Get("offset"))
	require.Equal(t, "true", q.Get("live"))
	require.Empty(t, q.Get("evil"))
	require.NotContains(t, q, "secret")
}

func TestUpstreamURLBindsValuesPositionally(t *testing.T) {
	f, err := NewForwarder(discardLogger(), "http://origin.internal:3000", "s3cret")
	require.NoError(t, err)

	orgID := uuid.New().String()
	userID := uuid.New().String()
	raw := f.upstreamURL(shape.Notifications, url.Values{}, []string{orgID, userID})
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	query := parsed.Query()
	require.Equal(t, orgID, query.Get("params[1]"))
	require.Equal(t, userID, query.Get("params[2]"))
	require.Equal(t, "s3cret", query.Get("secret"))
}

func TestForwardStreamsBodyAndRewritesHeaders(t *testing.T) {
	var gotQuery url.Values
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Electric-Handle", "h-123")
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Set("Cache-Control", "max-age=60")
		w.WriteHeader(http.StatusOK)
		flusher := w.(http.Flusher)
		for i := 0; i < 3; i++ {
			fmt.Fprintf(w, `{"offset":"%d"}`+"\n", i)
			flusher.Flush()
		}
	}))
	defer origin.Close()

	f, err := NewForwarder(discardLogger(), origin.URL, "")
	require.NoError(t, err)

	projectID := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/shape/project/"+projectID+"/issues?offset=0&table=users", nil)
	rec := httptest.NewRecorder()

	f.Forward(rec, req, shape.ProjectIssues, []string{projectID})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "issues", gotQuery.Get("table"))
	require.Equal(t, "0", gotQuery.Get("offset"))

	// Passthrough headers, minus the ones invalidated by re-chunking.
	require.Equal(t, "h-123", rec.Header().Get("Electric-Handle"))
	require.Equal(t, "max-age=60", rec.Header().Get("Cache-Control"))
	require.Empty(t, rec.Header().Get("Content-Encoding"))
	require.Empty(t, rec.Header().Get("Content-Length"))
	require.Equal(t, "Authorization", rec.Header().Get("Vary"))

	body := rec.Body.String()
	require.Contains(t, body, `{"offset":"0"}`)
	require.Contains(t, body, `{"offset":"2"}`)
}

func TestForwardPreservesUpstreamStatus(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "must-refetch", http.StatusConflict)
	}))
	defer origin.Close()

	f, err := NewForwarder(discardLogger(), origin.URL, "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/shape/projects", nil)
	rec := httptest.NewRecorder()
	f.Forward(rec, req, shape.Projects, []string{uuid.New().String()})

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestForwardReturnsBadGatewayOnConnectFailure(t *testing.T) {
	// Closed immediately so the port refuses connections.
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	originURL := origin.URL
	origin.Close()

	f, err := NewForwarder(discardLogger(), originURL, "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/shape/projects", nil)
	rec := httptest.NewRecorder()
	f.Forward(rec, req, shape.Projects, []string{uuid.New().String()})

	require.Equal(t, http.StatusBadGateway, rec.Code)
}
