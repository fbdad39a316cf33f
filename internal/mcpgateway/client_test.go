package mcpgateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGatewayClientForwardsTokenAndQuery(t *testing.T) {
	orgID := uuid.New()
	var gotAuth string
	var gotQuery url.Values

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"projects":[{"id":"` + uuid.New().String() + `","organization_id":"` + orgID.String() + `","name":"alpha"}]}`))
	}))
	defer gateway.Close()

	client := newGatewayClient(gateway.URL, "tok-123", time.Second)
	var out ProjectsOutput
	err := client.get(context.Background(), "/fallback/projects", OrgInput{OrganizationID: orgID.String()}.query(), &out)
	require.NoError(t, err)

	require.Equal(t, "Bearer tok-123", gotAuth)
	require.Equal(t, orgID.String(), gotQuery.Get("organization_id"))
	require.Len(t, out.Projects, 1)
	require.Equal(t, "alpha", out.Projects[0].Name)
}

func TestGatewayClientSurfacesErrorStatus(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
	}))
	defer gateway.Close()

	client := newGatewayClient(gateway.URL, "tok-123", time.Second)
	var out ProjectsOutput
	err := client.get(context.Background(), "/fallback/projects", nil, &out)
	require.Error(t, err)
	require.Contains(t, err.Error(), "403")
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestNoInputQueryIsEmpty(t *testing.T) {
	require.Nil(t, NoInput{}.query())
	require.Equal(t, "iss-1", IssueInput{IssueID: "iss-1"}.query().Get("issue_id"))
	require.Equal(t, "prj-1", ProjectInput{ProjectID: "prj-1"}.query().Get("project_id"))
}
