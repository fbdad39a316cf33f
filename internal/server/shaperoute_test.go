package server

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/crestline/shapegate/internal/shape"
)

func orgFallbackStub(context.Context, uuid.UUID, uuid.UUID) (any, error) { return nil, nil }
func projectFallbackStub(context.Context, uuid.UUID) (any, error)       { return nil, nil }

func TestNewShapeRouteAcceptsMatchingScope(t *testing.T) {
	_, err := newShapeRoute(shape.Projects, shape.ScopeOrg, "/fallback/projects", OrgFallback(orgFallbackStub))
	require.NoError(t, err)

	_, err = newShapeRoute(shape.ProjectIssues, shape.ScopeProject, "/fallback/issues", ProjectFallback(projectFallbackStub))
	require.NoError(t, err)
}

func TestNewShapeRouteRejectsFallbackScopeMismatch(t *testing.T) {
	// An org-scoped shape paired with a project-parameter fallback would
	// silently drop the organization key; registration must refuse it.
	_, err := newShapeRoute(shape.Projects, shape.ScopeOrg, "/fallback/projects", ProjectFallback(projectFallbackStub))
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not match scope")
}

func TestNewShapeRouteRejectsMissingPathVariable(t *testing.T) {
	def := shape.Projects // URL has no {project_id}
	_, err := newShapeRoute(def, shape.ScopeProject, "/fallback/projects", ProjectFallback(projectFallbackStub))
	require.Error(t, err)
	require.Contains(t, err.Error(), "requires {project_id}")
}

func TestNewShapeRouteRejectsUnexpectedPathVariable(t *testing.T) {
	_, err := newShapeRoute(shape.ProjectIssues, shape.ScopeOrg, "/fallback/issues", OrgFallback(orgFallbackStub))
	require.Error(t, err)
	require.Contains(t, err.Error(), "takes no path variable")
}

func TestNewShapeRouteRejectsInvalidDefinition(t *testing.T) {
	def := shape.Definition{
		Name:        "broken",
		Table:       "issues",
		WhereClause: `"project_id" = $1 AND "org_id" = $2`,
		Params:      []string{"project_id"},
		URL:         "/shape/broken",
		Collection:  "issues",
	}
	_, err := newShapeRoute(def, shape.ScopeOrg, "/fallback/broken", OrgFallback(orgFallbackStub))
	require.Error(t, err)
}

func TestNewShapeRouteRejectsRelativeFallbackURL(t *testing.T) {
	_, err := newShapeRoute(shape.Projects, shape.ScopeOrg, "fallback/projects", OrgFallback(orgFallbackStub))
	require.Error(t, err)
}

func TestCheckCatalogueRejectsDrift(t *testing.T) {
	route, err := newShapeRoute(shape.Projects, shape.ScopeOrg, "/fallback/projects", OrgFallback(orgFallbackStub))
	require.NoError(t, err)

	err = checkCatalogue([]ShapeRoute{route})
	require.Error(t, err)
	require.Contains(t, err.Error(), "has no registered route")

	err = checkCatalogue([]ShapeRoute{route, route})
	require.Error(t, err)
	require.Contains(t, err.Error(), "registered twice")
}
