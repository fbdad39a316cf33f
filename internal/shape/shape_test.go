package shape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllShapesValidate(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range All() {
		require.NoError(t, def.Validate(), "shape %s", def.Name)
		require.False(t, seen[def.Name], "duplicate shape name %s", def.Name)
		seen[def.Name] = true
	}
}

func TestAllShapeURLsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range All() {
		require.False(t, seen[def.URL], "duplicate shape url %s", def.URL)
		seen[def.URL] = true
	}
}

func TestValidateRejectsArityMismatch(t *testing.T) {
	def := Definition{
		Name:        "bad",
		Table:       "issues",
		WhereClause: `"project_id" = $1 AND "status_id" = $2`,
		Params:      []string{"project_id"},
		URL:         "/shape/bad",
		Collection:  "issues",
	}
	err := def.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "2 placeholders but 1 params")
}

func TestValidateRejectsGapInOrdinals(t *testing.T) {
	def := Definition{
		Name:        "gap",
		Table:       "issues",
		WhereClause: `"project_id" = $1 AND "status_id" = $3`,
		Params:      []string{"project_id", "status_id"},
		URL:         "/shape/gap",
		Collection:  "issues",
	}
	err := def.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing placeholder $2")
}

func TestValidateRejectsMissingFields(t *testing.T) {
	def := Definition{Name: "incomplete"}
	require.Error(t, def.Validate())
}

func TestRepeatedPlaceholderCountsOnce(t *testing.T) {
	def := Definition{
		Name:        "repeat",
		Table:       "workspaces",
		WhereClause: `"owner_user_id" = $1 OR "created_by" = $1`,
		Params:      []string{"user_id"},
		URL:         "/shape/repeat",
		Collection:  "workspaces",
	}
	require.NoError(t, def.Validate())
}

func TestScopePathVarMatchesShapeURLs(t *testing.T) {
	// Project- and issue-scoped shapes carry the scope's path variable in
	// their URL; the others never do.
	for _, def := range All() {
		hasProject := strings.Contains(def.URL, "{project_id}")
		hasIssue := strings.Contains(def.URL, "{issue_id}")
		require.False(t, hasProject && hasIssue, "shape %s mixes path scopes", def.Name)
	}
	require.Equal(t, "project_id", ScopeProject.PathVar())
	require.Equal(t, "issue_id", ScopeIssue.PathVar())
	require.Empty(t, ScopeOrg.PathVar())
	require.Empty(t, ScopeOrgWithUser.PathVar())
	require.Empty(t, ScopeUser.PathVar())
}
