package shape

// Scope is the authorization and parameter-binding pattern for a shape
// route. Each variant fixes where the scope key comes from, which access
// check runs before any query, and which values bind the shape's
// placeholders. The bound values stay an ordered list rather than a fixed
// arity so future scopes can bind more than two.
type Scope int

const (
	// ScopeOrg reads organization_id from the query string, requires
	// organization membership, and binds [organization_id].
	ScopeOrg Scope = iota

	// ScopeOrgWithUser is ScopeOrg plus the authenticated user id appended
	// to the bound values: [organization_id, user_id]. Used when the
	// predicate also filters rows to the requesting user.
	ScopeOrgWithUser

	// ScopeProject reads {project_id} from the URL path, requires project
	// access, and binds [project_id].
	ScopeProject

	// ScopeIssue reads {issue_id} from the URL path, requires access to the
	// issue's owning project, and binds [issue_id].
	ScopeIssue

	// ScopeUser takes no client-supplied key. No explicit check: the
	// predicate always binds the authenticated user id, so users only ever
	// see their own rows. Binds [user_id].
	ScopeUser
)

func (s Scope) String() string {
	switch s {
	case ScopeOrg:
		return "org"
	case ScopeOrgWithUser:
		return "org_with_user"
	case ScopeProject:
		return "project"
	case ScopeIssue:
		return "issue"
	case ScopeUser:
		return "user"
	default:
		return "unknown"
	}
}

// PathVar returns the URL path variable the scope requires, or "" when the
// scope key does not come from the path.
func (s Scope) PathVar() string {
	switch s {
	case ScopeProject:
		return "project_id"
	case ScopeIssue:
		return "issue_id"
	default:
		return ""
	}
}
