package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/crestline/shapegate/internal/shape"
)

// Typed fallback executors, one signature per scope parameter shape. The
// registrar checks at startup that a route's fallback carries the signature
// its scope requires, so an org-scoped shape can never be paired with a
// handler that ignores the organization key.
type (
	// OrgFallback serves Org and OrgWithUser scopes. Plain Org fallbacks
	// ignore userID.
	OrgFallback func(ctx context.Context, orgID, userID uuid.UUID) (any, error)

	// ProjectFallback serves Project-scoped shapes.
	ProjectFallback func(ctx context.Context, projectID uuid.UUID) (any, error)

	// IssueFallback serves Issue-scoped shapes.
	IssueFallback func(ctx context.Context, issueID uuid.UUID) (any, error)

	// UserFallback serves User-scoped shapes; the only key is the
	// authenticated user id.
	UserFallback func(ctx context.Context, userID uuid.UUID) (any, error)
)

// ShapeRoute pairs one shape definition with its authorization scope and
// REST fallback. Built once at startup, immutable afterwards; each route
// installs exactly two GET endpoints (stream + fallback).
type ShapeRoute struct {
	Def         shape.Definition
	Scope       shape.Scope
	FallbackURL string

	fallback any
}

// newShapeRoute validates the pairing. Any violation is a configuration
// error and fails startup; requests never observe an inconsistent route.
func newShapeRoute(def shape.Definition, scope shape.Scope, fallbackURL string, fallback any) (ShapeRoute, error) {
	if err := def.Validate(); err != nil {
		return ShapeRoute{}, err
	}
	if fallbackURL == "" || !strings.HasPrefix(fallbackURL, "/") {
		return ShapeRoute{}, fmt.Errorf("shape %q: fallback url %q must be an absolute path", def.Name, fallbackURL)
	}

	if pathVar := scope.PathVar(); pathVar != "" {
		if !strings.Contains(def.URL, "{"+pathVar+"}") {
			return ShapeRoute{}, fmt.Errorf("shape %q: scope %s requires {%s} in url %q", def.Name, scope, pathVar, def.URL)
		}
	} else if strings.Contains(def.URL, "{") {
		return ShapeRoute{}, fmt.Errorf("shape %q: scope %s takes no path variable but url is %q", def.Name, scope, def.URL)
	}

	ok := false
	switch scope {
	case shape.ScopeOrg, shape.ScopeOrgWithUser:
		_, ok = fallback.(OrgFallback)
	case shape.ScopeProject:
		_, ok = fallback.(ProjectFallback)
	case shape.ScopeIssue:
		_, ok = fallback.(IssueFallback)
	case shape.ScopeUser:
		_, ok = fallback.(UserFallback)
	}
	if !ok {
		return ShapeRoute{}, fmt.Errorf("shape %q: fallback handler %T does not match scope %s", def.Name, fallback, scope)
	}

	return ShapeRoute{Def: def, Scope: scope, FallbackURL: fallbackURL, fallback: fallback}, nil
}

// envelope wraps rows in the shape's collection field. A nil slice still
// serializes as an empty array: clients treat the fallback as a one-shot
// materialization of the stream and expect the collection to be present.
func envelope[T any](collection string, rows []T) map[string][]T {
	if rows == nil {
		rows = []T{}
	}
	return map[string][]T{collection: rows}
}
