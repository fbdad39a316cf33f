// Package server wires the shape catalogue into HTTP routes. Every shape
// gets exactly two GET endpoints sharing one scope policy: a streaming
// proxy route and a buffered REST fallback.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crestline/shapegate/internal/auth"
	"github.com/crestline/shapegate/internal/metrics"
	"github.com/crestline/shapegate/internal/proxy"
	"github.com/crestline/shapegate/internal/shape"
	"github.com/crestline/shapegate/internal/store"
)

// Server holds the request-time dependencies. All fields are read-only after
// New returns; the store pool and the forwarder's HTTP client are safe for
// concurrent use, so requests share them without locking.
type Server struct {
	log       *slog.Logger
	store     store.Store
	forwarder *proxy.Forwarder
	jwtSecret []byte

	router chi.Router
}

// New builds the server and registers every shape route. Registration
// errors (arity mismatch, scope/URL inconsistency, missing fallback,
// catalogue drift) are returned so the process fails before listening.
func New(log *slog.Logger, st store.Store, forwarder *proxy.Forwarder, jwtSecret []byte) (*Server, error) {
	s := &Server{
		log:       log,
		store:     st,
		forwarder: forwarder,
		jwtSecret: jwtSecret,
	}

	routes, err := s.shapeRoutes()
	if err != nil {
		return nil, err
	}
	if err := checkCatalogue(routes); err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.metricsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Get("/readyz", s.handleReadyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(s.jwtSecret))
		for _, route := range routes {
			r.Get(route.Def.URL, s.streamHandler(route))
			r.Get(route.FallbackURL, s.fallbackHandler(route))
		}
	})

	s.router = r
	return s, nil
}

// Router exposes the configured handler for an http.Server.
func (s *Server) Router() http.Handler { return s.router }

// checkCatalogue enforces that the registered routes and the shape registry
// agree exactly: one route per registry entry, no extras, no duplicate
// fallback URLs.
func checkCatalogue(routes []ShapeRoute) error {
	registered := map[string]bool{}
	fallbacks := map[string]bool{}
	for _, route := range routes {
		if registered[route.Def.Name] {
			return fmt.Errorf("shape %q registered twice", route.Def.Name)
		}
		registered[route.Def.Name] = true
		if fallbacks[route.FallbackURL] {
			return fmt.Errorf("fallback url %q registered twice", route.FallbackURL)
		}
		fallbacks[route.FallbackURL] = true
	}
	for _, def := range shape.All() {
		if !registered[def.Name] {
			return fmt.Errorf("shape %q has no registered route", def.Name)
		}
	}
	if len(routes) != len(shape.All()) {
		return fmt.Errorf("%d routes registered for %d shapes", len(routes), len(shape.All()))
	}
	return nil
}

// scopeKeyParam reads a scope key: streaming routes carry it as a path
// variable, fallback routes (fixed URLs) as a query parameter of the same
// name.
func scopeKeyParam(r *http.Request, name string) string {
	if v := chi.URLParam(r, name); v != "" {
		return v
	}
	return r.URL.Query().Get(name)
}

// resolveScope extracts the scope key for the route, runs the scope's
// authorization check, and returns the ordered values to bind into the
// shape's placeholders. It is the single policy point shared by the stream
// and fallback paths; the check always precedes any data access.
func (s *Server) resolveScope(r *http.Request, route ShapeRoute) (bound []string, scopeKey uuid.UUID, rc auth.RequestContext, apiErr *apiError) {
	rc, ok := auth.FromContext(r.Context())
	if !ok {
		// The auth middleware guarantees an identity; reaching here means a
		// wiring bug, not a client error.
		s.log.Error("request context missing authenticated identity", "shape", route.Def.Name)
		return nil, uuid.Nil, rc, errInternal()
	}

	deny := func() *apiError {
		metrics.AuthorizationDeniedTotal.WithLabelValues(route.Def.Name, route.Scope.String()).Inc()
		return errForbidden()
	}

	switch route.Scope {
	case shape.ScopeOrg, shape.ScopeOrgWithUser:
		orgID, err := uuid.Parse(r.URL.Query().Get("organization_id"))
		if err != nil {
			return nil, uuid.Nil, rc, errBadRequest("organization_id query parameter is required")
		}
		member, err := s.store.IsOrganizationMember(r.Context(), orgID, rc.UserID)
		if err != nil {
			s.log.Error("membership check failed", "shape", route.Def.Name, "organization_id", orgID, "error", err)
			return nil, uuid.Nil, rc, errInternal()
		}
		if !member {
			return nil, uuid.Nil, rc, deny()
		}
		bound = []string{orgID.String()}
		if route.Scope == shape.ScopeOrgWithUser {
			bound = append(bound, rc.UserID.String())
		}
		return bound, orgID, rc, nil

	case shape.ScopeProject:
		projectID, err := uuid.Parse(scopeKeyParam(r, "project_id"))
		if err != nil {
			return nil, uuid.Nil, rc, errBadRequest("project_id is required")
		}
		allowed, err := s.store.HasProjectAccess(r.Context(), rc.UserID, projectID)
		if err != nil {
			s.log.Error("project access check failed", "shape", route.Def.Name, "project_id", projectID, "error", err)
			return nil, uuid.Nil, rc, errInternal()
		}
		if !allowed {
			return nil, uuid.Nil, rc, deny()
		}
		return []string{projectID.String()}, projectID, rc, nil

	case shape.ScopeIssue:
		issueID, err := uuid.Parse(scopeKeyParam(r, "issue_id"))
		if err != nil {
			return nil, uuid.Nil, rc, errBadRequest("issue_id is required")
		}
		allowed, err := s.store.HasIssueAccess(r.Context(), rc.UserID, issueID)
		if err != nil {
			s.log.Error("issue access check failed", "shape", route.Def.Name, "issue_id", issueID, "error", err)
			return nil, uuid.Nil, rc, errInternal()
		}
		if !allowed {
			return nil, uuid.Nil, rc, deny()
		}
		return []string{issueID.String()}, issueID, rc, nil

	case shape.ScopeUser:
		// No client-supplied key and no explicit check: the predicate binds
		// the authenticated user id, so the caller only ever sees their own
		// rows.
		return []string{rc.UserID.String()}, rc.UserID, rc, nil

	default:
		s.log.Error("unknown scope", "shape", route.Def.Name, "scope", int(route.Scope))
		return nil, uuid.Nil, rc, errInternal()
	}
}

// streamHandler authorizes the request and hands it to the forwarder.
func (s *Server) streamHandler(route ShapeRoute) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bound, _, _, apiErr := s.resolveScope(r, route)
		if apiErr != nil {
			writeAPIError(w, apiErr)
			return
		}
		s.forwarder.Forward(w, r, route.Def, bound)
	}
}

// fallbackHandler authorizes the request with the same scope descriptor as
// the stream path, then runs the shape's direct query and responds with the
// buffered envelope.
func (s *Server) fallbackHandler(route ShapeRoute) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, scopeKey, rc, apiErr := s.resolveScope(r, route)
		if apiErr != nil {
			writeAPIError(w, apiErr)
			return
		}

		var payload any
		var err error
		switch fb := route.fallback.(type) {
		case OrgFallback:
			payload, err = fb(r.Context(), scopeKey, rc.UserID)
		case ProjectFallback:
			payload, err = fb(r.Context(), scopeKey)
		case IssueFallback:
			payload, err = fb(r.Context(), scopeKey)
		case UserFallback:
			payload, err = fb(r.Context(), rc.UserID)
		default:
			err = errInternal()
		}
		if err != nil {
			var ae *apiError
			if !errors.As(err, &ae) {
				ae = errInternal()
			}
			writeAPIError(w, ae)
			return
		}

		writeJSON(w, http.StatusOK, payload)
	}
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	// A cheap membership probe against a nil pair verifies pool
	// connectivity without touching real data.
	if _, err := s.store.IsOrganizationMember(ctx, uuid.Nil, uuid.Nil); err != nil {
		s.log.Warn("readiness probe failed", "error", err)
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready\n"))
}

// metricsMiddleware records request counts and latency per route pattern.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
