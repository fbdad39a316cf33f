// Package proxy forwards shape requests to the upstream sync origin and
// relays the response stream back without buffering.
package proxy

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/crestline/shapegate/internal/metrics"
	"github.com/crestline/shapegate/internal/shape"
)

// transportParams are the only client query keys forwarded upstream. Every
// other key is dropped: the table and predicate always come from the shape
// definition, never from the client.
var transportParams = map[string]bool{
	"offset":  true,
	"handle":  true,
	"live":    true,
	"cursor":  true,
	"columns": true,
}

// Forwarder issues single-shot shape requests against the upstream origin.
// It is safe for concurrent use; the embedded http.Client carries the shared
// connection pool.
type Forwarder struct {
	origin *url.URL
	secret string
	client *http.Client
	log    *slog.Logger
}

// NewForwarder validates the origin base URL up front so a malformed
// configuration fails at startup instead of on the first request.
func NewForwarder(log *slog.Logger, baseURL, secret string) (*Forwarder, error) {
	origin, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid origin url %q: %w", baseURL, err)
	}
	if origin.Scheme != "http" && origin.Scheme != "https" {
		return nil, fmt.Errorf("origin url %q must be http or https", baseURL)
	}

	return &Forwarder{
		origin: origin,
		secret: secret,
		// No overall timeout: live shape requests long-poll. Dial and TLS
		// setup are still bounded by the transport defaults.
		client: &http.Client{},
		log:    log,
	}, nil
}

// upstreamURL builds the origin request URL. table and where are fixed from
// the definition, bound values fill params[1..n], and only allow-listed
// transport-control keys survive from the client query.
func (f *Forwarder) upstreamURL(def shape.Definition, clientQuery url.Values, boundValues []string) string {
	u := *f.origin
	u.Path = "/v1/shape"

	q := url.Values{}
	q.Set("table", def.Table)
	q.Set("where", def.WhereClause)
	for i, v := range boundValues {
		q.Set("params["+strconv.Itoa(i+1)+"]", v)
	}
	for key, values := range clientQuery {
		if !transportParams[key] {
			continue
		}
		for _, v := range values {
			q.Add(key, v)
		}
	}
	if f.secret != "" {
		q.Set("secret", f.secret)
	}

	u.RawQuery = q.Encode()
	return u.String()
}

// Forward proxies one shape request. The upstream request inherits the
// inbound request's context, so a client disconnect cancels the origin
// connection. The response body is relayed chunk by chunk: backpressure from
// a slow client throttles reads from the origin, and nothing proportional to
// the body is ever held in memory.
func (f *Forwarder) Forward(w http.ResponseWriter, r *http.Request, def shape.Definition, boundValues []string) {
	target := f.upstreamURL(def, r.URL.Query(), boundValues)

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		f.log.Error("failed to build origin request", "shape", def.Name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues(def.Name).Inc()
		f.log.Error("failed to connect to sync origin", "shape", def.Name, "error", err)
		http.Error(w, "failed to connect to sync origin", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	header := w.Header()
	for key, values := range resp.Header {
		// Invalidated by the passthrough: the relayed body is re-chunked and
		// never re-encoded.
		if http.CanonicalHeaderKey(key) == "Content-Encoding" || http.CanonicalHeaderKey(key) == "Content-Length" {
			continue
		}
		for _, v := range values {
			header.Add(key, v)
		}
	}
	// Responses differ per authenticated identity and must not be cached
	// across users.
	header.Set("Vary", "Authorization")

	w.WriteHeader(resp.StatusCode)

	if err := relay(w, resp.Body); err != nil {
		// Headers are already sent; the client sees a truncated body.
		f.log.Warn("shape stream interrupted",
			"shape", def.Name,
			"status", resp.StatusCode,
			"elapsed", time.Since(start),
			"error", err)
	}
}

// relay copies the body through a fixed-size buffer, flushing after each
// chunk so live updates reach the client immediately.
func relay(w http.ResponseWriter, body io.Reader) error {
	flusher, _ := w.(http.Flusher)
	buf := make([]byte, 32*1024)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}
