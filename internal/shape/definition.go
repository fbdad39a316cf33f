// Package shape holds the immutable shape catalogue: each shape names one
// streamable row-set as a fixed (table, predicate, params, url) tuple. The
// table and predicate are always set server-side; clients can never influence
// them.
package shape

import (
	"fmt"
	"regexp"
	"strconv"
)

// Definition describes one shape. Values are process-wide constants built at
// startup; there is no mutation path.
type Definition struct {
	// Name identifies the shape in logs and registration errors.
	Name string
	// Table is the physical table streamed by the upstream origin.
	Table string
	// WhereClause is the row predicate with ordinal placeholders ($1, $2, ...)
	// bound positionally from server-derived values.
	WhereClause string
	// Params names each placeholder in order. Its length is authoritative for
	// binding arity.
	Params []string
	// URL is the streaming route pattern, possibly with path variables such
	// as {project_id}.
	URL string
	// Collection is the logical collection name used as the fallback
	// envelope's field name.
	Collection string
}

var placeholderRe = regexp.MustCompile(`\$([0-9]+)`)

// Validate checks the placeholder/param arity invariant: every ordinal
// $1..$n appears in the predicate and n == len(Params). Registration fails
// the process on violation; requests never see a malformed definition.
func (d Definition) Validate() error {
	if d.Name == "" || d.Table == "" || d.URL == "" || d.Collection == "" {
		return fmt.Errorf("shape %q: name, table, url and collection are required", d.Name)
	}

	seen := map[int]bool{}
	for _, m := range placeholderRe.FindAllStringSubmatch(d.WhereClause, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return fmt.Errorf("shape %q: invalid placeholder $%s", d.Name, m[1])
		}
		seen[n] = true
	}

	if len(seen) != len(d.Params) {
		return fmt.Errorf("shape %q: %d placeholders but %d params", d.Name, len(seen), len(d.Params))
	}
	for i := 1; i <= len(d.Params); i++ {
		if !seen[i] {
			return fmt.Errorf("shape %q: missing placeholder $%d", d.Name, i)
		}
	}
	return nil
}
