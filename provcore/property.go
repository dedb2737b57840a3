package provcore

import (
	"strings"

	"github.com/pkg/errors"
)

// PropertyQuery is a parsed property query, a comma separated list of
// "name=value" and "name!=value" terms, e.g. "provider!=ovpn.xkey".
// The zero value matches any property definition.
type PropertyQuery []propertyTerm

type propertyTerm struct {
	name   string
	value  string
	negate bool
}

// ParsePropertyQuery parses a property query string.
func ParsePropertyQuery(query string) (PropertyQuery, error) {
	var pq PropertyQuery

	query = strings.TrimSpace(query)
	if query == "" {
		return pq, nil
	}

	for _, term := range strings.Split(query, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}

		negate := false
		idx := strings.Index(term, "!=")
		if idx >= 0 {
			negate = true
		} else {
			idx = strings.Index(term, "=")
			if idx < 0 {
				return nil, errors.Errorf("invalid property term: %q", term)
			}
		}

		name := strings.TrimSpace(term[:idx])
		value := term[idx+1:]
		if negate {
			value = term[idx+2:]
		}
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			return nil, errors.Errorf("invalid property term: %q", term)
		}

		pq = append(pq, propertyTerm{name: name, value: value, negate: negate})
	}

	return pq, nil
}

// Match reports whether an algorithm property definition satisfies the query.
// A "name=value" term requires the definition to carry that exact property;
// a "name!=value" term is satisfied when the property is absent or different.
func (q PropertyQuery) Match(definition string) bool {
	props := parseDefinition(definition)
	for _, t := range q {
		v, ok := props[t.name]
		if t.negate {
			if ok && v == t.value {
				return false
			}
			continue
		}
		if !ok || v != t.value {
			return false
		}
	}
	return true
}

// parseDefinition parses a property definition such as "provider=builtin".
// Malformed terms are skipped: definitions are produced by providers, not
// user input.
func parseDefinition(definition string) map[string]string {
	props := map[string]string{}
	for _, term := range strings.Split(definition, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		idx := strings.Index(term, "=")
		if idx <= 0 {
			continue
		}
		props[strings.TrimSpace(term[:idx])] = strings.TrimSpace(term[idx+1:])
	}
	return props
}
