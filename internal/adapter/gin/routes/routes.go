// Package routes holds the named-route table of the service and a URL
// builder resolved against it. Handlers use it to emit Location
// references and pagination links without hardcoding paths.
package routes

import (
	"fmt"
	"net/url"
	"strings"
)

// Named routes of the user resource.
const (
	GetUserByID = "GetUserById"
	GetUsers    = "GetUsers"
)

// table maps route names to their registered gin patterns.
var table = map[string]string{
	GetUserByID: "/api/users/:userId",
	GetUsers:    "/api/users",
}

// Pattern returns the gin pattern registered under a route name.
func Pattern(name string) (string, bool) {
	p, ok := table[name]
	return p, ok
}

// URL builds the URI for a named route, substituting path parameters
// and appending query values.
func URL(name string, params map[string]string, query url.Values) (string, error) {
	pattern, ok := table[name]
	if !ok {
		return "", fmt.Errorf("unknown route %q", name)
	}

	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		key := seg[1:]
		value, ok := params[key]
		if !ok {
			return "", fmt.Errorf("route %q: missing parameter %q", name, key)
		}
		segments[i] = url.PathEscape(value)
	}

	u := strings.Join(segments, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u, nil
}
