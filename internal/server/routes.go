package server

import "strings"

// Route identifies the operation a request is dispatched to.
type Route int

const (
	RouteNotFound Route = iota
	RouteCreate
	RouteReadOne
	RouteReadAll
	RouteUpdate
	RouteDelete
)

func (r Route) String() string {
	switch r {
	case RouteCreate:
		return "create"
	case RouteReadOne:
		return "read-one"
	case RouteReadAll:
		return "read-all"
	case RouteUpdate:
		return "update"
	case RouteDelete:
		return "delete"
	default:
		return "not-found"
	}
}

// route is one row of the dispatch table.
type route struct {
	method string
	prefix string
	route  Route
}

// routes is evaluated top to bottom and the first match wins, so
// "/users/" must come before "/users" for GET.
var routes = []route{
	{"POST", "/users", RouteCreate},
	{"GET", "/users/", RouteReadOne},
	{"GET", "/users", RouteReadAll},
	{"PUT", "/users", RouteUpdate},
	{"DELETE", "/users", RouteDelete},
}

// Match returns the route for method and path, or RouteNotFound.
func Match(method, path string) Route {
	for _, r := range routes {
		if method == r.method && strings.HasPrefix(path, r.prefix) {
			return r.route
		}
	}
	return RouteNotFound
}
