// Package navigation decouples "go to the login page" style side effects
// from whatever front end is driving the stores.
package navigation

import "sync"

const (
	RouteHome  = "/"
	RouteLogin = "/login"
	RouteAdmin = "/admin"
)

type Navigator interface {
	Navigate(route string)
}

// Func adapts a plain function to Navigator.
type Func func(route string)

func (f Func) Navigate(route string) { f(route) }

// Nop discards navigation.
var Nop Navigator = Func(func(string) {})

// Recorder remembers every route it was sent to.
type Recorder struct {
	mu     sync.Mutex
	routes []string
}

func (r *Recorder) Navigate(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

func (r *Recorder) Routes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.routes...)
}

// Last returns the most recent route, or "".
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.routes) == 0 {
		return ""
	}
	return r.routes[len(r.routes)-1]
}
