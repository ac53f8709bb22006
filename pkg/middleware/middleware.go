// Package middleware provides composable net/http middleware: request IDs,
// CORS, and request logging.
package middleware

import "net/http"

// Func wraps a handler with additional behavior.
type Func = func(http.Handler) http.Handler

// System is an ordered middleware stack. The first middleware added runs
// first on the way in.
type System interface {
	Use(mw Func)
	Apply(handler http.Handler) http.Handler
}

type stack []Func

func New() System {
	return &stack{}
}

func (s *stack) Use(mw Func) {
	*s = append(*s, mw)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(*s) - 1; i >= 0; i-- {
		handler = (*s)[i](handler)
	}
	return handler
}
