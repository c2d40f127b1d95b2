// Package fakeapi is a scriptable stand-in for the storefront REST backend,
// built on gin and httptest, for use in tests.
//
// Each route is stubbed with a queue of responses: calls consume the queue
// in order and the last response keeps being served. Every request is
// recorded so tests can assert on headers, bodies and call counts.
package fakeapi

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// Prefix is the path every route is mounted under.
const Prefix = "/api"

type Recorded struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Auth returns the Authorization header of the recorded request.
func (r Recorded) Auth() string { return r.Header.Get("Authorization") }

type response struct {
	status      int
	body        any
	raw         []byte
	contentType string
	fn          gin.HandlerFunc
}

type Server struct {
	srv *httptest.Server

	mu       sync.Mutex
	routes   map[string][]response
	requests []Recorded
}

// New starts a server that is shut down when t ends.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{routes: make(map[string][]response)}

	r := gin.New()
	r.NoRoute(s.dispatch)

	s.srv = httptest.NewServer(r)
	t.Cleanup(s.srv.Close)
	return s
}

// URL is the API base URL, including Prefix.
func (s *Server) URL() string { return s.srv.URL + Prefix }

// Stub queues a JSON response for method and path (path without Prefix).
func (s *Server) Stub(method, path string, status int, body any) {
	s.push(method, path, response{status: status, body: body})
}

// StubRaw queues a response with a verbatim body.
func (s *Server) StubRaw(method, path string, status int, contentType string, raw []byte) {
	s.push(method, path, response{status: status, raw: raw, contentType: contentType})
}

// StubFunc queues a custom handler.
func (s *Server) StubFunc(method, path string, fn gin.HandlerFunc) {
	s.push(method, path, response{fn: fn})
}

func (s *Server) push(method, path string, r response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(method, path)
	s.routes[k] = append(s.routes[k], r)
}

func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// Count reports how many requests hit method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Last returns the most recent request; it fails the test if there is none.
func (s *Server) Last(t testing.TB) Recorded {
	t.Helper()
	reqs := s.Requests()
	if len(reqs) == 0 {
		t.Fatalf("fakeapi: no requests recorded")
	}
	return reqs[len(reqs)-1]
}

func (s *Server) dispatch(c *gin.Context) {
	path := strings.TrimPrefix(c.Request.URL.Path, Prefix)
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	s.mu.Lock()
	s.requests = append(s.requests, Recorded{
		Method: c.Request.Method,
		Path:   path,
		Header: c.Request.Header.Clone(),
		Body:   body,
	})
	k := key(c.Request.Method, path)
	queue := s.routes[k]
	var resp response
	found := len(queue) > 0
	if found {
		resp = queue[0]
		if len(queue) > 1 {
			s.routes[k] = queue[1:]
		}
	}
	s.mu.Unlock()

	switch {
	case !found:
		c.JSON(http.StatusNotFound, gin.H{"message": "no stub for " + k})
	case resp.fn != nil:
		resp.fn(c)
	case resp.raw != nil:
		c.Data(resp.status, resp.contentType, resp.raw)
	case resp.body == nil:
		c.Status(resp.status)
	default:
		c.JSON(resp.status, resp.body)
	}
}

func key(method, path string) string { return method + " " + path }
