package fakeapi

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestServer_QueueKeepsLastResponse(t *testing.T) {
	s := New(t)
	s.Stub(http.MethodGet, "/products", http.StatusOK, gin.H{"n": 1})
	s.Stub(http.MethodGet, "/products", http.StatusOK, gin.H{"n": 2})

	_, b1 := get(t, s.URL()+"/products")
	_, b2 := get(t, s.URL()+"/products")
	_, b3 := get(t, s.URL()+"/products")

	assert.JSONEq(t, `{"n":1}`, b1)
	assert.JSONEq(t, `{"n":2}`, b2)
	assert.JSONEq(t, `{"n":2}`, b3)
	assert.Equal(t, 3, s.Count(http.MethodGet, "/products"))
}

func TestServer_UnstubbedRouteIs404(t *testing.T) {
	s := New(t)
	code, body := get(t, s.URL()+"/nowhere")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body, "no stub")
}

func TestServer_RecordsRequest(t *testing.T) {
	s := New(t)
	s.StubRaw(http.MethodPost, "/echo", http.StatusCreated, "text/plain", []byte("ok"))

	req, err := http.NewRequest(http.MethodPost, s.URL()+"/echo", strings.NewReader("payload"))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer t")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	last := s.Last(t)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/echo", last.Path)
	assert.Equal(t, "Bearer t", last.Auth())
	assert.Equal(t, "payload", string(last.Body))
}

func TestServer_StubFunc(t *testing.T) {
	s := New(t)
	s.StubFunc(http.MethodGet, "/who", func(c *gin.Context) {
		c.String(http.StatusTeapot, c.GetHeader("X-Request-ID"))
	})

	code, _ := get(t, s.URL()+"/who")
	assert.Equal(t, http.StatusTeapot, code)
}
