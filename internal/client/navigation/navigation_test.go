package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	assert.Equal(t, "", r.Last())

	r.Navigate(RouteLogin)
	r.Navigate(RouteAdmin)

	assert.Equal(t, []string{RouteLogin, RouteAdmin}, r.Routes())
	assert.Equal(t, RouteAdmin, r.Last())
}

func TestFunc(t *testing.T) {
	var got string
	Func(func(route string) { got = route }).Navigate(RouteHome)
	assert.Equal(t, RouteHome, got)

	assert.NotPanics(t, func() { Nop.Navigate(RouteHome) })
}
