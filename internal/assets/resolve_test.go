package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	r := NewResolver("http://api.local:8000/")

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"absolute http", "http://cdn.example.com/a.png", "http://cdn.example.com/a.png"},
		{"absolute https", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"relative with slash", "/media/event_posters/a.png", "http://api.local:8000/media/event_posters/a.png"},
		{"relative without slash", "media/a.png", "http://api.local:8000/media/a.png"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.Resolve(tc.in))
		})
	}
}

func TestResolve_PrefixesOnce(t *testing.T) {
	r := NewResolver("http://api.local:8000")

	once := r.Resolve("/media/a.png")
	assert.Equal(t, once, r.Resolve(once), "resolving an already resolved URL must not prefix again")
}

func TestResolveOr(t *testing.T) {
	r := NewResolver("http://api.local")
	empty := ""
	rel := "/media/logo.png"

	assert.Equal(t, Placeholder, r.ResolveOr(nil, Placeholder))
	assert.Equal(t, Placeholder, r.ResolveOr(&empty, Placeholder))
	assert.Equal(t, "http://api.local/media/logo.png", r.ResolveOr(&rel, Placeholder))
}
