package urlx

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		base      string
		want      string
	}{
		{
			name:      "protocol relative",
			candidate: "//cdn.example.com/a.js",
			base:      "https://site.test/page",
			want:      "https://cdn.example.com/a.js",
		},
		{
			name:      "root relative",
			candidate: "/a/b.png",
			base:      "https://site.test/x/y",
			want:      "https://site.test/a/b.png",
		},
		{
			name:      "parent relative",
			candidate: "../img.png",
			base:      "https://site.test/a/b/",
			want:      "https://site.test/a/img.png",
		},
		{
			name:      "plain relative",
			candidate: "img.png",
			base:      "https://site.test/a/b/",
			want:      "https://site.test/a/b/img.png",
		},
		{
			name:      "already absolute",
			candidate: "https://other.test/x",
			base:      "https://site.test/",
			want:      "https://other.test/x",
		},
		{
			name:      "absolute http",
			candidate: "http://other.test/x",
			base:      "https://site.test/",
			want:      "http://other.test/x",
		},
		{
			name:      "data URI unchanged",
			candidate: "data:image/png;base64,AAAA",
			base:      "https://site.test/",
			want:      "data:image/png;base64,AAAA",
		},
		{
			name:      "blob unchanged",
			candidate: "blob:https://site.test/uuid",
			base:      "https://site.test/",
			want:      "blob:https://site.test/uuid",
		},
		{
			name:      "javascript unchanged",
			candidate: "javascript:void(0)",
			base:      "https://site.test/",
			want:      "javascript:void(0)",
		},
		{
			name:      "fragment unchanged",
			candidate: "#section",
			base:      "https://site.test/page",
			want:      "#section",
		},
		{
			name:      "mailto unchanged",
			candidate: "mailto:a@b.test",
			base:      "https://site.test/",
			want:      "mailto:a@b.test",
		},
		{
			name:      "tel unchanged",
			candidate: "tel:+123456",
			base:      "https://site.test/",
			want:      "tel:+123456",
		},
		{
			name:      "empty unchanged",
			candidate: "",
			base:      "https://site.test/",
			want:      "",
		},
		{
			name:      "root relative keeps port",
			candidate: "/app.js",
			base:      "https://site.test:8443/page",
			want:      "https://site.test:8443/app.js",
		},
		{
			name:      "relative with query and fragment",
			candidate: "next?page=2#top",
			base:      "https://site.test/list/",
			want:      "https://site.test/list/next?page=2#top",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := mustParse(t, tt.base)
			assert.Equal(t, tt.want, Resolve(tt.candidate, base))
		})
	}
}

func TestResolveIdempotent(t *testing.T) {
	base := mustParse(t, "https://site.test/a/b/")

	candidates := []string{
		"//cdn.example.com/a.js",
		"/a/b.png",
		"../img.png",
		"img.png",
		"https://other.test/x",
		"data:image/png;base64,AAAA",
	}

	for _, c := range candidates {
		once := Resolve(c, base)
		twice := Resolve(once, base)
		assert.Equal(t, once, twice, "resolve must be idempotent for %q", c)
	}
}

func TestIsPassthrough(t *testing.T) {
	assert.True(t, IsPassthrough(""))
	assert.True(t, IsPassthrough("#frag"))
	assert.True(t, IsPassthrough("DATA:image/png;base64,AA"))
	assert.True(t, IsPassthrough("JavaScript:alert(1)"))
	assert.False(t, IsPassthrough("/path"))
	assert.False(t, IsPassthrough("https://site.test/"))
	assert.False(t, IsPassthrough("page.html"))
}

func TestOrigin(t *testing.T) {
	assert.Equal(t, "https://site.test", Origin(mustParse(t, "https://site.test/x/y?q=1")))
	assert.Equal(t, "http://site.test:8080", Origin(mustParse(t, "http://site.test:8080/")))
}
