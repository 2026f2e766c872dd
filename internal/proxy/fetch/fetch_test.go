package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miragebrowse/mirage/internal/config"
	"github.com/miragebrowse/mirage/internal/logging"
	"github.com/miragebrowse/mirage/internal/proxy/session"
)

func testConfig() config.UpstreamConfig {
	return config.UpstreamConfig{
		DocumentTimeout: 5 * time.Second,
		ResourceTimeout: 5 * time.Second,
		MaxBodyBytes:    10 * 1024 * 1024,
	}
}

func testFetcher(cfg config.UpstreamConfig) *Fetcher {
	return New(cfg, logging.NewNop())
}

func serverURL(t *testing.T, srv *httptest.Server) *url.URL {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return u
}

func TestFetchDocumentHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	_, err := testFetcher(testConfig()).Fetch(context.Background(), serverURL(t, srv), ClassDocument, "")
	require.NoError(t, err)

	assert.Contains(t, got.Get("Accept"), "text/html")
	assert.Equal(t, "identity", got.Get("Accept-Encoding"))
	assert.Equal(t, "en-US,en;q=0.9", got.Get("Accept-Language"))
	assert.Equal(t, "1", got.Get("Upgrade-Insecure-Requests"))
	assert.Equal(t, "document", got.Get("Sec-Fetch-Dest"))
	assert.Contains(t, userAgents, got.Get("User-Agent"))
}

func TestFetchResourceHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	defer srv.Close()

	target := serverURL(t, srv)
	_, err := testFetcher(testConfig()).Fetch(context.Background(), target, ClassResource, "")
	require.NoError(t, err)

	assert.Equal(t, "*/*", got.Get("Accept"))
	assert.Equal(t, "no-cache", got.Get("Cache-Control"))
	assert.Equal(t, "cross-site", got.Get("Sec-Fetch-Site"))
	assert.Equal(t, srv.URL+"/", got.Get("Referer"))
	assert.Equal(t, srv.URL, got.Get("Origin"))
}

func TestFetchChromeClientHints(t *testing.T) {
	headers := requestHeaders(ClassDocument, mustParse(t, "https://site.test/"), userAgents[0])
	assert.Contains(t, headers["Sec-CH-UA"], "Chromium")
	assert.Equal(t, "?0", headers["Sec-CH-UA-Mobile"])

	// Firefox identity carries no client hints.
	headers = requestHeaders(ClassDocument, mustParse(t, "https://site.test/"), userAgents[2])
	_, present := headers["Sec-CH-UA"]
	assert.False(t, present)
}

func TestFetchReplaysCookieHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Cookie")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	_, err := testFetcher(testConfig()).Fetch(context.Background(), serverURL(t, srv), ClassDocument, "a=1; b=2")
	require.NoError(t, err)
	assert.Equal(t, "a=1; b=2", got)
}

func TestFetchDoesNotRetainCookies(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Cookie")
		w.Header().Add("Set-Cookie", "session=abc123; Path=/")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := testFetcher(testConfig())
	target := serverURL(t, srv)

	_, err := f.Fetch(context.Background(), target, ClassDocument, "")
	require.NoError(t, err)

	// A later fetch with no session cookies must not replay what the
	// upstream set earlier; only the cookieHeader argument reaches the wire.
	_, err = f.Fetch(context.Background(), target, ClassDocument, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchExtractsSetCookies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "session=abc123; Domain=site.test; Secure; HttpOnly")
		w.Header().Add("Set-Cookie", "pref=dark; Path=/")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	result, err := testFetcher(testConfig()).Fetch(context.Background(), serverURL(t, srv), ClassDocument, "")
	require.NoError(t, err)

	assert.Equal(t, []session.Cookie{
		{Name: "session", Value: "abc123"},
		{Name: "pref", Value: "dark"},
	}, result.SetCookies)
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.DocumentTimeout = 50 * time.Millisecond

	start := time.Now()
	_, err := testFetcher(cfg).Fetch(context.Background(), serverURL(t, srv), ClassDocument, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFetchPassesThroughErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer srv.Close()

	result, err := testFetcher(testConfig()).Fetch(context.Background(), serverURL(t, srv), ClassDocument, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, result.Status)
}

func TestFetchClassifiesHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>hi</body></html>"))
	}))
	defer srv.Close()

	result, err := testFetcher(testConfig()).Fetch(context.Background(), serverURL(t, srv), ClassDocument, "")
	require.NoError(t, err)

	assert.True(t, result.IsHTML)
	assert.Contains(t, result.HTML, "<body>hi</body>")
}

func TestFetchClassifiesBinary(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}))
	defer srv.Close()

	result, err := testFetcher(testConfig()).Fetch(context.Background(), serverURL(t, srv), ClassResource, "")
	require.NoError(t, err)

	assert.False(t, result.IsHTML)
	assert.Empty(t, result.HTML)
	assert.Equal(t, png, result.Body)
	assert.Equal(t, "image/png", result.ContentType)
}

func TestFetchSniffsGenericContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("<!DOCTYPE html><html><body>sniffed</body></html>"))
	}))
	defer srv.Close()

	result, err := testFetcher(testConfig()).Fetch(context.Background(), serverURL(t, srv), ClassDocument, "")
	require.NoError(t, err)
	assert.True(t, result.IsHTML)
}

func TestFetchDecodesLegacyCharset(t *testing.T) {
	// "café" in ISO-8859-1: the é is a single 0xE9 byte.
	body := append([]byte("<html><body>caf"), 0xE9)
	body = append(body, []byte("</body></html>")...)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write(body)
	}))
	defer srv.Close()

	result, err := testFetcher(testConfig()).Fetch(context.Background(), serverURL(t, srv), ClassDocument, "")
	require.NoError(t, err)
	assert.Contains(t, result.HTML, "café")
}

func TestFetchCapsBodySize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(make([]byte, 4096))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.MaxBodyBytes = 1024

	result, err := testFetcher(cfg).Fetch(context.Background(), serverURL(t, srv), ClassResource, "")
	require.NoError(t, err)
	assert.Len(t, result.Body, 1024)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        []byte
		wantHTML    bool
	}{
		{"declared html", "text/html", []byte("anything"), true},
		{"declared xhtml", "application/xhtml+xml", []byte("x"), true},
		{"declared json", "application/json", []byte("<html></html>"), false},
		{"empty sniffs html", "", []byte("<!DOCTYPE html><html></html>"), true},
		{"empty sniffs binary", "", []byte{0x89, 'P', 'N', 'G'}, false},
		{"octet-stream sniffs html", "application/octet-stream", []byte("<!DOCTYPE html><html></html>"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, isHTML := classify(tt.contentType, tt.body)
			assert.Equal(t, tt.wantHTML, isHTML)
		})
	}
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}
