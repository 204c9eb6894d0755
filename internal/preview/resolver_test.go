package preview

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	r := New(logger, Options{RPS: 1000, Burst: 1000})
	t.Cleanup(r.Close)
	return r
}

func TestResolve_OGImageProperty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><head>
			<meta property="og:title" content="A Page">
			<meta property="og:image" content="https://cdn.example.com/hero.png">
		</head><body></body></html>`))
	}))
	defer srv.Close()

	r := newTestResolver(t)
	image, err := r.Resolve(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/hero.png", image)
}

func TestResolve_OGImageNameAttribute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><head>
			<meta name="og:image" content="https://cdn.example.com/alt.png">
		</head></html>`))
	}))
	defer srv.Close()

	r := newTestResolver(t)
	image, err := r.Resolve(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/alt.png", image)
}

func TestResolve_FirstTagWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><head>
			<meta property="og:image" content="https://cdn.example.com/first.png">
			<meta property="og:image" content="https://cdn.example.com/second.png">
		</head></html>`))
	}))
	defer srv.Close()

	r := newTestResolver(t)
	image, err := r.Resolve(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/first.png", image)
}

func TestResolve_NoOGImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><head><title>Plain</title></head><body>hi</body></html>`))
	}))
	defer srv.Close()

	r := newTestResolver(t)
	image, err := r.Resolve(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, image)
}

func TestResolve_ErrorPageStillParsed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`<html><head>
			<meta property="og:image" content="https://cdn.example.com/404.png">
		</head></html>`))
	}))
	defer srv.Close()

	r := newTestResolver(t)
	image, err := r.Resolve(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/404.png", image)
}

func TestResolve_UnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // Shut down immediately so the fetch fails.

	r := newTestResolver(t)
	_, err := r.Resolve(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestResolve_RejectsBadURLs(t *testing.T) {
	r := newTestResolver(t)
	ctx := context.Background()

	for _, raw := range []string{"ftp://example.com/file", "not a url at all", "/relative/path"} {
		_, err := r.Resolve(ctx, raw)
		assert.Error(t, err, "expected error for %q", raw)
	}
}

func TestResolve_BodyLimitTruncates(t *testing.T) {
	// The og:image tag sits past the body limit, so it is never seen.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html><head>"))
		w.Write([]byte(strings.Repeat("<!-- padding -->", 4096)))
		w.Write([]byte(`<meta property="og:image" content="https://cdn.example.com/late.png"></head></html>`))
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	r := New(logger, Options{MaxBodyBytes: 1024, RPS: 1000, Burst: 1000})
	defer r.Close()

	image, err := r.Resolve(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, image)
}

func TestResolve_SendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotUA = req.Header.Get("User-Agent")
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	r := New(logger, Options{UserAgent: "linkstash-test/1.0", RPS: 1000, Burst: 1000})
	defer r.Close()

	_, err := r.Resolve(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "linkstash-test/1.0", gotUA)
}
