package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListResourcesQueryParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/resources", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"res-1","title":"One"}],"pagination":{"total":1,"page":2,"limit":5,"totalPages":1}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	list, err := c.ListResources(context.Background(), "golang", 2, 5)
	require.NoError(t, err)

	assert.Equal(t, "limit=5&page=2&q=golang", gotQuery)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "res-1", list.Data[0].ID)
	assert.Equal(t, 1, list.Pagination.TotalPages)
}

func TestListResourcesOmitsDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery, "zero values must not be sent")
		w.Write([]byte(`{"data":[],"pagination":{"total":0,"page":1,"limit":9,"totalPages":0}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListResources(context.Background(), "", 0, 0)
	require.NoError(t, err)
}

func TestBearerTokenSent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"res-1","title":"Made"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok-123"))
	_, err := c.CreateResource(context.Background(), ResourceInput{
		Title:       "Made",
		URL:         "https://example.com",
		Description: "created by the client",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestAPIErrorParsing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":{"title":["is too short (minimum 2 characters)"]}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).CreateResource(context.Background(), ResourceInput{Title: "A"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Contains(t, apiErr.Fields, "title")
	assert.Contains(t, apiErr.Fields["title"][0], "too short")
}

func TestAPIErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"resource res-x not found"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetResource(context.Background(), "res-x")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "not found")
}

func TestDeleteResource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/resources/res-1", r.URL.Path)
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	err := New(srv.URL, WithToken("tok")).DeleteResource(context.Background(), "res-1")
	assert.NoError(t, err)
}

func TestResolvePreview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://example.com/page", r.URL.Query().Get("url"))
		w.Write([]byte(`{"image":"https://cdn.example.com/hero.png"}`))
	}))
	defer srv.Close()

	image, err := New(srv.URL).ResolvePreview(context.Background(), "https://example.com/page")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/hero.png", image)
}

func TestResolvePreviewNull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"image":null}`))
	}))
	defer srv.Close()

	image, err := New(srv.URL).ResolvePreview(context.Background(), "https://example.com/page")
	require.NoError(t, err)
	assert.Empty(t, image)
}

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			w.Write([]byte(`{"token":"tok-issued","user":{"id":"user-1"}}`))
		case "/resources":
			assert.Equal(t, "Bearer tok-issued", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"res-1"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.Login(context.Background(), "a@example.com", "pw"))

	_, err := c.CreateResource(context.Background(), ResourceInput{Title: "Made", URL: "https://e.com", Description: "12345"})
	require.NoError(t, err)
}
