package cv

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "cv.json"))
	require.NoError(t, err)
	return data
}

func TestDecodeFixture(t *testing.T) {
	doc, err := Decode(loadFixture(t))
	require.NoError(t, err)

	assert.Equal(t, "Ada Example", doc.Basics.Name)
	assert.Equal(t, "GB", doc.Basics.Location.CountryCode)
	require.Len(t, doc.Work, 2)
	assert.Equal(t, "", doc.Work[0].EndDate)
	assert.Equal(t, "2019-12", doc.Work[1].EndDate)
	assert.Equal(t, []string{"Algorithms", "Networks"}, doc.Education[0].Courses)
	assert.Equal(t, "https://example.com/cv", doc.Projects[0].URL)
	assert.Equal(t, "terminal", doc.Meta.Theme)
}

func TestDecodeRejectsInvalidJSON(t *testing.T) {
	_, err := Decode([]byte(`{"basics": `))
	assert.Error(t, err)
}

func TestHTTPFetcherSuccess(t *testing.T) {
	body := loadFixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, time.Second)
	snap, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Ada Example", snap.Document.Basics.Name)
	assert.Equal(t, Digest(body), snap.Digest)
	assert.Equal(t, len(body), snap.Bytes)
}

func TestHTTPFetcherReturnsFreshDocumentEachCall(t *testing.T) {
	body := loadFixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, time.Second)
	a, err := f.Fetch(context.Background())
	require.NoError(t, err)
	b, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, a.Document, b.Document)
	assert.Equal(t, a.Digest, b.Digest)
}

func TestHTTPFetcherFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		timeout time.Duration
		wantMsg string
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "gone", http.StatusServiceUnavailable)
			},
			timeout: time.Second,
			wantMsg: "unexpected status 503",
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>"))
			},
			timeout: time.Second,
			wantMsg: "decode cv document",
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			timeout: 50 * time.Millisecond,
			wantMsg: "timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			f := NewHTTPFetcher(srv.URL, tt.timeout)
			snap, err := f.Fetch(context.Background())
			assert.Nil(t, snap)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFetchFailed), "error should wrap ErrFetchFailed: %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestHTTPFetcherTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPFetcher(url, time.Second).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestNewHTTPFetcherDefaultsTimeout(t *testing.T) {
	f := NewHTTPFetcher(DefaultURL, 0)
	assert.Equal(t, DefaultTimeout, f.timeout)
	assert.Equal(t, DefaultURL, f.URL())
}

func TestDigest(t *testing.T) {
	a := Digest([]byte("one"))
	b := Digest([]byte("two"))
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Digest([]byte("one")))
	assert.Equal(t, a[:12], ShortDigest(a))
	assert.Equal(t, "abc", ShortDigest("abc"))
}
