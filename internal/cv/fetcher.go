package cv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultURL is the public JSON Resume endpoint.
	DefaultURL = "https://st2projects.com/cv/cv.json"

	// DefaultTimeout bounds a single fetch.
	DefaultTimeout = 10 * time.Second

	// maxBodyBytes caps the document body read from the endpoint.
	maxBodyBytes = 4 << 20
)

// ErrFetchFailed marks any failure to retrieve or decode the remote document.
var ErrFetchFailed = errors.New("cv fetch failed")

// Snapshot is one successfully fetched document plus the digest of its raw body.
type Snapshot struct {
	Document *Document
	Digest   string
	Bytes    int
}

// HTTPFetcher retrieves the document with a plain GET.
type HTTPFetcher struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewHTTPFetcher creates a fetcher for url. A non-positive timeout uses DefaultTimeout.
func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{
		url:     url,
		timeout: timeout,
		client:  &http.Client{},
	}
}

// URL returns the endpoint this fetcher reads from.
func (f *HTTPFetcher) URL() string {
	return f.url
}

// Fetch performs one GET. Every failure, including timeout, wraps ErrFetchFailed.
func (f *HTTPFetcher) Fetch(ctx context.Context) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out after %v", ErrFetchFailed, f.timeout)
		}
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrFetchFailed, err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrFetchFailed, maxBodyBytes)
	}

	doc, err := Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	return &Snapshot{
		Document: doc,
		Digest:   Digest(body),
		Bytes:    len(body),
	}, nil
}
