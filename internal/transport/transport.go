// Package transport posts reports to the server.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Timeouts for the report POST. The whole exchange must finish well inside
// one scan interval.
const (
	DefaultTimeout        = 10 * time.Second
	DefaultConnectTimeout = 5 * time.Second
	maxResponseBytes      = 64 << 10
)

// Poster sends one request and returns the status code and body.
type Poster interface {
	Post(ctx context.Context, url, contentType string, body []byte) (int, []byte, error)
}

// HTTPPoster is a Poster over net/http.
type HTTPPoster struct {
	Client *http.Client
}

// NewHTTPPoster creates a poster whose client gives up after timeout.
func NewHTTPPoster(timeout time.Duration) *HTTPPoster {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPPoster{Client: &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   DefaultConnectTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          4,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: time.Second,
		},
	}}
}

// Post sends body to url. Each request carries a fresh X-Request-ID so
// server logs can be matched to node logs.
func (p *HTTPPoster) Post(ctx context.Context, url, contentType string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

// Request is one call recorded by FakePoster.
type Request struct {
	URL         string
	ContentType string
	Body        []byte
}

// FakePoster returns a scripted response and records requests. It is safe
// for use from the uplink goroutine.
type FakePoster struct {
	mu       sync.Mutex
	requests []Request

	Status int
	Body   []byte
	Err    error
}

func (f *FakePoster) Post(_ context.Context, url, contentType string, body []byte) (int, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, Request{URL: url, ContentType: contentType, Body: append([]byte(nil), body...)})
	if f.Err != nil {
		return 0, nil, f.Err
	}
	return f.Status, f.Body, nil
}

// Requests returns a copy of the recorded requests.
func (f *FakePoster) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// Respond sets the scripted response.
func (f *FakePoster) Respond(status int, body string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Status, f.Body, f.Err = status, []byte(body), err
}
