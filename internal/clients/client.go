// internal/clients/client.go
package clients

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	jsoniter "github.com/json-iterator/go"

	"libranexus/internal/library"
	"libranexus/internal/platform/httpx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultTimeout  = 5 * time.Second
	defaultMaxTries = 3
)

type Option func(*client)

// WithHTTPClient replaces the default client with a 5s timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) { c.http = hc }
}

// WithMaxTries bounds attempts per call, the first one included.
func WithMaxTries(n uint) Option {
	return func(c *client) {
		if n > 0 {
			c.maxTries = n
		}
	}
}

// WithBackOff sets the delay policy between retryable failures. newBackOff
// is called once per request.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(c *client) { c.newBackOff = newBackOff }
}

type client struct {
	baseURL    string
	http       *http.Client
	maxTries   uint
	newBackOff func() backoff.BackOff
}

func newClient(baseURL string, opts []Option) client {
	c := client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: defaultTimeout},
		maxTries: defaultMaxTries,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.newBackOff == nil {
		c.newBackOff = exponential
	}
	return c
}

func exponential() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = time.Second
	return b
}

// get fetches path and decodes a 200 body into out. Retryable failures
// are retried; everything else is returned on the first attempt.
func (c *client) get(ctx context.Context, path string, out any) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := c.do(ctx, path, out)
		if err != nil && !library.IsRetryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(c.newBackOff()), backoff.WithMaxTries(c.maxTries))
	return err
}

func (c *client) do(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return library.Runtime(err, "build request for %s", path)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return library.FromTransport(err, "GET %s", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return library.FromTransport(err, "read response of %s", path)
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return library.Serialization(err, "decode response of %s", path)
	}
	return nil
}

// statusError keeps the remote description and reason when the body is
// an error document.
func statusError(code int, body []byte) error {
	var doc httpx.ErrorResponse
	msg := http.StatusText(code)
	if json.Unmarshal(body, &doc) == nil && doc.Description != "" {
		msg = doc.Description
	}
	err := library.FromStatus(code, msg)
	if doc.ReasonCode != "" && err.Kind != library.KindNotFound {
		err.ReasonCode = doc.ReasonCode
	}
	return err
}
