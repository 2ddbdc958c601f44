// Package fetch performs JSON HTTP requests and decodes their responses.
//
// It is meant to be called from app tasks, which already run off the loop
// goroutine and carry the instance's context:
//
//	mb.Spawn(func(ctx context.Context) (Msg, error) {
//		items, err := fetch.Get[[]Item](ctx, nil, url)
//		if err != nil {
//			return LoadFailed{err}, nil
//		}
//		return Loaded{items}, nil
//	})
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	velaerrors "github.com/vango-dev/vela/internal/errors"
)

// DefaultTimeout bounds requests made with the default client.
const DefaultTimeout = 10 * time.Second

// MaxErrorBody is how much of a failed response body is kept in the error.
const MaxErrorBody = 512

// DefaultClient is used when no client is given.
var DefaultClient = &http.Client{Timeout: DefaultTimeout}

// Request is a JSON HTTP request under construction.
type Request struct {
	method string
	url    string
	header http.Header
	body   any
	client *http.Client
}

// NewRequest starts a request.
func NewRequest(method, url string) *Request {
	return &Request{
		method: method,
		url:    url,
		header: http.Header{"Accept": []string{"application/json"}},
	}
}

// Header sets a request header.
func (r *Request) Header(key, value string) *Request {
	r.header.Set(key, value)
	return r
}

// JSON sets the request body, encoded as JSON when sent.
func (r *Request) JSON(body any) *Request {
	r.body = body
	return r
}

// Client sets the HTTP client. A nil client means DefaultClient.
func (r *Request) Client(c *http.Client) *Request {
	r.client = c
	return r
}

// Do sends the request and decodes a JSON response into out. A nil out
// discards the body. Transport failures and non-2xx statuses are E180;
// an undecodable body is E181.
func (r *Request) Do(ctx context.Context, out any) error {
	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return velaerrors.New("E180").WithOp(r.op()).WithDetail("encode body: " + err.Error()).Wrap(err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return velaerrors.New("E180").WithOp(r.op()).Wrap(err)
	}
	req.Header = r.header.Clone()
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := r.client
	if client == nil {
		client = DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return velaerrors.New("E180").WithOp(r.op()).WithDetail(err.Error()).Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBody))
		return velaerrors.New("E180").
			WithOp(r.op()).
			WithDetailf("status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet)).
			Wrap(&StatusError{Code: resp.StatusCode})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return velaerrors.New("E181").WithOp(r.op()).WithDetail(err.Error()).Wrap(err)
	}
	return nil
}

func (r *Request) op() string {
	return r.method + " " + r.url
}

// StatusError is the cause of an E180 error for a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http status %d", e.Code)
}

// Get fetches url and decodes the response as T.
func Get[T any](ctx context.Context, client *http.Client, url string) (T, error) {
	var out T
	err := NewRequest(http.MethodGet, url).Client(client).Do(ctx, &out)
	return out, err
}

// Post sends body as JSON to url and decodes the response as T.
func Post[T any](ctx context.Context, client *http.Client, url string, body any) (T, error) {
	var out T
	err := NewRequest(http.MethodPost, url).Client(client).JSON(body).Do(ctx, &out)
	return out, err
}
