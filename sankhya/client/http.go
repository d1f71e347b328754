// Package client provides the HTTP and WebSocket transports used to talk to
// the automation backend.
package client

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// SessionHeader carries the client session id on every request.
const SessionHeader = "X-Client-Session"

// beaconTimeout bounds the end-of-session beacon so shutdown never hangs.
const beaconTimeout = 2 * time.Second

// HTTPConfig configures an HTTPClient.
type HTTPConfig struct {
	BaseURL            string
	APIPath            string
	SessionID          string
	InsecureSkipVerify bool
	// RequestTimeout bounds each call. Zero means no timeout.
	RequestTimeout time.Duration
}

// StatusError is returned when the backend answers with an error status and
// a body that is not a JSON envelope.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// HTTPClient performs JSON calls against the backend API.
type HTTPClient struct {
	base    string
	session string
	timeout time.Duration
	http    *fasthttp.Client
}

// NewHTTPClient validates cfg and returns a ready client.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must use http or https", cfg.BaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", cfg.BaseURL)
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if p := strings.Trim(cfg.APIPath, "/"); p != "" {
		base += "/" + p
	}

	return &HTTPClient{
		base:    base,
		session: cfg.SessionID,
		timeout: cfg.RequestTimeout,
		http: &fasthttp.Client{
			Name:      "sankhya-tui",
			TLSConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify},
		},
	}, nil
}

// BaseURL returns the resolved API base.
func (c *HTTPClient) BaseURL() string {
	return c.base
}

// Call sends body as JSON and decodes the JSON answer into out. The body is
// decoded whatever the status code, since the backend reports rejections
// (e.g. 409 on a duplicate start) inside the envelope.
func (c *HTTPClient) Call(ctx context.Context, method, path string, body, out any) error {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	c.prepare(req, method, path)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(b)
	}

	if err := c.do(ctx, req, resp); err != nil {
		return err
	}

	status := resp.StatusCode()
	raw := resp.Body()
	if out == nil {
		if status >= 400 {
			return &StatusError{Code: status, Body: snippet(raw)}
		}
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		if status >= 400 {
			return &StatusError{Code: status, Body: snippet(raw)}
		}
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Beacon posts an empty body and does not read the answer.
func (c *HTTPClient) Beacon(ctx context.Context, path string) error {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	c.prepare(req, fasthttp.MethodPost, path)
	resp.SkipBody = true
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.http.DoTimeout(req, resp, beaconTimeout)
}

func (c *HTTPClient) prepare(req *fasthttp.Request, method, path string) {
	req.SetRequestURI(c.base + path)
	req.Header.SetMethod(method)
	if c.session != "" {
		req.Header.Set(SessionHeader, c.session)
	}
}

// do runs the request, honouring the context deadline and the configured
// timeout, whichever is sooner.
func (c *HTTPClient) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	deadline, ok := ctx.Deadline()
	if c.timeout > 0 {
		d := time.Now().Add(c.timeout)
		if !ok || d.Before(deadline) {
			deadline, ok = d, true
		}
	}
	if ok {
		return c.http.DoDeadline(req, resp, deadline)
	}
	return c.http.Do(req, resp)
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "…"
	}
	return s
}
