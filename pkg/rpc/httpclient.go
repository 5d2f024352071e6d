package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/loansx/loansx/pkg/utils"
	"golang.org/x/time/rate"
)

var errNoEndpoint = errors.New("no healthy endpoint")

// HTTPClient talks to the chain gateway over JSON POST. Calls share one rate limiter and
// each endpoint has its own circuit breaker. It implements Client.
type HTTPClient struct {
	endpoints []string
	client    *http.Client
	limiter   *rate.Limiter
	breaker   *breaker
}

// Opts is the set of options for a new HTTPClient.
type Opts struct {
	Endpoints       []string
	Timeout         time.Duration
	RPS             int
	Burst           int
	BreakerFailures int
	BreakerCooldown time.Duration
	HTTPClient      *http.Client
}

func (o Opts) withDefaults() Opts {
	if o.RPS <= 0 {
		o.RPS = 20
	}
	if o.Burst <= 0 {
		o.Burst = 40
	}
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	if o.BreakerFailures <= 0 {
		o.BreakerFailures = 3
	}
	if o.BreakerCooldown <= 0 {
		o.BreakerCooldown = 5 * time.Second
	}
	return o
}

func NewHTTPWithOpts(o Opts) *HTTPClient {
	o = o.withDefaults()
	client := o.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: o.Timeout}
	} else if client.Timeout == 0 {
		client.Timeout = o.Timeout
	}
	return &HTTPClient{
		endpoints: utils.Dedup(o.Endpoints),
		client:    client,
		limiter:   rate.NewLimiter(rate.Limit(o.RPS), o.Burst),
		breaker:   newBreaker(o.BreakerFailures, o.BreakerCooldown),
	}
}

// statusError is a non-2xx gateway answer. Only 5xx count against the endpoint.
type statusError struct {
	path string
	code int
}

func (e *statusError) Error() string {
	if e.code >= 500 {
		return fmt.Sprintf("%s: server %d", e.path, e.code)
	}
	return fmt.Sprintf("%s: http %d", e.path, e.code)
}

// doJSON POSTs payload to path on each endpoint in turn until one answers, and decodes the
// answer into out.
func (c *HTTPClient) doJSON(ctx context.Context, path string, payload any, out any) error {
	if len(c.endpoints) == 0 {
		return fmt.Errorf("%s: no endpoints configured", path)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	lastErr := fmt.Errorf("%s: %w", path, errNoEndpoint)
	for _, ep := range c.endpoints {
		if !c.breaker.allow(ep) {
			continue
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: rate limiter: %w", path, err)
		}

		err := c.post(ctx, ep, path, body, out)
		var se *statusError
		var de *decodeError
		switch {
		case err == nil:
			c.breaker.success(ep)
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.As(err, &de):
			return err
		case errors.As(err, &se) && se.code < 500:
			// the request itself is wrong, another endpoint will not fix it
			return err
		}
		c.breaker.failure(ep)
		lastErr = err
	}
	return lastErr
}

type decodeError struct {
	path string
	err  error
}

func (e *decodeError) Error() string { return fmt.Sprintf("%s: decode: %v", e.path, e.err) }
func (e *decodeError) Unwrap() error { return e.err }

func (c *HTTPClient) post(ctx context.Context, ep, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{path: path, code: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &decodeError{path: path, err: err}
	}
	return nil
}

// drain lets the transport reuse the connection.
func drain(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, rc)
	_ = rc.Close()
}
