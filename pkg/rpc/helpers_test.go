package rpc_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/loansx/loansx/pkg/rpc"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestRPCClient(handler http.Handler) *rpc.HTTPClient {
	return newTestRPCClientWithOpts(handler, rpc.Opts{})
}

func newTestRPCClientWithOpts(handler http.Handler, opts rpc.Opts) *rpc.HTTPClient {
	httpClient := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			resp := rec.Result()
			if resp.Body == nil {
				resp.Body = http.NoBody
			}
			return resp, nil
		}),
		Timeout: 5 * time.Second,
	}

	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}
	if len(opts.Endpoints) == 0 {
		opts.Endpoints = []string{"http://mock"}
	}
	opts.RPS = 1000
	opts.Burst = 1000
	opts.HTTPClient = httpClient

	return rpc.NewHTTPWithOpts(opts)
}

// jsonRoutes answers each path with a fixed JSON document and records the decoded request bodies.
type jsonRoutes struct {
	routes   map[string]string
	requests map[string][]map[string]any
}

func newJSONRoutes(routes map[string]string) *jsonRoutes {
	return &jsonRoutes{routes: routes, requests: map[string][]map[string]any{}}
}

func (j *jsonRoutes) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, ok := j.routes[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	var req map[string]any
	_ = json.NewDecoder(r.Body).Decode(&req)
	j.requests[r.URL.Path] = append(j.requests[r.URL.Path], req)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}
