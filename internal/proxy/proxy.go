// Package proxy forwards requests to backend services according to
// the routing engine's forwarding decisions.
package proxy

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/Denyme24/edgegw/internal/observability"
	"github.com/Denyme24/edgegw/internal/router"
	"github.com/Denyme24/edgegw/internal/util"
)

// hopHeaders are headers that should not be forwarded.
var hopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// ReverseProxy routes each request through the active rule set and
// forwards it to the decided backend with the resolved path. Requests
// matching a pass-through rule keep their path byte-identical; only
// the path component is ever rewritten, never query or fragment.
type ReverseProxy struct {
	table         *router.Table
	logger        observability.Logger
	transport     http.RoundTripper
	errorHandler  func(http.ResponseWriter, *http.Request, error)
	flushInterval time.Duration
}

// ProxyOption is a functional option for configuring the proxy.
type ProxyOption func(*ReverseProxy)

// WithProxyLogger sets the logger for the proxy.
func WithProxyLogger(logger observability.Logger) ProxyOption {
	return func(p *ReverseProxy) {
		p.logger = logger
	}
}

// WithTransport sets the transport for the proxy.
func WithTransport(transport http.RoundTripper) ProxyOption {
	return func(p *ReverseProxy) {
		p.transport = transport
	}
}

// WithErrorHandler sets the error handler for the proxy.
func WithErrorHandler(handler func(http.ResponseWriter, *http.Request, error)) ProxyOption {
	return func(p *ReverseProxy) {
		p.errorHandler = handler
	}
}

// WithFlushInterval sets the flush interval for streaming responses.
func WithFlushInterval(interval time.Duration) ProxyOption {
	return func(p *ReverseProxy) {
		p.flushInterval = interval
	}
}

// NewReverseProxy creates a new reverse proxy over the given routing
// table.
func NewReverseProxy(table *router.Table, opts ...ProxyOption) *ReverseProxy {
	p := &ReverseProxy{
		table:         table,
		logger:        observability.NopLogger(),
		flushInterval: -1, // Immediate flush
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.transport == nil {
		p.transport = DefaultTransport()
	}
	if p.errorHandler == nil {
		p.errorHandler = p.defaultErrorHandler
	}

	return p
}

// DefaultTransport returns the transport used when none is configured.
func DefaultTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// ServeHTTP implements http.Handler.
func (p *ReverseProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	decision, ok := p.table.Route(r.Method, r.URL.Path)
	if !ok {
		p.handleNoRoute(w, r)
		return
	}

	if tracker := util.RuleTrackerFromContext(r.Context()); tracker != nil {
		tracker.Set(decision.Rule.Name)
	}

	ctx := util.ContextWithRule(r.Context(), decision.Rule.Name)
	ctx = util.ContextWithBackend(ctx, decision.Rule.Backend.Name)
	r = r.WithContext(ctx)

	p.forward(w, r, decision)
}

// forward proxies the request to the decided backend.
func (p *ReverseProxy) forward(w http.ResponseWriter, r *http.Request, decision router.Decision) {
	target, err := url.Parse(fmt.Sprintf("http://%s:%d", decision.TargetHost, decision.TargetPort))
	if err != nil {
		p.errorHandler(w, r, fmt.Errorf("invalid target URL: %w", err))
		return
	}

	proxy := &httputil.ReverseProxy{
		Director: func(req *http.Request) {
			p.director(req, target, decision)
		},
		Transport:     p.transport,
		FlushInterval: p.flushInterval,
		ErrorHandler:  p.errorHandler,
	}

	proxy.ServeHTTP(w, r)
}

// director modifies the outbound request before forwarding. Only the
// path component is substituted; the query string travels unmodified.
func (p *ReverseProxy) director(req *http.Request, target *url.URL, decision router.Decision) {
	req.URL.Scheme = target.Scheme
	req.URL.Host = target.Host

	if !decision.Rule.PassThrough() {
		req.URL.Path = decision.ResolvedPath
		req.URL.RawPath = ""
	}

	// Remove hop-by-hop headers
	for _, h := range hopHeaders {
		req.Header.Del(h)
	}

	// X-Forwarded-For is appended by httputil.ReverseProxy itself.
	if req.TLS != nil {
		req.Header.Set("X-Forwarded-Proto", "https")
	} else {
		req.Header.Set("X-Forwarded-Proto", "http")
	}
	req.Header.Set("X-Forwarded-Host", req.Host)

	req.Host = target.Host
}

// handleNoRoute writes the gateway-level no-route response. The router
// never guesses a default backend; an unmatched request is answered
// here with 404.
func (p *ReverseProxy) handleNoRoute(w http.ResponseWriter, r *http.Request) {
	err := util.NewRouteNotFoundError(r.Method, r.URL.Path)

	p.logger.Warn("no route matched",
		observability.String("method", r.Method),
		observability.String("path", r.URL.Path),
	)

	getProxyMetrics().noRouteResponses.Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, `{"error":"`+err.Error()+`"}`)
}

// defaultErrorHandler answers upstream failures with 502.
func (p *ReverseProxy) defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Error("upstream error",
		observability.String("method", r.Method),
		observability.String("path", r.URL.Path),
		observability.String("backend", util.BackendFromContext(r.Context())),
		observability.Error(err),
	)

	getProxyMetrics().upstreamErrors.WithLabelValues(
		util.BackendFromContext(r.Context()),
	).Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_, _ = io.WriteString(w, `{"error":"bad gateway"}`)
}
