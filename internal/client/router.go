// Package client provides the resilient request router shared by every
// storefront resource client.
//
// The router injects the bearer token, tags each call with a correlation id,
// and retries transport failures with exponential backoff plus jitter. A
// response that was delivered is never retried, whatever its status code;
// status handling belongs to the resource clients.
package client

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	apierrors "github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/errors"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/logging"
	"github.com/otherjamesbrown/ai-aas/services/storefront-client/internal/metrics"
)

// CorrelationIDHeader carries the id shared by every attempt of one call.
const CorrelationIDHeader = "X-Correlation-ID"

// ErrUnsupportedMethod is returned for methods other than GET, POST, PUT and DELETE.
var ErrUnsupportedMethod = stderrors.New("unsupported HTTP method")

// BodyFactory produces a fresh request body for each attempt.
type BodyFactory func() (io.Reader, error)

// RequestOptions describes one routed call. A nil *RequestOptions is a GET
// without body or extra headers.
type RequestOptions struct {
	Method   string
	Header   http.Header
	Body     BodyFactory
	CallName string
}

// Router dispatches HTTP requests with auth injection and retries.
type Router struct {
	httpClient *http.Client
	tokens     oauth2.TokenSource
	retry      RetryConfig
	logger     *zap.Logger
	sleep      func(ctx context.Context, d time.Duration) error

	randMu    sync.Mutex
	randFloat func() float64
}

// NewRouter creates a Router. Without options it uses a 30s HTTP client
// timeout, no token and DefaultRetryConfig.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retry:      DefaultRetryConfig(),
		logger:     zap.NewNop(),
		sleep:      sleepContext,
		randFloat:  rand.New(rand.NewSource(time.Now().UnixNano())).Float64,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RetryConfig returns the router's retry configuration.
func (r *Router) RetryConfig() RetryConfig {
	return r.retry
}

// RouteRequestWithRetries sends one logical request and returns the raw
// response. Transport failures are retried up to the configured ceiling;
// after the last one a *errors.ConnectivityError is returned. A cancelled
// ctx stops the sequence with ctx.Err(). The caller owns resp.Body.
func (r *Router) RouteRequestWithRetries(ctx context.Context, url string, opts *RequestOptions) (*http.Response, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}

	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = http.MethodGet
	}
	if !supportedMethod(method) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, opts.Method)
	}

	header := opts.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	if header.Get(CorrelationIDHeader) == "" {
		header.Set(CorrelationIDHeader, uuid.NewString())
	}
	if err := r.authorize(header); err != nil {
		return nil, err
	}

	call := opts.CallName
	logger := logging.FromContext(r.logger, ctx).With(
		zap.String("call", call),
		zap.String("method", method),
		zap.String("url", logging.RedactString(url)),
		zap.String("correlation_id", header.Get(CorrelationIDHeader)),
	)

	start := time.Now()
	defer func() { metrics.ObserveRequestDuration(call, time.Since(start)) }()

	var lastErr error
	for attempt := 0; attempt < r.retry.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := newRequest(ctx, method, url, header, opts.Body)
		if err != nil {
			return nil, err
		}

		logger.Debug("sending request",
			zap.Int("attempt", attempt+1),
			zap.Any("headers", logging.RedactHeaders(req.Header)),
		)
		resp, err := r.httpClient.Do(req)
		metrics.RecordAttempt(call, err != nil)
		if err == nil {
			logger.Debug("response received",
				zap.Int("attempt", attempt+1),
				zap.Int("status", resp.StatusCode),
			)
			return resp, nil
		}

		// The caller gave up; this is not a connectivity problem.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		lastErr = err
		if attempt == r.retry.MaxRetries-1 {
			break
		}

		delay := r.BackoffDelay(attempt)
		logger.Warn("request failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", delay),
			zap.String("error", logging.RedactString(err.Error())),
		)
		metrics.RecordRetry(call)
		if err := r.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	metrics.RecordExhausted(call)
	logger.Error("request failed after maximum retries",
		zap.Int("attempts", r.retry.MaxRetries),
		zap.String("error", logging.RedactString(lastErr.Error())),
	)
	return nil, apierrors.NewConnectivityError(url, r.retry.MaxRetries, lastErr)
}

// authorize sets the Authorization header when a non-empty token is available.
func (r *Router) authorize(header http.Header) error {
	if r.tokens == nil {
		return nil
	}
	tok, err := r.tokens.Token()
	if err != nil {
		return fmt.Errorf("obtain access token: %w", err)
	}
	if tok == nil || tok.AccessToken == "" {
		return nil
	}
	header.Set("Authorization", tok.Type()+" "+tok.AccessToken)
	return nil
}

func newRequest(ctx context.Context, method, url string, header http.Header, body BodyFactory) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		b, err := body()
		if err != nil {
			return nil, fmt.Errorf("build request body: %w", err)
		}
		reader = b
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header = header.Clone()
	return req, nil
}

func supportedMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}
