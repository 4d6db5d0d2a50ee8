package client

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithHTTPClient sets the HTTP client used for every attempt. Its Timeout is
// the only per-attempt time bound the router applies.
func WithHTTPClient(c *http.Client) RouterOption {
	return func(r *Router) {
		if c != nil {
			r.httpClient = c
		}
	}
}

// WithAccessToken sets a static bearer token. An empty token disables the
// Authorization header.
func WithAccessToken(token string) RouterOption {
	return func(r *Router) {
		if token == "" {
			r.tokens = nil
			return
		}
		r.tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	}
}

// WithTokenSource sets the source of bearer tokens.
func WithTokenSource(ts oauth2.TokenSource) RouterOption {
	return func(r *Router) {
		r.tokens = ts
	}
}

// WithRetryConfig replaces the whole retry configuration.
func WithRetryConfig(cfg RetryConfig) RouterOption {
	return func(r *Router) {
		if cfg.MaxRetries > 0 {
			r.retry = cfg
		}
	}
}

// WithMaxRetries sets the attempt ceiling.
func WithMaxRetries(n int) RouterOption {
	return func(r *Router) {
		if n > 0 {
			r.retry.MaxRetries = n
		}
	}
}

// WithBaseDelay sets the backoff base delay.
func WithBaseDelay(d time.Duration) RouterOption {
	return func(r *Router) {
		r.retry.BaseDelay = d
	}
}

// WithJitter sets the exclusive upper bound of the backoff jitter.
func WithJitter(d time.Duration) RouterOption {
	return func(r *Router) {
		r.retry.MaxJitter = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) RouterOption {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSleep replaces the backoff wait. Tests use it to record delays.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) RouterOption {
	return func(r *Router) {
		if sleep != nil {
			r.sleep = sleep
		}
	}
}

// WithRand sets the random source used for jitter.
func WithRand(src *rand.Rand) RouterOption {
	return func(r *Router) {
		if src != nil {
			r.randFloat = src.Float64
		}
	}
}
