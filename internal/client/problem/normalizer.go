// Package problem turns failed HTTP responses into ordered lists of
// human-readable error messages. It never fails: anything it cannot make
// sense of becomes "Unknown error".
package problem

import (
	"bytes"
	"io"
	"mime"
	"net/http"

	"go.uber.org/zap"
)

// maxErrorBody bounds how much of an error body is read.
const maxErrorBody = 1 << 20

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger used for parse failures.
func WithLogger(logger *zap.Logger) Option {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithRawTextFallback returns non-JSON bodies verbatim instead of "Unknown error".
func WithRawTextFallback() Option {
	return func(n *Normalizer) {
		n.rawTextFallback = true
	}
}

// Normalizer extracts error messages from failed responses.
type Normalizer struct {
	logger          *zap.Logger
	rawTextFallback bool
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var defaultNormalizer = New()

// HandleRequestError normalizes resp with the default Normalizer.
func HandleRequestError(resp *http.Response) []string {
	return defaultNormalizer.HandleRequestError(resp)
}

// HandleRequestError reads and closes resp.Body and returns its error messages.
func (n *Normalizer) HandleRequestError(resp *http.Response) []string {
	return n.Classify(resp).Messages()
}

// Classify reads and closes resp.Body and returns the matching Shape.
func (n *Normalizer) Classify(resp *http.Response) Shape {
	if resp == nil || resp.Body == nil {
		return Unrecognized{}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		n.logger.Warn("failed to read error response", zap.Int("status", resp.StatusCode), zap.Error(err))
		return Unrecognized{}
	}

	if n.rawTextFallback && !isJSON(resp.Header.Get("Content-Type")) {
		if text := string(bytes.TrimSpace(body)); text != "" {
			return RawText{Text: text}
		}
		return Unrecognized{}
	}

	shape, err := ParseJSON(body)
	if err != nil {
		n.logger.Warn("error parsing error response",
			zap.Int("status", resp.StatusCode),
			zap.String("content_type", resp.Header.Get("Content-Type")),
			zap.Error(err),
		)
		return Unrecognized{}
	}

	n.logger.Debug("normalized error response",
		zap.Int("status", resp.StatusCode),
		zap.Strings("messages", shape.Messages()),
	)
	return shape
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || mediaType == "application/problem+json"
}
