package paykit

import (
	"net/http"
	"time"

	"golang.org/x/exp/slog"
)

// HTTPClient abstracts HTTP request execution for testing and custom
// transports. The standard *http.Client satisfies this interface.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// LoggingClient decorates an HTTPClient with structured logs for every
// gateway call: method, URL, status and duration.
type LoggingClient struct {
	next   HTTPClient
	logger *slog.Logger
}

func NewLoggingClient(next HTTPClient, logger *slog.Logger) *LoggingClient {
	if next == nil {
		next = http.DefaultClient
	}
	return &LoggingClient{
		next:   next,
		logger: logger.With(slog.String("component", "http")),
	}
}

func (c *LoggingClient) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.next.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.Duration("duration", time.Since(start)),
			slog.Any("err", err),
		)
		return nil, err
	}
	c.logger.Info("request completed",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)
	return resp, nil
}
