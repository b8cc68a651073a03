// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"portfolio-scoring-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Client wraps the Zeebe gRPC client.
type Client struct {
	client zbc.Client
	config *ClientConfig
}

type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	ConnectionTimeout      time.Duration
	RetryConfig            *RetryConfig
}

// RetryConfig defines backoff for startup connections.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

var DefaultRetryConfig = &RetryConfig{
	MaxAttempts: 10,
	BaseDelay:   2 * time.Second,
	MaxDelay:    30 * time.Second,
}

// Connect dials the gateway and waits for a topology response, retrying with
// exponential backoff until the attempts run out or ctx is done.
func Connect(ctx context.Context, config *ClientConfig, log logger.Logger) (*Client, error) {
	if config.RetryConfig == nil {
		config.RetryConfig = DefaultRetryConfig
	}
	if config.ConnectionTimeout == 0 {
		config.ConnectionTimeout = 10 * time.Second
	}

	var zeebeClient zbc.Client
	err := Retry(ctx, config.RetryConfig, "zeebe connection", log, func(ctx context.Context) error {
		c, err := zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         config.GatewayAddress,
			UsePlaintextConnection: config.UsePlaintextConnection,
		})
		if err != nil {
			return fmt.Errorf("failed to create Zeebe client: %w", err)
		}

		topologyCtx, cancel := context.WithTimeout(ctx, config.ConnectionTimeout)
		defer cancel()
		if _, err := c.NewTopologyCommand().Send(topologyCtx); err != nil {
			_ = c.Close()
			return fmt.Errorf("failed to reach Zeebe gateway at %s: %w", config.GatewayAddress, err)
		}

		zeebeClient = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Client{client: zeebeClient, config: config}, nil
}

// Zeebe returns the raw client for opening job workers.
func (c *Client) Zeebe() zbc.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

// HealthCheck sends a topology request to the gateway.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}

// Retry runs fn until it succeeds, doubling the delay between attempts.
// Errors that are clearly not transient stop the loop early.
func Retry(ctx context.Context, rc *RetryConfig, operation string, log logger.Logger, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= rc.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) || attempt == rc.MaxAttempts {
			break
		}

		delay := Backoff(attempt, rc)
		log.Warn(operation+" failed, retrying", map[string]interface{}{
			"error":       lastErr.Error(),
			"attempt":     attempt,
			"maxAttempts": rc.MaxAttempts,
			"nextRetryIn": delay.String(),
		})

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled after %d attempts: %w", operation, attempt, ctx.Err())
		}
	}
	return fmt.Errorf("%s failed: %w", operation, lastErr)
}

// Backoff returns the delay after the given 1-based attempt.
func Backoff(attempt int, rc *RetryConfig) time.Duration {
	delay := rc.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= rc.MaxDelay {
			return rc.MaxDelay
		}
	}
	if delay > rc.MaxDelay {
		return rc.MaxDelay
	}
	return delay
}

var permanentPhrases = []string{
	"permission denied",
	"unauthorized",
	"unauthenticated",
	"invalid argument",
	"authentication failed",
}

// IsRetryable reports whether err looks transient. Unknown errors count as
// transient.
func IsRetryable(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, phrase := range permanentPhrases {
		if strings.Contains(msg, phrase) {
			return false
		}
	}
	return true
}
