package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jonathan/roadmap-generator/internal/logger"
)

const (
	// DefaultBackoff is the pause before the single retry
	DefaultBackoff = 2 * time.Second
	// minRetryTokens keeps a halved budget from collapsing to nothing
	minRetryTokens = 256
)

// Request is one logical completion request
type Request struct {
	Prompt    string
	MaxTokens int
	Timeout   time.Duration
	Tier      ModelTier
	// Operation labels logs and metrics, e.g. "generate_roadmap"
	Operation string
}

// Gateway completes prompts against the upstream model
type Gateway interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Observer receives one event per network attempt
type Observer interface {
	ObserveLLMCall(operation string, outcome string, elapsed time.Duration)
}

// Client is the Gateway implementation: a bounded retry loop over a Transport
type Client struct {
	transport Transport
	log       *logger.Logger
	observer  Observer
	backoff   time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
}

// Option customises a Client
type Option func(*Client)

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithObserver reports every attempt to o
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// WithBackoff overrides DefaultBackoff. Zero disables the pause.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.backoff = d
	}
}

// NewClient wraps a transport with the retry policy
func NewClient(transport Transport, opts ...Option) *Client {
	c := &Client{
		transport: transport,
		log:       logger.Nop(),
		backoff:   DefaultBackoff,
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete runs the request with at most one retry. Rate-limit and auth failures are
// returned immediately. A timeout is retried once with half the token budget; any
// other failure is retried once unchanged. A cancelled caller context is never retried.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxTokens
	retryAllowed := true

	for attempt := 1; ; attempt++ {
		text, err := c.attempt(ctx, req, maxTokens)
		if err == nil {
			return text, nil
		}

		if !retryAllowed || !err.Retryable() || ctx.Err() != nil {
			return "", err
		}
		retryAllowed = false

		if err.Kind == KindTimeout && maxTokens > 0 {
			maxTokens = max(maxTokens/2, minRetryTokens)
		}
		c.log.Warn("LLM call retrying",
			"operation", req.Operation,
			"attempt", attempt+1,
			"kind", string(err.Kind),
			"max_tokens", maxTokens,
			"error", err.Error(),
		)
		if serr := c.sleep(ctx, c.backoff); serr != nil {
			return "", Classify(serr, 0, "")
		}
	}
}

func (c *Client) attempt(ctx context.Context, req Request, maxTokens int) (string, *Error) {
	callCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := c.transport.Send(callCtx, Call{Prompt: req.Prompt, MaxTokens: maxTokens, Tier: req.Tier})
	elapsed := time.Since(start)

	if err != nil {
		classified := Classify(err, 0, "")
		// the per-call deadline fired while the caller is still waiting
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			classified.Kind = KindTimeout
		}
		c.observe(req.Operation, string(classified.Kind), elapsed)
		return "", classified
	}

	text = strings.TrimSpace(text)
	if text == "" {
		c.observe(req.Operation, "empty", elapsed)
		return "", &Error{Kind: KindGeneric, Message: "empty completion"}
	}

	c.observe(req.Operation, "ok", elapsed)
	c.log.Debug("LLM call succeeded",
		"operation", req.Operation,
		"model", c.transport.Model(req.Tier),
		"elapsed", elapsed.String(),
		"chars", len(text),
	)
	return text, nil
}

func (c *Client) observe(operation, outcome string, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveLLMCall(operation, outcome, elapsed)
	}
}

// Model returns the provider model serving a tier
func (c *Client) Model(tier ModelTier) string {
	return c.transport.Model(tier)
}

// Close releases the transport
func (c *Client) Close() error {
	return c.transport.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
