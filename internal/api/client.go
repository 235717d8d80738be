// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PoGoBot Contributors

// Package api batches remote calls, skips the ones whose state is cached,
// and feeds responses into the state store.
package api

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pogobot/pogobot/internal/model"
	"github.com/pogobot/pogobot/internal/state"
)

var tracer = otel.Tracer("pogobot/api")

// Retry defaults.
const (
	DefaultAttempts      = 10
	DefaultRetryDelay    = 5 * time.Second
	DefaultThrottleDelay = 15 * time.Second
)

// Client executes call batches through a Transport. Batches are serialized:
// filtering, execution and response handling of one batch complete before
// the next batch starts.
type Client struct {
	transport     Transport
	store         *state.Store
	logger        *slog.Logger
	attempts      uint64
	retryDelay    time.Duration
	throttleDelay time.Duration

	mu sync.Mutex
}

// ClientOption configures a Client during construction.
type ClientOption func(*Client)

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithRetry configures the retry policy. Transport errors and throttling
// wait throttleDelay before the next attempt; responses with a bad status
// wait retryDelay.
func WithRetry(attempts uint64, retryDelay, throttleDelay time.Duration) ClientOption {
	return func(c *Client) {
		c.attempts = attempts
		c.retryDelay = retryDelay
		c.throttleDelay = throttleDelay
	}
}

// NewClient creates a client writing into store.
func NewClient(t Transport, store *state.Store, opts ...ClientOption) (*Client, error) {
	if t == nil {
		return nil, ErrNilTransport
	}
	if store == nil {
		return nil, ErrNilStore
	}
	c := &Client{
		transport:     t,
		store:         store,
		logger:        slog.Default(),
		attempts:      DefaultAttempts,
		retryDelay:    DefaultRetryDelay,
		throttleDelay: DefaultThrottleDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.attempts == 0 {
		c.attempts = 1
	}
	return c, nil
}

// Store returns the state store fed by this client.
func (c *Client) Store() *state.Store {
	return c.store
}

// Request starts a new batch.
func (c *Client) Request() *Request {
	return &Request{client: c}
}

type callOptions struct {
	ignoreCache bool
}

// CallOption configures a single Execute.
type CallOption func(*callOptions)

// IgnoreCache executes every queued call, even those whose state is fresh.
func IgnoreCache() CallOption {
	return func(o *callOptions) {
		o.ignoreCache = true
	}
}

// Execute filters calls against the store, executes the remainder and
// merges the responses. When every call is served from cache the store is
// returned without contacting the server. When the server gives no usable
// response the store is left untouched.
func (c *Client) Execute(ctx context.Context, calls []state.Call, opts ...CallOption) (_ *state.Store, err error) {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	batchID := ulid.Make().String()
	ctx, span := tracer.Start(ctx, "api.call",
		trace.WithAttributes(
			attribute.String("batch.id", batchID),
			attribute.Int("batch.queued", len(calls)),
			attribute.Bool("batch.ignore_cache", o.ignoreCache),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	pending := calls
	if !o.ignoreCache {
		pending, err = c.store.Filter(calls)
		if err != nil {
			Batches.WithLabelValues(BatchError).Inc()
			return nil, err
		}
	}
	recordCalls(calls, pending)
	span.SetAttributes(attribute.Int("batch.executed", len(pending)))

	if len(pending) == 0 {
		Batches.WithLabelValues(BatchCached).Inc()
		c.logger.DebugContext(ctx, "all calls served from cache", "batch_id", batchID, "queued", len(calls))
		return c.store, nil
	}

	resp, err := c.execute(ctx, batchID, pending)
	if err != nil {
		Batches.WithLabelValues(BatchNoResponse).Inc()
		return nil, err
	}
	if err := c.store.MarkExecuted(pending); err != nil {
		Batches.WithLabelValues(BatchError).Inc()
		return nil, err
	}
	for _, key := range responseOrder(pending, resp.Responses) {
		c.store.Handle(key, resp.Responses[key])
	}
	Batches.WithLabelValues(BatchSuccess).Inc()
	c.logger.DebugContext(ctx, "batch executed",
		"batch_id", batchID,
		"queued", len(calls),
		"executed", len(pending),
		"responses", len(resp.Responses),
	)
	return c.store, nil
}

// execute runs the batch with retries.
func (c *Client) execute(ctx context.Context, batchID string, calls []state.Call) (*Response, error) {
	var (
		result  *Response
		lastErr error
		delay   time.Duration
		attempt uint64
	)
	if err := ctx.Err(); err != nil {
		return nil, noResponseError(batchID, 0, err)
	}
	backoff := retry.WithMaxRetries(c.attempts-1, retry.BackoffFunc(func() (time.Duration, bool) {
		return delay, false
	}))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		resp, err := c.transport.Execute(ctx, calls)
		switch {
		case errors.Is(err, ErrThrottled):
			delay = c.throttleDelay
			c.logger.WarnContext(ctx, "server throttled request",
				"batch_id", batchID, "attempt", attempt, "retry_in", delay)
		case err != nil:
			delay = c.throttleDelay
			c.logger.WarnContext(ctx, "transport error",
				"batch_id", batchID, "attempt", attempt, "error", err, "retry_in", delay)
		case resp == nil:
			delay = c.retryDelay
			err = errEmptyResponse
			c.logger.WarnContext(ctx, "server returned no response",
				"batch_id", batchID, "attempt", attempt, "retry_in", delay)
		case resp.StatusCode != StatusOK:
			delay = c.retryDelay
			err = errBadStatus
			c.logger.WarnContext(ctx, "unexpected response status",
				"batch_id", batchID, "attempt", attempt, "status", resp.StatusCode, "retry_in", delay)
		default:
			result = resp
			return nil
		}
		lastErr = err
		return retry.RetryableError(err)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, noResponseError(batchID, attempt, ctxErr)
		}
		if lastErr == nil {
			lastErr = err
		}
		return nil, noResponseError(batchID, attempt, lastErr)
	}
	return result, nil
}

// responseOrder returns the response keys in the order their calls were
// queued, followed by any extra keys sorted by name.
func responseOrder(calls []state.Call, responses map[string]model.Raw) []string {
	seen := make(map[string]bool, len(responses))
	keys := make([]string, 0, len(responses))
	for _, c := range calls {
		k := string(c.Method)
		if _, ok := responses[k]; ok && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	var extra []string
	for k := range responses {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}
