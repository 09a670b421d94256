// Package dispatch sends a batch of SMS messages, isolating each recipient's failure.
package dispatch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/fkhayef/checkin/internal/metrics"
	"github.com/fkhayef/checkin/internal/sms"
)

// DefaultConcurrency caps in-flight sends per batch
const DefaultConcurrency = 5

// Message is one caller-built SMS
type Message struct {
	To   string `json:"to"`
	Body string `json:"-"`
}

// Failure records a send that did not go through
type Failure struct {
	To    string `json:"to"`
	Error string `json:"error"`
}

// Result tallies a batch
type Result struct {
	Sent     int       `json:"sent"`
	Failures []Failure `json:"failures"`
}

// Options tune an executor
type Options struct {
	// Concurrency bounds parallel sends; values below 1 mean DefaultConcurrency.
	Concurrency int
	// RatePerSecond caps the send rate across the batch; zero disables the limit.
	RatePerSecond float64
}

// Executor sends messages through an SMS provider
type Executor struct {
	provider    sms.Provider
	concurrency int
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// NewExecutor creates a new executor
func NewExecutor(provider sms.Provider, opts Options, logger *zap.Logger) *Executor {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	var limiter *rate.Limiter
	if opts.RatePerSecond > 0 {
		burst := int(opts.RatePerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}
	return &Executor{
		provider:    provider,
		concurrency: concurrency,
		limiter:     limiter,
		logger:      logger,
	}
}

// Dispatch sends every message once. A failing recipient is recorded and never stops the rest;
// nothing is retried. Failures are reported in input order. event labels metrics and logs.
func (e *Executor) Dispatch(ctx context.Context, event string, messages []Message) Result {
	start := time.Now()
	defer func() { metrics.RecordDispatch(event, time.Since(start).Seconds()) }()

	errs := make([]error, len(messages))
	var mu sync.Mutex
	sent := 0

	var g errgroup.Group
	g.SetLimit(e.concurrency)

	for i, msg := range messages {
		g.Go(func() error {
			err := e.send(ctx, msg)
			if err != nil {
				errs[i] = err
				metrics.RecordSend(event, "failure")
				e.logger.Warn("sms send failed",
					zap.String("event", event),
					zap.String("to", msg.To),
					zap.Error(err))
				return nil
			}
			metrics.RecordSend(event, "success")
			mu.Lock()
			sent++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Sent: sent, Failures: []Failure{}}
	for i, err := range errs {
		if err != nil {
			res.Failures = append(res.Failures, Failure{To: messages[i].To, Error: err.Error()})
		}
	}

	e.logger.Info("dispatch completed",
		zap.String("event", event),
		zap.Int("attempted", len(messages)),
		zap.Int("sent", res.Sent),
		zap.Int("failed", len(res.Failures)),
		zap.Duration("duration", time.Since(start)))

	return res
}

func (e *Executor) send(ctx context.Context, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{value: r}
		}
	}()

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	_, err = e.provider.Send(ctx, msg.To, msg.Body)
	return err
}
