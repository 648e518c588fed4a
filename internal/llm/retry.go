package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"
	"github.com/openai/openai-go/v3"
	"golang.org/x/time/rate"

	"github.com/Epistemic-Technology/assessa-mcp/internal/logger"
)

const (
	// Model calls are paced to a few requests per second across all pipelines.
	requestsPerSecond = 2
	burstRequests     = 4

	defaultMaxAttempts = 5
	defaultBaseDelay   = 1200 * time.Millisecond
	defaultMaxJitter   = 500 * time.Millisecond
)

var (
	// ErrRetryLimitExceeded is matched by the error returned when every attempt
	// was throttled.
	ErrRetryLimitExceeded = errors.New("retry limit exceeded")

	// ErrThrottled can be returned (or wrapped) by a Generator to mark a
	// provider throttling response.
	ErrThrottled = errors.New("throttled")

	// Global limiter for model calls, shared by all concurrent pipelines.
	modelRateLimiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burstRequests)

	sleep = func(ctx context.Context, d time.Duration) error {
		select {
		case <-time.After(d):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
)

// RetryPolicy controls WithRetry.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxJitter   time.Duration
	// Limiter paces attempts; nil uses the shared model limiter.
	Limiter *rate.Limiter
}

// DefaultRetryPolicy is 5 attempts with 1.2s exponential backoff and up to
// 500ms of jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: defaultMaxAttempts,
		BaseDelay:   defaultBaseDelay,
		MaxJitter:   defaultMaxJitter,
	}
}

// Delay returns the wait after failed attempt i (0-indexed), without jitter.
func (p RetryPolicy) Delay(i int) time.Duration {
	return p.BaseDelay * time.Duration(1<<i)
}

func (p RetryPolicy) jitter() time.Duration {
	if p.MaxJitter <= 0 {
		return 0
	}
	return rand.N(p.MaxJitter)
}

// RetryLimitError is returned when all attempts were throttled.
type RetryLimitError struct {
	Attempts int
	Last     error
}

func (e *RetryLimitError) Error() string {
	return fmt.Sprintf("retry limit exceeded after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetryLimitError) Unwrap() []error {
	return []error{ErrRetryLimitExceeded, e.Last}
}

// WithRetry runs fn until it succeeds, fails with a non-throttling error, or
// MaxAttempts throttled attempts have been made. Non-throttling errors are
// returned unchanged. Sleeps between attempts return early on ctx cancellation.
func WithRetry[T any](ctx context.Context, policy RetryPolicy, log logger.Logger, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = defaultMaxAttempts
	}
	limiter := policy.Limiter
	if limiter == nil {
		limiter = modelRateLimiter
	}

	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := policy.Delay(attempt-1) + policy.jitter()
			log.Info("Retry attempt %d/%d after %v delay", attempt+1, policy.MaxAttempts, delay)
			if err := sleep(ctx, delay); err != nil {
				return zero, err
			}
		}

		if err := limiter.Wait(ctx); err != nil {
			return zero, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		result, err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				log.Info("Retry succeeded on attempt %d", attempt+1)
			}
			return result, nil
		}

		lastErr = err
		if !IsThrottlingError(err) {
			return zero, err
		}
		log.Warn("Throttled on attempt %d/%d: %v", attempt+1, policy.MaxAttempts, err)
	}

	return zero, &RetryLimitError{Attempts: policy.MaxAttempts, Last: lastErr}
}

// IsThrottlingError reports whether err is a provider throttling response:
// HTTP 429 from OpenAI or AWS, a Bedrock ThrottlingException, ErrThrottled,
// or an error whose text says so.
func IsThrottlingError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrThrottled) {
		return true
	}

	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) && openaiErr.StatusCode == 429 {
		return true
	}

	var throttling *types.ThrottlingException
	if errors.As(err, &throttling) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ThrottlingException" {
		return true
	}

	var statusErr interface{ HTTPStatusCode() int }
	if errors.As(err, &statusErr) && statusErr.HTTPStatusCode() == 429 {
		return true
	}

	msg := err.Error()
	for _, s := range []string{"ThrottlingException", "Too Many Requests", "rate_limit_exceeded"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
