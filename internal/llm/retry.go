package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
)

type RetryConfig struct {
	Attempts     uint
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts:     3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     12 * time.Second,
	}
}

// Retry calls invoke with exponential backoff until it succeeds, returns a
// non-retryable error, or the attempts run out.
func Retry(ctx context.Context, cfg RetryConfig, invoke func(ctx context.Context) (*LLMResponse, error)) (*LLMResponse, error) {
	if cfg.Attempts == 0 {
		cfg.Attempts = 1
	}

	var response *LLMResponse
	err := retry.Do(
		func() error {
			resp, err := invoke(ctx)
			if err != nil {
				if !IsRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			response = resp
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(cfg.Attempts),
		retry.Delay(cfg.InitialDelay),
		retry.MaxDelay(cfg.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("max retries %d exceeded: %w", cfg.Attempts, err)
	}

	return response, nil
}

func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	errStr := err.Error()

	// 1. Throttling errors
	if strings.Contains(errStr, "ThrottlingException") ||
		strings.Contains(errStr, "TooManyRequestsException") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "Rate exceeded") ||
		strings.Contains(errStr, "429") {
		return true
	}

	// 2. Service errors (5xx)
	if strings.Contains(errStr, "InternalServerException") ||
		strings.Contains(errStr, "ServiceUnavailableException") ||
		strings.Contains(errStr, "UNAVAILABLE") ||
		strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") {
		return true
	}

	// 3. Network errors
	if strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "EOF") ||
		strings.Contains(errStr, "timeout") {
		return true
	}

	return false
}
