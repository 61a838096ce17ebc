package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts:     3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}
}

func TestRetry_SucceedsAfterRetryableErrors(t *testing.T) {
	calls := 0
	resp, err := Retry(context.Background(), testRetryConfig(), func(ctx context.Context) (*LLMResponse, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("googleapi: Error 503: UNAVAILABLE")
		}
		return &LLMResponse{Content: "ok"}, nil
	})

	if err != nil {
		t.Fatalf("Retry() failed: %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("Content: %s, want: ok", resp.Content)
	}
	if calls != 3 {
		t.Errorf("Calls: %d, want: 3", calls)
	}
}

func TestRetry_StopsOnNonRetryableError(t *testing.T) {
	errInvalid := errors.New("invalid api key")
	calls := 0
	_, err := Retry(context.Background(), testRetryConfig(), func(ctx context.Context) (*LLMResponse, error) {
		calls++
		return nil, errInvalid
	})

	if !errors.Is(err, errInvalid) {
		t.Errorf("Error: %v, want wrapped %v", err, errInvalid)
	}
	if calls != 1 {
		t.Errorf("Calls: %d, want: 1", calls)
	}
}

func TestRetry_GivesUpAfterAttempts(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), testRetryConfig(), func(ctx context.Context) (*LLMResponse, error) {
		calls++
		return nil, errors.New("ThrottlingException: Rate exceeded")
	})

	if err == nil {
		t.Fatal("Expected error after exhausting retries")
	}
	if calls != 3 {
		t.Errorf("Calls: %d, want: 3", calls)
	}
}

func TestRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), RetryConfig{}, func(ctx context.Context) (*LLMResponse, error) {
		calls++
		return &LLMResponse{Content: "once"}, nil
	})

	if err != nil {
		t.Fatalf("Retry() failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Calls: %d, want: 1", calls)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "throttling", err: errors.New("ThrottlingException: slow down"), want: true},
		{name: "gemini quota", err: errors.New("Error 429, Message: quota, Status: RESOURCE_EXHAUSTED"), want: true},
		{name: "server error", err: errors.New("status 500"), want: true},
		{name: "network", err: errors.New("read tcp: connection reset by peer"), want: true},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: false},
		{name: "validation", err: errors.New("ValidationException: bad model id"), want: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsRetryableError(test.err); got != test.want {
				t.Errorf("IsRetryableError(%v): %v, want: %v", test.err, got, test.want)
			}
		})
	}
}

func TestGenerationParams(t *testing.T) {
	params := DefaultGenerationParams()
	req := params.Request("prompt")

	if req.Prompt != "prompt" || req.MaxTokens != 2048 || req.Temperature != 0.4 || req.TopP != 0.9 || req.TopK != 50 {
		t.Errorf("Request: %+v, unexpected defaults", req)
	}
	if !params.Retry {
		t.Error("Expected retry to be enabled by default")
	}
}
