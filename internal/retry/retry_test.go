package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoSuccess(t *testing.T) {
	config := Config{
		MaxRetries: 3,
		Delay:      10 * time.Millisecond,
		Timeout:    1 * time.Second,
	}

	callCount := 0
	operation := func(ctx context.Context) (string, error) {
		callCount++
		return "success", nil
	}

	result, err := Do(context.Background(), config, operation)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("Expected 'success', got %s", result)
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
}

func TestDoSuccessAfterRetries(t *testing.T) {
	config := Config{
		MaxRetries: 3,
		Delay:      10 * time.Millisecond,
		Timeout:    1 * time.Second,
	}

	callCount := 0
	operation := func(ctx context.Context) (string, error) {
		callCount++
		if callCount < 3 {
			return "", errors.New("temporary failure")
		}
		return "success", nil
	}

	result, err := Do(context.Background(), config, operation)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("Expected 'success', got %s", result)
	}
	if callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", callCount)
	}
}

func TestDoFailureAfterMaxRetries(t *testing.T) {
	config := Config{
		MaxRetries: 1,
		Delay:      10 * time.Millisecond,
		Timeout:    1 * time.Second,
	}

	callCount := 0
	operation := func(ctx context.Context) (string, error) {
		callCount++
		return "", errors.New("persistent failure")
	}

	result, err := Do(context.Background(), config, operation)
	if err == nil {
		t.Error("Expected error, got nil")
	}
	if err != nil && err.Error() != "operation failed after 2 attempts: persistent failure" {
		t.Errorf("Unexpected error text: %v", err)
	}
	if result != "" {
		t.Errorf("Expected empty result, got %s", result)
	}
	if callCount != 2 { // MaxRetries + 1
		t.Errorf("Expected 2 calls, got %d", callCount)
	}
}

func TestDoFixedDelayBetweenAttempts(t *testing.T) {
	config := Config{
		MaxRetries: 2,
		Delay:      40 * time.Millisecond,
		Timeout:    1 * time.Second,
	}

	operation := func(ctx context.Context) (string, error) {
		return "", errors.New("failure")
	}

	start := time.Now()
	_, err := Do(context.Background(), config, operation)
	elapsed := time.Since(start)

	if err == nil {
		t.Error("Expected error, got nil")
	}
	// Two waits of 40ms between three attempts.
	if elapsed < 80*time.Millisecond {
		t.Errorf("Expected at least 80ms of delay, got %v", elapsed)
	}
	if elapsed > 400*time.Millisecond {
		t.Errorf("Delays took unexpectedly long: %v", elapsed)
	}
}

func TestDoContextCancellation(t *testing.T) {
	config := Config{
		MaxRetries: 5,
		Delay:      50 * time.Millisecond,
		Timeout:    1 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())

	callCount := 0
	operation := func(ctx context.Context) (string, error) {
		callCount++
		if callCount == 2 {
			cancel() // Cancel after second attempt
		}
		return "", errors.New("failure")
	}

	result, err := Do(ctx, config, operation)
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if result != "" {
		t.Errorf("Expected empty result, got %s", result)
	}
	if callCount > 3 {
		t.Errorf("Expected at most 3 calls due to cancellation, got %d", callCount)
	}
}

func TestDoPerAttemptTimeout(t *testing.T) {
	config := Config{
		MaxRetries: 1,
		Delay:      10 * time.Millisecond,
		Timeout:    30 * time.Millisecond,
	}

	callCount := 0
	operation := func(ctx context.Context) (string, error) {
		callCount++
		<-ctx.Done()
		return "", ctx.Err()
	}

	_, err := Do(context.Background(), config, operation)
	if err == nil {
		t.Error("Expected error, got nil")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected wrapped deadline error, got %v", err)
	}
	if callCount != 2 {
		t.Errorf("Expected 2 calls, got %d", callCount)
	}
}

func TestDoDifferentTypes(t *testing.T) {
	config := Config{
		MaxRetries: 1,
		Delay:      10 * time.Millisecond,
		Timeout:    1 * time.Second,
	}

	intResult, err := Do(context.Background(), config, func(ctx context.Context) (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Errorf("Expected no error for int, got %v", err)
	}
	if intResult != 42 {
		t.Errorf("Expected 42, got %d", intResult)
	}

	type page struct{ body string }
	pageResult, err := Do(context.Background(), config, func(ctx context.Context) (page, error) {
		return page{body: "<html></html>"}, nil
	})
	if err != nil {
		t.Errorf("Expected no error for struct, got %v", err)
	}
	if pageResult.body != "<html></html>" {
		t.Errorf("Unexpected struct result: %+v", pageResult)
	}
}
