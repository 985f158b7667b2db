package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestDo(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name      string
		failures  int
		transient bool
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{"success first try", 0, true, 3, 1, nil},
		{"transient then success", 2, true, 3, 3, nil},
		{"transient exhausted", 5, true, 3, 3, errBoom},
		{"permanent not retried", 5, false, 3, 1, errBoom},
		{"zero attempts runs once", 5, true, 0, 1, errBoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Do(context.Background(), tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					if tt.transient {
						return Transient(errBoom)
					}
					return errBoom
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if err != nil && IsTransient(err) {
				t.Error("exhausted error should be unwrapped")
			}
		})
	}
}

func TestDoCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, 5, time.Hour, func() error {
		calls++
		cancel()
		return Transient(errors.New("down"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestTransient(t *testing.T) {
	if Transient(nil) != nil {
		t.Error("Transient(nil) should be nil")
	}
	wrapped := fmt.Errorf("dial: %w", Transient(errors.New("refused")))
	if !IsTransient(wrapped) {
		t.Error("IsTransient should see through wrapping")
	}
	if IsTransient(errors.New("plain")) {
		t.Error("plain error is not transient")
	}
}

func ExampleDo() {
	attempt := 0
	err := Do(context.Background(), 3, time.Millisecond, func() error {
		attempt++
		if attempt < 2 {
			return Transient(errors.New("connection refused"))
		}
		return nil
	})
	fmt.Println(attempt, err)
	// Output: 2 <nil>
}
