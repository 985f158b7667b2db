package errors

import (
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"app", false},
		{"src/app/components", false},
		{".next", false},
		{"**/*.stories.tsx", false},
		{"lib/v1..v2", false},

		{"", true},
		{strings.Repeat("a", maxPathLength+1), true},
		{"/etc/passwd", true},
		{"../../../etc/passwd", true},
		{"foo/../bar", true},
		{"app/..", true},
		{"foo\x00bar", true},
		{`foo\bar`, true},
		{"foo\x01bar", true},
		{"foo\nbar", true},
	}

	for _, tt := range tests {
		err := ValidatePath(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidPath) {
			t.Errorf("ValidatePath(%q) code = %s, want INVALID_PATH", tt.input, GetCode(err))
		}
	}
}

func TestValidatePaths(t *testing.T) {
	if err := ValidatePaths([]string{"app", "components", "lib"}); err != nil {
		t.Errorf("default roots should pass: %v", err)
	}
	if err := ValidatePaths([]string{"app", "../secret"}); err == nil {
		t.Error("traversal entry should fail")
	}
	if err := ValidatePaths(nil); err != nil {
		t.Errorf("empty list should pass: %v", err)
	}
}
