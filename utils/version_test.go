package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewerVersion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		candidate string
		current   string
		want      bool
	}{
		{"v1.2.0", "v1.1.9", true},
		{"v1.1.9", "v1.2.0", false},
		{"v1.2.0", "v1.2.0", false},
		{"1.2", "v1.1.9", true},
		{"v2.0.0", "v1.9.9", true},
		{"v1.2.0.1", "v1.2.0", true},
		{"v1.2.0", "v1.2.0.1", false},
		{"dev", "v1.0.0", false},
		{"v1.0.0", "dev", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewerVersion(tt.candidate, tt.current),
			"NewerVersion(%q, %q)", tt.candidate, tt.current)
	}
}
