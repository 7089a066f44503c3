package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirmQuit(t *testing.T) {
	cases := []struct {
		input string
		quit  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"\n", false},
		{"whatever\n", false},
		{"", true}, // closed stdin
	}
	for _, c := range cases {
		var out bytes.Buffer
		assert.Equal(t, c.quit, confirmQuit(strings.NewReader(c.input), &out), "input %q", c.input)
		assert.Contains(t, out.String(), "really want to exit")
	}
}
