package docs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinceTime(t *testing.T) {
	cutoff, err := sinceTime("", 0)
	require.NoError(t, err)
	assert.True(t, cutoff.IsZero())

	cutoff, err = sinceTime("2024-01-01", 0)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), cutoff)

	cutoff, err = sinceTime("", 30)
	require.NoError(t, err)
	want := time.Now().AddDate(0, 0, -30)
	assert.WithinDuration(t, want, cutoff, time.Minute)

	_, err = sinceTime("not-a-date", 0)
	assert.Error(t, err)

	_, err = sinceTime("2024-01-01", 30)
	assert.Error(t, err)
}
