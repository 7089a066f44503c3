package alarms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetRemovesCurrentByDefault(t *testing.T) {
	f := setCmd.Flags().Lookup(removeFlag)
	require.NotNil(t, f)
	// A plain "alarms set" run replaces the existing alarms of the
	// touched instruments instead of piling new ones on top.
	assert.Equal(t, "true", f.DefValue)
}

func TestListHasOutputFileFlag(t *testing.T) {
	f := listCmd.Flags().Lookup(outputFlag)
	require.NotNil(t, f)
	assert.Equal(t, "o", f.Shorthand)
}
