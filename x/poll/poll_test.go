package poll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wizpio-go/errcode"
)

func TestUntilImmediate(t *testing.T) {
	calls := 0
	err := Until(time.Millisecond, func() bool { calls++; return true })
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestUntilEventually(t *testing.T) {
	n := 0
	err := Until(time.Second, func() bool { n++; return n >= 5 })
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestUntilTimeout(t *testing.T) {
	start := time.Now()
	err := Until(2*time.Millisecond, func() bool { return false })
	assert.ErrorIs(t, err, errcode.Timeout)
	assert.GreaterOrEqual(t, time.Since(start), 2*time.Millisecond)
}

func TestUntilZeroTimeoutSamplesOnce(t *testing.T) {
	calls := 0
	err := Until(0, func() bool { calls++; return false })
	assert.ErrorIs(t, err, errcode.Timeout)
	assert.Equal(t, 1, calls)
}

func TestAll(t *testing.T) {
	a, b := false, false
	err := All(time.Second,
		func() bool { a = true; return true },
		func() bool { b = true; return true },
	)
	require.NoError(t, err)
	assert.True(t, a && b)

	err = All(time.Millisecond, func() bool { return true }, func() bool { return false })
	assert.ErrorIs(t, err, errcode.Timeout)
}
