package internal

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addrOf(t *testing.T, s string) net.Addr {
	t.Helper()
	addr, err := net.ResolveTCPAddr("tcp", s)
	require.NoError(t, err)
	return addr
}

func TestSourceTrackerCapPerSource(t *testing.T) {
	tracker := NewSourceTrackerWith(2, 16, time.Minute)
	a := addrOf(t, "192.0.2.1:50001")

	assert.True(t, tracker.Acquire(a))
	assert.True(t, tracker.Acquire(a))
	assert.False(t, tracker.Acquire(a))

	tracker.Release(a)
	assert.True(t, tracker.Acquire(a))
}

func TestSourceTrackerKeysByIPNotPort(t *testing.T) {
	tracker := NewSourceTrackerWith(1, 16, time.Minute)

	assert.True(t, tracker.Acquire(addrOf(t, "192.0.2.1:50001")))
	assert.False(t, tracker.Acquire(addrOf(t, "192.0.2.1:50002")))
	assert.True(t, tracker.Acquire(addrOf(t, "192.0.2.2:50001")))
}
