package internal

import (
	"context"
	"errors"
	stdnet "net"
	"os"
	"testing"
	"time"

	"github.com/portgate/portgate"
	"github.com/portgate/portgate/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type tempAcceptError struct{}

func (tempAcceptError) Error() string   { return "resource temporarily unavailable" }
func (tempAcceptError) Timeout() bool   { return false }
func (tempAcceptError) Temporary() bool { return true }

// failingListener fails every Accept with a fixed error, recording call times.
type failingListener struct {
	calls []time.Time
	err   error
}

func (f *failingListener) Accept() (stdnet.Conn, error) {
	f.calls = append(f.calls, time.Now())
	return nil, f.err
}

func (f *failingListener) Close() error {
	return nil
}

func (f *failingListener) Addr() stdnet.Addr {
	return &stdnet.TCPAddr{IP: stdnet.IPv4(127, 0, 0, 1)}
}

func TestClassifyBindErr(t *testing.T) {
	assert.Equal(t, portgate.ErrAddressInUse, classifyBindErr(os.NewSyscallError("bind", unix.EADDRINUSE)))
	assert.Equal(t, portgate.ErrPermissionDenied, classifyBindErr(os.NewSyscallError("bind", unix.EACCES)))
	assert.Equal(t, portgate.ErrPermissionDenied, classifyBindErr(os.NewSyscallError("bind", unix.EPERM)))
	assert.Equal(t, portgate.ErrInvalidAddress, classifyBindErr(errors.New("lookup failed")))
}

func TestInitBindsEphemeralPort(t *testing.T) {
	lis := NewTcpListener("tcp", portgate.ListenerOptions{Address: "127.0.0.1"}, net.DefaultTcpOptions())
	require.Equal(t, portgate.StateStarting, lis.State())
	require.Nil(t, lis.Addr())

	require.NoError(t, lis.Init(context.Background()))
	require.Equal(t, portgate.StateAccepting, lis.State())
	require.NotNil(t, lis.Addr())

	require.NoError(t, lis.Close())
	require.Equal(t, portgate.StateStopped, lis.State())
}

func TestListenReturnsCanceledOnStop(t *testing.T) {
	lis := NewTcpListener("tcp", portgate.ListenerOptions{Address: "127.0.0.1"}, net.DefaultTcpOptions())
	require.NoError(t, lis.Init(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		result <- lis.Listen(ctx, func(ctx context.Context, conn net.Connection) error {
			return nil
		})
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-result:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("listen did not stop")
	}
	require.Equal(t, portgate.StateStopped, lis.State())
}

func TestAcceptRetriesWithBackoffUntilBudgetExhausted(t *testing.T) {
	lis := NewTcpListener("tcp", portgate.ListenerOptions{
		Address:           "127.0.0.1",
		MaxAcceptDelay:    40 * time.Millisecond,
		AcceptRetryBudget: 5,
	}, net.DefaultTcpOptions())
	fake := &failingListener{err: tempAcceptError{}}
	queue := make(chan *stdnet.TCPConn, 1)

	err := lis.acceptLoop(context.Background(), fake, queue)
	require.ErrorIs(t, err, portgate.ErrAcceptFailed)

	// budget retries plus the final attempt that exhausts it
	require.Len(t, fake.calls, 6)
	gaps := make([]time.Duration, 0, len(fake.calls)-1)
	for n := 1; n < len(fake.calls); n++ {
		gaps = append(gaps, fake.calls[n].Sub(fake.calls[n-1]))
	}
	// 5ms doubling capped at 40ms: the late gaps sit at the cap
	assert.GreaterOrEqual(t, gaps[0], 5*time.Millisecond)
	assert.GreaterOrEqual(t, gaps[3], gaps[0])
	assert.GreaterOrEqual(t, gaps[4], 40*time.Millisecond)
}

func TestAcceptFatalErrorFailsImmediately(t *testing.T) {
	lis := NewTcpListener("tcp", portgate.ListenerOptions{Address: "127.0.0.1"}, net.DefaultTcpOptions())
	fake := &failingListener{err: errors.New("too many open files")}
	queue := make(chan *stdnet.TCPConn, 1)

	err := lis.acceptLoop(context.Background(), fake, queue)
	require.ErrorIs(t, err, portgate.ErrAcceptFailed)
	require.Len(t, fake.calls, 1)
}
