package internal

import (
	"context"
	"errors"
	"fmt"
	stdnet "net"
	"runtime/debug"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/bytepowered/assert"
	"github.com/bytepowered/goes"
	"github.com/portgate/portgate"
	"github.com/portgate/portgate/helper"
	"github.com/portgate/portgate/net"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

var (
	_ portgate.Listener = (*TcpListener)(nil)
)

// TcpListener 接收循环的核心实现。绑定一次监听端口，按接收顺序逐个派发连接。
type TcpListener struct {
	tag      string
	opts     portgate.ListenerOptions
	tcpOpts  net.TcpOptions
	tracker  *SourceTracker
	state    atomic.Int32
	listener *stdnet.TCPListener
}

func NewTcpListener(tag string, opts portgate.ListenerOptions, tcpOpts net.TcpOptions) *TcpListener {
	t := &TcpListener{
		tag:     tag,
		opts:    opts.Normalized(),
		tcpOpts: tcpOpts,
	}
	if t.opts.MaxConnsPerSource > 0 {
		t.tracker = NewSourceTracker(t.opts.MaxConnsPerSource)
	}
	t.state.Store(int32(portgate.StateStarting))
	return t
}

func (t *TcpListener) State() portgate.State {
	return portgate.State(t.state.Load())
}

// Addr returns the bound address, nil before Init succeeds. With port 0
// the reported port is the ephemeral one chosen by the kernel.
func (t *TcpListener) Addr() stdnet.Addr {
	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

// Init 校验参数并绑定监听端口。绑定失败同步返回 *portgate.BindError。
func (t *TcpListener) Init(ctx context.Context) error {
	addr := stdnet.JoinHostPort(t.opts.Address, strconv.Itoa(t.opts.Port))
	if t.opts.Port < 0 {
		return portgate.NewBindError(addr, portgate.ErrInvalidAddress, fmt.Errorf("invalid port range: %d", t.opts.Port))
	}
	if _, pErr := net.PortFromInt(uint32(t.opts.Port)); pErr != nil {
		return portgate.NewBindError(addr, portgate.ErrInvalidAddress, pErr)
	}
	if ip := stdnet.ParseIP(t.opts.Address); ip == nil {
		if _, rErr := stdnet.ResolveIPAddr("ip", t.opts.Address); rErr != nil {
			return portgate.NewBindError(addr, portgate.ErrInvalidAddress, rErr)
		}
	}
	lc := stdnet.ListenConfig{}
	if t.opts.ReuseAddress {
		lc.Control = net.ReuseAddrControl
	}
	listener, lErr := lc.Listen(ctx, "tcp", addr)
	if lErr != nil {
		return portgate.NewBindError(addr, classifyBindErr(lErr), lErr)
	}
	t.listener = listener.(*stdnet.TCPListener)
	t.state.Store(int32(portgate.StateAccepting))
	logrus.Infof("%s: listen start, address: %s", t.tag, t.listener.Addr())
	return nil
}

// Close releases the listening socket without serving. Listen closes the
// socket itself; this is for bind-then-abort paths (config verify).
func (t *TcpListener) Close() error {
	if t.listener == nil {
		return nil
	}
	t.state.Store(int32(portgate.StateStopped))
	return t.listener.Close()
}

// Listen 以阻塞态运行接收循环，直到 serveCtx 取消或重试预算耗尽。
// 返回时已不再发起任何派发。
func (t *TcpListener) Listen(serveCtx context.Context, handler portgate.Handler) error {
	assert.MustNotNil(t.listener, "%s: listener is not initialized", t.tag)
	addr := t.listener.Addr()
	defer func() {
		t.state.Store(int32(portgate.StateStopped))
		logrus.Infof("%s: listen stop, address: %s", t.tag, addr)
	}()
	// Close 解除 Accept 的阻塞
	go func() {
		<-serveCtx.Done()
		t.state.CompareAndSwap(int32(portgate.StateAccepting), int32(portgate.StateStopping))
		_ = t.listener.Close()
	}()
	// 派发队列:容量即 backlog,满时接收循环被反压
	queue := make(chan *stdnet.TCPConn, t.opts.Backlog)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for conn := range queue {
			t.dispatch(serveCtx, conn, handler)
		}
	}()
	acErr := t.acceptLoop(serveCtx, t.listener, queue)
	t.state.CompareAndSwap(int32(portgate.StateAccepting), int32(portgate.StateStopping))
	_ = t.listener.Close()
	close(queue)
	<-drained
	return acErr
}

func (t *TcpListener) acceptLoop(serveCtx context.Context, listener stdnet.Listener, queue chan<- *stdnet.TCPConn) error {
	var tempDelay time.Duration
	var failures int
	for {
		conn, acErr := listener.Accept()
		if acErr != nil {
			select {
			case <-serveCtx.Done():
				return serveCtx.Err()
			default:
			}
			var netErr stdnet.Error
			if errors.As(acErr, &netErr) && netErr.Temporary() {
				failures++
				if failures <= t.opts.AcceptRetryBudget {
					if tempDelay == 0 {
						tempDelay = 5 * time.Millisecond
					} else {
						tempDelay *= 2
					}
					if tempDelay > t.opts.MaxAcceptDelay {
						tempDelay = t.opts.MaxAcceptDelay
					}
					logrus.Warnf("%s: accept retry in %s: %s", t.tag, tempDelay, acErr)
					select {
					case <-serveCtx.Done():
						return serveCtx.Err()
					case <-time.After(tempDelay):
					}
					continue
				}
			}
			return fmt.Errorf("%w. %s", portgate.ErrAcceptFailed, acErr)
		}
		tempDelay = 0
		failures = 0
		queue <- conn.(*stdnet.TCPConn)
	}
}

func (t *TcpListener) dispatch(serveCtx context.Context, tcpConn *stdnet.TCPConn, next portgate.Handler) {
	remoteAddr := tcpConn.RemoteAddr()
	if t.tracker != nil && !t.tracker.Acquire(remoteAddr) {
		logrus.Warnf("%s: too many connections, source: %s", t.tag, remoteAddr)
		helper.Close(tcpConn)
		return
	}
	goes.Go(func() {
		defer func() {
			if rerr := recover(); rerr != nil {
				logrus.Errorf("%s: handle conn: %v, trace: %s", t.tag, rerr, string(debug.Stack()))
			}
		}()
		defer helper.Close(tcpConn)
		if t.tracker != nil {
			defer t.tracker.Release(remoteAddr)
		}
		if err := net.SetTcpOptions(tcpConn, t.tcpOpts); err != nil {
			logrus.Errorf("%s: set conn options: %s", t.tag, err)
		}
		connCtx := SetupTcpContextLogger(serveCtx, tcpConn)
		if t.opts.Verbose {
			portgate.Logger(connCtx).Infof("%s: conn accepted", t.tag)
		}
		if err := next(connCtx, net.Connection{
			Source:     remoteAddr,
			TCPConn:    tcpConn,
			ReadWriter: tcpConn,
		}); err != nil {
			portgate.Logger(connCtx).Errorf("%s: conn error: %s", t.tag, err)
		}
	})
}

func classifyBindErr(err error) error {
	switch {
	case errors.Is(err, unix.EADDRINUSE):
		return portgate.ErrAddressInUse
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return portgate.ErrPermissionDenied
	default:
		return portgate.ErrInvalidAddress
	}
}
