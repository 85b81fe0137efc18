package socket

import (
	"context"
	"errors"
	stdnet "net"
	"sync"

	"github.com/portgate/portgate"
	"github.com/portgate/portgate/net"
)

// Start 绑定监听端口并在后台运行接收循环。绑定成功即返回,失败返回
// *portgate.BindError。每个 Handle 只对应一次绑定,停止后不可复用。
func Start(ctx context.Context, opts portgate.ListenerOptions, handler portgate.Handler) (*Handle, error) {
	return StartWith(ctx, opts, net.DefaultTcpOptions(), handler)
}

func StartWith(ctx context.Context, opts portgate.ListenerOptions, tcpOpts net.TcpOptions, handler portgate.Handler) (*Handle, error) {
	lis := NewTcpListenerWith(opts, tcpOpts)
	if err := lis.Init(ctx); err != nil {
		return nil, err
	}
	serveCtx, serveCancel := context.WithCancel(ctx)
	h := &Handle{
		lis:    lis,
		cancel: serveCancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(h.done)
		defer serveCancel()
		if err := lis.Listen(serveCtx, handler); err != nil && !errors.Is(err, context.Canceled) {
			h.err = err
		}
	}()
	return h, nil
}

// Handle 控制一个正在运行的监听器。
type Handle struct {
	lis      *TcpListener
	cancel   context.CancelFunc
	stopOnce sync.Once
	done     chan struct{}
	err      error
}

// Stop signals the accept loop to terminate, closes the socket and waits
// until dispatch is accounted for: after Stop returns no further handler
// dispatch is issued. Idempotent and safe from any goroutine.
func (h *Handle) Stop() {
	h.stopOnce.Do(h.cancel)
	<-h.done
}

// Done is closed once the accept loop has fully stopped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err reports why the accept loop stopped. It returns nil while the loop
// is running and on clean shutdown; portgate.ErrAcceptFailed is matched
// by errors.Is when the retry budget was exhausted.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Addr 返回实际绑定的地址(端口为 0 时为内核分配的临时端口)。
func (h *Handle) Addr() stdnet.Addr {
	return h.lis.Addr()
}

func (h *Handle) State() portgate.State {
	return h.lis.State()
}
