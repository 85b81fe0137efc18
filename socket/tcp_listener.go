package socket

import (
	"github.com/portgate/portgate"
	"github.com/portgate/portgate/internal"
	"github.com/portgate/portgate/net"
)

var (
	_ portgate.Listener = (*TcpListener)(nil)
)

type TcpListener struct {
	*internal.TcpListener
}

func NewTcpListenerWith(opts portgate.ListenerOptions, tcpOpts net.TcpOptions) *TcpListener {
	return &TcpListener{
		TcpListener: internal.NewTcpListener("tcp", opts, tcpOpts),
	}
}
