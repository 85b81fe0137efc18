package handler

import (
	"context"
	"io"

	"github.com/portgate/portgate"
	"github.com/portgate/portgate/helper"
	"github.com/portgate/portgate/net"
)

// NewEcho returns a handler that pumps every received byte back to the
// peer until it disconnects.
func NewEcho() portgate.Handler {
	return func(ctx context.Context, conn net.Connection) error {
		err := helper.Copier(conn.TCPConn, conn.TCPConn)
		if err == io.EOF {
			return nil
		}
		return err
	}
}

// NewSink returns a handler that drains the peer until EOF, discarding
// the bytes.
func NewSink() portgate.Handler {
	return func(ctx context.Context, conn net.Connection) error {
		n, err := io.Copy(io.Discard, conn)
		portgate.Logger(ctx).Infof("sink: drained %d bytes", n)
		return err
	}
}
