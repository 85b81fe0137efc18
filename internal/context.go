package internal

import (
	"context"
	"net"

	"github.com/lithammer/shortuuid/v4"
	"github.com/portgate/portgate"
)

// SetupTcpContextLogger 为单个连接构造日志上下文:短ID + 来源地址。
func SetupTcpContextLogger(ctx context.Context, conn net.Conn) context.Context {
	remoteAddr := conn.RemoteAddr().String()
	id := shortuuid.NewWithNamespace(remoteAddr)
	return portgate.SetContextLogID(ctx, id, remoteAddr)
}
