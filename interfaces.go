package portgate

import (
	"context"

	"github.com/portgate/portgate/net"
)

// Handler 处理一个已接收的连接。Listener 在派发后不再持有连接的引用。
type Handler func(ctx context.Context, conn net.Connection) error

// Listener 监听器，监听服务端口，接收客户端连接并逐个派发给 Handler。
type Listener interface {
	// Init 校验参数并绑定监听端口
	Init(ctx context.Context) error
	// Listen 以阻塞态运行接收循环，直到 ctx 取消或发生不可恢复错误
	Listen(ctx context.Context, handler Handler) error
}
