package net

import (
	"io"
	"net"
)

// Connection 已接收的客户端连接。派发后由 Handler 独占持有。
type Connection struct {
	// 来源
	Source net.Addr
	// TCP连接
	TCPConn *net.TCPConn
	io.ReadWriter
}

func (c Connection) Close() error {
	return c.TCPConn.Close()
}
