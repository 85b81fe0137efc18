package net

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// ReuseAddrControl is a net.ListenConfig Control func that sets
// SO_REUSEADDR before bind.
func ReuseAddrControl(network, address string, rc syscall.RawConn) error {
	var soErr error
	if err := rc.Control(func(fd uintptr) {
		soErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	}); err != nil {
		return err
	}
	return soErr
}
