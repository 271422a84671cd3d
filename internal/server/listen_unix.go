//go:build darwin || linux

package server

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// control sets SO_REUSEPORT on the listening socket when asked to, so several
// processes can share one address.
func (s *HTTPServer) control() func(network, address string, c syscall.RawConn) error {
	if !s.Config.ReusePort {
		return nil
	}
	return func(network, address string, c syscall.RawConn) error {
		var sockErr error
		err := c.Control(func(fd uintptr) {
			sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
		})
		if err != nil {
			return err
		}
		return sockErr
	}
}
