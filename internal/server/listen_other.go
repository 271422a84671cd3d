//go:build !darwin && !linux

package server

import "syscall"

func (s *HTTPServer) control() func(network, address string, c syscall.RawConn) error {
	if s.Config.ReusePort {
		s.Logger.Warn("reuse-port is not supported on this platform, ignoring")
	}
	return nil
}
