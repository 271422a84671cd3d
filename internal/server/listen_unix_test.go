//go:build darwin || linux

package server

import (
	"context"
	"io"
	"net"
	"strings"
	"testing"
)

func TestServerReusePort(t *testing.T) {
	first := newTestServer(t, Config{Addr: "127.0.0.1:0", ReusePort: true})
	addr, stopFirst := startServer(t, first)

	second := newTestServer(t, Config{Addr: addr, ReusePort: true})
	_, stopSecond := startServer(t, second)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	conn.Write([]byte("GET / HTTP/1.1\r\n\r\n"))
	out, _ := io.ReadAll(conn)
	conn.Close()
	if !strings.HasPrefix(string(out), "HTTP/1.1 200 OK\r\n") {
		t.Errorf("response = %q", out)
	}

	if err := stopSecond(); err != nil {
		t.Errorf("second server: %v", err)
	}
	if err := stopFirst(); err != nil {
		t.Errorf("first server: %v", err)
	}
}

func TestServerWithoutReusePortConflicts(t *testing.T) {
	first := newTestServer(t, Config{Addr: "127.0.0.1:0", ReusePort: true})
	addr, stop := startServer(t, first)
	defer stop()

	second := newTestServer(t, Config{Addr: addr})
	if err := second.ListenAndServe(context.Background()); err == nil {
		t.Error("expected bind error without SO_REUSEPORT")
	}
}
