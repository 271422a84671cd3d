package endpoints

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/marcocampos/tcp-http/internal/server"
)

// send writes raw on a fresh connection and returns the full reply; the
// server closes after one response, so reading to EOF is enough.
func send(t *testing.T, addr, raw string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Failed to connect to server: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	if _, err := conn.Write([]byte(raw)); err != nil {
		t.Fatalf("write error: %v", err)
	}
	out, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	return string(out)
}

func TestEndToEnd(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router, err := NewRouter(logger)
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	srv := server.NewHTTPServer(server.Config{Addr: "127.0.0.1:0", Directory: t.TempDir()}, router, logger)

	ctx, cancel := context.WithCancel(context.Background())
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe(ctx)
	}()
	defer func() {
		cancel()
		select {
		case err := <-serverErr:
			if err != nil {
				t.Errorf("ListenAndServe error: %v", err)
			}
		case <-time.After(3 * time.Second):
			t.Error("server did not shut down in time")
		}
	}()

	deadline := time.Now().Add(3 * time.Second)
	for srv.Addr() == nil {
		if time.Now().After(deadline) {
			t.Fatal("server did not start listening")
		}
		time.Sleep(10 * time.Millisecond)
	}
	addr := srv.Addr().String()

	tests := []struct {
		name       string
		request    string
		wantPrefix string
		wantSuffix string
		wantLines  []string
	}{
		{
			name:       "root",
			request:    "GET / HTTP/1.1\r\nHost: localhost:4221\r\n\r\n",
			wantPrefix: "HTTP/1.1 200 OK\r\n",
			wantLines:  []string{"Content-Length: 0"},
		},
		{
			name:       "echo",
			request:    "GET /echo/hello HTTP/1.1\r\nHost: localhost:4221\r\n\r\n",
			wantPrefix: "HTTP/1.1 200 OK\r\n",
			wantSuffix: "\r\n\r\nhello",
			wantLines:  []string{"Content-Type: text/plain", "Content-Length: 5"},
		},
		{
			name:       "user agent",
			request:    "GET /user-agent HTTP/1.1\r\nUser-Agent: test-client\r\n\r\n",
			wantPrefix: "HTTP/1.1 200 OK\r\n",
			wantSuffix: "\r\n\r\ntest-client",
		},
		{
			name:       "user agent missing",
			request:    "GET /user-agent HTTP/1.1\r\n\r\n",
			wantPrefix: "HTTP/1.1 400 Bad Request\r\n",
		},
		{
			name:       "upload",
			request:    "POST /files/data.txt HTTP/1.1\r\nContent-Length: 3\r\n\r\nabc",
			wantPrefix: "HTTP/1.1 201 Created\r\n",
		},
		{
			name:       "download",
			request:    "GET /files/data.txt HTTP/1.1\r\n\r\n",
			wantPrefix: "HTTP/1.1 200 OK\r\n",
			wantSuffix: "\r\n\r\nabc",
			wantLines:  []string{"Content-Type: application/octet-stream", "Content-Length: 3"},
		},
		{
			name:       "missing file",
			request:    "GET /files/missing.txt HTTP/1.1\r\n\r\n",
			wantPrefix: "HTTP/1.1 404 Not Found\r\n",
		},
		{
			name:       "unregistered",
			request:    "GET /unregistered-path HTTP/1.1\r\n\r\n",
			wantPrefix: "HTTP/1.1 404 Not Found\r\n",
		},
		{
			name:       "malformed",
			request:    "GET / HTTP/1.1\r\nbroken header\r\n\r\n",
			wantPrefix: "HTTP/1.1 400 Bad Request\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := send(t, addr, tt.request)
			if !strings.HasPrefix(out, tt.wantPrefix) {
				t.Errorf("response = %q, want prefix %q", out, tt.wantPrefix)
			}
			if tt.wantSuffix != "" && !strings.HasSuffix(out, tt.wantSuffix) {
				t.Errorf("response = %q, want suffix %q", out, tt.wantSuffix)
			}
			for _, line := range tt.wantLines {
				if !strings.Contains(out, "\r\n"+line+"\r\n") {
					t.Errorf("response = %q, missing header %q", out, line)
				}
			}
		})
	}
}
