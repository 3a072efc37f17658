package singleinstance

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"
)

func freePort(t *testing.T) int {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("loopback unavailable in this environment: %v", err)
	}
	port := lis.Addr().(*net.TCPAddr).Port
	_ = lis.Close()
	return port
}

func TestServerClientRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	port := freePort(t)
	srv := NewServer(port)
	if err := srv.Start(ctx); err != nil {
		t.Skipf("loopback unavailable in this environment: %v", err)
	}
	defer srv.Close()

	client := NewClient(port)
	if !client.Ping(ctx) {
		t.Fatal("Ping() = false with a running server")
	}

	type reply struct {
		text string
		err  error
	}
	replies := make(chan reply, 2)
	go func() {
		text, err := client.Query(ctx, VerbStatus)
		replies <- reply{text, err}
		text, err = client.Query(ctx, "bogus")
		replies <- reply{text, err}
	}()

	conn, err := srv.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	if conn.Request().Verb != VerbStatus {
		t.Errorf("Verb = %q, expected %q", conn.Request().Verb, VerbStatus)
	}
	_ = conn.Respond("state=hidden")
	_ = conn.Close()
	if r := <-replies; r.err != nil || r.text != "state=hidden" {
		t.Errorf("Query(STATUS) = %q, %v", r.text, r.err)
	}

	conn, err = srv.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error: %v", err)
	}
	_ = conn.RespondError("unknown request")
	_ = conn.Close()
	if r := <-replies; r.err == nil || r.err.Error() != "unknown request" {
		t.Errorf("Query(bogus) error = %v", r.err)
	}
}

func TestSlowClientDoesNotBlockOthers(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	port := freePort(t)
	srv := NewServer(port)
	if err := srv.Start(ctx); err != nil {
		t.Skipf("loopback unavailable in this environment: %v", err)
	}
	defer srv.Close()

	// Connects but never sends a request line.
	slow, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	defer slow.Close()

	go func() { _, _ = NewClient(port).Query(ctx, VerbStatus) }()

	nextCtx, nextCancel := context.WithTimeout(ctx, time.Second)
	defer nextCancel()
	conn, err := srv.Next(nextCtx)
	if err != nil {
		t.Fatalf("Next() error = %v while a slow client was connected", err)
	}
	defer conn.Close()
	if conn.Request().Verb != VerbStatus {
		t.Errorf("Verb = %q, expected %q", conn.Request().Verb, VerbStatus)
	}
	_ = conn.Respond("ok")
}

func TestSecondServerReportsAlreadyRunning(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	port := freePort(t)
	first := NewServer(port)
	if err := first.Start(ctx); err != nil {
		t.Skipf("loopback unavailable in this environment: %v", err)
	}
	defer first.Close()

	second := NewServer(port)
	if err := second.Start(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start() error = %v, expected ErrAlreadyRunning", err)
	}
}

func TestQueryWithoutServer(t *testing.T) {
	port := freePort(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := NewClient(port).Query(ctx, VerbStatus); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Query() error = %v, expected ErrNotRunning", err)
	}
}

func TestResolvePort(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, DefaultPort},
		{80, 1024},
		{70000, 65535},
		{50123, 50123},
	}
	for _, tt := range tests {
		if got := ResolvePort(tt.in); got != tt.want {
			t.Errorf("ResolvePort(%d) = %d, expected %d", tt.in, got, tt.want)
		}
	}
}
