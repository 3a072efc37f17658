package singleinstance

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"
	"time"
)

const (
	residentHost = "127.0.0.1"
	pingRequest  = "PING\n"
	pongResponse = "PONG\n"
	okStatus     = "OK\n"
	errStatus    = "ERROR\n"
)

type tcpServer struct {
	port     int
	lis      net.Listener
	incoming chan *tcpConn
	once     sync.Once
}

func newTcpServer(port int) *tcpServer {
	return &tcpServer{port: port, incoming: make(chan *tcpConn, 8)}
}

func (s *tcpServer) addr() string { return fmt.Sprintf("%s:%d", residentHost, s.port) }

// Start binds the configured port. If it is taken by a resident host the
// error is ErrAlreadyRunning.
func (s *tcpServer) Start(ctx context.Context) error {
	if s.lis != nil {
		return nil
	}
	lis, err := net.Listen("tcp", s.addr())
	if err != nil {
		if ping(s.addr(), 300*time.Millisecond) {
			return ErrAlreadyRunning
		}
		log.Printf("singleinstance: failed to bind %s: %v", s.addr(), err)
		return fmt.Errorf("bind %s: %w", s.addr(), err)
	}
	s.lis = lis
	log.Printf("singleinstance: listening on %s", s.addr())
	go s.acceptLoop(ctx)
	return nil
}

func (s *tcpServer) Port() int {
	if s.lis == nil {
		return 0
	}
	return s.port
}

func (s *tcpServer) acceptLoop(ctx context.Context) {
	for {
		c, err := s.lis.Accept()
		if err != nil {
			return
		}
		go s.serve(ctx, c)
	}
}

// serve reads the request line off the accept loop so one slow client
// cannot hold up the others.
func (s *tcpServer) serve(ctx context.Context, c net.Conn) {
	_ = c.SetDeadline(time.Now().Add(3 * time.Second))
	br := bufio.NewReader(c)
	line, _ := br.ReadString('\n')
	bw := bufio.NewWriter(c)
	if line == pingRequest {
		_, _ = bw.WriteString(pongResponse)
		_ = bw.Flush()
		_ = c.Close()
		return
	}
	verb := strings.ToUpper(strings.TrimSpace(line))
	log.Printf("singleinstance: %s from %s", verb, c.RemoteAddr())
	select {
	case s.incoming <- &tcpConn{c: c, r: Request{Verb: verb}, w: bw}:
	case <-ctx.Done():
		_ = c.Close()
	}
}

func (s *tcpServer) Next(ctx context.Context) (Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case tc, ok := <-s.incoming:
		if !ok {
			return nil, net.ErrClosed
		}
		return tc, nil
	}
}

func (s *tcpServer) Close() error {
	s.once.Do(func() {
		if s.lis != nil {
			_ = s.lis.Close()
		}
	})
	return nil
}

type tcpConn struct {
	c net.Conn
	r Request
	w *bufio.Writer
}

func (tc *tcpConn) Request() Request { return tc.r }

func (tc *tcpConn) Respond(text string) error {
	if _, err := tc.w.WriteString(okStatus + text); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) RespondError(msg string) error {
	if _, err := tc.w.WriteString(errStatus + msg); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) Close() error { return tc.c.Close() }
