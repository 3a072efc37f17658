package singleinstance

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"
)

type tcpClient struct {
	addr string
}

func newTcpClient(port int) *tcpClient {
	return &tcpClient{addr: net.JoinHostPort(residentHost, strconv.Itoa(port))}
}

func (c *tcpClient) Ping(ctx context.Context) bool {
	return ping(c.addr, timeoutFrom(ctx, 300*time.Millisecond))
}

func (c *tcpClient) Query(ctx context.Context, verb string) (string, error) {
	timeout := timeoutFrom(ctx, 2*time.Second)
	if !ping(c.addr, timeout) {
		return "", ErrNotRunning
	}
	conn, err := net.DialTimeout("tcp", c.addr, timeout)
	if err != nil {
		return "", ErrNotRunning
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(verb + "\n"); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	br := bufio.NewReader(conn)
	status, err := br.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read reply: %w", err)
	}
	body, _ := io.ReadAll(br)
	switch status {
	case okStatus:
		return string(body), nil
	case errStatus:
		return "", errors.New(string(body))
	}
	return "", fmt.Errorf("unexpected reply %q", status)
}
