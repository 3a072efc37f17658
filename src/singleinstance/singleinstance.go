// Package singleinstance keeps one resident host per user session and lets
// short-lived CLI invocations talk to it over a loopback TCP line protocol.
package singleinstance

import (
	"context"
	"errors"
)

// Request verbs understood by the resident host.
const (
	VerbStatus = "STATUS"
	VerbHide   = "HIDE"
	VerbQuit   = "QUIT"
)

var (
	// ErrAlreadyRunning is returned by Server.Start when another host
	// already answers on the port.
	ErrAlreadyRunning = errors.New("another instance is already running")
	// ErrNotRunning is returned by Client.Query when nothing answers.
	ErrNotRunning = errors.New("no resident instance found")
)

// Server owns the TCP endpoint and hands requests to the caller's loop.
type Server interface {
	// Start binds the port. PING is answered internally; every other
	// request is queued for Next.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next request, or ctx error.
	Next(ctx context.Context) (Conn, error)
	Close() error
}

// Conn is one client request awaiting a reply.
type Conn interface {
	Request() Request
	Respond(text string) error
	RespondError(msg string) error
	Close() error
}

type Request struct {
	Verb string
}

// Client talks to a resident server.
type Client interface {
	// Ping reports whether a resident answers.
	Ping(ctx context.Context) bool
	// Query sends verb and returns the reply text. ErrNotRunning means
	// nothing is listening.
	Query(ctx context.Context, verb string) (string, error)
}

func NewServer(port int) Server { return newTcpServer(ResolvePort(port)) }

func NewClient(port int) Client { return newTcpClient(ResolvePort(port)) }
