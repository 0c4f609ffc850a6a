package client

import (
	"bufio"
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hdt3213/nosqlcore/interface/core"
	"github.com/hdt3213/nosqlcore/interface/redis"
	"github.com/hdt3213/nosqlcore/lib/logger"
	"github.com/hdt3213/nosqlcore/redis/parser"
	"github.com/hdt3213/nosqlcore/redis/protocol"
)

const (
	running = iota
	closed
)

const (
	defaultDialTimeout = 5 * time.Second
	maxWait            = 3 * time.Second
)

// ErrClosed is returned by Send after the client has been closed
var ErrClosed = errors.New("client is closed")

// Options configures the timeouts of a Client, zero means the default
type Options struct {
	DialTimeout time.Duration
	// ReadTimeout bounds the wait for a reply, negative disables it
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Client is a synchronous redis client, it allows one request in flight
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
	addr   string
	opts   Options

	mu     sync.Mutex
	status int32
}

// MakeClient dials addr and creates a new client
func MakeClient(addr string, opts Options) (*Client, error) {
	return MakeClientContext(context.Background(), addr, opts)
}

// MakeClientContext dials addr with ctx and creates a new client
func MakeClientContext(ctx context.Context, addr string, opts Options) (*Client, error) {
	dialTimeout := opts.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Client{
		addr:   addr,
		conn:   conn,
		reader: bufio.NewReader(conn),
		opts:   opts,
		status: running,
	}, nil
}

// Dialer returns a core.Dialer which opens clients to addr
func Dialer(addr string, opts Options) core.Dialer {
	return func(ctx context.Context) (core.Transport, error) {
		return MakeClientContext(ctx, addr, opts)
	}
}

// Addr returns the remote address
func (client *Client) Addr() string {
	return client.addr
}

// Send sends a request to redis server and blocks until the reply arrives.
// Any I/O failure, a deadline included, closes the client.
func (client *Client) Send(args [][]byte) (redis.Reply, error) {
	client.mu.Lock()
	defer client.mu.Unlock()
	if atomic.LoadInt32(&client.status) != running {
		return nil, ErrClosed
	}
	if err := client.setDeadline(client.opts.WriteTimeout, client.conn.SetWriteDeadline); err != nil {
		return nil, client.fail(err)
	}
	if _, err := client.conn.Write(protocol.MakeMultiBulkReply(args).ToBytes()); err != nil {
		return nil, client.fail(err)
	}
	if err := client.setDeadline(client.opts.ReadTimeout, client.conn.SetReadDeadline); err != nil {
		return nil, client.fail(err)
	}
	reply, err := parser.ReadReply(client.reader)
	if err != nil {
		return nil, client.fail(err)
	}
	return reply, nil
}

func (client *Client) setDeadline(timeout time.Duration, set func(time.Time) error) error {
	if timeout < 0 {
		return set(time.Time{})
	}
	if timeout == 0 {
		timeout = maxWait
	}
	return set(time.Now().Add(timeout))
}

// fail closes the connection, the stream position is unknown after an I/O error
func (client *Client) fail(err error) error {
	if atomic.CompareAndSwapInt32(&client.status, running, closed) {
		logger.Warn("close client " + client.addr + ": " + err.Error())
		_ = client.conn.Close()
	}
	return err
}

// Close closes the connection, it is safe to call Close more than once
func (client *Client) Close() error {
	if !atomic.CompareAndSwapInt32(&client.status, running, closed) {
		return nil
	}
	return client.conn.Close()
}
