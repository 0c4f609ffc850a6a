// Package goredis adapts a single go-redis connection to core.Transport
package goredis

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hdt3213/nosqlcore/interface/core"
	"github.com/hdt3213/nosqlcore/interface/redis"
	"github.com/hdt3213/nosqlcore/redis/protocol"
)

// Options configures a Transport
type Options struct {
	Addr        string
	DialTimeout time.Duration
	IOTimeout   time.Duration
}

// Transport sends commands over one sticky go-redis connection.
// AUTH and SELECT are connection state, so the pool behind it is never consulted twice.
type Transport struct {
	mu     sync.Mutex
	client *goredis.Client
	conn   *goredis.Conn
	closed bool
}

// Dial opens a Transport and checks the link with PING
func Dial(ctx context.Context, opts Options) (*Transport, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:             opts.Addr,
		Protocol:         2,
		DialTimeout:      opts.DialTimeout,
		ReadTimeout:      opts.IOTimeout,
		WriteTimeout:     opts.IOTimeout,
		PoolSize:         1,
		MaxRetries:       -1,
		DisableIndentity: true,
	})
	conn := client.Conn()
	if err := conn.Ping(ctx).Err(); err != nil && !isServerError(err) {
		_ = conn.Close()
		_ = client.Close()
		return nil, err
	}
	return &Transport{client: client, conn: conn}, nil
}

// Dialer returns a core.Dialer backed by go-redis
func Dialer(opts Options) core.Dialer {
	return func(ctx context.Context) (core.Transport, error) {
		return Dial(ctx, opts)
	}
}

// Send runs args through Do semantics and maps the result back to a reply
func (t *Transport) Send(args [][]byte) (redis.Reply, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, goredis.ErrClosed
	}
	cmdArgs := make([]interface{}, len(args))
	for i, arg := range args {
		cmdArgs[i] = arg
	}
	ctx := context.Background()
	cmd := goredis.NewCmd(ctx, cmdArgs...)
	_ = t.conn.Process(ctx, cmd)
	return ToReply(cmd.Result())
}

// Close closes the connection and its client
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	err := t.conn.Close()
	if cerr := t.client.Close(); err == nil {
		err = cerr
	}
	return err
}

func isServerError(err error) bool {
	var serverErr goredis.Error
	return errors.As(err, &serverErr) && !errors.Is(err, goredis.Nil)
}

// ToReply converts the result of a go-redis command.
// Status and bulk strings cannot be told apart there, both become bulk replies.
// Server errors become error replies, any other error is an I/O failure.
func ToReply(result interface{}, err error) (redis.Reply, error) {
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return protocol.MakeNullBulkReply(), nil
		}
		if isServerError(err) {
			return protocol.MakeErrReply(err.Error()), nil
		}
		return nil, err
	}
	return convert(result), nil
}

func convert(result interface{}) redis.Reply {
	switch v := result.(type) {
	case nil:
		return protocol.MakeNullBulkReply()
	case string:
		return protocol.MakeBulkReply([]byte(v))
	case []byte:
		return protocol.MakeBulkReply(v)
	case int64:
		return protocol.MakeIntReply(v)
	case bool:
		if v {
			return protocol.MakeIntReply(1)
		}
		return protocol.MakeIntReply(0)
	case float64:
		return protocol.MakeBulkReply([]byte(strconv.FormatFloat(v, 'f', -1, 64)))
	case []interface{}:
		replies := make([]redis.Reply, len(v))
		for i, item := range v {
			replies[i] = convert(item)
		}
		return protocol.MakeMultiRawReply(replies)
	case map[interface{}]interface{}:
		replies := make([]redis.Reply, 0, 2*len(v))
		for field, val := range v {
			replies = append(replies, convert(field), convert(val))
		}
		return protocol.MakeMultiRawReply(replies)
	case error:
		return protocol.MakeErrReply(v.Error())
	default:
		return protocol.MakeErrReply("ERR unexpected reply type")
	}
}
