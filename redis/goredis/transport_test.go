package goredis

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdt3213/nosqlcore/command"
	"github.com/hdt3213/nosqlcore/engine"
	"github.com/hdt3213/nosqlcore/errs"
	"github.com/hdt3213/nosqlcore/interface/redis"
	"github.com/hdt3213/nosqlcore/lib/utils"
	"github.com/hdt3213/nosqlcore/redis/parser"
	"github.com/hdt3213/nosqlcore/redis/protocol"
	"github.com/hdt3213/nosqlcore/redis/protocol/asserts"
	"github.com/hdt3213/nosqlcore/value"
)

type serverError string

func (e serverError) Error() string { return string(e) }

func (serverError) RedisError() {}

func TestToReply(t *testing.T) {
	reply, err := ToReply("OK", nil)
	require.NoError(t, err)
	asserts.AssertBulkReply(t, reply, "OK")

	reply, _ = ToReply(int64(7), nil)
	asserts.AssertIntReply(t, reply, 7)

	reply, err = ToReply(nil, goredis.Nil)
	require.NoError(t, err)
	asserts.AssertNullBulk(t, reply)

	reply, _ = ToReply([]interface{}{"1-0", []interface{}{"f", "v"}, nil}, nil)
	elements, ok := protocol.Elements(reply)
	require.True(t, ok)
	require.Len(t, elements, 3)
	asserts.AssertKind(t, elements[1], protocol.KindArray)
	asserts.AssertNullBulk(t, elements[2])

	reply, err = ToReply(nil, serverError("WRONGTYPE Operation against a key holding the wrong kind of value"))
	require.NoError(t, err)
	asserts.AssertErrReply(t, reply, "WRONGTYPE Operation against a key holding the wrong kind of value")

	_, err = ToReply(nil, &net.OpError{Op: "read", Err: errors.New("connection reset by peer")})
	assert.Error(t, err)
}

// serve is a tiny RESP2 server, HELLO is refused so the client stays on RESP2
func serve(t *testing.T, store map[string]string) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				reader := bufio.NewReader(conn)
				for {
					req, err := parser.ReadReply(reader)
					if err != nil {
						return
					}
					args, _ := protocol.Elements(req)
					tokens := make([]string, len(args))
					for i, arg := range args {
						text, _ := protocol.Text(arg)
						tokens[i] = string(text)
					}
					var r redis.Reply
					switch strings.ToUpper(tokens[0]) {
					case "PING":
						r = protocol.MakeStatusReply("PONG")
					case "SET":
						store[tokens[1]] = tokens[2]
						r = protocol.MakeOkReply()
					case "GET":
						if v, ok := store[tokens[1]]; ok {
							r = protocol.MakeBulkReply([]byte(v))
						} else {
							r = protocol.MakeNullBulkReply()
						}
					case "AUTH":
						if tokens[len(tokens)-1] == "secret" {
							r = protocol.MakeOkReply()
						} else {
							r = protocol.MakeErrReply("WRONGPASS invalid username-password pair or user is disabled.")
						}
					case "SELECT":
						r = protocol.MakeOkReply()
					case "RENAME":
						v, ok := store[tokens[1]]
						if !ok {
							r = protocol.MakeErrReply("ERR no such key")
							break
						}
						delete(store, tokens[1])
						store[tokens[2]] = v
						r = protocol.MakeOkReply()
					case "LRANGE":
						r = protocol.MakeMultiBulkReply(utils.ToCmdLine("a", "b"))
					default:
						r = protocol.MakeErrReply("ERR unknown command '" + tokens[0] + "'")
					}
					_, _ = conn.Write(r.ToBytes())
				}
			}(conn)
		}
	}()
	return listener.Addr().String()
}

func TestTransport(t *testing.T) {
	addr := serve(t, make(map[string]string))
	dial := Dialer(Options{Addr: addr, DialTimeout: time.Second, IOTimeout: time.Second})
	transport, err := dial(context.Background())
	require.NoError(t, err)

	reply, err := transport.Send(utils.ToCmdLine("SET", "k", "v"))
	require.NoError(t, err)
	asserts.AssertBulkReply(t, reply, "OK")
	reply, _ = transport.Send(utils.ToCmdLine("GET", "k"))
	asserts.AssertBulkReply(t, reply, "v")
	reply, _ = transport.Send(utils.ToCmdLine("GET", "missing"))
	asserts.AssertNullBulk(t, reply)
	reply, _ = transport.Send(utils.ToCmdLine("LRANGE", "l", "0", "-1"))
	asserts.AssertMultiBulkReply(t, reply, []string{"a", "b"})
	reply, err = transport.Send(utils.ToCmdLine("NOSUCH"))
	require.NoError(t, err)
	asserts.AssertErrReply(t, reply, "ERR unknown command 'NOSUCH'")

	require.NoError(t, transport.Close())
	require.NoError(t, transport.Close())
	_, err = transport.Send(utils.ToCmdLine("PING"))
	assert.Error(t, err)
}

func TestDialFailure(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	_, err = Dial(context.Background(), Options{Addr: addr, DialTimeout: 200 * time.Millisecond})
	assert.Error(t, err)
}

func TestConnectionOverGoRedis(t *testing.T) {
	ctx := context.Background()
	store := map[string]string{"a": "1"}
	addr := serve(t, store)
	dial := Dialer(Options{Addr: addr, DialTimeout: time.Second, IOTimeout: time.Second})

	conn := engine.NewConnection(command.Redis, dial)
	require.NoError(t, conn.Connect(ctx))
	defer func() { _ = conn.Disconnect() }()

	var authErr *errs.AuthError
	assert.True(t, errors.As(conn.Authenticate(ctx, "wrong"), &authErr))
	assert.Equal(t, engine.Connected, conn.State())

	require.NoError(t, conn.Authenticate(ctx, "secret"))
	assert.Equal(t, engine.Authenticated, conn.State())
	require.NoError(t, conn.Select(ctx, 1))
	assert.Equal(t, 1, conn.DB())
	require.NoError(t, conn.Rename(ctx, "a", "b"))

	kv, err := conn.Get(ctx, "b", value.KindString)
	require.NoError(t, err)
	assert.Equal(t, value.MakeString([]byte("1")), kv.Value)
}
