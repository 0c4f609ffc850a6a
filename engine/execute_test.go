package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdt3213/nosqlcore/command"
	"github.com/hdt3213/nosqlcore/errs"
	"github.com/hdt3213/nosqlcore/interface/redis"
	"github.com/hdt3213/nosqlcore/redis/client"
	"github.com/hdt3213/nosqlcore/redis/protocol"
	"github.com/hdt3213/nosqlcore/redis/protocol/asserts"
	"github.com/hdt3213/nosqlcore/value"
)

func TestExecuteInternal(t *testing.T) {
	fake := client.NewFakeTransport()
	conn := NewConnection(command.Redis, fake.Dialer())
	for _, line := range []string{"host: example.com", "POST / HTTP/1.1", "json._cacheinit", "PFSELFTEST"} {
		v, err := conn.ExecuteString(context.Background(), line)
		require.NoError(t, err, line)
		assert.Equal(t, value.KindNull, v.Kind())
	}
	assert.Equal(t, 0, fake.SentCount())
}

func TestExecuteRejects(t *testing.T) {
	ctx := context.Background()
	fake := client.NewFakeTransport()
	conn := open(t, fake)

	var notSupported *errs.NotSupportedError
	_, err := conn.ExecuteString(ctx, "NOSUCH a b")
	assert.True(t, errors.As(err, &notSupported))

	var arityErr *errs.ArityError
	_, err = conn.ExecuteString(ctx, "GET")
	assert.True(t, errors.As(err, &arityErr))
	_, err = conn.ExecuteString(ctx, "GET a b")
	assert.True(t, errors.As(err, &arityErr))

	var validationErr *errs.ValidationError
	_, err = conn.ExecuteString(ctx, "EXPIRE k soon")
	assert.True(t, errors.As(err, &validationErr))
	_, err = conn.ExecuteString(ctx, `GET "unbalanced`)
	assert.True(t, errors.As(err, &validationErr))
	_, err = conn.Execute(ctx, nil)
	assert.True(t, errors.As(err, &validationErr))
	assert.Equal(t, 0, fake.SentCount())

	dyno := NewConnection(command.Dynomite, fake.Dialer())
	_, err = dyno.ExecuteString(ctx, "SELECT 1")
	assert.True(t, errors.As(err, &notSupported))
}

func TestExecuteAuth(t *testing.T) {
	ctx := context.Background()
	fake := client.NewFakeTransport().Reply("AUTH", protocol.MakeOkReply())
	conn := NewConnection(command.Redis, fake.Dialer())

	var connErr *errs.ConnectionError
	_, err := conn.ExecuteString(ctx, "AUTH secret")
	assert.True(t, errors.As(err, &connErr))

	require.NoError(t, conn.Connect(ctx))
	v, err := conn.ExecuteString(ctx, "auth secret")
	require.NoError(t, err)
	assert.Equal(t, value.MakeString([]byte("OK")), v)
	assert.Equal(t, Authenticated, conn.State())
	asserts.AssertCmdLine(t, fake.LastSent(), "AUTH", "secret")
}

func TestExecuteDispatch(t *testing.T) {
	ctx := context.Background()
	fake := client.NewFakeTransport().
		Reply("DEL", protocol.MakeIntReply(1), protocol.MakeIntReply(1)).
		Reply("CLIENT LIST", protocol.MakeBulkReply([]byte("id=3 addr=127.0.0.1:5000"))).
		Reply("TYPE", protocol.MakeStatusReply("set")).
		Reply("SMEMBERS", bulks("m")).
		Reply("SCAN", protocol.MakeMultiRawReply([]redis.Reply{protocol.MakeBulkReply([]byte("0")), bulks("k1")})).
		Reply("TTL", protocol.MakeIntReply(-2)).
		Reply("DEL", protocol.MakeIntReply(0)).
		Reply("SADD", protocol.MakeIntReply(2))
	conn := open(t, fake)

	v, err := conn.ExecuteString(ctx, "DEL a b")
	require.NoError(t, err)
	assert.Equal(t, value.MakeInteger(2), v)
	asserts.AssertCmdLine(t, fake.Sent()[0], "DEL", "a")
	asserts.AssertCmdLine(t, fake.Sent()[1], "DEL", "b")

	v, err = conn.ExecuteString(ctx, "client list")
	require.NoError(t, err)
	assert.Equal(t, value.MakeString([]byte("id=3 addr=127.0.0.1:5000")), v)
	asserts.AssertCmdLine(t, fake.LastSent(), "CLIENT", "LIST")

	v, err = conn.ExecuteString(ctx, "GETUNI s")
	require.NoError(t, err)
	assert.Equal(t, value.MakeSet([]byte("m")), v)

	v, err = conn.ExecuteString(ctx, "SCAN 0 MATCH k*")
	require.NoError(t, err)
	assert.Equal(t, value.MakeArray(value.MakeString([]byte("0")), value.MakeList([]byte("k1"))), v)

	v, err = conn.ExecuteString(ctx, "SFASTOSET s x y")
	require.NoError(t, err)
	assert.Equal(t, value.MakeString([]byte("OK")), v)
	asserts.AssertCmdLine(t, fake.LastSent(), "SADD", "s", "x", "y")
}

func TestExecuteExpire(t *testing.T) {
	ctx := context.Background()
	fake := client.NewFakeTransport().
		Reply("EXPIRE", protocol.MakeIntReply(1), protocol.MakeIntReply(1))
	conn := open(t, fake)

	v, err := conn.ExecuteString(ctx, "EXPIRE k 10")
	require.NoError(t, err)
	assert.Equal(t, value.MakeInteger(1), v)
	asserts.AssertCmdLine(t, fake.LastSent(), "EXPIRE", "k", "10")

	// negative timeouts go out verbatim, never as PERSIST
	v, err = conn.ExecuteString(ctx, "EXPIRE k -1")
	require.NoError(t, err)
	assert.Equal(t, value.MakeInteger(1), v)
	asserts.AssertCmdLine(t, fake.LastSent(), "EXPIRE", "k", "-1")
	assert.Equal(t, 2, fake.SentCount())

	var validationErr *errs.ValidationError
	_, err = conn.ExecuteString(ctx, "SCAN 0 COUNT abc")
	assert.True(t, errors.As(err, &validationErr))
	assert.Equal(t, 2, fake.SentCount())
}
