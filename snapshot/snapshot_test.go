package snapshot

import (
	"bytes"
	"context"
	"testing"
	"time"

	rdbenc "github.com/hdt3213/rdb/encoder"
	rdb "github.com/hdt3213/rdb/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/hdt3213/nosqlcore/command"
	"github.com/hdt3213/nosqlcore/engine"
	"github.com/hdt3213/nosqlcore/interface/redis"
	"github.com/hdt3213/nosqlcore/lib/utils"
	"github.com/hdt3213/nosqlcore/redis/client"
	"github.com/hdt3213/nosqlcore/redis/protocol"
	"github.com/hdt3213/nosqlcore/redis/protocol/asserts"
)

func connect(t *testing.T, fake *client.FakeTransport) *engine.Connection {
	t.Helper()
	conn := engine.NewConnection(command.Redis, fake.Dialer(), engine.WithAddr("127.0.0.1:6379"))
	require.NoError(t, conn.Connect(context.Background()))
	require.NoError(t, conn.Authenticate(context.Background(), ""))
	return conn
}

func TestExport(t *testing.T) {
	fake := client.NewFakeTransport().
		Reply("SCAN", protocol.MakeMultiRawReply([]redis.Reply{
			protocol.MakeBulkReply([]byte("0")),
			protocol.MakeMultiBulkReply(utils.ToCmdLine("s", "l", "events", "gone")),
		})).
		Reply("TYPE",
			protocol.MakeStatusReply("string"),
			protocol.MakeStatusReply("list"),
			protocol.MakeStatusReply("stream"),
			protocol.MakeStatusReply("none"),
		).
		Reply("GET", protocol.MakeBulkReply([]byte("v"))).
		Reply("LRANGE", protocol.MakeMultiBulkReply(utils.ToCmdLine("a", "b"))).
		Reply("TTL", protocol.MakeIntReply(100), protocol.MakeIntReply(-1))
	conn := connect(t, fake)

	buf := &bytes.Buffer{}
	n, err := Export(context.Background(), conn, buf, "*")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	asserts.AssertCmdLine(t, fake.Sent()[0], "SCAN", "0", "MATCH", "*", "COUNT", "100")

	objects := make(map[string]rdb.RedisObject)
	err = rdb.NewDecoder(buf).Parse(func(o rdb.RedisObject) bool {
		objects[o.GetKey()] = o
		return true
	})
	require.NoError(t, err)
	require.Len(t, objects, 2)

	str, ok := objects["s"].(*rdb.StringObject)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), str.Value)
	require.NotNil(t, str.GetExpiration())
	assert.WithinDuration(t, time.Now().Add(100*time.Second), *str.GetExpiration(), 5*time.Second)

	list, ok := objects["l"].(*rdb.ListObject)
	require.True(t, ok)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, list.Values)
	assert.Nil(t, list.GetExpiration())
}

func dump(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	enc := rdbenc.NewEncoder(buf)
	require.NoError(t, enc.WriteHeader())
	require.NoError(t, enc.WriteDBHeader(0, 3, 2))
	expireAt := time.Now().Add(time.Hour).UnixMilli()
	require.NoError(t, enc.WriteStringObject("s", []byte("v"), rdbenc.WithTTL(uint64(expireAt))))
	require.NoError(t, enc.WriteSetObject("m", [][]byte{[]byte("x")}))
	expiredAt := time.Now().Add(-time.Hour).UnixMilli()
	require.NoError(t, enc.WriteStringObject("old", []byte("v"), rdbenc.WithTTL(uint64(expiredAt))))
	require.NoError(t, enc.WriteEnd())
	return buf
}

func TestImport(t *testing.T) {
	fake := client.NewFakeTransport().
		On("DEL", func([][]byte) (redis.Reply, error) { return protocol.MakeIntReply(0), nil }).
		Reply("SET", protocol.MakeOkReply()).
		Reply("EXPIRE", protocol.MakeIntReply(1)).
		Reply("SADD", protocol.MakeIntReply(1))
	conn := connect(t, fake)

	n, err := Import(context.Background(), conn, dump(t))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	sent := fake.Sent()
	require.Len(t, sent, 5)
	asserts.AssertCmdLine(t, sent[0], "DEL", "s")
	asserts.AssertCmdLine(t, sent[1], "SET", "s", "v")
	assert.Equal(t, "EXPIRE", string(sent[2][0]))
	ttl := string(sent[2][2])
	assert.True(t, ttl == "3600" || ttl == "3599", ttl)
	asserts.AssertCmdLine(t, sent[3], "DEL", "m")
	asserts.AssertCmdLine(t, sent[4], "SADD", "m", "x")
}

func TestImportCollectsFailures(t *testing.T) {
	fake := client.NewFakeTransport().
		On("DEL", func([][]byte) (redis.Reply, error) { return protocol.MakeIntReply(0), nil }).
		Reply("SET", protocol.MakeOkReply()).
		Reply("EXPIRE", protocol.MakeIntReply(1)).
		Reply("SADD", protocol.MakeErrReply("OOM command not allowed when used memory > 'maxmemory'"))
	conn := connect(t, fake)

	n, err := Import(context.Background(), conn, dump(t))
	assert.Equal(t, 1, n)
	require.Error(t, err)
	errors := multierr.Errors(err)
	require.Len(t, errors, 1)
	assert.Contains(t, errors[0].Error(), "import m")
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, int64(10), int64(remaining(time.Now().Add(9500*time.Millisecond))))
	assert.Equal(t, int64(-2), int64(remaining(time.Now().Add(-time.Second))))
}
