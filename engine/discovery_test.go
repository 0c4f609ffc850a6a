package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdt3213/nosqlcore/discovery"
	"github.com/hdt3213/nosqlcore/errs"
	"github.com/hdt3213/nosqlcore/interface/redis"
	"github.com/hdt3213/nosqlcore/redis/client"
	"github.com/hdt3213/nosqlcore/redis/protocol"
	"github.com/hdt3213/nosqlcore/redis/protocol/asserts"
)

func masterEntry(name, port string) redis.Reply {
	return bulks("name", name, "ip", "10.0.0.1", "port", port, "runid", name+"-id", "flags", "master")
}

func replicaEntry(port string) redis.Reply {
	return bulks("name", "10.0.0.2:"+port, "ip", "10.0.0.2", "port", port, "flags", "slave")
}

func TestDiscoverSentinel(t *testing.T) {
	ctx := context.Background()
	fake := client.NewFakeTransport().
		Reply("SENTINEL MASTERS", protocol.MakeMultiRawReply([]redis.Reply{
			masterEntry("alpha", "6379"),
			bulks("name", "broken", "ip"),
			masterEntry("beta", "6380"),
		})).
		Reply("SENTINEL SLAVES",
			protocol.MakeMultiRawReply([]redis.Reply{replicaEntry("7000"), bulks("ip", "10.0.0.9", "port", "x", "flags", "slave")}),
			protocol.MakeEmptyMultiBulkReply(),
		)
	conn := open(t, fake)

	nodes, err := conn.DiscoverSentinel(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "alpha", nodes[0].Name)
	assert.Equal(t, discovery.RoleSlave, nodes[1].Role)
	assert.Equal(t, "alpha", nodes[1].MasterName)
	assert.Equal(t, "10.0.0.2:7000", nodes[1].Addr())
	assert.Equal(t, "beta", nodes[2].Name)

	sent := fake.Sent()
	require.Len(t, sent, 3)
	asserts.AssertCmdLine(t, sent[1], "SENTINEL", "SLAVES", "alpha")
	asserts.AssertCmdLine(t, sent[2], "SENTINEL", "SLAVES", "beta")
}

func TestDiscoverSentinelAborts(t *testing.T) {
	ctx := context.Background()
	masters := protocol.MakeMultiRawReply([]redis.Reply{masterEntry("alpha", "6379"), masterEntry("beta", "6380")})
	fake := client.NewFakeTransport().
		Reply("SENTINEL MASTERS", masters).
		Reply("SENTINEL SLAVES", protocol.MakeMultiRawReply([]redis.Reply{replicaEntry("7000")})).
		Fail("SENTINEL SLAVES", errors.New("connection reset by peer"))
	conn := open(t, fake)

	nodes, err := conn.DiscoverSentinel(ctx)
	assert.Nil(t, nodes)
	var connErr *errs.ConnectionError
	assert.True(t, errors.As(err, &connErr))

	fake = client.NewFakeTransport().
		Reply("SENTINEL MASTERS", masters).
		Reply("SENTINEL SLAVES",
			protocol.MakeMultiRawReply([]redis.Reply{replicaEntry("7000")}),
			protocol.MakeErrReply("ERR No such master with that name"),
		)
	conn = open(t, fake)
	nodes, err = conn.DiscoverSentinel(ctx)
	assert.Nil(t, nodes)
	var serverErr *errs.ServerError
	assert.True(t, errors.As(err, &serverErr))

	fake = client.NewFakeTransport().Reply("SENTINEL MASTERS", protocol.MakeBulkReply([]byte("masters")))
	conn = open(t, fake)
	_, err = conn.DiscoverSentinel(ctx)
	var protocolErr *errs.ProtocolError
	assert.True(t, errors.As(err, &protocolErr))
}

func TestDiscoverCluster(t *testing.T) {
	ctx := context.Background()
	blob := "e7d1 :30001@31001 myself,master - 0 0 1 connected 0-16383\n" +
		"07c3 127.0.0.1:30004@31004 slave e7d1 0 1426238317239 4 connected\n"
	fake := client.NewFakeTransport().
		Reply("CLUSTER NODES",
			protocol.MakeBulkReply([]byte(blob)),
			protocol.MakeErrReply("ERR This instance has cluster support disabled"),
			protocol.MakeIntReply(1),
		)
	conn := open(t, fake)

	nodes, err := conn.DiscoverCluster(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "127.0.0.1", nodes[0].Host)
	assert.True(t, nodes[0].Self)
	assert.Equal(t, "e7d1", nodes[1].MasterID)

	var serverErr *errs.ServerError
	_, err = conn.DiscoverCluster(ctx)
	assert.True(t, errors.As(err, &serverErr))

	var protocolErr *errs.ProtocolError
	_, err = conn.DiscoverCluster(ctx)
	assert.True(t, errors.As(err, &protocolErr))
}
