package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdt3213/nosqlcore/config"
	"github.com/hdt3213/nosqlcore/interface/core"
	"github.com/hdt3213/nosqlcore/interface/redis"
	"github.com/hdt3213/nosqlcore/lib/utils"
	"github.com/hdt3213/nosqlcore/redis/client"
	"github.com/hdt3213/nosqlcore/redis/protocol"
	"github.com/hdt3213/nosqlcore/value"
)

// run executes the root command against fake and returns stdout
func run(t *testing.T, fake *client.FakeTransport, stdin string, args ...string) (string, error) {
	t.Helper()
	saved := newDialer
	newDialer = func(*config.Properties, string) (core.Dialer, error) {
		return fake.Dialer(), nil
	}
	t.Cleanup(func() {
		newDialer = saved
	})
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "(nil)", FormatValue(value.MakeNull()))
	assert.Equal(t, "(integer) 3", FormatValue(value.MakeInteger(3)))
	assert.Equal(t, `"a b"`, FormatValue(value.MakeString([]byte("a b"))))
	assert.Equal(t, "(empty array)", FormatValue(value.MakeList()))
	assert.Equal(t, "1) \"f\"\n2) \"v\"", FormatValue(value.MakeMap(value.MakePair("f", "v"))))
	nested := value.MakeArray(value.MakeString([]byte("0")), value.MakeList([]byte("k1"), []byte("k2")))
	assert.Equal(t, "1) \"0\"\n2) 1) \"k1\"\n   2) \"k2\"", FormatValue(nested))
}

func TestExec(t *testing.T) {
	fake := client.NewFakeTransport().
		Reply("SET", protocol.MakeOkReply()).
		Reply("GET", protocol.MakeBulkReply([]byte("v")))
	out, err := run(t, fake, "", "exec", "SET", "k", "v")
	require.NoError(t, err)
	assert.Equal(t, "\"OK\"\n", out)

	out, err = run(t, fake, "GET k\nGET\nquit\nGET k\n", "exec")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"v"`, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "(error) "), lines[1])
	assert.Equal(t, 2, fake.SentCount())
}

func TestGet(t *testing.T) {
	fake := client.NewFakeTransport().
		Reply("TYPE", protocol.MakeStatusReply("set")).
		Reply("SMEMBERS", protocol.MakeMultiBulkReply(utils.ToCmdLine("m"))).
		Reply("TTL", protocol.MakeIntReply(-1))
	out, err := run(t, fake, "", "get", "s")
	require.NoError(t, err)
	assert.Equal(t, "s (set, ttl no ttl)\n1) \"m\"\n", out)
}

func TestCommands(t *testing.T) {
	out, err := run(t, client.NewFakeTransport(), "", "commands", "CLUSTER *")
	require.NoError(t, err)
	assert.Contains(t, out, "CLUSTER NODES")
	assert.NotContains(t, out, "GETRANGE")

	out, err = run(t, client.NewFakeTransport(), "", "commands", "XADD", "--backend", "dynomite")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDiscover(t *testing.T) {
	blob := "e7d1 127.0.0.1:30001@31001 myself,master - 0 0 1 connected 0-16383\n"
	fake := client.NewFakeTransport().Reply("CLUSTER NODES", protocol.MakeBulkReply([]byte(blob)))
	out, err := run(t, fake, "", "discover", "cluster", "--backend", "redis")
	require.NoError(t, err)
	assert.Contains(t, out, "127.0.0.1:30001")
	assert.Contains(t, out, "0-16383")

	_, err = run(t, fake, "", "discover", "gossip")
	assert.Error(t, err)
}

func TestDumpAndRestore(t *testing.T) {
	file := filepath.Join(t.TempDir(), "dump.rdb")
	fake := client.NewFakeTransport().
		Reply("SCAN", protocol.MakeMultiRawReply([]redis.Reply{
			protocol.MakeBulkReply([]byte("0")),
			protocol.MakeMultiBulkReply(utils.ToCmdLine("k")),
		})).
		Reply("TYPE", protocol.MakeStatusReply("string")).
		Reply("GET", protocol.MakeBulkReply([]byte("v"))).
		Reply("TTL", protocol.MakeIntReply(-1))
	out, err := run(t, fake, "", "dump", file)
	require.NoError(t, err)
	assert.Equal(t, "1 keys\n", out)

	fake = client.NewFakeTransport().
		Reply("DEL", protocol.MakeIntReply(1)).
		Reply("SET", protocol.MakeOkReply())
	out, err = run(t, fake, "", "restore", file)
	require.NoError(t, err)
	assert.Equal(t, "1 keys\n", out)
	assert.Equal(t, [][]byte{[]byte("SET"), []byte("k"), []byte("v")}, fake.LastSent())
}
