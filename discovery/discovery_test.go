package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdt3213/nosqlcore/value"
)

const clusterBlob = `07c37dfeb235213a872192d90877d0cd55635b91 127.0.0.1:30004@31004 slave e7d1eecce10fd6bb5eb35b9f99a514335d9ba9ca 0 1426238317239 4 connected
67ed2db8d677e59ec4a4cefb06858cf2a1a89fa1 127.0.0.1:30002@31002 master - 0 1426238316232 2 connected 5461-10922
292f8b365bb7edb5e285caf0b7e6ddc7265d2f4f 127.0.0.1:30003@31003 master - 0 1426238318243 3 connected 10923-16383
e7d1eecce10fd6bb5eb35b9f99a514335d9ba9ca :30001@31001 myself,master - 0 0 1 connected 0-5460 [5461->-67ed2db8d677e59ec4a4cefb06858cf2a1a89fa1]
broken line
`

func TestParseClusterNodes(t *testing.T) {
	nodes, err := ParseClusterNodes("10.0.0.1", clusterBlob)
	require.NoError(t, err)
	require.Len(t, nodes, 4)

	replica := nodes[0]
	assert.Equal(t, RoleSlave, replica.Role)
	assert.Equal(t, "e7d1eecce10fd6bb5eb35b9f99a514335d9ba9ca", replica.MasterID)
	assert.Empty(t, replica.Slots)

	assert.Equal(t, []SlotRange{{Start: 5461, End: 10922}}, nodes[1].Slots)
	assert.Equal(t, "127.0.0.1:30002", nodes[1].Addr())
	assert.Empty(t, nodes[1].MasterID)

	self := nodes[3]
	assert.True(t, self.Self)
	assert.Equal(t, RoleMaster, self.Role)
	assert.Equal(t, "10.0.0.1", self.Host)
	assert.Equal(t, 30001, self.Port)
	assert.Equal(t, "connected", self.LinkState)
	assert.Equal(t, []SlotRange{{Start: 0, End: 5460}}, self.Slots)
	assert.Equal(t, 5461, self.SlotCount())

	_, err = ParseClusterNodes("h", "garbage\n\n")
	assert.ErrorIs(t, err, ErrNoNodes)

	nodes, err = ParseClusterNodes("h", "id 1.2.3.4:7000@17000 master - 0 0 1 connected 7 9-10")
	require.NoError(t, err)
	assert.Equal(t, []SlotRange{{Start: 7, End: 7}, {Start: 9, End: 10}}, nodes[0].Slots)

	_, err = ParseClusterNodes("h", "id 1.2.3.4:7000@17000 master - 0 0 1 connected 16384")
	assert.Error(t, err)
}

func TestKeySlot(t *testing.T) {
	assert.Equal(t, uint16(0x31C3), crc16([]byte("123456789")))
	assert.Equal(t, uint16(12182), KeySlot("foo"))
	assert.Equal(t, KeySlot("user1000"), KeySlot("{user1000}.following"))
	assert.Equal(t, KeySlot("{user1000}.followers"), KeySlot("{user1000}.following"))
	assert.Equal(t, "{}.a", GetPartitionKey("{}.a"))
	assert.Equal(t, "a", GetPartitionKey("x{a}{b}"))
	assert.Equal(t, "x{a", GetPartitionKey("x{a"))

	nodes, err := ParseClusterNodes("h", clusterBlob)
	require.NoError(t, err)
	owner := PickNode(nodes, "foo")
	require.NotNil(t, owner)
	assert.Equal(t, "292f8b365bb7edb5e285caf0b7e6ddc7265d2f4f", owner.ID)
}

func TestParseSentinelEntry(t *testing.T) {
	master, err := ParseSentinelEntry([]value.Pair{
		value.MakePair("name", "mymaster"),
		value.MakePair("ip", "127.0.0.1"),
		value.MakePair("port", "6379"),
		value.MakePair("runid", "abc"),
		value.MakePair("flags", "master"),
	}, "")
	require.NoError(t, err)
	assert.Equal(t, RoleMaster, master.Role)
	assert.Equal(t, "mymaster", master.MasterName)
	assert.Equal(t, "127.0.0.1:6379", master.Addr())

	replica, err := ParseSentinelEntry([]value.Pair{
		value.MakePair("name", "127.0.0.1:6380"),
		value.MakePair("ip", "127.0.0.1"),
		value.MakePair("port", "6380"),
		value.MakePair("flags", "slave,s_down"),
	}, "mymaster")
	require.NoError(t, err)
	assert.Equal(t, RoleSlave, replica.Role)
	assert.Equal(t, "mymaster", replica.MasterName)
	assert.True(t, replica.HasFlag("s_down"))

	_, err = ParseSentinelEntry([]value.Pair{value.MakePair("ip", "127.0.0.1"), value.MakePair("port", "x")}, "")
	assert.Error(t, err)
	_, err = ParseSentinelEntry([]value.Pair{value.MakePair("port", "6379")}, "")
	assert.Error(t, err)
}
