package engine

import (
	"context"

	"github.com/hdt3213/nosqlcore/discovery"
	"github.com/hdt3213/nosqlcore/interface/redis"
	"github.com/hdt3213/nosqlcore/lib/logger"
	"github.com/hdt3213/nosqlcore/redis/protocol"
	"github.com/hdt3213/nosqlcore/translator"
	"github.com/hdt3213/nosqlcore/value"
)

// DiscoverCluster lists the nodes of the cluster this connection belongs to
func (c *Connection) DiscoverCluster(ctx context.Context) ([]*discovery.Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("CLUSTER NODES"); err != nil {
		return nil, err
	}
	cmd, err := c.translator.BuildCommand("CLUSTER NODES")
	if err != nil {
		return nil, err
	}
	reply, err := c.call(ctx, cmd, protocol.KindString)
	if err != nil {
		return nil, err
	}
	blob, _ := protocol.Text(reply)
	return discovery.ParseClusterNodes(c.host(), string(blob))
}

// DiscoverSentinel lists the masters monitored by this sentinel followed by their replicas.
// Any failed round trip aborts the whole discovery.
func (c *Connection) DiscoverSentinel(ctx context.Context) ([]*discovery.Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("SENTINEL MASTERS"); err != nil {
		return nil, err
	}
	cmd, err := c.translator.BuildCommand("SENTINEL MASTERS")
	if err != nil {
		return nil, err
	}
	reply, err := c.call(ctx, cmd, protocol.KindArray)
	if err != nil {
		return nil, err
	}
	masters := parseSentinelEntries(reply, "")
	nodes := make([]*discovery.Node, 0, len(masters))
	for _, master := range masters {
		nodes = append(nodes, master)
		cmd, err := c.translator.BuildCommand("SENTINEL SLAVES", []byte(master.Name))
		if err != nil {
			return nil, err
		}
		reply, err := c.call(ctx, cmd, protocol.KindArray)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, parseSentinelEntries(reply, master.Name)...)
	}
	return nodes, nil
}

func parseSentinelEntries(reply redis.Reply, masterName string) []*discovery.Node {
	entries, _ := protocol.Elements(reply)
	nodes := make([]*discovery.Node, 0, len(entries))
	for _, entry := range entries {
		fields, err := translator.Decode(entry, value.KindMap)
		if err != nil {
			logger.Warn("skip sentinel entry: " + err.Error())
			continue
		}
		node, err := discovery.ParseSentinelEntry(fields.(*value.MapValue).Pairs, masterName)
		if err != nil {
			logger.Warn("skip sentinel entry: " + err.Error())
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes
}
