package engine

import (
	"context"

	"github.com/hdt3213/nosqlcore/errs"
	"github.com/hdt3213/nosqlcore/interface/core"
	"github.com/hdt3213/nosqlcore/redis/protocol"
	"github.com/hdt3213/nosqlcore/value"
)

// StreamAdd appends entry to the stream at key and returns the entry id
func (c *Connection) StreamAdd(ctx context.Context, key string, entry value.StreamEntry) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("XADD"); err != nil {
		return "", err
	}
	cmd, err := c.translator.StreamAddCommand(key, entry)
	if err != nil {
		return "", err
	}
	reply, err := c.call(ctx, cmd, protocol.KindString, protocol.KindStatus)
	if err != nil {
		return "", err
	}
	id, _ := protocol.Text(reply)
	entry.ID = string(id)
	kv := value.MakeKeyValue(key, value.MakeStream(entry))
	c.notify(func(o core.Observer) { o.OnAddedKey(kv) })
	return entry.ID, nil
}

// LoadStream loads every entry of the stream at key
func (c *Connection) LoadStream(ctx context.Context, key string) (*value.StreamValue, error) {
	v, err := c.load(ctx, key, value.KindStream)
	if err != nil {
		return nil, err
	}
	return v.(*value.StreamValue), nil
}

// ReplaceStream replaces the stream at key with stream, keeping the TTL of the previous key
func (c *Connection) ReplaceStream(ctx context.Context, key string, stream *value.StreamValue) error {
	if stream == nil || len(stream.Entries) == 0 {
		return &errs.ValidationError{Command: "XADD", Reason: "stream has no entries"}
	}
	return c.Replace(ctx, value.MakeKeyValue(key, stream))
}
