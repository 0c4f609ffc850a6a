package engine

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/hdt3213/nosqlcore/errs"
	"github.com/hdt3213/nosqlcore/interface/core"
	"github.com/hdt3213/nosqlcore/redis/protocol"
	"github.com/hdt3213/nosqlcore/value"
)

// JSONSet stores the document of kv at the root path
func (c *Connection) JSONSet(ctx context.Context, kv *value.KeyValue) error {
	doc, ok := kv.Value.(*value.JSONValue)
	if !ok {
		return &errs.ValidationError{Command: "JSON.SET", Reason: "value is not a json document"}
	}
	if !gjson.ValidBytes(doc.Doc) {
		return &errs.ValidationError{Command: "JSON.SET", Reason: "invalid json document"}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("JSON.SET"); err != nil {
		return err
	}
	cmd, err := c.translator.JSONSetCommand(kv.Key, ".", doc.Doc)
	if err != nil {
		return err
	}
	if _, err := c.call(ctx, cmd, okKinds...); err != nil {
		return err
	}
	c.notify(func(o core.Observer) { o.OnAddedKey(kv) })
	return nil
}

// JSONGet loads the document at key
func (c *Connection) JSONGet(ctx context.Context, key string) (*value.KeyValue, error) {
	return c.Get(ctx, key, value.KindJSON)
}

// LoadJSON loads the document at key
func (c *Connection) LoadJSON(ctx context.Context, key string) (*value.JSONValue, error) {
	v, err := c.load(ctx, key, value.KindJSON)
	if err != nil {
		return nil, err
	}
	return v.(*value.JSONValue), nil
}

// JSONQuery loads the document at key and extracts path with gjson syntax
func (c *Connection) JSONQuery(ctx context.Context, key, path string) (gjson.Result, error) {
	doc, err := c.LoadJSON(ctx, key)
	if err != nil {
		return gjson.Result{}, err
	}
	result := gjson.GetBytes(doc.Doc, path)
	if !result.Exists() {
		return result, &errs.DomainError{Command: "JSON.GET", Reason: "path " + path + " not found"}
	}
	return result, nil
}

// JSONDel deletes the document at key and returns the number of removed paths
func (c *Connection) JSONDel(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("JSON.DEL"); err != nil {
		return 0, err
	}
	cmd, err := c.translator.JSONDelCommand(key, ".")
	if err != nil {
		return 0, err
	}
	reply, err := c.call(ctx, cmd, protocol.KindInteger)
	if err != nil {
		return 0, err
	}
	deleted := reply.(*protocol.IntReply).Code
	if deleted == 1 {
		c.notify(func(o core.Observer) { o.OnRemovedKeys([]string{key}) })
	}
	return deleted, nil
}
