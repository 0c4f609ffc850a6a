package engine

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/hdt3213/nosqlcore/errs"
	"github.com/hdt3213/nosqlcore/interface/core"
	"github.com/hdt3213/nosqlcore/interface/redis"
	"github.com/hdt3213/nosqlcore/lib/logger"
	"github.com/hdt3213/nosqlcore/redis/protocol"
	"github.com/hdt3213/nosqlcore/translator"
	"github.com/hdt3213/nosqlcore/value"
)

// reply discriminants a value kind may be decoded from, nil is always accepted and becomes key not found
func replyKinds(kind value.Kind) []protocol.Kind {
	switch kind {
	case value.KindString:
		return []protocol.Kind{protocol.KindString, protocol.KindStatus, protocol.KindNil}
	case value.KindInteger, value.KindBoolean:
		return []protocol.Kind{protocol.KindInteger, protocol.KindNil}
	case value.KindDouble, value.KindJSON:
		return []protocol.Kind{protocol.KindString, protocol.KindNil}
	case value.KindNull:
		return []protocol.Kind{protocol.KindNil}
	}
	return []protocol.Kind{protocol.KindArray, protocol.KindNil}
}

// typeKinds maps TYPE replies to value kinds
var typeKinds = map[string]value.Kind{
	"string":    value.KindString,
	"list":      value.KindArray,
	"set":       value.KindSet,
	"hash":      value.KindMap,
	"zset":      value.KindSortedSet,
	"stream":    value.KindStream,
	"ReJSON-RL": value.KindJSON,
}

// okKinds accept +OK as either discriminant, the go-redis transport reports status replies as bulk strings
var okKinds = []protocol.Kind{protocol.KindStatus, protocol.KindString}

// storeKinds are the replies of the commands SetKeyCommands builds
var storeKinds = []protocol.Kind{protocol.KindStatus, protocol.KindString, protocol.KindInteger}

func (c *Connection) decode(cmd translator.CommandBuffer, reply redis.Reply, kind value.Kind) (value.Value, error) {
	if protocol.KindOf(reply) == protocol.KindNil && kind != value.KindNull {
		return nil, errs.KeyNotFound(cmd.Name())
	}
	return translator.Decode(reply, kind)
}

// Get loads key as kind
func (c *Connection) Get(ctx context.Context, key string, kind value.Kind) (*value.KeyValue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kv, err := c.get(ctx, key, kind)
	if err != nil {
		return nil, err
	}
	c.notify(func(o core.Observer) { o.OnLoadedKey(kv) })
	return kv, nil
}

func (c *Connection) get(ctx context.Context, key string, kind value.Kind) (*value.KeyValue, error) {
	if err := c.gate("GET"); err != nil {
		return nil, err
	}
	cmd, err := c.translator.GetKeyCommand(key, kind)
	if err != nil {
		return nil, err
	}
	reply, err := c.call(ctx, cmd, replyKinds(kind)...)
	if err != nil {
		return nil, err
	}
	v, err := c.decode(cmd, reply, kind)
	if err != nil {
		return nil, err
	}
	return value.MakeKeyValue(key, v), nil
}

// GetUni introspects the type of key and loads it accordingly
func (c *Connection) GetUni(ctx context.Context, key string) (*value.KeyValue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kind, err := c.keyKind(ctx, key)
	if err != nil {
		return nil, err
	}
	kv, err := c.get(ctx, key, kind)
	if err != nil {
		return nil, err
	}
	c.notify(func(o core.Observer) { o.OnLoadedKey(kv) })
	return kv, nil
}

func (c *Connection) keyKind(ctx context.Context, key string) (value.Kind, error) {
	if err := c.gate("TYPE"); err != nil {
		return 0, err
	}
	cmd, err := c.translator.TypeCommand(key)
	if err != nil {
		return 0, err
	}
	reply, err := c.call(ctx, cmd, protocol.KindStatus, protocol.KindString)
	if err != nil {
		return 0, err
	}
	tag, _ := protocol.Text(reply)
	if string(tag) == "none" {
		return 0, errs.KeyNotFound(cmd.Name())
	}
	kind, ok := typeKinds[string(tag)]
	if !ok {
		return 0, &errs.UnknownTypeError{Key: key, Type: string(tag)}
	}
	return kind, nil
}

// Type returns the kind of key
func (c *Connection) Type(ctx context.Context, key string) (value.Kind, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keyKind(ctx, key)
}

// Set stores kv, a positive TTL is applied afterwards
func (c *Connection) Set(ctx context.Context, kv *value.KeyValue) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.set(ctx, kv); err != nil {
		return err
	}
	c.notify(func(o core.Observer) { o.OnAddedKey(kv) })
	return nil
}

func (c *Connection) set(ctx context.Context, kv *value.KeyValue) error {
	if err := c.gate("SET"); err != nil {
		return err
	}
	cmds, err := c.translator.SetKeyCommands(kv)
	if err != nil {
		return err
	}
	for _, cmd := range cmds {
		if _, err := c.call(ctx, cmd, storeKinds...); err != nil {
			return err
		}
	}
	if kv.TTL > 0 {
		return c.setTTL(ctx, kv.Key, kv.TTL)
	}
	return nil
}

// Replace deletes key and stores kv in its place, keeping the previous TTL
func (c *Connection) Replace(ctx context.Context, kv *value.KeyValue) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.replace(ctx, kv); err != nil {
		return err
	}
	c.notify(func(o core.Observer) { o.OnAddedKey(kv) })
	return nil
}

func (c *Connection) replace(ctx context.Context, kv *value.KeyValue) error {
	ttl, err := c.getTTL(ctx, kv.Key)
	if err != nil {
		return err
	}
	if _, err := c.del(ctx, kv.Key); err != nil {
		return err
	}
	stored := *kv
	stored.TTL = value.NoTTL
	if err := c.set(ctx, &stored); err != nil {
		return err
	}
	if ttl > 0 {
		return c.setTTL(ctx, kv.Key, ttl)
	}
	return nil
}

// Delete sends one DEL per key and returns the keys actually removed
func (c *Connection) Delete(ctx context.Context, keys ...string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var removed []string
	for _, key := range keys {
		ok, err := c.del(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			removed = append(removed, key)
		}
	}
	if len(removed) > 0 {
		c.notify(func(o core.Observer) { o.OnRemovedKeys(removed) })
	}
	return removed, nil
}

func (c *Connection) del(ctx context.Context, key string) (bool, error) {
	if err := c.gate("DEL"); err != nil {
		return false, err
	}
	cmd, err := c.translator.DeleteCommand(key)
	if err != nil {
		return false, err
	}
	reply, err := c.call(ctx, cmd, protocol.KindInteger)
	if err != nil {
		return false, err
	}
	return reply.(*protocol.IntReply).Code > 0, nil
}

// Rename renames oldKey to newKey
func (c *Connection) Rename(ctx context.Context, oldKey, newKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("RENAME"); err != nil {
		return err
	}
	cmd, err := c.translator.RenameCommand(oldKey, newKey)
	if err != nil {
		return err
	}
	if _, err := c.call(ctx, cmd, okKinds...); err != nil {
		return err
	}
	c.notify(func(o core.Observer) { o.OnRenamedKey(oldKey, newKey) })
	return nil
}

// Scan runs one SCAN iteration
func (c *Connection) Scan(ctx context.Context, cursor uint64, pattern string, count int64) (uint64, []string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("SCAN"); err != nil {
		return 0, nil, err
	}
	cmd, err := c.translator.ScanCommand(cursor, pattern, count)
	if err != nil {
		return 0, nil, err
	}
	reply, err := c.call(ctx, cmd, protocol.KindArray)
	if err != nil {
		return 0, nil, err
	}
	return translator.DecodeScan(reply)
}

// ScanAll iterates SCAN until the cursor comes back to 0
func (c *Connection) ScanAll(ctx context.Context, pattern string, count int64) ([]string, error) {
	var keys []string
	cursor := uint64(0)
	for {
		next, batch, err := c.Scan(ctx, cursor, pattern, count)
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

// SetTTL sets the TTL of key in seconds, NoTTL makes it persistent
func (c *Connection) SetTTL(ctx context.Context, key string, ttl value.TTL) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.setTTL(ctx, key, ttl); err != nil {
		return err
	}
	c.notify(func(o core.Observer) { o.OnChangedKeyTTL(key, ttl) })
	return nil
}

func (c *Connection) setTTL(ctx context.Context, key string, ttl value.TTL) error {
	if err := c.gate("EXPIRE"); err != nil {
		return err
	}
	cmd, err := c.translator.SetTTLCommand(key, ttl)
	if err != nil {
		return err
	}
	reply, err := c.call(ctx, cmd, protocol.KindInteger)
	if err != nil {
		return err
	}
	// PERSIST answers 0 for a key without TTL as well
	if ttl != value.NoTTL && reply.(*protocol.IntReply).Code == 0 {
		return errs.KeyNotFound(cmd.Name())
	}
	return nil
}

// GetTTL returns the TTL of key
func (c *Connection) GetTTL(ctx context.Context, key string) (value.TTL, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ttl, err := c.getTTL(ctx, key)
	if err != nil {
		return 0, err
	}
	c.notify(func(o core.Observer) { o.OnLoadedKeyTTL(key, ttl) })
	return ttl, nil
}

func (c *Connection) getTTL(ctx context.Context, key string) (value.TTL, error) {
	if err := c.gate("TTL"); err != nil {
		return 0, err
	}
	cmd, err := c.translator.GetTTLCommand(key)
	if err != nil {
		return 0, err
	}
	reply, err := c.call(ctx, cmd, protocol.KindInteger)
	if err != nil {
		return 0, err
	}
	return translator.DecodeTTL(reply)
}

// Select switches the database
func (c *Connection) Select(ctx context.Context, db int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("SELECT"); err != nil {
		return err
	}
	cmd, err := c.translator.SelectCommand(db)
	if err != nil {
		return err
	}
	if _, err := c.call(ctx, cmd, okKinds...); err != nil {
		return err
	}
	c.db = db
	logger.Debug("select db " + strconv.Itoa(db) + " on " + c.label())
	return nil
}

// DBSize returns the number of keys of the selected database
func (c *Connection) DBSize(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("DBSIZE"); err != nil {
		return 0, err
	}
	cmd, err := c.translator.DBSizeCommand()
	if err != nil {
		return 0, err
	}
	reply, err := c.call(ctx, cmd, protocol.KindInteger)
	if err != nil {
		return 0, err
	}
	return translator.DecodeInteger(reply)
}

// Info returns the key:value fields of INFO section, an empty section means the default one
func (c *Connection) Info(ctx context.Context, section string) (*value.MapValue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("INFO"); err != nil {
		return nil, err
	}
	cmd, err := c.translator.InfoCommand(section)
	if err != nil {
		return nil, err
	}
	reply, err := c.call(ctx, cmd, protocol.KindString)
	if err != nil {
		return nil, err
	}
	return translator.DecodeInfo(reply)
}

// IncrByFloat increments the float stored at key and returns the new value
func (c *Connection) IncrByFloat(ctx context.Context, key string, increment decimal.Decimal) (decimal.Decimal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("INCRBYFLOAT"); err != nil {
		return decimal.Zero, err
	}
	cmd, err := c.translator.IncrByFloatCommand(key, increment)
	if err != nil {
		return decimal.Zero, err
	}
	reply, err := c.call(ctx, cmd, protocol.KindString)
	if err != nil {
		return decimal.Zero, err
	}
	raw, _ := protocol.Text(reply)
	result, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Zero, &errs.DecodeError{Kind: value.KindDouble.String(), Reason: "'" + string(raw) + "' is not a decimal"}
	}
	c.notify(func(o core.Observer) {
		o.OnAddedKey(value.MakeKeyValue(key, value.MakeString(raw)))
	})
	return result, nil
}

// Forward sends line verbatim and converts the reply generically
func (c *Connection) Forward(ctx context.Context, line [][]byte) (value.Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cmd := translator.CommandBuffer(line)
	if !ungated[cmd.Name()] {
		if err := c.gate(cmd.Name()); err != nil {
			return nil, err
		}
	}
	reply, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if e, ok := reply.(protocol.ErrorReply); ok {
		return nil, &errs.ServerError{Command: cmd.Name(), Msg: e.Error()}
	}
	return translator.ValueFromReply(reply), nil
}

func (c *Connection) load(ctx context.Context, key string, kind value.Kind) (value.Value, error) {
	kv, err := c.Get(ctx, key, kind)
	if err != nil {
		return nil, err
	}
	return kv.Value, nil
}

// LoadList loads a list
func (c *Connection) LoadList(ctx context.Context, key string) (*value.ArrayValue, error) {
	v, err := c.load(ctx, key, value.KindArray)
	if err != nil {
		return nil, err
	}
	return v.(*value.ArrayValue), nil
}

// LoadSet loads a set
func (c *Connection) LoadSet(ctx context.Context, key string) (*value.SetValue, error) {
	v, err := c.load(ctx, key, value.KindSet)
	if err != nil {
		return nil, err
	}
	return v.(*value.SetValue), nil
}

// LoadHash loads a hash
func (c *Connection) LoadHash(ctx context.Context, key string) (*value.MapValue, error) {
	v, err := c.load(ctx, key, value.KindMap)
	if err != nil {
		return nil, err
	}
	return v.(*value.MapValue), nil
}

// LoadSortedSet loads a sorted set with scores
func (c *Connection) LoadSortedSet(ctx context.Context, key string) (*value.SortedSetValue, error) {
	v, err := c.load(ctx, key, value.KindSortedSet)
	if err != nil {
		return nil, err
	}
	return v.(*value.SortedSetValue), nil
}
