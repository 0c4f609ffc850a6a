// Package snapshot dumps keys of a connection into RDB files and restores them
package snapshot

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/hdt3213/rdb/core"
	rdb "github.com/hdt3213/rdb/encoder"
	"github.com/hdt3213/rdb/model"

	"github.com/hdt3213/nosqlcore/engine"
	"github.com/hdt3213/nosqlcore/errs"
	"github.com/hdt3213/nosqlcore/lib/logger"
	"github.com/hdt3213/nosqlcore/value"
)

const scanCount = 100

type entry struct {
	kv       *value.KeyValue
	expireAt time.Time
}

// Export writes every key matching pattern into w as an RDB stream and returns the number of dumped keys.
// Stream and JSON keys have no RDB encoding here and are skipped.
func Export(ctx context.Context, conn *engine.Connection, w io.Writer, pattern string) (int, error) {
	keys, err := conn.ScanAll(ctx, pattern, scanCount)
	if err != nil {
		return 0, err
	}
	entries := make([]*entry, 0, len(keys))
	ttlCount := 0
	for _, key := range keys {
		e, err := collect(ctx, conn, key)
		if err != nil {
			return 0, err
		}
		if e == nil {
			continue
		}
		if !e.expireAt.IsZero() {
			ttlCount++
		}
		entries = append(entries, e)
	}

	encoder := rdb.NewEncoder(w).EnableCompress()
	if err := encoder.WriteHeader(); err != nil {
		return 0, err
	}
	auxMap := map[string]string{
		"redis-ver":  "6.0.0",
		"redis-bits": "64",
		"ctime":      strconv.FormatInt(time.Now().Unix(), 10),
	}
	for k, v := range auxMap {
		if err := encoder.WriteAux(k, v); err != nil {
			return 0, err
		}
	}
	if len(entries) > 0 {
		err = encoder.WriteDBHeader(uint(conn.DB()), uint64(len(entries)), uint64(ttlCount))
		if err != nil {
			return 0, err
		}
	}
	for _, e := range entries {
		if err := writeEntry(encoder, e); err != nil {
			return 0, err
		}
	}
	if err := encoder.WriteEnd(); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// collect loads key with its TTL, nil means the key is skipped
func collect(ctx context.Context, conn *engine.Connection, key string) (*entry, error) {
	kind, err := conn.Type(ctx, key)
	var domainErr *errs.DomainError
	if errors.As(err, &domainErr) {
		// removed after the scan
		return nil, nil
	}
	var unknownErr *errs.UnknownTypeError
	if errors.As(err, &unknownErr) {
		logger.Warn("snapshot: skip " + unknownErr.Type + " key " + key)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if kind == value.KindStream || kind == value.KindJSON {
		logger.Warn("snapshot: skip " + kind.String() + " key " + key)
		return nil, nil
	}
	kv, err := conn.Get(ctx, key, kind)
	if errors.As(err, &domainErr) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ttl, err := conn.GetTTL(ctx, key)
	if err != nil {
		return nil, err
	}
	if ttl == value.ExpiredTTL {
		return nil, nil
	}
	kv.TTL = ttl
	e := &entry{kv: kv}
	if ttl.IsSet() {
		e.expireAt = time.Now().Add(ttl.Duration())
	}
	return e, nil
}

func writeEntry(encoder *core.Encoder, e *entry) error {
	var opts []interface{}
	if !e.expireAt.IsZero() {
		opts = append(opts, rdb.WithTTL(uint64(e.expireAt.UnixMilli())))
	}
	key := e.kv.Key
	switch v := e.kv.Value.(type) {
	case *value.StringValue:
		return encoder.WriteStringObject(key, v.Val, opts...)
	case *value.ArrayValue:
		items, ok := v.Strings()
		if !ok {
			return &errs.ValidationError{Command: "dump", Reason: "list " + key + " holds nested values"}
		}
		return encoder.WriteListObject(key, items, opts...)
	case *value.SetValue:
		return encoder.WriteSetObject(key, v.Members, opts...)
	case *value.MapValue:
		hash := make(map[string][]byte, len(v.Pairs))
		for _, p := range v.Pairs {
			hash[string(p.Field)] = p.Val
		}
		return encoder.WriteHashMapObject(key, hash, opts...)
	case *value.SortedSetValue:
		entries := make([]*model.ZSetEntry, 0, len(v.Members))
		for _, m := range v.Members {
			entries = append(entries, &model.ZSetEntry{Member: string(m.Member), Score: m.Score})
		}
		return encoder.WriteZSetObject(key, entries, opts...)
	}
	logger.Warn("snapshot: skip " + e.kv.Value.Kind().String() + " key " + key)
	return nil
}
