package snapshot

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	rdb "github.com/hdt3213/rdb/parser"
	"go.uber.org/multierr"

	"github.com/hdt3213/nosqlcore/engine"
	"github.com/hdt3213/nosqlcore/lib/logger"
	"github.com/hdt3213/nosqlcore/value"
)

// Import stores every object of the RDB stream r through conn and returns the number of stored keys.
// An existing key is overwritten, expired objects are skipped.
// Failures of single keys do not stop the import, they are combined into the returned error.
func Import(ctx context.Context, conn *engine.Connection, r io.Reader) (int, error) {
	var result error
	imported := 0
	decoder := rdb.NewDecoder(r)
	parseErr := decoder.Parse(func(o rdb.RedisObject) bool {
		if err := ctx.Err(); err != nil {
			result = multierr.Append(result, err)
			return false
		}
		kv := toKeyValue(o)
		if kv == nil {
			return true
		}
		if kv.TTL == value.ExpiredTTL {
			return true
		}
		if db := o.GetDBIndex(); db != conn.DB() {
			if err := conn.Select(ctx, db); err != nil {
				result = multierr.Append(result, fmt.Errorf("select db %d: %w", db, err))
				return true
			}
		}
		if err := store(ctx, conn, kv); err != nil {
			result = multierr.Append(result, fmt.Errorf("import %s: %w", kv.Key, err))
			return true
		}
		imported++
		return true
	})
	if parseErr != nil {
		result = multierr.Append(result, parseErr)
	}
	return imported, result
}

func store(ctx context.Context, conn *engine.Connection, kv *value.KeyValue) error {
	if _, err := conn.Delete(ctx, kv.Key); err != nil {
		return err
	}
	return conn.Set(ctx, kv)
}

// toKeyValue converts a parsed object, nil means the object type is not imported
func toKeyValue(o rdb.RedisObject) *value.KeyValue {
	var v value.Value
	switch o.GetType() {
	case rdb.StringType:
		v = value.MakeString(o.(*rdb.StringObject).Value)
	case rdb.ListType:
		v = value.MakeList(o.(*rdb.ListObject).Values...)
	case rdb.SetType:
		v = value.MakeSet(o.(*rdb.SetObject).Members...)
	case rdb.HashType:
		hash := o.(*rdb.HashObject).Hash
		pairs := make([]value.Pair, 0, len(hash))
		for field, val := range hash {
			pairs = append(pairs, value.Pair{Field: []byte(field), Val: val})
		}
		v = value.MakeMap(pairs...)
	case rdb.ZSetType:
		entries := o.(*rdb.ZSetObject).Entries
		members := make([]value.ScoredMember, 0, len(entries))
		for _, e := range entries {
			members = append(members, value.ScoredMember{Member: []byte(e.Member), Score: e.Score})
		}
		v = value.MakeSortedSet(members...)
	case rdb.AuxType, rdb.DBSizeType:
		return nil
	default:
		logger.Warn("snapshot: skip " + o.GetType() + " key " + o.GetKey())
		return nil
	}
	kv := value.MakeKeyValue(o.GetKey(), v)
	if expiration := o.GetExpiration(); expiration != nil {
		kv.TTL = remaining(*expiration)
	}
	return kv
}

// remaining rounds the time left up to whole seconds, ExpiredTTL if it has passed
func remaining(expireAt time.Time) value.TTL {
	left := time.Until(expireAt)
	if left <= 0 {
		return value.ExpiredTTL
	}
	return value.TTL(math.Ceil(left.Seconds()))
}
